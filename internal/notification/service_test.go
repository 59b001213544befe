package notification_test

import (
	"context"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
	"github.com/frahmantamala/applicant-tracking/internal/core/datastore/sqlitetest"
	"github.com/frahmantamala/applicant-tracking/internal/notification"
	"github.com/frahmantamala/applicant-tracking/internal/notification/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Service", func() {
	var (
		db      *gorm.DB
		repo    *postgres.NotificationRepository
		emitter *notification.Emitter
		service *notification.Service
		owner   *userDatamodel.User
		other   *userDatamodel.User
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(sqlitetest.Close, db)

		owner, err = sqlitetest.SeedUser(db, "owner@example.com", userDatamodel.RoleCandidate)
		Expect(err).NotTo(HaveOccurred())
		other, err = sqlitetest.SeedUser(db, "other@example.com", userDatamodel.RoleCandidate)
		Expect(err).NotTo(HaveOccurred())

		repo = postgres.NewNotificationRepository(db)
		emitter = notification.NewEmitter(repo, nil, nil)
		service = notification.NewService(repo, nil)

		for _, title := range []string{"first", "second", "third"} {
			Expect(emitter.Emit(ctx, notification.Notice{UserID: owner.ID, Title: title}).Failed()).To(BeFalse())
		}
	})

	It("lists newest first and counts unread", func() {
		items, err := service.ListForUser(ctx, owner.ID, false, 10, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(3))
		Expect(items[0].Title).To(Equal("third"))

		count, err := service.UnreadCount(ctx, owner.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(3)))
	})

	It("marks single and all notifications read", func() {
		items, err := service.ListForUser(ctx, owner.ID, false, 10, 0)
		Expect(err).NotTo(HaveOccurred())

		Expect(service.MarkRead(ctx, items[0].ID, owner.ID)).To(Succeed())
		unread, err := service.ListForUser(ctx, owner.ID, true, 10, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(unread).To(HaveLen(2))

		updated, err := service.MarkAllRead(ctx, owner.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(updated).To(Equal(int64(2)))
	})

	It("hides other users' notifications", func() {
		items, err := service.ListForUser(ctx, owner.ID, false, 10, 0)
		Expect(err).NotTo(HaveOccurred())

		err = service.MarkRead(ctx, items[0].ID, other.ID)
		Expect(err).To(MatchError(apperrors.ErrNotificationNotFound))

		err = service.Delete(ctx, items[0].ID, other.ID)
		Expect(err).To(MatchError(apperrors.ErrNotificationNotFound))

		Expect(service.Delete(ctx, items[0].ID, owner.ID)).To(Succeed())
	})

	It("tracks pending email delivery", func() {
		pending, err := repo.ListEmailPending(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(HaveLen(3))

		Expect(repo.MarkEmailSent(ctx, pending[0].ID)).To(Succeed())
		pending, err = repo.ListEmailPending(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(HaveLen(2))

		Expect(repo.MarkEmailSent(ctx, 9999)).To(MatchError(apperrors.ErrNotificationNotFound))
	})

	It("fails the emit, not the caller, for unknown recipients", func() {
		res := emitter.Emit(ctx, notification.Notice{UserID: 9999, Title: "ghost"})
		Expect(res.Failed()).To(BeTrue())
	})
})
