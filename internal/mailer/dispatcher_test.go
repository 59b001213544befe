package mailer_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	notificationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/notification"
	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
	"github.com/frahmantamala/applicant-tracking/internal/core/datastore/sqlitetest"
	"github.com/frahmantamala/applicant-tracking/internal/core/events"
	"github.com/frahmantamala/applicant-tracking/internal/mailer"
	"github.com/frahmantamala/applicant-tracking/internal/notification"
	notificationPostgres "github.com/frahmantamala/applicant-tracking/internal/notification/postgres"
	userPostgres "github.com/frahmantamala/applicant-tracking/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *recordingSender) Sent() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Message(nil), s.sent...)
}

var _ = Describe("Dispatcher", func() {
	var (
		ctx        context.Context
		db         *gorm.DB
		sender     *recordingSender
		outbox     *notificationPostgres.NotificationRepository
		dispatcher *mailer.Dispatcher
		candidate  *userDatamodel.User
	)

	emailSent := func(id int64) func() bool {
		return func() bool {
			var row notificationDatamodel.Notification
			Expect(db.First(&row, id).Error).To(Succeed())
			return row.EmailSent
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(sqlitetest.Close, db)

		candidate, err = sqlitetest.SeedUser(db, "c1@example.com", userDatamodel.RoleCandidate)
		Expect(err).NotTo(HaveOccurred())

		sender = &recordingSender{}
		outbox = notificationPostgres.NewNotificationRepository(db)
		dispatcher = mailer.NewDispatcher(mailer.Config{
			From:          "no-reply@example.com",
			MaxWorkers:    2,
			JobQueueSize:  10,
			RatePerSecond: 100,
		}, sender, outbox, userPostgres.NewUserRepository(db), nil)
		dispatcher.Start()
		DeferCleanup(dispatcher.Shutdown)
	})

	It("emails a notification once it is created and marks it sent", func() {
		bus := events.NewEventBus(slog.Default())
		bus.Subscribe(events.EventTypeNotificationCreated, dispatcher.HandleNotificationCreated)
		emitter := notification.NewEmitter(outbox, bus, nil)

		result := emitter.Emit(ctx, notification.Notice{
			UserID:  candidate.ID,
			Type:    notification.TypeApplicationStatus,
			Title:   "Application Shortlisted",
			Message: "Good news!",
		})
		Expect(result.Failed()).To(BeFalse())
		bus.Wait()

		items, err := outbox.ListByUser(ctx, candidate.ID, false, 10, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(1))

		Eventually(emailSent(items[0].ID)).WithTimeout(2 * time.Second).Should(BeTrue())
		Expect(sender.Sent()).To(HaveLen(1))
		Expect(sender.Sent()[0].To).To(Equal("c1@example.com"))
		Expect(sender.Sent()[0].Subject).To(Equal("Application Shortlisted"))
		Expect(sender.Sent()[0].From).To(Equal("no-reply@example.com"))
	})

	It("sweeps notifications that were never emailed", func() {
		n := &notification.Notification{UserID: candidate.ID, Type: notification.TypeInterviewScheduled, Title: "Interview Scheduled", Message: "Monday"}
		Expect(outbox.Create(ctx, n)).To(Succeed())

		queued, err := dispatcher.Sweep(ctx, 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(queued).To(Equal(1))

		Eventually(emailSent(n.ID)).WithTimeout(2 * time.Second).Should(BeTrue())
	})

	It("leaves the notification pending when delivery fails", func() {
		sender.Fail(errors.New("smtp relay down"))
		n := &notification.Notification{UserID: candidate.ID, Type: notification.TypeInterviewScheduled, Title: "Interview Scheduled", Message: "Monday"}
		Expect(outbox.Create(ctx, n)).To(Succeed())

		Expect(dispatcher.Enqueue(mailer.EmailJob{NotificationID: n.ID, UserID: candidate.ID, Title: n.Title, Message: n.Message})).To(Succeed())

		Consistently(emailSent(n.ID)).WithTimeout(300 * time.Millisecond).Should(BeFalse())
	})

	It("settles mail for closed accounts so later sweeps reach newer rows", func() {
		closed, err := sqlitetest.SeedUser(db, "gone@example.com", userDatamodel.RoleCandidate)
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Model(closed).Update("status", userDatamodel.StatusClosed).Error).To(Succeed())

		var stale []int64
		for i := 0; i < 3; i++ {
			n := &notification.Notification{UserID: closed.ID, Type: notification.TypeApplicationStatus, Title: "Application Update", Message: "closed"}
			Expect(outbox.Create(ctx, n)).To(Succeed())
			stale = append(stale, n.ID)
		}
		fresh := &notification.Notification{UserID: candidate.ID, Type: notification.TypeApplicationStatus, Title: "Application Update", Message: "open"}
		Expect(outbox.Create(ctx, fresh)).To(Succeed())

		Eventually(func(g Gomega) bool {
			_, err := dispatcher.Sweep(ctx, 3)
			g.Expect(err).NotTo(HaveOccurred())
			return emailSent(fresh.ID)()
		}).WithTimeout(3 * time.Second).WithPolling(100 * time.Millisecond).Should(BeTrue())

		for _, id := range stale {
			Expect(emailSent(id)()).To(BeTrue())
		}
		Expect(sender.Sent()).NotTo(BeEmpty())
		for _, msg := range sender.Sent() {
			Expect(msg.To).To(Equal("c1@example.com"))
		}
	})

	It("rejects events of the wrong shape", func() {
		err := dispatcher.HandleNotificationCreated(ctx, events.NewApplicationStatusChangedEvent(1, 1, 1, "applied", "shortlisted"))
		Expect(err).To(HaveOccurred())
	})
})
