package notification_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/frahmantamala/applicant-tracking/internal/core/events"
	"github.com/frahmantamala/applicant-tracking/internal/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type memoryRepository struct {
	notification.RepositoryAPI
	mu        sync.Mutex
	rows      []*notification.Notification
	createErr error
	panicOn   int64
}

func (m *memoryRepository) Create(ctx context.Context, n *notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panicOn != 0 && n.UserID == m.panicOn {
		panic("driver exploded")
	}
	if m.createErr != nil {
		return m.createErr
	}
	n.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, n)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

var _ = Describe("Emitter", func() {
	var (
		repo      *memoryRepository
		publisher *recordingPublisher
		logs      *bytes.Buffer
		emitter   *notification.Emitter
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &memoryRepository{}
		publisher = &recordingPublisher{}
		logs = &bytes.Buffer{}
		emitter = notification.NewEmitter(repo, publisher, slog.New(slog.NewTextHandler(logs, nil)))
	})

	It("persists unread, unsent notifications and announces them", func() {
		res := emitter.Emit(ctx, notification.Notice{
			UserID:            7,
			Type:              notification.TypeApplicationReceived,
			Title:             "New Application",
			Message:           "someone applied",
			RelatedEntityType: notification.EntityApplication,
			RelatedEntityID:   42,
		})

		Expect(res.Failed()).To(BeFalse())
		Expect(res.NotificationID).To(Equal(int64(1)))
		Expect(repo.rows).To(HaveLen(1))
		Expect(repo.rows[0].IsRead).To(BeFalse())
		Expect(repo.rows[0].EmailSent).To(BeFalse())
		Expect(*repo.rows[0].RelatedEntityID).To(Equal(int64(42)))

		Expect(publisher.events).To(HaveLen(1))
		Expect(publisher.events[0].EventType()).To(Equal(events.EventTypeNotificationCreated))
	})

	It("reports store failures without returning an error", func() {
		repo.createErr = errors.New("notifications table is gone")

		res := emitter.Emit(ctx, notification.Notice{UserID: 1, Title: "t"})
		Expect(res.Failed()).To(BeTrue())
		Expect(res.Reason()).To(ContainSubstring("table is gone"))
		Expect(publisher.events).To(BeEmpty())

		res.LogIfFailed(slog.New(slog.NewTextHandler(logs, nil)), "emit failed", "user_id", 1)
		Expect(logs.String()).To(ContainSubstring("emit failed"))
	})

	It("contains panics from the store", func() {
		repo.panicOn = 3

		var res notification.EmitResult
		Expect(func() { res = emitter.Emit(ctx, notification.Notice{UserID: 3}) }).NotTo(Panic())
		Expect(res.Failed()).To(BeTrue())
	})

	It("keeps fanning out after an individual failure", func() {
		repo.panicOn = 2

		failed := emitter.EmitAll(ctx, []notification.Notice{
			{UserID: 1, Title: "a"},
			{UserID: 2, Title: "b"},
			{UserID: 3, Title: "c"},
		})

		Expect(failed).To(Equal(1))
		Expect(repo.rows).To(HaveLen(2))
		Expect(logs.String()).To(ContainSubstring("notification emit failed"))
	})

	It("works without a publisher", func() {
		quiet := notification.NewEmitter(repo, nil, nil)
		Expect(quiet.Emit(ctx, notification.Notice{UserID: 1}).Failed()).To(BeFalse())
	})
})
