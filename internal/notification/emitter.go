package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/applicant-tracking/internal/core/events"
)

// Sink is the best-effort notification writer used by the lifecycle engines.
type Sink interface {
	Emit(ctx context.Context, n Notice) EmitResult
	EmitAll(ctx context.Context, notices []Notice) int
}

type Emitter struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

// NewEmitter wires the writer. publisher may be nil when no email dispatch is configured.
func NewEmitter(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{repo: repo, publisher: publisher, logger: logger}
}

// Emit persists the notification unread and not yet emailed. It never panics
// and never returns an error value.
func (e *Emitter) Emit(ctx context.Context, n Notice) (result EmitResult) {
	defer func() {
		if r := recover(); r != nil {
			result = EmitResult{err: fmt.Errorf("notification emit panicked: %v", r)}
		}
	}()

	row := newNotification(n)
	if err := e.repo.Create(ctx, row); err != nil {
		return EmitResult{err: err}
	}

	if e.publisher != nil {
		evt := events.NewNotificationCreatedEvent(row.ID, row.UserID, row.Title, row.Message)
		if err := e.publisher.Publish(ctx, evt); err != nil {
			e.logger.Warn("failed to publish notification event", "notification_id", row.ID, "error", err)
		}
	}

	return EmitResult{NotificationID: row.ID}
}

// EmitAll attempts every notice independently and returns how many failed.
func (e *Emitter) EmitAll(ctx context.Context, notices []Notice) int {
	failed := 0
	for _, n := range notices {
		res := e.Emit(ctx, n)
		if res.Failed() {
			failed++
			res.LogIfFailed(e.logger, "notification emit failed",
				"user_id", n.UserID,
				"type", n.Type,
				"related_entity_id", n.RelatedEntityID)
		}
	}
	return failed
}
