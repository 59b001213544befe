package events

import (
	"context"
	"log/slog"
)

// LifecycleEventTypes are the application and interview transitions recorded by AuditLog.
var LifecycleEventTypes = []string{
	EventTypeApplicationStatusChanged,
	EventTypeApplicationHired,
	EventTypeInterviewScheduled,
}

// AuditLog writes one structured record per lifecycle event.
type AuditLog struct {
	logger *slog.Logger
}

func NewAuditLog(logger *slog.Logger) *AuditLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLog{logger: logger}
}

func (a *AuditLog) Handle(ctx context.Context, event Event) error {
	a.logger.InfoContext(ctx, "lifecycle event",
		"event_id", event.EventID(),
		"event_type", event.EventType(),
		"occurred_at", event.OccurredAt(),
		"payload", event.Payload())
	return nil
}

// Register subscribes the audit log to every lifecycle event type.
func (a *AuditLog) Register(bus *EventBus) {
	for _, t := range LifecycleEventTypes {
		bus.Subscribe(t, a.Handle)
	}
}
