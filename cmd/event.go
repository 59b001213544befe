package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/applicant-tracking/internal/core/events"
	"github.com/frahmantamala/applicant-tracking/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Lifecycle event tools",
	Long:  `Publish lifecycle events on an in-process bus to debug subscribers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a lifecycle event",
	Long: `Build a lifecycle event from flags and publish it on an in-process bus.
Supported types: notification.created, application.status_changed,
application.hired, interview.scheduled`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		evt, err := buildEvent(args[0])
		if err != nil {
			return err
		}
		return publishEvent(cmd.Context(), evt)
	},
}

var eventFlags struct {
	userID        int64
	applicationID int64
	jobID         int64
	title         string
	message       string
	from          string
	to            string
}

func buildEvent(eventType string) (events.Event, error) {
	f := eventFlags
	switch eventType {
	case events.EventTypeNotificationCreated:
		return events.NewNotificationCreatedEvent(0, f.userID, f.title, f.message), nil
	case events.EventTypeApplicationStatusChanged:
		return events.NewApplicationStatusChangedEvent(f.applicationID, f.jobID, f.userID, f.from, f.to), nil
	case events.EventTypeApplicationHired:
		return events.NewApplicationHiredEvent(f.applicationID, f.jobID, f.userID, nil), nil
	case events.EventTypeInterviewScheduled:
		return events.NewInterviewScheduledEvent(0, f.applicationID, f.userID, time.Now().Add(24*time.Hour)), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}

func publishEvent(ctx context.Context, evt events.Event) error {
	if ctx == nil {
		ctx = context.Background()
	}
	lg := logger.LoggerWrapper()

	bus := events.NewEventBus(lg)
	bus.Subscribe(evt.EventType(), func(ctx context.Context, e events.Event) error {
		lg.Info("subscriber received event",
			"event_id", e.EventID(),
			"event_type", e.EventType(),
			"payload", e.Payload())
		return nil
	})

	if err := bus.Publish(ctx, evt); err != nil {
		return fmt.Errorf("publish %s: %w", evt.EventType(), err)
	}
	bus.Wait()

	lg.Info("event delivered", "event_type", evt.EventType(), "event_id", evt.EventID())
	return nil
}

func init() {
	fs := publishEventCmd.Flags()
	fs.Int64Var(&eventFlags.userID, "user-id", 1, "Recipient or candidate user id")
	fs.Int64Var(&eventFlags.applicationID, "application-id", 1, "Application id")
	fs.Int64Var(&eventFlags.jobID, "job-id", 1, "Job id")
	fs.StringVar(&eventFlags.title, "title", "Test notification", "Notification title")
	fs.StringVar(&eventFlags.message, "message", "test message", "Notification message")
	fs.StringVar(&eventFlags.from, "from", "applied", "Previous application status")
	fs.StringVar(&eventFlags.to, "to", "shortlisted", "New application status")

	eventCmd.AddCommand(publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
