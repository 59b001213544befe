package scheduling

import (
	"context"
	"log/slog"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
)

// CredentialStore reads calendar tokens and contact emails from the user store.
type CredentialStore interface {
	// CalendarCredential reports false when the user never connected a calendar.
	CalendarCredential(ctx context.Context, userID int64) (string, bool, error)
	Emails(ctx context.Context, userIDs []int64) ([]string, error)
}

type Service struct {
	oracle Oracle
	creds  CredentialStore
	logger *slog.Logger
}

// NewService accepts a nil oracle, Book then never books anything.
func NewService(oracle Oracle, creds CredentialStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{oracle: oracle, creds: creds, logger: logger}
}

// Book creates a calendar event for organizerID. It returns nil without error
// when no calendar is configured or the organizer has no credential.
func (s *Service) Book(ctx context.Context, organizerID int64, req BookingRequest) (*Event, error) {
	if s == nil || s.oracle == nil {
		return nil, nil
	}

	credential, ok, err := s.creds.CalendarCredential(ctx, organizerID)
	if err != nil {
		return nil, apperrors.ErrSchedulingUnavailable.WithCause(err)
	}
	if !ok {
		s.logger.Debug("organizer has no calendar credential", "user_id", organizerID)
		return nil, nil
	}

	attendees, err := s.creds.Emails(ctx, append([]int64{organizerID}, req.AttendeeIDs...))
	if err != nil {
		return nil, apperrors.ErrSchedulingUnavailable.WithCause(err)
	}

	event, err := s.oracle.CreateEvent(ctx, credential, EventRequest{
		Summary:         req.Summary,
		Attendees:       attendees,
		Start:           req.Start,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		s.logger.Warn("calendar event creation failed", "user_id", organizerID, "error", err)
		return nil, apperrors.ErrSchedulingUnavailable.WithCause(err)
	}
	return event, nil
}
