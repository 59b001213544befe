package application

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
	"github.com/frahmantamala/applicant-tracking/internal/core/events"
	"github.com/frahmantamala/applicant-tracking/internal/job"
	"github.com/frahmantamala/applicant-tracking/internal/notification"
)

type RepositoryAPI interface {
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	FindByJobAndCandidate(ctx context.Context, jobID, candidateID int64) (*Application, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdateNotes(ctx context.Context, id int64, notes string) error
	// Hire marks the application hired, rejects its siblings and closes the job
	// atomically. It returns the siblings whose status changed.
	Hire(ctx context.Context, id, jobID int64) ([]*Application, error)
	ListByJob(ctx context.Context, jobID int64, limit, offset int) ([]*Application, error)
	ListByCandidate(ctx context.Context, candidateID int64, limit, offset int) ([]*Application, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type JobReader interface {
	GetByID(ctx context.Context, id int64) (*job.Job, error)
}

type Service struct {
	repo      RepositoryAPI
	jobs      JobReader
	notifier  notification.Sink
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, jobs JobReader, notifier notification.Sink, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		jobs:      jobs,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// SubmitApplication creates an application in the applied state for an active job.
func (s *Service) SubmitApplication(ctx context.Context, candidateID int64, dto SubmitApplicationDTO) (*Application, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	j, err := s.jobs.GetByID(ctx, dto.JobID)
	if err != nil {
		return nil, asAppError(err, "failed to load job")
	}

	existing, err := s.repo.FindByJobAndCandidate(ctx, dto.JobID, candidateID)
	if err != nil {
		return nil, asAppError(err, "failed to check existing application")
	}
	if existing != nil {
		s.logger.Warn("duplicate application rejected", "job_id", dto.JobID, "candidate_id", candidateID)
		return nil, apperrors.ErrDuplicateApplication
	}

	if !j.AcceptsApplications() {
		return nil, apperrors.ErrJobNotActive
	}

	a := NewApplication(candidateID, dto)
	// the unique index is the real guard, Create maps its violation to the same conflict
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateApplication) {
			s.logger.Warn("duplicate application rejected by store", "job_id", dto.JobID, "candidate_id", candidateID)
			return nil, apperrors.ErrDuplicateApplication
		}
		s.logger.Error("failed to create application", "error", err, "job_id", dto.JobID, "candidate_id", candidateID)
		return nil, asAppError(err, "failed to create application")
	}

	s.logger.Info("application submitted", "application_id", a.ID, "job_id", a.JobID, "candidate_id", candidateID)

	s.notifier.Emit(ctx, receivedNotice(a, j.HRID, j.Title)).
		LogIfFailed(s.logger, "application received notification failed", "application_id", a.ID, "hr_id", j.HRID)

	return a, nil
}

// UpdateStatus moves the application along its lifecycle. Hiring cascades to
// the sibling applications and closes the job.
func (s *Service) UpdateStatus(ctx context.Context, id int64, newStatus string) (*Application, error) {
	if appErr := (UpdateStatusDTO{Status: newStatus}).Validate(); appErr != nil {
		return nil, appErr
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError(err, "failed to load application")
	}

	if !CanTransition(a.Status, newStatus) {
		s.logger.Warn("invalid application transition", "application_id", id, "from", a.Status, "to", newStatus)
		return nil, apperrors.ErrInvalidTransition.WithDetails(map[string]string{"from": a.Status, "to": newStatus})
	}

	if newStatus == StatusHired {
		return s.hire(ctx, a)
	}

	previous := a.Status
	if previous != newStatus {
		if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
			s.logger.Error("failed to update application status", "error", err, "application_id", id)
			return nil, asAppError(err, "failed to update application status")
		}
		a.Status = newStatus
		s.publish(ctx, events.NewApplicationStatusChangedEvent(a.ID, a.JobID, a.CandidateID, previous, newStatus))
	}

	s.logger.Info("application status updated", "application_id", id, "from", previous, "to", newStatus)

	s.notifier.Emit(ctx, statusNotice(a, newStatus, s.jobTitle(ctx, a.JobID))).
		LogIfFailed(s.logger, "status notification failed", "application_id", id, "status", newStatus)

	return a, nil
}

func (s *Service) hire(ctx context.Context, a *Application) (*Application, error) {
	rejected, err := s.repo.Hire(ctx, a.ID, a.JobID)
	if err != nil {
		s.logger.Error("hire cascade failed", "error", err, "application_id", a.ID, "job_id", a.JobID)
		return nil, asAppError(err, "failed to hire applicant")
	}
	a.Status = StatusHired

	rejectedIDs := make([]int64, len(rejected))
	for i, sib := range rejected {
		rejectedIDs[i] = sib.ID
	}
	s.logger.Info("applicant hired",
		"application_id", a.ID,
		"job_id", a.JobID,
		"rejected_siblings", len(rejected))
	s.publish(ctx, events.NewApplicationHiredEvent(a.ID, a.JobID, a.CandidateID, rejectedIDs))

	title := s.jobTitle(ctx, a.JobID)
	notices := make([]notification.Notice, 0, len(rejected)+1)
	notices = append(notices, statusNotice(a, StatusHired, title))
	for _, sib := range rejected {
		notices = append(notices, statusNotice(sib, StatusRejected, title))
	}
	if failed := s.notifier.EmitAll(ctx, notices); failed > 0 {
		s.logger.Warn("some hire notifications failed", "application_id", a.ID, "failed", failed, "total", len(notices))
	}

	return a, nil
}

func (s *Service) AddNotes(ctx context.Context, id int64, notes string) (*Application, error) {
	if appErr := (AddNotesDTO{Notes: notes}).Validate(); appErr != nil {
		return nil, appErr
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError(err, "failed to load application")
	}

	if err := s.repo.UpdateNotes(ctx, id, notes); err != nil {
		return nil, asAppError(err, "failed to save notes")
	}
	a.Notes = &notes
	return a, nil
}

// Delete is a hard delete, interviews for the application go with it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete application", "error", err, "application_id", id)
		return asAppError(err, "failed to delete application")
	}
	if affected == 0 {
		return apperrors.ErrDeleteFailed
	}
	s.logger.Info("application deleted", "application_id", id)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Application, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError(err, "failed to load application")
	}
	return a, nil
}

func (s *Service) ListByCandidate(ctx context.Context, candidateID int64, limit, offset int) ([]*Application, error) {
	items, err := s.repo.ListByCandidate(ctx, candidateID, limit, offset)
	if err != nil {
		return nil, asAppError(err, "failed to list applications")
	}
	return items, nil
}

func (s *Service) ListByJob(ctx context.Context, jobID int64, limit, offset int) ([]*Application, error) {
	items, err := s.repo.ListByJob(ctx, jobID, limit, offset)
	if err != nil {
		return nil, asAppError(err, "failed to list applications")
	}
	return items, nil
}

// AuthorizeJobOwner checks that actor may act on applications of jobID.
func (s *Service) AuthorizeJobOwner(ctx context.Context, jobID int64, actor *auth.User) error {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return asAppError(err, "failed to load job")
	}
	return auth.CanManageJob(actor, j.HRID)
}

func (s *Service) jobTitle(ctx context.Context, jobID int64) string {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		s.logger.Warn("job lookup for notification failed", "job_id", jobID, "error", err)
		return "the position"
	}
	return j.Title
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}

func asAppError(err error, msg string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewInternalError(msg, err)
}
