package job

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
)

type RepositoryAPI interface {
	Create(ctx context.Context, j *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	Update(ctx context.Context, j *Job) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Job, error)
	ListByHR(ctx context.Context, hrID int64, limit, offset int) ([]*Job, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateJob(ctx context.Context, actor *auth.User, dto CreateJobDTO) (*Job, error) {
	if actor == nil || !actor.HasRole(auth.RoleHR, auth.RoleAdmin) {
		return nil, apperrors.ErrUnauthorizedAccess
	}
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	j := NewJob(actor.ID, dto)
	if err := s.repo.Create(ctx, j); err != nil {
		s.logger.Error("failed to create job", "error", err, "hr_id", actor.ID)
		return nil, asAppError(err, "failed to create job")
	}

	s.logger.Info("job created", "job_id", j.ID, "hr_id", j.HRID, "status", j.Status)
	return j, nil
}

// GetJob hides drafts and closed postings from everyone except staff.
func (s *Service) GetJob(ctx context.Context, id int64, actor *auth.User) (*Job, error) {
	j, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError(err, "failed to load job")
	}
	if j.AcceptsApplications() {
		return j, nil
	}
	if actor != nil && actor.HasRole(auth.RoleHR, auth.RoleAdmin) {
		return j, nil
	}
	return nil, apperrors.ErrJobNotFound
}

func (s *Service) UpdateJob(ctx context.Context, id int64, actor *auth.User, dto UpdateJobDTO) (*Job, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	j, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError(err, "failed to load job")
	}
	if err := auth.CanManageJob(actor, j.HRID); err != nil {
		s.logger.Warn("job update denied", "job_id", id, "actor_id", actorID(actor))
		return nil, err
	}
	if j.IsClosed() {
		return nil, apperrors.ErrJobClosed
	}

	j.Apply(dto)
	if err := s.repo.Update(ctx, j); err != nil {
		s.logger.Error("failed to update job", "error", err, "job_id", id)
		return nil, asAppError(err, "failed to update job")
	}

	return j, nil
}

func (s *Service) CloseJob(ctx context.Context, id int64, actor *auth.User) (*Job, error) {
	j, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError(err, "failed to load job")
	}
	if err := auth.CanManageJob(actor, j.HRID); err != nil {
		return nil, err
	}
	if j.IsClosed() {
		return j, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusClosed); err != nil {
		return nil, asAppError(err, "failed to close job")
	}
	j.Status = StatusClosed

	s.logger.Info("job closed", "job_id", id, "actor_id", actor.ID)
	return j, nil
}

func (s *Service) ListActive(ctx context.Context, limit, offset int) ([]*Job, error) {
	jobs, err := s.repo.ListByStatus(ctx, StatusActive, limit, offset)
	if err != nil {
		s.logger.Error("failed to list active jobs", "error", err)
		return nil, asAppError(err, "failed to list jobs")
	}
	return jobs, nil
}

func (s *Service) ListByHR(ctx context.Context, hrID int64, limit, offset int) ([]*Job, error) {
	jobs, err := s.repo.ListByHR(ctx, hrID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list jobs", "error", err, "hr_id", hrID)
		return nil, asAppError(err, "failed to list jobs")
	}
	return jobs, nil
}

// DeleteJob removes the posting together with its applications and interviews.
func (s *Service) DeleteJob(ctx context.Context, id int64, actor *auth.User) error {
	j, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return asAppError(err, "failed to load job")
	}
	if err := auth.CanManageJob(actor, j.HRID); err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete job", "error", err, "job_id", id)
		return asAppError(err, "failed to delete job")
	}
	if affected == 0 {
		return apperrors.ErrDeleteFailed
	}

	s.logger.Info("job deleted", "job_id", id, "actor_id", actor.ID)
	return nil
}

func asAppError(err error, msg string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewInternalError(msg, err)
}

func actorID(u *auth.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}
