package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
	applicationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/application"
	interviewDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/interview"
	jobDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/job"
)

type RepositoryAPI interface {
	// GetJob returns nil, nil when the job does not exist.
	GetJob(ctx context.Context, jobID int64) (*JobRow, error)
	ApplicationCountsByJob(ctx context.Context, jobID int64) ([]StatusCount, error)
	InterviewCountsByJob(ctx context.Context, jobID int64) ([]StatusCount, error)
	JobCountsByHR(ctx context.Context, hrID int64) ([]StatusCount, error)
	ApplicationCountsByHR(ctx context.Context, hrID int64) ([]StatusCount, error)
	UpcomingInterviewsByHR(ctx context.Context, hrID int64, from time.Time) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) JobStats(ctx context.Context, jobID int64, actor *auth.User) (*JobStats, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, asAppError(err, "failed to load job")
	}
	if job == nil {
		return nil, apperrors.ErrJobNotFound
	}
	if err := auth.CanManageJob(actor, job.HRID); err != nil {
		return nil, err
	}

	appCounts, err := s.repo.ApplicationCountsByJob(ctx, jobID)
	if err != nil {
		return nil, asAppError(err, "failed to count applications")
	}
	interviewCounts, err := s.repo.InterviewCountsByJob(ctx, jobID)
	if err != nil {
		return nil, asAppError(err, "failed to count interviews")
	}

	byStatus, total := zeroFilled(appCounts)
	stats := &JobStats{
		JobID:             job.ID,
		Title:             job.Title,
		JobStatus:         job.Status,
		TotalApplications: total,
		ByStatus:          byStatus,
	}
	for _, c := range interviewCounts {
		switch c.Status {
		case interviewDatamodel.StatusScheduled:
			stats.ScheduledInterviews = c.Count
		case interviewDatamodel.StatusCompleted:
			stats.CompletedInterviews = c.Count
		}
	}
	return stats, nil
}

// HRSummary aggregates every posting owned by hrID.
func (s *Service) HRSummary(ctx context.Context, hrID int64) (*HRSummary, error) {
	jobCounts, err := s.repo.JobCountsByHR(ctx, hrID)
	if err != nil {
		return nil, asAppError(err, "failed to count jobs")
	}
	appCounts, err := s.repo.ApplicationCountsByHR(ctx, hrID)
	if err != nil {
		return nil, asAppError(err, "failed to count applications")
	}
	upcoming, err := s.repo.UpcomingInterviewsByHR(ctx, hrID, s.now().UTC())
	if err != nil {
		return nil, asAppError(err, "failed to count interviews")
	}

	summary := &HRSummary{HRID: hrID, UpcomingInterviews: upcoming}
	for _, c := range jobCounts {
		switch c.Status {
		case jobDatamodel.StatusActive:
			summary.ActiveJobs = c.Count
		case jobDatamodel.StatusDraft:
			summary.DraftJobs = c.Count
		case jobDatamodel.StatusClosed:
			summary.ClosedJobs = c.Count
		}
	}
	byStatus, total := zeroFilled(appCounts)
	summary.TotalApplications = total
	summary.AwaitingReview = byStatus[applicationDatamodel.StatusApplied]
	return summary, nil
}

func asAppError(err error, msg string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewInternalError(msg, err)
}
