package scoring

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/application"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
	"github.com/frahmantamala/applicant-tracking/internal/job"
)

// maxRanked caps how many applications of one job go to the oracle.
const maxRanked = 500

type ApplicationLister interface {
	ListByJob(ctx context.Context, jobID int64, limit, offset int) ([]*application.Application, error)
	ListByCandidate(ctx context.Context, candidateID int64, limit, offset int) ([]*application.Application, error)
}

type JobLister interface {
	GetByID(ctx context.Context, id int64) (*job.Job, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*job.Job, error)
}

type Service struct {
	oracle       Oracle
	applications ApplicationLister
	jobs         JobLister
	topN         int
	logger       *slog.Logger
}

func NewService(oracle Oracle, applications ApplicationLister, jobs JobLister, topN int, logger *slog.Logger) *Service {
	if topN <= 0 {
		topN = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		oracle:       oracle,
		applications: applications,
		jobs:         jobs,
		topN:         topN,
		logger:       logger,
	}
}

// RankApplicants scores every non-rejected application of a job. A resume that
// cannot be parsed is ranked with a placeholder profile, a failing ranking call
// fails the whole request.
func (s *Service) RankApplicants(ctx context.Context, jobID int64) ([]RankedCandidate, error) {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, asAppError(err, "failed to load job")
	}

	apps, err := s.applications.ListByJob(ctx, jobID, maxRanked, 0)
	if err != nil {
		return nil, asAppError(err, "failed to list applications")
	}

	candidates := make([]CandidateProfile, 0, len(apps))
	for _, a := range apps {
		if a.Status == application.StatusRejected {
			continue
		}
		candidates = append(candidates, CandidateProfile{
			ApplicationID: a.ID,
			CandidateID:   a.CandidateID,
			Profile:       s.profile(ctx, a.ResumeText, "application_id", a.ID),
		})
	}
	if len(candidates) == 0 {
		return []RankedCandidate{}, nil
	}

	if s.oracle == nil {
		return nil, apperrors.ErrScoringUnavailable
	}
	ranked, err := s.oracle.RankCandidates(ctx, JobText{JobID: j.ID, Title: j.Title, Text: j.Text()}, candidates)
	if err != nil {
		s.logger.Error("candidate ranking failed", "error", err, "job_id", jobID, "candidates", len(candidates))
		return nil, apperrors.ErrScoringUnavailable.WithCause(err)
	}

	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Score > ranked[b].Score })
	return ranked, nil
}

// MatchJobsForCandidate returns the best matching active jobs, highest score
// first. Without a resume the candidate's latest application resume is used.
func (s *Service) MatchJobsForCandidate(ctx context.Context, candidateID int64, resume string, topN int) ([]MatchedJob, error) {
	if topN <= 0 {
		topN = s.topN
	}

	if resume == "" {
		resume = s.latestResume(ctx, candidateID)
	}
	var resumePtr *string
	if resume != "" {
		resumePtr = &resume
	}
	profile := s.profile(ctx, resumePtr, "candidate_id", candidateID)

	active, err := s.jobs.ListByStatus(ctx, job.StatusActive, maxRanked, 0)
	if err != nil {
		return nil, asAppError(err, "failed to list active jobs")
	}
	if len(active) == 0 {
		return []MatchedJob{}, nil
	}

	texts := make([]JobText, len(active))
	for i, j := range active {
		texts[i] = JobText{JobID: j.ID, Title: j.Title, Text: j.Text()}
	}

	if s.oracle == nil {
		return nil, apperrors.ErrScoringUnavailable
	}
	matched, err := s.oracle.MatchJobs(ctx, profile, texts)
	if err != nil {
		s.logger.Error("job matching failed", "error", err, "candidate_id", candidateID)
		return nil, apperrors.ErrScoringUnavailable.WithCause(err)
	}

	sort.SliceStable(matched, func(a, b int) bool { return matched[a].Score > matched[b].Score })
	if len(matched) > topN {
		matched = matched[:topN]
	}
	return matched, nil
}

func (s *Service) profile(ctx context.Context, resume *string, key string, id int64) Profile {
	if resume == nil || *resume == "" || s.oracle == nil {
		return PlaceholderProfile()
	}
	p, err := s.oracle.ParseResume(ctx, []byte(*resume))
	if err != nil || p == nil {
		s.logger.Warn("resume parsing failed, using placeholder profile", key, id, "error", err)
		return PlaceholderProfile()
	}
	return *p
}

func (s *Service) latestResume(ctx context.Context, candidateID int64) string {
	apps, err := s.applications.ListByCandidate(ctx, candidateID, 20, 0)
	if err != nil {
		s.logger.Warn("failed to load candidate applications", "candidate_id", candidateID, "error", err)
		return ""
	}
	for _, a := range apps {
		if a.ResumeText != nil && *a.ResumeText != "" {
			return *a.ResumeText
		}
	}
	return ""
}

func asAppError(err error, msg string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewInternalError(msg, err)
}

// AuthorizeJobOwner checks that actor may see the ranking of jobID.
func (s *Service) AuthorizeJobOwner(ctx context.Context, jobID int64, actor *auth.User) error {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return asAppError(err, "failed to load job")
	}
	return auth.CanManageJob(actor, j.HRID)
}
