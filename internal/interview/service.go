package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/application"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
	"github.com/frahmantamala/applicant-tracking/internal/core/events"
	"github.com/frahmantamala/applicant-tracking/internal/job"
	"github.com/frahmantamala/applicant-tracking/internal/notification"
	"github.com/frahmantamala/applicant-tracking/internal/scheduling"
)

type RepositoryAPI interface {
	// CreateScheduled and CreateScheduledBatch also set the parent
	// applications to the interview status, in the same transaction.
	CreateScheduled(ctx context.Context, i *Interview) error
	CreateScheduledBatch(ctx context.Context, items []*Interview) error
	GetByID(ctx context.Context, id int64) (*Interview, error)
	FindByApplication(ctx context.Context, applicationID int64) (*Interview, error)
	Update(ctx context.Context, i *Interview) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdatePreparationNotes(ctx context.Context, id int64, notes string) error
	AttachCalendarEvent(ctx context.Context, id int64, meetingLink *string, eventID string) error
	RecordFeedback(ctx context.Context, id int64, fb FeedbackRecord) error
	ListByJob(ctx context.Context, jobID int64, limit, offset int) ([]*Interview, error)
	ListByCandidate(ctx context.Context, candidateID int64, limit, offset int) ([]*Interview, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// FeedbackRecord is the full set of columns AddFeedback writes.
type FeedbackRecord struct {
	Feedback string
	Rating   *int
	Result   string
	Status   string
}

type ApplicationReader interface {
	GetByID(ctx context.Context, id int64) (*application.Application, error)
}

type JobReader interface {
	GetByID(ctx context.Context, id int64) (*job.Job, error)
}

// Booker books calendar events, a nil event means no calendar is connected.
type Booker interface {
	Book(ctx context.Context, organizerID int64, req scheduling.BookingRequest) (*scheduling.Event, error)
}

type Service struct {
	repo         RepositoryAPI
	applications ApplicationReader
	jobs         JobReader
	booker       Booker
	notifier     notification.Sink
	publisher    events.Publisher
	logger       *slog.Logger
}

type Dependencies struct {
	Repo         RepositoryAPI
	Applications ApplicationReader
	Jobs         JobReader
	Booker       Booker
	Notifier     notification.Sink
	Publisher    events.Publisher
	Logger       *slog.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:         deps.Repo,
		applications: deps.Applications,
		jobs:         deps.Jobs,
		booker:       deps.Booker,
		notifier:     deps.Notifier,
		publisher:    deps.Publisher,
		logger:       logger,
	}
}

// ScheduleInterview creates the interview for an application and moves the
// application to the interview status whatever its current status.
func (s *Service) ScheduleInterview(ctx context.Context, interviewerID int64, dto ScheduleInterviewDTO) (*Interview, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	i, err := s.prepare(ctx, interviewerID, dto)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateScheduled(ctx, i); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateInterview) {
			s.logger.Warn("duplicate interview rejected by store", "application_id", dto.ApplicationID)
			return nil, apperrors.ErrDuplicateInterview
		}
		s.logger.Error("failed to schedule interview", "error", err, "application_id", dto.ApplicationID)
		return nil, asAppError(err, "failed to schedule interview")
	}
	s.book(ctx, interviewerID, i)

	s.logger.Info("interview scheduled",
		"interview_id", i.ID,
		"application_id", i.ApplicationID,
		"interview_date", i.InterviewDate)

	s.afterScheduled(ctx, []*Interview{i})
	return i, nil
}

// BulkSchedule validates every item before inserting any of them. All rows are
// written in one transaction so a failing batch leaves nothing behind.
func (s *Service) BulkSchedule(ctx context.Context, interviewerID int64, dto BulkScheduleDTO) ([]*Interview, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	seen := make(map[int64]int, len(dto.Interviews))
	items := make([]*Interview, 0, len(dto.Interviews))
	for idx, item := range dto.Interviews {
		if first, dup := seen[item.ApplicationID]; dup {
			return nil, apperrors.ErrDuplicateInterview.WithDetails(map[string]interface{}{
				"index":         idx,
				"duplicateOf":   first,
				"applicationId": item.ApplicationID,
			})
		}
		seen[item.ApplicationID] = idx

		i, err := s.prepare(ctx, interviewerID, item)
		if err != nil {
			if appErr, ok := apperrors.IsAppError(err); ok && appErr.Details == nil {
				return nil, appErr.WithDetails(map[string]interface{}{"index": idx, "applicationId": item.ApplicationID})
			}
			return nil, err
		}
		items = append(items, i)
	}

	if err := s.repo.CreateScheduledBatch(ctx, items); err != nil {
		s.logger.Error("failed to bulk schedule interviews", "error", err, "count", len(items))
		return nil, asAppError(err, "failed to schedule interviews")
	}
	for _, i := range items {
		s.book(ctx, interviewerID, i)
	}

	s.logger.Info("interviews bulk scheduled", "count", len(items), "interviewer_id", interviewerID)

	s.afterScheduled(ctx, items)
	return items, nil
}

// prepare checks one scheduling request against the store and builds the interview.
func (s *Service) prepare(ctx context.Context, interviewerID int64, dto ScheduleInterviewDTO) (*Interview, error) {
	app, err := s.applications.GetByID(ctx, dto.ApplicationID)
	if err != nil {
		return nil, asAppError(err, "failed to load application")
	}
	if (dto.JobID != 0 && dto.JobID != app.JobID) || (dto.CandidateID != 0 && dto.CandidateID != app.CandidateID) {
		return nil, apperrors.NewInvalidStateError("Interview does not match the application", apperrors.ErrCodeUnknownReference)
	}

	existing, err := s.repo.FindByApplication(ctx, dto.ApplicationID)
	if err != nil {
		return nil, asAppError(err, "failed to check existing interview")
	}
	if existing != nil {
		s.logger.Warn("duplicate interview rejected", "application_id", dto.ApplicationID, "interview_id", existing.ID)
		return nil, apperrors.ErrDuplicateInterview
	}

	return newScheduled(app.ID, app.JobID, app.CandidateID, interviewerID, dto), nil
}

// book asks the calendar for a meeting link once the interview is stored, so a
// rejected insert never leaves an event behind. A calendar failure leaves the link empty.
func (s *Service) book(ctx context.Context, interviewerID int64, i *Interview) {
	if s.booker == nil || i.MeetingLink != nil {
		return
	}
	event, err := s.booker.Book(ctx, interviewerID, scheduling.BookingRequest{
		Summary:         fmt.Sprintf("Interview: %s", s.jobTitle(ctx, i.JobID)),
		AttendeeIDs:     []int64{i.CandidateID},
		Start:           i.InterviewDate,
		DurationMinutes: i.Duration,
	})
	if err != nil {
		s.logger.Warn("calendar booking failed, scheduling without meeting link",
			"application_id", i.ApplicationID,
			"interviewer_id", interviewerID,
			"error", err)
		return
	}
	if event == nil {
		return
	}

	var link *string
	if event.MeetingLink != "" {
		l := event.MeetingLink
		link = &l
	}
	if err := s.repo.AttachCalendarEvent(ctx, i.ID, link, event.EventID); err != nil {
		s.logger.Error("failed to store calendar event",
			"interview_id", i.ID,
			"calendar_event_id", event.EventID,
			"error", err)
		return
	}
	i.MeetingLink = link
	eventID := event.EventID
	i.CalendarEventID = &eventID
}

func (s *Service) afterScheduled(ctx context.Context, items []*Interview) {
	titles := make(map[int64]string)
	notices := make([]notification.Notice, 0, len(items))
	for _, i := range items {
		s.publish(ctx, events.NewInterviewScheduledEvent(i.ID, i.ApplicationID, i.CandidateID, i.InterviewDate))

		title, ok := titles[i.JobID]
		if !ok {
			title = s.jobTitle(ctx, i.JobID)
			titles[i.JobID] = title
		}
		notices = append(notices, scheduledNotice(i, title))
	}
	if failed := s.notifier.EmitAll(ctx, notices); failed > 0 {
		s.logger.Warn("some interview notifications failed", "failed", failed, "total", len(notices))
	}
}

func (s *Service) EditInterview(ctx context.Context, id int64, dto EditInterviewDTO) (*Interview, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError(err, "failed to load interview")
	}

	i.Apply(dto)
	if err := s.repo.Update(ctx, i); err != nil {
		s.logger.Error("failed to update interview", "error", err, "interview_id", id)
		return nil, asAppError(err, "failed to update interview")
	}

	s.logger.Info("interview updated", "interview_id", id)

	s.notifier.Emit(ctx, updatedNotice(i, s.jobTitle(ctx, i.JobID))).
		LogIfFailed(s.logger, "interview updated notification failed", "interview_id", id, "candidate_id", i.CandidateID)

	return i, nil
}

// UpdateStatus writes the status field only. Moving back to an earlier status is rejected.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Interview, error) {
	if appErr := (UpdateStatusDTO{Status: status}).Validate(); appErr != nil {
		return nil, appErr
	}

	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError(err, "failed to load interview")
	}
	if i.Status == status {
		return i, nil
	}
	if !CanAdvance(i.Status, status) {
		s.logger.Warn("invalid interview transition", "interview_id", id, "from", i.Status, "to", status)
		return nil, apperrors.ErrInvalidTransition.WithDetails(map[string]string{"from": i.Status, "to": status})
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, asAppError(err, "failed to update interview status")
	}
	s.logger.Info("interview status updated", "interview_id", id, "from", i.Status, "to", status)
	i.Status = status
	return i, nil
}

func (s *Service) AddPreparationNotes(ctx context.Context, id int64, notes string) (*Interview, error) {
	if appErr := (PreparationNotesDTO{Notes: notes}).Validate(); appErr != nil {
		return nil, appErr
	}

	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError(err, "failed to load interview")
	}
	if err := s.repo.UpdatePreparationNotes(ctx, id, notes); err != nil {
		return nil, asAppError(err, "failed to save preparation notes")
	}
	i.PreparationNotes = &notes
	return i, nil
}

// AddFeedback records the interviewer's verdict. A result other than pending
// completes the interview in the same write.
func (s *Service) AddFeedback(ctx context.Context, id int64, dto FeedbackDTO) (*Interview, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError(err, "failed to load interview")
	}

	record := FeedbackRecord{
		Feedback: dto.Feedback,
		Rating:   i.Rating,
		Result:   i.Result,
		Status:   i.Status,
	}
	if dto.Rating != nil {
		record.Rating = dto.Rating
	}
	if dto.Result != nil {
		record.Result = *dto.Result
	}
	if CompletesInterview(dto.Result) {
		record.Status = StatusCompleted
	}

	if err := s.repo.RecordFeedback(ctx, id, record); err != nil {
		s.logger.Error("failed to record feedback", "error", err, "interview_id", id)
		return nil, asAppError(err, "failed to record feedback")
	}

	s.logger.Info("interview feedback recorded", "interview_id", id, "result", record.Result, "status", record.Status)

	i.Feedback = &record.Feedback
	i.Rating = record.Rating
	i.Result = record.Result
	i.Status = record.Status
	return i, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete interview", "error", err, "interview_id", id)
		return asAppError(err, "failed to delete interview")
	}
	if affected == 0 {
		return apperrors.ErrDeleteFailed
	}
	s.logger.Info("interview deleted", "interview_id", id)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Interview, error) {
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError(err, "failed to load interview")
	}
	return i, nil
}

func (s *Service) ListByJob(ctx context.Context, jobID int64, limit, offset int) ([]*Interview, error) {
	items, err := s.repo.ListByJob(ctx, jobID, limit, offset)
	if err != nil {
		return nil, asAppError(err, "failed to list interviews")
	}
	return items, nil
}

func (s *Service) ListByCandidate(ctx context.Context, candidateID int64, limit, offset int) ([]*Interview, error) {
	items, err := s.repo.ListByCandidate(ctx, candidateID, limit, offset)
	if err != nil {
		return nil, asAppError(err, "failed to list interviews")
	}
	return items, nil
}

// AuthorizeJobOwner checks that actor may manage interviews of jobID.
func (s *Service) AuthorizeJobOwner(ctx context.Context, jobID int64, actor *auth.User) error {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return asAppError(err, "failed to load job")
	}
	return auth.CanManageJob(actor, j.HRID)
}

// AuthorizeApplication checks that actor may schedule for the application's job.
func (s *Service) AuthorizeApplication(ctx context.Context, applicationID int64, actor *auth.User) error {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return asAppError(err, "failed to load application")
	}
	return s.AuthorizeJobOwner(ctx, app.JobID, actor)
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
