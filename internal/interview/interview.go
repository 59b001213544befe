package interview

import (
	"time"

	interviewDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/interview"
)

const (
	StatusNotScheduled = interviewDatamodel.StatusNotScheduled
	StatusScheduled    = interviewDatamodel.StatusScheduled
	StatusCompleted    = interviewDatamodel.StatusCompleted

	TypeVirtual  = interviewDatamodel.TypeVirtual
	TypeInPerson = interviewDatamodel.TypeInPerson

	ResultPending = interviewDatamodel.ResultPending
	ResultPassed  = interviewDatamodel.ResultPassed
	ResultFailed  = interviewDatamodel.ResultFailed

	DefaultDuration = 60
)

var (
	Statuses = []string{StatusNotScheduled, StatusScheduled, StatusCompleted}
	Types    = []string{TypeVirtual, TypeInPerson}
	Results  = []string{ResultPending, ResultPassed, ResultFailed}
)

// statusRank orders the lifecycle, a status may only move to an equal or higher rank.
var statusRank = map[string]int{
	StatusNotScheduled: 0,
	StatusScheduled:    1,
	StatusCompleted:    2,
}

type Interview struct {
	ID               int64     `json:"id"`
	ApplicationID    int64     `json:"applicationId"`
	JobID            int64     `json:"jobId"`
	CandidateID      int64     `json:"candidateId"`
	InterviewerID    *int64    `json:"interviewerId,omitempty"`
	InterviewDate    time.Time `json:"interviewDate"`
	Duration         int       `json:"duration"`
	Type             string    `json:"type"`
	MeetingLink      *string   `json:"meetingLink"`
	Status           string    `json:"status"`
	PreparationNotes *string   `json:"preparationNotes,omitempty"`
	Feedback         *string   `json:"feedback,omitempty"`
	Rating           *int      `json:"rating,omitempty"`
	Result           string    `json:"result"`
	CalendarEventID  *string   `json:"calendarEventId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func CanAdvance(from, to string) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank >= fromRank
}

// CompletesInterview reports whether recording result moves the interview to completed.
func CompletesInterview(result *string) bool {
	return result != nil && *result != ResultPending
}

func newScheduled(applicationID, jobID, candidateID, interviewerID int64, dto ScheduleInterviewDTO) *Interview {
	duration := DefaultDuration
	if dto.Duration != nil {
		duration = *dto.Duration
	}
	kind := TypeVirtual
	if dto.Type != "" {
		kind = dto.Type
	}
	now := time.Now()
	return &Interview{
		ApplicationID:    applicationID,
		JobID:            jobID,
		CandidateID:      candidateID,
		InterviewerID:    &interviewerID,
		InterviewDate:    dto.InterviewDate,
		Duration:         duration,
		Type:             kind,
		MeetingLink:      dto.MeetingLink,
		Status:           StatusScheduled,
		PreparationNotes: dto.PreparationNotes,
		Result:           ResultPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Apply copies the set fields of dto onto the interview.
func (i *Interview) Apply(dto EditInterviewDTO) {
	if dto.InterviewDate != nil {
		i.InterviewDate = *dto.InterviewDate
	}
	if dto.Duration != nil {
		i.Duration = *dto.Duration
	}
	if dto.Type != nil {
		i.Type = *dto.Type
	}
	if dto.MeetingLink != nil {
		i.MeetingLink = dto.MeetingLink
	}
	if dto.PreparationNotes != nil {
		i.PreparationNotes = dto.PreparationNotes
	}
}

func ToDataModel(i *Interview) *interviewDatamodel.Interview {
	return &interviewDatamodel.Interview{
		ID:               i.ID,
		ApplicationID:    i.ApplicationID,
		JobID:            i.JobID,
		CandidateID:      i.CandidateID,
		InterviewerID:    i.InterviewerID,
		InterviewDate:    i.InterviewDate,
		Duration:         i.Duration,
		Type:             i.Type,
		MeetingLink:      i.MeetingLink,
		Status:           i.Status,
		PreparationNotes: i.PreparationNotes,
		Feedback:         i.Feedback,
		Rating:           i.Rating,
		Result:           i.Result,
		CalendarEventID:  i.CalendarEventID,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

func FromDataModel(i *interviewDatamodel.Interview) *Interview {
	return &Interview{
		ID:               i.ID,
		ApplicationID:    i.ApplicationID,
		JobID:            i.JobID,
		CandidateID:      i.CandidateID,
		InterviewerID:    i.InterviewerID,
		InterviewDate:    i.InterviewDate,
		Duration:         i.Duration,
		Type:             i.Type,
		MeetingLink:      i.MeetingLink,
		Status:           i.Status,
		PreparationNotes: i.PreparationNotes,
		Feedback:         i.Feedback,
		Rating:           i.Rating,
		Result:           i.Result,
		CalendarEventID:  i.CalendarEventID,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*interviewDatamodel.Interview) []*Interview {
	result := make([]*Interview, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
