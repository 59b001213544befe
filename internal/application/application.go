package application

import (
	"time"

	applicationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/application"
)

const (
	StatusApplied     = applicationDatamodel.StatusApplied
	StatusShortlisted = applicationDatamodel.StatusShortlisted
	StatusInterview   = applicationDatamodel.StatusInterview
	StatusRejected    = applicationDatamodel.StatusRejected
	StatusHired       = applicationDatamodel.StatusHired
)

var Statuses = []string{StatusApplied, StatusShortlisted, StatusInterview, StatusRejected, StatusHired}

// transitions lists the forward moves. Writing the current status again is always allowed.
var transitions = map[string][]string{
	StatusApplied:     {StatusShortlisted, StatusInterview, StatusRejected, StatusHired},
	StatusShortlisted: {StatusInterview, StatusRejected, StatusHired},
	StatusInterview:   {StatusRejected, StatusHired},
}

type Application struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"jobId"`
	CandidateID int64     `json:"candidateId"`
	Status      string    `json:"status"`
	CoverLetter *string   `json:"coverLetter,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	ResumeText  *string   `json:"resumeText,omitempty"`
	AppliedAt   time.Time `json:"appliedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func IsTerminal(status string) bool {
	return status == StatusHired || status == StatusRejected
}

func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func NewApplication(candidateID int64, dto SubmitApplicationDTO) *Application {
	now := time.Now()
	return &Application{
		JobID:       dto.JobID,
		CandidateID: candidateID,
		Status:      StatusApplied,
		CoverLetter: dto.CoverLetter,
		ResumeText:  dto.ResumeText,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(a *Application) *applicationDatamodel.Application {
	return &applicationDatamodel.Application{
		ID:          a.ID,
		JobID:       a.JobID,
		CandidateID: a.CandidateID,
		Status:      a.Status,
		CoverLetter: a.CoverLetter,
		Notes:       a.Notes,
		ResumeText:  a.ResumeText,
		AppliedAt:   a.AppliedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromDataModel(a *applicationDatamodel.Application) *Application {
	return &Application{
		ID:          a.ID,
		JobID:       a.JobID,
		CandidateID: a.CandidateID,
		Status:      a.Status,
		CoverLetter: a.CoverLetter,
		Notes:       a.Notes,
		ResumeText:  a.ResumeText,
		AppliedAt:   a.AppliedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*applicationDatamodel.Application) []*Application {
	result := make([]*Application, len(rows))
	for i, a := range rows {
		result[i] = FromDataModel(a)
	}
	return result
}
