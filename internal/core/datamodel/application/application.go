package application

import (
	"time"

	jobDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/job"
	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
)

const (
	StatusApplied     = "applied"
	StatusShortlisted = "shortlisted"
	StatusInterview   = "interview"
	StatusRejected    = "rejected"
	StatusHired       = "hired"
)

type Application struct {
	ID          int64     `gorm:"primaryKey"`
	JobID       int64     `gorm:"column:job_id;not null;uniqueIndex:idx_applications_job_candidate"`
	CandidateID int64     `gorm:"column:candidate_id;not null;uniqueIndex:idx_applications_job_candidate;index"`
	Status      string    `gorm:"column:status;not null"`
	CoverLetter *string   `gorm:"column:cover_letter"`
	Notes       *string   `gorm:"column:notes"`
	ResumeText  *string   `gorm:"column:resume_text"`
	AppliedAt   time.Time `gorm:"column:applied_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Job       *jobDatamodel.Job   `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	Candidate *userDatamodel.User `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE"`
}

func (Application) TableName() string {
	return "applications"
}
