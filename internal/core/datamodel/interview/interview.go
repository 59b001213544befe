package interview

import (
	"time"

	applicationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/application"
	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
)

const (
	StatusNotScheduled = "not_scheduled"
	StatusScheduled    = "scheduled"
	StatusCompleted    = "completed"

	TypeVirtual  = "virtual"
	TypeInPerson = "in_person"

	ResultPending = "pending"
	ResultPassed  = "passed"
	ResultFailed  = "failed"
)

type Interview struct {
	ID               int64     `gorm:"primaryKey"`
	ApplicationID    int64     `gorm:"column:application_id;not null;uniqueIndex"`
	JobID            int64     `gorm:"column:job_id;not null;index"`
	CandidateID      int64     `gorm:"column:candidate_id;not null;index"`
	InterviewerID    *int64    `gorm:"column:interviewer_id"`
	InterviewDate    time.Time `gorm:"column:interview_date;not null"`
	Duration         int       `gorm:"column:duration;not null"`
	Type             string    `gorm:"column:type;not null"`
	MeetingLink      *string   `gorm:"column:meeting_link"`
	Status           string    `gorm:"column:status;not null"`
	PreparationNotes *string   `gorm:"column:preparation_notes"`
	Feedback         *string   `gorm:"column:feedback"`
	Rating           *int      `gorm:"column:rating"`
	Result           string    `gorm:"column:result;not null"`
	CalendarEventID  *string   `gorm:"column:calendar_event_id"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Application *applicationDatamodel.Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
	Interviewer *userDatamodel.User               `gorm:"foreignKey:InterviewerID;constraint:OnDelete:SET NULL"`
}

func (Interview) TableName() string {
	return "interviews"
}
