package job

import (
	"time"

	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
)

const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusClosed = "closed"
)

type Job struct {
	ID           int64      `gorm:"primaryKey"`
	HRID         int64      `gorm:"column:hr_id;not null;index"`
	Title        string     `gorm:"column:title;not null"`
	Department   string     `gorm:"column:department"`
	Description  string     `gorm:"column:description"`
	Requirements string     `gorm:"column:requirements"`
	SalaryRange  string     `gorm:"column:salary_range"`
	JobType      string     `gorm:"column:job_type"`
	Deadline     *time.Time `gorm:"column:deadline"`
	Status       string     `gorm:"column:status;not null;index"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	HR *userDatamodel.User `gorm:"foreignKey:HRID;constraint:OnDelete:RESTRICT"`
}

func (Job) TableName() string {
	return "jobs"
}
