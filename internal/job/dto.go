package job

import (
	"time"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/core/common/validation"
)

type CreateJobDTO struct {
	Title        string     `json:"title"`
	Department   string     `json:"department"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements"`
	SalaryRange  string     `json:"salaryRange"`
	JobType      string     `json:"jobType"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Status       string     `json:"status,omitempty"`
}

func (dto CreateJobDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(200)
	v.Field("department", dto.Department).Required().MaxLength(100)
	v.Field("description", dto.Description).Required()
	v.Field("status", dto.Status).OneOf(apperrors.ErrCodeInvalidStatus, StatusDraft, StatusActive)
	return v.Validate()
}

// UpdateJobDTO is a partial update, nil fields are left untouched.
type UpdateJobDTO struct {
	Title        *string    `json:"title,omitempty"`
	Department   *string    `json:"department,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Requirements *string    `json:"requirements,omitempty"`
	SalaryRange  *string    `json:"salaryRange,omitempty"`
	JobType      *string    `json:"jobType,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Status       *string    `json:"status,omitempty"`
}

func (dto UpdateJobDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	if dto.Title != nil {
		v.Field("title", dto.Title).Required().MaxLength(200)
	}
	if dto.Department != nil {
		v.Field("department", dto.Department).Required().MaxLength(100)
	}
	// closing goes through CloseJob so the action is explicit
	v.Field("status", dto.Status).OneOf(apperrors.ErrCodeInvalidStatus, StatusDraft, StatusActive)
	return v.Validate()
}
