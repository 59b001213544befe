package application

import (
	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/core/common/validation"
)

type SubmitApplicationDTO struct {
	JobID       int64   `json:"jobId"`
	CoverLetter *string `json:"coverLetter,omitempty"`
	ResumeText  *string `json:"resumeText,omitempty"`
}

func (dto SubmitApplicationDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("jobId", dto.JobID).Required().MinInt(1, apperrors.ErrCodeValidationFailed)
	v.Field("coverLetter", dto.CoverLetter).MaxLength(5000)
	return v.Validate()
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("status", dto.Status).Required().OneOf(apperrors.ErrCodeInvalidStatus, Statuses...)
	return v.Validate()
}

type AddNotesDTO struct {
	Notes string `json:"notes"`
}

func (dto AddNotesDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("notes", dto.Notes).MaxLength(10000)
	return v.Validate()
}
