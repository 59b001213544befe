package scoring

import (
	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/core/common/validation"
)

type MatchJobsDTO struct {
	ResumeText string `json:"resumeText,omitempty"`
	TopN       *int   `json:"topN,omitempty"`
}

func (dto MatchJobsDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("resumeText", dto.ResumeText).MaxLength(100000)
	v.Field("topN", dto.TopN).
		MinInt(1, apperrors.ErrCodeValidationFailed).
		MaxInt(50, apperrors.ErrCodeValidationFailed)
	return v.Validate()
}
