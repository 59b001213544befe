package interview

import (
	"fmt"
	"time"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/core/common/validation"
)

// ScheduleInterviewDTO carries jobId and candidateId for compatibility, when
// set they must match the application.
type ScheduleInterviewDTO struct {
	ApplicationID    int64     `json:"applicationId"`
	JobID            int64     `json:"jobId,omitempty"`
	CandidateID      int64     `json:"candidateId,omitempty"`
	InterviewDate    time.Time `json:"interviewDate"`
	Duration         *int      `json:"duration,omitempty"`
	Type             string    `json:"type,omitempty"`
	MeetingLink      *string   `json:"meetingLink,omitempty"`
	PreparationNotes *string   `json:"preparationNotes,omitempty"`
}

func (dto ScheduleInterviewDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	dto.addRules(v, "")
	return v.Validate()
}

func (dto ScheduleInterviewDTO) addRules(v *validation.ValidationBuilder, prefix string) {
	v.Field(prefix+"applicationId", dto.ApplicationID).Required().MinInt(1, apperrors.ErrCodeValidationFailed)
	v.Field(prefix+"interviewDate", dto.InterviewDate).Required()
	v.Field(prefix+"duration", dto.Duration).
		MinInt(15, apperrors.ErrCodeValidationFailed).
		MaxInt(480, apperrors.ErrCodeValidationFailed)
	v.Field(prefix+"type", dto.Type).OneOf(apperrors.ErrCodeValidationFailed, Types...)
	v.Field(prefix+"meetingLink", dto.MeetingLink).MaxLength(2048)
}

type BulkScheduleDTO struct {
	Interviews []ScheduleInterviewDTO `json:"interviews"`
}

// Validate checks every item and reports the failures of all of them, field
// names are prefixed with the item index.
func (dto BulkScheduleDTO) Validate() *apperrors.AppError {
	if len(dto.Interviews) == 0 {
		return apperrors.NewValidationFieldError("interviews", "interviews must not be empty", apperrors.ErrCodeValidationFailed)
	}
	v := validation.NewValidator()
	for i, item := range dto.Interviews {
		item.addRules(v, fmt.Sprintf("interviews[%d].", i))
	}
	return v.Validate()
}

type EditInterviewDTO struct {
	InterviewDate    *time.Time `json:"interviewDate,omitempty"`
	Duration         *int       `json:"duration,omitempty"`
	Type             *string    `json:"type,omitempty"`
	MeetingLink      *string    `json:"meetingLink,omitempty"`
	PreparationNotes *string    `json:"preparationNotes,omitempty"`
}

func (dto EditInterviewDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	if dto.InterviewDate != nil {
		v.Field("interviewDate", dto.InterviewDate).Required()
	}
	v.Field("duration", dto.Duration).
		MinInt(15, apperrors.ErrCodeValidationFailed).
		MaxInt(480, apperrors.ErrCodeValidationFailed)
	v.Field("type", dto.Type).OneOf(apperrors.ErrCodeValidationFailed, Types...)
	v.Field("meetingLink", dto.MeetingLink).MaxLength(2048)
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

type PreparationNotesDTO struct {
	Notes string `json:"notes"`
}

func (dto PreparationNotesDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("notes", dto.Notes).MaxLength(10000)
	return v.Validate()
}

type FeedbackDTO struct {
	Feedback string  `json:"feedback"`
	Rating   *int    `json:"rating,omitempty"`
	Result   *string `json:"result,omitempty"`
}

func (dto FeedbackDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("feedback", dto.Feedback).MaxLength(10000)
	v.Field("rating", dto.Rating).
		MinInt(1, apperrors.ErrCodeInvalidRating).
		MaxInt(5, apperrors.ErrCodeInvalidRating)
	v.Field("result", dto.Result).OneOf(apperrors.ErrCodeValidationFailed, Results...)
	return v.Validate()
}
