package user

import (
	"strings"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/core/common/validation"
)

// RegisterDTO is the self sign-up payload. Admin accounts are seeded, not registered.
type RegisterDTO struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Role     string  `json:"role,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (dto *RegisterDTO) Normalize() {
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Role == "" {
		dto.Role = RoleCandidate
	}
}

func (dto RegisterDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("email", dto.Email).Required().Email().MaxLength(255)
	v.Field("password", dto.Password).Required().MinLength(8).MaxLength(72)
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("role", dto.Role).OneOf(apperrors.ErrCodeValidationFailed, RoleCandidate, RoleHR)
	v.Field("phone", dto.Phone).MaxLength(32)
	return v.Validate()
}

type UpdateProfileDTO struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (dto UpdateProfileDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", dto.Name).Required().MaxLength(200)
	}
	v.Field("phone", dto.Phone).MaxLength(32)
	if dto.Password != nil {
		v.Field("password", dto.Password).MinLength(8).MaxLength(72)
	}
	return v.Validate()
}

type SetStatusDTO struct {
	Status string `json:"status"`
}

func (dto SetStatusDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("status", dto.Status).Required().OneOf(apperrors.ErrCodeInvalidStatus, StatusActive, StatusClosed)
	return v.Validate()
}

type ConnectCalendarDTO struct {
	Token string `json:"token"`
}

func (dto ConnectCalendarDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("token", dto.Token).MaxLength(4096)
	return v.Validate()
}
