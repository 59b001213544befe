package auth

import (
	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken"`
}

func (d LoginDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

func (d RefreshTokenDTO) Validate() *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("refreshToken", d.RefreshToken).Required()
	return v.Validate()
}
