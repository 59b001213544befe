package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
)

const (
	RoleCandidate = userDatamodel.RoleCandidate
	RoleHR        = userDatamodel.RoleHR
	RoleAdmin     = userDatamodel.RoleAdmin

	StatusActive = userDatamodel.StatusActive
	StatusClosed = userDatamodel.StatusClosed
)

type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	Status            string    `json:"status"`
	Phone             *string   `json:"phone,omitempty"`
	CalendarConnected bool      `json:"calendarConnected"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

func (u *User) IsStaff() bool {
	return u.Role == RoleHR || u.Role == RoleAdmin
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Status:       u.Status,
		Phone:        u.Phone,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		PasswordHash:      u.PasswordHash,
		Role:              u.Role,
		Status:            u.Status,
		Phone:             u.Phone,
		CalendarConnected: u.CalendarToken != nil && *u.CalendarToken != "",
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*userDatamodel.User) []*User {
	result := make([]*User, len(rows))
	for i, u := range rows {
		result[i] = FromDataModel(u)
	}
	return result
}
