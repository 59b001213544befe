package user

import "time"

const (
	RoleCandidate = "candidate"
	RoleHR        = "hr"
	RoleAdmin     = "admin"

	StatusActive = "active"
	StatusClosed = "closed"
)

type User struct {
	ID            int64     `gorm:"primaryKey"`
	Email         string    `gorm:"column:email;uniqueIndex;not null"`
	Name          string    `gorm:"column:name;not null"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	Role          string    `gorm:"column:role;not null"`
	Status        string    `gorm:"column:status;not null"`
	Phone         *string   `gorm:"column:phone"`
	CalendarToken *string   `gorm:"column:calendar_token"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
