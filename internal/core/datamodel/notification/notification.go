package notification

import (
	"time"

	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
)

type Notification struct {
	ID                int64     `gorm:"primaryKey"`
	UserID            int64     `gorm:"column:user_id;not null;index"`
	Type              string    `gorm:"column:type;not null"`
	Title             string    `gorm:"column:title"`
	Message           string    `gorm:"column:message"`
	RelatedEntityType *string   `gorm:"column:related_entity_type"`
	RelatedEntityID   *int64    `gorm:"column:related_entity_id"`
	IsRead            bool      `gorm:"column:is_read;not null"`
	EmailSent         bool      `gorm:"column:email_sent;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`

	User *userDatamodel.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Notification) TableName() string {
	return "notifications"
}
