package notification

import (
	"log/slog"
	"time"

	notificationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/notification"
)

const (
	TypeApplicationReceived = "application_received"
	TypeApplicationStatus   = "application_status"
	TypeInterviewScheduled  = "interview_scheduled"
	TypeInterviewUpdated    = "interview_updated"

	EntityApplication = "application"
	EntityInterview   = "interview"
)

type Notification struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"userId"`
	Type              string    `json:"type"`
	Title             string    `json:"title"`
	Message           string    `json:"message"`
	RelatedEntityType *string   `json:"relatedEntityType,omitempty"`
	RelatedEntityID   *int64    `json:"relatedEntityId,omitempty"`
	IsRead            bool      `json:"isRead"`
	EmailSent         bool      `json:"emailSent"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Notice is the input of a single emit.
type Notice struct {
	UserID            int64
	Type              string
	Title             string
	Message           string
	RelatedEntityType string
	RelatedEntityID   int64
}

// EmitResult reports how an emit went. Callers log a failure and carry on.
type EmitResult struct {
	NotificationID int64
	err            error
}

func (r EmitResult) Failed() bool {
	return r.err != nil
}

func (r EmitResult) Reason() string {
	if r.err == nil {
		return ""
	}
	return r.err.Error()
}

// LogIfFailed writes a warning with the given context when the emit did not persist.
func (r EmitResult) LogIfFailed(logger *slog.Logger, msg string, args ...any) {
	if r.err == nil || logger == nil {
		return
	}
	logger.Warn(msg, append(args, "error", r.err)...)
}

func newNotification(n Notice) *Notification {
	out := &Notification{
		UserID:  n.UserID,
		Type:    n.Type,
		Title:   n.Title,
		Message: n.Message,
	}
	if n.RelatedEntityType != "" {
		t := n.RelatedEntityType
		out.RelatedEntityType = &t
	}
	if n.RelatedEntityID != 0 {
		id := n.RelatedEntityID
		out.RelatedEntityID = &id
	}
	return out
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:                n.ID,
		UserID:            n.UserID,
		Type:              n.Type,
		Title:             n.Title,
		Message:           n.Message,
		RelatedEntityType: n.RelatedEntityType,
		RelatedEntityID:   n.RelatedEntityID,
		IsRead:            n.IsRead,
		EmailSent:         n.EmailSent,
		CreatedAt:         n.CreatedAt,
	}
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:                n.ID,
		UserID:            n.UserID,
		Type:              n.Type,
		Title:             n.Title,
		Message:           n.Message,
		RelatedEntityType: n.RelatedEntityType,
		RelatedEntityID:   n.RelatedEntityID,
		IsRead:            n.IsRead,
		EmailSent:         n.EmailSent,
		CreatedAt:         n.CreatedAt,
	}
}

func FromDataModelSlice(rows []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(rows))
	for i, n := range rows {
		result[i] = FromDataModel(n)
	}
	return result
}
