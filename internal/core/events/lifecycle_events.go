package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeNotificationCreated      = "notification.created"
	EventTypeApplicationStatusChanged = "application.status_changed"
	EventTypeApplicationHired         = "application.hired"
	EventTypeInterviewScheduled       = "interview.scheduled"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// NotificationCreatedEvent is consumed by the mailer.
type NotificationCreatedEvent struct {
	BaseEvent
	NotificationID int64  `json:"notification_id"`
	UserID         int64  `json:"user_id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
}

func NewNotificationCreatedEvent(notificationID, userID int64, title, message string) *NotificationCreatedEvent {
	return &NotificationCreatedEvent{
		BaseEvent: newBase(EventTypeNotificationCreated, map[string]interface{}{
			"notification_id": notificationID,
			"user_id":         userID,
			"title":           title,
		}),
		NotificationID: notificationID,
		UserID:         userID,
		Title:          title,
		Message:        message,
	}
}

type ApplicationStatusChangedEvent struct {
	BaseEvent
	ApplicationID int64  `json:"application_id"`
	JobID         int64  `json:"job_id"`
	CandidateID   int64  `json:"candidate_id"`
	From          string `json:"from"`
	To            string `json:"to"`
}

func NewApplicationStatusChangedEvent(applicationID, jobID, candidateID int64, from, to string) *ApplicationStatusChangedEvent {
	return &ApplicationStatusChangedEvent{
		BaseEvent: newBase(EventTypeApplicationStatusChanged, map[string]interface{}{
			"application_id": applicationID,
			"job_id":         jobID,
			"candidate_id":   candidateID,
			"from":           from,
			"to":             to,
		}),
		ApplicationID: applicationID,
		JobID:         jobID,
		CandidateID:   candidateID,
		From:          from,
		To:            to,
	}
}

type ApplicationHiredEvent struct {
	BaseEvent
	ApplicationID int64   `json:"application_id"`
	JobID         int64   `json:"job_id"`
	CandidateID   int64   `json:"candidate_id"`
	RejectedIDs   []int64 `json:"rejected_ids"`
}

func NewApplicationHiredEvent(applicationID, jobID, candidateID int64, rejectedIDs []int64) *ApplicationHiredEvent {
	return &ApplicationHiredEvent{
		BaseEvent: newBase(EventTypeApplicationHired, map[string]interface{}{
			"application_id": applicationID,
			"job_id":         jobID,
			"candidate_id":   candidateID,
			"rejected_count": len(rejectedIDs),
		}),
		ApplicationID: applicationID,
		JobID:         jobID,
		CandidateID:   candidateID,
		RejectedIDs:   rejectedIDs,
	}
}

type InterviewScheduledEvent struct {
	BaseEvent
	InterviewID   int64     `json:"interview_id"`
	ApplicationID int64     `json:"application_id"`
	CandidateID   int64     `json:"candidate_id"`
	InterviewDate time.Time `json:"interview_date"`
}

func NewInterviewScheduledEvent(interviewID, applicationID, candidateID int64, date time.Time) *InterviewScheduledEvent {
	return &InterviewScheduledEvent{
		BaseEvent: newBase(EventTypeInterviewScheduled, map[string]interface{}{
			"interview_id":   interviewID,
			"application_id": applicationID,
			"candidate_id":   candidateID,
			"interview_date": date,
		}),
		InterviewID:   interviewID,
		ApplicationID: applicationID,
		CandidateID:   candidateID,
		InterviewDate: date,
	}
}
