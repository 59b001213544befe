package scheduling

import (
	"context"
	"time"
)

// EventRequest is what the calendar needs to book a meeting.
type EventRequest struct {
	Summary         string    `json:"summary"`
	Attendees       []string  `json:"attendees"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"durationMinutes"`
}

type Event struct {
	EventID     string `json:"eventId"`
	MeetingLink string `json:"meetingLink"`
}

// Oracle books calendar events on behalf of an organizer. credential is the
// organizer's stored calendar token.
type Oracle interface {
	CreateEvent(ctx context.Context, credential string, req EventRequest) (*Event, error)
}

// BookingRequest names attendees by user id, the service resolves their emails.
type BookingRequest struct {
	Summary         string
	AttendeeIDs     []int64
	Start           time.Time
	DurationMinutes int
}
