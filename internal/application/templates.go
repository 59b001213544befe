package application

import (
	"fmt"

	"github.com/frahmantamala/applicant-tracking/internal/notification"
)

type template struct {
	Title   string
	Message string
}

// statusTemplate returns the candidate-facing text for a status. Statuses
// without a template produce empty text.
func statusTemplate(status, jobTitle string) template {
	switch status {
	case StatusShortlisted:
		return template{
			Title:   "Application Shortlisted",
			Message: fmt.Sprintf("Good news! Your application for %s has been shortlisted.", jobTitle),
		}
	case StatusInterview:
		return template{
			Title:   "Interview Stage",
			Message: fmt.Sprintf("Your application for %s has moved to the interview stage.", jobTitle),
		}
	case StatusRejected:
		return template{
			Title:   "Application Update",
			Message: fmt.Sprintf("Thank you for your interest in %s. We have decided to move forward with other candidates.", jobTitle),
		}
	case StatusHired:
		return template{
			Title:   "Congratulations!",
			Message: fmt.Sprintf("You have been selected for %s. The hiring team will contact you with next steps.", jobTitle),
		}
	}
	return template{}
}

func statusNotice(a *Application, status, jobTitle string) notification.Notice {
	t := statusTemplate(status, jobTitle)
	return notification.Notice{
		UserID:            a.CandidateID,
		Type:              notification.TypeApplicationStatus,
		Title:             t.Title,
		Message:           t.Message,
		RelatedEntityType: notification.EntityApplication,
		RelatedEntityID:   a.ID,
	}
}

func receivedNotice(a *Application, hrID int64, jobTitle string) notification.Notice {
	return notification.Notice{
		UserID:            hrID,
		Type:              notification.TypeApplicationReceived,
		Title:             "New Application",
		Message:           fmt.Sprintf("A new application was submitted for %s.", jobTitle),
		RelatedEntityType: notification.EntityApplication,
		RelatedEntityID:   a.ID,
	}
}
