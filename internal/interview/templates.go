package interview

import (
	"fmt"

	"github.com/frahmantamala/applicant-tracking/internal/notification"
)

const dateLayout = "Mon, 02 Jan 2006 15:04 MST"

func scheduledNotice(i *Interview, jobTitle string) notification.Notice {
	return notification.Notice{
		UserID:            i.CandidateID,
		Type:              notification.TypeInterviewScheduled,
		Title:             "Interview Scheduled",
		Message:           fmt.Sprintf("Your interview for %s is scheduled on %s.", jobTitle, i.InterviewDate.Format(dateLayout)),
		RelatedEntityType: notification.EntityInterview,
		RelatedEntityID:   i.ID,
	}
}

func updatedNotice(i *Interview, jobTitle string) notification.Notice {
	return notification.Notice{
		UserID:            i.CandidateID,
		Type:              notification.TypeInterviewUpdated,
		Title:             "Interview Updated",
		Message:           fmt.Sprintf("Your interview for %s has been updated. It is now on %s.", jobTitle, i.InterviewDate.Format(dateLayout)),
		RelatedEntityType: notification.EntityInterview,
		RelatedEntityID:   i.ID,
	}
}
