package interview_test

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/application"
	interviewDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/interview"
	"github.com/frahmantamala/applicant-tracking/internal/interview"
	"github.com/frahmantamala/applicant-tracking/internal/notification"
	notificationPostgres "github.com/frahmantamala/applicant-tracking/internal/notification/postgres"
	"github.com/frahmantamala/applicant-tracking/internal/scheduling"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Interview lifecycle", func() {
	var (
		ctx context.Context
		f   *fixture
	)

	BeforeEach(func() {
		ctx = context.Background()
		f = newFixture()
	})

	Describe("ScheduleInterview", func() {
		It("creates a scheduled interview and moves the application to interview", func() {
			a := f.apply(f.candidates[0])

			i := f.schedule(a)

			Expect(i.ID).NotTo(BeZero())
			Expect(i.Status).To(Equal(interview.StatusScheduled))
			Expect(i.Result).To(Equal(interview.ResultPending))
			Expect(i.Duration).To(Equal(interview.DefaultDuration))
			Expect(i.Type).To(Equal(interview.TypeVirtual))
			Expect(*i.InterviewerID).To(Equal(f.hr.ID))
			Expect(i.MeetingLink).To(BeNil())
			Expect(f.applicationStatus(a.ID)).To(Equal(application.StatusInterview))
		})

		It("maps a duplicate that slips past the pre-check to the same conflict", func() {
			f = newFixture(withRacingInterviews())
			a := f.apply(f.candidates[0])
			f.schedule(a)

			_, err := f.interviews.ScheduleInterview(ctx, f.hr.ID, scheduleFor(a))
			Expect(err).To(MatchError(apperrors.ErrDuplicateInterview))
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeConflict))

			var count int64
			Expect(f.db.Model(&interviewDatamodel.Interview{}).Where("application_id = ?", a.ID).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})

		It("links a shortlisted application too", func() {
			a := f.apply(f.candidates[0])
			_, err := f.applications.UpdateStatus(ctx, a.ID, application.StatusShortlisted)
			Expect(err).NotTo(HaveOccurred())

			f.schedule(a)
			Expect(f.applicationStatus(a.ID)).To(Equal(application.StatusInterview))
		})

		It("notifies the candidate", func() {
			a := f.apply(f.candidates[0])
			i := f.schedule(a)

			items := f.notificationsFor(f.candidates[0].ID)
			Expect(items).NotTo(BeEmpty())
			Expect(items[0].Type).To(Equal(notification.TypeInterviewScheduled))
			Expect(items[0].Title).To(Equal("Interview Scheduled"))
			Expect(items[0].Message).To(ContainSubstring("Backend Engineer"))
			Expect(*items[0].RelatedEntityID).To(Equal(i.ID))
		})

		It("rejects a second interview for the same application", func() {
			a := f.apply(f.candidates[0])
			f.schedule(a)

			_, err := f.interviews.ScheduleInterview(ctx, f.hr.ID, scheduleFor(a))
			Expect(errors.Is(err, apperrors.ErrDuplicateInterview)).To(BeTrue())

			var count int64
			Expect(f.db.Model(&interviewDatamodel.Interview{}).Where("application_id = ?", a.ID).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})

		It("fails with not found for an unknown application", func() {
			dto := interview.ScheduleInterviewDTO{ApplicationID: 9999, InterviewDate: time.Now().Add(time.Hour)}
			_, err := f.interviews.ScheduleInterview(ctx, f.hr.ID, dto)
			Expect(errors.Is(err, apperrors.ErrApplicationNotFound)).To(BeTrue())
		})

		It("rejects a job id that does not match the application", func() {
			a := f.apply(f.candidates[0])
			dto := scheduleFor(a)
			dto.JobID = a.JobID + 100

			_, err := f.interviews.ScheduleInterview(ctx, f.hr.ID, dto)
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeInvalidState))
			Expect(f.applicationStatus(a.ID)).To(Equal(application.StatusApplied))
		})

		It("lists every invalid field", func() {
			_, err := f.interviews.ScheduleInterview(ctx, f.hr.ID, interview.ScheduleInterviewDTO{Type: "phone", Duration: ptr(5)})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			details := appErr.Details.(apperrors.ValidationErrors)
			fields := make([]string, 0, len(details.Errors))
			for _, e := range details.Errors {
				fields = append(fields, e.Field)
			}
			Expect(fields).To(ContainElements("applicationId", "interviewDate", "duration", "type"))
		})

		It("still schedules when notifications cannot be written", func() {
			broken := &brokenNotifications{}
			f = newFixture(withSink(func(repo *notificationPostgres.NotificationRepository) notification.RepositoryAPI {
				broken.NotificationRepository = repo
				return broken
			}))
			a := f.apply(f.candidates[0])

			i := f.schedule(a)
			Expect(i.Status).To(Equal(interview.StatusScheduled))
			Expect(f.applicationStatus(a.ID)).To(Equal(application.StatusInterview))
			// received notice for the HR plus the scheduled notice for the candidate
			Expect(broken.attempts).To(Equal(2))
		})
	})

	Describe("calendar booking", func() {
		It("uses the calendar link when none is given", func() {
			booker := &stubBooker{event: &scheduling.Event{EventID: "evt-1", MeetingLink: "https://meet.example.com/abc"}}
			f = newFixture(withBooker(booker))
			a := f.apply(f.candidates[0])

			i := f.schedule(a)
			Expect(booker.calls).To(Equal(1))
			Expect(*i.MeetingLink).To(Equal("https://meet.example.com/abc"))
			Expect(*i.CalendarEventID).To(Equal("evt-1"))

			stored, err := f.interviews.GetByID(ctx, i.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*stored.MeetingLink).To(Equal("https://meet.example.com/abc"))
			Expect(*stored.CalendarEventID).To(Equal("evt-1"))
		})

		It("does not book a calendar event when the insert is rejected", func() {
			booker := &stubBooker{event: &scheduling.Event{EventID: "evt-1", MeetingLink: "https://meet.example.com/abc"}}
			f = newFixture(withBooker(booker), withRacingInterviews())
			a := f.apply(f.candidates[0])
			f.schedule(a)
			Expect(booker.calls).To(Equal(1))

			_, err := f.interviews.ScheduleInterview(ctx, f.hr.ID, scheduleFor(a))
			Expect(err).To(MatchError(apperrors.ErrDuplicateInterview))
			Expect(booker.calls).To(Equal(1))
		})

		It("keeps an explicit meeting link", func() {
			booker := &stubBooker{event: &scheduling.Event{EventID: "evt-1", MeetingLink: "https://meet.example.com/abc"}}
			f = newFixture(withBooker(booker))
			dto := scheduleFor(f.apply(f.candidates[0]))
			dto.MeetingLink = ptr("https://rooms.example.com/42")

			i, err := f.interviews.ScheduleInterview(ctx, f.hr.ID, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(booker.calls).To(BeZero())
			Expect(*i.MeetingLink).To(Equal("https://rooms.example.com/42"))
		})

		It("schedules without a link when the calendar fails", func() {
			booker := &stubBooker{err: apperrors.ErrSchedulingUnavailable}
			f = newFixture(withBooker(booker))
			a := f.apply(f.candidates[0])

			i := f.schedule(a)
			Expect(i.MeetingLink).To(BeNil())
			Expect(i.CalendarEventID).To(BeNil())
			Expect(f.applicationStatus(a.ID)).To(Equal(application.StatusInterview))
		})
	})

	Describe("BulkSchedule", func() {
		It("rejects an empty batch", func() {
			_, err := f.interviews.BulkSchedule(ctx, f.hr.ID, interview.BulkScheduleDTO{})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		})

		It("schedules every item and links every application", func() {
			a1 := f.apply(f.candidates[0])
			a2 := f.apply(f.candidates[1])

			items, err := f.interviews.BulkSchedule(ctx, f.hr.ID, interview.BulkScheduleDTO{
				Interviews: []interview.ScheduleInterviewDTO{scheduleFor(a1), scheduleFor(a2)},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
			Expect(items[0].ID).NotTo(BeZero())
			Expect(items[1].ID).NotTo(Equal(items[0].ID))
			Expect(f.applicationStatus(a1.ID)).To(Equal(application.StatusInterview))
			Expect(f.applicationStatus(a2.ID)).To(Equal(application.StatusInterview))
			Expect(f.notificationsFor(f.candidates[0].ID)[0].Type).To(Equal(notification.TypeInterviewScheduled))
			Expect(f.notificationsFor(f.candidates[1].ID)[0].Type).To(Equal(notification.TypeInterviewScheduled))
		})

		It("inserts nothing when one item conflicts", func() {
			a1 := f.apply(f.candidates[0])
			a2 := f.apply(f.candidates[1])
			f.schedule(a2)

			_, err := f.interviews.BulkSchedule(ctx, f.hr.ID, interview.BulkScheduleDTO{
				Interviews: []interview.ScheduleInterviewDTO{scheduleFor(a1), scheduleFor(a2)},
			})
			Expect(errors.Is(err, apperrors.ErrDuplicateInterview)).To(BeTrue())
			Expect(f.applicationStatus(a1.ID)).To(Equal(application.StatusApplied))

			var count int64
			Expect(f.db.Model(&interviewDatamodel.Interview{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})

		It("rejects the same application twice in one batch", func() {
			a1 := f.apply(f.candidates[0])

			_, err := f.interviews.BulkSchedule(ctx, f.hr.ID, interview.BulkScheduleDTO{
				Interviews: []interview.ScheduleInterviewDTO{scheduleFor(a1), scheduleFor(a1)},
			})
			Expect(errors.Is(err, apperrors.ErrDuplicateInterview)).To(BeTrue())
			Expect(f.applicationStatus(a1.ID)).To(Equal(application.StatusApplied))
		})

		It("names the failing item", func() {
			a1 := f.apply(f.candidates[0])
			missing := scheduleFor(a1)
			missing.ApplicationID = 9999

			_, err := f.interviews.BulkSchedule(ctx, f.hr.ID, interview.BulkScheduleDTO{
				Interviews: []interview.ScheduleInterviewDTO{scheduleFor(a1), missing},
			})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(errors.Is(err, apperrors.ErrApplicationNotFound)).To(BeTrue())
			Expect(appErr.Details).To(HaveKeyWithValue("index", 1))
		})
	})

	Describe("UpdateStatus", func() {
		It("moves forward to completed", func() {
			i := f.schedule(f.apply(f.candidates[0]))

			updated, err := f.interviews.UpdateStatus(ctx, i.ID, interview.StatusCompleted)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(interview.StatusCompleted))
		})

		It("refuses to move backwards", func() {
			i := f.schedule(f.apply(f.candidates[0]))
			_, err := f.interviews.UpdateStatus(ctx, i.ID, interview.StatusCompleted)
			Expect(err).NotTo(HaveOccurred())

			_, err = f.interviews.UpdateStatus(ctx, i.ID, interview.StatusScheduled)
			Expect(errors.Is(err, apperrors.ErrInvalidTransition)).To(BeTrue())
		})

		It("treats the current status as a no-op", func() {
			i := f.schedule(f.apply(f.candidates[0]))
			updated, err := f.interviews.UpdateStatus(ctx, i.ID, interview.StatusScheduled)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(interview.StatusScheduled))
		})

		It("rejects unknown statuses", func() {
			i := f.schedule(f.apply(f.candidates[0]))
			_, err := f.interviews.UpdateStatus(ctx, i.ID, "cancelled")
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		})
	})

	Describe("AddFeedback", func() {
		var i *interview.Interview

		BeforeEach(func() {
			i = f.schedule(f.apply(f.candidates[0]))
		})

		It("completes the interview for a passed result", func() {
			updated, err := f.interviews.AddFeedback(ctx, i.ID, interview.FeedbackDTO{
				Feedback: "Strong system design",
				Rating:   ptr(4),
				Result:   ptr(interview.ResultPassed),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(interview.StatusCompleted))

			stored, err := f.interviews.GetByID(ctx, i.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(interview.StatusCompleted))
			Expect(stored.Result).To(Equal(interview.ResultPassed))
			Expect(*stored.Rating).To(Equal(4))
			Expect(*stored.Feedback).To(Equal("Strong system design"))
		})

		It("completes the interview for a failed result", func() {
			updated, err := f.interviews.AddFeedback(ctx, i.ID, interview.FeedbackDTO{Feedback: "No", Result: ptr(interview.ResultFailed)})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(interview.StatusCompleted))
		})

		It("leaves the status alone for a pending result", func() {
			updated, err := f.interviews.AddFeedback(ctx, i.ID, interview.FeedbackDTO{Feedback: "Half way", Result: ptr(interview.ResultPending)})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(interview.StatusScheduled))
		})

		It("leaves the status alone without a result", func() {
			_, err := f.interviews.AddFeedback(ctx, i.ID, interview.FeedbackDTO{Feedback: "Notes only", Rating: ptr(3)})
			Expect(err).NotTo(HaveOccurred())

			stored, err := f.interviews.GetByID(ctx, i.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(interview.StatusScheduled))
			Expect(stored.Result).To(Equal(interview.ResultPending))
			Expect(*stored.Rating).To(Equal(3))
		})

		It("keeps an earlier rating when none is given", func() {
			_, err := f.interviews.AddFeedback(ctx, i.ID, interview.FeedbackDTO{Feedback: "first", Rating: ptr(2)})
			Expect(err).NotTo(HaveOccurred())
			_, err = f.interviews.AddFeedback(ctx, i.ID, interview.FeedbackDTO{Feedback: "second"})
			Expect(err).NotTo(HaveOccurred())

			stored, err := f.interviews.GetByID(ctx, i.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*stored.Rating).To(Equal(2))
			Expect(*stored.Feedback).To(Equal("second"))
		})

		It("rejects a rating outside 1..5", func() {
			_, err := f.interviews.AddFeedback(ctx, i.ID, interview.FeedbackDTO{Feedback: "x", Rating: ptr(6)})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			details := appErr.Details.(apperrors.ValidationErrors)
			Expect(details.Errors).To(HaveLen(1))
			Expect(details.Errors[0].Field).To(Equal("rating"))
			Expect(details.Errors[0].Code).To(Equal(string(apperrors.ErrCodeInvalidRating)))
		})

		It("fails with not found for an unknown interview", func() {
			_, err := f.interviews.AddFeedback(ctx, 9999, interview.FeedbackDTO{Feedback: "x"})
			Expect(errors.Is(err, apperrors.ErrInterviewNotFound)).To(BeTrue())
		})
	})

	Describe("EditInterview", func() {
		It("saves the changes and notifies the candidate", func() {
			i := f.schedule(f.apply(f.candidates[0]))
			later := i.InterviewDate.Add(24 * time.Hour)

			updated, err := f.interviews.EditInterview(ctx, i.ID, interview.EditInterviewDTO{
				InterviewDate: &later,
				Duration:      ptr(90),
				Type:          ptr(interview.TypeInPerson),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Duration).To(Equal(90))

			stored, err := f.interviews.GetByID(ctx, i.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.InterviewDate.Equal(later)).To(BeTrue())
			Expect(stored.Type).To(Equal(interview.TypeInPerson))

			items := f.notificationsFor(f.candidates[0].ID)
			Expect(items[0].Type).To(Equal(notification.TypeInterviewUpdated))
			Expect(items[0].Title).To(Equal("Interview Updated"))
		})
	})

	Describe("AddPreparationNotes", func() {
		It("stores the notes", func() {
			i := f.schedule(f.apply(f.candidates[0]))
			_, err := f.interviews.AddPreparationNotes(ctx, i.ID, "Ask about Go concurrency")
			Expect(err).NotTo(HaveOccurred())

			stored, err := f.interviews.GetByID(ctx, i.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*stored.PreparationNotes).To(Equal("Ask about Go concurrency"))
		})
	})

	Describe("Delete", func() {
		It("deletes once and then reports failure", func() {
			i := f.schedule(f.apply(f.candidates[0]))

			Expect(f.interviews.Delete(ctx, i.ID)).To(Succeed())
			err := f.interviews.Delete(ctx, i.ID)
			Expect(errors.Is(err, apperrors.ErrDeleteFailed)).To(BeTrue())
		})
	})

	Describe("listing", func() {
		It("lists by job and by candidate", func() {
			f.schedule(f.apply(f.candidates[0]))
			f.schedule(f.apply(f.candidates[1]))

			byJob, err := f.interviews.ListByJob(ctx, f.job.ID, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(byJob).To(HaveLen(2))

			mine, err := f.interviews.ListByCandidate(ctx, f.candidates[1].ID, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))
			Expect(mine[0].CandidateID).To(Equal(f.candidates[1].ID))
		})
	})
})

var _ = Describe("CanAdvance", func() {
	DescribeTable("status order",
		func(from, to string, allowed bool) {
			Expect(interview.CanAdvance(from, to)).To(Equal(allowed))
		},
		Entry("not scheduled to scheduled", interview.StatusNotScheduled, interview.StatusScheduled, true),
		Entry("scheduled to completed", interview.StatusScheduled, interview.StatusCompleted, true),
		Entry("not scheduled to completed", interview.StatusNotScheduled, interview.StatusCompleted, true),
		Entry("completed to scheduled", interview.StatusCompleted, interview.StatusScheduled, false),
		Entry("scheduled to not scheduled", interview.StatusScheduled, interview.StatusNotScheduled, false),
		Entry("unknown source", "cancelled", interview.StatusCompleted, false),
	)
})
