package interview_test

import (
	"context"

	"github.com/frahmantamala/applicant-tracking/internal/application"
	jobDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/job"
	"github.com/frahmantamala/applicant-tracking/internal/interview"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Hiring after a passed interview", func() {
	It("hires one candidate, rejects the other and closes the job", func() {
		ctx := context.Background()
		f := newFixture()
		c1, c2 := f.candidates[0], f.candidates[1]

		a1 := f.apply(c1)
		a2 := f.apply(c2)
		Expect(a1.Status).To(Equal(application.StatusApplied))
		Expect(a2.Status).To(Equal(application.StatusApplied))

		for _, a := range []*application.Application{a1, a2} {
			updated, err := f.applications.UpdateStatus(ctx, a.ID, application.StatusShortlisted)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(application.StatusShortlisted))
		}

		i1 := f.schedule(a1)
		Expect(i1.Status).To(Equal(interview.StatusScheduled))
		Expect(f.applicationStatus(a1.ID)).To(Equal(application.StatusInterview))

		i1, err := f.interviews.AddFeedback(ctx, i1.ID, interview.FeedbackDTO{
			Feedback: "Great fit",
			Result:   ptr(interview.ResultPassed),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(i1.Status).To(Equal(interview.StatusCompleted))

		hired, err := f.applications.UpdateStatus(ctx, a1.ID, application.StatusHired)
		Expect(err).NotTo(HaveOccurred())
		Expect(hired.Status).To(Equal(application.StatusHired))

		Expect(f.applicationStatus(a1.ID)).To(Equal(application.StatusHired))
		Expect(f.applicationStatus(a2.ID)).To(Equal(application.StatusRejected))
		Expect(f.jobStatus()).To(Equal(jobDatamodel.StatusClosed))

		Expect(f.notificationsFor(c1.ID)[0].Title).To(Equal("Congratulations!"))
		Expect(f.notificationsFor(c2.ID)[0].Title).To(Equal("Application Update"))
	})
})
