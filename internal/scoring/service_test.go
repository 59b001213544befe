package scoring_test

import (
	"context"
	"errors"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/application"
	"github.com/frahmantamala/applicant-tracking/internal/job"
	"github.com/frahmantamala/applicant-tracking/internal/scoring"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeOracle struct {
	parseErr  error
	rankErr   error
	matchErr  error
	ranked    []scoring.RankedCandidate
	matched   []scoring.MatchedJob
	seen      []scoring.CandidateProfile
	profile   scoring.Profile
	parsed    int
	rankCalls int
}

func (f *fakeOracle) ParseResume(_ context.Context, raw []byte) (*scoring.Profile, error) {
	f.parsed++
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return &scoring.Profile{Skills: []string{string(raw)}, Experience: "3 years", Education: "BSc"}, nil
}

func (f *fakeOracle) RankCandidates(_ context.Context, _ scoring.JobText, candidates []scoring.CandidateProfile) ([]scoring.RankedCandidate, error) {
	f.rankCalls++
	f.seen = candidates
	return f.ranked, f.rankErr
}

func (f *fakeOracle) MatchJobs(_ context.Context, profile scoring.Profile, _ []scoring.JobText) ([]scoring.MatchedJob, error) {
	f.profile = profile
	return f.matched, f.matchErr
}

type memoryApplications struct {
	items []*application.Application
}

func (m *memoryApplications) ListByJob(_ context.Context, jobID int64, _, _ int) ([]*application.Application, error) {
	var out []*application.Application
	for _, a := range m.items {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryApplications) ListByCandidate(_ context.Context, candidateID int64, _, _ int) ([]*application.Application, error) {
	var out []*application.Application
	for _, a := range m.items {
		if a.CandidateID == candidateID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memoryJobs struct {
	items []*job.Job
}

func (m *memoryJobs) GetByID(_ context.Context, id int64) (*job.Job, error) {
	for _, j := range m.items {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, apperrors.ErrJobNotFound
}

func (m *memoryJobs) ListByStatus(_ context.Context, status string, _, _ int) ([]*job.Job, error) {
	var out []*job.Job
	for _, j := range m.items {
		if j.Status == status {
			out = append(out, j)
		}
	}
	return out, nil
}

func resume(s string) *string {
	return &s
}

var _ = Describe("Service", func() {
	var (
		ctx    context.Context
		oracle *fakeOracle
		apps   *memoryApplications
		jobs   *memoryJobs
		svc    *scoring.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		oracle = &fakeOracle{}
		jobs = &memoryJobs{items: []*job.Job{
			{ID: 1, HRID: 7, Title: "Backend Engineer", Status: job.StatusActive},
			{ID: 2, HRID: 7, Title: "Frontend Engineer", Status: job.StatusActive},
			{ID: 3, HRID: 7, Title: "Old role", Status: job.StatusClosed},
		}}
		apps = &memoryApplications{items: []*application.Application{
			{ID: 10, JobID: 1, CandidateID: 100, Status: application.StatusApplied, ResumeText: resume("go")},
			{ID: 11, JobID: 1, CandidateID: 101, Status: application.StatusShortlisted, ResumeText: resume("rust")},
			{ID: 12, JobID: 1, CandidateID: 102, Status: application.StatusRejected, ResumeText: resume("java")},
			{ID: 13, JobID: 1, CandidateID: 103, Status: application.StatusApplied},
		}}
		svc = scoring.NewService(oracle, apps, jobs, 1, nil)
	})

	Describe("RankApplicants", func() {
		It("ranks the open applications highest score first", func() {
			oracle.ranked = []scoring.RankedCandidate{
				{ApplicationID: 10, Score: 55},
				{ApplicationID: 13, Score: 20},
				{ApplicationID: 11, Score: 80},
			}

			ranked, err := svc.RankApplicants(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ranked).To(HaveLen(3))
			Expect(ranked[0].ApplicationID).To(Equal(int64(11)))
			Expect(ranked[2].ApplicationID).To(Equal(int64(13)))
			Expect(oracle.seen).To(HaveLen(3))
		})

		It("degrades unparsable resumes to a placeholder profile", func() {
			oracle.parseErr = errors.New("parser down")
			oracle.ranked = []scoring.RankedCandidate{}

			_, err := svc.RankApplicants(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(oracle.rankCalls).To(Equal(1))
			for _, c := range oracle.seen {
				Expect(c.Profile.Experience).To(Equal("Not specified"))
				Expect(c.Profile.Education).To(Equal("Not specified"))
			}
		})

		It("fails as unavailable when ranking fails", func() {
			oracle.rankErr = errors.New("timeout")

			_, err := svc.RankApplicants(ctx, 1)
			Expect(errors.Is(err, apperrors.ErrScoringUnavailable)).To(BeTrue())
		})

		It("returns an empty ranking for a job without applicants", func() {
			ranked, err := svc.RankApplicants(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(ranked).To(BeEmpty())
			Expect(oracle.rankCalls).To(BeZero())
		})

		It("fails with not found for an unknown job", func() {
			_, err := svc.RankApplicants(ctx, 99)
			Expect(errors.Is(err, apperrors.ErrJobNotFound)).To(BeTrue())
		})
	})

	Describe("MatchJobsForCandidate", func() {
		It("keeps the top matches", func() {
			oracle.matched = []scoring.MatchedJob{
				{JobID: 1, Score: 30},
				{JobID: 2, Score: 90},
			}

			matched, err := svc.MatchJobsForCandidate(ctx, 100, "go", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(matched).To(HaveLen(1))
			Expect(matched[0].JobID).To(Equal(int64(2)))
		})

		It("falls back to the resume of an earlier application", func() {
			oracle.matched = []scoring.MatchedJob{}

			_, err := svc.MatchJobsForCandidate(ctx, 101, "", 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(oracle.profile.Skills).To(ConsistOf("rust"))
		})

		It("fails as unavailable when matching fails", func() {
			oracle.matchErr = errors.New("timeout")

			_, err := svc.MatchJobsForCandidate(ctx, 100, "go", 3)
			Expect(errors.Is(err, apperrors.ErrScoringUnavailable)).To(BeTrue())
		})
	})
})
