package job_test

import (
	"context"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
	applicationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/application"
	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
	"github.com/frahmantamala/applicant-tracking/internal/core/datastore/sqlitetest"
	"github.com/frahmantamala/applicant-tracking/internal/job"
	"github.com/frahmantamala/applicant-tracking/internal/job/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Service", func() {
	var (
		db        *gorm.DB
		service   *job.Service
		owner     *auth.User
		otherHR   *auth.User
		admin     *auth.User
		candidate *auth.User
		ctx       context.Context
	)

	seed := func(email, role string) *auth.User {
		u, err := sqlitetest.SeedUser(db, email, role)
		Expect(err).NotTo(HaveOccurred())
		return &auth.User{ID: u.ID, Email: u.Email, Role: u.Role}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = sqlitetest.Open()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(sqlitetest.Close, db)

		owner = seed("owner@example.com", userDatamodel.RoleHR)
		otherHR = seed("other@example.com", userDatamodel.RoleHR)
		admin = seed("admin@example.com", userDatamodel.RoleAdmin)
		candidate = seed("candidate@example.com", userDatamodel.RoleCandidate)

		service = job.NewService(postgres.NewJobRepository(db), nil)
	})

	validDTO := func() job.CreateJobDTO {
		return job.CreateJobDTO{
			Title:       "Backend Engineer",
			Department:  "Engineering",
			Description: "Build the applicant tracker",
		}
	}

	Describe("CreateJob", func() {
		It("defaults new postings to draft", func() {
			j, err := service.CreateJob(ctx, owner, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(j.ID).NotTo(BeZero())
			Expect(j.Status).To(Equal(job.StatusDraft))
			Expect(j.HRID).To(Equal(owner.ID))
		})

		It("can publish immediately", func() {
			dto := validDTO()
			dto.Status = job.StatusActive
			j, err := service.CreateJob(ctx, owner, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(j.AcceptsApplications()).To(BeTrue())
		})

		It("refuses to create a closed posting", func() {
			dto := validDTO()
			dto.Status = job.StatusClosed
			_, err := service.CreateJob(ctx, owner, dto)
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		})

		It("is reserved to staff", func() {
			_, err := service.CreateJob(ctx, candidate, validDTO())
			Expect(err).To(MatchError(apperrors.ErrUnauthorizedAccess))
		})
	})

	Describe("UpdateJob", func() {
		var posting *job.Job

		BeforeEach(func() {
			var err error
			posting, err = service.CreateJob(ctx, owner, validDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("lets the owner edit", func() {
			title := "Senior Backend Engineer"
			updated, err := service.UpdateJob(ctx, posting.ID, owner, job.UpdateJobDTO{Title: &title})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Title).To(Equal(title))
			Expect(updated.Department).To(Equal("Engineering"))

			reloaded, err := service.GetJob(ctx, posting.ID, owner)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.Title).To(Equal(title))
		})

		It("forbids other HR users but allows admins", func() {
			title := "x"
			_, err := service.UpdateJob(ctx, posting.ID, otherHR, job.UpdateJobDTO{Title: &title})
			Expect(err).To(MatchError(apperrors.ErrUnauthorizedAccess))

			_, err = service.UpdateJob(ctx, posting.ID, admin, job.UpdateJobDTO{Title: &title})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects edits once closed", func() {
			_, err := service.CloseJob(ctx, posting.ID, owner)
			Expect(err).NotTo(HaveOccurred())

			title := "late edit"
			_, err = service.UpdateJob(ctx, posting.ID, owner, job.UpdateJobDTO{Title: &title})
			Expect(err).To(MatchError(apperrors.ErrJobClosed))
		})
	})

	Describe("visibility", func() {
		It("lists only active postings publicly", func() {
			_, err := service.CreateJob(ctx, owner, validDTO())
			Expect(err).NotTo(HaveOccurred())
			dto := validDTO()
			dto.Status = job.StatusActive
			active, err := service.CreateJob(ctx, owner, dto)
			Expect(err).NotTo(HaveOccurred())

			jobs, err := service.ListActive(ctx, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].ID).To(Equal(active.ID))

			mine, err := service.ListByHR(ctx, owner.ID, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(2))
		})

		It("hides drafts from candidates", func() {
			draft, err := service.CreateJob(ctx, owner, validDTO())
			Expect(err).NotTo(HaveOccurred())

			_, err = service.GetJob(ctx, draft.ID, candidate)
			Expect(err).To(MatchError(apperrors.ErrJobNotFound))
			_, err = service.GetJob(ctx, draft.ID, nil)
			Expect(err).To(MatchError(apperrors.ErrJobNotFound))
		})
	})

	Describe("DeleteJob", func() {
		It("cascades to applications", func() {
			dto := validDTO()
			dto.Status = job.StatusActive
			posting, err := service.CreateJob(ctx, owner, dto)
			Expect(err).NotTo(HaveOccurred())

			Expect(db.Create(&applicationDatamodel.Application{
				JobID:       posting.ID,
				CandidateID: candidate.ID,
				Status:      applicationDatamodel.StatusApplied,
			}).Error).To(Succeed())

			Expect(service.DeleteJob(ctx, posting.ID, owner)).To(Succeed())

			var count int64
			Expect(db.Model(&applicationDatamodel.Application{}).Where("job_id = ?", posting.ID).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())

			err = service.DeleteJob(ctx, posting.ID, owner)
			Expect(err).To(MatchError(apperrors.ErrJobNotFound))
		})
	})
})
