package rest_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
	"github.com/frahmantamala/applicant-tracking/internal/job"
	"github.com/frahmantamala/applicant-tracking/internal/transport/rest"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeAuth struct {
	users map[string]*auth.User
}

func (f *fakeAuth) Authenticate(context.Context, auth.LoginDTO) (auth.AuthTokens, error) {
	return auth.AuthTokens{}, apperrors.ErrInvalidCredentials
}

func (f *fakeAuth) RefreshTokens(context.Context, string) (auth.AuthTokens, error) {
	return auth.AuthTokens{}, apperrors.ErrInvalidToken
}

func (f *fakeAuth) ValidateAccessToken(token string) (*auth.Claims, error) {
	u, ok := f.users[token]
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	return &auth.Claims{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (f *fakeAuth) ActiveUser(_ context.Context, userID int64) (*auth.User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeJobs struct{}

func (fakeJobs) CreateJob(_ context.Context, actor *auth.User, dto job.CreateJobDTO) (*job.Job, error) {
	return &job.Job{ID: 1, HRID: actor.ID, Title: dto.Title}, nil
}

func (fakeJobs) GetJob(_ context.Context, id int64, _ *auth.User) (*job.Job, error) {
	return &job.Job{ID: id}, nil
}

func (fakeJobs) UpdateJob(_ context.Context, id int64, _ *auth.User, _ job.UpdateJobDTO) (*job.Job, error) {
	return &job.Job{ID: id}, nil
}

func (fakeJobs) CloseJob(_ context.Context, id int64, _ *auth.User) (*job.Job, error) {
	return &job.Job{ID: id}, nil
}

func (fakeJobs) ListActive(context.Context, int, int) ([]*job.Job, error) {
	return []*job.Job{{ID: 1, Title: "Backend Engineer"}}, nil
}

func (fakeJobs) ListByHR(_ context.Context, hrID int64, _, _ int) ([]*job.Job, error) {
	return []*job.Job{{ID: 2, HRID: hrID}}, nil
}

func (fakeJobs) DeleteJob(context.Context, int64, *auth.User) error {
	return nil
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

var _ = Describe("RegisterAllRoutes", func() {
	var router *chi.Mux

	build := func(db rest.Pinger) {
		router = chi.NewRouter()
		users := map[string]*auth.User{
			"hr-token":        {ID: 1, Email: "hr@acme.test", Role: auth.RoleHR},
			"candidate-token": {ID: 2, Email: "c@acme.test", Role: auth.RoleCandidate},
		}
		rest.RegisterAllRoutes(router, db, rest.Handlers{
			Auth: auth.NewHandler(&fakeAuth{users: users}),
			Job:  job.NewHandler(fakeJobs{}),
		}, rest.Options{OpenAPISpec: []byte("openapi: 3.0.3\n")}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	do := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() { build(pinger{}) })

	It("answers ping and health", func() {
		Expect(do(http.MethodGet, "/api/v1/ping", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/v1/health", "").Code).To(Equal(http.StatusOK))
	})

	It("reports an unreachable database as unavailable", func() {
		build(pinger{err: errors.New("connection refused")})
		rec := do(http.MethodGet, "/api/v1/health", "")
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(rec.Body.String()).To(ContainSubstring("connection refused"))
	})

	It("serves the OpenAPI document", func() {
		rec := do(http.MethodGet, "/openapi.yml", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("openapi: 3.0.3"))
	})

	It("lists open jobs without a token", func() {
		rec := do(http.MethodGet, "/api/v1/jobs", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("Backend Engineer"))
	})

	It("requires a token for job details", func() {
		Expect(do(http.MethodGet, "/api/v1/jobs/5", "").Code).To(Equal(http.StatusUnauthorized))
		Expect(do(http.MethodGet, "/api/v1/jobs/5", "candidate-token").Code).To(Equal(http.StatusOK))
	})

	It("keeps staff routes away from candidates", func() {
		Expect(do(http.MethodGet, "/api/v1/jobs/mine", "candidate-token").Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/api/v1/jobs/mine", "hr-token").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodPatch, "/api/v1/jobs/5/close", "candidate-token").Code).To(Equal(http.StatusForbidden))
	})

	It("rejects unknown tokens", func() {
		Expect(do(http.MethodGet, "/api/v1/jobs/mine", "forged").Code).To(Equal(http.StatusUnauthorized))
	})
})
