package application_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/applicant-tracking/internal/application"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type string `json:"type"`
		Code string `json:"code"`
	} `json:"error"`
}

var _ = Describe("Handler", func() {
	var (
		f      *fixture
		router *chi.Mux
	)

	as := func(u *userDatamodel.User) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := auth.WithUser(r.Context(), &auth.User{ID: u.ID, Email: u.Email, Role: u.Role})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}

	do := func(method, path, body string) (*httptest.ResponseRecorder, envelope) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var env envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		return rec, env
	}

	BeforeEach(func() {
		f = newFixture(nil)
		h := application.NewHandler(f.service)

		router = chi.NewRouter()
		router.With(as(f.candidates[0])).Post("/applications", h.SubmitApplication)
		router.With(as(f.hr)).Patch("/applications/{id}/status", h.UpdateStatus)
		router.With(as(f.candidates[1])).Patch("/as-candidate/applications/{id}/status", h.UpdateStatus)
	})

	It("answers a submission with 201 and the application", func() {
		rec, env := do(http.MethodPost, "/applications", `{"jobId": `+itoa(f.job.ID)+`, "coverLetter": "hello"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(env.Message).NotTo(BeEmpty())

		var a application.Application
		Expect(json.Unmarshal(env.Data, &a)).To(Succeed())
		Expect(a.Status).To(Equal(application.StatusApplied))
		Expect(a.CandidateID).To(Equal(f.candidates[0].ID))
		Expect(*a.CoverLetter).To(Equal("hello"))
	})

	It("maps duplicates to 409 and unknown jobs to 404", func() {
		body := `{"jobId": ` + itoa(f.job.ID) + `}`
		rec, _ := do(http.MethodPost, "/applications", body)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec, env := do(http.MethodPost, "/applications", body)
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(env.Error.Code).To(Equal("DUPLICATE_APPLICATION"))

		rec, _ = do(http.MethodPost, "/applications", `{"jobId": 424242}`)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("rejects unknown fields", func() {
		rec, _ := do(http.MethodPost, "/applications", `{"jobId": 1, "candidateId": 99}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("updates the status for the owning HR only", func() {
		a := f.apply(f.candidates[0])

		rec, env := do(http.MethodPatch, "/applications/"+itoa(a.ID)+"/status", `{"status": "shortlisted"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var updated application.Application
		Expect(json.Unmarshal(env.Data, &updated)).To(Succeed())
		Expect(updated.Status).To(Equal(application.StatusShortlisted))

		rec, _ = do(http.MethodPatch, "/as-candidate/applications/"+itoa(a.ID)+"/status", `{"status": "hired"}`)
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		rec, _ = do(http.MethodPatch, "/applications/9999/status", `{"status": "hired"}`)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})
})
