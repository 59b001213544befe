package interview_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/applicant-tracking/internal/auth"
	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
	"github.com/frahmantamala/applicant-tracking/internal/interview"
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
		when   string
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
		f = newFixture()
		h := interview.NewHandler(f.interviews)
		when = time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

		router = chi.NewRouter()
		router.With(as(f.hr)).Post("/interviews", h.ScheduleInterview)
		router.With(as(f.hr)).Post("/interviews/bulk", h.BulkSchedule)
		router.With(as(f.hr)).Put("/interviews/{id}/feedback", h.AddFeedback)
		router.With(as(f.candidates[0])).Get("/interviews/{id}", h.GetInterview)
		router.With(as(f.candidates[1])).Get("/other/interviews/{id}", h.GetInterview)
	})

	It("schedules with 201 and answers a repeat with 409", func() {
		a := f.apply(f.candidates[0])
		body := fmt.Sprintf(`{"applicationId":%d,"jobId":%d,"candidateId":%d,"interviewDate":%q}`, a.ID, a.JobID, a.CandidateID, when)

		rec, env := do(http.MethodPost, "/interviews", body)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var created interview.Interview
		Expect(json.Unmarshal(env.Data, &created)).To(Succeed())
		Expect(created.Status).To(Equal(interview.StatusScheduled))
		Expect(created.MeetingLink).To(BeNil())

		rec, env = do(http.MethodPost, "/interviews", body)
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(env.Error.Type).To(Equal("CONFLICT"))
	})

	It("answers 404 for an unknown application", func() {
		rec, _ := do(http.MethodPost, "/interviews", fmt.Sprintf(`{"applicationId":9999,"interviewDate":%q}`, when))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("answers 400 for an empty bulk request", func() {
		rec, env := do(http.MethodPost, "/interviews/bulk", `{"interviews":[]}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Error.Type).To(Equal("VALIDATION_ERROR"))
	})

	It("completes the interview when feedback carries a result", func() {
		i := f.schedule(f.apply(f.candidates[0]))

		rec, env := do(http.MethodPut, fmt.Sprintf("/interviews/%d/feedback", i.ID), `{"feedback":"Solid","rating":5,"result":"passed"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var updated interview.Interview
		Expect(json.Unmarshal(env.Data, &updated)).To(Succeed())
		Expect(updated.Status).To(Equal(interview.StatusCompleted))
		Expect(updated.Result).To(Equal(interview.ResultPassed))
	})

	It("shows an interview to its candidate only", func() {
		i := f.schedule(f.apply(f.candidates[0]))

		rec, _ := do(http.MethodGet, fmt.Sprintf("/interviews/%d", i.ID), "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec, _ = do(http.MethodGet, fmt.Sprintf("/other/interviews/%d", i.ID), "")
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})
})
