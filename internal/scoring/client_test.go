package scoring_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/applicant-tracking/internal/scoring"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HTTPOracle", func() {
	var (
		server *httptest.Server
		mux    *http.ServeMux
		oracle *scoring.HTTPOracle
	)

	BeforeEach(func() {
		mux = http.NewServeMux()
		server = httptest.NewServer(mux)
		oracle = scoring.NewHTTPOracle(scoring.ClientConfig{BaseURL: server.URL, APIKey: "secret"}, nil)
	})

	AfterEach(func() {
		server.Close()
	})

	It("parses a resume", func() {
		mux.HandleFunc("/resumes/parse", func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer secret"))
			var body map[string]string
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			Expect(body["resume"]).To(Equal("Go, Postgres"))
			_, _ = w.Write([]byte(`{"data":{"skills":["go","postgres"],"experience":"5 years","education":"BSc"}}`))
		})

		p, err := oracle.ParseResume(context.Background(), []byte("Go, Postgres"))
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Skills).To(ConsistOf("go", "postgres"))
		Expect(p.Experience).To(Equal("5 years"))
	})

	It("ranks candidates", func() {
		mux.HandleFunc("/candidates/rank", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Job        scoring.JobText            `json:"job"`
				Candidates []scoring.CandidateProfile `json:"candidates"`
			}
			Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
			Expect(body.Job.JobID).To(Equal(int64(7)))
			Expect(body.Candidates).To(HaveLen(2))
			_, _ = w.Write([]byte(`{"data":[{"applicationId":2,"candidateId":20,"score":91},{"applicationId":1,"candidateId":10,"score":40}]}`))
		})

		ranked, err := oracle.RankCandidates(context.Background(), scoring.JobText{JobID: 7, Title: "Backend"}, []scoring.CandidateProfile{
			{ApplicationID: 1, CandidateID: 10, Profile: scoring.PlaceholderProfile()},
			{ApplicationID: 2, CandidateID: 20, Profile: scoring.PlaceholderProfile()},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ranked).To(HaveLen(2))
		Expect(ranked[0].ApplicationID).To(Equal(int64(2)))
	})

	It("fails on a server error", func() {
		mux.HandleFunc("/jobs/match", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := oracle.MatchJobs(context.Background(), scoring.PlaceholderProfile(), []scoring.JobText{{JobID: 1}})
		Expect(err).To(MatchError(ContainSubstring("status 502")))
	})
})
