package scheduling_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/applicant-tracking/internal/scheduling"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HTTPCalendar", func() {
	var (
		server   *httptest.Server
		received map[string]interface{}
		authz    string
		status   int
		reply    string
	)

	BeforeEach(func() {
		received = nil
		status = http.StatusCreated
		reply = `{"eventId":"evt-1","meetingLink":"https://meet.example.com/abc"}`
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/events"))
			authz = r.Header.Get("Authorization")
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
			w.WriteHeader(status)
			_, _ = w.Write([]byte(reply))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("posts the event and returns the meeting link", func() {
		cal := scheduling.NewHTTPCalendar(scheduling.CalendarConfig{BaseURL: server.URL + "/"}, nil)
		start := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

		event, err := cal.CreateEvent(context.Background(), "token-1", scheduling.EventRequest{
			Summary:         "Interview: Backend Engineer",
			Attendees:       []string{"hr@example.com", "c1@example.com"},
			Start:           start,
			DurationMinutes: 45,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(event.EventID).To(Equal("evt-1"))
		Expect(event.MeetingLink).To(Equal("https://meet.example.com/abc"))
		Expect(authz).To(Equal("Bearer token-1"))
		Expect(received["summary"]).To(Equal("Interview: Backend Engineer"))
		Expect(received["start"]).To(Equal("2026-11-02T09:00:00Z"))
		Expect(received["end"]).To(Equal("2026-11-02T09:45:00Z"))
		Expect(received["attendees"]).To(HaveLen(2))
	})

	It("fails on a non-success status", func() {
		status = http.StatusUnauthorized
		reply = `{"error":"token revoked"}`
		cal := scheduling.NewHTTPCalendar(scheduling.CalendarConfig{BaseURL: server.URL}, nil)

		_, err := cal.CreateEvent(context.Background(), "stale", scheduling.EventRequest{Summary: "x", Start: time.Now()})
		Expect(err).To(MatchError(ContainSubstring("status 401")))
	})

	It("fails when the reply carries no event id", func() {
		reply = `{"meetingLink":"https://meet.example.com/abc"}`
		cal := scheduling.NewHTTPCalendar(scheduling.CalendarConfig{BaseURL: server.URL}, nil)

		_, err := cal.CreateEvent(context.Background(), "token-1", scheduling.EventRequest{Summary: "x", Start: time.Now()})
		Expect(err).To(HaveOccurred())
	})
})
