package mailer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/applicant-tracking/internal/mailer"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HTTPSender", func() {
	It("posts the message with the API key", func() {
		var got mailer.Message
		var authz string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/messages"))
			authz = r.Header.Get("Authorization")
			Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		sender := mailer.NewHTTPSender(server.URL, "key-1", 0)
		err := sender.Send(context.Background(), mailer.Message{From: "a@example.com", To: "b@example.com", Subject: "Hi", Text: "Body"})

		Expect(err).NotTo(HaveOccurred())
		Expect(authz).To(Equal("Bearer key-1"))
		Expect(got.To).To(Equal("b@example.com"))
	})

	It("fails on a rejected message", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		err := mailer.NewHTTPSender(server.URL, "", 0).Send(context.Background(), mailer.Message{To: "x"})
		Expect(err).To(MatchError(ContainSubstring("status 422")))
	})
})
