package report_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chameleon.app/honeypot/internal/model"
	"chameleon.app/honeypot/internal/report"
)

var _ = Describe("HTTPClient", func() {
	sample := model.FinalIntelligence{
		SessionID:              "session-0001",
		ScamDetected:           true,
		ScamType:               model.ScamTypeBanking,
		TotalMessagesExchanged: 8,
		AgentNotes:             "Agent Ramesh Kumar engaged for 8 turns.",
	}

	It("posts the report as JSON", func() {
		var received model.FinalIntelligence
		var gotContentType, gotAPIKey string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotContentType = r.Header.Get("Content-Type")
			gotAPIKey = r.Header.Get("x-api-key")
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := report.NewHTTPClient(server.URL, "collector-key", 2*time.Second)
		Expect(client.Deliver(context.Background(), sample)).To(Succeed())

		Expect(received.SessionID).To(Equal("session-0001"))
		Expect(received.ScamDetected).To(BeTrue())
		Expect(gotContentType).To(Equal("application/json"))
		Expect(gotAPIKey).To(Equal("collector-key"))
	})

	It("omits the api key header when not configured", func() {
		var sawHeader bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, sawHeader = r.Header["X-Api-Key"]
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := report.NewHTTPClient(server.URL, "", 2*time.Second)
		Expect(client.Deliver(context.Background(), sample)).To(Succeed())
		Expect(sawHeader).To(BeFalse())
	})

	It("fails on non-2xx responses", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer server.Close()

		client := report.NewHTTPClient(server.URL, "", 2*time.Second)
		err := client.Deliver(context.Background(), sample)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("502"))
	})

	It("honors context cancellation", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := report.NewHTTPClient(server.URL, "", 2*time.Second)
		Expect(client.Deliver(ctx, sample)).NotTo(Succeed())
	})
})
