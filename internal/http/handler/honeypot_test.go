package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chameleon.app/honeypot/internal/http/router"
	"chameleon.app/honeypot/internal/service"
	"chameleon.app/honeypot/internal/store"
)

const testAPIKey = "test-api-key"

var _ = Describe("Honeypot API", func() {
	var (
		engine   *gin.Engine
		honeypot *mockHoneypotService
		stats    *mockStatsService
		sessions *store.Sessions
	)

	BeforeEach(func() {
		honeypot = &mockHoneypotService{}
		stats = &mockStatsService{}
		sessions = store.NewSessions()

		engine = gin.New()
		router.SetupRoutes(engine, honeypot, stats, sessions, router.Config{
			APIKey: testAPIKey,
		})
	})

	post := func(apiKey string, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/honeypot", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		if apiKey != "" {
			req.Header.Set("X-API-Key", apiKey)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec
	}

	validBody := func(text string) string {
		payload := map[string]any{
			"sessionId": "session-0001",
			"message": map[string]any{
				"sender":    "scammer",
				"text":      text,
				"timestamp": "2025-01-01T00:00:00Z",
			},
		}
		raw, err := json.Marshal(payload)
		Expect(err).NotTo(HaveOccurred())
		return string(raw)
	}

	Describe("POST /api/honeypot", func() {
		It("rejects requests without an api key", func() {
			rec := post("", validBody("hello"))
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects requests with a wrong api key", func() {
			rec := post("wrong-key", validBody("hello"))
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects malformed bodies", func() {
			rec := post(testAPIKey, `{"sessionId":`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects short session ids", func() {
			rec := post(testAPIKey, `{"sessionId":"short","message":{"sender":"s","text":"hi","timestamp":"t"}}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects blank message text", func() {
			rec := post(testAPIKey, validBody("   "))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns the engagement reply", func() {
			honeypot.processFn = func(_ context.Context, params service.ProcessParams) (service.ProcessResult, error) {
				Expect(params.SessionID).To(Equal("session-0001"))
				Expect(params.Message).To(Equal("hello there"))
				return service.ProcessResult{
					Status: "success",
					Reply:  "Who is this calling?",
					Metrics: map[string]any{
						"persona":    "Ramesh Kumar",
						"turn_count": 1,
					},
				}, nil
			}

			rec := post(testAPIKey, validBody("hello there"))
			Expect(rec.Code).To(Equal(http.StatusOK))

			var out map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(Succeed())
			Expect(out).To(HaveKeyWithValue("status", "success"))
			Expect(out).To(HaveKeyWithValue("reply", "Who is this calling?"))
		})

		It("degrades to the safe reply when processing fails", func() {
			honeypot.processFn = func(context.Context, service.ProcessParams) (service.ProcessResult, error) {
				return service.ProcessResult{}, errors.New("boom")
			}

			message := "urgent, account issue"
			rec := post(testAPIKey, validBody(message))
			Expect(rec.Code).To(Equal(http.StatusOK))

			var out map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(Succeed())
			Expect(out).To(HaveKeyWithValue("reply", service.SafeReply(message)))
		})
	})

	Describe("GET /health", func() {
		It("responds without authentication", func() {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var out map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(Succeed())
			Expect(out).To(HaveKeyWithValue("status", "healthy"))
			Expect(out).To(HaveKey("active_sessions"))
		})
	})

	Describe("GET /api/stats", func() {
		It("requires an api key", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns the aggregate view", func() {
			stats.collectFn = func() service.Stats {
				return service.Stats{
					ActiveSessions: 3,
					Intelligence:   map[string]int{"upiIds": 2},
					ScamTypes:      map[string]int{"banking_scam": 1},
				}
			}

			req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
			req.Header.Set("X-API-Key", testAPIKey)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var out map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(Succeed())
			Expect(out).To(HaveKeyWithValue("active_sessions", float64(3)))
		})
	})

	Describe("GET /api/report/schema", func() {
		It("serves the final report schema", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/report/schema", nil)
			req.Header.Set("X-API-Key", testAPIKey)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var out map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(Succeed())
			Expect(out).To(HaveKey("properties"))
			properties := out["properties"].(map[string]any)
			Expect(properties).To(HaveKey("sessionId"))
			Expect(properties).To(HaveKey("extractedIntelligence"))
		})
	})
})
