package service

import (
	"time"

	"chameleon.app/honeypot/internal/model"
	"chameleon.app/honeypot/internal/store"
)

// Stats is the aggregate view over all live sessions.
type Stats struct {
	ActiveSessions int            `json:"active_sessions"`
	Intelligence   map[string]int `json:"total_intelligence_extracted"`
	ScamTypes      map[string]int `json:"scam_types_detected"`
	Timestamp      time.Time      `json:"timestamp"`
}

// statKeys maps indicator categories to their wire names, matching the
// final-report payload so both surfaces speak the same vocabulary.
var statKeys = map[model.IndicatorCategory]string{
	model.CategoryPaymentID:     "upiIds",
	model.CategoryBankAccount:   "bankAccounts",
	model.CategoryPhoneNumber:   "phoneNumbers",
	model.CategoryURL:           "phishingLinks",
	model.CategoryEmail:         "emails",
	model.CategorySensitiveCode: "sensitiveCodes",
	model.CategoryOrganization:  "impersonatedEntities",
}

type StatsService interface {
	Collect() Stats
}

type statsService struct {
	sessions *store.Sessions
	now      func() time.Time
}

func NewStatsService(sessions *store.Sessions) StatsService {
	return &statsService{
		sessions: sessions,
		now:      time.Now,
	}
}

func (s *statsService) Collect() Stats {
	stats := Stats{
		Intelligence: make(map[string]int, len(statKeys)),
		ScamTypes:    make(map[string]int),
		Timestamp:    s.now().UTC(),
	}
	for _, category := range model.Categories {
		stats.Intelligence[statKeys[category]] = 0
	}

	sessions := s.sessions.Snapshot()
	stats.ActiveSessions = len(sessions)

	for _, sess := range sessions {
		if !sess.ScamDetected {
			continue
		}
		stats.ScamTypes[string(sess.ScamType)]++
		for _, category := range model.Categories {
			stats.Intelligence[statKeys[category]] += len(sess.Indicators[category])
		}
	}
	return stats
}
