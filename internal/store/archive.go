package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"chameleon.app/honeypot/common/id"
	"chameleon.app/honeypot/core/db"
	"chameleon.app/honeypot/internal/model"
)

// ReportArchive persists delivered final reports so intelligence survives
// the in-memory session store. Worker-side only.
type ReportArchive struct {
	db *db.DB
}

func NewReportArchive(database *db.DB) *ReportArchive {
	return &ReportArchive{db: database}
}

// Insert archives one delivered report.
func (a *ReportArchive) Insert(ctx context.Context, report model.FinalIntelligence, deliveredAt time.Time) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report payload: %w", err)
	}

	var scamType *string
	if report.ScamType != "" {
		s := string(report.ScamType)
		scamType = &s
	}

	_, err = a.db.Pool().Exec(ctx,
		`INSERT INTO final_reports (id, session_id, scam_detected, scam_type, message_count, payload, delivered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id.New(),
		report.SessionID,
		report.ScamDetected,
		scamType,
		report.TotalMessagesExchanged,
		payload,
		deliveredAt,
	)
	if err != nil {
		return fmt.Errorf("inserting final report: %w", err)
	}
	return nil
}
