package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"chameleon.app/honeypot/internal/model"
	"chameleon.app/honeypot/internal/queue"
	"chameleon.app/honeypot/internal/report"
	"chameleon.app/honeypot/internal/store"
)

// ReportProcessor handles a single dequeued final report.
type ReportProcessor interface {
	Process(ctx context.Context, msg queue.Message) error
}

type reportProcessor struct {
	client  report.Client
	archive *store.ReportArchive // nil when archival is disabled
}

func NewReportProcessor(client report.Client, archive *store.ReportArchive) ReportProcessor {
	return &reportProcessor{
		client:  client,
		archive: archive,
	}
}

func (p *reportProcessor) Process(ctx context.Context, msg queue.Message) error {
	var rep model.FinalIntelligence
	if err := json.Unmarshal(msg.Payload, &rep); err != nil {
		return fmt.Errorf("unmarshaling report payload: %w", err)
	}

	if err := p.client.Deliver(ctx, rep); err != nil {
		return fmt.Errorf("delivering report: %w", err)
	}

	if p.archive != nil {
		// The report was already delivered, so an archive failure should not
		// trigger a redelivery. Log it and move on.
		if err := p.archive.Insert(ctx, rep, time.Now().UTC()); err != nil {
			slog.ErrorContext(ctx, "failed to archive delivered report",
				"error", err,
				"session_id", rep.SessionID)
		}
	}

	return nil
}
