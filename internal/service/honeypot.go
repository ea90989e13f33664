// Package service ties detection, engagement and reporting together behind
// the interfaces the HTTP layer consumes.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"chameleon.app/honeypot/common/logger"
	"chameleon.app/honeypot/internal/detect"
	"chameleon.app/honeypot/internal/engine"
	"chameleon.app/honeypot/internal/intel"
	"chameleon.app/honeypot/internal/model"
	"chameleon.app/honeypot/internal/persona"
	"chameleon.app/honeypot/internal/queue"
	"chameleon.app/honeypot/internal/store"
)

// safeReplies is the rotation used before a session is confirmed as a scam.
// Selection is deterministic on message length so repeated probes with the
// same text get the same answer.
var safeReplies = []string{
	"I'm sorry, could you clarify what this is about?",
	"I don't quite understand. Can you explain more?",
	"Is this an official communication?",
	"Could you provide more details?",
	"What exactly do you need from me?",
}

// SafeReply returns the detection-phase reply for a message.
func SafeReply(message string) string {
	return safeReplies[len(message)%len(safeReplies)]
}

type ProcessParams struct {
	SessionID string
	Message   string
	History   []model.Message
	Metadata  map[string]any
}

type ProcessResult struct {
	Status  string
	Reply   string
	Metrics map[string]any
}

type HoneypotService interface {
	// Process handles one inbound message end to end: detection, persona
	// engagement, indicator extraction and, when the engagement ends,
	// enqueueing the final report.
	Process(ctx context.Context, params ProcessParams) (ProcessResult, error)

	// FlushConfirmed enqueues a final report for every confirmed session
	// that has not been reported yet. Called on shutdown so confirmed
	// intelligence is never lost to a restart.
	FlushConfirmed(ctx context.Context) int
}

type honeypotService struct {
	sessions *store.Sessions
	engine   *engine.Engine
	producer queue.Producer
	ttl      time.Duration
	now      func() time.Time

	processed atomic.Uint64
}

func NewHoneypotService(sessions *store.Sessions, eng *engine.Engine, producer queue.Producer, sessionTTL time.Duration) HoneypotService {
	return &honeypotService{
		sessions: sessions,
		engine:   eng,
		producer: producer,
		ttl:      sessionTTL,
		now:      time.Now,
	}
}

func (s *honeypotService) Process(ctx context.Context, params ProcessParams) (ProcessResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SessionID: &params.SessionID,
		Component: "honeypot.service",
	})

	var result ProcessResult
	var finalReport *model.FinalIntelligence

	err := s.sessions.With(params.SessionID, func(sess *model.Session) error {
		if sess.Terminal {
			result = ProcessResult{
				Status: "success",
				Reply:  "",
				Metrics: map[string]any{
					"conversation_state": string(model.PhaseCompletion),
					"turn_count":         sess.Turns,
				},
			}
			return nil
		}

		s.engine.Advance(sess)

		if !sess.ScamDetected {
			det := detect.Score(params.Message, params.History)
			if !det.IsScam {
				result = ProcessResult{
					Status: "success",
					Reply:  SafeReply(params.Message),
					Metrics: map[string]any{
						"stage":      "detection",
						"confidence": det.Score,
					},
				}
				return nil
			}

			sess.Confirm(det.ScamType, det.Persona)
			slog.InfoContext(ctx, "scam confirmed",
				"scam_type", det.ScamType,
				"score", det.Score,
				"persona", det.Persona)
		}

		active := persona.Lookup(sess.Persona)
		reply := s.engine.Reply(sess, active)

		extracted := intel.Extract(params.Message)
		if n := extracted.Count(); n > 0 {
			sess.Indicators.Merge(extracted)
			slog.InfoContext(ctx, "indicators extracted",
				"new", n,
				"total", sess.Indicators.Count())
		}

		if !s.engine.ShouldContinue(sess, s.now()) {
			reply += engine.ClosingLine
			sess.Terminal = true
			rep := buildReport(sess, active)
			finalReport = &rep
			slog.InfoContext(ctx, "ending engagement",
				"turns", sess.Turns,
				"indicators", sess.Indicators.Count())
		}

		result = ProcessResult{
			Status: "success",
			Reply:  reply,
			Metrics: map[string]any{
				"persona":            active.Name,
				"conversation_state": string(sess.Phase),
				"turn_count":         sess.Turns,
			},
		}
		return nil
	})
	if err != nil {
		return ProcessResult{}, fmt.Errorf("processing message: %w", err)
	}

	// Enqueue outside the session lock. On failure the session stays
	// unreported, so the shutdown flush picks it up.
	if finalReport != nil {
		if enqErr := s.enqueueReport(ctx, *finalReport); enqErr != nil {
			slog.ErrorContext(ctx, "failed to enqueue final report", "error", enqErr)
		} else {
			s.markReported(params.SessionID)
		}
	}

	// Opportunistic sweep every tenth processed message, on top of the
	// periodic ticker.
	if s.processed.Add(1)%10 == 0 {
		go func() {
			if evicted := s.sessions.EvictExpired(s.ttl); evicted > 0 {
				slog.Info("evicted expired sessions", "count", evicted)
			}
		}()
	}

	return result, nil
}

func (s *honeypotService) FlushConfirmed(ctx context.Context) int {
	sc := logger.StartSpan(ctx, "service.flush_confirmed")
	defer sc.End()
	ctx = sc.Context()

	flushed := 0
	for _, sess := range s.sessions.Snapshot() {
		if !sess.ScamDetected || sess.Reported {
			continue
		}

		active := persona.Lookup(sess.Persona)
		rep := buildReport(&sess, active)
		if err := s.enqueueReport(ctx, rep); err == nil {
			s.markReported(sess.ID)
			flushed++
		} else {
			slog.ErrorContext(ctx, "failed to flush session report",
				"error", err,
				"session_id", sess.ID)
		}
	}
	return flushed
}

func (s *honeypotService) enqueueReport(ctx context.Context, rep model.FinalIntelligence) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshaling final report: %w", err)
	}

	msg := queue.ReportMessage{
		SessionID: rep.SessionID,
		Payload:   payload,
	}
	if span := trace.SpanContextFromContext(ctx); span.IsValid() {
		traceID := span.TraceID().String()
		msg.TraceID = &traceID
	}

	return s.producer.Enqueue(ctx, msg)
}

func (s *honeypotService) markReported(sessionID string) {
	_ = s.sessions.With(sessionID, func(sess *model.Session) error {
		sess.Reported = true
		return nil
	})
}

func buildReport(sess *model.Session, active persona.Persona) model.FinalIntelligence {
	return model.FinalIntelligence{
		SessionID:              sess.ID,
		ScamDetected:           sess.ScamDetected,
		ScamType:               sess.ScamType,
		TotalMessagesExchanged: sess.Turns,
		ExtractedIntelligence:  model.ReportIntelligence(sess.Indicators),
		AgentNotes: fmt.Sprintf("Agent %s engaged for %d turns. Final state: %s. Intelligence extraction attempted.",
			active.Name, sess.Turns, sess.Phase),
	}
}
