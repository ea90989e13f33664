package model

import "time"

// Message is one turn of the inbound conversation as supplied by the caller.
type Message struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Session is the per-conversation engagement state. It is exclusively owned
// by the session store; callers receive a mutable reference only for the
// duration of one serialized message-processing call.
//
// Invariants: Turns is monotonically non-decreasing; ScamType and Persona are
// set at most once and only together; once Terminal is set no further
// mutation occurs.
type Session struct {
	ID           string
	CreatedAt    time.Time
	LastActivity time.Time

	Turns        int
	ScamDetected bool
	ScamType     ScamType
	Persona      PersonaKey
	Phase        Phase
	Indicators   IndicatorSet

	Terminal bool
	// Reported is set once the final report task has been enqueued, so a
	// shutdown flush does not enqueue the same session twice.
	Reported bool
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
		Phase:        PhaseInitial,
		Indicators:   NewIndicatorSet(),
	}
}

// Confirm records the sticky classification. It is a no-op when the session
// has already been confirmed.
func (s *Session) Confirm(scamType ScamType, persona PersonaKey) {
	if s.ScamDetected {
		return
	}
	s.ScamDetected = true
	s.ScamType = scamType
	s.Persona = persona
}

// Age returns the wall-clock age of the session.
func (s *Session) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}

// Idle returns how long the session has been without activity.
func (s *Session) Idle(now time.Time) time.Duration {
	return now.Sub(s.LastActivity)
}
