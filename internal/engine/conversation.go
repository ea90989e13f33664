// Package engine drives the per-session conversation state machine. Phase
// progression is a pure function of the turn counter; the only source of
// nondeterminism is template selection, which goes through an injectable
// random source so tests can pin it.
package engine

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"chameleon.app/honeypot/internal/model"
	"chameleon.app/honeypot/internal/persona"
)

// Rand is the random source used for template selection and disfluency
// rolls. math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewLockedRand returns a Rand backed by a seeded math/rand source guarded
// by a mutex. One Engine is shared by every request goroutine and
// rand.Rand itself is not safe for concurrent use.
func NewLockedRand(seed int64) Rand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Config holds the engagement ceilings. Zero values are replaced with the
// defaults from DefaultConfig.
type Config struct {
	MaxTurns      int
	IntelTarget   int
	MinIntelTurns int
	MaxSessionAge time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxTurns:      25,
		IntelTarget:   3,
		MinIntelTurns: 8,
		MaxSessionAge: 300 * time.Second,
	}
}

// ClosingLine is appended to the last reply of an engagement.
const ClosingLine = " I think I should verify this at the bank branch. Thank you."

type Engine struct {
	rng Rand
	cfg Config
}

func New(rng Rand, cfg Config) *Engine {
	defaults := DefaultConfig()
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = defaults.MaxTurns
	}
	if cfg.IntelTarget <= 0 {
		cfg.IntelTarget = defaults.IntelTarget
	}
	if cfg.MinIntelTurns <= 0 {
		cfg.MinIntelTurns = defaults.MinIntelTurns
	}
	if cfg.MaxSessionAge <= 0 {
		cfg.MaxSessionAge = defaults.MaxSessionAge
	}
	return &Engine{rng: rng, cfg: cfg}
}

// PhaseForTurn maps a turn count to its conversation phase. Boundaries are
// strictly increasing, so the progression is forward-only by construction.
func PhaseForTurn(turn int) model.Phase {
	switch {
	case turn <= 2:
		return model.PhaseInitial
	case turn <= 5:
		return model.PhaseTrustBuilding
	case turn <= 15:
		return model.PhaseExtraction
	case turn <= 20:
		return model.PhaseVerificationPushback
	case turn <= 25:
		return model.PhaseDelay
	default:
		return model.PhaseCompletion
	}
}

// Advance moves the session forward one turn and recomputes its phase.
// It is called exactly once per inbound message, confirmed or not.
func (e *Engine) Advance(sess *model.Session) {
	sess.Turns++
	sess.Phase = PhaseForTurn(sess.Turns)
}

// Reply picks a response template from the active persona's pool for the
// session's current phase, falling back to the initial pool, and applies the
// persona's cosmetic perturbation.
func (e *Engine) Reply(sess *model.Session, p persona.Persona) string {
	pool := p.Templates[sess.Phase]
	if len(pool) == 0 {
		pool = p.Templates[model.PhaseInitial]
	}
	reply := pool[e.rng.Intn(len(pool))]

	if p.DisfluencyRate > 0 && e.rng.Float64() < p.DisfluencyRate {
		reply = perturb(reply, e.rng)
	}
	return reply
}

// ShouldContinue reports whether the engagement keeps going. False when the
// turn ceiling is reached, enough intelligence has been gathered over enough
// turns, or the session has outlived its wall-clock ceiling.
func (e *Engine) ShouldContinue(sess *model.Session, now time.Time) bool {
	if sess.Turns >= e.cfg.MaxTurns {
		return false
	}
	if sess.Indicators.Count() >= e.cfg.IntelTarget && sess.Turns >= e.cfg.MinIntelTurns {
		return false
	}
	if sess.Age(now) > e.cfg.MaxSessionAge {
		return false
	}
	return true
}

// perturb introduces a single vowel-doubling typo into one plain word.
// Words carrying digits, handles, or URL-ish characters are never touched,
// so extracted-indicator substrings stay intact.
func perturb(reply string, rng Rand) string {
	words := strings.Split(reply, " ")

	var candidates []int
	for i, word := range words {
		if len(word) > 4 && isPlainWord(word) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return reply
	}

	idx := candidates[rng.Intn(len(candidates))]
	words[idx] = doubleFirstVowel(words[idx])
	return strings.Join(words, " ")
}

func isPlainWord(word string) bool {
	for _, r := range word {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

func doubleFirstVowel(word string) string {
	for i := 1; i < len(word); i++ {
		switch word[i] {
		case 'a', 'e', 'i', 'o', 'u':
			return word[:i+1] + word[i:]
		}
	}
	return word
}
