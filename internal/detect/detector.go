// Package detect scores inbound messages for scam likelihood.
// Scoring is pure: the only state it considers is the history passed in.
package detect

import (
	"regexp"
	"strings"

	"chameleon.app/honeypot/internal/model"
)

// Each signal is scored as (matched pattern groups) / (total pattern groups),
// then combined with fixed weights summing to 1.0. Group counts are part of
// the tuning: threat is a single broad group so that hard account-action
// language saturates its weight on first contact.
type signal struct {
	name   string
	weight float64
	groups []*regexp.Regexp
}

var signals = []signal{
	{
		name:   "urgency",
		weight: 0.20,
		groups: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(immediate|urgent|right now|asap|act fast|hurry|quick)`),
			regexp.MustCompile(`(?i)(today|within\s+\d+\s*(?:hour|hr|minute)|expir|last chance|limited time|don'?t wait)`),
		},
	},
	{
		name:   "authority",
		weight: 0.25,
		groups: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(bank|sbi|hdfc|icici|axis|rbi|income tax|customs)\b`),
			regexp.MustCompile(`(?i)\b(government|police|court|cbi|official|authori[sz]ed|verified|department)\b`),
		},
	},
	{
		name:   "threat",
		weight: 0.25,
		groups: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(block|suspend|freez|terminat|deactivat|legal action|arrest|penalt|\bfine\b|\bfir\b|consequence)`),
		},
	},
	{
		name:   "reward",
		weight: 0.15,
		groups: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(prize|reward|won|winner|lottery|lucky draw|jackpot)\b`),
			regexp.MustCompile(`(?i)\b(cashback|bonus|offer|discount|free|complimentary|gift)\b`),
		},
	},
	{
		name:   "personal_info",
		weight: 0.15,
		groups: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(account|card|cvv|pin|otp|password|ifsc)\b`),
			regexp.MustCompile(`(?i)(kyc|verification code|security code|card details|expiry|aadhaar|\bpan\b)`),
		},
	},
}

// scamThreshold gates the scam flag on the final blended score.
const scamThreshold = 0.6

// Behavioral blend weights applied when prior turns exist.
const (
	baseWeight       = 0.7
	behavioralWeight = 0.3
)

var infoRequestWords = []string{"your", "send", "provide", "share"}

// Classification runs by keyword-group overlap; ties break in declaration
// order, zero overlap yields unclassified.
var scamTypeKeywords = []struct {
	scamType model.ScamType
	keywords []string
}{
	{model.ScamTypeBanking, []string{"kyc", "account block", "blocked", "deactivate", "verify account", "update details"}},
	{model.ScamTypeUPIFraud, []string{"payment failed", "refund", "upi", "transaction", "money transfer"}},
	{model.ScamTypePhishing, []string{"click here", "verify", "suspicious activity", "confirm identity"}},
	{model.ScamTypeInvestment, []string{"guaranteed returns", "investment", "profit", "scheme", "opportunity"}},
	{model.ScamTypeJob, []string{"work from home", "earn", "registration fee", "joining bonus"}},
	{model.ScamTypeLottery, []string{"won", "lottery", "prize", "claim", "lucky draw"}},
	{model.ScamTypeTechSupport, []string{"virus", "infected", "expired", "renewal", "antivirus"}},
}

var personaByScamType = map[model.ScamType]model.PersonaKey{
	model.ScamTypeBanking:     model.PersonaElderly,
	model.ScamTypeUPIFraud:    model.PersonaProfessional,
	model.ScamTypePhishing:    model.PersonaStudent,
	model.ScamTypeInvestment:  model.PersonaProfessional,
	model.ScamTypeJob:         model.PersonaStudent,
	model.ScamTypeLottery:     model.PersonaElderly,
	model.ScamTypeTechSupport: model.PersonaElderly,
}

// Score computes the scam likelihood of one message given the prior turns.
func Score(message string, history []model.Message) model.DetectionResult {
	subScores := make(map[string]float64, len(signals))

	base := 0.0
	for _, sig := range signals {
		matched := 0
		for _, group := range sig.groups {
			if group.MatchString(message) {
				matched++
			}
		}
		score := float64(matched) / float64(len(sig.groups))
		subScores[sig.name] = score
		base += score * sig.weight
	}

	final := base
	if len(history) > 0 {
		final = base*baseWeight + behavioralScore(history)*behavioralWeight
	}
	final = clamp(final)

	scamType := classify(message)
	return model.DetectionResult{
		Score:    final,
		IsScam:   final > scamThreshold,
		ScamType: scamType,
		Persona:  RecommendPersona(scamType),
		Signals:  subScores,
	}
}

// behavioralScore measures how much of the prior conversation is the sender
// asking for things. Fewer than two prior turns is not enough signal.
func behavioralScore(history []model.Message) float64 {
	if len(history) < 2 {
		return 0.0
	}
	requests := 0
	for _, msg := range history {
		lower := strings.ToLower(msg.Text)
		for _, word := range infoRequestWords {
			if strings.Contains(lower, word) {
				requests++
				break
			}
		}
	}
	score := float64(requests) / float64(len(history)) * 0.5
	return clamp(score)
}

func classify(message string) model.ScamType {
	lower := strings.ToLower(message)

	best := model.ScamTypeUnclassified
	bestOverlap := 0
	for _, entry := range scamTypeKeywords {
		overlap := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				overlap++
			}
		}
		if overlap > bestOverlap {
			best = entry.scamType
			bestOverlap = overlap
		}
	}
	return best
}

// RecommendPersona maps a scam type to the persona best suited to engage it.
func RecommendPersona(scamType model.ScamType) model.PersonaKey {
	if persona, ok := personaByScamType[scamType]; ok {
		return persona
	}
	return model.PersonaProfessional
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
