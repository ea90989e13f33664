package model

// ScamType classifies a confirmed engagement.
type ScamType string

const (
	ScamTypeBanking      ScamType = "banking_scam"
	ScamTypeUPIFraud     ScamType = "upi_fraud"
	ScamTypePhishing     ScamType = "phishing"
	ScamTypeInvestment   ScamType = "investment_scam"
	ScamTypeJob          ScamType = "job_scam"
	ScamTypeLottery      ScamType = "lottery_scam"
	ScamTypeTechSupport  ScamType = "tech_support"
	ScamTypeUnclassified ScamType = "unclassified"
)

// PersonaKey names an entry in the persona catalog.
type PersonaKey string

const (
	PersonaElderly      PersonaKey = "elderly"
	PersonaStudent      PersonaKey = "student"
	PersonaProfessional PersonaKey = "professional"
)

// DetectionResult is the transient outcome of scoring one message. It is
// never persisted; the session copies ScamType and Persona exactly once,
// on confirmation.
type DetectionResult struct {
	Score    float64
	IsScam   bool
	ScamType ScamType
	Persona  PersonaKey

	// Signals holds the per-signal sub-scores (urgency, authority, threat,
	// reward, personal_info) for metrics and debugging.
	Signals map[string]float64
}
