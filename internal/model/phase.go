package model

// Phase is the current stage of the turn-driven engagement state machine.
// Progression is forward-only; no transition ever moves backward.
type Phase string

const (
	PhaseInitial              Phase = "initial"
	PhaseTrustBuilding        Phase = "trust_building"
	PhaseExtraction           Phase = "extraction"
	PhaseVerificationPushback Phase = "verification_pushback"
	PhaseDelay                Phase = "delay"
	PhaseCompletion           Phase = "completion"
)

var phaseOrder = map[Phase]int{
	PhaseInitial:              0,
	PhaseTrustBuilding:        1,
	PhaseExtraction:           2,
	PhaseVerificationPushback: 3,
	PhaseDelay:                4,
	PhaseCompletion:           5,
}

// Index returns the position of the phase in the fixed ordering.
// Unknown phases sort before initial.
func (p Phase) Index() int {
	if idx, ok := phaseOrder[p]; ok {
		return idx
	}
	return -1
}
