package nav

// Phase is the navigator's current mode. Exactly one phase is active.
type Phase uint8

const (
	PhasePlanning Phase = iota
	PhaseLeaving
	PhaseTraveling
	PhaseOrbiting
	PhaseCompleted
)

// String returns the HUD label of a phase.
func (p Phase) String() string {
	switch p {
	case PhasePlanning:
		return "PLANNING"
	case PhaseLeaving:
		return "LEAVING"
	case PhaseTraveling:
		return "TRAVELING"
	case PhaseOrbiting:
		return "ORBITING"
	case PhaseCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether p is one of the five phases.
func (p Phase) Valid() bool {
	return p <= PhaseCompleted
}
