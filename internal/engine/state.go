package engine

// FocusState is the classifier's instantaneous judgment of the user's
// cognitive engagement. Exactly one state is active at any time. The
// declaration order is load-bearing: it is the tie-break order when
// picking a session's primary state.
type FocusState int

const (
	StateIdle FocusState = iota
	StateFocused
	StateFlow
	StateDistracted
	StateFatigued
	StateBurnoutWarning

	numFocusStates
)

// NumStates is the number of FocusState values.
const NumStates = int(numFocusStates)

var stateNames = [NumStates]string{
	"IDLE",
	"FOCUSED",
	"FLOW",
	"DISTRACTED",
	"FATIGUED",
	"BURNOUT_WARNING",
}

func (s FocusState) String() string {
	if s < 0 || s >= numFocusStates {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// MarshalText encodes the state as its wire name, e.g. "BURNOUT_WARNING".
func (s FocusState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CognitiveMode is the coarser, UI-facing signal derived from FocusState
// plus session duration. It is never set independently of classification.
type CognitiveMode int

const (
	ModeBalanced CognitiveMode = iota
	ModeFlow
	ModeReducedLoad
	// ModeRecovery is declared for downstream consumers but never produced
	// by the classifier. Reserved until there is a rule that triggers it.
	ModeRecovery
)

var modeNames = [...]string{"BALANCED", "FLOW", "REDUCED_LOAD", "RECOVERY"}

func (m CognitiveMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "UNKNOWN"
	}
	return modeNames[m]
}

func (m CognitiveMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
