package engine

import (
	"math"
	"time"
)

// Distribution is the dwell-time-weighted histogram of focus states over a
// session, indexed by FocusState. A fresh value is built at every session
// start so closed snapshots never alias the live accumulator.
type Distribution [NumStates]float64

// Primary returns the state with the greatest accumulated dwell weight.
// Ties resolve to the earliest declared state.
func (d Distribution) Primary() FocusState {
	best := StateIdle
	for s := StateFocused; s < numFocusStates; s++ {
		if d[s] > d[best] {
			best = s
		}
	}
	return best
}

// Efficiency scores a session as the share of dwell weight spent in FLOW or
// FOCUSED, as a rounded percentage of the session's duration in seconds.
// A zero-length session scores 0.
func (d Distribution) Efficiency(durationSeconds int) int {
	if durationSeconds <= 0 {
		return 0
	}
	pct := int(math.Round(100 * (d[StateFlow] + d[StateFocused]) / float64(durationSeconds)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Map returns the distribution keyed by state, all six keys present.
func (d Distribution) Map() map[FocusState]float64 {
	m := make(map[FocusState]float64, NumStates)
	for s := StateIdle; s < numFocusStates; s++ {
		m[s] = d[s]
	}
	return m
}

// SessionData is the immutable record of a closed session.
type SessionData struct {
	ID              string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int
	Locked          bool
	TargetSeconds   int
	Distribution    Distribution
}

// Metrics is a read-only snapshot for display, recomputed on every
// classification tick. The per-minute names mirror the wire format the
// dashboard consumes; the values are the decayed accumulators sampled at
// tick time.
type Metrics struct {
	KeystrokesPerMinute    int           `json:"keystrokesPerMinute"`
	MouseDistancePerMinute int           `json:"mouseDistancePerMinute"`
	TabSwitches            int           `json:"tabSwitches"`
	IdleTimeMinutes        int           `json:"idleTimeMinutes"`
	SessionDurationMinutes int           `json:"sessionDurationMinutes"`
	CognitiveMode          CognitiveMode `json:"cognitiveMode"`
}

// Snapshot is everything a UI consumer needs in one locked read.
type Snapshot struct {
	FocusState      FocusState `json:"focusState"`
	CognitiveMode   CognitiveMode `json:"cognitiveMode"`
	Metrics         Metrics    `json:"metrics"`
	IsSessionActive bool       `json:"isSessionActive"`
	IsLocked        bool       `json:"isLocked"`
	TargetSeconds   int        `json:"targetDuration"`
	SessionDuration int        `json:"sessionDuration"`
}
