package engine

import "time"

// Config holds the classifier tunables. All thresholds compare strictly
// ("greater than"), matching the classification rules exactly. Use
// DefaultConfig as the starting point; a zero Config would classify
// everything as FLOW immediately.
type Config struct {
	// FlowKeystrokes is the decayed keystroke count above which a burst of
	// typing counts as flow on its own.
	FlowKeystrokes float64
	// FlowSecondaryKeystrokes and FlowPointerCeiling form the second flow
	// rule: moderate typing with little pointer travel.
	FlowSecondaryKeystrokes float64
	FlowPointerCeiling      float64

	// IdleAfter is how long without keyboard or pointer activity before the
	// user is considered disengaged.
	IdleAfter time.Duration
	// FatigueAfter and BurnoutAfter are session-duration thresholds. They
	// outrank every activity signal.
	FatigueAfter time.Duration
	BurnoutAfter time.Duration

	// DistractionSwitches is the tab-switch count above which the session is
	// classified as distracted.
	DistractionSwitches int

	// ClassifyInterval is the cadence of the classification tick.
	// DurationInterval is the cadence of the session-duration tick. The two
	// are independent; merging them would cost 1-second duration resolution.
	ClassifyInterval time.Duration
	DurationInterval time.Duration

	// DecayFactor is applied to the keystroke and pointer accumulators on
	// every classification tick. Tab switches never decay.
	DecayFactor float64
	// DwellWeight is the credit added to the winning state's distribution
	// bucket on each classification tick.
	DwellWeight float64
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		FlowKeystrokes:          60,
		FlowSecondaryKeystrokes: 30,
		FlowPointerCeiling:      300,
		IdleAfter:               5 * time.Minute,
		FatigueAfter:            90 * time.Minute,
		BurnoutAfter:            4 * time.Hour,
		DistractionSwitches:     3,
		ClassifyInterval:        2 * time.Second,
		DurationInterval:        time.Second,
		DecayFactor:             0.9,
		DwellWeight:             2,
	}
}
