package engine

import "time"

// classify turns the current signal picture into a FocusState. The rules
// form a strict priority ladder; the first match wins. The ordering is a
// policy decision: sustained overwork outranks momentary activity, no
// activity at all outranks distraction counting, and frequent context
// switching invalidates an apparent typing burst. Reordering changes
// outcomes at boundary values.
func classify(cfg Config, idle, sessionDur time.Duration, keystrokes, pointerDist float64, tabSwitches int) FocusState {
	switch {
	case sessionDur > cfg.BurnoutAfter:
		return StateBurnoutWarning
	case sessionDur > cfg.FatigueAfter:
		return StateFatigued
	case idle > cfg.IdleAfter:
		return StateIdle
	case tabSwitches > cfg.DistractionSwitches:
		return StateDistracted
	case keystrokes > cfg.FlowKeystrokes,
		keystrokes > cfg.FlowSecondaryKeystrokes && pointerDist < cfg.FlowPointerCeiling:
		return StateFlow
	default:
		return StateFocused
	}
}

// deriveMode maps a FocusState to the UI-facing CognitiveMode. Sessions
// past the fatigue threshold always get REDUCED_LOAD, independent of the
// state mapping, so the clamp survives future changes to the state rules.
func deriveMode(cfg Config, state FocusState, sessionDur time.Duration) CognitiveMode {
	mode := ModeBalanced
	switch state {
	case StateFlow:
		mode = ModeFlow
	case StateFatigued, StateBurnoutWarning:
		mode = ModeReducedLoad
	}
	if sessionDur > cfg.FatigueAfter {
		mode = ModeReducedLoad
	}
	return mode
}
