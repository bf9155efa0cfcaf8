package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPriorityOrder(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name        string
		idle        time.Duration
		sessionDur  time.Duration
		keystrokes  float64
		pointerDist float64
		tabSwitches int
		want        FocusState
	}{
		{
			name:       "burnout outranks everything",
			idle:       10 * time.Minute,
			sessionDur: 300 * time.Minute,
			keystrokes: 200, tabSwitches: 10,
			want: StateBurnoutWarning,
		},
		{
			name:       "fatigue outranks idleness and activity",
			idle:       10 * time.Minute,
			sessionDur: 91 * time.Minute,
			keystrokes: 200, tabSwitches: 10,
			want: StateFatigued,
		},
		{
			name:       "idleness outranks distraction",
			idle:       301 * time.Second,
			sessionDur: 10 * time.Minute,
			tabSwitches: 10,
			want:       StateIdle,
		},
		{
			name:       "distraction outranks flow",
			sessionDur: 10 * time.Minute,
			keystrokes: 100, tabSwitches: 4,
			want: StateDistracted,
		},
		{
			name:       "heavy typing is flow",
			sessionDur: 10 * time.Minute,
			keystrokes: 61,
			want:       StateFlow,
		},
		{
			name:        "moderate typing with quiet pointer is flow",
			sessionDur:  10 * time.Minute,
			keystrokes:  31,
			pointerDist: 299,
			want:        StateFlow,
		},
		{
			name:        "moderate typing with busy pointer is not flow",
			sessionDur:  10 * time.Minute,
			keystrokes:  31,
			pointerDist: 300,
			want:        StateFocused,
		},
		{
			name: "quiet session is focused",
			want: StateFocused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(cfg, tt.idle, tt.sessionDur, tt.keystrokes, tt.pointerDist, tt.tabSwitches)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Every threshold compares strictly, so a value sitting exactly on a
// threshold must not trigger the rule.
func TestClassifyThresholdsAreStrict(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, StateFatigued,
		classify(cfg, 0, 4*time.Hour, 0, 0, 0),
		"exactly 4h is fatigue, not burnout")
	assert.Equal(t, StateFocused,
		classify(cfg, 0, 90*time.Minute, 0, 0, 0),
		"exactly 90m is not fatigue")
	assert.Equal(t, StateFocused,
		classify(cfg, 5*time.Minute, 0, 0, 500, 0),
		"exactly 5m idle is not idle")
	assert.Equal(t, StateFocused,
		classify(cfg, 0, 0, 0, 500, 3),
		"exactly 3 switches is not distraction")
	assert.Equal(t, StateFocused,
		classify(cfg, 0, 0, 60, 500, 0),
		"exactly 60 keystrokes is not flow")
	assert.Equal(t, StateFocused,
		classify(cfg, 0, 0, 30, 0, 0),
		"exactly 30 keystrokes misses the secondary flow rule")
}

func TestDeriveModeMapping(t *testing.T) {
	cfg := DefaultConfig()

	want := map[FocusState]CognitiveMode{
		StateIdle:           ModeBalanced,
		StateFocused:        ModeBalanced,
		StateFlow:           ModeFlow,
		StateDistracted:     ModeBalanced,
		StateFatigued:       ModeReducedLoad,
		StateBurnoutWarning: ModeReducedLoad,
	}
	for state, mode := range want {
		assert.Equal(t, mode, deriveMode(cfg, state, time.Minute), "state %s", state)
	}
}

// The duration clamp must hold independently of the state mapping: a long
// session forces REDUCED_LOAD even for states that normally map elsewhere.
func TestDeriveModeDurationClamp(t *testing.T) {
	cfg := DefaultConfig()

	for s := StateIdle; s < numFocusStates; s++ {
		assert.Equal(t, ModeReducedLoad, deriveMode(cfg, s, 91*time.Minute), "state %s", s)
	}
	assert.Equal(t, ModeFlow, deriveMode(cfg, StateFlow, 90*time.Minute),
		"exactly 90m does not clamp")
}
