package engine

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeTimer struct {
	stops int
}

func (t *fakeTimer) Stop() { t.stops++ }

// fakeTimers captures the two tick callbacks so tests can fire them by hand.
type fakeTimers struct {
	durationFn func()
	classifyFn func()
	timers     []*fakeTimer
}

func (f *fakeTimers) factory(interval time.Duration, fn func()) Timer {
	t := &fakeTimer{}
	f.timers = append(f.timers, t)
	if interval == time.Second {
		f.durationFn = fn
	} else {
		f.classifyFn = fn
	}
	return t
}

type fakeSource struct {
	subscribed   int
	unsubscribed int
}

func (s *fakeSource) Subscribe(Sink)   { s.subscribed++ }
func (s *fakeSource) Unsubscribe(Sink) { s.unsubscribed++ }

type rig struct {
	clock  *fakeClock
	timers *fakeTimers
	source *fakeSource
	closed []SessionData
	eng    *Engine
}

func newRig() *rig {
	r := &rig{clock: newFakeClock(), timers: &fakeTimers{}, source: &fakeSource{}}
	r.eng = New(DefaultConfig(),
		WithClock(r.clock),
		WithTimerFactory(r.timers.factory),
		WithEventSource(r.source),
		WithCloseCallback(func(d SessionData) { r.closed = append(r.closed, d) }),
	)
	return r
}

// pass advances wall time second by second, firing the 1 s duration tick on
// every second and the 2 s classification tick on every other one, matching
// the production cadences.
func (r *rig) pass(seconds int) {
	for i := 1; i <= seconds; i++ {
		r.clock.Advance(time.Second)
		r.timers.durationFn()
		if i%2 == 0 {
			r.timers.classifyFn()
		}
	}
}

func TestStartSessionIsIdempotent(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)
	r.eng.StartSession(25) // no-op: already active

	snap := r.eng.Snapshot()
	assert.True(t, snap.IsSessionActive)
	assert.False(t, snap.IsLocked, "second start must not apply a lock")
	assert.Zero(t, snap.TargetSeconds)
	assert.Equal(t, 1, r.source.subscribed, "subscribed exactly once per active period")
}

func TestEndSessionWhileInactiveIsNoop(t *testing.T) {
	r := newRig()
	r.eng.EndSession()
	assert.Empty(t, r.eng.History())
	assert.Empty(t, r.closed)
}

func TestSessionRoundTrip(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)
	r.eng.EndSession()

	history := r.eng.History()
	require.Len(t, history, 1)
	rec := history[0]
	assert.Zero(t, rec.DurationSeconds)
	assert.Equal(t, Distribution{}, rec.Distribution)
	assert.Equal(t, rec.StartTime, rec.EndTime)
	assert.NotEmpty(t, rec.ID)

	require.Len(t, r.closed, 1, "close callback fires exactly once")
	assert.Equal(t, rec, r.closed[0])

	snap := r.eng.Snapshot()
	assert.False(t, snap.IsSessionActive)
	assert.Equal(t, StateIdle, snap.FocusState)
	assert.Equal(t, ModeBalanced, snap.CognitiveMode)
	assert.Equal(t, 1, r.source.unsubscribed)
}

func TestLockedSession(t *testing.T) {
	r := newRig()
	r.eng.StartSession(25)

	snap := r.eng.Snapshot()
	assert.True(t, snap.IsLocked)
	assert.Equal(t, 1500, snap.TargetSeconds)

	r.eng.EndSession()
	snap = r.eng.Snapshot()
	assert.False(t, snap.IsLocked)
	assert.Zero(t, snap.TargetSeconds)

	require.Len(t, r.closed, 1)
	assert.True(t, r.closed[0].Locked)
	assert.Equal(t, 1500, r.closed[0].TargetSeconds)
}

func TestToggleSession(t *testing.T) {
	r := newRig()
	r.eng.ToggleSession(10)
	assert.True(t, r.eng.IsActive())
	assert.True(t, r.eng.Snapshot().IsLocked)

	r.eng.ToggleSession(0)
	assert.False(t, r.eng.IsActive())
	assert.Len(t, r.eng.History(), 1)
}

func TestHistoryMostRecentFirst(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)
	r.eng.EndSession()
	first := r.eng.History()[0].ID

	r.clock.Advance(time.Hour)
	r.eng.StartSession(0)
	r.pass(4)
	r.eng.EndSession()

	history := r.eng.History()
	require.Len(t, history, 2)
	assert.Equal(t, 4, history[0].DurationSeconds, "newest entry first")
	assert.Equal(t, first, history[1].ID)
}

func TestDurationTickResolution(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)
	r.pass(7)
	assert.Equal(t, 7, r.eng.Snapshot().SessionDuration,
		"duration keeps 1-second resolution")
}

// A burst of 70 keystrokes on the first tick, nothing afterwards. The
// burst reads as FLOW while the decayed count stays above the thresholds
// (70·0.9^8 ≈ 30.1 on tick 9) and falls to FOCUSED on tick 10
// (70·0.9^9 ≈ 27.1).
func TestFlowDecaysBackToFocused(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)
	for i := 0; i < 70; i++ {
		r.eng.KeyPress()
	}

	for tick := 1; tick <= 9; tick++ {
		r.pass(2)
		assert.Equal(t, StateFlow, r.eng.State(), "tick %d", tick)
		assert.Equal(t, ModeFlow, r.eng.Mode(), "tick %d", tick)
	}

	r.pass(2)
	assert.Equal(t, StateFocused, r.eng.State())
	assert.Equal(t, ModeBalanced, r.eng.Mode())
}

func TestDecayIsGeometricAndNonNegative(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)
	for i := 0; i < 50; i++ {
		r.eng.KeyPress()
	}
	r.eng.PointerMove(30, 40)

	prevKeys, prevDist := 50.0, 50.0
	for tick := 1; tick <= 20; tick++ {
		r.pass(2)
		m := r.eng.Metrics()
		// The snapshot samples before decay, so tick n sees value·0.9^(n-1).
		expect := 50 * math.Pow(0.9, float64(tick-1))
		assert.InDelta(t, expect, float64(m.KeystrokesPerMinute), 1.0, "tick %d", tick)
		assert.LessOrEqual(t, float64(m.KeystrokesPerMinute), prevKeys)
		assert.LessOrEqual(t, float64(m.MouseDistancePerMinute), prevDist)
		assert.GreaterOrEqual(t, m.KeystrokesPerMinute, 0)
		assert.GreaterOrEqual(t, m.MouseDistancePerMinute, 0)
		prevKeys = float64(m.KeystrokesPerMinute)
		prevDist = float64(m.MouseDistancePerMinute)
	}
}

func TestTabSwitchesNeverDecay(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)
	for i := 0; i < 5; i++ {
		r.eng.VisibilityChange(true)
		r.eng.VisibilityChange(false) // becoming visible is not counted
	}

	for tick := 0; tick < 10; tick++ {
		r.pass(2)
		assert.Equal(t, 5, r.eng.Metrics().TabSwitches)
		assert.Equal(t, StateDistracted, r.eng.State())
	}
}

func TestIdleOverridesDistraction(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)
	for i := 0; i < 10; i++ {
		r.eng.VisibilityChange(true)
	}

	r.clock.Advance(301 * time.Second)
	r.timers.classifyFn()
	assert.Equal(t, StateIdle, r.eng.State())
	assert.Equal(t, ModeBalanced, r.eng.Mode())
}

func TestPointerMoveEuclidean(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)
	r.eng.PointerMove(3, 4)
	r.timers.classifyFn()
	assert.Equal(t, 5, r.eng.Metrics().MouseDistancePerMinute)
}

func TestPointerMoveRejectsNonFinite(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)
	r.eng.PointerMove(math.NaN(), 4)
	r.eng.PointerMove(math.Inf(1), 0)
	r.eng.PointerMove(0, math.NaN())
	r.timers.classifyFn()
	assert.Zero(t, r.eng.Metrics().MouseDistancePerMinute)
}

func TestEventsIgnoredWhileInactive(t *testing.T) {
	r := newRig()
	r.eng.KeyPress()
	r.eng.PointerMove(10, 10)
	r.eng.VisibilityChange(true)

	r.eng.StartSession(0)
	r.timers.classifyFn()
	m := r.eng.Metrics()
	assert.Zero(t, m.KeystrokesPerMinute)
	assert.Zero(t, m.MouseDistancePerMinute)
	assert.Zero(t, m.TabSwitches)
}

func TestDwellWeightAccumulation(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)
	r.pass(10) // 5 classification ticks, all FOCUSED
	r.eng.EndSession()

	rec := r.eng.History()[0]
	assert.Equal(t, 10.0, rec.Distribution[StateFocused])
	assert.Equal(t, StateFocused, rec.Distribution.Primary())
	assert.Equal(t, 100, rec.Distribution.Efficiency(rec.DurationSeconds))
}

func TestLateTicksAfterEndAreNoops(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)
	durationFn, classifyFn := r.timers.durationFn, r.timers.classifyFn
	r.eng.EndSession()

	for _, ft := range r.timers.timers {
		assert.Equal(t, 1, ft.stops, "both timers stopped exactly once")
	}

	durationFn()
	classifyFn()
	snap := r.eng.Snapshot()
	assert.Zero(t, snap.SessionDuration)
	assert.Equal(t, StateIdle, snap.FocusState)
	assert.Len(t, r.eng.History(), 1, "no second record")
}

func TestResetSessionRecordsNothing(t *testing.T) {
	r := newRig()
	r.eng.StartSession(30)
	r.pass(6)
	r.eng.ResetSession()

	assert.Empty(t, r.eng.History())
	assert.Empty(t, r.closed)
	snap := r.eng.Snapshot()
	assert.False(t, snap.IsSessionActive)
	assert.False(t, snap.IsLocked)
	assert.Zero(t, snap.TargetSeconds)
	assert.Zero(t, snap.SessionDuration)
	assert.Equal(t, StateIdle, snap.FocusState)
	assert.Equal(t, ModeBalanced, snap.CognitiveMode)
	assert.Equal(t, 1, r.source.unsubscribed)
}

func TestResetSessionWhileInactiveIsSafe(t *testing.T) {
	r := newRig()
	r.eng.ResetSession()
	assert.False(t, r.eng.IsActive())
	assert.Zero(t, r.source.unsubscribed, "nothing to detach")
}

// Every tick must leave the engine holding one of the six states and one of
// the four modes, with the mode always consistent with the mapping.
func TestStateAndModeAlwaysValid(t *testing.T) {
	r := newRig()
	r.eng.StartSession(0)

	for tick := 0; tick < 50; tick++ {
		switch tick % 4 {
		case 0:
			for i := 0; i < 40; i++ {
				r.eng.KeyPress()
			}
		case 1:
			r.eng.PointerMove(100, 100)
		case 2:
			r.eng.VisibilityChange(true)
		}
		r.pass(2)

		state, mode := r.eng.State(), r.eng.Mode()
		assert.GreaterOrEqual(t, int(state), 0)
		assert.Less(t, int(state), NumStates)
		switch state {
		case StateFlow:
			assert.Equal(t, ModeFlow, mode)
		case StateFatigued, StateBurnoutWarning:
			assert.Equal(t, ModeReducedLoad, mode)
		default:
			assert.Equal(t, ModeBalanced, mode)
		}
	}
}
