package engine

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine owns one user's focus session: lifecycle, signal accumulators,
// the periodic classifier, and the history of closed sessions. All entry
// points serialize on a single mutex, so any number of goroutines (HTTP
// handlers, timers, an event source) may drive one engine.
type Engine struct {
	cfg      Config
	clock    Clock
	timers   TimerFactory
	source   EventSource
	onClose  func(SessionData)
	log      *zap.Logger

	mu           sync.Mutex
	active       bool
	locked       bool
	targetSecs   int
	sessionID    string
	startTime    time.Time
	duration     int // whole seconds of active session time
	keystrokes   float64
	pointerDist  float64
	tabSwitches  int
	lastActivity time.Time
	state        FocusState
	mode         CognitiveMode
	dist         Distribution
	metrics      Metrics
	history      []SessionData

	durTimer   Timer
	classTimer Timer
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithTimerFactory replaces the periodic-timer primitive.
func WithTimerFactory(f TimerFactory) Option {
	return func(e *Engine) { e.timers = f }
}

// WithEventSource registers a source the engine subscribes to for the
// duration of each active session.
func WithEventSource(src EventSource) Option {
	return func(e *Engine) { e.source = src }
}

// WithCloseCallback sets the hook fired exactly once per session close,
// carrying the finalized record. The callback runs outside the engine lock.
func WithCloseCallback(fn func(SessionData)) Option {
	return func(e *Engine) { e.onClose = fn }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New builds an inactive engine.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		clock:  systemClock{},
		timers: newTickerTimer,
		log:    zap.NewNop(),
		state:  StateIdle,
		mode:   ModeBalanced,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartSession begins a new session. A target of zero (or negative) minutes
// starts a free-flow session; a positive target enables focus lock for that
// many minutes. Calling it while a session is active is a no-op.
func (e *Engine) StartSession(targetMinutes int) {
	e.mu.Lock()
	if e.active {
		e.mu.Unlock()
		return
	}
	now := e.clock.Now()
	e.sessionID = uuid.NewString()
	e.startTime = now
	e.duration = 0
	e.keystrokes = 0
	e.pointerDist = 0
	e.tabSwitches = 0
	e.lastActivity = now
	e.dist = Distribution{}
	e.metrics = Metrics{CognitiveMode: e.mode}
	if targetMinutes > 0 {
		e.locked = true
		e.targetSecs = targetMinutes * 60
	} else {
		e.locked = false
		e.targetSecs = 0
	}
	e.active = true
	e.durTimer = e.timers(e.cfg.DurationInterval, e.durationTick)
	e.classTimer = e.timers(e.cfg.ClassifyInterval, e.classifyTick)
	id, locked := e.sessionID, e.locked
	e.mu.Unlock()

	if e.source != nil {
		e.source.Subscribe(e)
	}
	e.log.Info("focus session started",
		zap.String("session_id", id),
		zap.Bool("locked", locked),
		zap.Int("target_minutes", targetMinutes))
}

// EndSession closes the active session: both timers stop, the event source
// is detached, the finalized record is prepended to history, and the close
// callback fires once. Calling it while inactive is a no-op.
func (e *Engine) EndSession() {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	e.stopTimersLocked()
	now := e.clock.Now()
	start := e.startTime
	if start.IsZero() {
		// Unreachable under normal lifecycle discipline; reconstruct
		// rather than fail.
		start = now.Add(-time.Duration(e.duration) * time.Second)
	}
	data := SessionData{
		ID:              e.sessionID,
		StartTime:       start,
		EndTime:         now,
		DurationSeconds: e.duration,
		Locked:          e.locked,
		TargetSeconds:   e.targetSecs,
		Distribution:    e.dist,
	}
	e.history = append([]SessionData{data}, e.history...)
	e.clearSessionLocked()
	cb := e.onClose
	e.mu.Unlock()

	if e.source != nil {
		e.source.Unsubscribe(e)
	}
	if cb != nil {
		cb(data)
	}
	e.log.Info("focus session ended",
		zap.String("session_id", data.ID),
		zap.Int("duration_seconds", data.DurationSeconds),
		zap.Stringer("primary_state", data.Distribution.Primary()))
}

// ToggleSession ends the active session, or starts one if none is running.
func (e *Engine) ToggleSession(targetMinutes int) {
	e.mu.Lock()
	active := e.active
	e.mu.Unlock()
	if active {
		e.EndSession()
	} else {
		e.StartSession(targetMinutes)
	}
}

// ResetSession force-clears all session and lock state without recording
// anything. This is the abort path for external cancellation.
func (e *Engine) ResetSession() {
	e.mu.Lock()
	wasActive := e.active
	if wasActive {
		e.stopTimersLocked()
	}
	e.clearSessionLocked()
	e.mu.Unlock()

	if wasActive && e.source != nil {
		e.source.Unsubscribe(e)
	}
	e.log.Info("focus session reset")
}

// clearSessionLocked resets the engine to the inactive baseline. Every
// transition into inactive lands here, so state/mode always come back to
// IDLE/BALANCED.
func (e *Engine) clearSessionLocked() {
	e.active = false
	e.locked = false
	e.targetSecs = 0
	e.sessionID = ""
	e.startTime = time.Time{}
	e.duration = 0
	e.state = StateIdle
	e.mode = ModeBalanced
	e.metrics = Metrics{CognitiveMode: ModeBalanced}
}

func (e *Engine) stopTimersLocked() {
	if e.durTimer != nil {
		e.durTimer.Stop()
		e.durTimer = nil
	}
	if e.classTimer != nil {
		e.classTimer.Stop()
		e.classTimer = nil
	}
}

// durationTick advances the session clock by one second.
func (e *Engine) durationTick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return
	}
	e.duration++
}

// classifyTick runs one classification pass: derive state and mode, credit
// the dwell histogram, refresh the metrics snapshot, then decay the
// keystroke and pointer accumulators. Tab switches accumulate for the whole
// session. A tick that fires after the session ended is a no-op.
func (e *Engine) classifyTick() {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	now := e.clock.Now()
	idle := now.Sub(e.lastActivity)
	sessionDur := time.Duration(e.duration) * time.Second

	state := classify(e.cfg, idle, sessionDur, e.keystrokes, e.pointerDist, e.tabSwitches)
	mode := deriveMode(e.cfg, state, sessionDur)

	e.state = state
	e.mode = mode
	e.dist[state] += e.cfg.DwellWeight
	e.metrics = Metrics{
		KeystrokesPerMinute:    int(e.keystrokes),
		MouseDistancePerMinute: int(e.pointerDist),
		TabSwitches:            e.tabSwitches,
		IdleTimeMinutes:        int(idle.Minutes()),
		SessionDurationMinutes: e.duration / 60,
		CognitiveMode:          mode,
	}

	e.keystrokes = math.Max(0, e.keystrokes*e.cfg.DecayFactor)
	e.pointerDist = math.Max(0, e.pointerDist*e.cfg.DecayFactor)
	e.mu.Unlock()

	e.log.Debug("classification tick",
		zap.Stringer("state", state),
		zap.Stringer("mode", mode))
}

// KeyPress implements Sink.
func (e *Engine) KeyPress() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return
	}
	e.keystrokes++
	e.lastActivity = e.clock.Now()
}

// PointerMove implements Sink. Non-finite deltas are dropped before they
// can poison the accumulator.
func (e *Engine) PointerMove(dx, dy float64) {
	dist := math.Sqrt(dx*dx + dy*dy)
	if math.IsNaN(dist) || math.IsInf(dist, 0) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return
	}
	e.pointerDist += dist
	e.lastActivity = e.clock.Now()
}

// VisibilityChange implements Sink. Only the hidden transition counts;
// coming back does not.
func (e *Engine) VisibilityChange(hidden bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active || !hidden {
		return
	}
	e.tabSwitches++
}

// State returns the current focus state.
func (e *Engine) State() FocusState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Mode returns the current cognitive mode.
func (e *Engine) Mode() CognitiveMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Metrics returns the snapshot from the most recent classification tick.
func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics
}

// IsActive reports whether a session is running.
func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Snapshot returns the full UI-facing view in one consistent read.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		FocusState:      e.state,
		CognitiveMode:   e.mode,
		Metrics:         e.metrics,
		IsSessionActive: e.active,
		IsLocked:        e.locked,
		TargetSeconds:   e.targetSecs,
		SessionDuration: e.duration,
	}
}

// History returns the closed sessions, most recent first.
func (e *Engine) History() []SessionData {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]SessionData, len(e.history))
	copy(out, e.history)
	return out
}
