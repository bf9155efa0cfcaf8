package engine

// Sink receives raw interaction events. The Engine itself is a Sink; a host
// can either push events into it directly or register it with an
// EventSource for the lifetime of a session.
type Sink interface {
	// KeyPress records a single key press.
	KeyPress()
	// PointerMove records a pointer delta. Non-finite components are
	// rejected and contribute nothing.
	PointerMove(dx, dy float64)
	// VisibilityChange records the surface becoming hidden or visible.
	// Only the transition to hidden is counted.
	VisibilityChange(hidden bool)
}

// EventSource delivers raw input events to subscribed sinks. The engine
// subscribes itself exactly once per active session and unsubscribes when
// the session ends. Implementations must tolerate unsubscribing a sink
// that is not currently subscribed.
type EventSource interface {
	Subscribe(Sink)
	Unsubscribe(Sink)
}
