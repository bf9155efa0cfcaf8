package engine

import (
	"sync"
	"time"
)

// Clock supplies the current time. Injected so tests can drive the engine
// deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Timer is a running periodic timer. Stop must be safe to call more than
// once and must prevent any further callback invocation from starting.
type Timer interface {
	Stop()
}

// TimerFactory starts a periodic timer invoking fn every interval. The
// engine uses one factory for both of its cadences.
type TimerFactory func(interval time.Duration, fn func()) Timer

func newTickerTimer(interval time.Duration, fn func()) Timer {
	t := &tickerTimer{
		ticker: time.NewTicker(interval),
		stop:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.stop:
				return
			case <-t.ticker.C:
				fn()
			}
		}
	}()
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.stop)
	})
}
