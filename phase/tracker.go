package phase

import (
	"context"
	"sync"
	"time"

	"github.com/RyanBlaney/sonido-mix/logging"
)

// Tracker polls two sources at a fixed cadence and publishes their alignment
type Tracker struct {
	a, b   Source
	config *Config
	logger logging.Logger

	mu      sync.RWMutex
	bpmA    float64
	bpmB    float64
	state   State
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	updates chan State
}

// NewTracker creates a tracker over two sources. Either source may be nil.
// cfg is copied; a nil config uses DefaultConfig.
func NewTracker(a, b Source, cfg *Config) *Tracker {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	if c.Interval <= 0 {
		c.Interval = DefaultConfig().Interval
	}
	cfg = &c

	return &Tracker{
		a:      a,
		b:      b,
		config: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "phase_tracker",
		}),
		updates: make(chan State, 1),
	}
}

// SetBPM updates the tempos used from the next tick on
func (t *Tracker) SetBPM(bpmA, bpmB float64) {
	t.mu.Lock()
	t.bpmA, t.bpmB = bpmA, bpmB
	t.mu.Unlock()
}

// Start launches the polling loop. Calling Start on a running tracker is a no-op.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.running = true

	t.logger.Debug("Starting phase tracker", logging.Fields{
		"interval_ms": t.config.Interval.Milliseconds(),
	})

	t.wg.Add(1)
	go t.run(loopCtx)
}

// Stop cancels the loop and waits for it to exit; no tick is published after it returns
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	cancel := t.cancel
	t.mu.Unlock()

	cancel()
	t.wg.Wait()

	t.logger.Debug("Phase tracker stopped")
}

// State returns the most recent reading
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Updates delivers the latest reading; stale readings are dropped, never queued
func (t *Tracker) Updates() <-chan State {
	return t.updates
}

func (t *Tracker) run(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// a tick racing cancellation must not publish
			if ctx.Err() != nil {
				return
			}
			t.publish(t.Tick())
		}
	}
}

// Tick takes one reading of both sources without publishing it
func (t *Tracker) Tick() State {
	if t.a == nil || t.b == nil {
		return State{}
	}

	posA, playingA := t.a.Position()
	posB, playingB := t.b.Position()
	if !playingA || !playingB {
		return State{}
	}

	t.mu.RLock()
	bpmA, bpmB := t.bpmA, t.bpmB
	t.mu.RUnlock()

	return ComputeWithThreshold(posA, posB, bpmA, bpmB, t.config.SyncThreshold)
}

func (t *Tracker) publish(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()

	select {
	case t.updates <- s:
	default:
		// replace the unread reading with the fresh one
		select {
		case <-t.updates:
		default:
		}
		select {
		case t.updates <- s:
		default:
		}
	}
}
