package live

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/RyanBlaney/sonido-mix/bands"
	"github.com/RyanBlaney/sonido-mix/logging"
	"github.com/RyanBlaney/sonido-mix/phase"
	"github.com/google/uuid"
)

// ErrSessionClosed is returned when starting a session that has been closed
var ErrSessionClosed = errors.New("live: session closed")

// BandsFrame is one band-monitor reading of both decks
type BandsFrame struct {
	A          bands.FrequencyBands `json:"a"`
	B          bands.FrequencyBands `json:"b"`
	Collisions []bands.Collision    `json:"collisions"`
	Timestamp  time.Time            `json:"timestamp"`
}

// Session owns two deck taps, the phase tracker reading them and a band
// monitor comparing their spectra
type Session struct {
	id      string
	config  *SessionConfig
	tapA    *Tap
	tapB    *Tap
	tracker *phase.Tracker
	logger  logging.Logger

	mu      sync.Mutex
	latest  BandsFrame
	running bool
	closed  bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	frames chan BandsFrame
}

// NewSession creates an idle session; call Start to begin monitoring.
// cfg is copied and unset fields take their defaults.
func NewSession(cfg *SessionConfig) *Session {
	defaults := DefaultSessionConfig()
	if cfg == nil {
		cfg = defaults
	}
	c := *cfg
	if c.SampleRate <= 0 {
		c.SampleRate = defaults.SampleRate
	}
	if c.BandInterval <= 0 {
		c.BandInterval = defaults.BandInterval
	}
	if c.CollisionThreshold <= 0 {
		c.CollisionThreshold = defaults.CollisionThreshold
	}
	cfg = &c

	id := uuid.New().String()
	tapA := NewTap(cfg.SampleRate, cfg.Tap)
	tapB := NewTap(cfg.SampleRate, cfg.Tap)

	return &Session{
		id:      id,
		config:  cfg,
		tapA:    tapA,
		tapB:    tapB,
		tracker: phase.NewTracker(tapA, tapB, cfg.Phase),
		logger: logging.WithFields(logging.Fields{
			"component":  "live_session",
			"session_id": id,
		}),
		frames: make(chan BandsFrame, 1),
	}
}

// ID returns the session's unique identifier
func (s *Session) ID() string {
	return s.id
}

// TapA returns deck A's tap
func (s *Session) TapA() *Tap {
	return s.tapA
}

// TapB returns deck B's tap
func (s *Session) TapB() *Tap {
	return s.tapB
}

// SetBPM sets the tempos the phase tracker aligns against
func (s *Session) SetBPM(bpmA, bpmB float64) {
	s.tracker.SetBPM(bpmA, bpmB)
}

// Phase returns the latest phase reading
func (s *Session) Phase() phase.State {
	return s.tracker.State()
}

// PhaseUpdates delivers phase readings as they are taken
func (s *Session) PhaseUpdates() <-chan phase.State {
	return s.tracker.Updates()
}

// Frames delivers band readings; only the newest unread frame is kept.
// The channel is closed by Close.
func (s *Session) Frames() <-chan BandsFrame {
	return s.frames
}

// LatestFrame returns the most recent band reading
func (s *Session) LatestFrame() BandsFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Start launches the phase tracker and band monitor
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.running {
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.logger.Info("Starting live session", logging.Fields{
		"sample_rate":      s.config.SampleRate,
		"band_interval_ms": s.config.BandInterval.Milliseconds(),
	})

	s.tracker.Start(loopCtx)
	s.wg.Add(1)
	go s.monitorBands(loopCtx)
	return nil
}

// Close stops every loop, waits for them to exit and releases both taps.
// It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.tracker.Stop()
	s.wg.Wait()

	s.tapA.Close()
	s.tapB.Close()
	close(s.frames)

	s.logger.Info("Live session closed")
}

func (s *Session) monitorBands(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.BandInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			s.publish(s.readBands(now))
		}
	}
}

func (s *Session) readBands(now time.Time) BandsFrame {
	snapA := s.tapA.FrequencySnapshot()
	snapB := s.tapB.FrequencySnapshot()

	return BandsFrame{
		A:          bands.Split(snapA),
		B:          bands.Split(snapB),
		Collisions: bands.DetectCollisions(snapA, snapB, s.config.CollisionThreshold),
		Timestamp:  now,
	}
}

func (s *Session) publish(frame BandsFrame) {
	s.mu.Lock()
	s.latest = frame
	s.mu.Unlock()

	select {
	case s.frames <- frame:
	default:
		select {
		case <-s.frames:
		default:
		}
		select {
		case s.frames <- frame:
		default:
		}
	}
}
