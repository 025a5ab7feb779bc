// Package live wires per-deck analysis taps into real-time phase and band monitors.
package live

import (
	"errors"
	"sync"

	"github.com/RyanBlaney/sonido-mix/algorithms/common"
	"github.com/RyanBlaney/sonido-mix/algorithms/spectral"
	"github.com/RyanBlaney/sonido-mix/bands"
	"github.com/mjibson/go-dsp/window"
)

// ErrTapClosed is returned when writing to a tap whose session has closed
var ErrTapClosed = errors.New("live: tap closed")

// Tap is a deck's analysis tap. The transport writes decoded samples and the
// playback position; monitors read copies.
type Tap struct {
	mu         sync.Mutex
	ring       *common.CircularBuffer
	sampleRate int
	config     *TapConfig

	window   []float64
	fft      *spectral.FFT
	frame    []float64
	smoothed []float64

	position float64
	playing  bool
	closed   bool
}

// NewTap creates a tap for a deck playing at sampleRate
func NewTap(sampleRate int, cfg *TapConfig) *Tap {
	if cfg == nil {
		cfg = DefaultTapConfig()
	}
	c := *cfg
	cfg = &c

	fftSize := cfg.FFTSize
	if fftSize < 32 {
		fftSize = DefaultTapConfig().FFTSize
	}
	history := max(cfg.HistorySize, fftSize)

	return &Tap{
		ring:       common.NewCircularBuffer(history),
		sampleRate: sampleRate,
		config:     cfg,
		window:     window.Hann(fftSize),
		fft:        spectral.NewFFT(),
		frame:      make([]float64, fftSize),
		smoothed:   make([]float64, fftSize/2),
	}
}

// Write appends mono samples to the tap's history
func (t *Tap) Write(samples []float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTapClosed
	}
	t.ring.Write(samples)
	return nil
}

// SetPosition records where playback is and whether it is running
func (t *Tap) SetPosition(seconds float64, playing bool) {
	t.mu.Lock()
	t.position, t.playing = seconds, playing
	t.mu.Unlock()
}

// Position reports the playback position. A closed tap reports not playing.
func (t *Tap) Position() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, false
	}
	return t.position, t.playing
}

// SampleRate returns the rate samples are written at
func (t *Tap) SampleRate() int {
	return t.sampleRate
}

// TimeDomain returns a copy of the newest n samples, zero-padded at the front
// when less history is available
func (t *Tap) TimeDomain(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]float64, min(n, t.ring.Capacity()))
	t.ring.Latest(out)
	return out
}

// FrequencySnapshot transforms the newest FFT-sized frame and returns the
// smoothed levels. Each call advances the smoothing state.
func (t *Tap) FrequencySnapshot() bands.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ring.Latest(t.frame)
	for i := range t.frame {
		t.frame[i] *= t.window[i]
	}

	tau := common.Clamp(t.config.Smoothing, 0, 1)
	mags := t.fft.Magnitude(t.frame)
	for i, m := range mags {
		t.smoothed[i] = tau*t.smoothed[i] + (1-tau)*m
	}

	levels := spectral.ByteSpectrum(t.smoothed, len(t.frame), t.config.MinDB, t.config.MaxDB)
	return bands.FromBytes(levels, t.sampleRate)
}

// Close rejects further writes and drops the buffered history
func (t *Tap) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.playing = false
	t.ring.Clear()
}
