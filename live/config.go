package live

import (
	"time"

	"github.com/RyanBlaney/sonido-mix/bands"
	"github.com/RyanBlaney/sonido-mix/phase"
)

// TapConfig sizes a deck tap and shapes its frequency snapshots the way a
// browser analyser node does
type TapConfig struct {
	FFTSize     int     `json:"fft_size"`
	HistorySize int     `json:"history_size"` // samples kept for time-domain reads
	Smoothing   float64 `json:"smoothing"`    // 0 disables, values near 1 react slowly
	MinDB       float64 `json:"min_db"`
	MaxDB       float64 `json:"max_db"`
}

// DefaultTapConfig returns analyser defaults: 2048-point FFT, 0.8 smoothing, -100..-30 dB
func DefaultTapConfig() *TapConfig {
	return &TapConfig{
		FFTSize:     2048,
		HistorySize: 8192,
		Smoothing:   0.8,
		MinDB:       -100,
		MaxDB:       -30,
	}
}

// SessionConfig configures a two-deck live session
type SessionConfig struct {
	SampleRate         int           `json:"sample_rate"`
	Tap                *TapConfig    `json:"tap"`
	Phase              *phase.Config `json:"phase"`
	BandInterval       time.Duration `json:"band_interval"`
	CollisionThreshold float64       `json:"collision_threshold"`
}

// DefaultSessionConfig returns a session ticking its band monitor at display refresh
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		SampleRate:         44100,
		Tap:                DefaultTapConfig(),
		Phase:              phase.DefaultConfig(),
		BandInterval:       16 * time.Millisecond,
		CollisionThreshold: bands.DefaultCollisionThreshold,
	}
}
