package phase

import "time"

// Config controls the tracker's cadence and sync tolerance
type Config struct {
	Interval      time.Duration `json:"interval"`
	SyncThreshold float64       `json:"sync_threshold"` // fraction of a beat
}

// DefaultConfig returns a 20 Hz tracker that calls decks synced within a tenth of a beat
func DefaultConfig() *Config {
	return &Config{
		Interval:      50 * time.Millisecond,
		SyncThreshold: 0.1,
	}
}
