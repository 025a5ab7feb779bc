package config

import (
	"github.com/RyanBlaney/sonido-mix/algorithms/temporal"
	"github.com/RyanBlaney/sonido-mix/algorithms/tonal"
)

// ExtractorConfig tunes the offline feature extractor
type ExtractorConfig struct {
	// Tempo
	Tempo            temporal.TempoParams `json:"tempo"`
	BeatSearchWindow float64              `json:"beat_search_window"` // fraction of a beat period

	// Key
	Key tonal.KeyEstimationParams `json:"key"`

	// Spectral analysis
	WindowSize       int     `json:"window_size"`
	HopSize          int     `json:"hop_size"`
	RolloffThreshold float64 `json:"rolloff_threshold"`
	SpectrumMinDB    float64 `json:"spectrum_min_db"` // byte spectrum floor
	SpectrumMaxDB    float64 `json:"spectrum_max_db"` // byte spectrum ceiling

	// Energy and loudness
	EnergyCurveScale   float64 `json:"energy_curve_scale"`
	EnergyCurveCeiling float64 `json:"energy_curve_ceiling"`
	LoudnessFloorDB    float64 `json:"loudness_floor_db"`

	// Danceability = BeatWeight*avgConfidence + EnergyWeight*energy
	DanceabilityBeatWeight   float64 `json:"danceability_beat_weight"`
	DanceabilityEnergyWeight float64 `json:"danceability_energy_weight"`

	// Concurrency
	MaxConcurrency int `json:"max_concurrency"` // AnalyzeBatch worker limit
}

// DefaultExtractorConfig returns the standard extractor settings
func DefaultExtractorConfig() *ExtractorConfig {
	return &ExtractorConfig{
		Tempo:            temporal.DefaultTempoParams(),
		BeatSearchWindow: 0.1,

		Key: tonal.DefaultKeyEstimationParams(),

		WindowSize:       2048,
		HopSize:          512,
		RolloffThreshold: 0.85,
		SpectrumMinDB:    -100,
		SpectrumMaxDB:    -30,

		EnergyCurveScale:   20,
		EnergyCurveCeiling: 10,
		LoudnessFloorDB:    -100,

		DanceabilityBeatWeight:   0.7,
		DanceabilityEnergyWeight: 0.3,

		MaxConcurrency: 4,
	}
}
