package analysis

// AudioFeatures summarizes a track for mixing decisions
type AudioFeatures struct {
	BPM             float64 `json:"bpm"`
	Key             string  `json:"key"`          // short name such as "Am"; "" when no pitch content
	Energy          float64 `json:"energy"`       // 0-1
	Danceability    float64 `json:"danceability"` // 0-1
	LoudnessDB      float64 `json:"loudness_db"`
	TimeSignature   int     `json:"time_signature"` // always 4
	DurationSeconds float64 `json:"duration_seconds"`
}

// BeatMarker is one beat of the track's grid
type BeatMarker struct {
	PositionSeconds float64 `json:"position_seconds"`
	Confidence      float64 `json:"confidence"` // 0-1
	IsDownbeat      bool    `json:"is_downbeat"`
	IsPhraseStart   bool    `json:"is_phrase_start"`
}

// AudioAnalysisResult is the full output of an offline analysis
type AudioAnalysisResult struct {
	Features         AudioFeatures `json:"features"`
	TempoDetected    bool          `json:"tempo_detected"` // false when BPM is the configured fallback
	KeyConfidence    float64       `json:"key_confidence"`
	Beats            []BeatMarker  `json:"beats"`
	Waveform         []float32     `json:"-"`
	FrequencyData    []byte        `json:"frequency_data"` // analyser-style 0-255 levels
	SampleRate       int           `json:"sample_rate"`
	EnergyCurve      []float64     `json:"energy_curve"` // one value per second, 0-10
	SpectralCentroid float64       `json:"spectral_centroid"`
	SpectralRolloff  float64       `json:"spectral_rolloff"`
	ZeroCrossingRate float64       `json:"zero_crossing_rate"`
}

// Outcome carries the result of an asynchronous analysis
type Outcome struct {
	Result *AudioAnalysisResult
	Err    error
}

// Input is one batch item: decoded samples, or encoded bytes in Data
type Input struct {
	Name       string
	Samples    []float64
	SampleRate int
	Data       []byte // encoded audio, decoded when Samples is nil
}
