package tonal

import (
	"math"

	"github.com/RyanBlaney/sonido-mix/algorithms/common"
	"github.com/RyanBlaney/sonido-mix/algorithms/spectral"
)

// KeyMode represents major or minor mode
type KeyMode int

const (
	KeyModeMajor KeyMode = iota
	KeyModeMinor
)

func (m KeyMode) String() string {
	if m == KeyModeMinor {
		return "minor"
	}
	return "major"
}

// Note names use the spellings of the Camelot table so estimates can be looked up directly
var noteNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// Minor keys whose conventional spelling differs from the major-key spelling above
var minorSpelling = map[string]string{
	"Dbm": "C#m",
	"Abm": "G#m",
}

// KeyName returns the short key name for a pitch class (0=C) and mode, e.g. "A" or "F#m".
// An out-of-range pitch class yields "".
func KeyName(pitchClass int, mode KeyMode) string {
	if pitchClass < 0 || pitchClass > 11 {
		return ""
	}
	name := noteNames[pitchClass]
	if mode == KeyModeMajor {
		return name
	}
	name += "m"
	if alt, ok := minorSpelling[name]; ok {
		return alt
	}
	return name
}

// KeyEstimationParams contains parameters for key estimation
type KeyEstimationParams struct {
	FrameSize           int     `json:"frame_size"`
	HopSize             int     `json:"hop_size"`
	ReferenceHz         float64 `json:"reference_hz"`          // tuning reference, 440 for A4
	ReferencePitchClass int     `json:"reference_pitch_class"` // pitch class of ReferenceHz (9 = A)
	MinFrequency        float64 `json:"min_frequency"`         // bins below are ignored
	MaxFrequency        float64 `json:"max_frequency"`         // bins above are ignored
}

// DefaultKeyEstimationParams returns 2048/512 frames tuned to A440
func DefaultKeyEstimationParams() KeyEstimationParams {
	return KeyEstimationParams{
		FrameSize:           2048,
		HopSize:             512,
		ReferenceHz:         440.0,
		ReferencePitchClass: 9,
		MinFrequency:        27.5,
		MaxFrequency:        5000.0,
	}
}

// KeyEstimationResult contains the key estimate and the evidence behind it
type KeyEstimationResult struct {
	Key        string      `json:"key"`        // e.g. "Am"; "" when the signal carries no pitch energy
	Tonic      int         `json:"tonic"`      // pitch class 0-11, -1 when unknown
	Mode       KeyMode     `json:"mode"`       // major or minor
	Chroma     [12]float64 `json:"chroma"`     // accumulated energy per pitch class (0=C)
	Confidence float64     `json:"confidence"` // tonic share of total chroma energy
}

// KeyEstimator implements a pitch-class energy key estimator.
// The tonic is the pitch class with the most spectral energy and the mode
// comes from comparing the major third against the minor third above it.
type KeyEstimator struct {
	params KeyEstimationParams
	stft   *spectral.STFT
}

// NewKeyEstimator creates a key estimator
func NewKeyEstimator(params KeyEstimationParams) *KeyEstimator {
	return &KeyEstimator{
		params: params,
		stft:   spectral.NewSTFT(params.FrameSize, params.HopSize),
	}
}

// PitchClass maps a frequency to the nearest equal-tempered pitch class
// (0=C) using 12*log2(f/reference). Non-positive frequencies yield -1.
func (ke *KeyEstimator) PitchClass(freq float64) int {
	if freq <= 0 || ke.params.ReferenceHz <= 0 {
		return -1
	}
	semitones := int(math.Round(12 * math.Log2(freq/ke.params.ReferenceHz)))
	return ((ke.params.ReferencePitchClass+semitones)%12 + 12) % 12
}

// binPitchClasses precomputes the pitch class for each STFT bin, -1 outside the range
func (ke *KeyEstimator) binPitchClasses(sampleRate int) []int {
	numBins := ke.stft.NumBins()
	classes := make([]int, numBins)
	for bin := 0; bin < numBins; bin++ {
		freq := spectral.BinFrequency(bin, ke.stft.FrameSize(), sampleRate)
		if freq < ke.params.MinFrequency || freq > ke.params.MaxFrequency {
			classes[bin] = -1
			continue
		}
		classes[bin] = ke.PitchClass(freq)
	}
	return classes
}

// Chroma accumulates spectral power into 12 pitch-class bins over all frames
func (ke *KeyEstimator) Chroma(signal []float64, sampleRate int) [12]float64 {
	var chroma [12]float64
	if len(signal) == 0 || sampleRate <= 0 {
		return chroma
	}

	classes := ke.binPitchClasses(sampleRate)
	ke.stft.Walk(signal, func(_ int, mags []float64) bool {
		for bin, mag := range mags {
			if pc := classes[bin]; pc >= 0 {
				chroma[pc] += mag * mag
			}
		}
		return true
	})

	return chroma
}

// EstimateKey estimates the musical key of a mono signal
func (ke *KeyEstimator) EstimateKey(signal []float64, sampleRate int) KeyEstimationResult {
	return ke.EstimateKeyFromChroma(ke.Chroma(signal, sampleRate))
}

// EstimateKeyFromChroma picks tonic and mode from an accumulated chroma vector
func (ke *KeyEstimator) EstimateKeyFromChroma(chroma [12]float64) KeyEstimationResult {
	result := KeyEstimationResult{Tonic: -1, Chroma: chroma}

	total := common.Sum(chroma[:])
	if total <= 0 || !common.IsFinite(total) {
		return result
	}

	tonic := common.ArgMax(chroma[:])
	mode := KeyModeMinor
	if chroma[(tonic+4)%12] > chroma[(tonic+3)%12] {
		mode = KeyModeMajor
	}

	result.Tonic = tonic
	result.Mode = mode
	result.Key = KeyName(tonic, mode)
	result.Confidence = chroma[tonic] / total
	return result
}
