package temporal

import (
	"math"

	"github.com/RyanBlaney/sonido-mix/algorithms/common"
)

// Energy computes loudness-style temporal features
type Energy struct {
	sampleRate int
}

// NewEnergy creates a new energy calculator
func NewEnergy(sampleRate int) *Energy {
	return &Energy{
		sampleRate: sampleRate,
	}
}

// Overall returns the RMS level of the whole signal
func (e *Energy) Overall(signal []float64) float64 {
	return common.RMS(signal)
}

// Curve returns one value per second of audio: min(rms*scale, ceiling).
// The trailing partial second is included.
func (e *Energy) Curve(signal []float64, scale, ceiling float64) []float64 {
	if len(signal) == 0 || e.sampleRate <= 0 {
		return []float64{}
	}

	windowSize := e.sampleRate
	curve := make([]float64, 0, (len(signal)+windowSize-1)/windowSize)

	for start := 0; start < len(signal); start += windowSize {
		end := min(start+windowSize, len(signal))
		rms := common.RMS(signal[start:end])
		curve = append(curve, math.Min(rms*scale, ceiling))
	}

	return curve
}

// LoudnessDB converts the signal RMS to dBFS, never reporting below floorDB
func (e *Energy) LoudnessDB(signal []float64, floorDB float64) float64 {
	rms := common.RMS(signal)
	if rms <= 0 {
		return floorDB
	}
	return math.Max(20*math.Log10(rms), floorDB)
}
