// Package bands splits frequency snapshots into DJ mixer bands and compares
// two decks for frequency collisions and EQ balance. All functions are pure.
package bands

import (
	"math"

	"github.com/RyanBlaney/sonido-mix/algorithms/common"
)

// Snapshot is one frequency-domain view of a deck: levels in [0,1] for bins
// spanning 0 Hz up to the Nyquist frequency.
type Snapshot struct {
	Bins       []float64 `json:"bins"`
	SampleRate int       `json:"sample_rate"`
}

// FromBytes builds a snapshot from analyser-style 0-255 levels
func FromBytes(levels []byte, sampleRate int) Snapshot {
	bins := make([]float64, len(levels))
	for i, v := range levels {
		bins[i] = float64(v) / 255.0
	}
	return Snapshot{Bins: bins, SampleRate: sampleRate}
}

// FromMagnitudes builds a snapshot from normalized levels, clamping each into [0,1]
func FromMagnitudes(levels []float64, sampleRate int) Snapshot {
	bins := make([]float64, len(levels))
	for i, v := range levels {
		if math.IsNaN(v) {
			continue
		}
		bins[i] = common.Clamp(v, 0, 1)
	}
	return Snapshot{Bins: bins, SampleRate: sampleRate}
}

// BinWidth returns the width of one bin in Hz, 0 for an unusable snapshot
func (s Snapshot) BinWidth() float64 {
	if len(s.Bins) == 0 || s.SampleRate <= 0 {
		return 0
	}
	return float64(s.SampleRate) / 2 / float64(len(s.Bins))
}

// DominantFrequency returns the frequency of the loudest bin (first on ties).
// A silent or unusable snapshot reports 0.
func DominantFrequency(s Snapshot) float64 {
	width := s.BinWidth()
	if width == 0 {
		return 0
	}

	idx := common.ArgMax(s.Bins)
	if idx < 0 || s.Bins[idx] <= 0 {
		return 0
	}
	return float64(idx) * width
}
