package temporal

import (
	"math"

	"github.com/RyanBlaney/sonido-mix/algorithms/common"
)

// PeakPicker finds beat-like events in an envelope
type PeakPicker struct {
	minSpacing    float64 // seconds
	minProminence float64 // fraction of the envelope maximum above its mean
}

// NewPeakPicker creates a picker that keeps peaks at least minSpacing seconds
// apart and at least minProminence*max above the envelope mean
func NewPeakPicker(minSpacing, minProminence float64) *PeakPicker {
	return &PeakPicker{minSpacing: minSpacing, minProminence: minProminence}
}

// FindPeaks returns the frame indices of strict local maxima that clear the
// prominence gate, scanning left to right and skipping any maximum closer than
// minSpacing to the last accepted one. A steady envelope has no peaks.
func (p *PeakPicker) FindPeaks(envelope []float64, hopSize, sampleRate int) []int {
	if len(envelope) < 3 {
		return []int{}
	}

	minFrames := int(math.Ceil(SecondsToFrames(p.minSpacing, hopSize, sampleRate)))
	minFrames = max(minFrames, 1)

	peakMax := envelope[common.ArgMax(envelope)]
	gate := common.Mean(envelope) + math.Max(p.minProminence, 0)*peakMax

	peaks := make([]int, 0)
	lastPeak := -minFrames

	for i := 1; i < len(envelope)-1; i++ {
		if envelope[i] > envelope[i-1] &&
			envelope[i] > envelope[i+1] &&
			envelope[i] > gate &&
			i-lastPeak >= minFrames {
			peaks = append(peaks, i)
			lastPeak = i
		}
	}

	return peaks
}

// PeakTimes converts peak frames to seconds
func PeakTimes(peaks []int, hopSize, sampleRate int) []float64 {
	times := make([]float64, len(peaks))
	for i, frame := range peaks {
		times[i] = FrameToSeconds(frame, hopSize, sampleRate)
	}
	return times
}
