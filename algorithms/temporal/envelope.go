package temporal

import (
	"math"
)

// Envelope provides amplitude envelope extraction
type Envelope struct{}

// NewEnvelope creates a new envelope extractor
func NewEnvelope() *Envelope {
	return &Envelope{}
}

// ComputeRMS computes an RMS envelope with one value per hop.
// The envelope has len(signal)/hopSize frames; frames near the end average
// over the samples that remain rather than being dropped, so the envelope
// covers the whole buffer.
func (e *Envelope) ComputeRMS(signal []float64, frameSize, hopSize int) []float64 {
	if len(signal) == 0 || frameSize <= 0 || hopSize <= 0 {
		return []float64{}
	}

	numFrames := len(signal) / hopSize
	envelope := make([]float64, numFrames)

	for i := 0; i < numFrames; i++ {
		start := i * hopSize
		end := min(start+frameSize, len(signal))

		sumSquares := 0.0
		for j := start; j < end; j++ {
			sumSquares += signal[j] * signal[j]
		}
		envelope[i] = math.Sqrt(sumSquares / float64(end-start))
	}

	return envelope
}

// FrameToSeconds converts an envelope frame index to seconds
func FrameToSeconds(frame, hopSize, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(frame*hopSize) / float64(sampleRate)
}

// SecondsToFrames converts a duration to a (fractional) number of envelope frames
func SecondsToFrames(seconds float64, hopSize, sampleRate int) float64 {
	if hopSize <= 0 {
		return 0
	}
	return seconds * float64(sampleRate) / float64(hopSize)
}
