package temporal

import (
	"math"

	"github.com/RyanBlaney/sonido-mix/algorithms/common"
)

// TempoParams controls the envelope-peak tempo estimator
type TempoParams struct {
	WindowSize     int     `json:"window_size"`      // RMS window in samples
	HopSize        int     `json:"hop_size"`         // envelope hop in samples
	SliceSeconds   float64 `json:"slice_seconds"`    // analysed slice around the midpoint
	MinPeakSpacing float64 `json:"min_peak_spacing"` // seconds between accepted peaks
	MinProminence  float64 `json:"min_prominence"`   // peak height above the mean, as a fraction of the envelope max
	MinBPM         float64 `json:"min_bpm"`          // below this the estimate is doubled
	MaxBPM         float64 `json:"max_bpm"`          // above this the estimate is halved
	FallbackBPM    float64 `json:"fallback_bpm"`     // reported when no tempo can be measured
}

// DefaultTempoParams returns the standard 2048/512 envelope over a 10 s slice
func DefaultTempoParams() TempoParams {
	return TempoParams{
		WindowSize:     2048,
		HopSize:        512,
		SliceSeconds:   10.0,
		MinPeakSpacing: 0.3,
		MinProminence:  0.1,
		MinBPM:         60.0,
		MaxBPM:         200.0,
		FallbackBPM:    120.0,
	}
}

// TempoResult describes one tempo estimate.
// The estimator is a heuristic: on steady four-on-the-floor material it lands
// within a couple of BPM of the true tempo, but syncopated or beatless audio
// can produce octave or off-beat errors that correction cannot fully repair.
type TempoResult struct {
	BPM            float64 `json:"bpm"`             // octave-corrected, integer-rounded
	RawBPM         float64 `json:"raw_bpm"`         // before octave correction
	Detected       bool    `json:"detected"`        // false when FallbackBPM was used
	PeakCount      int     `json:"peak_count"`      // envelope peaks found in the slice
	MedianInterval float64 `json:"median_interval"` // seconds
	OctaveShift    int     `json:"octave_shift"`    // +n doublings, -n halvings
}

// TempoEstimation estimates tempo from the median spacing of envelope peaks
type TempoEstimation struct {
	params            TempoParams
	envelopeExtractor *Envelope
	peakPicker        *PeakPicker
}

// NewTempoEstimation creates a new tempo estimator
func NewTempoEstimation(params TempoParams) *TempoEstimation {
	return &TempoEstimation{
		params:            params,
		envelopeExtractor: NewEnvelope(),
		peakPicker:        NewPeakPicker(params.MinPeakSpacing, params.MinProminence),
	}
}

// Slice returns the analysed region: SliceSeconds centred on the buffer midpoint,
// or the whole signal when it is shorter.
func (te *TempoEstimation) Slice(signal []float64, sampleRate int) []float64 {
	width := int(te.params.SliceSeconds * float64(sampleRate))
	if width <= 0 || len(signal) <= width {
		return signal
	}
	start := (len(signal) - width) / 2
	return signal[start : start+width]
}

// EstimateTempo estimates BPM for a mono signal
func (te *TempoEstimation) EstimateTempo(signal []float64, sampleRate int) TempoResult {
	fallback := TempoResult{BPM: te.params.FallbackBPM}
	if len(signal) == 0 || sampleRate <= 0 {
		return fallback
	}

	slice := te.Slice(signal, sampleRate)
	envelope := te.envelopeExtractor.ComputeRMS(slice, te.params.WindowSize, te.params.HopSize)
	peaks := te.peakPicker.FindPeaks(envelope, te.params.HopSize, sampleRate)
	fallback.PeakCount = len(peaks)

	if len(peaks) < 2 {
		return fallback
	}

	times := PeakTimes(peaks, te.params.HopSize, sampleRate)
	intervals := make([]float64, len(times)-1)
	for i := range intervals {
		intervals[i] = times[i+1] - times[i]
	}

	median := common.Median(intervals)
	if median <= 0 {
		return fallback
	}

	raw := math.Round(60.0 / median)
	bpm, shift := te.CorrectOctave(raw)

	return TempoResult{
		BPM:            bpm,
		RawBPM:         raw,
		Detected:       true,
		PeakCount:      len(peaks),
		MedianInterval: median,
		OctaveShift:    shift,
	}
}

// CorrectOctave doubles estimates below MinBPM and halves those above MaxBPM
// until the value is inside the range. The loop is bounded so that a
// misconfigured range (MaxBPM < 2*MinBPM) still terminates.
func (te *TempoEstimation) CorrectOctave(bpm float64) (float64, int) {
	if bpm <= 0 || !common.IsFinite(bpm) {
		return te.params.FallbackBPM, 0
	}

	shift := 0
	for iter := 0; iter < 8; iter++ {
		switch {
		case bpm < te.params.MinBPM:
			bpm *= 2
			shift++
		case bpm > te.params.MaxBPM:
			bpm /= 2
			shift--
		default:
			return bpm, shift
		}
	}
	return bpm, shift
}

// ClassifyTempoCategory classifies tempo into broad categories
func ClassifyTempoCategory(tempo float64) string {
	switch {
	case tempo < 90:
		return "slow"
	case tempo < 120:
		return "moderate"
	case tempo < 150:
		return "fast"
	default:
		return "very_fast"
	}
}
