package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return out
}

func TestFFT_MagnitudePeakAtSineFrequency(t *testing.T) {
	const sampleRate = 44100
	const fftSize = 2048
	// bin 40 exactly, so no leakage ambiguity
	freq := BinFrequency(40, fftSize, sampleRate)

	mags := NewFFT().Magnitude(sine(freq, sampleRate, fftSize))
	require.Len(t, mags, fftSize/2)

	peak := 0
	for i, m := range mags {
		if m > mags[peak] {
			peak = i
		}
	}
	assert.Equal(t, 40, peak)
}

func TestFFT_EmptyInput(t *testing.T) {
	assert.Empty(t, NewFFT().Compute(nil))
	assert.Empty(t, NewFFT().Magnitude([]float64{1}))
}

func TestSTFT_NumFrames(t *testing.T) {
	s := NewSTFT(2048, 512)

	assert.Equal(t, 0, s.NumFrames(0))
	assert.Equal(t, 1, s.NumFrames(100))
	assert.Equal(t, 1, s.NumFrames(2048))
	assert.Equal(t, 3, s.NumFrames(2048+1024))
	assert.Equal(t, 1024, s.NumBins())
}

func TestSTFT_WalkStopsEarly(t *testing.T) {
	s := NewSTFT(256, 128)
	visited := 0
	s.Walk(make([]float64, 256*10), func(frame int, _ []float64) bool {
		visited++
		return frame < 2
	})
	assert.Equal(t, 3, visited)
}

func TestSpectralCentroid_Sine(t *testing.T) {
	const sampleRate = 44100
	spectrum := NewSTFT(2048, 512).MeanSpectrum(sine(1000, sampleRate, sampleRate))

	centroid := NewSpectralCentroid(sampleRate).Compute(spectrum)
	assert.InDelta(t, 1000, centroid, 30)
}

func TestSpectralCentroid_PowerWeighted(t *testing.T) {
	// bins 0 and 1 of a 4-bin spectrum at 8 kHz sit at 0 and 1000 Hz
	spectrum := []float64{1, 2, 0, 0}

	// weights 1 and 4 rather than 1 and 2
	assert.InDelta(t, 800, NewSpectralCentroid(8000).Compute(spectrum), 1e-9)
}

func TestSpectralCentroid_Silence(t *testing.T) {
	assert.Equal(t, 0.0, NewSpectralCentroid(44100).Compute(make([]float64, 1024)))
	assert.Equal(t, 0.0, NewSpectralCentroid(44100).Compute(nil))
}

func TestSpectralRolloff(t *testing.T) {
	const sampleRate = 44100
	spectrum := NewSTFT(2048, 512).MeanSpectrum(sine(2000, sampleRate, sampleRate))

	rolloff := NewSpectralRolloff(sampleRate).Compute(spectrum, DefaultRolloffThreshold)
	assert.InDelta(t, 2000, rolloff, 50)

	assert.Equal(t, 0.0, NewSpectralRolloff(sampleRate).Compute(make([]float64, 16), 0.85))
}

func TestSpectralRolloff_FlatSpectrum(t *testing.T) {
	spectrum := make([]float64, 100)
	for i := range spectrum {
		spectrum[i] = 1
	}
	// 85 of 100 equal bins, bin index 84 at 84*8000/200 Hz
	rolloff := NewSpectralRolloff(8000).Compute(spectrum, 0.85)
	assert.InDelta(t, 84*40.0, rolloff, 1e-9)
}

func TestZeroCrossingRate(t *testing.T) {
	zcr := NewZeroCrossingRate()

	assert.Equal(t, 0.0, zcr.ComputeNormalized(nil))
	assert.Equal(t, 1.0, zcr.ComputeNormalized([]float64{1, -1, 1, -1}))
	assert.Equal(t, 0.0, zcr.ComputeNormalized([]float64{0.1, 0.2, 0.3}))
	assert.InDelta(t, 1.0/3.0, zcr.ComputeNormalized([]float64{1, -1, -1, -1}), 1e-12)
}

func TestByteSpectrum(t *testing.T) {
	const fftSize = 2048
	mags := []float64{0, fftSize * math.Pow(10, -100.0/20), fftSize * math.Pow(10, -65.0/20), fftSize}

	levels := ByteSpectrum(mags, fftSize, -100, -30)

	assert.Equal(t, byte(0), levels[0])
	assert.Equal(t, byte(0), levels[1])
	assert.InDelta(t, 127, int(levels[2]), 1)
	assert.Equal(t, byte(255), levels[3])
}
