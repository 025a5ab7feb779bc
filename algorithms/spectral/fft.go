package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality on top of mjibson/go-dsp
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the complex spectrum of a real signal.
// go-dsp handles non-power-of-2 sizes (Bluestein), so no padding is forced here.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// Magnitude returns |X[k]| for the first n/2 bins of an n-point transform,
// i.e. the bins below Nyquist, matching a browser analyser's frequencyBinCount.
func (f *FFT) Magnitude(x []float64) []float64 {
	if len(x) < 2 {
		return []float64{}
	}

	spectrum := f.Compute(x)
	half := len(spectrum) / 2
	mags := make([]float64, half)
	for i := 0; i < half; i++ {
		mags[i] = cmplx.Abs(spectrum[i])
	}
	return mags
}

// BinFrequency returns the centre frequency of bin for an fftSize-point transform
func BinFrequency(bin, fftSize, sampleRate int) float64 {
	if fftSize <= 0 {
		return 0
	}
	return float64(bin) * float64(sampleRate) / float64(fftSize)
}
