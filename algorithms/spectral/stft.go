package spectral

import (
	"math"

	"github.com/mjibson/go-dsp/window"
)

// STFT walks a signal in overlapping Hann-windowed frames and hands each
// magnitude spectrum to a callback, so whole tracks never sit in memory as a spectrogram.
type STFT struct {
	frameSize int
	hopSize   int
	window    []float64
	fft       *FFT
}

// NewSTFT creates a short-time Fourier transform walker
func NewSTFT(frameSize, hopSize int) *STFT {
	if frameSize < 2 {
		frameSize = 2
	}
	if hopSize <= 0 {
		hopSize = frameSize / 2
	}
	return &STFT{
		frameSize: frameSize,
		hopSize:   hopSize,
		window:    window.Hann(frameSize),
		fft:       NewFFT(),
	}
}

// FrameSize returns the analysis frame length in samples
func (s *STFT) FrameSize() int {
	return s.frameSize
}

// NumBins returns the number of magnitude bins produced per frame
func (s *STFT) NumBins() int {
	return s.frameSize / 2
}

// NumFrames returns how many frames Walk will visit for a signal of length n.
// A non-empty signal shorter than one frame is zero-padded into a single frame.
func (s *STFT) NumFrames(n int) int {
	if n <= 0 {
		return 0
	}
	if n <= s.frameSize {
		return 1
	}
	return (n-s.frameSize)/s.hopSize + 1
}

// Walk calls fn with each frame's magnitude spectrum. The slice passed to fn is
// reused between calls; copy it to retain it. Returning false stops the walk.
func (s *STFT) Walk(signal []float64, fn func(frame int, magnitudes []float64) bool) {
	numFrames := s.NumFrames(len(signal))
	buf := make([]float64, s.frameSize)

	for i := 0; i < numFrames; i++ {
		start := i * s.hopSize
		end := min(start+s.frameSize, len(signal))

		clear(buf)
		for j := start; j < end; j++ {
			buf[j-start] = signal[j] * s.window[j-start]
		}

		if !fn(i, s.fft.Magnitude(buf)) {
			return
		}
	}
}

// MeanSpectrum averages the magnitude spectra of every frame
func (s *STFT) MeanSpectrum(signal []float64) []float64 {
	mean := make([]float64, s.NumBins())
	frames := 0

	s.Walk(signal, func(_ int, mags []float64) bool {
		for i, m := range mags {
			mean[i] += m
		}
		frames++
		return true
	})

	if frames == 0 {
		return mean
	}
	for i := range mean {
		mean[i] /= float64(frames)
	}
	return mean
}

// ByteSpectrum converts magnitudes into 0-255 levels the way a browser
// AnalyserNode does: |X|/fftSize in dB, mapped linearly from minDB..maxDB.
func ByteSpectrum(magnitudes []float64, fftSize int, minDB, maxDB float64) []byte {
	out := make([]byte, len(magnitudes))
	if fftSize <= 0 || maxDB <= minDB {
		return out
	}

	scale := 255.0 / (maxDB - minDB)
	for i, m := range magnitudes {
		normalized := m / float64(fftSize)
		if normalized <= 0 {
			continue
		}
		db := 20 * math.Log10(normalized)
		level := (db - minDB) * scale
		out[i] = byte(math.Max(0, math.Min(255, level)))
	}
	return out
}
