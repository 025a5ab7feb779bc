package spectral

// DefaultRolloffThreshold is the share of spectral energy below the rolloff frequency
const DefaultRolloffThreshold = 0.85

// SpectralRolloff computes spectral rolloff frequency
type SpectralRolloff struct {
	sampleRate int
}

// NewSpectralRolloff creates a new spectral rolloff calculator
func NewSpectralRolloff(sampleRate int) *SpectralRolloff {
	return &SpectralRolloff{
		sampleRate: sampleRate,
	}
}

// Compute returns the frequency below which threshold (e.g. 0.85) of the
// cumulative power lies. A silent spectrum yields 0.
func (sr *SpectralRolloff) Compute(spectrum []float64, threshold float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	fftSize := len(spectrum) * 2

	totalEnergy := 0.0
	for _, mag := range spectrum {
		totalEnergy += mag * mag
	}

	if totalEnergy == 0 {
		return 0
	}

	targetEnergy := threshold * totalEnergy
	cumulativeEnergy := 0.0

	for i, mag := range spectrum {
		cumulativeEnergy += mag * mag
		if cumulativeEnergy >= targetEnergy {
			return BinFrequency(i, fftSize, sr.sampleRate)
		}
	}

	return float64(sr.sampleRate) / 2
}
