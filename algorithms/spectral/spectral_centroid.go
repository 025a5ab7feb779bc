package spectral

// SpectralCentroid computes the spectral centroid (center of mass) of a spectrum
type SpectralCentroid struct {
	sampleRate int
}

// NewSpectralCentroid creates a new spectral centroid calculator
func NewSpectralCentroid(sampleRate int) *SpectralCentroid {
	return &SpectralCentroid{
		sampleRate: sampleRate,
	}
}

// Compute calculates the energy-weighted (|X|^2) mean frequency of a half
// spectrum (numBins = fftSize/2, bin k at k*sampleRate/fftSize), matching the
// power weighting of SpectralRolloff. Zero energy yields 0.
func (sc *SpectralCentroid) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	fftSize := len(spectrum) * 2
	numerator := 0.0
	denominator := 0.0

	for i, mag := range spectrum {
		power := mag * mag
		numerator += BinFrequency(i, fftSize, sc.sampleRate) * power
		denominator += power
	}

	if denominator == 0 {
		return 0
	}

	return numerator / denominator
}
