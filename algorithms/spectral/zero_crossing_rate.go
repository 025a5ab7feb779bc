package spectral

// ZeroCrossingRate measures how often a signal changes sign.
// High values indicate noisy/percussive content, low values tonal content.
type ZeroCrossingRate struct{}

// NewZeroCrossingRate creates a new zero crossing rate calculator
func NewZeroCrossingRate() *ZeroCrossingRate {
	return &ZeroCrossingRate{}
}

func crossed(prev, cur float64) bool {
	return (prev >= 0 && cur < 0) || (prev < 0 && cur >= 0)
}

// ComputeNormalized returns the fraction of adjacent sample pairs with a sign change (0-1)
func (zcr *ZeroCrossingRate) ComputeNormalized(signal []float64) float64 {
	if len(signal) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(signal); i++ {
		if crossed(signal[i-1], signal[i]) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(signal)-1)
}
