package bands

import "math"

// FrequencyBands holds the average level of each mixer band, each in [0,1]
type FrequencyBands struct {
	SubBass    float64 `json:"sub_bass"`
	Bass       float64 `json:"bass"`
	LowMids    float64 `json:"low_mids"`
	Mids       float64 `json:"mids"`
	HighMids   float64 `json:"high_mids"`
	Presence   float64 `json:"presence"`
	Brilliance float64 `json:"brilliance"`
}

// Range is a band's frequency span in Hz
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Band ranges in Hz. Adjacent bands share their boundary bin.
var (
	SubBassRange    = Range{20, 60}
	BassRange       = Range{60, 250}
	LowMidsRange    = Range{250, 500}
	MidsRange       = Range{500, 2000}
	HighMidsRange   = Range{2000, 4000}
	PresenceRange   = Range{4000, 6000}
	BrillianceRange = Range{6000, 20000}
)

// Split averages the snapshot over each band's bins
func Split(s Snapshot) FrequencyBands {
	return FrequencyBands{
		SubBass:    bandLevel(s, SubBassRange),
		Bass:       bandLevel(s, BassRange),
		LowMids:    bandLevel(s, LowMidsRange),
		Mids:       bandLevel(s, MidsRange),
		HighMids:   bandLevel(s, HighMidsRange),
		Presence:   bandLevel(s, PresenceRange),
		Brilliance: bandLevel(s, BrillianceRange),
	}
}

// bandLevel averages bins floor(min/width) through min(ceil(max/width), n-1) inclusive
func bandLevel(s Snapshot, r Range) float64 {
	width := s.BinWidth()
	if width == 0 {
		return 0
	}

	lo := int(math.Floor(r.Min / width))
	hi := min(int(math.Ceil(r.Max/width)), len(s.Bins)-1)

	sum := 0.0
	count := 0
	for i := lo; i <= hi; i++ {
		sum += s.Bins[i]
		count++
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
