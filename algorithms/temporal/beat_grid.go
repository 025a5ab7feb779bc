package temporal

import "math"

// Beat is one marker of a beat grid
type Beat struct {
	Position      float64 `json:"position"`   // seconds
	Confidence    float64 `json:"confidence"` // 0-1
	IsDownbeat    bool    `json:"is_downbeat"`
	IsPhraseStart bool    `json:"is_phrase_start"`
}

// BeatGrid lays a nominal grid at a known tempo and snaps each beat to the
// strongest envelope frame nearby.
type BeatGrid struct {
	hopSize      int
	searchWindow float64 // fraction of a beat period searched either side
	beatsPerBar  int
	beatsPerPhr  int
}

// NewBeatGrid creates a beat grid builder over an envelope with the given hop
func NewBeatGrid(hopSize int, searchWindow float64) *BeatGrid {
	return &BeatGrid{
		hopSize:      hopSize,
		searchWindow: searchWindow,
		beatsPerBar:  4,
		beatsPerPhr:  16,
	}
}

// Build returns beats covering the whole envelope. A non-positive bpm yields no beats.
func (bg *BeatGrid) Build(envelope []float64, sampleRate int, bpm float64) []Beat {
	if len(envelope) == 0 || bpm <= 0 || sampleRate <= 0 || bg.hopSize <= 0 {
		return []Beat{}
	}

	period := SecondsToFrames(60.0/bpm, bg.hopSize, sampleRate)
	if period <= 0 {
		return []Beat{}
	}
	radius := period * bg.searchWindow

	beats := make([]Beat, 0, int(float64(len(envelope))/period)+1)

	for n := 0; ; n++ {
		expected := float64(n) * period
		if expected >= float64(len(envelope)) {
			break
		}

		lo := max(0, int(math.Ceil(expected-radius)))
		hi := min(len(envelope)-1, int(math.Floor(expected+radius)))

		best := int(math.Round(expected))
		best = min(best, len(envelope)-1)
		peak := 0.0
		for i := lo; i <= hi; i++ {
			if envelope[i] > peak {
				peak = envelope[i]
				best = i
			}
		}

		beats = append(beats, Beat{
			Position:      FrameToSeconds(best, bg.hopSize, sampleRate),
			Confidence:    math.Min(peak, 1),
			IsDownbeat:    n%bg.beatsPerBar == 0,
			IsPhraseStart: n%bg.beatsPerPhr == 0,
		})
	}

	return beats
}
