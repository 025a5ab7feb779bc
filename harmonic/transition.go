package harmonic

import "math"

// TrackProfile is what the engine needs to know about a track to judge a transition
type TrackProfile struct {
	BPM          float64 `json:"bpm"`
	Key          string  `json:"key"`
	Energy       float64 `json:"energy"`       // 0-1
	Danceability float64 `json:"danceability"` // 0-1
	Genre        string  `json:"genre,omitempty"`
}

// TransitionReport bundles every verdict for mixing from one track into the next
type TransitionReport struct {
	Key              CompatibilityResult `json:"key"`
	BPM              BPMCompatibility    `json:"bpm"`
	Sync             SyncPlan            `json:"sync"`
	EnergyDelta      float64             `json:"energy_delta"` // to.Energy - from.Energy
	GenresCompatible bool                `json:"genres_compatible"`
	MixScore         float64             `json:"mix_score"` // lower is better; negative is a bonus
}

// Mix score weights
const (
	tempoJumpPenalty   = 100.0
	tempoDriftWeight   = 20.0
	harmonicBonus      = 20.0
	energyJumpPenalty  = 40.0
	energyJumpLimit    = 0.8
	genreMismatchScore = 5.0
)

// EvaluateTransition scores the move from one track to the next. Tempo
// differences within ExcellentPercent cost a little, larger ones a lot;
// compatible keys earn a bonus; a danceability jump above 0.8 is penalized.
func EvaluateTransition(from, to TrackProfile) TransitionReport {
	report := TransitionReport{
		Key:         AreKeysCompatible(from.Key, to.Key),
		BPM:         CalculateBPMCompatibility(from.BPM, to.BPM),
		Sync:        FindOptimalSyncBPM(from.BPM, to.BPM),
		EnergyDelta: to.Energy - from.Energy,
	}

	score := 0.0

	switch report.BPM.Verdict {
	case BPMPerfect, BPMExcellent:
		score += report.BPM.PercentageDiff / 100 * tempoDriftWeight
	default:
		score += tempoJumpPenalty
	}

	if report.Key.Compatible {
		score -= harmonicBonus
	}

	if math.Abs(to.Danceability-from.Danceability) > energyJumpLimit {
		score += energyJumpPenalty
	}

	if from.Genre != "" && to.Genre != "" {
		report.GenresCompatible = NormalizeGenre(from.Genre) == NormalizeGenre(to.Genre) ||
			AreGenresCompatible(from.Genre, to.Genre)
		if !report.GenresCompatible {
			score += genreMismatchScore
		}
	}

	report.MixScore = score
	return report
}
