package harmonic

import (
	"fmt"
	"math"
	"strconv"

	"github.com/RyanBlaney/sonido-mix/algorithms/common"
)

// BPM matching thresholds
const (
	ExcellentPercent   = 6.0  // pitch moves up to this are barely audible
	AcceptablePercent  = 10.0 // beyond this the pitch change sounds unnatural
	TimeRatioTolerance = 0.1  // distance from 2.0 or 0.5 treated as double/half time
)

// BPMVerdict classifies a tempo pairing
type BPMVerdict string

const (
	BPMPerfect        BPMVerdict = "perfect"
	BPMExcellent      BPMVerdict = "excellent"
	BPMAcceptable     BPMVerdict = "acceptable"
	BPMDoubleHalfTime BPMVerdict = "double_half_time"
	BPMIncompatible   BPMVerdict = "incompatible"
	BPMInvalid        BPMVerdict = "invalid"
)

// BPMCompatibility is the verdict for beatmatching two tempos.
// PercentageDiff and PitchAdjustment are relative to the first BPM, rounded to
// one decimal, so swapping the arguments changes the magnitudes.
type BPMCompatibility struct {
	Compatible      bool       `json:"compatible"`
	Verdict         BPMVerdict `json:"verdict"`
	PercentageDiff  float64    `json:"percentage_diff"`
	PitchAdjustment float64    `json:"pitch_adjustment"` // percent to apply to track 2
	Advice          string     `json:"advice"`
}

// SyncPlan is the meeting tempo for two tracks and the pitch change each needs
type SyncPlan struct {
	SyncBPM          float64 `json:"sync_bpm"`
	Track1Adjustment float64 `json:"track1_adjustment"` // percent
	Track2Adjustment float64 `json:"track2_adjustment"` // percent
	Advice           string  `json:"advice"`
}

func validBPM(bpm float64) bool {
	return bpm > 0 && common.IsFinite(bpm)
}

// signed formats a one-decimal percentage with an explicit plus sign
func signed(v float64) string {
	if v == 0 {
		return "0"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v > 0 {
		return "+" + s
	}
	return s
}

// CalculateBPMCompatibility judges whether bpm2 can be beatmatched to bpm1
func CalculateBPMCompatibility(bpm1, bpm2 float64) BPMCompatibility {
	if !validBPM(bpm1) || !validBPM(bpm2) {
		return BPMCompatibility{
			Verdict: BPMInvalid,
			Advice:  "BPM must be a positive number",
		}
	}

	percentage := math.Abs(bpm1-bpm2) / bpm1 * 100
	pitch := (bpm2 - bpm1) / bpm1 * 100

	roundedPct := common.RoundTo(percentage, 1)
	roundedPitch := common.RoundTo(pitch, 1)

	switch {
	case percentage == 0:
		return BPMCompatibility{
			Compatible: true,
			Verdict:    BPMPerfect,
			Advice:     "Perfect BPM match - sync and play!",
		}

	case percentage <= ExcellentPercent:
		return BPMCompatibility{
			Compatible:      true,
			Verdict:         BPMExcellent,
			PercentageDiff:  roundedPct,
			PitchAdjustment: roundedPitch,
			Advice:          fmt.Sprintf("Excellent compatibility. Adjust pitch by %s%%", signed(roundedPitch)),
		}

	case percentage <= AcceptablePercent:
		return BPMCompatibility{
			Compatible:      true,
			Verdict:         BPMAcceptable,
			PercentageDiff:  roundedPct,
			PitchAdjustment: roundedPitch,
			Advice:          fmt.Sprintf("Acceptable but noticeable pitch change (%s%%). May sound unnatural.", signed(roundedPitch)),
		}
	}

	ratio := bpm2 / bpm1
	if math.Abs(ratio-2.0) < TimeRatioTolerance || math.Abs(ratio-0.5) < TimeRatioTolerance {
		return BPMCompatibility{
			Compatible:     true,
			Verdict:        BPMDoubleHalfTime,
			PercentageDiff: roundedPct,
			Advice:         "Double/half time relationship - creative opportunity! Mix at breakdown.",
		}
	}

	return BPMCompatibility{
		Compatible:      false,
		Verdict:         BPMIncompatible,
		PercentageDiff:  roundedPct,
		PitchAdjustment: roundedPitch,
		Advice:          fmt.Sprintf("BPM difference too large (%.0f%%). Mix during breakdown or use creative transition.", math.Round(percentage)),
	}
}

// FindOptimalSyncBPM meets the two tempos at their average
func FindOptimalSyncBPM(bpm1, bpm2 float64) SyncPlan {
	if !validBPM(bpm1) || !validBPM(bpm2) {
		return SyncPlan{Advice: "BPM must be a positive number"}
	}

	avg := (bpm1 + bpm2) / 2
	adj1 := common.RoundTo((avg-bpm1)/bpm1*100, 1)
	adj2 := common.RoundTo((avg-bpm2)/bpm2*100, 1)

	return SyncPlan{
		SyncBPM:          common.RoundTo(avg, 1),
		Track1Adjustment: adj1,
		Track2Adjustment: adj2,
		Advice:           fmt.Sprintf("Sync at %.0f BPM. Track 1: %s%%, Track 2: %s%%", math.Round(avg), signed(adj1), signed(adj2)),
	}
}
