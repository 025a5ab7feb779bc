package bands

import (
	"math"

	"github.com/RyanBlaney/sonido-mix/algorithms/common"
)

// FrequencyBalance is the share of energy in the bass, mid and high groups.
// The ratios sum to 1 unless the snapshot is silent, in which case all are 0.
type FrequencyBalance struct {
	Bass  float64 `json:"bass"`
	Mids  float64 `json:"mids"`
	Highs float64 `json:"highs"`
}

// DefaultTargetBalance is the balance SuggestEQ steers toward when no target is given
var DefaultTargetBalance = FrequencyBalance{Bass: 0.40, Mids: 0.35, Highs: 0.25}

// EQ constants
const (
	EQScaleDB     = 12.0 // dB per unit of ratio deficit
	EQLimitDB     = 12.0
	EQToleranceDB = 2.0 // adjustments within this are considered balanced
)

// EQFlag classifies one EQ adjustment
type EQFlag string

const (
	EQBalanced EQFlag = "balanced"
	EQTooQuiet EQFlag = "too_quiet"
	EQTooLoud  EQFlag = "too_loud"
)

// Adjustment is a suggested gain for one EQ knob
type Adjustment struct {
	DB   float64 `json:"db"` // clamped to +/-12
	Flag EQFlag  `json:"flag"`
}

// EQSuggestion holds low/mid/high EQ moves toward a target balance
type EQSuggestion struct {
	Low  Adjustment `json:"low"`
	Mid  Adjustment `json:"mid"`
	High Adjustment `json:"high"`
}

// Balance groups the bands into bass (sub-bass, bass, low-mids), mids
// (mids, high-mids) and highs (presence, brilliance) and returns their shares.
func Balance(s Snapshot) FrequencyBalance {
	b := Split(s)

	bass := b.SubBass + b.Bass + b.LowMids
	mids := b.Mids + b.HighMids
	highs := b.Presence + b.Brilliance

	total := bass + mids + highs
	if total == 0 {
		return FrequencyBalance{}
	}

	return FrequencyBalance{
		Bass:  bass / total,
		Mids:  mids / total,
		Highs: highs / total,
	}
}

// SuggestEQ converts the gap between the snapshot's balance and target into
// gain moves of EQScaleDB per unit of deficit. A nil target uses DefaultTargetBalance.
func SuggestEQ(s Snapshot, target *FrequencyBalance) EQSuggestion {
	t := DefaultTargetBalance
	if target != nil {
		t = *target
	}

	current := Balance(s)
	return EQSuggestion{
		Low:  adjustment((t.Bass - current.Bass) * EQScaleDB),
		Mid:  adjustment((t.Mids - current.Mids) * EQScaleDB),
		High: adjustment((t.Highs - current.Highs) * EQScaleDB),
	}
}

func adjustment(raw float64) Adjustment {
	flag := EQBalanced
	if math.Abs(raw) > EQToleranceDB {
		if raw > 0 {
			flag = EQTooQuiet
		} else {
			flag = EQTooLoud
		}
	}
	return Adjustment{
		DB:   common.Clamp(raw, -EQLimitDB, EQLimitDB),
		Flag: flag,
	}
}
