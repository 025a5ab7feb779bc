// Package phase tracks how far apart two playing decks are within their beats.
package phase

import "math"

// State is one reading of the two decks' beat alignment
type State struct {
	PositionA     float64 `json:"position_a"`
	PositionB     float64 `json:"position_b"`
	NextBeatA     float64 `json:"next_beat_a"`
	NextBeatB     float64 `json:"next_beat_b"`
	Phase         float64 `json:"phase"` // 0 aligned, 0.5 half a beat apart
	BPMDifference float64 `json:"bpm_difference"`
	Synced        bool    `json:"synced"`
	Active        bool    `json:"active"`
}

// Source is anything that can report a playback position, typically a deck tap
type Source interface {
	Position() (seconds float64, playing bool)
}

// Compute derives the alignment state for two positions using the default threshold
func Compute(posA, posB, bpmA, bpmB float64) State {
	return ComputeWithThreshold(posA, posB, bpmA, bpmB, DefaultConfig().SyncThreshold)
}

// ComputeWithThreshold derives the alignment state for two positions. A deck
// with an unusable BPM contributes phase 0 and a next beat at its own position,
// and the result is marked inactive.
func ComputeWithThreshold(posA, posB, bpmA, bpmB, threshold float64) State {
	phaseA, nextA, okA := beatPhase(posA, bpmA)
	phaseB, nextB, okB := beatPhase(posB, bpmB)

	offset := math.Abs(phaseA - phaseB)
	if offset > 0.5 {
		offset = 1 - offset
	}

	bpmDiff := 0.0
	if okA && okB {
		bpmDiff = math.Abs(bpmA - bpmB)
	}

	active := okA && okB
	return State{
		PositionA:     posA,
		PositionB:     posB,
		NextBeatA:     nextA,
		NextBeatB:     nextB,
		Phase:         offset,
		BPMDifference: bpmDiff,
		Synced:        active && offset < threshold,
		Active:        active,
	}
}

// beatPhase returns where pos falls inside its beat and when the next beat lands
func beatPhase(pos, bpm float64) (phase, next float64, ok bool) {
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) || math.IsNaN(pos) || math.IsInf(pos, 0) {
		return 0, pos, false
	}

	beatLen := 60 / bpm
	into := math.Mod(pos, beatLen)
	if into < 0 {
		into += beatLen
	}
	return into / beatLen, pos + (beatLen - into), true
}
