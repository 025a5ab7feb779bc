package bands

import "math"

// DefaultCollisionThreshold is the level both decks must exceed for a bin to collide
const DefaultCollisionThreshold = 0.6

// Collision marks a bin where both decks carry significant energy
type Collision struct {
	FrequencyHz float64 `json:"frequency_hz"`
	Severity    float64 `json:"severity"` // min of the two levels
}

// DetectCollisions reports bins where both levels are strictly above threshold.
// Snapshots of different lengths are compared over their common prefix, with
// bin frequencies taken from a.
func DetectCollisions(a, b Snapshot, threshold float64) []Collision {
	collisions := []Collision{}

	width := a.BinWidth()
	n := min(len(a.Bins), len(b.Bins))

	for i := 0; i < n; i++ {
		levelA, levelB := a.Bins[i], b.Bins[i]
		if levelA > threshold && levelB > threshold {
			collisions = append(collisions, Collision{
				FrequencyHz: float64(i) * width,
				Severity:    math.Min(levelA, levelB),
			})
		}
	}

	return collisions
}
