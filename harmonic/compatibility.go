package harmonic

import "fmt"

// Relationship names how two keys sit on the wheel
type Relationship string

const (
	RelationshipPerfectMatch  Relationship = "perfect match"
	RelationshipSameKey       Relationship = "same key"
	RelationshipRelative      Relationship = "relative major/minor"
	RelationshipEnergyDown    Relationship = "energy step down"
	RelationshipEnergyUp      Relationship = "energy step up"
	RelationshipNotCompatible Relationship = "not compatible"
	RelationshipUnknown       Relationship = "unknown"
)

// relationships by position in CamelotEntry.Compatible
var relationships = [4]Relationship{
	RelationshipSameKey,
	RelationshipRelative,
	RelationshipEnergyDown,
	RelationshipEnergyUp,
}

var transitionAdvice = [4]string{
	"Perfect harmonic match",
	"Moving to relative key - smooth transition",
	"Stepping down in energy",
	"Stepping up in energy",
}

// CompatibilityResult is the verdict for mixing from one key into another
type CompatibilityResult struct {
	Compatible   bool            `json:"compatible"`
	Relationship Relationship    `json:"relationship"`
	Advice       string          `json:"advice"`
	FromCode     string          `json:"from_code,omitempty"`
	ToCode       string          `json:"to_code,omitempty"`
	Energy       EnergyDirection `json:"energy,omitempty"`
}

// AreKeysCompatible reports how key2 relates to key1 on the Camelot wheel.
// Either key being unrecognized yields RelationshipUnknown.
func AreKeysCompatible(key1, key2 string) CompatibilityResult {
	from, ok1 := LookupKey(key1)
	to, ok2 := LookupKey(key2)
	if !ok1 || !ok2 {
		return CompatibilityResult{
			Compatible:   false,
			Relationship: RelationshipUnknown,
			Advice:       "One or both keys not recognized",
		}
	}

	if from.Code == to.Code {
		return CompatibilityResult{
			Compatible:   true,
			Relationship: RelationshipPerfectMatch,
			Advice:       "Same key - perfectly harmonic. Mix freely!",
			FromCode:     from.Code,
			ToCode:       to.Code,
			Energy:       EnergySame,
		}
	}

	for i, code := range from.Compatible {
		if code != to.Code {
			continue
		}
		return CompatibilityResult{
			Compatible:   true,
			Relationship: relationships[i],
			Advice:       fmt.Sprintf("Compatible keys (%s → %s). %s", from.Code, to.Code, transitionAdvice[i]),
			FromCode:     from.Code,
			ToCode:       to.Code,
			Energy:       from.Energy[i],
		}
	}

	return CompatibilityResult{
		Compatible:   false,
		Relationship: RelationshipNotCompatible,
		Advice:       fmt.Sprintf("Keys clash (%s vs %s). Consider mixing during breakdown or use key shift.", from.Code, to.Code),
		FromCode:     from.Code,
		ToCode:       to.Code,
	}
}

// NextKeysForEnergyShift suggests keys to move to from key. EnergySame keeps
// the key, EnergyUp offers the relative key and one step up, EnergyDown the
// relative key and one step down. Unknown keys yield an empty list.
func NextKeysForEnergyShift(key string, direction EnergyDirection) []string {
	entry, ok := LookupKey(key)
	if !ok {
		return []string{}
	}

	var positions []int
	switch direction {
	case EnergySame:
		return []string{entry.Key}
	case EnergyUp:
		positions = []int{1, 3}
	case EnergyDown:
		positions = []int{1, 2}
	default:
		return []string{}
	}

	keys := make([]string, 0, len(positions))
	for _, p := range positions {
		keys = append(keys, byCode[entry.Compatible[p]].Key)
	}
	return keys
}
