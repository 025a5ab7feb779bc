// Package harmonic implements Camelot-wheel key compatibility, BPM matching
// and genre lookups for DJ mixing. Every function is pure and total: unknown
// keys and out-of-range tempos are reported in the result, never as errors.
package harmonic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-mix/algorithms/tonal"
)

// EnergyDirection describes how a move on the wheel changes perceived energy
type EnergyDirection string

const (
	EnergySame EnergyDirection = "same"
	EnergyUp   EnergyDirection = "up"
	EnergyDown EnergyDirection = "down"
)

// CamelotEntry is one key on the Camelot wheel
type CamelotEntry struct {
	Key    string `json:"key"`    // canonical short name, e.g. "Am"
	Code   string `json:"code"`   // e.g. "8A"
	Number int    `json:"number"` // 1-12
	Major  bool   `json:"major"`  // B side

	// Compatible codes in fixed order: same, relative major/minor, one step down, one step up
	Compatible [4]string          `json:"compatible"`
	Energy     [4]EnergyDirection `json:"energy"`
}

var wheel = []struct {
	key    string
	number int
	major  bool
}{
	{"C", 8, true}, {"Db", 3, true}, {"D", 10, true}, {"Eb", 5, true},
	{"E", 12, true}, {"F", 7, true}, {"F#", 2, true}, {"G", 9, true},
	{"Ab", 4, true}, {"A", 11, true}, {"Bb", 6, true}, {"B", 1, true},

	{"Am", 8, false}, {"Bbm", 3, false}, {"Bm", 10, false}, {"Cm", 5, false},
	{"C#m", 12, false}, {"Dm", 7, false}, {"Ebm", 2, false}, {"Em", 9, false},
	{"Fm", 4, false}, {"F#m", 11, false}, {"Gm", 6, false}, {"G#m", 1, false},
}

var (
	entries []CamelotEntry
	byKey   = make(map[string]CamelotEntry)
	byCode  = make(map[string]CamelotEntry)
)

func init() {
	for _, w := range wheel {
		entry := newEntry(w.key, w.number, w.major)
		entries = append(entries, entry)
		byKey[entry.Key] = entry
		byCode[entry.Code] = entry
	}
}

func camelotCode(number int, major bool) string {
	if major {
		return fmt.Sprintf("%dB", number)
	}
	return fmt.Sprintf("%dA", number)
}

// wrap keeps wheel numbers in 1-12
func wrap(n int) int {
	return (n+11)%12 + 1
}

func newEntry(key string, number int, major bool) CamelotEntry {
	// Majors moving to their relative minor drop energy; minors moving to the relative major lift it
	relative := EnergyUp
	if major {
		relative = EnergyDown
	}

	return CamelotEntry{
		Key:    key,
		Code:   camelotCode(number, major),
		Number: number,
		Major:  major,
		Compatible: [4]string{
			camelotCode(number, major),
			camelotCode(number, !major),
			camelotCode(wrap(number-1), major),
			camelotCode(wrap(number+1), major),
		},
		Energy: [4]EnergyDirection{EnergySame, relative, EnergySame, EnergySame},
	}
}

// Wheel returns all 24 entries, majors first
func Wheel() []CamelotEntry {
	out := make([]CamelotEntry, len(entries))
	copy(out, entries)
	return out
}

// LookupKey finds the wheel entry for a key name or Camelot code.
// Accepts enharmonic spellings ("C#" and "Db"), "m"/"min"/"minor" and
// "maj"/"major" suffixes with or without a space, and codes such as "8a".
func LookupKey(name string) (CamelotEntry, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CamelotEntry{}, false
	}

	if entry, ok := lookupCode(name); ok {
		return entry, true
	}

	pitchClass, mode, ok := parseKeyName(name)
	if !ok {
		return CamelotEntry{}, false
	}

	entry, ok := byKey[tonal.KeyName(pitchClass, mode)]
	return entry, ok
}

// CamelotCode returns the Camelot code for a key name
func CamelotCode(key string) (string, bool) {
	entry, ok := LookupKey(key)
	if !ok {
		return "", false
	}
	return entry.Code, true
}

func lookupCode(s string) (CamelotEntry, bool) {
	if len(s) < 2 {
		return CamelotEntry{}, false
	}

	letter := strings.ToUpper(s[len(s)-1:])
	if letter != "A" && letter != "B" {
		return CamelotEntry{}, false
	}

	number, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || number < 1 || number > 12 {
		return CamelotEntry{}, false
	}

	entry, ok := byCode[strconv.Itoa(number)+letter]
	return entry, ok
}

var naturals = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// parseKeyName splits "F#m", "Bb major", "ebm" into pitch class (0=C) and mode
func parseKeyName(s string) (int, tonal.KeyMode, bool) {
	pitchClass, ok := naturals[strings.ToUpper(s[:1])[0]]
	if !ok {
		return 0, tonal.KeyModeMajor, false
	}
	rest := s[1:]

	switch {
	case strings.HasPrefix(rest, "#"):
		pitchClass++
		rest = rest[1:]
	case strings.HasPrefix(rest, "♯"):
		pitchClass++
		rest = rest[len("♯"):]
	case strings.HasPrefix(rest, "♭"):
		pitchClass--
		rest = rest[len("♭"):]
	case strings.HasPrefix(rest, "b"):
		pitchClass--
		rest = rest[1:]
	}
	pitchClass = (pitchClass + 12) % 12

	switch strings.ToLower(strings.TrimSpace(rest)) {
	case "", "maj", "major":
		return pitchClass, tonal.KeyModeMajor, true
	case "m", "min", "minor":
		return pitchClass, tonal.KeyModeMinor, true
	default:
		return 0, tonal.KeyModeMajor, false
	}
}
