package harmonic

import (
	"regexp"
	"slices"
	"strings"
)

// BPMRange is the tempo span typical of a genre
type BPMRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Typical float64 `json:"typical"`
	Known   bool    `json:"known"` // false when the genre was not recognized and defaults were used
}

// DefaultBPMRange is reported for unrecognized genres
var DefaultBPMRange = BPMRange{Min: 100, Max: 140, Typical: 120}

var genreBPM = map[string]BPMRange{
	"techno":        {Min: 120, Max: 150, Typical: 130, Known: true},
	"house":         {Min: 118, Max: 135, Typical: 125, Known: true},
	"drum-and-bass": {Min: 160, Max: 180, Typical: 174, Known: true},
	"trance":        {Min: 125, Max: 150, Typical: 138, Known: true},
	"dubstep":       {Min: 130, Max: 145, Typical: 140, Known: true},
	"hip-hop":       {Min: 60, Max: 100, Typical: 85, Known: true},
	"trap":          {Min: 70, Max: 90, Typical: 75, Known: true},
	"disco":         {Min: 110, Max: 130, Typical: 120, Known: true},
	"ambient":       {Min: 60, Max: 90, Typical: 75, Known: true},
}

// GenreInfo is the mixing-relevant knowledge about a genre
type GenreInfo struct {
	Name             string   `json:"name"`
	BPM              BPMRange `json:"bpm"`
	CommonKeys       []string `json:"common_keys"`
	EnergyLevel      int      `json:"energy_level"` // 1-10
	CompatibleGenres []string `json:"compatible_genres"`
}

var genres = map[string]GenreInfo{
	"techno": {
		Name:             "Techno",
		CommonKeys:       []string{"Am", "Dm", "Em", "Gm", "Cm"},
		EnergyLevel:      8,
		CompatibleGenres: []string{"House", "Trance", "Industrial", "Electro"},
	},
	"house": {
		Name:             "House",
		CommonKeys:       []string{"Am", "C", "Dm", "F", "G"},
		EnergyLevel:      7,
		CompatibleGenres: []string{"Techno", "Disco", "Funk", "Soul", "Garage"},
	},
	"drum-and-bass": {
		Name:             "Drum & Bass",
		CommonKeys:       []string{"Am", "Dm", "Em", "Bm", "F#m"},
		EnergyLevel:      9,
		CompatibleGenres: []string{"Jungle", "Dubstep", "Breakbeat", "Hardcore"},
	},
	"trance": {
		Name:             "Trance",
		CommonKeys:       []string{"C#m", "Am", "Em", "Bm", "F#m"},
		EnergyLevel:      8,
		CompatibleGenres: []string{"Progressive House", "Techno", "Psytrance", "Eurodance"},
	},
	"dubstep": {
		Name:             "Dubstep",
		CommonKeys:       []string{"Dm", "Am", "Em", "F#m", "C#m"},
		EnergyLevel:      9,
		CompatibleGenres: []string{"Drum & Bass", "Grime", "Trap", "Bass Music"},
	},
	"hip-hop": {
		Name:             "Hip-Hop",
		CommonKeys:       []string{"Am", "Cm", "Dm", "Em", "Gm"},
		EnergyLevel:      6,
		CompatibleGenres: []string{"R&B", "Funk", "Soul", "Trap", "Breakbeat"},
	},
	"disco": {
		Name:             "Disco",
		CommonKeys:       []string{"C", "F", "G", "Dm", "Am"},
		EnergyLevel:      7,
		CompatibleGenres: []string{"Funk", "House", "Boogie", "Soul", "Nu-Disco"},
	},
	"ambient": {
		Name:             "Ambient",
		CommonKeys:       []string{"C", "Am", "F", "G", "Dm"},
		EnergyLevel:      2,
		CompatibleGenres: []string{"Downtempo", "Drone", "Experimental", "Chillout"},
	},
}

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeGenre lowercases a genre name and joins words with "-", so
// "Drum and Bass" becomes "drum-and-bass"
func NormalizeGenre(genre string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(genre)), "-")
}

// EstimateBPMFromGenre returns the genre's tempo range, or DefaultBPMRange with Known=false
func EstimateBPMFromGenre(genre string) BPMRange {
	if r, ok := genreBPM[NormalizeGenre(genre)]; ok {
		return r
	}
	return DefaultBPMRange
}

// LookupGenre returns the knowledge entry for a genre
func LookupGenre(genre string) (GenreInfo, bool) {
	key := NormalizeGenre(genre)
	info, ok := genres[key]
	if !ok {
		return GenreInfo{}, false
	}

	info.BPM = genreBPM[key]
	info.CommonKeys = slices.Clone(info.CommonKeys)
	info.CompatibleGenres = slices.Clone(info.CompatibleGenres)
	return info, true
}

// CompatibleGenres lists genres that mix well with genre; empty when unknown
func CompatibleGenres(genre string) []string {
	info, ok := LookupGenre(genre)
	if !ok {
		return []string{}
	}
	return info.CompatibleGenres
}

// AreGenresCompatible reports whether genre2 is listed as compatible with genre1.
// Names match after normalization or through genre2's display name.
func AreGenresCompatible(genre1, genre2 string) bool {
	info, ok := LookupGenre(genre1)
	if !ok {
		return false
	}

	target := NormalizeGenre(genre2)
	display := ""
	if other, ok := LookupGenre(genre2); ok {
		display = NormalizeGenre(other.Name)
	}

	for _, candidate := range info.CompatibleGenres {
		c := NormalizeGenre(candidate)
		if c == target || (display != "" && c == display) {
			return true
		}
	}
	return false
}

// Genres returns the normalized names of all genres with knowledge entries, sorted
func Genres() []string {
	names := make([]string, 0, len(genres))
	for name := range genres {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Mood is a coarse description of a track's character
type Mood string

const (
	MoodDark    Mood = "dark"
	MoodBright  Mood = "bright"
	MoodNeutral Mood = "neutral"
)

var (
	minorCandidates = []string{"Am", "Dm", "Em", "Bm", "F#m", "Cm", "Gm"}
	majorCandidates = []string{"C", "F", "G", "D", "A", "E", "Bb"}
)

// EstimateKeysFromCharacteristics guesses likely keys when no audio is
// available: minor keys for dark or techno material, major keys for bright,
// house or disco material, and a mix of both otherwise.
func EstimateKeysFromCharacteristics(mood Mood, genre string) []string {
	g := strings.ToLower(genre)

	switch {
	case strings.Contains(g, "techno") || strings.Contains(g, "dark") || mood == MoodDark:
		return slices.Clone(minorCandidates[:5])
	case strings.Contains(g, "house") || strings.Contains(g, "disco") || mood == MoodBright:
		return slices.Clone(majorCandidates[:5])
	default:
		return append(slices.Clone(minorCandidates[:3]), majorCandidates[:3]...)
	}
}
