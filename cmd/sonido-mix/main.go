package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/RyanBlaney/sonido-mix/algorithms/temporal"
	"github.com/RyanBlaney/sonido-mix/analysis"
	"github.com/RyanBlaney/sonido-mix/analysis/config"
	"github.com/RyanBlaney/sonido-mix/harmonic"
	"github.com/RyanBlaney/sonido-mix/logging"
	"github.com/RyanBlaney/sonido-mix/transcode"
	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
)

// version is set via ldflags at build time
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	LogLevel string           `help:"Log level (debug, info, warn, error)" default:"warn" enum:"debug,info,warn,error"`
	Version  kong.VersionFlag `help:"Show version information"`
}

var CLI struct {
	Globals

	Analyze AnalyzeCmd `cmd:"" help:"Extract tempo, key, energy and beat grid from audio files"`
	Keys    KeysCmd    `cmd:"" help:"Check harmonic compatibility of two keys"`
	BPM     BPMCmd     `cmd:"" name:"bpm" help:"Check tempo compatibility of two tracks"`
	Sync    SyncCmd    `cmd:"" help:"Find the meeting tempo for two tracks"`
	Genre   GenreCmd   `cmd:"" help:"Show tempo range and mixing partners for a genre"`
}

// AnalyzeCmd decodes and analyzes one or more files concurrently
type AnalyzeCmd struct {
	Files       []string      `arg:"" name:"file" help:"WAV, FLAC or MP3 files" type:"existingfile"`
	MaxDuration time.Duration `help:"Only analyze the first part of each file (0 = whole file)" default:"0s"`
	Concurrency int           `help:"Files analyzed in parallel" default:"4"`
	Full        bool          `help:"Include waveform, spectrum and per-beat data in the output"`
}

type analyzeSummary struct {
	File          string                 `json:"file"`
	Features      analysis.AudioFeatures `json:"features"`
	TempoDetected bool                   `json:"tempo_detected"`
	TempoCategory string                 `json:"tempo_category,omitempty"`
	KeyConfidence float64                `json:"key_confidence"`
	CamelotCode   string                 `json:"camelot_code,omitempty"`
	Beats         int                    `json:"beats"`
}

func (c *AnalyzeCmd) Run(ctx context.Context) error {
	decoder := transcode.NewDecoder(&transcode.DecoderConfig{
		MaxDuration: c.MaxDuration,
		ChunkFrames: transcode.DefaultDecoderConfig().ChunkFrames,
	})

	inputs := make([]analysis.Input, 0, len(c.Files))
	for _, file := range c.Files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		inputs = append(inputs, analysis.Input{
			Name: filepath.Base(file),
			Data: data,
		})
	}

	cfg := config.DefaultExtractorConfig()
	if c.Concurrency > 0 {
		cfg.MaxConcurrency = c.Concurrency
	}

	results, err := analysis.NewExtractor(cfg).WithDecoder(decoder).AnalyzeBatch(ctx, inputs)
	if err != nil {
		return err
	}

	if c.Full {
		return printJSON(results)
	}

	summaries := make([]analyzeSummary, len(results))
	for i, r := range results {
		code, _ := harmonic.CamelotCode(r.Features.Key)
		category := ""
		if r.TempoDetected {
			category = temporal.ClassifyTempoCategory(r.Features.BPM)
		}
		summaries[i] = analyzeSummary{
			File:          inputs[i].Name,
			Features:      r.Features,
			TempoDetected: r.TempoDetected,
			TempoCategory: category,
			KeyConfidence: r.KeyConfidence,
			CamelotCode:   code,
			Beats:         len(r.Beats),
		}
	}
	return printJSON(summaries)
}

// KeysCmd compares two keys on the Camelot wheel
type KeysCmd struct {
	From  string                   `arg:"" help:"Outgoing key, e.g. Am or 8A"`
	To    string                   `arg:"" help:"Incoming key"`
	Shift harmonic.EnergyDirection `help:"Also list keys for an energy shift from the outgoing key (same, up, down)"`
}

func (c *KeysCmd) Run() error {
	out := struct {
		harmonic.CompatibilityResult
		Suggestions []string `json:"suggestions,omitempty"`
	}{
		CompatibilityResult: harmonic.AreKeysCompatible(c.From, c.To),
	}
	switch c.Shift {
	case "":
	case harmonic.EnergySame, harmonic.EnergyUp, harmonic.EnergyDown:
		out.Suggestions = harmonic.NextKeysForEnergyShift(c.From, c.Shift)
	default:
		return fmt.Errorf("unknown energy shift %q", c.Shift)
	}
	return printJSON(out)
}

// BPMCmd compares two tempos relative to the first
type BPMCmd struct {
	From float64 `arg:"" help:"Outgoing track BPM"`
	To   float64 `arg:"" help:"Incoming track BPM"`
}

func (c *BPMCmd) Run() error {
	return printJSON(harmonic.CalculateBPMCompatibility(c.From, c.To))
}

// SyncCmd finds the tempo two tracks should meet at
type SyncCmd struct {
	From float64 `arg:"" help:"Outgoing track BPM"`
	To   float64 `arg:"" help:"Incoming track BPM"`
}

func (c *SyncCmd) Run() error {
	return printJSON(harmonic.FindOptimalSyncBPM(c.From, c.To))
}

// GenreCmd prints what is known about a genre
type GenreCmd struct {
	Name string        `arg:"" optional:"" help:"Genre name; omit to list known genres"`
	Mood harmonic.Mood `help:"Suggest keys for a mood (dark, bright, neutral)"`
}

func (c *GenreCmd) Run() error {
	if c.Name == "" {
		return printJSON(harmonic.Genres())
	}

	out := struct {
		Genre string              `json:"genre"`
		BPM   harmonic.BPMRange   `json:"bpm"`
		Info  *harmonic.GenreInfo `json:"info,omitempty"`
		Keys  []string            `json:"keys,omitempty"`
	}{
		Genre: harmonic.NormalizeGenre(c.Name),
		BPM:   harmonic.EstimateBPMFromGenre(c.Name),
	}
	if info, ok := harmonic.LookupGenre(c.Name); ok {
		out.Info = &info
	}
	switch c.Mood {
	case "":
	case harmonic.MoodDark, harmonic.MoodBright, harmonic.MoodNeutral:
		out.Keys = harmonic.EstimateKeysFromCharacteristics(c.Mood, c.Name)
	default:
		return fmt.Errorf("unknown mood %q", c.Mood)
	}
	return printJSON(out)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("sonido-mix"),
		kong.Description("Analyze tracks and check how well they mix."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)

	// logs go to stderr so stdout stays valid JSON
	logger := logging.NewDefaultLoggerTo(os.Stderr, os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
	logger.SetLevel(logging.ParseLevel(CLI.LogLevel))
	logging.SetGlobalLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))

	err := kctx.Run(&CLI.Globals)
	if err != nil {
		logging.Error(err, "Command failed", logging.Fields{"command": kctx.Command()})
	}
	kctx.FatalIfErrorf(err)
}
