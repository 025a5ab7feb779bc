package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RyanBlaney/sonido-mix/algorithms/common"
	"github.com/RyanBlaney/sonido-mix/algorithms/spectral"
	"github.com/RyanBlaney/sonido-mix/algorithms/temporal"
	"github.com/RyanBlaney/sonido-mix/algorithms/tonal"
	"github.com/RyanBlaney/sonido-mix/analysis/config"
	"github.com/RyanBlaney/sonido-mix/logging"
	"github.com/RyanBlaney/sonido-mix/transcode"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidSampleRate is returned for a non-positive sample rate
var ErrInvalidSampleRate = errors.New("invalid sample rate")

// Extractor computes tempo, key, beat grid, energy and spectral descriptors
// from mono PCM. It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	config   *config.ExtractorConfig
	tempo    *temporal.TempoEstimation
	envelope *temporal.Envelope
	beatGrid *temporal.BeatGrid
	keys     *tonal.KeyEstimator
	stft     *spectral.STFT
	zcr      *spectral.ZeroCrossingRate
	decoder  *transcode.Decoder
	logger   logging.Logger
}

// NewExtractor creates an extractor from a copy of cfg. A nil config uses
// DefaultExtractorConfig.
func NewExtractor(cfg *config.ExtractorConfig) *Extractor {
	if cfg == nil {
		cfg = config.DefaultExtractorConfig()
	}
	c := *cfg
	cfg = &c

	return &Extractor{
		config:   cfg,
		tempo:    temporal.NewTempoEstimation(cfg.Tempo),
		envelope: temporal.NewEnvelope(),
		beatGrid: temporal.NewBeatGrid(cfg.Tempo.HopSize, cfg.BeatSearchWindow),
		keys:     tonal.NewKeyEstimator(cfg.Key),
		stft:     spectral.NewSTFT(cfg.WindowSize, cfg.HopSize),
		zcr:      spectral.NewZeroCrossingRate(),
		decoder:  transcode.NewDecoder(nil),
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}
}

// WithDecoder replaces the decoder used by AnalyzeBytes
func (e *Extractor) WithDecoder(decoder *transcode.Decoder) *Extractor {
	e.decoder = decoder
	return e
}

// Analyze extracts features from a mono signal. The input is not modified.
// Degenerate input (empty or silent) yields zero-valued features, not an error.
func (e *Extractor) Analyze(ctx context.Context, samples []float64, sampleRate int) (*AudioAnalysisResult, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	start := time.Now()
	logger := e.logger.WithContext(ctx)
	cfg := e.config

	result := &AudioAnalysisResult{
		SampleRate: sampleRate,
		Waveform:   common.Float64To32(samples),
		Features: AudioFeatures{
			TimeSignature:   4,
			DurationSeconds: float64(len(samples)) / float64(sampleRate),
		},
	}

	// Tempo and beat grid
	tempo := e.tempo.EstimateTempo(samples, sampleRate)
	result.Features.BPM = tempo.BPM
	result.TempoDetected = tempo.Detected

	result.Beats = []BeatMarker{}
	if tempo.Detected {
		env := e.envelope.ComputeRMS(samples, cfg.Tempo.WindowSize, cfg.Tempo.HopSize)
		for _, b := range e.beatGrid.Build(env, sampleRate, tempo.BPM) {
			result.Beats = append(result.Beats, BeatMarker{
				PositionSeconds: b.Position,
				Confidence:      b.Confidence,
				IsDownbeat:      b.IsDownbeat,
				IsPhraseStart:   b.IsPhraseStart,
			})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Key
	key := e.keys.EstimateKey(samples, sampleRate)
	result.Features.Key = key.Key
	result.KeyConfidence = key.Confidence

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Energy and loudness
	energy := temporal.NewEnergy(sampleRate)
	result.Features.Energy = common.Clamp(energy.Overall(samples), 0, 1)
	result.EnergyCurve = energy.Curve(samples, cfg.EnergyCurveScale, cfg.EnergyCurveCeiling)
	result.Features.LoudnessDB = energy.LoudnessDB(samples, cfg.LoudnessFloorDB)
	result.Features.Danceability = e.danceability(result.Beats, result.Features.Energy)

	// Spectral descriptors
	mean := e.stft.MeanSpectrum(samples)
	result.SpectralCentroid = spectral.NewSpectralCentroid(sampleRate).Compute(mean)
	result.SpectralRolloff = spectral.NewSpectralRolloff(sampleRate).Compute(mean, cfg.RolloffThreshold)
	result.ZeroCrossingRate = e.zcr.ComputeNormalized(samples)
	result.FrequencyData = spectral.ByteSpectrum(mean, e.stft.FrameSize(), cfg.SpectrumMinDB, cfg.SpectrumMaxDB)

	logger.Debug("Analysis complete", logging.Fields{
		"bpm":            result.Features.BPM,
		"tempo_detected": result.TempoDetected,
		"key":            result.Features.Key,
		"beats":          len(result.Beats),
		"duration":       result.Features.DurationSeconds,
		"elapsed_ms":     time.Since(start).Milliseconds(),
	})

	return result, nil
}

// AnalyzeFloat32 analyzes 32-bit samples as delivered by most audio APIs
func (e *Extractor) AnalyzeFloat32(ctx context.Context, samples []float32, sampleRate int) (*AudioAnalysisResult, error) {
	return e.Analyze(ctx, common.Float32To64(samples), sampleRate)
}

// AnalyzeBytes decodes an encoded file (WAV, FLAC, MP3) and analyzes it.
// Decode failures are returned as *transcode.DecodeError.
func (e *Extractor) AnalyzeBytes(ctx context.Context, data []byte) (*AudioAnalysisResult, error) {
	audioData, err := e.decoder.DecodeBytes(data)
	if err != nil {
		e.logger.Warn("Could not decode input", logging.Fields{
			"data_size": len(data),
			"error":     err.Error(),
		})
		return nil, err
	}
	return e.Analyze(ctx, audioData.PCM, audioData.SampleRate)
}

// AnalyzeAsync runs Analyze on its own goroutine. The channel delivers exactly
// one Outcome and is then closed.
func (e *Extractor) AnalyzeAsync(ctx context.Context, samples []float64, sampleRate int) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		result, err := e.Analyze(ctx, samples, sampleRate)
		out <- Outcome{Result: result, Err: err}
	}()
	return out
}

// AnalyzeBatch analyzes inputs concurrently, bounded by MaxConcurrency.
// Inputs carrying only encoded Data are decoded on the worker that analyzes them.
// Results are in input order. The first failure cancels the remaining work.
func (e *Extractor) AnalyzeBatch(ctx context.Context, inputs []Input) ([]*AudioAnalysisResult, error) {
	results := make([]*AudioAnalysisResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	if e.config.MaxConcurrency > 0 {
		g.SetLimit(e.config.MaxConcurrency)
	}

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var (
				result *AudioAnalysisResult
				err    error
			)
			if in.Samples == nil && in.Data != nil {
				result, err = e.AnalyzeBytes(gctx, in.Data)
			} else {
				result, err = e.Analyze(gctx, in.Samples, in.SampleRate)
			}
			if err != nil {
				return fmt.Errorf("analyze %s: %w", in.Name, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Debug("Batch analysis complete", logging.Fields{
		"inputs": len(inputs),
	})
	return results, nil
}

func (e *Extractor) danceability(beats []BeatMarker, energy float64) float64 {
	confidences := make([]float64, len(beats))
	for i, b := range beats {
		confidences[i] = b.Confidence
	}

	avg := common.Mean(confidences)
	return common.Clamp(avg*e.config.DanceabilityBeatWeight+energy*e.config.DanceabilityEnergyWeight, 0, 1)
}
