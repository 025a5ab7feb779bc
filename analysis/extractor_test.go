package analysis

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/RyanBlaney/sonido-mix/analysis/config"
	"github.com/RyanBlaney/sonido-mix/transcode"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 44100

func clickTrack(bpm, seconds float64) []float64 {
	n := int(seconds * testRate)
	out := make([]float64, n)
	period := int(60.0 / bpm * testRate)
	clickLen := int(0.2 * testRate)
	tau := 0.03 * testRate

	for onset := 0; onset < n; onset += period {
		for j := 0; j < clickLen && onset+j < n; j++ {
			out[onset+j] = 0.9 * math.Exp(-float64(j)/tau) * math.Sin(2*math.Pi*1000*float64(j)/testRate)
		}
	}
	return out
}

func sine(freq, seconds float64) []float64 {
	out := make([]float64, int(seconds*testRate))
	for i := range out {
		out[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/testRate)
	}
	return out
}

func TestExtractor_ClickTrack(t *testing.T) {
	result, err := NewExtractor(nil).Analyze(context.Background(), clickTrack(120, 30), testRate)
	require.NoError(t, err)

	assert.True(t, result.TempoDetected)
	assert.InDelta(t, 120, result.Features.BPM, 2)
	assert.Equal(t, 4, result.Features.TimeSignature)
	assert.InDelta(t, 30, result.Features.DurationSeconds, 1e-9)
	assert.NotEmpty(t, result.Features.Key)

	require.NotEmpty(t, result.Beats)
	assert.True(t, result.Beats[0].IsDownbeat)
	assert.True(t, result.Beats[0].IsPhraseStart)
	for _, b := range result.Beats {
		assert.GreaterOrEqual(t, b.Confidence, 0.0)
		assert.LessOrEqual(t, b.Confidence, 1.0)
	}

	assert.GreaterOrEqual(t, result.Features.Energy, 0.0)
	assert.LessOrEqual(t, result.Features.Energy, 1.0)
	assert.Greater(t, result.Features.Danceability, 0.0)
	assert.LessOrEqual(t, result.Features.Danceability, 1.0)

	assert.Len(t, result.EnergyCurve, 30)
	assert.Len(t, result.FrequencyData, 1024)
	assert.Len(t, result.Waveform, 30*testRate)
	assert.Greater(t, result.SpectralCentroid, 500.0)
	assert.Less(t, result.SpectralCentroid, 4000.0)
}

func TestExtractor_SineKey(t *testing.T) {
	result, err := NewExtractor(nil).Analyze(context.Background(), sine(440, 3), testRate)
	require.NoError(t, err)

	assert.Contains(t, []string{"A", "Am"}, result.Features.Key)
	assert.Greater(t, result.KeyConfidence, 0.5)
	assert.False(t, result.TempoDetected)
	assert.Empty(t, result.Beats)
	assert.InDelta(t, 20*math.Log10(0.5/math.Sqrt2), result.Features.LoudnessDB, 0.01)
}

func TestExtractor_Silence(t *testing.T) {
	result, err := NewExtractor(nil).Analyze(context.Background(), make([]float64, testRate*5), testRate)
	require.NoError(t, err)

	assert.False(t, result.TempoDetected)
	assert.Equal(t, 120.0, result.Features.BPM)
	assert.Equal(t, "", result.Features.Key)
	assert.Empty(t, result.Beats)
	assert.Equal(t, 0.0, result.Features.Energy)
	assert.Equal(t, 0.0, result.Features.Danceability)
	assert.Equal(t, -100.0, result.Features.LoudnessDB)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, result.EnergyCurve)
	assert.Equal(t, 0.0, result.SpectralCentroid)
	assert.Equal(t, 0.0, result.ZeroCrossingRate)
}

func TestExtractor_EmptyInput(t *testing.T) {
	result, err := NewExtractor(nil).Analyze(context.Background(), nil, testRate)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Features.DurationSeconds)
	assert.Empty(t, result.Beats)
	assert.Empty(t, result.EnergyCurve)
	assert.Equal(t, "", result.Features.Key)
}

func TestExtractor_InvalidSampleRate(t *testing.T) {
	for _, rate := range []int{0, -44100} {
		_, err := NewExtractor(nil).Analyze(context.Background(), sine(440, 1), rate)
		assert.ErrorIs(t, err, ErrInvalidSampleRate)
	}
}

func TestExtractor_DoesNotMutateInputAndIsRepeatable(t *testing.T) {
	ex := NewExtractor(nil)
	signal := clickTrack(128, 12)
	original := slices.Clone(signal)

	first, err := ex.Analyze(context.Background(), signal, testRate)
	require.NoError(t, err)
	second, err := ex.Analyze(context.Background(), signal, testRate)
	require.NoError(t, err)

	assert.Equal(t, original, signal)
	assert.Equal(t, first, second)
}

func TestExtractor_AnalyzeFloat32(t *testing.T) {
	signal := clickTrack(120, 12)
	f32 := make([]float32, len(signal))
	for i, v := range signal {
		f32[i] = float32(v)
	}

	result, err := NewExtractor(nil).AnalyzeFloat32(context.Background(), f32, testRate)
	require.NoError(t, err)
	assert.InDelta(t, 120, result.Features.BPM, 2)
}

func TestExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor(nil).Analyze(ctx, sine(440, 1), testRate)
	assert.ErrorIs(t, err, context.Canceled)
}

// encodeWAV renders a mono signal to 16-bit WAV bytes via a temp file
func encodeWAV(t *testing.T, signal []float64) []byte {
	t.Helper()

	data := make([]int, len(signal))
	for i, v := range signal {
		data[i] = int(v * 32767)
	}

	path := filepath.Join(t.TempDir(), "clicks.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, testRate, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 1, SampleRate: testRate},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	encoded, err := os.ReadFile(path)
	require.NoError(t, err)
	return encoded
}

func TestExtractor_AnalyzeBytes(t *testing.T) {
	encoded := encodeWAV(t, clickTrack(120, 12))

	result, err := NewExtractor(nil).AnalyzeBytes(context.Background(), encoded)
	require.NoError(t, err)
	assert.InDelta(t, 120, result.Features.BPM, 2)
	assert.Equal(t, testRate, result.SampleRate)
}

func TestExtractor_WithDecoderLimitsDuration(t *testing.T) {
	encoded := encodeWAV(t, clickTrack(120, 12))

	decoder := transcode.NewDecoder(&transcode.DecoderConfig{MaxDuration: 5 * time.Second})
	result, err := NewExtractor(nil).WithDecoder(decoder).AnalyzeBytes(context.Background(), encoded)
	require.NoError(t, err)

	assert.InDelta(t, 5, result.Features.DurationSeconds, 1e-9)
	assert.Len(t, result.EnergyCurve, 5)
}

func TestExtractor_AnalyzeBatchEncoded(t *testing.T) {
	inputs := []Input{
		{Name: "clicks.wav", Data: encodeWAV(t, clickTrack(120, 12))},
		{Name: "tone", Samples: sine(440, 2), SampleRate: testRate},
	}

	results, err := NewExtractor(nil).AnalyzeBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].TempoDetected)
	assert.InDelta(t, 120, results[0].Features.BPM, 2)
	assert.Equal(t, testRate, results[0].SampleRate)
	assert.False(t, results[1].TempoDetected)

	_, err = NewExtractor(nil).AnalyzeBatch(context.Background(), []Input{{Name: "junk.wav", Data: []byte("junk")}})
	assert.ErrorIs(t, err, transcode.ErrDecode)
	assert.Contains(t, err.Error(), "junk.wav")
}

func TestExtractor_AnalyzeBytesCorrupt(t *testing.T) {
	_, err := NewExtractor(nil).AnalyzeBytes(context.Background(), []byte("this is not audio"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, transcode.ErrDecode))

	var decodeErr *transcode.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestExtractor_AnalyzeAsync(t *testing.T) {
	ch := NewExtractor(nil).AnalyzeAsync(context.Background(), clickTrack(120, 12), testRate)

	outcome, ok := <-ch
	require.True(t, ok)
	require.NoError(t, outcome.Err)
	assert.InDelta(t, 120, outcome.Result.Features.BPM, 2)

	_, ok = <-ch
	assert.False(t, ok)
}

func TestExtractor_AnalyzeBatch(t *testing.T) {
	cfg := config.DefaultExtractorConfig()
	cfg.MaxConcurrency = 2
	ex := NewExtractor(cfg)

	inputs := []Input{
		{Name: "a", Samples: clickTrack(120, 12), SampleRate: testRate},
		{Name: "b", Samples: make([]float64, testRate), SampleRate: testRate},
		{Name: "c", Samples: sine(440, 2), SampleRate: testRate},
	}

	results, err := ex.AnalyzeBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].TempoDetected)
	assert.False(t, results[1].TempoDetected)
	assert.Contains(t, []string{"A", "Am"}, results[2].Features.Key)
}

func TestExtractor_AnalyzeBatchFailure(t *testing.T) {
	inputs := []Input{
		{Name: "good", Samples: sine(440, 1), SampleRate: testRate},
		{Name: "broken", Samples: sine(440, 1), SampleRate: 0},
	}

	results, err := NewExtractor(nil).AnalyzeBatch(context.Background(), inputs)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, ErrInvalidSampleRate)
	assert.Contains(t, err.Error(), "broken")
}
