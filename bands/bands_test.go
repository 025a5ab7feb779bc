package bands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 44100

func flat(n int, level float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = level
	}
	return out
}

func TestFromBytes(t *testing.T) {
	s := FromBytes([]byte{0, 51, 255}, testRate)
	assert.Equal(t, []float64{0, 0.2, 1}, s.Bins)
	assert.Equal(t, testRate, s.SampleRate)
}

func TestFromMagnitudesClamps(t *testing.T) {
	s := FromMagnitudes([]float64{-1, 0.5, 2}, testRate)
	assert.Equal(t, []float64{0, 0.5, 1}, s.Bins)
}

func TestSplit_FullScale(t *testing.T) {
	bands := Split(FromBytes(bytesOf(1024, 255), testRate))

	assert.Equal(t, FrequencyBands{1, 1, 1, 1, 1, 1, 1}, bands)
}

func TestSplit_SingleBassBin(t *testing.T) {
	// bin width 21.53 Hz: bin 5 is ~108 Hz; bass covers bins 2..12
	bins := make([]float64, 1024)
	bins[5] = 1
	bands := Split(Snapshot{Bins: bins, SampleRate: testRate})

	assert.InDelta(t, 1.0/11.0, bands.Bass, 1e-12)
	assert.Equal(t, 0.0, bands.SubBass)
	assert.Equal(t, 0.0, bands.Mids)
}

func TestSplit_Degenerate(t *testing.T) {
	assert.Equal(t, FrequencyBands{}, Split(Snapshot{}))
	assert.Equal(t, FrequencyBands{}, Split(Snapshot{Bins: flat(16, 1), SampleRate: 0}))

	// at 8 kHz the presence and brilliance bands start beyond Nyquist
	bands := Split(Snapshot{Bins: flat(64, 1), SampleRate: 8000})
	assert.Equal(t, 1.0, bands.HighMids)
	assert.Equal(t, 0.0, bands.Presence)
	assert.Equal(t, 0.0, bands.Brilliance)
}

func TestDetectCollisions_SharedHighBins(t *testing.T) {
	a := flat(1024, 0.1)
	b := flat(1024, 0.1)
	for _, i := range []int{10, 20, 30} {
		a[i] = 0.9
		b[i] = 0.9
	}

	collisions := DetectCollisions(Snapshot{a, testRate}, Snapshot{b, testRate}, DefaultCollisionThreshold)
	require.Len(t, collisions, 3)

	width := float64(testRate) / 2 / 1024
	for n, c := range collisions {
		assert.Equal(t, 0.9, c.Severity)
		assert.InDelta(t, float64(10*(n+1))*width, c.FrequencyHz, 1e-9)
	}
}

func TestDetectCollisions_SeverityIsMinimum(t *testing.T) {
	a := Snapshot{Bins: []float64{0.95, 0.6, 0.61}, SampleRate: testRate}
	b := Snapshot{Bins: []float64{0.7, 0.9, 0.4}, SampleRate: testRate}

	collisions := DetectCollisions(a, b, 0.6)
	require.Len(t, collisions, 1)
	assert.Equal(t, 0.7, collisions[0].Severity)
	assert.Equal(t, 0.0, collisions[0].FrequencyHz)
}

func TestDetectCollisions_UnequalLengthsAndEmpty(t *testing.T) {
	a := Snapshot{Bins: []float64{0.9, 0.9, 0.9, 0.9}, SampleRate: 8000}
	b := Snapshot{Bins: []float64{0.9, 0.9}, SampleRate: 8000}

	collisions := DetectCollisions(a, b, 0.5)
	require.Len(t, collisions, 2)
	assert.Equal(t, 1000.0, collisions[1].FrequencyHz)

	assert.Empty(t, DetectCollisions(Snapshot{}, b, 0.5))
}

func TestBalance(t *testing.T) {
	assert.Equal(t, FrequencyBalance{}, Balance(Snapshot{Bins: make([]float64, 1024), SampleRate: testRate}))

	balance := Balance(Snapshot{Bins: flat(1024, 1), SampleRate: testRate})
	assert.InDelta(t, 3.0/7.0, balance.Bass, 1e-12)
	assert.InDelta(t, 2.0/7.0, balance.Mids, 1e-12)
	assert.InDelta(t, 2.0/7.0, balance.Highs, 1e-12)
}

func TestSuggestEQ_Silent(t *testing.T) {
	eq := SuggestEQ(Snapshot{Bins: make([]float64, 1024), SampleRate: testRate}, nil)

	assert.InDelta(t, 4.8, eq.Low.DB, 1e-9)
	assert.InDelta(t, 4.2, eq.Mid.DB, 1e-9)
	assert.InDelta(t, 3.0, eq.High.DB, 1e-9)
	assert.Equal(t, EQTooQuiet, eq.Low.Flag)
	assert.Equal(t, EQTooQuiet, eq.Mid.Flag)
	assert.Equal(t, EQTooQuiet, eq.High.Flag)
}

func TestSuggestEQ_FlatIsBalanced(t *testing.T) {
	eq := SuggestEQ(Snapshot{Bins: flat(1024, 1), SampleRate: testRate}, nil)

	assert.Equal(t, EQBalanced, eq.Low.Flag)
	assert.Equal(t, EQBalanced, eq.Mid.Flag)
	assert.Equal(t, EQBalanced, eq.High.Flag)
	assert.InDelta(t, (0.4-3.0/7.0)*12, eq.Low.DB, 1e-9)
}

func TestSuggestEQ_BassHeavy(t *testing.T) {
	bins := make([]float64, 1024)
	for i := 0; i <= 23; i++ { // up to ~500 Hz
		bins[i] = 1
	}
	target := FrequencyBalance{Bass: 0.2, Mids: 0.4, Highs: 0.4}
	eq := SuggestEQ(Snapshot{Bins: bins, SampleRate: testRate}, &target)

	assert.Equal(t, EQTooLoud, eq.Low.Flag)
	assert.Less(t, eq.Low.DB, -2.0)
	assert.GreaterOrEqual(t, eq.Low.DB, -12.0)
	assert.Equal(t, EQTooQuiet, eq.High.Flag)
}

func TestDominantFrequency(t *testing.T) {
	bins := make([]float64, 1024)
	bins[100] = 0.8
	bins[200] = 0.5
	s := Snapshot{Bins: bins, SampleRate: testRate}

	assert.InDelta(t, 100*float64(testRate)/2048, DominantFrequency(s), 1e-9)
	assert.Equal(t, 0.0, DominantFrequency(Snapshot{Bins: make([]float64, 8), SampleRate: testRate}))
	assert.Equal(t, 0.0, DominantFrequency(Snapshot{}))
}

func TestPureFunctionsAreIdempotent(t *testing.T) {
	a := Snapshot{Bins: flat(512, 0.8), SampleRate: testRate}
	b := Snapshot{Bins: flat(512, 0.7), SampleRate: testRate}

	assert.Equal(t, Split(a), Split(a))
	assert.Equal(t, DetectCollisions(a, b, 0.6), DetectCollisions(a, b, 0.6))
	assert.Equal(t, SuggestEQ(a, nil), SuggestEQ(a, nil))
}

func bytesOf(n int, v byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = v
	}
	return out
}
