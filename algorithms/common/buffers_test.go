package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircularBuffer_LatestIsChronological(t *testing.T) {
	cb := NewCircularBuffer(4)
	cb.Write([]float64{1, 2, 3})
	cb.Write([]float64{4, 5})


	dst := make([]float64, 3)
	assert.Equal(t, 3, cb.Latest(dst))
	assert.Equal(t, []float64{3, 4, 5}, dst)
}

func TestCircularBuffer_ShortHistoryIsZeroPadded(t *testing.T) {
	cb := NewCircularBuffer(8)
	cb.Write([]float64{7, 8})

	dst := []float64{9, 9, 9, 9}
	assert.Equal(t, 2, cb.Latest(dst))
	assert.Equal(t, []float64{0, 0, 7, 8}, dst)
}

func TestCircularBuffer_OversizedWriteKeepsTail(t *testing.T) {
	cb := NewCircularBuffer(3)
	assert.Equal(t, 3, cb.Write([]float64{1, 2, 3, 4, 5}))

	dst := make([]float64, 3)
	cb.Latest(dst)
	assert.Equal(t, []float64{3, 4, 5}, dst)

	cb.Clear()
	assert.Equal(t, 0, cb.Latest(dst))
	assert.Equal(t, []float64{0, 0, 0}, dst)
	assert.Equal(t, 3, cb.Capacity())
}
