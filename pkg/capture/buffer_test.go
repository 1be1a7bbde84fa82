package capture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSampleBufferGrowth checks that capacity doubles and never passes the limit
func TestSampleBufferGrowth(t *testing.T) {
	buf := NewSampleBuffer(4, 10)
	assert.Equal(t, 0, buf.Cap(), "storage should be allocated lazily")

	expectedCaps := []int{4, 4, 4, 4, 8, 8, 8, 8, 10, 10}
	for i, want := range expectedCaps {
		require.NoError(t, buf.Append(i))
		assert.Equal(t, want, buf.Cap(), "capacity after %d appends", i+1)
	}

	assert.Equal(t, 10, buf.Len())
	assert.Equal(t, []Sample{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, buf.Samples())
}

// TestSampleBufferLimit checks that appending past the limit fails without losing data
func TestSampleBufferLimit(t *testing.T) {
	buf := NewSampleBuffer(2, 3)
	for i := 0; i < 3; i++ {
		require.NoError(t, buf.Append(100+i))
	}

	err := buf.Append(999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAllocationFailure))
	assert.Equal(t, []Sample{100, 101, 102}, buf.Samples())
}

// TestSampleBufferClearAndRelease checks both ways of emptying the buffer
func TestSampleBufferClearAndRelease(t *testing.T) {
	buf := NewSampleBuffer(8, 64)
	for i := 0; i < 5; i++ {
		require.NoError(t, buf.Append(i))
	}

	buf.Clear()
	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, 8, buf.Cap(), "clear keeps storage")

	require.NoError(t, buf.Append(7))
	buf.Release()
	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, 0, buf.Cap(), "release drops storage")
	assert.Nil(t, buf.Samples())
}

// TestNewSampleBufferDefaults checks argument normalisation
func TestNewSampleBufferDefaults(t *testing.T) {
	tests := []struct {
		name      string
		initial   int
		max       int
		wantLimit int
		wantFirst int
	}{
		{"defaults", 0, 0, DefaultMaxSamples, 1},
		{"initial above limit", 100, 10, 10, 10},
		{"negative initial", -5, 20, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewSampleBuffer(tt.initial, tt.max)
			assert.Equal(t, tt.wantLimit, buf.Limit())
			require.NoError(t, buf.Append(1))
			assert.Equal(t, tt.wantFirst, buf.Cap())
		})
	}
}
