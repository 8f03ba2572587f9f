package sideinput

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput(t *testing.T) *SideInput {
	t.Helper()
	s, err := New([]Record{
		{Time: time.Unix(100, 0), Signals: []float64{1, 10}},
		{Time: time.Unix(200, 0), Signals: []float64{2, 20}},
		{Time: time.Unix(300, 0), Signals: []float64{3, 30}},
		{Time: time.Unix(500, 0), Signals: []float64{5, 50}},
	})
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyHistory)

	_, err = New([]Record{
		{Time: time.Unix(200, 0), Signals: []float64{1}},
		{Time: time.Unix(100, 0), Signals: []float64{2}},
	})
	assert.ErrorIs(t, err, ErrUnsortedHistory)

	_, err = New([]Record{
		{Time: time.Unix(100, 0), Signals: []float64{1}},
		{Time: time.Unix(100, 0), Signals: []float64{2}},
	})
	assert.ErrorIs(t, err, ErrUnsortedHistory, "duplicate timestamps are not strictly increasing")

	_, err = New([]Record{
		{Time: time.Unix(100, 0), Signals: []float64{1, 2}},
		{Time: time.Unix(200, 0), Signals: []float64{3}},
	})
	assert.ErrorIs(t, err, ErrSignalCountMismatch)

	s := testInput(t)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 2, s.NumSignals())
}

func TestIndex(t *testing.T) {
	t.Parallel()
	s := testInput(t)
	assert.Equal(t, -1, s.Index(time.Unix(50, 0)))
	assert.Equal(t, 0, s.Index(time.Unix(100, 0)))
	assert.Equal(t, 0, s.Index(time.Unix(150, 0)))
	assert.Equal(t, 2, s.Index(time.Unix(450, 0)))
	assert.Equal(t, 3, s.Index(time.Unix(500, 0)))
	assert.Equal(t, 3, s.Index(time.Unix(9000, 0)))
}

func TestIndexSince(t *testing.T) {
	t.Parallel()
	s := testInput(t)
	// sequential walk matches the plain binary search at every step
	prev := -1
	for ts := int64(50); ts <= 600; ts += 25 {
		at := time.Unix(ts, 0)
		got := s.IndexSince(at, prev)
		assert.Equal(t, s.Index(at), got, "timestamp %d", ts)
		prev = got
	}
	// jumping far ahead falls back to the binary search
	assert.Equal(t, 3, s.IndexSince(time.Unix(9000, 0), 0))
}

func TestSignals(t *testing.T) {
	t.Parallel()
	s := testInput(t)
	assert.Equal(t, []float64{2, 20}, s.Signals(1))
	assert.Equal(t, 30.0, s.SignalAt(2, 1))
}
