package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRingNewestFirst(t *testing.T) {
	r := newResultRing(4)
	assert.Equal(t, 0, r.Len())

	_, ok := r.At(0)
	assert.False(t, ok)

	for i := int64(1); i <= 3; i++ {
		r.PushFront(Result{Time: i})
	}
	require.Equal(t, 3, r.Len())

	newest, ok := r.At(0)
	require.True(t, ok)
	assert.Equal(t, int64(3), newest.Time)

	oldest, ok := r.At(2)
	require.True(t, ok)
	assert.Equal(t, int64(1), oldest.Time)
}

func TestResultRingEvictsOldest(t *testing.T) {
	r := newResultRing(3)
	for i := int64(1); i <= 5; i++ {
		r.PushFront(Result{Time: i})
	}
	require.Equal(t, 3, r.Len())

	times := make([]int64, 0, 3)
	for i := 0; i < r.Len(); i++ {
		res, ok := r.At(i)
		require.True(t, ok)
		times = append(times, res.Time)
	}
	assert.Equal(t, []int64{5, 4, 3}, times)

	_, ok := r.At(3)
	assert.False(t, ok)
	_, ok = r.At(-1)
	assert.False(t, ok)
}
