package bridge

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/spectral-bridge/engine"
)

// The bridge fronts one process-wide engine, so the whole surface is
// exercised in order here and Shutdown runs last.
func TestBridgeLifecycle(t *testing.T) {
	t.Run("periodogram", func(t *testing.T) {
		x := []float64{1, 0, 0, 0, 0, 0, 0, 0}
		freqs := make([]float64, 5)
		pxx := make([]float64, 5)

		n, ok := Periodogram(x, 1.0, "boxcar", 0, 0, true, "none", freqs, pxx)
		require.True(t, ok)
		assert.Equal(t, 5, n)
		assert.Equal(t, []float64{1, 2, 2, 2, 1}, pxx)

		// undersized output buffers are rejected
		_, ok = Periodogram(x, 1.0, "boxcar", 0, 0, true, "none", freqs[:2], pxx)
		assert.False(t, ok)
		_, ok = Periodogram(nil, 1.0, "boxcar", 0, 0, true, "none", freqs, pxx)
		assert.False(t, ok)
	})

	t.Run("stft", func(t *testing.T) {
		x := make([]float64, 32)
		for i := range x {
			x[i] = 1.0
		}
		freqs := make([]float64, 5)
		times := make([]float64, 7)
		zre := make([]float64, 5*7)
		zim := make([]float64, 5*7)

		nfreq, nseg, ok := STFT(x, 1.0, "hann", 8, 4, 8, 0, true, "none", freqs, times, zre, zim)
		require.True(t, ok)
		assert.Equal(t, 5, nfreq)
		assert.Equal(t, 7, nseg)
		assert.InDelta(t, 4.0, times[0], 1e-12)
		assert.InDelta(t, 28.0, times[6], 1e-12)

		_, _, ok = STFT(x, 1.0, "hann", 8, 4, 8, 0, true, "none", freqs, times[:3], zre, zim)
		assert.False(t, ok)
		_, _, ok = STFT(x, 1.0, "hann", 8, 4, 8, 0, true, "none", freqs, times, zre[:4], zim)
		assert.False(t, ok)
	})

	t.Run("unknown key leaves output untouched", func(t *testing.T) {
		out := make([]float64, engine.OutFields)
		for i := range out {
			out[i] = -42.0
		}

		_, _, ok := TryGetLatest(404, out)
		assert.False(t, ok)
		_, ok = TryGetByTime(404, 1, out)
		assert.False(t, ok)
		_, _, ok = TryGetAtIndex(404, 0, out)
		assert.False(t, ok)
		assert.False(t, GetStats(404, out))

		for i, v := range out {
			assert.Equal(t, -42.0, v, "out[%d] was written on a miss", i)
		}
	})

	t.Run("undersized result buffers", func(t *testing.T) {
		small := make([]float64, engine.OutFields-1)
		_, _, ok := TryGetLatest(1, small)
		assert.False(t, ok)
		_, ok = TryGetByTime(1, 1, small)
		assert.False(t, ok)
		_, _, ok = TryGetAtIndex(1, 0, small)
		assert.False(t, ok)
		assert.False(t, GetStats(1, make([]float64, StatsFields-1)))
	})

	t.Run("submit and query", func(t *testing.T) {
		x := make([]float64, 256)
		for i := range x {
			x[i] = math.Cos(2.0 * math.Pi * float64(i) / 20.0)
		}
		ok := Submit(1, 5000, x, x, 64, 256, 0, 1, 10, 40, 0)
		require.True(t, ok)

		out := make([]float64, engine.OutFields)
		var barTime, seq int64
		require.Eventually(t, func() bool {
			var got bool
			barTime, seq, got = TryGetLatest(1, out)
			return got
		}, 5*time.Second, 2*time.Millisecond)

		assert.Equal(t, int64(5000), barTime)
		assert.Equal(t, int64(1), seq)
		assert.InDelta(t, 20.0, out[0], 1.0)
		assert.InDelta(t, 100.0, out[5], 1e-9)

		seq2, ok := TryGetByTime(1, 5000, out)
		require.True(t, ok)
		assert.Equal(t, seq, seq2)

		bt, seq3, ok := TryGetAtIndex(1, 0, out)
		require.True(t, ok)
		assert.Equal(t, barTime, bt)
		assert.Equal(t, seq, seq3)

		stats := make([]float64, StatsFields)
		require.True(t, GetStats(1, stats))
		assert.Equal(t, 1.0, stats[0])
		assert.Equal(t, 0.0, stats[1])
		assert.Equal(t, 1.0, stats[3])
	})

	t.Run("submit rejects empty input", func(t *testing.T) {
		assert.False(t, Submit(1, 1, nil, nil, 0, 0, 0, 0, 0, 0, 0))
		assert.False(t, Submit(1, 1, []float64{1}, nil, 0, 0, 0, 0, 0, 0, 0))
	})

	t.Run("chart side channel", func(t *testing.T) {
		require.True(t, SetChart(3, 42))
		chartID, seq, ok := TryGetChart(3)
		require.True(t, ok)
		assert.Equal(t, int64(42), chartID)
		assert.Equal(t, int64(1), seq)

		_, _, ok = TryGetChart(999)
		assert.False(t, ok)
	})

	t.Run("shutdown", func(t *testing.T) {
		require.True(t, Shutdown())

		x := []float64{1, 2, 3, 4}
		assert.False(t, Submit(1, 1, x, x, 1, 4, 0, 0, 2, 4, 0))

		out := make([]float64, engine.OutFields)
		_, _, ok := TryGetLatest(1, out)
		assert.False(t, ok)

		// the direct spectral surface stays usable after engine shutdown
		freqs := make([]float64, 5)
		pxx := make([]float64, 5)
		_, ok = Periodogram([]float64{1, 0, 0, 0, 0, 0, 0, 0}, 1.0, "", 0, 0, true, "none", freqs, pxx)
		assert.True(t, ok)
	})
}
