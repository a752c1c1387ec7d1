package fourier

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomComplex(n int, seed int64) []complex128 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]complex128, n)
	for i := range out {
		out[i] = complex(rng.Float64()*2.0-1.0, rng.Float64()*2.0-1.0)
	}
	return out
}

func maxAbs(x []complex128) float64 {
	m := 0.0
	for _, v := range x {
		if a := math.Hypot(real(v), imag(v)); a > m {
			m = a
		}
	}
	return m
}

func TestTransformRoundTrip(t *testing.T) {
	for _, n := range []int{2, 8, 64, 256} {
		x := randomComplex(n, int64(n))
		orig := append([]complex128(nil), x...)

		require.NoError(t, Transform(x, false))
		require.NoError(t, Transform(x, true))

		tol := 1e-9 * maxAbs(orig)
		for i := range x {
			assert.InDelta(t, real(orig[i]), real(x[i]), tol, "n=%d re[%d]", n, i)
			assert.InDelta(t, imag(orig[i]), imag(x[i]), tol, "n=%d im[%d]", n, i)
		}
	}
}

func TestTransformPureTone(t *testing.T) {
	const n = 64
	const k0 = 5
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(math.Cos(2.0*math.Pi*float64(k0)*float64(i)/float64(n)), 0.0)
	}
	require.NoError(t, Transform(x, false))

	// all mass at bins k0 and n-k0, each n/2
	tol := 1e-9 * float64(n) / 2.0
	for k := range x {
		mag := math.Hypot(real(x[k]), imag(x[k]))
		if k == k0 || k == n-k0 {
			assert.InDelta(t, float64(n)/2.0, mag, tol, "bin %d", k)
		} else {
			assert.InDelta(t, 0.0, mag, tol, "bin %d", k)
		}
	}
}

func TestTransformMatchesReference(t *testing.T) {
	// power-of-two goes through the radix-2 kernels, 12 through the naive DFT
	for _, n := range []int{12, 32} {
		x := randomComplex(n, 42+int64(n))
		want := fft.FFT(append([]complex128(nil), x...))

		require.NoError(t, Transform(x, false))

		tol := 1e-9 * maxAbs(want)
		for i := range x {
			assert.InDelta(t, real(want[i]), real(x[i]), tol, "n=%d re[%d]", n, i)
			assert.InDelta(t, imag(want[i]), imag(x[i]), tol, "n=%d im[%d]", n, i)
		}
	}
}

func TestTransformInverseMatchesReference(t *testing.T) {
	for _, n := range []int{12, 16} {
		x := randomComplex(n, 7+int64(n))
		want := fft.IFFT(append([]complex128(nil), x...))

		require.NoError(t, Transform(x, true))

		tol := 1e-9 * (maxAbs(want) + 1.0)
		for i := range x {
			assert.InDelta(t, real(want[i]), real(x[i]), tol)
			assert.InDelta(t, imag(want[i]), imag(x[i]), tol)
		}
	}
}

func TestTransformBatchMatchesScalar(t *testing.T) {
	const n = 16
	const nseg = 3
	batch := randomComplex(n*nseg, 99)
	segments := make([][]complex128, nseg)
	for s := range nseg {
		segments[s] = append([]complex128(nil), batch[s*n:(s+1)*n]...)
	}

	require.NoError(t, TransformBatch(batch, n, nseg, false))

	for s := range nseg {
		require.NoError(t, Transform(segments[s], false))
		for i := range n {
			assert.InDelta(t, real(segments[s][i]), real(batch[s*n+i]), 1e-12)
			assert.InDelta(t, imag(segments[s][i]), imag(batch[s*n+i]), 1e-12)
		}
	}
}

func TestTransformBatchRejectsBadInput(t *testing.T) {
	buf := make([]complex128, 24)
	assert.Error(t, TransformBatch(buf, 12, 2, false), "non-power-of-two length")
	assert.Error(t, TransformBatch(buf, 0, 2, false))
	assert.Error(t, TransformBatch(buf, 16, 2, false), "undersized buffer")
	assert.Error(t, Transform(nil, false))
}

func TestScale(t *testing.T) {
	x := []complex128{complex(2, -4), complex(-1, 3)}
	Scale(x, 0.5)
	assert.Equal(t, complex(1.0, -2.0), x[0])
	assert.Equal(t, complex(-0.5, 1.5), x[1])
}

func TestHostBackend(t *testing.T) {
	be := NewHostBackend()

	x := randomComplex(8, 5)
	orig := append([]complex128(nil), x...)
	require.NoError(t, be.Transform(x, false))
	require.NoError(t, be.Transform(x, true))
	for i := range x {
		assert.InDelta(t, real(orig[i]), real(x[i]), 1e-9)
		assert.InDelta(t, imag(orig[i]), imag(x[i]), 1e-9)
	}

	batch := randomComplex(16, 6)
	require.NoError(t, be.TransformBatch(batch, 8, 2, false))
	be.Scale(batch, 2.0)
}
