package fourier

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/spectral-bridge/algorithms/common"
)

// Iterative radix-2 FFT kernels plus a naive DFT fallback for lengths that
// are not a power of two. The batched entry points run the same butterfly
// stages across nseg independent segments stored back to back in one slice,
// matching how the STFT pipeline lays out its frames.

// Transform computes an in-place forward or inverse DFT of data.
// Power-of-two lengths use the radix-2 kernels; any other length falls back
// to the O(N^2) direct transform. The inverse is scaled by 1/N.
func Transform(data []complex128, inverse bool) error {
	n := len(data)
	if n == 0 {
		return fmt.Errorf("transform: empty input")
	}
	if !common.IsPow2(n) {
		dft(data, inverse)
		return nil
	}
	return TransformBatch(data, n, 1, inverse)
}

// TransformBatch computes nseg independent in-place n-point DFTs over
// data[0:n*nseg]. n must be a power of two; the STFT pipeline rounds its
// FFT length up before allocating, so only the scalar path ever needs the
// direct fallback.
func TransformBatch(data []complex128, n, nseg int, inverse bool) error {
	if n <= 0 || nseg <= 0 {
		return fmt.Errorf("transform batch: invalid dimensions n=%d nseg=%d", n, nseg)
	}
	if len(data) < n*nseg {
		return fmt.Errorf("transform batch: buffer holds %d values, need %d", len(data), n*nseg)
	}
	if !common.IsPow2(n) {
		return fmt.Errorf("transform batch: length %d is not a power of two", n)
	}

	bitReverseBatch(data, n, nseg)
	for m := 2; m <= n; m <<= 1 {
		stageBatch(data, n, nseg, m, inverse)
	}

	if inverse {
		Scale(data[:n*nseg], 1.0/float64(n))
	}
	return nil
}

// Scale multiplies every bin by a real scalar. Used for the inverse 1/N
// normalisation and the density/spectrum scaling passes.
func Scale(data []complex128, s float64) {
	for i := range data {
		data[i] = complex(real(data[i])*s, imag(data[i])*s)
	}
}

// bitReverseBatch applies the bit-reversal permutation to each segment
func bitReverseBatch(data []complex128, n, nseg int) {
	bits := common.ILog2(n)
	for seg := 0; seg < nseg; seg++ {
		base := seg * n
		for i := 0; i < n; i++ {
			r := bitrev(uint(i), uint(bits))
			if int(r) > i {
				data[base+i], data[base+int(r)] = data[base+int(r)], data[base+i]
			}
		}
	}
}

func bitrev(x, bits uint) uint {
	var y uint
	for i := uint(0); i < bits; i++ {
		y = (y << 1) | (x & 1)
		x >>= 1
	}
	return y
}

// stageBatch runs one butterfly stage of span m across every segment.
// All butterflies within a stage are independent of each other.
func stageBatch(data []complex128, n, nseg, m int, inverse bool) {
	half := m >> 1
	sign := -2.0
	if inverse {
		sign = 2.0
	}
	for seg := 0; seg < nseg; seg++ {
		base := seg * n
		for k := 0; k < n; k += m {
			for j := 0; j < half; j++ {
				angle := sign * math.Pi * float64(j) / float64(m)
				w := complex(math.Cos(angle), math.Sin(angle))
				a := data[base+k+j]
				t := data[base+k+j+half] * w
				data[base+k+j] = a + t
				data[base+k+j+half] = a - t
			}
		}
	}
}

// dft is the direct O(N^2) transform used when N is not a power of two
func dft(data []complex128, inverse bool) {
	n := len(data)
	sign := -2.0
	if inverse {
		sign = 2.0
	}
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var sum complex128
		for i := 0; i < n; i++ {
			angle := sign * math.Pi * float64(k) * float64(i) / float64(n)
			sum += data[i] * complex(math.Cos(angle), math.Sin(angle))
		}
		if inverse {
			sum = complex(real(sum)/float64(n), imag(sum)/float64(n))
		}
		out[k] = sum
	}
	copy(data, out)
}
