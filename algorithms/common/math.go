package common

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Shared numeric helpers used across the spectral pipeline

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// BesselI0 computes the zero-order modified Bessel function of the first kind
// via series expansion. Converges quickly for the beta range Kaiser windows use.
func BesselI0(x float64) float64 {
	sum := 1.0
	term := 1.0

	for i := 1; i < 50; i++ {
		term *= (x / (2.0 * float64(i))) * (x / (2.0 * float64(i)))
		sum += term

		if term < 1e-12 {
			break
		}
	}

	return sum
}

// WrapPhase folds an absolute phase difference into [0, pi]
func WrapPhase(d float64) float64 {
	d = math.Abs(d)
	for d > math.Pi {
		d = math.Abs(d - 2.0*math.Pi)
	}
	return d
}

// NextPow2 returns the smallest power of two >= n (n <= 0 yields 1)
func NextPow2(n int) int {
	p := 1
	for p < n && p < (1 << 30) {
		p <<= 1
	}
	return p
}

// IsPow2 reports whether n is a positive power of two
func IsPow2(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// ILog2 returns ceil(log2(n)) for n >= 1
func ILog2(n int) int {
	bits := 0
	for (1 << bits) < n {
		bits++
	}
	return bits
}
