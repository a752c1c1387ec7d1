package windowing

import (
	"math"
)

// taylor builds a Taylor window of length m. Params are nbar (number of
// near-in sidelobes held at the design level), the sidelobe level in dB,
// and a flag selecting normalisation of the central sample to 1.
// The nbar-1 Fourier coefficients feed the cosine-sum kernel.
func taylor(spec Spec, m int) ([]float64, error) {
	nbar := int(param(spec, 0, 4.0))
	sll := param(spec, 1, 30.0)
	norm := param(spec, 2, 1.0)
	if nbar < 1 {
		nbar = 1
	}

	b := math.Pow(10.0, sll/20.0)
	a := math.Acosh(b) / math.Pi
	s2 := float64(nbar*nbar) / (a*a + (float64(nbar)-0.5)*(float64(nbar)-0.5))

	mcount := nbar - 1
	fm := make([]float64, mcount)
	for mi := range mcount {
		mf := float64(mi + 1)
		numerSign := 1.0
		if mi%2 != 0 {
			numerSign = -1.0
		}
		numer := 1.0
		for k := range mcount {
			mk := float64(k + 1)
			numer *= 1.0 - (mf*mf)/(s2*(a*a+(mk-0.5)*(mk-0.5)))
		}
		denom := 1.0
		for k := 0; k < mi; k++ {
			mk := float64(k + 1)
			denom *= 1.0 - (mf*mf)/(mk*mk)
		}
		for k := mi + 1; k < mcount; k++ {
			mk := float64(k + 1)
			denom *= 1.0 - (mf*mf)/(mk*mk)
		}
		fm[mi] = numerSign * numer / (2.0 * denom)
	}

	return evalKernel(Spec{Kernel: CosineSum, Params: []float64{norm}, Coeffs: fm}, m)
}
