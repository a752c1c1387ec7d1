package windowing

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/spectral-bridge/algorithms/fourier"
)

// chebyshev builds a Dolph-Chebyshev window of length m by evaluating the
// order m-1 Chebyshev polynomial on the frequency grid and transforming back
// to tap space. Params[0] is the attenuation in dB.
func chebyshev(spec Spec, m int) ([]float64, error) {
	if m == 1 {
		return []float64{1.0}, nil
	}

	at := param(spec, 0, 100.0)
	order := float64(m - 1)
	beta := math.Cosh((1.0 / order) * math.Acosh(math.Pow(10.0, math.Abs(at)/20.0)))
	npi := math.Pi / float64(m)
	odd := m%2 != 0

	// T_{m-1}(beta*cos(k*pi/m)); the even-length case carries a half-bin
	// phase rotation so the transform lands on integer taps
	p := make([]complex128, m)
	for i := range m {
		x := beta * math.Cos(float64(i)*npi)
		var re float64
		switch {
		case x > 1.0:
			re = math.Cosh(order * math.Acosh(x))
		case x < -1.0:
			if odd {
				re = math.Cosh(order * math.Acosh(-x))
			} else {
				re = -math.Cosh(order * math.Acosh(-x))
			}
		default:
			re = math.Cos(order * math.Acos(x))
		}
		if odd {
			p[i] = complex(re, 0.0)
		} else {
			ang := float64(i) * npi
			p[i] = complex(re*math.Cos(ang), re*math.Sin(ang))
		}
	}

	if err := fourier.Transform(p, false); err != nil {
		return nil, err
	}

	wfull := make([]float64, m)
	for i := range m {
		wfull[i] = real(p[i])
	}

	// Rearrange the half-spectra into symmetric tap order
	w := make([]float64, m)
	idx := 0
	if odd {
		n := (m + 1) / 2
		for i := n - 1; i >= 1; i-- {
			w[idx] = wfull[i]
			idx++
		}
		for i := 0; i < n; i++ {
			w[idx] = wfull[i]
			idx++
		}
	} else {
		n := m/2 + 1
		for i := n - 1; i >= 1; i-- {
			w[idx] = wfull[i]
			idx++
		}
		for i := 1; i < n; i++ {
			w[idx] = wfull[i]
			idx++
		}
	}

	wmax := math.Max(0.0, floats.Max(w))
	if wmax == 0.0 {
		wmax = 1.0
	}
	floats.Scale(1.0/wmax, w)

	return w, nil
}
