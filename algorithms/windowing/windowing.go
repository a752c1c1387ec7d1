package windowing

import (
	"fmt"
	"math"
	"strings"

	"github.com/RyanBlaney/spectral-bridge/algorithms/common"
)

// Kernel identifies one analysis window family
type Kernel int

const (
	Boxcar Kernel = iota
	Triang
	Parzen
	Bohman
	Blackman
	Nuttall
	BlackmanHarris
	FlatTop
	Bartlett
	Hann
	Tukey
	BartHann
	GeneralHamming
	Hamming
	Kaiser
	Gaussian
	GeneralGaussian
	Cosine
	Exponential
	GeneralCosine
	CosineSum
	Chebyshev
	Taylor
)

// Spec describes a window as a kernel plus its scalar parameters and, for the
// cosine-sum families, an explicit coefficient vector.
type Spec struct {
	Kernel Kernel
	Params []float64
	Coeffs []float64
}

// FromName resolves a window name (case-insensitive, with the usual short
// aliases) to a Spec carrying the default parameters for that family.
// Unrecognised names resolve to Hann.
func FromName(name string) Spec {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "boxcar", "box", "ones", "rect", "rectangular":
		return Spec{Kernel: Boxcar}
	case "triang", "triangle", "tri":
		return Spec{Kernel: Triang}
	case "parzen", "parz", "par":
		return Spec{Kernel: Parzen}
	case "bohman", "bman", "bmn":
		return Spec{Kernel: Bohman}
	case "blackman", "black", "blk":
		return Spec{Kernel: Blackman}
	case "blackmanharris", "blackharr", "bkh":
		return Spec{Kernel: BlackmanHarris}
	case "nuttall", "nutl", "nut":
		return Spec{Kernel: Nuttall}
	case "flattop", "flat", "flt":
		return Spec{Kernel: FlatTop}
	case "bartlett", "bart", "brt":
		return Spec{Kernel: Bartlett}
	case "hann", "hanning", "han":
		return Spec{Kernel: Hann}
	case "hamming", "hamm", "ham":
		return Spec{Kernel: Hamming}
	case "barthann", "brthan", "bth":
		return Spec{Kernel: BartHann}
	case "cosine", "halfcosine":
		return Spec{Kernel: Cosine}
	case "tukey", "tuk":
		return Spec{Kernel: Tukey, Params: []float64{0.5}}
	case "kaiser", "ksr":
		return Spec{Kernel: Kaiser, Params: []float64{0.0}}
	case "gaussian", "gauss", "gss":
		return Spec{Kernel: Gaussian, Params: []float64{1.0}}
	case "general_gaussian", "general gaussian", "general gauss", "general_gauss", "ggs":
		return Spec{Kernel: GeneralGaussian, Params: []float64{1.0, 1.0}}
	case "general_cosine", "general cosine":
		return Spec{Kernel: GeneralCosine}
	case "general_hamming":
		return Spec{Kernel: GeneralHamming, Params: []float64{0.54}}
	case "exponential", "poisson":
		return Spec{Kernel: Exponential, Params: []float64{1.0, -1.0}}
	case "chebwin", "cheb":
		return Spec{Kernel: Chebyshev, Params: []float64{100.0}}
	case "taylor":
		// nbar, sidelobe level in dB, normalise flag
		return Spec{Kernel: Taylor, Params: []float64{4.0, 30.0, 1.0}}
	default:
		return Spec{Kernel: Hann}
	}
}

// ByName generates a window directly from its name
func ByName(name string, m int, periodic bool) ([]float64, error) {
	return Generate(FromName(name), m, periodic)
}

// Generate produces the m real taps of the window described by spec.
// Symmetric windows are generated at the requested length; FFT-periodic
// windows are generated symmetric at length m+1 and truncated to m.
func Generate(spec Spec, m int, periodic bool) ([]float64, error) {
	if m <= 0 {
		return nil, fmt.Errorf("windowing: window length must be positive, got %d", m)
	}

	mx := m
	if periodic {
		mx = m + 1
	}

	var w []float64
	var err error
	switch spec.Kernel {
	case Chebyshev:
		w, err = chebyshev(spec, mx)
	case Taylor:
		w, err = taylor(spec, mx)
	default:
		w, err = evalKernel(spec, mx)
	}
	if err != nil {
		return nil, err
	}

	if periodic {
		w = w[:m]
	}
	return w, nil
}

func param(spec Spec, idx int, fallback float64) float64 {
	if idx < len(spec.Params) {
		return spec.Params[idx]
	}
	return fallback
}

// evalKernel evaluates one of the closed-form kernels at every tap of a
// symmetric length-m window
func evalKernel(spec Spec, m int) ([]float64, error) {
	w := make([]float64, m)
	if m == 1 {
		w[0] = 1.0
		return w, nil
	}

	n := float64(m)
	hlf := (n - 1.0) / 2.0

	for i := range m {
		fi := float64(i)
		ang := 2.0 * math.Pi * fi / (n - 1.0)

		switch spec.Kernel {
		case Boxcar:
			w[i] = 1.0
		case Triang:
			w[i] = 1.0 - math.Abs((fi-hlf)/((n+1.0)/2.0))
		case Parzen:
			x := math.Abs((fi - hlf) / (hlf + 1.0))
			switch {
			case x <= 0.5:
				w[i] = 1.0 - 6.0*x*x + 6.0*x*x*x
			case x <= 1.0:
				w[i] = 2.0 * math.Pow(1.0-x, 3.0)
			default:
				w[i] = 0.0
			}
		case Bohman:
			x := math.Abs((fi - hlf) / hlf)
			w[i] = (1.0-x)*math.Cos(math.Pi*x) + (1.0/math.Pi)*math.Sin(math.Pi*x)
		case Blackman:
			w[i] = 0.42 - 0.5*math.Cos(ang) + 0.08*math.Cos(2.0*ang)
		case Nuttall:
			w[i] = 0.355768 - 0.487396*math.Cos(ang) + 0.144232*math.Cos(2.0*ang) - 0.012604*math.Cos(3.0*ang)
		case BlackmanHarris:
			w[i] = 0.35875 - 0.48829*math.Cos(ang) + 0.14128*math.Cos(2.0*ang) - 0.01168*math.Cos(3.0*ang)
		case FlatTop:
			w[i] = 1.0 - 1.93*math.Cos(ang) + 1.29*math.Cos(2.0*ang) - 0.388*math.Cos(3.0*ang) + 0.0322*math.Cos(4.0*ang)
		case Bartlett:
			w[i] = 1.0 - math.Abs((fi-hlf)/hlf)
		case Hann:
			w[i] = 0.5 - 0.5*math.Cos(ang)
		case Tukey:
			alpha := param(spec, 0, 0.5)
			switch {
			case alpha <= 0.0:
				w[i] = 1.0
			case alpha >= 1.0:
				w[i] = 0.5 - 0.5*math.Cos(ang)
			default:
				edge := alpha * (n - 1.0) / 2.0
				if fi < edge {
					w[i] = 0.5 * (1.0 + math.Cos(math.Pi*(2.0*fi/alpha/(n-1.0)-1.0)))
				} else if fi <= (n-1.0)*(1.0-alpha/2.0) {
					w[i] = 1.0
				} else {
					w[i] = 0.5 * (1.0 + math.Cos(math.Pi*(2.0*fi/alpha/(n-1.0)-2.0/alpha+1.0)))
				}
			}
		case BartHann:
			x := math.Abs((fi - hlf) / hlf)
			w[i] = 0.62 - 0.48*x + 0.38*math.Cos(math.Pi*x)
		case GeneralHamming:
			alpha := param(spec, 0, 0.54)
			w[i] = alpha - (1.0-alpha)*math.Cos(ang)
		case Hamming:
			w[i] = 0.54 - 0.46*math.Cos(ang)
		case Kaiser:
			beta := param(spec, 0, 0.0)
			r := 2.0*fi/(n-1.0) - 1.0
			w[i] = common.BesselI0(beta*math.Sqrt(1.0-r*r)) / common.BesselI0(beta)
		case Gaussian:
			sigma := param(spec, 0, 1.0)
			x := (fi - hlf) / sigma
			w[i] = math.Exp(-0.5 * x * x)
		case GeneralGaussian:
			p := param(spec, 0, 1.0)
			sigma := param(spec, 1, 1.0)
			x := math.Abs((fi - hlf) / sigma)
			w[i] = math.Exp(-0.5 * math.Pow(x, 2.0*p))
		case Cosine:
			w[i] = math.Sin(math.Pi / n * (fi + 0.5))
		case Exponential:
			tau := param(spec, 0, 1.0)
			center := param(spec, 1, -1.0)
			if center < 0.0 {
				center = (n - 1.0) / 2.0
			}
			w[i] = math.Exp(-math.Abs(fi-center) / tau)
		case GeneralCosine:
			delta := 2.0 * math.Pi / (n - 1.0)
			fac := -math.Pi + delta*fi
			temp := 0.0
			for k, c := range spec.Coeffs {
				temp += c * math.Cos(float64(k)*fac)
			}
			w[i] = temp
		case CosineSum:
			// Taylor's cosine expansion with optional central-sample normalisation
			norm := param(spec, 0, 0.0)
			modPi := 2.0 * math.Pi / n
			temp := modPi * (fi - n/2.0 + 0.5)
			dot := 0.0
			for k := 1; k <= len(spec.Coeffs); k++ {
				dot += spec.Coeffs[k-1] * math.Cos(temp*float64(k))
			}
			val := 1.0 + 2.0*dot
			if norm > 0.5 {
				temp2 := modPi * ((n-1.0)/2.0 - n/2.0 + 0.5)
				dot2 := 0.0
				for k := 1; k <= len(spec.Coeffs); k++ {
					dot2 += spec.Coeffs[k-1] * math.Cos(temp2*float64(k))
				}
				val *= 1.0 / (1.0 + 2.0*dot2)
			}
			w[i] = val
		default:
			return nil, fmt.Errorf("windowing: unknown kernel %d", spec.Kernel)
		}
	}

	return w, nil
}
