package spectral

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/spectral-bridge/algorithms/common"
	"github.com/RyanBlaney/spectral-bridge/algorithms/fourier"
	"github.com/RyanBlaney/spectral-bridge/algorithms/windowing"
)

// Scaling selects the normalisation applied to the spectrum
type Scaling int

const (
	ScalingNone Scaling = iota
	// ScalingDensity normalises to power per unit frequency: 1/(fs*sum(w^2))
	ScalingDensity
	// ScalingSpectrum normalises to total power: 1/sum(w)^2
	ScalingSpectrum
)

// ScalingFromName resolves "density"/"spectrum" case-insensitively; anything
// else means no scaling
func ScalingFromName(name string) Scaling {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "density":
		return ScalingDensity
	case "spectrum":
		return ScalingSpectrum
	default:
		return ScalingNone
	}
}

func sqrtInv(v float64) float64 {
	return math.Sqrt(1.0 / v)
}

// scaleFactor computes the per-bin amplitude scale for a window
func scaleFactor(win []float64, fs float64, scaling Scaling) float64 {
	switch scaling {
	case ScalingDensity:
		winpow := floats.Dot(win, win)
		if winpow > 0.0 {
			return sqrtInv(fs * winpow)
		}
	case ScalingSpectrum:
		wsum := floats.Sum(win)
		if wsum != 0.0 {
			return 1.0 / wsum
		}
	}
	return 1.0
}

// PeriodogramOptions configures a one-shot power spectrum estimate
type PeriodogramOptions struct {
	Fs       float64 // sample rate; <= 0 means 1.0
	Window   string  // window name, resolved by the windowing package
	NFFT     int     // requested FFT length; 0 derives it from the input
	Detrend  Detrend
	OneSided bool
	Scaling  Scaling
}

// PeriodogramResult carries the frequency grid, the power vector, and the raw
// complex spectrum the power was derived from (all nfft bins, post-scaling)
type PeriodogramResult struct {
	Freqs    []float64
	Power    []float64
	Spectrum []complex128
	NFFT     int
}

// Periodogram estimates the power spectrum of a real series in one shot
type Periodogram struct {
	backend fourier.Backend
}

// NewPeriodogram creates a periodogram estimator on the given backend
func NewPeriodogram(backend fourier.Backend) *Periodogram {
	return &Periodogram{backend: backend}
}

// Compute runs the estimate. The usable prefix is min(nfft, len(x)) samples
// (the whole input when nfft is 0); the transform length is the next power of two >= max(nfft, nperseg).
func (p *Periodogram) Compute(x []float64, opts PeriodogramOptions) (*PeriodogramResult, error) {
	n := len(x)
	if n == 0 {
		return nil, fmt.Errorf("periodogram: empty input")
	}

	fs := opts.Fs
	if fs <= 0.0 {
		fs = 1.0
	}

	nperseg := n
	if opts.NFFT > 0 && opts.NFFT < n {
		nperseg = opts.NFFT
	}
	nfftEff := opts.NFFT
	if nfftEff < nperseg {
		nfftEff = nperseg
	}
	nfftEff = common.NextPow2(nfftEff)

	win, err := windowing.ByName(opts.Window, nperseg, true)
	if err != nil {
		return nil, err
	}

	buf := make([]complex128, nfftEff)
	loadSegments(x, win, 0, nperseg, nperseg, nfftEff, opts.Detrend, BoundaryNone, 0, buf, 1)

	if err := p.backend.Transform(buf, false); err != nil {
		return nil, err
	}

	if scale := scaleFactor(win, fs, opts.Scaling); scale != 1.0 {
		p.backend.Scale(buf, scale)
	}

	nfreq := nfftEff
	if opts.OneSided {
		nfreq = nfftEff/2 + 1
	}

	freqs := make([]float64, nfreq)
	power := make([]float64, nfreq)
	for k := range nfreq {
		if opts.OneSided {
			freqs[k] = float64(k) * fs / float64(nfftEff)
		} else {
			kk := k
			if k > nfftEff/2 {
				kk = k - nfftEff
			}
			freqs[k] = float64(kk) * fs / float64(nfftEff)
		}
		re := real(buf[k])
		im := imag(buf[k])
		power[k] = re*re + im*im
	}

	if opts.OneSided {
		// Double the interior bins so total energy matches the twosided sum
		last := nfreq - 2
		if nfftEff%2 != 0 {
			last = nfreq - 1
		}
		for k := 1; k <= last; k++ {
			power[k] *= 2.0
		}
	}

	return &PeriodogramResult{
		Freqs:    freqs,
		Power:    power,
		Spectrum: buf,
		NFFT:     nfftEff,
	}, nil
}
