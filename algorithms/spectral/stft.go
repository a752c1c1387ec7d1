package spectral

import (
	"fmt"

	"github.com/RyanBlaney/spectral-bridge/algorithms/common"
	"github.com/RyanBlaney/spectral-bridge/algorithms/fourier"
	"github.com/RyanBlaney/spectral-bridge/algorithms/windowing"
	"github.com/RyanBlaney/spectral-bridge/logging"
)

// STFTOptions configures a short-time Fourier transform
type STFTOptions struct {
	Fs       float64 // sample rate; <= 0 means 1.0
	Window   string
	NPerSeg  int // segment length; <= 0 uses the whole input
	NOverlap int // overlap between segments; < 0 defaults to NPerSeg/2
	NFFT     int // requested FFT length; 0 derives it from NPerSeg
	Detrend  Detrend
	OneSided bool
	Scaling  Scaling
}

// STFTResult holds the transform output. Real and Imag are laid out
// [frequency][segment]; Times holds each segment's center in seconds.
type STFTResult struct {
	Freqs []float64
	Times []float64
	Real  [][]float64
	Imag  [][]float64
	NSeg  int
	NFreq int
}

// STFT computes batched short-time transforms: every segment is loaded into
// one contiguous buffer and all butterfly stages run across the whole batch.
type STFT struct {
	backend fourier.Backend
	logger  logging.Logger
}

// NewSTFT creates an STFT calculator on the given backend
func NewSTFT(backend fourier.Backend) *STFT {
	return &STFT{
		backend: backend,
		logger:  logging.WithFields(logging.Fields{"component": "stft"}),
	}
}

// Compute runs the transform. Segments start at s*step with
// step = nperseg - noverlap; the last segment never reads past the input.
func (s *STFT) Compute(x []float64, opts STFTOptions) (*STFTResult, error) {
	n := len(x)
	if n == 0 {
		return nil, fmt.Errorf("stft: empty input")
	}

	fs := opts.Fs
	if fs <= 0.0 {
		fs = 1.0
	}

	nperseg := opts.NPerSeg
	if nperseg <= 0 || nperseg > n {
		nperseg = n
	}
	noverlap := opts.NOverlap
	if noverlap < 0 {
		noverlap = nperseg / 2
	}
	if noverlap >= nperseg {
		noverlap = nperseg - 1
	}
	step := nperseg - noverlap
	if step <= 0 {
		return nil, fmt.Errorf("stft: step must be positive")
	}
	nseg := (n - noverlap) / step
	if nseg <= 0 {
		return nil, fmt.Errorf("stft: input too short for nperseg=%d noverlap=%d", nperseg, noverlap)
	}

	nfftEff := opts.NFFT
	if nfftEff < nperseg {
		nfftEff = nperseg
	}
	nfftEff = common.NextPow2(nfftEff)

	nfreq := nfftEff
	if opts.OneSided {
		nfreq = nfftEff/2 + 1
	}

	win, err := windowing.ByName(opts.Window, nperseg, true)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("stft compute", logging.Fields{
		"nseg": nseg, "nperseg": nperseg, "nfft": nfftEff, "step": step,
	})

	buf := make([]complex128, nseg*nfftEff)
	loadSegments(x, win, 0, step, nperseg, nfftEff, opts.Detrend, BoundaryNone, 0, buf, nseg)

	if err := s.backend.TransformBatch(buf, nfftEff, nseg, false); err != nil {
		return nil, err
	}

	if scale := scaleFactor(win, fs, opts.Scaling); scale != 1.0 {
		s.backend.Scale(buf, scale)
	}

	freqs := make([]float64, nfreq)
	for k := range nfreq {
		freqs[k] = float64(k) * fs / float64(nfftEff)
	}

	times := make([]float64, nseg)
	for seg := range nseg {
		times[seg] = (float64(seg*step) + float64(nperseg)/2.0) / fs
	}

	zre := make([][]float64, nfreq)
	zim := make([][]float64, nfreq)
	for k := range nfreq {
		zre[k] = make([]float64, nseg)
		zim[k] = make([]float64, nseg)
		for seg := range nseg {
			v := buf[seg*nfftEff+k]
			zre[k][seg] = real(v)
			zim[k][seg] = imag(v)
		}
	}

	return &STFTResult{
		Freqs: freqs,
		Times: times,
		Real:  zre,
		Imag:  zim,
		NSeg:  nseg,
		NFreq: nfreq,
	}, nil
}
