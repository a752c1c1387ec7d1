package spectral

// Segment loading for the periodogram and STFT paths: fetch one frame of the
// source series, optionally detrend it, apply the window, and zero-pad into
// the transform buffer. Detrending works off per-segment sufficient
// statistics so the per-sample step stays a pure function, mirroring how the
// batched kernels consume precomputed sums.

// Detrend selects the per-segment trend removal mode
type Detrend int

const (
	DetrendNone Detrend = iota
	DetrendMean
	DetrendLinear
)

// Boundary selects how samples past the ends of the source are synthesised.
// The pipeline itself only uses BoundaryNone today.
type Boundary int

const (
	BoundaryNone Boundary = iota
	BoundaryMirror
	BoundaryReflect
	BoundaryEdge
)

// extendedSample fetches the idx-th sample of the extended series. Indexes
// outside the extension window read as zero.
func extendedSample(x []float64, nedge int, btype Boundary, extValid, idx int) float64 {
	n := len(x)
	if idx < 0 || idx >= extValid {
		return 0.0
	}
	if btype == BoundaryNone || nedge <= 0 {
		return x[idx]
	}
	if idx >= nedge && idx < nedge+n {
		return x[idx-nedge]
	}
	if idx < nedge {
		src := nedge - idx
		if src < 0 {
			src = 0
		}
		if src >= n {
			src = n - 1
		}
		switch btype {
		case BoundaryMirror:
			return x[src]
		case BoundaryReflect:
			return 2.0*x[0] - x[src]
		case BoundaryEdge:
			return x[0]
		}
		return 0.0
	}
	i := idx - (nedge + n)
	src := n - 2 - i
	if src < 0 {
		src = 0
	}
	if src >= n {
		src = n - 1
	}
	switch btype {
	case BoundaryMirror:
		return x[src]
	case BoundaryReflect:
		return 2.0*x[n-1] - x[src]
	case BoundaryEdge:
		return x[n-1]
	}
	return 0.0
}

// segmentSums returns the (sum x, sum i*x) pairs for each of the nseg frames,
// skipping out-of-range samples
func segmentSums(x []float64, start0, step, nperseg, nseg int) []float64 {
	sums := make([]float64, 2*nseg)
	for s := range nseg {
		start := start0 + s*step
		sumX := 0.0
		sumIX := 0.0
		for i := range nperseg {
			idx := start + i
			if idx < 0 || idx >= len(x) {
				continue
			}
			v := x[idx]
			sumX += v
			sumIX += v * float64(i)
		}
		sums[2*s] = sumX
		sums[2*s+1] = sumIX
	}
	return sums
}

// loadSegments fills dst[0:nseg*nfft] with nseg windowed, detrended,
// zero-padded frames of x. Frame s starts at start0 + s*step.
func loadSegments(x, win []float64, start0, step, nperseg, nfft int, detrend Detrend, btype Boundary, nedge int, dst []complex128, nseg int) {
	extValid := len(x)

	// OLS index sums for the closed-form linear fit; indexes run 0..nperseg-1
	np := float64(nperseg)
	sumI := (np - 1.0) * np / 2.0
	sumI2 := (np - 1.0) * np * (2.0*np - 1.0) / 6.0

	var sums []float64
	if detrend != DetrendNone {
		sums = segmentSums(x, start0, step, nperseg, nseg)
	}

	for s := range nseg {
		base := s * nfft
		start := start0 + s*step

		var slope, intercept, mean float64
		if detrend == DetrendMean {
			mean = sums[2*s] / np
		} else if detrend == DetrendLinear {
			s0 := sums[2*s]
			s1 := sums[2*s+1]
			denom := np*sumI2 - sumI*sumI
			if denom != 0.0 {
				slope = (np*s1 - sumI*s0) / denom
			}
			intercept = (s0 - slope*sumI) / np
		}

		for i := range nperseg {
			xi := extendedSample(x, nedge, btype, extValid, start+i)
			switch detrend {
			case DetrendMean:
				xi -= mean
			case DetrendLinear:
				xi -= slope*float64(i) + intercept
			}
			dst[base+i] = complex(xi*win[i], 0.0)
		}
		for i := nperseg; i < nfft; i++ {
			dst[base+i] = 0.0
		}
	}
}
