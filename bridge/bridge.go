// Package bridge exposes the spectral engine as a flat function surface:
// a process-wide engine behind package-level entry points that marshal
// into caller-supplied buffers. Success is a bool, never an error value,
// mirroring the 1/0 convention of the host ABI this package fronts.
package bridge

import (
	"github.com/RyanBlaney/spectral-bridge/algorithms/fourier"
	"github.com/RyanBlaney/spectral-bridge/algorithms/spectral"
	"github.com/RyanBlaney/spectral-bridge/engine"
)

// StatsFields is the minimum length of the GetStats output buffer
const StatsFields = 4

var (
	backend       = fourier.NewHostBackend()
	defaultEngine = engine.New(engine.Config{
		QueueMax: engine.QueueMax,
		RingMax:  engine.RingMax,
		Backend:  backend,
	})
	pg   = spectral.NewPeriodogram(backend)
	stft = spectral.NewSTFT(backend)
)

// Submit enqueues a job for key. Returns false on empty inputs or after
// Shutdown; a full queue drops its oldest pending job instead of rejecting.
func Submit(key, barTime int64, price, wave []float64, windowMin, windowMax, nfft, detrend int, minPeriod, maxPeriod float64, flags int) bool {
	return defaultEngine.Submit(engine.Job{
		Key:       key,
		BarTime:   barTime,
		Price:     price,
		Wave:      wave,
		WindowMin: windowMin,
		WindowMax: windowMax,
		NFFT:      nfft,
		Detrend:   spectral.Detrend(detrend),
		MinPeriod: minPeriod,
		MaxPeriod: maxPeriod,
		Flags:     flags,
	})
}

// TryGetLatest copies the newest result for key into out and returns its
// bar time and sequence number. out must hold at least OutFields values;
// on a miss nothing is written.
func TryGetLatest(key int64, out []float64) (barTime, seq int64, ok bool) {
	if len(out) < engine.OutFields {
		return 0, 0, false
	}
	r, ok := defaultEngine.TryGetLatest(key)
	if !ok {
		return 0, 0, false
	}
	copy(out, r.Out[:])
	return r.Time, r.Seq, true
}

// TryGetByTime copies the first result stamped barTime into out
func TryGetByTime(key, barTime int64, out []float64) (seq int64, ok bool) {
	if len(out) < engine.OutFields {
		return 0, false
	}
	r, ok := defaultEngine.TryGetByTime(key, barTime)
	if !ok {
		return 0, false
	}
	copy(out, r.Out[:])
	return r.Seq, true
}

// TryGetAtIndex copies the result at ring position idx (0 = newest) into out
func TryGetAtIndex(key int64, idx int, out []float64) (barTime, seq int64, ok bool) {
	if len(out) < engine.OutFields {
		return 0, 0, false
	}
	r, ok := defaultEngine.TryGetAtIndex(key, idx)
	if !ok {
		return 0, 0, false
	}
	copy(out, r.Out[:])
	return r.Time, r.Seq, true
}

// GetStats writes (jobs_ok, jobs_drop, last_ms, ring_len) for key into out
func GetStats(key int64, out []float64) bool {
	if len(out) < StatsFields {
		return false
	}
	s, ok := defaultEngine.GetStats(key)
	if !ok {
		return false
	}
	out[0] = float64(s.JobsOK)
	out[1] = float64(s.JobsDrop)
	out[2] = s.LastMS
	out[3] = float64(s.RingLen)
	return true
}

// SetChart binds a chart id to key
func SetChart(key, chartID int64) bool {
	defaultEngine.SetChart(key, chartID)
	return true
}

// TryGetChart reads the chart binding for key
func TryGetChart(key int64) (chartID, seq int64, ok bool) {
	cfg, ok := defaultEngine.TryGetChart(key)
	if !ok {
		return 0, 0, false
	}
	return cfg.ChartID, cfg.Seq, true
}

// Shutdown stops the worker and drops all engine state. Submits after
// Shutdown are rejected.
func Shutdown() bool {
	defaultEngine.Shutdown()
	return true
}

// Periodogram computes a one-shot power spectrum into the caller's freqs and
// pxx buffers. Empty window or scaling strings default to "hann" and
// "density". Returns the number of bins written; false when either buffer is
// too small.
func Periodogram(x []float64, fs float64, window string, nfft, detrend int, onesided bool, scaling string, freqs, pxx []float64) (int, bool) {
	if len(x) == 0 || freqs == nil || pxx == nil {
		return 0, false
	}
	if window == "" {
		window = "hann"
	}
	if scaling == "" {
		scaling = "density"
	}
	res, err := pg.Compute(x, spectral.PeriodogramOptions{
		Fs:       fs,
		Window:   window,
		NFFT:     nfft,
		Detrend:  spectral.Detrend(detrend),
		OneSided: onesided,
		Scaling:  spectral.ScalingFromName(scaling),
	})
	if err != nil {
		return 0, false
	}
	if len(res.Freqs) > len(freqs) || len(res.Power) > len(pxx) {
		return 0, false
	}
	copy(freqs, res.Freqs)
	copy(pxx, res.Power)
	return len(res.Freqs), true
}

// STFT computes a short-time transform into the caller's buffers. zre and
// zim receive the [frequency][segment] matrices flattened row-major.
// Returns (nfreq, nseg); false when any buffer is too small.
func STFT(x []float64, fs float64, window string, nperseg, noverlap, nfft, detrend int, onesided bool, scaling string, freqs, t, zre, zim []float64) (int, int, bool) {
	if len(x) == 0 || freqs == nil || t == nil || zre == nil || zim == nil {
		return 0, 0, false
	}
	if window == "" {
		window = "hann"
	}
	if scaling == "" {
		scaling = "density"
	}
	res, err := stft.Compute(x, spectral.STFTOptions{
		Fs:       fs,
		Window:   window,
		NPerSeg:  nperseg,
		NOverlap: noverlap,
		NFFT:     nfft,
		Detrend:  spectral.Detrend(detrend),
		OneSided: onesided,
		Scaling:  spectral.ScalingFromName(scaling),
	})
	if err != nil {
		return 0, 0, false
	}
	if len(res.Freqs) > len(freqs) || len(res.Times) > len(t) {
		return 0, 0, false
	}
	if res.NFreq*res.NSeg > len(zre) || res.NFreq*res.NSeg > len(zim) {
		return 0, 0, false
	}
	copy(freqs, res.Freqs)
	copy(t, res.Times)
	for k := 0; k < res.NFreq; k++ {
		copy(zre[k*res.NSeg:(k+1)*res.NSeg], res.Real[k])
		copy(zim[k*res.NSeg:(k+1)*res.NSeg], res.Imag[k])
	}
	return res.NFreq, res.NSeg, true
}
