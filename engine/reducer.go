package engine

import (
	"math"

	"github.com/RyanBlaney/spectral-bridge/algorithms/common"
	"github.com/RyanBlaney/spectral-bridge/algorithms/spectral"
	"github.com/RyanBlaney/spectral-bridge/logging"
)

// Result vector field indexes
const (
	FieldPeriodPrice = iota
	FieldPeriodPriceGlobal
	FieldPeriodWave
	FieldPeriodWaveGlobal
	FieldPeriodSub
	FieldSyncPct
	FieldDesync
	FieldProgressPrice
	FieldProgressWave
	FieldSyncBars
	FieldPhasePrice
	FieldReserved
)

// dominantPeriods walks the onesided power spectrum tracking two argmaxes:
// the strongest bin whose period falls inside [minPeriod, maxPeriod] and the
// strongest bin with period >= 2 samples. Ties keep the first bin scanned;
// an all-zero spectrum has no peak. Missing peaks report zero period and
// phase.
func dominantPeriods(res *spectral.PeriodogramResult, minPeriod, maxPeriod float64) (per, phase, perGlobal float64) {
	bestLocal := 0.0
	bestGlobal := 0.0
	kLocal := -1
	kGlobal := -1

	for k := 1; k < len(res.Freqs); k++ {
		f := res.Freqs[k]
		if f <= 0.0 {
			continue
		}
		p := 1.0 / f
		if p >= 2.0 && res.Power[k] > bestGlobal {
			bestGlobal = res.Power[k]
			kGlobal = k
		}
		if p >= minPeriod && p <= maxPeriod && res.Power[k] > bestLocal {
			bestLocal = res.Power[k]
			kLocal = k
		}
	}

	if kLocal > 0 {
		per = 1.0 / res.Freqs[kLocal]
		phase = math.Atan2(imag(res.Spectrum[kLocal]), real(res.Spectrum[kLocal]))
	}
	if kGlobal > 0 {
		perGlobal = 1.0 / res.Freqs[kGlobal]
	}
	return per, phase, perGlobal
}

// compute runs one job through the periodogram pair and the synchrony
// reducer. Degenerate inputs yield the zero vector; the caller still
// deposits it.
func (e *Engine) compute(job Job) Result {
	res := Result{Time: job.BarTime}

	n := min(len(job.Price), len(job.Wave))
	if n <= 0 {
		return res
	}
	w := job.WindowMax
	if w > n {
		w = n
	}
	if w < job.WindowMin || w <= 0 {
		return res
	}

	opts := spectral.PeriodogramOptions{
		Fs:       1.0,
		Window:   "hann",
		NFFT:     job.NFFT,
		Detrend:  job.Detrend,
		OneSided: true,
		Scaling:  spectral.ScalingDensity,
	}

	specP, err := e.pg.Compute(job.Price[:w], opts)
	if err != nil {
		e.logger.Warn("price periodogram failed", logging.Fields{"key": job.Key, "err": err.Error()})
		return res
	}
	specW, err := e.pg.Compute(job.Wave[:w], opts)
	if err != nil {
		e.logger.Warn("wave periodogram failed", logging.Fields{"key": job.Key, "err": err.Error()})
		return res
	}

	perP, phP, perPG := dominantPeriods(specP, job.MinPeriod, job.MaxPeriod)
	perW, phW, perWG := dominantPeriods(specW, job.MinPeriod, job.MaxPeriod)

	perSub := 0.0
	if perP > 0.0 {
		perSub = perP * 0.5
	}

	syncPct := 0.0
	dSync := 0.0
	if perP > 0.0 && perW > 0.0 {
		phaseDiff := common.WrapPhase(phP - phW)
		syncPct = 100.0 * (1.0 - phaseDiff/math.Pi)
		if syncPct < 0.0 {
			syncPct = 0.0
		}
		if syncPct > 100.0 {
			syncPct = 100.0
		}
		dSync = 100.0 - syncPct
	}

	progP := 0.0
	if phP > 0.0 {
		progP = phP / (2.0 * math.Pi) * 100.0
	}
	progW := 0.0
	if phW > 0.0 {
		progW = phW / (2.0 * math.Pi) * 100.0
	}

	syncb := math.Floor(math.Abs(perP - perW))

	res.Out[FieldPeriodPrice] = perP
	res.Out[FieldPeriodPriceGlobal] = perPG
	res.Out[FieldPeriodWave] = perW
	res.Out[FieldPeriodWaveGlobal] = perWG
	res.Out[FieldPeriodSub] = perSub
	res.Out[FieldSyncPct] = syncPct
	res.Out[FieldDesync] = dSync
	res.Out[FieldProgressPrice] = progP
	res.Out[FieldProgressWave] = progW
	res.Out[FieldSyncBars] = syncb
	res.Out[FieldPhasePrice] = phP
	res.Out[FieldReserved] = 0.0

	return res
}
