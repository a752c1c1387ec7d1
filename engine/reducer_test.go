package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RyanBlaney/spectral-bridge/algorithms/spectral"
)

func synthSpectrum(freqs, power []float64, phases []float64) *spectral.PeriodogramResult {
	spec := make([]complex128, len(freqs))
	for k := range freqs {
		mag := math.Sqrt(power[k])
		spec[k] = complex(mag*math.Cos(phases[k]), mag*math.Sin(phases[k]))
	}
	return &spectral.PeriodogramResult{Freqs: freqs, Power: power, Spectrum: spec, NFFT: len(freqs)}
}

func TestDominantPeriodsPicksBandPeak(t *testing.T) {
	// bins at periods 32, 16, 8, 4 samples
	freqs := []float64{0, 1.0 / 32, 1.0 / 16, 1.0 / 8, 1.0 / 4}
	power := []float64{9, 1, 5, 2, 7}
	phases := []float64{0, 0.1, 0.8, 0.2, 0.3}

	res := synthSpectrum(freqs, power, phases)

	// band [10, 20] admits only the period-16 bin; the global peak is the
	// period-4 bin (bin 0 is skipped)
	per, phase, perG := dominantPeriods(res, 10, 20)
	assert.InDelta(t, 16.0, per, 1e-12)
	assert.InDelta(t, 0.8, phase, 1e-9)
	assert.InDelta(t, 4.0, perG, 1e-12)
}

func TestDominantPeriodsFirstWinsOnTie(t *testing.T) {
	freqs := []float64{0, 1.0 / 32, 1.0 / 16, 1.0 / 8}
	power := []float64{0, 3, 3, 3}
	phases := []float64{0, 0.5, 1.5, 2.5}

	res := synthSpectrum(freqs, power, phases)

	per, phase, perG := dominantPeriods(res, 2, 64)
	assert.InDelta(t, 32.0, per, 1e-12)
	assert.InDelta(t, 0.5, phase, 1e-9)
	assert.InDelta(t, 32.0, perG, 1e-12)
}

func TestDominantPeriodsEmptyBand(t *testing.T) {
	freqs := []float64{0, 1.0 / 8, 1.0 / 4}
	power := []float64{0, 2, 1}
	phases := []float64{0, 0.4, 0.9}

	res := synthSpectrum(freqs, power, phases)

	per, phase, perG := dominantPeriods(res, 100, 200)
	assert.Equal(t, 0.0, per)
	assert.Equal(t, 0.0, phase)
	assert.InDelta(t, 8.0, perG, 1e-12)
}

func TestDominantPeriodsZeroSpectrum(t *testing.T) {
	freqs := []float64{0, 1.0 / 8, 1.0 / 4}
	power := []float64{0, 0, 0}
	phases := []float64{0, 0, 0}

	res := synthSpectrum(freqs, power, phases)

	per, phase, perG := dominantPeriods(res, 2, 64)
	assert.Equal(t, 0.0, per)
	assert.Equal(t, 0.0, phase)
	assert.Equal(t, 0.0, perG)
}
