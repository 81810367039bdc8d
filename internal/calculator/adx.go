package calculator

import (
	"math"

	"AShareScope/internal/model"
)

// CalculateADX computes the Average Directional Index over the given
// period: Wilder-smoothed true range and directional movement feed the DI
// lines, DX = 100·|+DI − −DI| / (+DI + −DI), and ADX is the Wilder average
// of DX. Needs 2×period bars: one window to seed the directional values,
// one to smooth DX.
func CalculateADX(bars []model.Bar, period int) (float64, error) {
	if len(bars) < 2*period {
		return 0, insufficient("ADX", 2*period, len(bars))
	}

	n := len(bars)
	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		highDiff := bars[i].High - bars[i-1].High
		lowDiff := bars[i-1].Low - bars[i].Low
		if highDiff > lowDiff && highDiff > 0 {
			plusDM[i] = highDiff
		}
		if lowDiff > highDiff && lowDiff > 0 {
			minusDM[i] = lowDiff
		}
		tr[i] = math.Max(bars[i].High-bars[i].Low,
			math.Max(math.Abs(bars[i].High-bars[i-1].Close), math.Abs(bars[i].Low-bars[i-1].Close)))
	}

	// Seed the smoothed accumulators over the first window.
	var smTR, smPlus, smMinus float64
	for i := 1; i <= period; i++ {
		smTR += tr[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}

	p := float64(period)
	dx := func() float64 {
		if smTR == 0 {
			return 0
		}
		plusDI := 100 * smPlus / smTR
		minusDI := 100 * smMinus / smTR
		if plusDI+minusDI == 0 {
			return 0
		}
		return 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
	}

	// First DX reading, then Wilder-smooth both the accumulators and ADX.
	adx := dx()
	seeded := 1
	for i := period + 1; i < n; i++ {
		smTR = smTR - smTR/p + tr[i]
		smPlus = smPlus - smPlus/p + plusDM[i]
		smMinus = smMinus - smMinus/p + minusDM[i]
		cur := dx()
		if seeded < period {
			// Still averaging the seed window for ADX.
			adx = (adx*float64(seeded) + cur) / float64(seeded+1)
			seeded++
		} else {
			adx = (adx*(p-1) + cur) / p
		}
	}
	return adx, nil
}
