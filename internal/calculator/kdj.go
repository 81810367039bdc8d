package calculator

import "AShareScope/internal/model"

const (
	kdjWindow = 9
	kdjSmooth = 3
)

// CalculateKDJ computes the KDJ(9,3,3) stochastic oscillator: the raw %K
// over a 9-bar high/low window, recursively smoothed into K and D with
// weight 1/3, and J = 3K − 2D. K and D are seeded at 50.
func CalculateKDJ(bars []model.Bar) (k, d, j float64, err error) {
	if len(bars) < kdjWindow {
		return 0, 0, 0, insufficient("KDJ", kdjWindow, len(bars))
	}

	k, d = 50.0, 50.0
	for i := kdjWindow - 1; i < len(bars); i++ {
		low, high := bars[i].Low, bars[i].High
		for _, b := range bars[i-kdjWindow+1 : i] {
			if b.Low < low {
				low = b.Low
			}
			if b.High > high {
				high = b.High
			}
		}
		rsv := 50.0
		if high != low {
			rsv = 100 * (bars[i].Close - low) / (high - low)
		}
		k = (k*float64(kdjSmooth-1) + rsv) / float64(kdjSmooth)
		d = (d*float64(kdjSmooth-1) + k) / float64(kdjSmooth)
	}
	return k, d, 3*k - 2*d, nil
}
