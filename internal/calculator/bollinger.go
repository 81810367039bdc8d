package calculator

import "math"

const bollingerWindow = 20

// CalculateBollinger returns the latest SMA20 midline, the ±2σ bands, and
// the bandwidth (upper−lower)/mid over the trailing 20-bar window.
func CalculateBollinger(closes []float64) (mid, upper, lower, bbw float64, err error) {
	if len(closes) < bollingerWindow {
		return 0, 0, 0, 0, insufficient("Bollinger", bollingerWindow, len(closes))
	}
	window := closes[len(closes)-bollingerWindow:]

	mid, _ = CalculateSMA(closes, bollingerWindow)

	var variance float64
	for _, c := range window {
		variance += (c - mid) * (c - mid)
	}
	// Sample deviation, matching rolling std in the charting convention.
	sigma := math.Sqrt(variance / float64(bollingerWindow-1))

	upper = mid + 2*sigma
	lower = mid - 2*sigma
	if mid != 0 {
		bbw = (upper - lower) / mid
	}
	return mid, upper, lower, bbw, nil
}
