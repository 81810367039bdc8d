package calculator

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
	// macdMinBars is slow + signal: enough history for a stable signal
	// line and a previous reading for cross detection.
	macdMinBars = macdSlow + macdSignal
)

// MACDResult carries the latest MACD line, signal and histogram values,
// plus the previous bar's line/signal pair for cross detection.
type MACDResult struct {
	MACD       float64
	Signal     float64
	Hist       float64
	PrevMACD   float64
	PrevSignal float64
}

// CalculateMACD computes MACD(12,26,9): the difference of the 12- and
// 26-period EMAs of close, with a 9-period EMA of that difference as the
// signal line.
func CalculateMACD(closes []float64) (*MACDResult, error) {
	if len(closes) < macdMinBars {
		return nil, insufficient("MACD", macdMinBars, len(closes))
	}

	fast := emaSeries(closes, macdFast)
	slow := emaSeries(closes, macdSlow)

	// The MACD line exists once the slow EMA is seeded.
	line := make([]float64, 0, len(closes)-macdSlow+1)
	for i := macdSlow - 1; i < len(closes); i++ {
		line = append(line, fast[i]-slow[i])
	}
	signal := emaSeries(line, macdSignal)

	last := len(line) - 1
	res := &MACDResult{
		MACD:       line[last],
		Signal:     signal[last],
		PrevMACD:   line[last-1],
		PrevSignal: signal[last-1],
	}
	res.Hist = res.MACD - res.Signal
	return res, nil
}
