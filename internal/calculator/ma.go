package calculator

// CalculateSMA computes the simple moving average of the last `period`
// values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if len(values) < period {
		return 0, insufficient("SMA", period, len(values))
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// CalculateEMA returns the latest exponential moving average with smoothing
// constant 2/(period+1), seeded by the simple average of the first `period`
// values.
func CalculateEMA(values []float64, period int) (float64, error) {
	if len(values) < period {
		return 0, insufficient(emaName(period), period, len(values))
	}
	series := emaSeries(values, period)
	return series[len(series)-1], nil
}

func emaName(period int) string {
	switch period {
	case 50:
		return "EMA50"
	case 200:
		return "EMA200"
	}
	return "EMA"
}

// emaSeries computes the EMA over values. The returned slice is aligned to
// values; entries before index period-1 are unseeded and must not be read.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	k := 2.0 / float64(period+1)
	sum := 0.0
	for i, v := range values {
		switch {
		case i < period-1:
			sum += v
		case i == period-1:
			sum += v
			out[i] = sum / float64(period)
		default:
			out[i] = (v-out[i-1])*k + out[i-1]
		}
	}
	return out
}
