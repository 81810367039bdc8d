package model

// IndicatorSet holds the latest computed technical indicator values for a
// series, plus the previous-bar MACD pair needed for cross detection.
// EMA50/EMA200 are optional: they are only meaningful when the matching
// Has flag is set (the series may be too short to compute them).
type IndicatorSet struct {
	Close float64

	SMA20   float64
	BBUpper float64
	BBLower float64
	BBW     float64

	RSI14 float64

	MACD           float64
	MACDSignal     float64
	MACDHist       float64
	PrevMACD       float64
	PrevMACDSignal float64

	K float64
	D float64
	J float64

	ADX float64

	EMA50     float64
	HasEMA50  bool
	EMA200    float64
	HasEMA200 bool
}
