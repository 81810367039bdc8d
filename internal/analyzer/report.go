package analyzer

import (
	"math"

	"AShareScope/internal/model"
)

// PriceData is the latest-bar readout included in analysis reports.
type PriceData struct {
	CurrentPrice  float64 `json:"current_price"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	ChangePercent float64 `json:"change_percent"`
	Volume        float64 `json:"volume"`
	Turnover      float64 `json:"turnover,omitempty"`
}

// BollingerAnalysis is the band readout with its presentational rating.
type BollingerAnalysis struct {
	Rating   int     `json:"rating"`
	Signal   string  `json:"signal"`
	BBW      float64 `json:"bbw"`
	BBUpper  float64 `json:"bb_upper"`
	BBMiddle float64 `json:"bb_middle"`
	BBLower  float64 `json:"bb_lower"`
}

// TechnicalIndicators is the per-indicator readout with qualitative tags.
type TechnicalIndicators struct {
	RSI           float64  `json:"rsi"`
	RSISignal     string   `json:"rsi_signal"`
	SMA20         float64  `json:"sma20"`
	EMA50         *float64 `json:"ema50,omitempty"`
	EMA200        *float64 `json:"ema200,omitempty"`
	MACD          float64  `json:"macd"`
	MACDSignal    float64  `json:"macd_signal"`
	MACDHist      float64  `json:"macd_hist"`
	MACDCross     string   `json:"macd_cross"`
	ADX           float64  `json:"adx"`
	TrendStrength string   `json:"trend_strength"`
	K             float64  `json:"k"`
	D             float64  `json:"d"`
	J             float64  `json:"j"`
}

// KeyLevels lists support/resistance levels derived from the indicators.
type KeyLevels struct {
	Resistance1 float64  `json:"resistance_1"`
	Resistance2 *float64 `json:"resistance_2,omitempty"`
	Resistance3 float64  `json:"resistance_3"`
	Support1    float64  `json:"support_1"`
	Support2    *float64 `json:"support_2,omitempty"`
}

// StockAnalysis is the full stock_analysis report.
type StockAnalysis struct {
	Symbol     string              `json:"symbol"`
	Name       string              `json:"name"`
	Period     model.Period        `json:"period"`
	Timestamp  string              `json:"timestamp"`
	PriceData  PriceData           `json:"price_data"`
	Bollinger  BollingerAnalysis   `json:"bollinger_analysis"`
	Indicators TechnicalIndicators `json:"technical_indicators"`
	KeyLevels  KeyLevels           `json:"key_levels"`
	Score      *model.Score        `json:"comprehensive_analysis"`
}

// IndexAnalysis is the reduced index_analysis report.
type IndexAnalysis struct {
	Symbol     string       `json:"symbol"`
	Name       string       `json:"name"`
	Period     model.Period `json:"period"`
	Timestamp  string       `json:"timestamp"`
	PriceData  PriceData    `json:"price_data"`
	RSI        float64      `json:"rsi"`
	SMA20      float64      `json:"sma20"`
	BBUpper    float64      `json:"bb_upper"`
	BBLower    float64      `json:"bb_lower"`
	MACD       float64      `json:"macd"`
	MACDSignal float64      `json:"macd_signal"`
}

// bbRating classifies the close against the bands: ±2 past a band, ±1 for
// which side of the midline it sits on.
func bbRating(price, upper, lower, middle float64) (int, string) {
	switch {
	case price > upper:
		return -2, "SELL (overbought)"
	case price < lower:
		return 2, "BUY (oversold)"
	case price > middle:
		return 1, "NEUTRAL (leaning bullish)"
	default:
		return -1, "NEUTRAL (leaning bearish)"
	}
}

func rsiTag(rsi float64) string {
	switch {
	case rsi > 70:
		return "overbought"
	case rsi < 30:
		return "oversold"
	}
	return "neutral"
}

func trendTag(adx float64) string {
	switch {
	case adx > 25:
		return "strong"
	case adx > 20:
		return "moderate"
	}
	return "weak"
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

func ptr(v float64) *float64 { return &v }
