// Package strategy combines the latest indicator readings into a bounded
// composite score and a discrete recommendation.
package strategy

import (
	"fmt"

	"AShareScope/internal/model"
)

// Score bounds. No rule combination may push the total past these.
const (
	scoreMin = -10
	scoreMax = 10
)

// rule is one additive scoring condition over the indicator set. A rule
// whose inputs are missing fires nothing and contributes zero.
type rule struct {
	delta int
	match func(*model.IndicatorSet) bool
	label string
}

var rules = []rule{
	{+2, func(i *model.IndicatorSet) bool { return i.RSI14 < 30 }, "RSI oversold"},
	{-2, func(i *model.IndicatorSet) bool { return i.RSI14 > 70 }, "RSI overbought"},
	{+2, macdCrossUp, "MACD bullish cross"},
	{-2, macdCrossDown, "MACD bearish cross"},
	{+2, func(i *model.IndicatorSet) bool { return i.Close < i.BBLower }, "close below lower Bollinger band"},
	{-2, func(i *model.IndicatorSet) bool { return i.Close > i.BBUpper }, "close above upper Bollinger band"},
	{+2, bullAlignment, "bullish MA alignment"},
	{+1, func(i *model.IndicatorSet) bool { return i.K < 20 }, "KDJ oversold"},
	{-1, func(i *model.IndicatorSet) bool { return i.K > 80 }, "KDJ overbought"},
}

// macdCrossUp reports a bullish cross on the last two bars: the MACD line
// closed above the signal line after being at or below it.
func macdCrossUp(i *model.IndicatorSet) bool {
	return i.MACD > i.MACDSignal && i.PrevMACD <= i.PrevMACDSignal
}

func macdCrossDown(i *model.IndicatorSet) bool {
	return i.MACD < i.MACDSignal && i.PrevMACD >= i.PrevMACDSignal
}

// bullAlignment requires both long EMAs to be present; a missing EMA skips
// the signal rather than defaulting it.
func bullAlignment(i *model.IndicatorSet) bool {
	return i.HasEMA50 && i.HasEMA200 && i.Close > i.EMA50 && i.EMA50 > i.EMA200
}

// Evaluate runs the rule table over the latest indicator set and returns
// the clamped composite score with its recommendation label.
func Evaluate(ind *model.IndicatorSet) *model.Score {
	total := 0
	var signals []string
	for _, r := range rules {
		if !r.match(ind) {
			continue
		}
		total += r.delta
		signals = append(signals, fmt.Sprintf("%s (%+d)", r.label, r.delta))
	}
	if total > scoreMax {
		total = scoreMax
	}
	if total < scoreMin {
		total = scoreMin
	}
	if signals == nil {
		signals = []string{}
	}
	return &model.Score{Value: total, Label: labelFor(total), Signals: signals}
}

// labelFor maps a score to its discrete recommendation.
func labelFor(score int) string {
	switch {
	case score >= 4:
		return model.LabelStrongBullish
	case score >= 2:
		return model.LabelBullish
	case score >= -1:
		return model.LabelNeutral
	case score >= -3:
		return model.LabelBearish
	default:
		return model.LabelStrongBearish
	}
}
