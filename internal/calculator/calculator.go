// Package calculator turns an ordered bar series into technical indicator
// values. All functions are pure: same bars in, same values out.
package calculator

import (
	"fmt"

	"AShareScope/internal/model"
)

// InsufficientDataError reports a series shorter than an indicator's
// minimum window. The message names the specific missing requirement.
type InsufficientDataError struct {
	Indicator string
	Required  int
	Have      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: need at least %d bars, have %d", e.Indicator, e.Required, e.Have)
}

func insufficient(indicator string, required, have int) error {
	return &InsufficientDataError{Indicator: indicator, Required: required, Have: have}
}

// Compute evaluates the full indicator set over the series and reports the
// most recent value of each. EMA50/EMA200 are omitted (not fatal) when the
// series is too short; every other indicator's minimum is a hard
// precondition.
func Compute(series *model.Series) (*model.IndicatorSet, error) {
	bars := series.Bars
	closes := series.Closes()

	ind := &model.IndicatorSet{}
	if len(closes) > 0 {
		ind.Close = closes[len(closes)-1]
	}

	sma, upper, lower, bbw, err := CalculateBollinger(closes)
	if err != nil {
		return nil, err
	}
	ind.SMA20, ind.BBUpper, ind.BBLower, ind.BBW = sma, upper, lower, bbw

	rsi, err := CalculateRSI(closes, 14)
	if err != nil {
		return nil, err
	}
	ind.RSI14 = rsi

	macd, err := CalculateMACD(closes)
	if err != nil {
		return nil, err
	}
	ind.MACD, ind.MACDSignal, ind.MACDHist = macd.MACD, macd.Signal, macd.Hist
	ind.PrevMACD, ind.PrevMACDSignal = macd.PrevMACD, macd.PrevSignal

	k, d, j, err := CalculateKDJ(bars)
	if err != nil {
		return nil, err
	}
	ind.K, ind.D, ind.J = k, d, j

	adx, err := CalculateADX(bars, 14)
	if err != nil {
		return nil, err
	}
	ind.ADX = adx

	// Long EMAs are optional: a short series omits them and any signal
	// depending on them is skipped rather than defaulted.
	if ema, err := CalculateEMA(closes, 50); err == nil {
		ind.EMA50, ind.HasEMA50 = ema, true
	}
	if ema, err := CalculateEMA(closes, 200); err == nil {
		ind.EMA200, ind.HasEMA200 = ema, true
	}

	return ind, nil
}
