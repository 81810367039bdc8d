package strategy

import (
	"testing"

	"AShareScope/internal/model"
)

// neutralSet returns an indicator set where no rule fires.
func neutralSet() *model.IndicatorSet {
	return &model.IndicatorSet{
		Close:          100,
		SMA20:          100,
		BBUpper:        105,
		BBLower:        95,
		RSI14:          50,
		MACD:           0.5,
		MACDSignal:     0.6,
		PrevMACD:       0.5,
		PrevMACDSignal: 0.6,
		K:              50,
		D:              50,
	}
}

func TestEvaluate_Neutral(t *testing.T) {
	score := Evaluate(neutralSet())
	if score.Value != 0 {
		t.Errorf("expected score 0, got %d", score.Value)
	}
	if score.Label != model.LabelNeutral {
		t.Errorf("expected neutral label, got %s", score.Label)
	}
	if score.Signals == nil || len(score.Signals) != 0 {
		t.Errorf("expected empty (non-nil) signals, got %v", score.Signals)
	}
}

func TestEvaluate_OversoldCluster(t *testing.T) {
	ind := neutralSet()
	ind.RSI14 = 25            // +2
	ind.Close = 94            // +2 below lower band
	ind.K = 15                // +1
	ind.MACD = 0.7            // +2 bullish cross
	ind.MACDSignal = 0.6
	ind.PrevMACD = 0.5
	ind.PrevMACDSignal = 0.6

	score := Evaluate(ind)
	if score.Value != 7 {
		t.Errorf("expected score 7, got %d (%v)", score.Value, score.Signals)
	}
	if score.Label != model.LabelStrongBullish {
		t.Errorf("expected strong-bullish, got %s", score.Label)
	}
	if len(score.Signals) != 4 {
		t.Errorf("expected 4 signals, got %v", score.Signals)
	}
}

func TestEvaluate_OverboughtCluster(t *testing.T) {
	ind := neutralSet()
	ind.RSI14 = 75            // -2
	ind.Close = 106           // -2 above upper band
	ind.K = 85                // -1
	ind.MACD = 0.5            // -2 bearish cross
	ind.MACDSignal = 0.6
	ind.PrevMACD = 0.7
	ind.PrevMACDSignal = 0.6

	score := Evaluate(ind)
	if score.Value != -7 {
		t.Errorf("expected score -7, got %d (%v)", score.Value, score.Signals)
	}
	if score.Label != model.LabelStrongBearish {
		t.Errorf("expected strong-bearish, got %s", score.Label)
	}
}

func TestEvaluate_BullAlignmentRequiresBothEMAs(t *testing.T) {
	ind := neutralSet()
	ind.Close = 100
	ind.EMA50 = 98
	ind.EMA200 = 96
	ind.HasEMA50 = true
	// EMA200 missing: the alignment rule must not fire.
	if score := Evaluate(ind); score.Value != 0 {
		t.Errorf("expected 0 with EMA200 absent, got %d", score.Value)
	}
	ind.HasEMA200 = true
	if score := Evaluate(ind); score.Value != 2 {
		t.Errorf("expected +2 with full alignment, got %d", score.Value)
	}
}

func TestEvaluate_MACDCrossNeedsPriorState(t *testing.T) {
	ind := neutralSet()
	// MACD already above signal on both bars: no fresh cross.
	ind.MACD, ind.MACDSignal = 0.7, 0.6
	ind.PrevMACD, ind.PrevMACDSignal = 0.7, 0.6
	if score := Evaluate(ind); score.Value != 0 {
		t.Errorf("expected no cross signal, got %d (%v)", score.Value, score.Signals)
	}
}

func TestEvaluate_Bounds(t *testing.T) {
	sets := []*model.IndicatorSet{
		{},
		{RSI14: 10, K: 5, Close: 1, BBLower: 50, MACD: 1, PrevMACD: -1, PrevMACDSignal: 0},
		{RSI14: 95, K: 95, Close: 200, BBUpper: 100, MACDSignal: 1, PrevMACD: 1},
		neutralSet(),
	}
	for i, ind := range sets {
		score := Evaluate(ind)
		if score.Value < -10 || score.Value > 10 {
			t.Errorf("set %d: score %d out of [-10,10]", i, score.Value)
		}
	}
}

func TestLabelBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{10, model.LabelStrongBullish},
		{4, model.LabelStrongBullish},
		{3, model.LabelBullish},
		{2, model.LabelBullish},
		{1, model.LabelNeutral},
		{0, model.LabelNeutral},
		{-1, model.LabelNeutral},
		{-2, model.LabelBearish},
		{-3, model.LabelBearish},
		{-4, model.LabelStrongBearish},
		{-10, model.LabelStrongBearish},
	}
	for _, tc := range cases {
		if got := labelFor(tc.score); got != tc.want {
			t.Errorf("labelFor(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
