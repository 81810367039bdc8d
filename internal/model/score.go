package model

// Recommendation labels for the composite score.
const (
	LabelStrongBullish = "strong-bullish"
	LabelBullish       = "bullish"
	LabelNeutral       = "neutral"
	LabelBearish       = "bearish"
	LabelStrongBearish = "strong-bearish"
)

// Score is the bounded composite signal derived from an IndicatorSet.
type Score struct {
	Value   int      `json:"score"`
	Label   string   `json:"overall"`
	Signals []string `json:"signals"`
}
