package recorder

// AnalysisRecord is one completed analysis run.
type AnalysisRecord struct {
	Kind          string
	Symbol        string
	Name          string
	Period        string
	Price         float64
	ChangePercent float64
	RSI           float64
	MACD          float64
	ADX           float64
	Score         int
	Label         string
}

// Recorder persists analysis history for later review.
type Recorder interface {
	RecordAnalysis(rec *AnalysisRecord) error
	Close() error
}
