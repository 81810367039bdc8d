package recorder

import (
	"path/filepath"
	"testing"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	defer r.Close()

	rec := &AnalysisRecord{
		Kind:          "stock",
		Symbol:        "600519",
		Name:          "贵州茅台",
		Period:        "daily",
		Price:         1700.5,
		ChangePercent: 1.2,
		RSI:           55.3,
		MACD:          2.1,
		ADX:           28.7,
		Score:         4,
		Label:         "strong-bullish",
	}
	if err := r.RecordAnalysis(rec); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := r.RecordAnalysis(rec); err != nil {
		t.Fatalf("second record: %v", err)
	}

	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM analysis_history WHERE symbol = ?`, "600519").Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 rows, got %d", count)
	}

	var label string
	var score int
	err = r.db.QueryRow(`SELECT label, score FROM analysis_history ORDER BY id DESC LIMIT 1`).Scan(&label, &score)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if label != "strong-bullish" || score != 4 {
		t.Errorf("read back label=%q score=%d", label, score)
	}
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoopRecorder()
	if err := r.RecordAnalysis(&AnalysisRecord{Symbol: "600519"}); err != nil {
		t.Errorf("noop record: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("noop close: %v", err)
	}
}
