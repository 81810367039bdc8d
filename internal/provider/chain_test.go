package provider

import (
	"errors"
	"testing"
	"time"

	"AShareScope/internal/model"
)

// stubSource wraps a MockFetcher with a distinct name and per-op errors so
// chain tests can tell sources apart.
type stubSource struct {
	MockFetcher
	name string
}

func (s *stubSource) Name() string { return s.name }

func TestChain_FallsBackOnError(t *testing.T) {
	end := time.Date(2025, 6, 13, 0, 0, 0, 0, time.Local)
	primary := &stubSource{name: "primary", MockFetcher: MockFetcher{Err: errors.New("boom")}}
	backup := &stubSource{name: "backup", MockFetcher: MockFetcher{Bars: GenerateBars(100, 10, end)}}
	chain := NewChain(0, primary, backup)

	bars, err := chain.FetchBars(model.KindStock, "600519", model.PeriodDaily, end.AddDate(0, 0, -30), end)
	if err != nil {
		t.Fatalf("expected backup to answer, got %v", err)
	}
	if len(bars) != 10 {
		t.Errorf("expected 10 bars from backup, got %d", len(bars))
	}
	if primary.BarCalls != 1 || backup.BarCalls != 1 {
		t.Errorf("expected one call each, got primary=%d backup=%d", primary.BarCalls, backup.BarCalls)
	}
}

func TestChain_SkipsUnsupported(t *testing.T) {
	primary := &stubSource{name: "primary", MockFetcher: MockFetcher{Err: ErrUnsupported}}
	backup := &stubSource{name: "backup", MockFetcher: MockFetcher{Quote: &model.Quote{Name: "x", Price: 1}}}
	chain := NewChain(0, primary, backup)

	if _, err := chain.FetchQuote("600519"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// ErrUnsupported must not count toward sidelining.
	if !chain.healthy("primary") {
		t.Error("unsupported op marked the source unhealthy")
	}
}

func TestChain_NoDataIsNotFailure(t *testing.T) {
	primary := &stubSource{name: "primary"} // nil Bars: ErrNoData
	backup := &stubSource{name: "backup"}
	chain := NewChain(0, primary, backup)

	end := time.Date(2025, 6, 13, 0, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		_, err := chain.FetchBars(model.KindStock, "600519", model.PeriodDaily, end.AddDate(0, 0, -30), end)
		if !errors.Is(err, ErrNoData) {
			t.Fatalf("expected ErrNoData, got %v", err)
		}
	}
	if !chain.healthy("primary") || !chain.healthy("backup") {
		t.Error("empty results must not sideline a source")
	}
}

func TestChain_SidelinesAfterRepeatedErrors(t *testing.T) {
	primary := &stubSource{name: "primary", MockFetcher: MockFetcher{Err: errors.New("boom")}}
	backup := &stubSource{name: "backup", MockFetcher: MockFetcher{Quote: &model.Quote{Name: "x", Price: 1}}}
	chain := NewChain(0, primary, backup)

	for i := 0; i < maxFailures; i++ {
		if _, err := chain.FetchQuote("600519"); err != nil {
			t.Fatalf("call %d: backup should answer: %v", i, err)
		}
	}
	if chain.healthy("primary") {
		t.Error("primary should be sidelined after repeated errors")
	}

	// The next request skips the sidelined source entirely.
	if _, err := chain.FetchQuote("600519"); err != nil {
		t.Fatalf("backup should answer: %v", err)
	}
	if primary.QuoteCalls != maxFailures {
		t.Errorf("expected sidelined source untouched at %d attempts, got %d",
			maxFailures, primary.QuoteCalls)
	}
}

func TestChain_ExhaustionResetsFailures(t *testing.T) {
	primary := &stubSource{name: "primary", MockFetcher: MockFetcher{Err: errors.New("boom")}}
	backup := &stubSource{name: "backup", MockFetcher: MockFetcher{Err: errors.New("boom too")}}
	chain := NewChain(0, primary, backup)

	for i := 0; i < maxFailures+2; i++ {
		_, err := chain.FetchQuote("600519")
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("call %d: expected ErrUnavailable, got %v", i, err)
		}
	}
	// Counts reset after each full sweep, so every request tried both.
	if primary.QuoteCalls != maxFailures+2 || backup.QuoteCalls != maxFailures+2 {
		t.Errorf("expected all requests to try both sources, got primary=%d backup=%d",
			primary.QuoteCalls, backup.QuoteCalls)
	}
}

func TestChain_Throttle(t *testing.T) {
	source := &stubSource{name: "s", MockFetcher: MockFetcher{Quote: &model.Quote{Name: "x", Price: 1}}}
	chain := NewChain(30*time.Millisecond, source)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := chain.FetchQuote("600519"); err != nil {
			t.Fatalf("quote: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("three requests finished in %v, throttle not applied", elapsed)
	}
}
