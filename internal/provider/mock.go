package provider

import (
	"time"

	"AShareScope/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars       []model.Bar
	Quote      *model.Quote
	Movers     []model.Mover
	Results    []model.SearchResult
	Sectors    []model.SectorFlow
	North      *model.NorthFlow
	Err        error
	BarCalls   int
	QuoteCalls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ model.Kind, _ string, _ model.Period, start, end time.Time) ([]model.Bar, error) {
	m.BarCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars == nil {
		return nil, ErrNoData
	}
	startDay, endDay := model.Day(start), model.Day(end)
	var out []model.Bar
	for _, b := range m.Bars {
		if b.Date.Before(startDay) || b.Date.After(endDay) {
			continue
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

func (m *MockFetcher) FetchQuote(symbol string) (*model.Quote, error) {
	m.QuoteCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Quote == nil {
		return nil, ErrNoData
	}
	q := *m.Quote
	q.Symbol = symbol
	return &q, nil
}

func (m *MockFetcher) FetchMovers(_ Direction, limit int) ([]model.Mover, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Movers) > limit {
		return m.Movers[:limit], nil
	}
	return m.Movers, nil
}

func (m *MockFetcher) Search(string) ([]model.SearchResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results, nil
}

func (m *MockFetcher) FetchSectorFlow(limit int) ([]model.SectorFlow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Sectors) > limit {
		return m.Sectors[:limit], nil
	}
	return m.Sectors, nil
}

func (m *MockFetcher) FetchNorthFlow() (*model.NorthFlow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.North == nil {
		return nil, ErrNoData
	}
	return m.North, nil
}

// GenerateBars produces count consecutive weekday bars ending on end, with
// closes drifting linearly around basePrice. Useful for tests and dev runs.
func GenerateBars(basePrice float64, count int, end time.Time) []model.Bar {
	bars := make([]model.Bar, 0, count)
	day := model.Day(end)
	dates := make([]time.Time, 0, count)
	for len(dates) < count {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, -1)
	}
	for i := count - 1; i >= 0; i-- {
		p := basePrice * (1 + float64(count-1-i-count/2)*0.001)
		bars = append(bars, model.Bar{
			Date:   dates[i],
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
	}
	return bars
}
