package model

import "time"

// Period is the bar aggregation interval.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// Valid reports whether p is one of the supported periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// Kind distinguishes equity series from index series. They come from
// different upstream endpoints and are persisted under different file names.
type Kind string

const (
	KindStock Kind = "stock"
	KindIndex Kind = "index"
)

// Bar is a single OHLCV candlestick. Date is a calendar day; the time of
// day component is always midnight local time.
type Bar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Turnover float64 // turnover rate in percent, 0 when the source lacks it
}

// Series is an ordered bar sequence for one (symbol, period) pair.
// Bars are strictly ascending by date with no duplicates.
type Series struct {
	Symbol string
	Period Period
	Bars   []Bar
}

// LastDate returns the date of the newest bar, or the zero time when empty.
func (s *Series) LastDate() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Date
}

// Closes extracts the close column.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Day truncates t to its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
