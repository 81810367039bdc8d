package provider

import (
	"errors"
	"time"

	"AShareScope/internal/model"
)

// Direction selects the sort order of a movers ranking.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

var (
	// ErrNoData means the source answered but has nothing for the request.
	ErrNoData = errors.New("no data found")
	// ErrUnavailable means every configured source failed.
	ErrUnavailable = errors.New("all data sources unavailable")
	// ErrUnsupported means a source does not implement the operation at all.
	// The chain skips such sources without counting a failure.
	ErrUnsupported = errors.New("operation not supported by source")
)

// Source is one concrete upstream market-data endpoint.
type Source interface {
	Name() string
	FetchBars(kind model.Kind, symbol string, period model.Period, start, end time.Time) ([]model.Bar, error)
	FetchQuote(symbol string) (*model.Quote, error)
	FetchMovers(direction Direction, limit int) ([]model.Mover, error)
	Search(keyword string) ([]model.SearchResult, error)
	FetchSectorFlow(limit int) ([]model.SectorFlow, error)
	FetchNorthFlow() (*model.NorthFlow, error)
}
