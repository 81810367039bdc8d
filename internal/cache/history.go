package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"AShareScope/internal/model"
)

// ErrCorrupt marks a persisted series file that failed to parse. Callers
// recover by treating the series as empty and overwriting on the next save.
var ErrCorrupt = errors.New("corrupt cache file")

// barRow is the on-disk parquet row. Dates are stored as unix seconds of
// the bar's midnight, rows sorted ascending.
type barRow struct {
	Date     int64   `parquet:"date"`
	Open     float64 `parquet:"open"`
	High     float64 `parquet:"high"`
	Low      float64 `parquet:"low"`
	Close    float64 `parquet:"close"`
	Volume   float64 `parquet:"volume"`
	Turnover float64 `parquet:"turnover,optional"`
}

// HistoryStore persists one parquet file per (kind, symbol, period) under a
// fixed root directory. Writes stage to a temp file and atomically rename,
// so a concurrent reader never observes a torn file.
type HistoryStore struct {
	dir string
}

// NewHistoryStore opens (creating if needed) the store rooted at dir.
func NewHistoryStore(dir string) (*HistoryStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &HistoryStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *HistoryStore) Dir() string { return s.dir }

func (s *HistoryStore) path(kind model.Kind, symbol string, period model.Period) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s_%s.parquet", kind, symbol, period))
}

// Load reads the persisted series, or returns (nil, nil) when none exists.
// A file that fails to parse yields an error wrapping ErrCorrupt.
func (s *HistoryStore) Load(kind model.Kind, symbol string, period model.Period) (*model.Series, error) {
	path := s.path(kind, symbol, period)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	rows, err := parquet.ReadFile[barRow](path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, filepath.Base(path), err)
	}
	series := &model.Series{Symbol: symbol, Period: period, Bars: make([]model.Bar, len(rows))}
	for i, r := range rows {
		series.Bars[i] = model.Bar{
			Date:     model.Day(time.Unix(r.Date, 0)),
			Open:     r.Open,
			High:     r.High,
			Low:      r.Low,
			Close:    r.Close,
			Volume:   r.Volume,
			Turnover: r.Turnover,
		}
	}
	sort.Slice(series.Bars, func(i, j int) bool { return series.Bars[i].Date.Before(series.Bars[j].Date) })
	return series, nil
}

// Save persists the series, replacing any prior file atomically.
func (s *HistoryStore) Save(kind model.Kind, series *model.Series) error {
	if series == nil || len(series.Bars) == 0 {
		return nil
	}
	rows := make([]barRow, len(series.Bars))
	for i, b := range series.Bars {
		rows[i] = barRow{
			Date:     model.Day(b.Date).Unix(),
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			Volume:   b.Volume,
			Turnover: b.Turnover,
		}
	}

	tmp, err := os.CreateTemp(s.dir, ".bars-*.tmp")
	if err != nil {
		return fmt.Errorf("stage cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := parquet.NewGenericWriter[barRow](tmp)
	if _, err := w.Write(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache rows: %w", err)
	}
	if err := w.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("finalize cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(kind, series.Symbol, series.Period)); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// StoreEntry describes one persisted series.
type StoreEntry struct {
	Kind          model.Kind
	Symbol        string
	Period        model.Period
	LastRefreshed time.Time
	Bars          int
}

// Enumerate lists every persisted series with its newest bar date. Corrupt
// files are skipped.
func (s *HistoryStore) Enumerate() ([]StoreEntry, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.parquet"))
	if err != nil {
		return nil, err
	}
	var entries []StoreEntry
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), ".parquet")
		parts := strings.SplitN(name, "_", 3)
		if len(parts) != 3 {
			continue
		}
		kind, symbol, period := model.Kind(parts[0]), parts[1], model.Period(parts[2])
		series, err := s.Load(kind, symbol, period)
		if err != nil || series == nil {
			continue
		}
		entries = append(entries, StoreEntry{
			Kind:          kind,
			Symbol:        symbol,
			Period:        period,
			LastRefreshed: series.LastDate(),
			Bars:          len(series.Bars),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Symbol < entries[j].Symbol })
	return entries, nil
}

// Clear deletes persisted files, optionally scoped to one symbol. Returns
// the number of files removed.
func (s *HistoryStore) Clear(symbol string) (int, error) {
	pattern := "*.parquet"
	if symbol != "" {
		pattern = fmt.Sprintf("*_%s_*.parquet", symbol)
	}
	paths, err := filepath.Glob(filepath.Join(s.dir, pattern))
	if err != nil {
		return 0, err
	}
	count := 0
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			return count, fmt.Errorf("remove %s: %w", filepath.Base(p), err)
		}
		count++
	}
	return count, nil
}
