// Package series orchestrates the two-tier history cache: it loads
// persisted bars, decides staleness, fetches only the missing trailing
// range from the provider, merges, persists, and returns a windowed view.
package series

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"AShareScope/internal/cache"
	"AShareScope/internal/model"
	"AShareScope/internal/provider"
)

// staleTradingDays is how many trading days the newest persisted bar may
// lag today before a refresh is forced. It absorbs weekends so a series
// refreshed on Friday stays fresh through Monday.
const staleTradingDays = 2

// BarFetcher is the slice of the provider capability the loader needs.
type BarFetcher interface {
	FetchBars(kind model.Kind, symbol string, period model.Period, start, end time.Time) ([]model.Bar, error)
}

// Loader fills (symbol, period) series from the history store, topping up
// from the provider when stale.
type Loader struct {
	store   *cache.HistoryStore
	fetcher BarFetcher
	now     func() time.Time
}

// NewLoader creates a Loader over the given store and provider.
func NewLoader(store *cache.HistoryStore, fetcher BarFetcher) *Loader {
	return &Loader{store: store, fetcher: fetcher, now: time.Now}
}

// EnsureFresh returns a series for (symbol, period) covering the last
// `days` calendar days, fetching only the gap since the last refresh.
// It fails with provider.ErrNoData when neither cache nor provider yields
// any bars.
func (l *Loader) EnsureFresh(kind model.Kind, symbol string, period model.Period, days int) (*model.Series, error) {
	today := model.Day(l.now())
	windowStart := today.AddDate(0, 0, -days)

	existing, err := l.store.Load(kind, symbol, period)
	if err != nil {
		if !errors.Is(err, cache.ErrCorrupt) {
			return nil, fmt.Errorf("load series %s/%s: %w", symbol, period, err)
		}
		// Corrupt file: treat as empty, refetch the full window and let
		// the save below overwrite it.
		log.Printf("[WARN] corrupt cache for %s/%s, refetching: %v", symbol, period, err)
		existing = nil
	}

	var merged *model.Series
	switch {
	case existing == nil || len(existing.Bars) == 0:
		bars, err := l.fetcher.FetchBars(kind, symbol, period, windowStart, today)
		if err != nil {
			return nil, err
		}
		merged = &model.Series{Symbol: symbol, Period: period, Bars: mergeBars(nil, bars)}
	case stale(existing.LastDate(), today):
		// Refetch from the newest persisted date so a late revision of
		// that final bar is absorbed by the merge rule.
		bars, err := l.fetcher.FetchBars(kind, symbol, period, existing.LastDate(), today)
		if err != nil && !errors.Is(err, provider.ErrNoData) {
			// Stale but present beats absent: keep serving the persisted
			// series when the provider is down.
			log.Printf("[WARN] refresh %s/%s failed, serving cached bars: %v", symbol, period, err)
			bars = nil
		}
		if len(bars) == 0 {
			// Nothing fetched: the persisted set is unchanged, skip the
			// rewrite.
			merged = existing
		} else {
			merged = &model.Series{Symbol: symbol, Period: period, Bars: mergeBars(existing.Bars, bars)}
		}
	default:
		merged = existing
	}

	if len(merged.Bars) == 0 {
		return nil, provider.ErrNoData
	}
	if merged != existing {
		if err := l.store.Save(kind, merged); err != nil {
			return nil, fmt.Errorf("persist series %s/%s: %w", symbol, period, err)
		}
	}
	return trim(merged, windowStart, today), nil
}

// stale reports whether the newest persisted bar lags today by more than
// the trading-day threshold.
func stale(last, today time.Time) bool {
	if last.IsZero() {
		return true
	}
	return tradingDaysBetween(last, today) > staleTradingDays
}

// tradingDaysBetween counts weekdays in (last, today]. Exchange holidays
// are not modeled; a holiday costs at most one redundant no-op fetch.
func tradingDaysBetween(last, today time.Time) int {
	n := 0
	for d := model.Day(last).AddDate(0, 0, 1); !d.After(model.Day(today)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}

// mergeBars folds fetched bars into the existing sequence under the
// append-only rule: an existing date always wins, except the newest
// existing date, where the freshly fetched value replaces it (late
// revisions of the final day). The result is ascending with unique dates;
// merging the same range twice is idempotent.
func mergeBars(existing, fetched []model.Bar) []model.Bar {
	byDate := make(map[time.Time]model.Bar, len(existing)+len(fetched))
	var newest time.Time
	for _, b := range existing {
		d := model.Day(b.Date)
		byDate[d] = b
		if d.After(newest) {
			newest = d
		}
	}
	for _, b := range fetched {
		d := model.Day(b.Date)
		if _, ok := byDate[d]; ok && !d.Equal(newest) {
			continue
		}
		b.Date = d
		byDate[d] = b
	}
	merged := make([]model.Bar, 0, len(byDate))
	for _, b := range byDate {
		merged = append(merged, b)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date.Before(merged[j].Date) })
	return merged
}

// trim returns a copy of s windowed to [start, end]. Persisted data is
// never trimmed, only the returned view.
func trim(s *model.Series, start, end time.Time) *model.Series {
	view := &model.Series{Symbol: s.Symbol, Period: s.Period}
	for _, b := range s.Bars {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		view.Bars = append(view.Bars, b)
	}
	return view
}
