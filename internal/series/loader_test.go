package series

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"AShareScope/internal/cache"
	"AShareScope/internal/model"
	"AShareScope/internal/provider"
)

// Fixed weekday anchor: Friday 2025-06-13.
var friday = time.Date(2025, 6, 13, 0, 0, 0, 0, time.Local)

func newTestLoader(t *testing.T, fetcher BarFetcher) (*Loader, *cache.HistoryStore) {
	t.Helper()
	store, err := cache.NewHistoryStore(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	l := NewLoader(store, fetcher)
	l.now = func() time.Time { return friday }
	return l, store
}

func datesOf(s *model.Series) []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Date
	}
	return out
}

func TestEnsureFresh_EmptyStoreFetchesFullWindow(t *testing.T) {
	mock := &provider.MockFetcher{Bars: provider.GenerateBars(100, 60, friday)}
	l, _ := newTestLoader(t, mock)

	ser, err := l.EnsureFresh(model.KindStock, "600519", model.PeriodDaily, 365)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ser.Bars) != 60 {
		t.Errorf("expected 60 bars, got %d", len(ser.Bars))
	}
	if mock.BarCalls != 1 {
		t.Errorf("expected one provider call, got %d", mock.BarCalls)
	}
	if !ser.LastDate().Equal(friday) {
		t.Errorf("expected newest bar %v, got %v", friday, ser.LastDate())
	}
}

func TestEnsureFresh_FreshCacheSkipsProvider(t *testing.T) {
	mock := &provider.MockFetcher{Bars: provider.GenerateBars(100, 60, friday)}
	l, _ := newTestLoader(t, mock)

	if _, err := l.EnsureFresh(model.KindStock, "600519", model.PeriodDaily, 365); err != nil {
		t.Fatalf("warm-up: %v", err)
	}
	if _, err := l.EnsureFresh(model.KindStock, "600519", model.PeriodDaily, 365); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if mock.BarCalls != 1 {
		t.Errorf("fresh cache should not hit the provider again, calls=%d", mock.BarCalls)
	}
}

func TestEnsureFresh_StaleGapFill(t *testing.T) {
	// Store holds bars through Monday; refreshed on Friday the provider
	// returns Tuesday..Friday. The result covers Monday..Friday, one bar
	// per date, ascending.
	monday := friday.AddDate(0, 0, -4)
	mock := &provider.MockFetcher{Bars: provider.GenerateBars(100, 4, friday)} // Tue..Fri
	l, store := newTestLoader(t, mock)

	seed := &model.Series{Symbol: "600519", Period: model.PeriodDaily, Bars: []model.Bar{
		{Date: monday, Open: 99, High: 101, Low: 98, Close: 100, Volume: 1000},
	}}
	if err := store.Save(model.KindStock, seed); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	ser, err := l.EnsureFresh(model.KindStock, "600519", model.PeriodDaily, 365)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ser.Bars) != 5 {
		t.Fatalf("expected 5 bars Mon..Fri, got %d: %v", len(ser.Bars), datesOf(ser))
	}
	for i := 1; i < len(ser.Bars); i++ {
		if !ser.Bars[i-1].Date.Before(ser.Bars[i].Date) {
			t.Fatalf("dates not strictly ascending: %v", datesOf(ser))
		}
	}
	if !ser.Bars[0].Date.Equal(monday) {
		t.Errorf("oldest persisted bar lost: %v", datesOf(ser))
	}
}

func TestEnsureFresh_ProviderDownServesCached(t *testing.T) {
	monday := friday.AddDate(0, 0, -4)
	mock := &provider.MockFetcher{Err: provider.ErrUnavailable}
	l, store := newTestLoader(t, mock)

	seed := &model.Series{Symbol: "600519", Period: model.PeriodDaily, Bars: []model.Bar{
		{Date: monday, Close: 100},
	}}
	if err := store.Save(model.KindStock, seed); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	ser, err := l.EnsureFresh(model.KindStock, "600519", model.PeriodDaily, 365)
	if err != nil {
		t.Fatalf("stale-but-present should be served, got error: %v", err)
	}
	if len(ser.Bars) != 1 || !ser.Bars[0].Date.Equal(monday) {
		t.Errorf("expected the cached bar back, got %v", datesOf(ser))
	}
}

func TestEnsureFresh_ProviderDownSkipsRewrite(t *testing.T) {
	monday := friday.AddDate(0, 0, -4)
	mock := &provider.MockFetcher{Err: provider.ErrUnavailable}
	l, store := newTestLoader(t, mock)

	seed := &model.Series{Symbol: "600519", Period: model.PeriodDaily, Bars: []model.Bar{
		{Date: monday, Close: 100},
	}}
	if err := store.Save(model.KindStock, seed); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	// Plant an old mtime; a rewrite would replace the file and reset it.
	path := filepath.Join(store.Dir(), "stock_600519_daily.parquet")
	past := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatalf("set mtime: %v", err)
	}

	if _, err := l.EnsureFresh(model.KindStock, "600519", model.PeriodDaily, 365); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !fi.ModTime().Equal(past) {
		t.Error("unchanged series was re-persisted during a failed refresh")
	}
}

func TestEnsureFresh_NoDataAnywhere(t *testing.T) {
	mock := &provider.MockFetcher{} // nil Bars: ErrNoData
	l, _ := newTestLoader(t, mock)

	_, err := l.EnsureFresh(model.KindStock, "600519", model.PeriodDaily, 365)
	if !errors.Is(err, provider.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestEnsureFresh_WindowTrim(t *testing.T) {
	// 120 weekday bars persisted, 60-day window requested: the view is
	// trimmed but the store keeps everything.
	mock := &provider.MockFetcher{Bars: provider.GenerateBars(100, 120, friday)}
	l, store := newTestLoader(t, mock)

	if _, err := l.EnsureFresh(model.KindStock, "600519", model.PeriodDaily, 365); err != nil {
		t.Fatalf("warm-up: %v", err)
	}
	ser, err := l.EnsureFresh(model.KindStock, "600519", model.PeriodDaily, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	windowStart := model.Day(friday).AddDate(0, 0, -60)
	for _, b := range ser.Bars {
		if b.Date.Before(windowStart) {
			t.Fatalf("bar %v outside requested window", b.Date)
		}
	}
	if len(ser.Bars) >= 120 {
		t.Errorf("expected trimmed view, got %d bars", len(ser.Bars))
	}

	persisted, err := store.Load(model.KindStock, "600519", model.PeriodDaily)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(persisted.Bars) != 120 {
		t.Errorf("store must keep the full series, got %d bars", len(persisted.Bars))
	}
}

func TestEnsureFresh_CorruptFileRecovers(t *testing.T) {
	mock := &provider.MockFetcher{Bars: provider.GenerateBars(100, 60, friday)}
	store, err := cache.NewHistoryStore(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	l := NewLoader(store, mock)
	l.now = func() time.Time { return friday }

	path := filepath.Join(store.Dir(), "stock_600519_daily.parquet")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatalf("plant corrupt file: %v", err)
	}

	ser, err := l.EnsureFresh(model.KindStock, "600519", model.PeriodDaily, 365)
	if err != nil {
		t.Fatalf("corrupt file should be refetched, got error: %v", err)
	}
	if len(ser.Bars) != 60 {
		t.Errorf("expected full refetch of 60 bars, got %d", len(ser.Bars))
	}
	// The overwrite repaired the file.
	if _, err := store.Load(model.KindStock, "600519", model.PeriodDaily); err != nil {
		t.Errorf("store still corrupt after refresh: %v", err)
	}
}

func TestMergeBars_Idempotent(t *testing.T) {
	bars := provider.GenerateBars(100, 10, friday)
	once := mergeBars(nil, bars)
	twice := mergeBars(once, bars)
	if len(once) != len(twice) {
		t.Fatalf("idempotence violated: %d vs %d bars", len(once), len(twice))
	}
	for i := range once {
		if !once[i].Date.Equal(twice[i].Date) || once[i].Close != twice[i].Close {
			t.Errorf("bar %d differs after re-merge", i)
		}
	}
}

func TestMergeBars_ExistingWinsExceptNewest(t *testing.T) {
	monday := friday.AddDate(0, 0, -4)
	tuesday := friday.AddDate(0, 0, -3)
	existing := []model.Bar{
		{Date: monday, Close: 100},
		{Date: tuesday, Close: 101},
	}
	fetched := []model.Bar{
		{Date: monday, Close: 999},  // overlap on an older date: ignored
		{Date: tuesday, Close: 150}, // newest existing date: replaced
		{Date: friday, Close: 103},  // genuinely new: appended
	}
	merged := mergeBars(existing, fetched)
	if len(merged) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(merged))
	}
	if merged[0].Close != 100 {
		t.Errorf("older existing bar must win, got close=%v", merged[0].Close)
	}
	if merged[1].Close != 150 {
		t.Errorf("newest existing bar must be replaced, got close=%v", merged[1].Close)
	}
	if merged[2].Close != 103 {
		t.Errorf("new bar missing, got close=%v", merged[2].Close)
	}
}

func TestTradingDaysBetween(t *testing.T) {
	cases := []struct {
		last time.Time
		want int
	}{
		{friday, 0},
		{friday.AddDate(0, 0, -1), 1},  // Thursday
		{friday.AddDate(0, 0, -4), 4},  // Monday
		{friday.AddDate(0, 0, -7), 5},  // previous Friday: weekend skipped
	}
	for _, tc := range cases {
		if got := tradingDaysBetween(tc.last, friday); got != tc.want {
			t.Errorf("tradingDaysBetween(%v): got %d, want %d", tc.last.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestStale(t *testing.T) {
	if stale(friday.AddDate(0, 0, -1), friday) {
		t.Error("one trading day behind should be fresh")
	}
	if !stale(friday.AddDate(0, 0, -4), friday) {
		t.Error("four trading days behind should be stale")
	}
	if !stale(time.Time{}, friday) {
		t.Error("zero time should be stale")
	}
}
