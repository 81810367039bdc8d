// Package analyzer runs the request pipeline: validate symbol, ensure a
// fresh bar series, compute indicators, score, and assemble the report.
package analyzer

import (
	"fmt"
	"log"
	"time"

	"AShareScope/internal/cache"
	"AShareScope/internal/calculator"
	"AShareScope/internal/model"
	"AShareScope/internal/provider"
	"AShareScope/internal/recorder"
	"AShareScope/internal/series"
	"AShareScope/internal/strategy"
)

// Provider is the market-data capability the analyzer consumes. The chain
// of concrete sources satisfies it; tests plug in a mock.
type Provider interface {
	series.BarFetcher
	FetchQuote(symbol string) (*model.Quote, error)
	FetchMovers(direction provider.Direction, limit int) ([]model.Mover, error)
	Search(keyword string) ([]model.SearchResult, error)
	FetchSectorFlow(limit int) ([]model.SectorFlow, error)
	FetchNorthFlow() (*model.NorthFlow, error)
}

// Service owns the cache tiers and runs each request to completion.
type Service struct {
	snapshots *cache.SnapshotCache
	manager   *cache.Manager
	loader    *series.Loader
	provider  Provider
	recorder  recorder.Recorder
}

// New assembles a Service around the given store, provider and recorder.
func New(store *cache.HistoryStore, prov Provider, rec recorder.Recorder) *Service {
	snapshots := cache.NewSnapshotCache()
	return &Service{
		snapshots: snapshots,
		manager:   cache.NewManager(snapshots, store),
		loader:    series.NewLoader(store, prov),
		provider:  prov,
		recorder:  rec,
	}
}

var indexNames = map[string]string{
	"000001": "上证指数",
	"399001": "深证成指",
	"399006": "创业板指",
	"000300": "沪深300",
	"000016": "上证50",
	"000905": "中证500",
}

// AnalyzeStock runs the full technical analysis for one stock.
func (s *Service) AnalyzeStock(symbol string, period model.Period, days int) (*StockAnalysis, error) {
	code, err := ValidateSymbol(symbol)
	if err != nil {
		return nil, err
	}

	ser, err := s.loader.EnsureFresh(model.KindStock, code, period, days)
	if err != nil {
		return nil, err
	}
	ind, err := calculator.Compute(ser)
	if err != nil {
		return nil, err
	}
	score := strategy.Evaluate(ind)

	name := code
	if q, err := s.Quote(code); err == nil && q.Name != "" {
		name = q.Name
	}

	report := s.buildStockReport(code, name, period, ser, ind, score)
	s.record(&recorder.AnalysisRecord{
		Kind:          string(model.KindStock),
		Symbol:        code,
		Name:          name,
		Period:        string(period),
		Price:         report.PriceData.CurrentPrice,
		ChangePercent: report.PriceData.ChangePercent,
		RSI:           ind.RSI14,
		MACD:          ind.MACD,
		ADX:           ind.ADX,
		Score:         score.Value,
		Label:         score.Label,
	})
	return report, nil
}

func (s *Service) buildStockReport(code, name string, period model.Period, ser *model.Series, ind *model.IndicatorSet, score *model.Score) *StockAnalysis {
	last := ser.Bars[len(ser.Bars)-1]
	rating, signal := bbRating(ind.Close, ind.BBUpper, ind.BBLower, ind.SMA20)

	report := &StockAnalysis{
		Symbol:    code,
		Name:      name,
		Period:    period,
		Timestamp: time.Now().Format(time.RFC3339),
		PriceData: priceData(ser),
		Bollinger: BollingerAnalysis{
			Rating:   rating,
			Signal:   signal,
			BBW:      round2(ind.BBW * 100),
			BBUpper:  round2(ind.BBUpper),
			BBMiddle: round2(ind.SMA20),
			BBLower:  round2(ind.BBLower),
		},
		Indicators: TechnicalIndicators{
			RSI:           round2(ind.RSI14),
			RSISignal:     rsiTag(ind.RSI14),
			SMA20:         round2(ind.SMA20),
			MACD:          round4(ind.MACD),
			MACDSignal:    round4(ind.MACDSignal),
			MACDHist:      round4(ind.MACDHist),
			MACDCross:     macdTag(ind),
			ADX:           round2(ind.ADX),
			TrendStrength: trendTag(ind.ADX),
			K:             round2(ind.K),
			D:             round2(ind.D),
			J:             round2(ind.J),
		},
		KeyLevels: KeyLevels{
			Resistance1: round2(ind.SMA20),
			Resistance3: round2(ind.BBUpper),
			Support1:    round2(ind.BBLower),
		},
		Score: score,
	}
	report.PriceData.Turnover = round2(last.Turnover)
	if ind.HasEMA50 {
		report.Indicators.EMA50 = ptr(round2(ind.EMA50))
		report.KeyLevels.Resistance2 = ptr(round2(ind.EMA50))
	}
	if ind.HasEMA200 {
		report.Indicators.EMA200 = ptr(round2(ind.EMA200))
		report.KeyLevels.Support2 = ptr(round2(ind.EMA200))
	}
	return report
}

// AnalyzeIndex runs the reduced analysis (Bollinger, RSI, MACD) for an
// index over the default one-year window.
func (s *Service) AnalyzeIndex(symbol string, period model.Period, days int) (*IndexAnalysis, error) {
	code, err := ValidateSymbol(symbol)
	if err != nil {
		return nil, err
	}

	ser, err := s.loader.EnsureFresh(model.KindIndex, code, period, days)
	if err != nil {
		return nil, err
	}
	closes := ser.Closes()
	sma, upper, lower, _, err := calculator.CalculateBollinger(closes)
	if err != nil {
		return nil, err
	}
	rsi, err := calculator.CalculateRSI(closes, 14)
	if err != nil {
		return nil, err
	}
	macd, err := calculator.CalculateMACD(closes)
	if err != nil {
		return nil, err
	}

	name := code
	if n, ok := indexNames[code]; ok {
		name = n
	}
	report := &IndexAnalysis{
		Symbol:     code,
		Name:       name,
		Period:     period,
		Timestamp:  time.Now().Format(time.RFC3339),
		PriceData:  priceData(ser),
		RSI:        round2(rsi),
		SMA20:      round2(sma),
		BBUpper:    round2(upper),
		BBLower:    round2(lower),
		MACD:       round4(macd.MACD),
		MACDSignal: round4(macd.Signal),
	}
	s.record(&recorder.AnalysisRecord{
		Kind:          string(model.KindIndex),
		Symbol:        code,
		Name:          name,
		Period:        string(period),
		Price:         report.PriceData.CurrentPrice,
		ChangePercent: report.PriceData.ChangePercent,
		RSI:           rsi,
		MACD:          macd.MACD,
	})
	return report, nil
}

// Quote returns the realtime snapshot for a symbol, served from the
// snapshot cache within its 30s TTL.
func (s *Service) Quote(symbol string) (*model.Quote, error) {
	code, err := ValidateSymbol(symbol)
	if err != nil {
		return nil, err
	}
	key := "quote:" + code
	if v, ok := s.snapshots.Get(key); ok {
		return v.(*model.Quote), nil
	}
	q, err := s.provider.FetchQuote(code)
	if err != nil {
		return nil, err
	}
	s.snapshots.Put(key, q, cache.TTLQuote)
	return q, nil
}

// TopMovers returns the gainers or losers ranking.
func (s *Service) TopMovers(direction provider.Direction, limit int) ([]model.Mover, error) {
	key := fmt.Sprintf("movers:%s:%d", direction, limit)
	if v, ok := s.snapshots.Get(key); ok {
		return v.([]model.Mover), nil
	}
	movers, err := s.provider.FetchMovers(direction, limit)
	if err != nil {
		return nil, err
	}
	for i := range movers {
		movers[i].Symbol = NormalizeSymbol(movers[i].Symbol)
	}
	s.snapshots.Put(key, movers, cache.TTLAggregate)
	return movers, nil
}

// Search matches stocks by code or name keyword.
func (s *Service) Search(keyword string) ([]model.SearchResult, error) {
	key := "search:" + keyword
	if v, ok := s.snapshots.Get(key); ok {
		return v.([]model.SearchResult), nil
	}
	results, err := s.provider.Search(keyword)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Symbol = NormalizeSymbol(results[i].Symbol)
	}
	s.snapshots.Put(key, results, cache.TTLAggregate)
	return results, nil
}

// SectorFlow returns the sector fund-flow ranking.
func (s *Service) SectorFlow(limit int) ([]model.SectorFlow, error) {
	key := fmt.Sprintf("sector_flow:%d", limit)
	if v, ok := s.snapshots.Get(key); ok {
		return v.([]model.SectorFlow), nil
	}
	sectors, err := s.provider.FetchSectorFlow(limit)
	if err != nil {
		return nil, err
	}
	s.snapshots.Put(key, sectors, cache.TTLAggregate)
	return sectors, nil
}

// NorthFlow returns the latest northbound capital summary.
func (s *Service) NorthFlow() (*model.NorthFlow, error) {
	key := "north_flow"
	if v, ok := s.snapshots.Get(key); ok {
		return v.(*model.NorthFlow), nil
	}
	nf, err := s.provider.FetchNorthFlow()
	if err != nil {
		return nil, err
	}
	s.snapshots.Put(key, nf, cache.TTLAggregate)
	return nf, nil
}

// CacheStats reports both cache tiers.
func (s *Service) CacheStats() (*cache.Stats, error) {
	return s.manager.Stats()
}

// ClearCache wipes the requested cache tier(s).
func (s *Service) ClearCache(kind, symbol string) (*cache.ClearResult, error) {
	if symbol != "" {
		code, err := ValidateSymbol(symbol)
		if err != nil {
			return nil, err
		}
		symbol = code
	}
	return s.manager.Clear(kind, symbol)
}

func (s *Service) record(rec *recorder.AnalysisRecord) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordAnalysis(rec); err != nil {
		log.Printf("[ERROR] record analysis %s: %v", rec.Symbol, err)
	}
}

// priceData extracts the latest-bar readout, deriving the change percent
// from the previous close.
func priceData(ser *model.Series) PriceData {
	last := ser.Bars[len(ser.Bars)-1]
	pd := PriceData{
		CurrentPrice: round2(last.Close),
		Open:         round2(last.Open),
		High:         round2(last.High),
		Low:          round2(last.Low),
		Volume:       last.Volume,
	}
	if len(ser.Bars) > 1 {
		prev := ser.Bars[len(ser.Bars)-2].Close
		if prev != 0 {
			pd.ChangePercent = round2((last.Close - prev) / prev * 100)
		}
	}
	return pd
}

func macdTag(ind *model.IndicatorSet) string {
	if ind.MACD > ind.MACDSignal {
		return "bullish"
	}
	return "bearish"
}
