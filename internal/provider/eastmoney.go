package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"AShareScope/internal/model"
)

// EastMoneyFetcher implements Source against the EastMoney push2 endpoints,
// the primary upstream for A-share data.
type EastMoneyFetcher struct {
	QuoteURL   string // push2 base
	HistoryURL string // push2his base
	SearchURL  string // searchapi base
	DataURL    string // datacenter-web base
	Client     *http.Client
}

// NewEastMoneyFetcher creates a fetcher with optional proxy support.
func NewEastMoneyFetcher(proxyURL string) *EastMoneyFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &EastMoneyFetcher{
		QuoteURL:   "https://push2.eastmoney.com",
		HistoryURL: "https://push2his.eastmoney.com",
		SearchURL:  "https://searchapi.eastmoney.com",
		DataURL:    "https://datacenter-web.eastmoney.com",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *EastMoneyFetcher) Name() string { return "eastmoney" }

// secID maps a 6-digit code to the push2 "market.code" form. Shanghai
// listings (6xx/5xx/9xx stocks, 000xxx/88xxxx indices) are market 1,
// everything else market 0.
func secID(kind model.Kind, symbol string) string {
	market := "0"
	if kind == model.KindIndex {
		if strings.HasPrefix(symbol, "000") || strings.HasPrefix(symbol, "88") {
			market = "1"
		}
	} else if strings.HasPrefix(symbol, "6") || strings.HasPrefix(symbol, "5") || strings.HasPrefix(symbol, "9") {
		market = "1"
	}
	return market + "." + symbol
}

var kltByPeriod = map[model.Period]string{
	model.PeriodDaily:   "101",
	model.PeriodWeekly:  "102",
	model.PeriodMonthly: "103",
}

func (f *EastMoneyFetcher) getJSON(endpoint string, out interface{}) error {
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("eastmoney fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("eastmoney: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("eastmoney decode: %w", err)
	}
	return nil
}

func (f *EastMoneyFetcher) FetchBars(kind model.Kind, symbol string, period model.Period, start, end time.Time) ([]model.Bar, error) {
	klt, ok := kltByPeriod[period]
	if !ok {
		return nil, fmt.Errorf("eastmoney: unknown period %q", period)
	}
	endpoint := fmt.Sprintf(
		"%s/api/qt/stock/kline/get?secid=%s&klt=%s&fqt=1&beg=%s&end=%s&fields1=f1,f2,f3&fields2=f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61",
		f.HistoryURL, secID(kind, symbol), klt,
		start.Format("20060102"), end.Format("20060102"))

	var result struct {
		Data *struct {
			Klines []string `json:"klines"`
		} `json:"data"`
	}
	if err := f.getJSON(endpoint, &result); err != nil {
		return nil, err
	}
	if result.Data == nil || len(result.Data.Klines) == 0 {
		return nil, ErrNoData
	}

	bars := make([]model.Bar, 0, len(result.Data.Klines))
	for _, line := range result.Data.Klines {
		// date,open,close,high,low,volume,amount,amplitude,pct_change,change,turnover
		parts := strings.Split(line, ",")
		if len(parts) < 7 {
			continue
		}
		date, err := time.ParseInLocation("2006-01-02", parts[0], time.Local)
		if err != nil {
			continue
		}
		bar := model.Bar{
			Date:   date,
			Open:   atof(parts[1]),
			Close:  atof(parts[2]),
			High:   atof(parts[3]),
			Low:    atof(parts[4]),
			Volume: atof(parts[5]),
		}
		if len(parts) >= 11 {
			bar.Turnover = atof(parts[10])
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (f *EastMoneyFetcher) FetchQuote(symbol string) (*model.Quote, error) {
	endpoint := fmt.Sprintf(
		"%s/api/qt/stock/get?secid=%s&invt=2&fltt=2&fields=f43,f44,f45,f46,f47,f48,f57,f58,f162,f167,f168,f169,f170",
		f.QuoteURL, secID(model.KindStock, symbol))

	var result struct {
		Data *struct {
			Price    float64 `json:"f43"`
			High     float64 `json:"f44"`
			Low      float64 `json:"f45"`
			Open     float64 `json:"f46"`
			Volume   float64 `json:"f47"`
			Amount   float64 `json:"f48"`
			Code     string  `json:"f57"`
			Name     string  `json:"f58"`
			PERatio  float64 `json:"f162"`
			PBRatio  float64 `json:"f167"`
			Turnover float64 `json:"f168"`
			Change   float64 `json:"f169"`
			ChangePc float64 `json:"f170"`
		} `json:"data"`
	}
	if err := f.getJSON(endpoint, &result); err != nil {
		return nil, err
	}
	if result.Data == nil || result.Data.Name == "" {
		return nil, ErrNoData
	}
	d := result.Data
	return &model.Quote{
		Symbol:        symbol,
		Name:          d.Name,
		Price:         d.Price,
		Change:        d.Change,
		ChangePercent: d.ChangePc,
		Open:          d.Open,
		High:          d.High,
		Low:           d.Low,
		Volume:        d.Volume,
		Amount:        d.Amount,
		Turnover:      d.Turnover,
		PERatio:       d.PERatio,
		PBRatio:       d.PBRatio,
		Timestamp:     time.Now(),
	}, nil
}

// clistRow is one row of the push2 list endpoint shared by movers and
// sector-flow rankings.
type clistRow struct {
	Price      float64 `json:"f2"`
	ChangePc   float64 `json:"f3"`
	Volume     float64 `json:"f5"`
	Amount     float64 `json:"f6"`
	Code       string  `json:"f12"`
	Name       string  `json:"f14"`
	MainInflow float64 `json:"f62"`
	InflowPc   float64 `json:"f184"`
}

func (f *EastMoneyFetcher) fetchCList(fid, fs, fields string, descending bool, limit int) ([]clistRow, error) {
	po := "1"
	if !descending {
		po = "0"
	}
	endpoint := fmt.Sprintf(
		"%s/api/qt/clist/get?pn=1&pz=%d&po=%s&np=1&fltt=2&fid=%s&fs=%s&fields=%s",
		f.QuoteURL, limit, po, fid, url.QueryEscape(fs), fields)

	var result struct {
		Data *struct {
			Diff []clistRow `json:"diff"`
		} `json:"data"`
	}
	if err := f.getJSON(endpoint, &result); err != nil {
		return nil, err
	}
	if result.Data == nil || len(result.Data.Diff) == 0 {
		return nil, ErrNoData
	}
	return result.Data.Diff, nil
}

// aShareFS selects all A-share boards (SH main, SZ main, ChiNext, STAR).
const aShareFS = "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23"

func (f *EastMoneyFetcher) FetchMovers(direction Direction, limit int) ([]model.Mover, error) {
	rows, err := f.fetchCList("f3", aShareFS, "f2,f3,f5,f6,f12,f14", direction == DirectionUp, limit)
	if err != nil {
		return nil, err
	}
	movers := make([]model.Mover, 0, len(rows))
	for _, r := range rows {
		movers = append(movers, model.Mover{
			Symbol:        r.Code,
			Name:          r.Name,
			Price:         r.Price,
			ChangePercent: r.ChangePc,
			Volume:        r.Volume,
			Amount:        r.Amount,
		})
	}
	return movers, nil
}

func (f *EastMoneyFetcher) Search(keyword string) ([]model.SearchResult, error) {
	endpoint := fmt.Sprintf("%s/api/suggest/get?input=%s&type=14&count=20",
		f.SearchURL, url.QueryEscape(keyword))

	var result struct {
		QuotationCodeTable struct {
			Data []struct {
				Code string `json:"Code"`
				Name string `json:"Name"`
			} `json:"Data"`
		} `json:"QuotationCodeTable"`
	}
	if err := f.getJSON(endpoint, &result); err != nil {
		return nil, err
	}
	if len(result.QuotationCodeTable.Data) == 0 {
		return nil, ErrNoData
	}
	results := make([]model.SearchResult, 0, len(result.QuotationCodeTable.Data))
	for _, d := range result.QuotationCodeTable.Data {
		results = append(results, model.SearchResult{Symbol: d.Code, Name: d.Name})
	}
	return results, nil
}

func (f *EastMoneyFetcher) FetchSectorFlow(limit int) ([]model.SectorFlow, error) {
	rows, err := f.fetchCList("f62", "m:90+t:2", "f3,f12,f14,f62,f184", true, limit)
	if err != nil {
		return nil, err
	}
	sectors := make([]model.SectorFlow, 0, len(rows))
	for _, r := range rows {
		sectors = append(sectors, model.SectorFlow{
			Name:                 r.Name,
			ChangePercent:        r.ChangePc,
			MainNetInflow:        r.MainInflow,
			MainNetInflowPercent: r.InflowPc,
		})
	}
	return sectors, nil
}

func (f *EastMoneyFetcher) FetchNorthFlow() (*model.NorthFlow, error) {
	endpoint := fmt.Sprintf(
		"%s/api/data/v1/get?reportName=RPT_MUTUAL_DEAL_HISTORY&columns=ALL&sortColumns=TRADE_DATE&sortTypes=-1&pageSize=1&filter=(MUTUAL_TYPE=%%22005%%22)",
		f.DataURL)

	var result struct {
		Result *struct {
			Data []struct {
				TradeDate  string  `json:"TRADE_DATE"`
				NetDeal    float64 `json:"NET_DEAL_AMT"`
				BuyAmount  float64 `json:"BUY_AMT"`
				SellAmount float64 `json:"SELL_AMT"`
				AccumDeal  float64 `json:"ACCUM_DEAL_AMT"`
			} `json:"data"`
		} `json:"result"`
	}
	if err := f.getJSON(endpoint, &result); err != nil {
		return nil, err
	}
	if result.Result == nil || len(result.Result.Data) == 0 {
		return nil, ErrNoData
	}
	d := result.Result.Data[0]
	date := d.TradeDate
	if len(date) >= 10 {
		date = date[:10]
	}
	return &model.NorthFlow{
		Date:        date,
		NetInflow:   d.NetDeal,
		BuyAmount:   d.BuyAmount,
		SellAmount:  d.SellAmount,
		Accumulated: d.AccumDeal,
	}, nil
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}
