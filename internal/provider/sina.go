package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"AShareScope/internal/model"
)

// SinaFetcher is the backup Source. It covers daily bars and realtime
// quotes; rankings and fund-flow data are EastMoney-only.
type SinaFetcher struct {
	QuoteURL   string
	HistoryURL string
	Client     *http.Client
}

// NewSinaFetcher creates a backup fetcher with optional proxy support.
func NewSinaFetcher(proxyURL string) *SinaFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &SinaFetcher{
		QuoteURL:   "https://hq.sinajs.cn",
		HistoryURL: "https://quotes.sina.cn",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *SinaFetcher) Name() string { return "sina" }

// sinaSymbol prefixes the 6-digit code with its exchange for Sina endpoints.
func sinaSymbol(symbol string) string {
	if strings.HasPrefix(symbol, "6") || strings.HasPrefix(symbol, "5") || strings.HasPrefix(symbol, "9") {
		return "sh" + symbol
	}
	return "sz" + symbol
}

func (f *SinaFetcher) FetchBars(_ model.Kind, symbol string, period model.Period, start, end time.Time) ([]model.Bar, error) {
	// The Sina kline API only serves minute scales and daily data; weekly
	// and monthly requests fall through to the primary source.
	if period != model.PeriodDaily {
		return nil, ErrUnsupported
	}
	datalen := int(end.Sub(start).Hours()/24) + 1
	endpoint := fmt.Sprintf(
		"%s/cn/api/json_v2.php/CN_MarketDataService.getKLineData?symbol=%s&scale=240&ma=no&datalen=%d",
		f.HistoryURL, sinaSymbol(symbol), datalen)

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Referer", "https://finance.sina.com.cn")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sina fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sina: status %d", resp.StatusCode)
	}

	var rows []struct {
		Day    string `json:"day"`
		Open   string `json:"open"`
		High   string `json:"high"`
		Low    string `json:"low"`
		Close  string `json:"close"`
		Volume string `json:"volume"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("sina decode bars: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	startDay := model.Day(start)
	endDay := model.Day(end)
	bars := make([]model.Bar, 0, len(rows))
	for _, r := range rows {
		date, err := time.ParseInLocation("2006-01-02", r.Day, time.Local)
		if err != nil {
			continue
		}
		if date.Before(startDay) || date.After(endDay) {
			continue
		}
		bars = append(bars, model.Bar{
			Date:   date,
			Open:   atof(r.Open),
			High:   atof(r.High),
			Low:    atof(r.Low),
			Close:  atof(r.Close),
			Volume: atof(r.Volume),
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (f *SinaFetcher) FetchQuote(symbol string) (*model.Quote, error) {
	endpoint := fmt.Sprintf("%s/list=%s", f.QuoteURL, sinaSymbol(symbol))
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Referer", "https://finance.sina.com.cn")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sina fetch quote: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sina read quote: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sina: status %d", resp.StatusCode)
	}

	// var hq_str_sh600000="name,open,prev_close,price,high,low,...";
	text := string(body)
	i := strings.Index(text, `"`)
	j := strings.LastIndex(text, `"`)
	if i < 0 || j <= i {
		return nil, fmt.Errorf("sina: malformed quote response")
	}
	fields := strings.Split(text[i+1:j], ",")
	if len(fields) < 10 || fields[0] == "" {
		return nil, ErrNoData
	}

	price := atof(fields[3])
	prevClose := atof(fields[2])
	change := price - prevClose
	changePc := 0.0
	if prevClose != 0 {
		changePc = change / prevClose * 100
	}
	return &model.Quote{
		Symbol:        symbol,
		Name:          fields[0],
		Price:         price,
		Change:        change,
		ChangePercent: changePc,
		Open:          atof(fields[1]),
		High:          atof(fields[4]),
		Low:           atof(fields[5]),
		Volume:        atof(fields[8]),
		Amount:        atof(fields[9]),
		Timestamp:     time.Now(),
	}, nil
}

func (f *SinaFetcher) FetchMovers(Direction, int) ([]model.Mover, error) {
	return nil, ErrUnsupported
}

func (f *SinaFetcher) Search(string) ([]model.SearchResult, error) {
	return nil, ErrUnsupported
}

func (f *SinaFetcher) FetchSectorFlow(int) ([]model.SectorFlow, error) {
	return nil, ErrUnsupported
}

func (f *SinaFetcher) FetchNorthFlow() (*model.NorthFlow, error) {
	return nil, ErrUnsupported
}
