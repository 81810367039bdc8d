package provider

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"AShareScope/internal/model"
)

// maxFailures is how many consecutive errors sideline a source until the
// whole chain has been exhausted once.
const maxFailures = 3

// Chain tries an ordered list of sources until one answers. Callers depend
// only on the Chain, never on which concrete source produced the data.
type Chain struct {
	sources  []Source
	interval time.Duration

	mu       sync.Mutex
	failures map[string]int
	lastReq  time.Time
}

// NewChain creates a fallback chain. interval is the minimum spacing between
// upstream requests (politeness throttle, not a retry policy).
func NewChain(interval time.Duration, sources ...Source) *Chain {
	return &Chain{
		sources:  sources,
		interval: interval,
		failures: make(map[string]int),
	}
}

func (c *Chain) healthy(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures[name] < maxFailures
}

func (c *Chain) recordFailure(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[name]++
}

func (c *Chain) recordSuccess(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[name] = 0
}

func (c *Chain) resetFailures() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = make(map[string]int)
}

// throttle sleeps so that upstream requests are at least interval apart.
func (c *Chain) throttle() {
	c.mu.Lock()
	wait := c.interval - time.Since(c.lastReq)
	if wait < 0 {
		wait = 0
	}
	// Record the slot this request will actually fire in, so concurrent
	// callers queue behind it instead of sharing the same slot.
	c.lastReq = time.Now().Add(wait)
	c.mu.Unlock()
	if wait > 0 {
		time.Sleep(wait)
	}
}

// try runs fn against each healthy source in order. A source returning
// ErrNoData or ErrUnsupported is passed over without a failure mark; any
// other error counts toward sidelining it. When every source has been
// tried the failure counts are reset so the next request starts clean.
func (c *Chain) try(op string, fn func(Source) error) error {
	var lastErr error
	sawNoData := false
	for _, s := range c.sources {
		if !c.healthy(s.Name()) {
			continue
		}
		err := func() error {
			c.throttle()
			return fn(s)
		}()
		if err == nil {
			c.recordSuccess(s.Name())
			return nil
		}
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		if errors.Is(err, ErrNoData) {
			sawNoData = true
			continue
		}
		c.recordFailure(s.Name())
		lastErr = err
		log.Printf("[WARN] source %s failed on %s: %v", s.Name(), op, err)
	}
	c.resetFailures()
	if lastErr == nil && sawNoData {
		return ErrNoData
	}
	if lastErr == nil {
		lastErr = ErrNoData
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, lastErr)
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) FetchBars(kind model.Kind, symbol string, period model.Period, start, end time.Time) ([]model.Bar, error) {
	var bars []model.Bar
	err := c.try("fetch bars "+symbol, func(s Source) error {
		var err error
		bars, err = s.FetchBars(kind, symbol, period, start, end)
		if err == nil && len(bars) == 0 {
			return ErrNoData
		}
		return err
	})
	return bars, err
}

func (c *Chain) FetchQuote(symbol string) (*model.Quote, error) {
	var q *model.Quote
	err := c.try("fetch quote "+symbol, func(s Source) error {
		var err error
		q, err = s.FetchQuote(symbol)
		return err
	})
	return q, err
}

func (c *Chain) FetchMovers(direction Direction, limit int) ([]model.Mover, error) {
	var movers []model.Mover
	err := c.try(fmt.Sprintf("fetch movers %s", direction), func(s Source) error {
		var err error
		movers, err = s.FetchMovers(direction, limit)
		if err == nil && len(movers) == 0 {
			return ErrNoData
		}
		return err
	})
	return movers, err
}

func (c *Chain) Search(keyword string) ([]model.SearchResult, error) {
	var results []model.SearchResult
	err := c.try("search "+keyword, func(s Source) error {
		var err error
		results, err = s.Search(keyword)
		if err == nil && len(results) == 0 {
			return ErrNoData
		}
		return err
	})
	return results, err
}

func (c *Chain) FetchSectorFlow(limit int) ([]model.SectorFlow, error) {
	var sectors []model.SectorFlow
	err := c.try("fetch sector flow", func(s Source) error {
		var err error
		sectors, err = s.FetchSectorFlow(limit)
		if err == nil && len(sectors) == 0 {
			return ErrNoData
		}
		return err
	})
	return sectors, err
}

func (c *Chain) FetchNorthFlow() (*model.NorthFlow, error) {
	var nf *model.NorthFlow
	err := c.try("fetch north flow", func(s Source) error {
		var err error
		nf, err = s.FetchNorthFlow()
		return err
	})
	return nf, err
}
