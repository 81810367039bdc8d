// Package scheduler drives watch mode: periodic re-analysis of a fixed
// symbol list so the history cache and the analysis record stay warm.
package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"AShareScope/internal/analyzer"
	"AShareScope/internal/model"
)

// Watcher re-analyzes the configured symbols on a cron schedule.
type Watcher struct {
	Cron    *cron.Cron
	Service *analyzer.Service
	Symbols []string
	Days    int
}

// NewWatcher creates a Watcher over the given service.
func NewWatcher(svc *analyzer.Service, symbols []string, days int) *Watcher {
	return &Watcher{
		Cron:    cron.New(cron.WithSeconds()),
		Service: svc,
		Symbols: symbols,
		Days:    days,
	}
}

// Register schedules the watch task.
func (w *Watcher) Register(spec string) error {
	if _, err := w.Cron.AddFunc(spec, w.runOnce); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (w *Watcher) Start() {
	w.Cron.Start()
	log.Printf("[INFO] watcher started for %d symbols", len(w.Symbols))
}

// Stop stops the cron scheduler gracefully.
func (w *Watcher) Stop() {
	w.Cron.Stop()
	log.Println("[INFO] watcher stopped")
}

// RunNow executes the watch task immediately (manual trigger).
func (w *Watcher) RunNow() {
	w.runOnce()
}

func (w *Watcher) runOnce() {
	for _, symbol := range w.Symbols {
		report, err := w.Service.AnalyzeStock(symbol, model.PeriodDaily, w.Days)
		if err != nil {
			log.Printf("[ERROR] watch analyze %s: %v", symbol, err)
			continue
		}
		log.Printf("[INFO] watch %s (%s): price=%.2f score=%d %s",
			report.Symbol, report.Name,
			report.PriceData.CurrentPrice, report.Score.Value, report.Score.Label)
	}
}
