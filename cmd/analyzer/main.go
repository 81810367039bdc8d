package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"AShareScope/internal/analyzer"
	"AShareScope/internal/cache"
	"AShareScope/internal/config"
	"AShareScope/internal/model"
	"AShareScope/internal/provider"
	"AShareScope/internal/recorder"
	"AShareScope/internal/scheduler"
)

const usage = `A-share technical analysis tool

Usage: analyzer <command> [flags]

Commands:
  stock_analysis   full technical analysis for a stock
  stock_quote      realtime quote snapshot
  index_analysis   index analysis
  top_gainers      top gainers ranking
  top_losers       top losers ranking
  stock_search     search stocks by keyword
  sector_flow      sector fund-flow ranking
  north_flow       northbound capital summary
  cache_stats      cache statistics
  clear_cache      clear memory and/or disk cache
  watch            periodically re-analyze configured symbols
`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stderr)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	store, err := cache.NewHistoryStore(cfg.Cache.Dir)
	if err != nil {
		log.Fatalf("[FATAL] open history store: %v", err)
	}

	chain := provider.NewChain(cfg.RequestInterval(),
		provider.NewEastMoneyFetcher(cfg.Proxy),
		provider.NewSinaFetcher(cfg.Proxy),
	)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	svc := analyzer.New(store, chain, rec)

	command := os.Args[1]
	args := os.Args[2:]
	result, err := run(command, args, cfg, svc)
	if err != nil {
		printJSON(map[string]string{"error": err.Error()})
		os.Exit(1)
	}
	if result != nil {
		printJSON(result)
	}
}

func run(command string, args []string, cfg *config.Config, svc *analyzer.Service) (interface{}, error) {
	switch command {
	case "stock_analysis":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		symbol := fs.String("symbol", "", "stock symbol (6-digit code)")
		period := fs.String("period", "daily", "period: daily, weekly, monthly")
		days := fs.Int("days", cfg.History.DefaultDays, "history window in days")
		fs.Parse(args)
		p := model.Period(*period)
		if !p.Valid() {
			return nil, fmt.Errorf("invalid period %q (want daily, weekly or monthly)", *period)
		}
		return svc.AnalyzeStock(*symbol, p, config.ClampDays(*days))

	case "stock_quote":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		symbol := fs.String("symbol", "", "stock symbol")
		fs.Parse(args)
		return svc.Quote(*symbol)

	case "index_analysis":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		symbol := fs.String("symbol", "", "index symbol")
		period := fs.String("period", "daily", "period: daily, weekly, monthly")
		fs.Parse(args)
		p := model.Period(*period)
		if !p.Valid() {
			return nil, fmt.Errorf("invalid period %q (want daily, weekly or monthly)", *period)
		}
		return svc.AnalyzeIndex(*symbol, p, cfg.History.DefaultDays)

	case "top_gainers", "top_losers":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		limit := fs.Int("limit", cfg.Ranking.DefaultLimit, "number of rows")
		fs.Parse(args)
		direction := provider.DirectionUp
		if command == "top_losers" {
			direction = provider.DirectionDown
		}
		movers, err := svc.TopMovers(direction, *limit)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"type":      command,
			"count":     len(movers),
			"timestamp": time.Now().Format(time.RFC3339),
			"stocks":    movers,
		}, nil

	case "stock_search":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		keyword := fs.String("keyword", "", "search keyword")
		fs.Parse(args)
		results, err := svc.Search(*keyword)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"keyword": *keyword,
			"count":   len(results),
			"results": results,
		}, nil

	case "sector_flow":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		limit := fs.Int("limit", cfg.Ranking.DefaultLimit, "number of rows")
		fs.Parse(args)
		sectors, err := svc.SectorFlow(*limit)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"type":      "sector_flow",
			"count":     len(sectors),
			"timestamp": time.Now().Format(time.RFC3339),
			"sectors":   sectors,
		}, nil

	case "north_flow":
		return svc.NorthFlow()

	case "cache_stats":
		return svc.CacheStats()

	case "clear_cache":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		cacheType := fs.String("type", "memory", "cache type: memory, local, all")
		symbol := fs.String("symbol", "", "limit local clearing to one symbol")
		fs.Parse(args)
		return svc.ClearCache(*cacheType, *symbol)

	case "watch":
		return nil, runWatch(cfg, svc)

	default:
		fmt.Fprint(os.Stderr, usage)
		return nil, fmt.Errorf("unknown command %q", command)
	}
}

func runWatch(cfg *config.Config, svc *analyzer.Service) error {
	if len(cfg.Watch.Symbols) == 0 {
		return fmt.Errorf("watch.symbols is empty, nothing to watch")
	}
	w := scheduler.NewWatcher(svc, cfg.Watch.Symbols, cfg.History.DefaultDays)
	if err := w.Register(cfg.Watch.Cron); err != nil {
		return err
	}
	w.Start()
	defer w.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing watch task now")
		go w.RunNow()
	}

	log.Println("[INFO] watch mode running. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("[INFO] shutdown signal received, stopping...")
	return nil
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("[FATAL] encode result: %v", err)
	}
	fmt.Println(string(data))
}
