package model

import "time"

// Quote is a realtime snapshot for one symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Volume        float64   `json:"volume"`
	Amount        float64   `json:"amount"`
	Turnover      float64   `json:"turnover"`
	PERatio       float64   `json:"pe_ratio,omitempty"`
	PBRatio       float64   `json:"pb_ratio,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Mover is one row of a gainers/losers ranking.
type Mover struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	Volume        float64 `json:"volume"`
	Amount        float64 `json:"amount"`
}

// SearchResult is one match from a keyword search.
type SearchResult struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price,omitempty"`
	ChangePercent float64 `json:"change_percent,omitempty"`
}

// SectorFlow is one sector's fund-flow ranking row.
type SectorFlow struct {
	Name                 string  `json:"name"`
	ChangePercent        float64 `json:"change_percent"`
	MainNetInflow        float64 `json:"main_net_inflow"`
	MainNetInflowPercent float64 `json:"main_net_inflow_percent"`
}

// NorthFlow is the latest northbound (cross-border link) capital summary.
type NorthFlow struct {
	Date        string  `json:"date"`
	NetInflow   float64 `json:"net_inflow"`
	BuyAmount   float64 `json:"buy_amount"`
	SellAmount  float64 `json:"sell_amount"`
	Accumulated float64 `json:"accumulated"`
}
