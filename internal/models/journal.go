package models

// TradeStats aggregates the closed trades recorded in the journal.
type TradeStats struct {
	TotalBuys  int
	TotalSells int
	Wins       int
	Losses     int
	WinRate    float64
	AvgProfit  float64
	ByReason   map[string]int
}
