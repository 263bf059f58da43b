package models

// PositionPlan is the sizer output, computed once at entry decision time.
type PositionPlan struct {
	Shares        int
	EntryPrice    float64
	ATR           float64
	StopLossPct   float64 // fraction, clamped to [0.03, 0.08]
	ProfitTarget1 float64 // percent, e.g. 12.0
	ProfitTarget2 float64
}

type PositionState string

const (
	PositionFlat    PositionState = "flat"
	PositionPartial PositionState = "partial" // first tranche filled, pyramid pending
	PositionFull    PositionState = "full"
)

// PyramidPlan tracks the pending second tranche of a split entry.
type PyramidPlan struct {
	FirstQty      int
	FirstPrice    float64
	TargetQty     int
	RemainingQty  int
	StopLossPct   float64
	ATR           float64
	RegimeAtEntry Regime
	ProfitTarget1 float64
	ProfitTarget2 float64
	JournalBuyID  int64
}

// LockoutRecord blocks re-entry into a symbol for the rest of the trading
// day after a profit-taking exit. A new calendar day invalidates it.
type LockoutRecord struct {
	Code       string
	Day        string // YYYY-MM-DD
	ProfitRate float64
	PeakProfit float64
	Reason     string
}

// Holding is one open position as reported by the broker.
type Holding struct {
	Code          string
	Name          string
	Quantity      int
	AvgPrice      float64
	UnrealizedPct float64
}

type AccountBalance struct {
	Cash        float64
	TotalEquity float64
}

// EquityPoint is one row of the backtest equity curve.
type EquityPoint struct {
	Date      string  `json:"date"`
	Cash      float64 `json:"cash"`
	Portfolio float64 `json:"portfolio"`
	Total     float64 `json:"total"`
	Positions int     `json:"positions"`
}

// Trade mirrors one journal row.
type Trade struct {
	ID         int64   `json:"id"`
	BuyID      int64   `json:"buy_id,omitempty"`
	Type       string  `json:"type"` // buy / sell
	Date       string  `json:"date"` // YYYY-MM-DD
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Signals    int     `json:"signals,omitempty"`
	ProfitRate float64 `json:"profit_rate,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}
