package backtest

import (
	"math"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

const tradingDaysPerYear = 252

// Summary aggregates a finished simulation.
type Summary struct {
	InitialCash    float64 `json:"initial_cash"`
	FinalEquity    float64 `json:"final_equity"`
	TotalReturnPct float64 `json:"total_return_pct"`
	TotalTrades    int     `json:"total_trades"`
	ClosedTrades   int     `json:"closed_trades"`
	WinRate        float64 `json:"win_rate"`
	AvgWinPct      float64 `json:"avg_win_pct"`
	AvgLossPct     float64 `json:"avg_loss_pct"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	Sharpe         float64 `json:"sharpe"`
}

// ComputeSummary derives the performance figures. A run with trades but
// no closed trades still reports zero win rate, distinct from a run
// that never traded at all (TotalTrades 0).
func ComputeSummary(initialCash float64, equity []models.EquityPoint, trades []models.Trade) Summary {
	s := Summary{
		InitialCash: initialCash,
		TotalTrades: len(trades),
	}
	if len(equity) > 0 {
		s.FinalEquity = equity[len(equity)-1].Total
		if initialCash > 0 {
			s.TotalReturnPct = (s.FinalEquity - initialCash) / initialCash * 100
		}
	}

	wins, losses := 0, 0
	winSum, lossSum := 0.0, 0.0
	for _, t := range trades {
		if t.Type != "sell" {
			continue
		}
		s.ClosedTrades++
		if t.ProfitRate > 0 {
			wins++
			winSum += t.ProfitRate
		} else {
			losses++
			lossSum += t.ProfitRate
		}
	}
	if s.ClosedTrades > 0 {
		s.WinRate = float64(wins) / float64(s.ClosedTrades) * 100
	}
	if wins > 0 {
		s.AvgWinPct = winSum / float64(wins)
	}
	if losses > 0 {
		s.AvgLossPct = lossSum / float64(losses)
	}

	s.MaxDrawdownPct = maxDrawdown(equity)
	s.Sharpe = sharpe(equity)
	return s
}

// maxDrawdown is the deepest peak-to-trough decline of total equity,
// as a positive percent.
func maxDrawdown(equity []models.EquityPoint) float64 {
	peak, worst := 0.0, 0.0
	for _, p := range equity {
		if p.Total > peak {
			peak = p.Total
		}
		if peak > 0 {
			dd := (peak - p.Total) / peak * 100
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

// sharpe annualizes the mean daily return over its deviation. Zero when
// there are not enough points or the equity never moved.
func sharpe(equity []models.EquityPoint) float64 {
	if len(equity) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Total
		if prev <= 0 {
			return 0
		}
		returns = append(returns, (equity[i].Total-prev)/prev)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}
