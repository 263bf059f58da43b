package backtest

import (
	"math"
	"testing"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

func points(totals ...float64) []models.EquityPoint {
	out := make([]models.EquityPoint, len(totals))
	for i, v := range totals {
		out[i] = models.EquityPoint{Total: v}
	}
	return out
}

func TestMaxDrawdown(t *testing.T) {
	// Peak 110 to trough 90 is an 18.18% drawdown.
	got := maxDrawdown(points(100, 110, 90, 95))
	want := (110.0 - 90.0) / 110.0 * 100
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("maxDrawdown = %v, want %v", got, want)
	}

	if dd := maxDrawdown(points(100, 105, 110)); dd != 0 {
		t.Fatalf("monotonic equity must have zero drawdown, got %v", dd)
	}
	if dd := maxDrawdown(nil); dd != 0 {
		t.Fatalf("empty equity must have zero drawdown, got %v", dd)
	}
}

func TestSharpeDegenerate(t *testing.T) {
	if s := sharpe(points(100)); s != 0 {
		t.Fatalf("single point must give zero sharpe, got %v", s)
	}
	if s := sharpe(points(100, 100, 100)); s != 0 {
		t.Fatalf("flat equity must give zero sharpe, got %v", s)
	}
}

func TestSharpePositive(t *testing.T) {
	s := sharpe(points(100, 101, 102, 103, 105, 106))
	if s <= 0 {
		t.Fatalf("steadily rising equity must give positive sharpe, got %v", s)
	}
}

func TestComputeSummaryTradeClassification(t *testing.T) {
	equity := points(1000, 1100)
	trades := []models.Trade{
		{Type: "buy"},
		{Type: "sell", ProfitRate: 10},
		{Type: "sell", ProfitRate: -4},
		{Type: "sell", ProfitRate: 6},
	}

	s := ComputeSummary(1000, equity, trades)
	if s.TotalTrades != 4 || s.ClosedTrades != 3 {
		t.Fatalf("trade counts wrong: %+v", s)
	}
	if math.Abs(s.WinRate-200.0/3.0) > 1e-9 {
		t.Fatalf("WinRate = %v", s.WinRate)
	}
	if s.AvgWinPct != 8 {
		t.Fatalf("AvgWinPct = %v, want 8", s.AvgWinPct)
	}
	if s.AvgLossPct != -4 {
		t.Fatalf("AvgLossPct = %v, want -4", s.AvgLossPct)
	}
	if s.TotalReturnPct != 10 {
		t.Fatalf("TotalReturnPct = %v, want 10", s.TotalReturnPct)
	}
}

func TestComputeSummaryNoTrades(t *testing.T) {
	// Never traded: zero everything but still distinguishable from a
	// run whose buys are all still open.
	s := ComputeSummary(1000, points(1000, 1000), nil)
	if s.TotalTrades != 0 || s.ClosedTrades != 0 || s.WinRate != 0 {
		t.Fatalf("empty run summary wrong: %+v", s)
	}

	open := ComputeSummary(1000, points(1000, 1000), []models.Trade{{Type: "buy"}})
	if open.TotalTrades != 1 || open.ClosedTrades != 0 {
		t.Fatalf("open-only run summary wrong: %+v", open)
	}
}
