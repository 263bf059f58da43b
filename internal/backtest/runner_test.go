package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/strategy/service"
)

// trendingBars builds a steady uptrend with growing volume, enough to
// score an entry once the warmup history exists.
func trendingBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	vol := 1000.0
	for i := range bars {
		px := 100.0 + float64(i)
		bars[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   px - 0.5,
			High:   px + 1,
			Low:    px - 1,
			Close:  px,
			Volume: vol,
		}
		vol *= 1.05
	}
	return bars
}

func TestRunEntersAndTakesProfit(t *testing.T) {
	r := NewRunner(service.NewEngine(), 10_000_000, 10)
	res := r.Run(
		map[string][]models.Bar{"005930": trendingBars(60)},
		map[string]string{"005930": "Samsung Electronics"},
	)

	var buys, sells int
	for _, tr := range res.Trades {
		switch tr.Type {
		case "buy":
			buys++
		case "sell":
			sells++
		}
	}
	if buys < 2 {
		t.Fatalf("uptrend must stage in (initial + pyramid), got %d buys", buys)
	}
	for _, tr := range res.Trades {
		if tr.Type == "sell" && tr.ProfitRate <= 0 {
			t.Fatalf("sells in a pure uptrend must be profitable: %+v", tr)
		}
	}
	if res.Summary.TotalTrades != len(res.Trades) {
		t.Fatalf("summary trade count mismatch: %+v", res.Summary)
	}
}

func TestRunEquityAccounting(t *testing.T) {
	initial := 10_000_000.0
	r := NewRunner(service.NewEngine(), initial, 10)
	res := r.Run(
		map[string][]models.Bar{"005930": trendingBars(60)},
		map[string]string{"005930": "Samsung Electronics"},
	)

	if len(res.Equity) != 60 {
		t.Fatalf("want one equity point per date, got %d", len(res.Equity))
	}
	for _, p := range res.Equity {
		if p.Cash < 0 {
			t.Fatalf("cash went negative: %+v", p)
		}
		if math.Abs(p.Total-(p.Cash+p.Portfolio)) > 1e-6 {
			t.Fatalf("equity point does not add up: %+v", p)
		}
	}
	// Replaying the trade list against the cash account must land on
	// the final equity point.
	cash := initial
	held := 0
	for _, tr := range res.Trades {
		if tr.Type == "buy" {
			cash -= float64(tr.Quantity) * tr.Price
			held += tr.Quantity
		} else {
			cash += float64(tr.Quantity) * tr.Price
			held -= tr.Quantity
		}
	}
	last := res.Equity[len(res.Equity)-1]
	if math.Abs(cash-last.Cash) > 1e-6 {
		t.Fatalf("cash replay %v != final cash %v", cash, last.Cash)
	}
	if held < 0 {
		t.Fatalf("sold more than bought: %d", held)
	}
}

func TestRunWarmupProducesNoTrades(t *testing.T) {
	r := NewRunner(service.NewEngine(), 1_000_000, 10)
	res := r.Run(
		map[string][]models.Bar{"005930": trendingBars(warmupBars - 1)},
		map[string]string{"005930": "Samsung Electronics"},
	)

	if len(res.Trades) != 0 {
		t.Fatalf("short history must not trade, got %d trades", len(res.Trades))
	}
	if res.Summary.TotalTrades != 0 || res.Summary.ClosedTrades != 0 {
		t.Fatalf("summary must report a tradeless run: %+v", res.Summary)
	}
	// Equity is still tracked: pure cash.
	for _, p := range res.Equity {
		if p.Total != 1_000_000 || p.Positions != 0 {
			t.Fatalf("tradeless equity must stay at initial cash: %+v", p)
		}
	}
}

func TestRunEmptyData(t *testing.T) {
	r := NewRunner(service.NewEngine(), 1_000_000, 10)
	res := r.Run(nil, nil)
	if len(res.Trades) != 0 || len(res.Equity) != 0 {
		t.Fatalf("empty data must produce an empty run: %+v", res)
	}
}
