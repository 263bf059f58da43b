package backtest

import (
	"sort"
	"time"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/strategy/service"
	"github.com/HyunWoo9930/AutoTrade/internal/runner"
)

// warmupBars is how much history a symbol needs before it is evaluated;
// below this the slow indicators are still undefined.
const warmupBars = 40

// Runner replays daily bars through the same decision machine the live
// loop uses, against a single shared cash account.
type Runner struct {
	engine      *service.Engine
	initialCash float64
	maxHoldings int
}

func NewRunner(engine *service.Engine, initialCash float64, maxHoldings int) *Runner {
	return &Runner{
		engine:      engine,
		initialCash: initialCash,
		maxHoldings: maxHoldings,
	}
}

// Result is the full simulation output.
type Result struct {
	Trades  []models.Trade       `json:"trades"`
	Equity  []models.EquityPoint `json:"equity"`
	Summary Summary              `json:"summary"`
}

type simPosition struct {
	qty      int
	avgPrice float64
	plan     *models.PyramidPlan
	state    models.PositionState
	peak     float64
	pt1Taken bool
}

func (p *simPosition) profitPct(price float64) float64 {
	if p.avgPrice <= 0 {
		return 0
	}
	return (price - p.avgPrice) / p.avgPrice * 100
}

// Run simulates the strategy over the given histories. Bars must be in
// chronological order per symbol.
func (r *Runner) Run(data map[string][]models.Bar, names map[string]string) Result {
	dates := collectDates(data)

	cash := r.initialCash
	positions := make(map[string]*simPosition)
	lockouts := make(map[string]string) // code -> day locked
	var trades []models.Trade
	var equity []models.EquityPoint
	tradeID := int64(0)

	// Stable symbol order keeps runs reproducible.
	codes := make([]string, 0, len(data))
	for code := range data {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, date := range dates {
		day := date.Format("2006-01-02")

		for _, code := range codes {
			bars := barsUpTo(data[code], date)
			if len(bars) < warmupBars {
				continue
			}
			last := bars[len(bars)-1]
			if !last.Date.Equal(date) {
				continue // symbol did not trade this day
			}
			price := last.Close

			eval, err := r.engine.Evaluate(bars, price, nil)
			if err != nil {
				continue
			}

			pos := positions[code]
			in := runner.DecisionInput{
				Code:          code,
				Eval:          eval,
				HoldingsCount: len(positions),
				MaxHoldings:   r.maxHoldings,
				LockedOut:     lockouts[code] == day,
				EntryAllowed:  true, // daily bars carry no intraday guard window
			}
			if pos != nil {
				profit := pos.profitPct(price)
				if profit > pos.peak {
					pos.peak = profit
				}
				in.Holding = &models.Holding{
					Code:          code,
					Quantity:      pos.qty,
					AvgPrice:      pos.avgPrice,
					UnrealizedPct: profit,
				}
				in.Plan = pos.plan
				in.State = pos.state
				in.Peak = pos.peak
				in.MarkedTarget1 = pos.pt1Taken
			} else {
				in.EntryPlan = r.engine.Plan(bars, price, cash, eval.Regime.Regime)
			}

			d := runner.Decide(in)

			switch d.Action {
			case runner.ActionBuy:
				cost := float64(d.Qty) * price
				if cost > cash || d.Qty <= 0 {
					continue // the live broker would reject this
				}
				cash -= cost
				tradeID++
				if pos == nil {
					positions[code] = &simPosition{
						qty:      d.Qty,
						avgPrice: price,
						plan:     d.NewPlan,
						state:    d.NewState,
					}
					if d.NewPlan != nil {
						d.NewPlan.JournalBuyID = tradeID
					}
				} else {
					total := float64(pos.qty)*pos.avgPrice + cost
					pos.qty += d.Qty
					pos.avgPrice = total / float64(pos.qty)
					if d.PromoteFull {
						pos.state = models.PositionFull
					}
				}
				trades = append(trades, models.Trade{
					ID: tradeID, Type: "buy", Date: day,
					Code: code, Name: names[code],
					Quantity: d.Qty, Price: price,
					Signals: eval.Signal.Score,
				})

			case runner.ActionSell:
				if pos == nil || d.Qty <= 0 || d.Qty > pos.qty {
					continue
				}
				cash += float64(d.Qty) * price
				tradeID++
				trade := models.Trade{
					ID: tradeID, Type: "sell", Date: day,
					Code: code, Name: names[code],
					Quantity: d.Qty, Price: price,
					ProfitRate: pos.profitPct(price),
					Reason:     d.Reason,
				}
				if pos.plan != nil {
					trade.BuyID = pos.plan.JournalBuyID
				}
				trades = append(trades, trade)

				if d.Lockout {
					lockouts[code] = day
				}
				pos.qty -= d.Qty
				if d.SellAll || pos.qty == 0 {
					delete(positions, code)
				} else if d.MarkTarget1 {
					pos.pt1Taken = true
				}

			default:
				if d.PromoteFull && pos != nil {
					pos.state = models.PositionFull
				}
			}
		}

		portfolio := 0.0
		for code, pos := range positions {
			portfolio += float64(pos.qty) * closeOn(data[code], date)
		}
		equity = append(equity, models.EquityPoint{
			Date:      day,
			Cash:      cash,
			Portfolio: portfolio,
			Total:     cash + portfolio,
			Positions: len(positions),
		})
	}

	return Result{
		Trades:  trades,
		Equity:  equity,
		Summary: ComputeSummary(r.initialCash, equity, trades),
	}
}

func collectDates(data map[string][]models.Bar) []time.Time {
	seen := make(map[time.Time]bool)
	var dates []time.Time
	for _, bars := range data {
		for _, b := range bars {
			if !seen[b.Date] {
				seen[b.Date] = true
				dates = append(dates, b.Date)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func barsUpTo(bars []models.Bar, date time.Time) []models.Bar {
	n := sort.Search(len(bars), func(i int) bool { return bars[i].Date.After(date) })
	return bars[:n]
}

// closeOn returns the last close at or before the date.
func closeOn(bars []models.Bar, date time.Time) float64 {
	upTo := barsUpTo(bars, date)
	if len(upTo) == 0 {
		return 0
	}
	return upTo[len(upTo)-1].Close
}
