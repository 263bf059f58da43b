package runner

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/config"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/strategy/service"
	"github.com/HyunWoo9930/AutoTrade/internal/notify"
	"github.com/HyunWoo9930/AutoTrade/pkg/logger"
)

// Manager runs the decision loop: one pass over the watchlist per cycle,
// at most one order per symbol per pass.
type Manager struct {
	cfg      *config.Config
	engine   *service.Engine
	market   MarketData
	broker   Broker
	journal  Journal
	lockouts LockoutStore
	store    *PositionStore
	clock    *SessionClock
	notifier notify.Notifier

	lastRegime map[string]models.Regime
}

func NewManager(
	cfg *config.Config,
	engine *service.Engine,
	market MarketData,
	broker Broker,
	journal Journal,
	lockouts LockoutStore,
	store *PositionStore,
	clock *SessionClock,
	notifier notify.Notifier,
) *Manager {
	return &Manager{
		cfg:        cfg,
		engine:     engine,
		market:     market,
		broker:     broker,
		journal:    journal,
		lockouts:   lockouts,
		store:      store,
		clock:      clock,
		notifier:   notifier,
		lastRegime: make(map[string]models.Regime),
	}
}

// Cycle evaluates every watchlist symbol once. A failure on one symbol
// never stops the others. Exits run for the whole session; the guard
// minutes around open and close only suspend entries.
func (m *Manager) Cycle(ctx context.Context) {
	if !m.clock.SessionOpen(time.Now()) {
		return
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "runner.cycle")
	defer span.Finish()

	balance, err := m.broker.Balance(ctx)
	if err != nil {
		logger.Error("cycle: balance: %v", err)
		notify.Failure(m.notifier, "balance", err)
		return
	}
	holdings, err := m.broker.OpenPositions(ctx)
	if err != nil {
		logger.Error("cycle: positions: %v", err)
		notify.Failure(m.notifier, "positions", err)
		return
	}

	held := make(map[string]*models.Holding, len(holdings))
	for i := range holdings {
		held[holdings[i].Code] = &holdings[i]
	}

	sectorExposure := m.sectorExposure(holdings, balance.TotalEquity)

	for sector, stocks := range m.cfg.Watchlist {
		bars := make(map[string][]models.Bar, len(stocks))
		for _, stock := range stocks {
			b, err := m.market.DailyBars(ctx, stock.Code, m.cfg.BarsCount)
			if err != nil {
				logger.Error("cycle %s (%s): bars: %v", stock.Name, stock.Code, err)
				notify.Failure(m.notifier, stock.Code, err)
				continue
			}
			bars[stock.Code] = b
		}

		if m.skipSector(sector, stocks, bars, held) {
			logger.Info("cycle: sector %q below rotation floor, skipped", sector)
			continue
		}

		for _, stock := range stocks {
			b, ok := bars[stock.Code]
			if !ok {
				continue
			}
			if err := m.evaluateSafe(ctx, stock, b, held[stock.Code], balance, len(holdings), sectorExposure[sector]); err != nil {
				logger.Error("cycle %s (%s): %v", stock.Name, stock.Code, err)
				notify.Failure(m.notifier, stock.Code, err)
			}
		}
	}
}

// evaluateSafe confines a panic in one symbol's evaluation to that symbol.
func (m *Manager) evaluateSafe(
	ctx context.Context,
	stock models.Stock,
	bars []models.Bar,
	holding *models.Holding,
	balance models.AccountBalance,
	holdingsCount int,
	sectorExposure float64,
) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("panic: %v", p)
		}
	}()
	return m.evaluateSymbol(ctx, stock, bars, holding, balance, holdingsCount, sectorExposure)
}

// skipSector applies sector rotation: sectors scoring below the floor
// are not evaluated, unless one of their symbols is already held.
func (m *Manager) skipSector(
	sector string,
	stocks []models.Stock,
	bars map[string][]models.Bar,
	held map[string]*models.Holding,
) bool {
	if m.cfg.SectorScoreFloor <= 0 {
		return false
	}
	samples := make([]service.SectorSample, 0, len(stocks))
	for _, stock := range stocks {
		if held[stock.Code] != nil {
			return false // exits must still be evaluated
		}
		b := bars[stock.Code]
		if len(b) == 0 {
			continue
		}
		samples = append(samples, service.SectorSample{
			Bars:  b,
			Price: b[len(b)-1].Close,
		})
	}
	return service.SectorScore(samples) < m.cfg.SectorScoreFloor
}

// sectorExposure returns each sector's share of total equity held.
func (m *Manager) sectorExposure(holdings []models.Holding, equity float64) map[string]float64 {
	out := make(map[string]float64)
	if equity <= 0 {
		return out
	}
	for _, h := range holdings {
		sector := m.cfg.Watchlist.SectorOf(h.Code)
		if sector == "" {
			continue
		}
		out[sector] += float64(h.Quantity) * h.AvgPrice / equity
	}
	return out
}

func (m *Manager) evaluateSymbol(
	ctx context.Context,
	stock models.Stock,
	bars []models.Bar,
	holding *models.Holding,
	balance models.AccountBalance,
	holdingsCount int,
	sectorExposure float64,
) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "runner.symbol")
	span.SetTag("code", stock.Code)
	defer span.Finish()

	price, priceErr := m.market.CurrentPrice(ctx, stock.Code)
	eval, err := m.engine.Evaluate(bars, price, priceErr)
	if err != nil {
		return errors.Wrap(err, "evaluate")
	}

	if last, ok := m.lastRegime[stock.Code]; ok && last != eval.Regime.Regime {
		notify.RegimeChanged(m.notifier, last, eval.Regime.Regime)
	}
	m.lastRegime[stock.Code] = eval.Regime.Regime

	day := m.clock.TradingDay(time.Now())
	lock, err := m.lockouts.Get(ctx, stock.Code, day)
	if err != nil {
		return errors.Wrap(err, "lockout lookup")
	}

	in := DecisionInput{
		Code:              stock.Code,
		Eval:              eval,
		Holding:           holding,
		Plan:              m.store.Plan(stock.Code),
		State:             m.store.State(stock.Code),
		MarkedTarget1:     m.store.Target1Taken(stock.Code),
		HoldingsCount:     holdingsCount,
		MaxHoldings:       m.cfg.MaxHoldings,
		SectorExposurePct: sectorExposure,
		SectorCapPct:      m.cfg.SectorCapPct,
		LockedOut:         lock != nil,
		EntryAllowed:      m.clock.Tradable(time.Now()),
	}
	if holding != nil {
		in.Peak = m.store.UpdatePeak(stock.Code, holding.UnrealizedPct)
	} else {
		in.EntryPlan = m.engine.Plan(bars, price, balance.Cash, eval.Regime.Regime)
		if eval.Signal.Strong() {
			notify.StrongSignal(m.notifier, stock.Code, stock.Name, eval.Signal)
		}
	}

	return m.execute(ctx, stock, price, Decide(in), holding, eval, day)
}

// execute applies one decision. A rejected order leaves every tracker
// untouched.
func (m *Manager) execute(
	ctx context.Context,
	stock models.Stock,
	price float64,
	d Decision,
	holding *models.Holding,
	eval service.Evaluation,
	day string,
) error {
	if d.PromoteFull && d.Action != ActionBuy {
		m.store.PromoteFull(stock.Code)
	}

	switch d.Action {
	case ActionNone:
		return nil

	case ActionBuy:
		if _, err := m.broker.PlaceBuy(ctx, stock.Code, d.Qty); err != nil {
			return errors.Wrap(err, "buy")
		}
		trade := &models.Trade{
			Type:     "buy",
			Date:     day,
			Code:     stock.Code,
			Name:     stock.Name,
			Quantity: d.Qty,
			Price:    price,
			Signals:  eval.Signal.Score,
		}
		id, err := m.journal.RecordBuy(ctx, trade)
		if err != nil {
			logger.Error("journal buy %s: %v", stock.Code, err)
		}
		if d.NewPlan != nil {
			d.NewPlan.JournalBuyID = id
			m.store.SetEntry(stock.Code, d.NewPlan, d.NewState)
		} else if d.PromoteFull {
			m.store.PromoteFull(stock.Code)
		}
		notify.Bought(m.notifier, stock.Code, stock.Name, d.Qty, price, d.Stage)
		return nil

	case ActionSell:
		if _, err := m.broker.PlaceSell(ctx, stock.Code, d.Qty); err != nil {
			return errors.Wrap(err, "sell")
		}
		profit := 0.0
		if holding != nil {
			profit = holding.UnrealizedPct
		}
		trade := &models.Trade{
			Type:       "sell",
			Date:       day,
			Code:       stock.Code,
			Name:       stock.Name,
			Quantity:   d.Qty,
			Price:      price,
			ProfitRate: profit,
			Reason:     d.Reason,
		}
		if plan := m.store.Plan(stock.Code); plan != nil {
			trade.BuyID = plan.JournalBuyID
		}
		if err := m.journal.RecordSell(ctx, trade); err != nil {
			logger.Error("journal sell %s: %v", stock.Code, err)
		}

		if d.Reason == ReasonCrashProtection {
			notify.CrashProtection(m.notifier, stock.Code, d.Qty, profit)
		} else {
			notify.Sold(m.notifier, stock.Code, stock.Name, d.Qty, price, profit, d.Reason)
		}

		if d.Lockout {
			rec := &models.LockoutRecord{
				Code:       stock.Code,
				Day:        day,
				ProfitRate: profit,
				PeakProfit: m.store.Peak(stock.Code),
				Reason:     d.Reason,
			}
			if err := m.lockouts.Set(ctx, rec); err != nil {
				logger.Error("lockout %s: %v", stock.Code, err)
			}
		}

		if d.SellAll {
			m.store.Clear(stock.Code)
		} else if d.MarkTarget1 {
			m.store.MarkTarget1(stock.Code)
		}
		return nil
	}
	return nil
}

// HealthReport sends the heartbeat: watchlist size, open positions and
// the journal statistics.
func (m *Manager) HealthReport(ctx context.Context) {
	watching := len(m.cfg.Watchlist.All())
	open := 0
	if holdings, err := m.broker.OpenPositions(ctx); err == nil {
		open = len(holdings)
	} else {
		logger.Error("health: positions: %v", err)
	}

	stats, err := m.journal.Statistics(ctx)
	if err != nil {
		logger.Error("health: statistics: %v", err)
		return
	}
	logger.Info("health: watching=%d open=%d buys=%d sells=%d winrate=%.1f%% avg=%.2f%%",
		watching, open, stats.TotalBuys, stats.TotalSells, stats.WinRate, stats.AvgProfit)
	m.notifier.Sendf("📈 watching %d, %d open / journal: %d buys, %d sells, winrate %.1f%%, avg pnl %.2f%%",
		watching, open, stats.TotalBuys, stats.TotalSells, stats.WinRate, stats.AvgProfit)
}
