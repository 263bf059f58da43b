package runner

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/config"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/strategy/service"
	"github.com/HyunWoo9930/AutoTrade/internal/notify"
)

type fakeBroker struct {
	reject bool
	buys   []int
	sells  []int
}

func (f *fakeBroker) PlaceBuy(_ context.Context, _ string, qty int) (string, error) {
	if f.reject {
		return "", errors.Wrap(models.ErrOrderRejected, "insufficient funds")
	}
	f.buys = append(f.buys, qty)
	return "B1", nil
}

func (f *fakeBroker) PlaceSell(_ context.Context, _ string, qty int) (string, error) {
	if f.reject {
		return "", errors.Wrap(models.ErrOrderRejected, "market closed")
	}
	f.sells = append(f.sells, qty)
	return "S1", nil
}

func (f *fakeBroker) Balance(context.Context) (models.AccountBalance, error) {
	return models.AccountBalance{Cash: 1_000_000, TotalEquity: 1_000_000}, nil
}

func (f *fakeBroker) OpenPositions(context.Context) ([]models.Holding, error) {
	return nil, nil
}

type fakeJournal struct {
	buys  []*models.Trade
	sells []*models.Trade
}

func (f *fakeJournal) RecordBuy(_ context.Context, t *models.Trade) (int64, error) {
	f.buys = append(f.buys, t)
	return int64(len(f.buys)), nil
}

func (f *fakeJournal) RecordSell(_ context.Context, t *models.Trade) error {
	f.sells = append(f.sells, t)
	return nil
}

func (f *fakeJournal) Statistics(context.Context) (*models.TradeStats, error) {
	return &models.TradeStats{}, nil
}

type fakeLockouts struct {
	recs map[string]*models.LockoutRecord
}

func newFakeLockouts() *fakeLockouts {
	return &fakeLockouts{recs: make(map[string]*models.LockoutRecord)}
}

func (f *fakeLockouts) Get(_ context.Context, code, day string) (*models.LockoutRecord, error) {
	return f.recs[code+"/"+day], nil
}

func (f *fakeLockouts) Set(_ context.Context, rec *models.LockoutRecord) error {
	f.recs[rec.Code+"/"+rec.Day] = rec
	return nil
}

func newTestManager(broker *fakeBroker, journal *fakeJournal, lockouts *fakeLockouts) *Manager {
	cfg := &config.Config{MaxHoldings: 10, SectorCapPct: 0.30}
	return NewManager(cfg, service.NewEngine(), nil, broker, journal, lockouts,
		NewPositionStore(), NewSessionClock(cfg), notify.NewStdout())
}

func TestExecuteRejectedBuyMutatesNothing(t *testing.T) {
	broker := &fakeBroker{reject: true}
	journal := &fakeJournal{}
	m := newTestManager(broker, journal, newFakeLockouts())

	stock := models.Stock{Code: "005930", Name: "Samsung Electronics"}
	d := Decide(entryInput(5, models.RegimeTrending))
	if d.Action != ActionBuy {
		t.Fatalf("setup: want a buy decision, got %+v", d)
	}

	err := m.execute(context.Background(), stock, 70000, d, nil, service.Evaluation{}, "2026-09-01")
	if !errors.Is(err, models.ErrOrderRejected) {
		t.Fatalf("want rejection error, got %v", err)
	}
	if m.store.Plan(stock.Code) != nil || m.store.State(stock.Code) != models.PositionFlat {
		t.Fatal("rejected buy must not register a position")
	}
	if len(journal.buys) != 0 {
		t.Fatal("rejected buy must not be journaled")
	}
}

func TestExecuteBuyRegistersPlan(t *testing.T) {
	broker := &fakeBroker{}
	journal := &fakeJournal{}
	m := newTestManager(broker, journal, newFakeLockouts())

	stock := models.Stock{Code: "005930", Name: "Samsung Electronics"}
	d := Decide(entryInput(5, models.RegimeTrending))

	if err := m.execute(context.Background(), stock, 70000, d, nil, service.Evaluation{}, "2026-09-01"); err != nil {
		t.Fatal(err)
	}
	if len(broker.buys) != 1 || broker.buys[0] != 4 {
		t.Fatalf("want one buy of 4, got %v", broker.buys)
	}
	plan := m.store.Plan(stock.Code)
	if plan == nil || plan.RemainingQty != 6 {
		t.Fatalf("plan not registered: %+v", plan)
	}
	if plan.JournalBuyID != 1 {
		t.Fatalf("journal id not linked: %+v", plan)
	}
	if m.store.State(stock.Code) != models.PositionPartial {
		t.Fatal("initial entry must be partial")
	}
}

func TestExecuteTrailingSellSetsLockoutAndClears(t *testing.T) {
	broker := &fakeBroker{}
	journal := &fakeJournal{}
	lockouts := newFakeLockouts()
	m := newTestManager(broker, journal, lockouts)

	stock := models.Stock{Code: "000660", Name: "SK Hynix"}
	m.store.SetEntry(stock.Code, &models.PyramidPlan{JournalBuyID: 7}, models.PositionFull)
	m.store.UpdatePeak(stock.Code, 12.0)

	holding := &models.Holding{Code: stock.Code, Quantity: 10, UnrealizedPct: 8.5}
	d := Decision{Action: ActionSell, Qty: 10, Reason: ReasonTrailingStop, SellAll: true, Lockout: true}

	if err := m.execute(context.Background(), stock, 50000, d, holding, service.Evaluation{}, "2026-09-01"); err != nil {
		t.Fatal(err)
	}

	rec, _ := lockouts.Get(context.Background(), stock.Code, "2026-09-01")
	if rec == nil {
		t.Fatal("trailing exit must write a lockout record")
	}
	if rec.PeakProfit != 12.0 || rec.ProfitRate != 8.5 {
		t.Fatalf("lockout record wrong: %+v", rec)
	}
	if m.store.Plan(stock.Code) != nil {
		t.Fatal("full exit must clear the trackers")
	}
	if len(journal.sells) != 1 || journal.sells[0].BuyID != 7 {
		t.Fatalf("sell not journaled against the buy: %+v", journal.sells)
	}
}

func TestExecuteRejectedSellKeepsTrackers(t *testing.T) {
	broker := &fakeBroker{reject: true}
	m := newTestManager(broker, &fakeJournal{}, newFakeLockouts())

	stock := models.Stock{Code: "000660", Name: "SK Hynix"}
	m.store.SetEntry(stock.Code, &models.PyramidPlan{JournalBuyID: 7}, models.PositionFull)

	holding := &models.Holding{Code: stock.Code, Quantity: 10, UnrealizedPct: -6}
	d := Decision{Action: ActionSell, Qty: 10, Reason: ReasonStopLoss, SellAll: true}

	err := m.execute(context.Background(), stock, 50000, d, holding, service.Evaluation{}, "2026-09-01")
	if !errors.Is(err, models.ErrOrderRejected) {
		t.Fatalf("want rejection, got %v", err)
	}
	if m.store.Plan(stock.Code) == nil {
		t.Fatal("rejected sell must keep the position trackers")
	}
}

func TestExecutePartialTargetSell(t *testing.T) {
	broker := &fakeBroker{}
	m := newTestManager(broker, &fakeJournal{}, newFakeLockouts())

	stock := models.Stock{Code: "005380", Name: "Hyundai Motor"}
	m.store.SetEntry(stock.Code, &models.PyramidPlan{}, models.PositionFull)

	holding := &models.Holding{Code: stock.Code, Quantity: 10, UnrealizedPct: 13}
	d := Decision{Action: ActionSell, Qty: 5, Reason: ReasonTarget1, MarkTarget1: true}

	if err := m.execute(context.Background(), stock, 200000, d, holding, service.Evaluation{}, "2026-09-01"); err != nil {
		t.Fatal(err)
	}
	if !m.store.Target1Taken(stock.Code) {
		t.Fatal("target1 must be marked taken")
	}
	if m.store.Plan(stock.Code) == nil {
		t.Fatal("partial sell must keep the plan")
	}
}
