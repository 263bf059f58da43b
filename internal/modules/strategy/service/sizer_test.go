package service

import (
	"testing"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

func TestPlanPositionStopClamp(t *testing.T) {
	regimes := []models.Regime{
		models.RegimeTrending, models.RegimeSideways,
		models.RegimeCrash, models.RegimeUnknown,
	}
	// Half-ranges of 0.5, 1 and 3 give ATRs of 1%, 2% and 6% of a 100
	// price: the low, mid and high volatility bands.
	for _, hr := range []float64{0.5, 1, 3} {
		bars := barsFromCloses(flatCloses(30, 100), hr)
		for _, regime := range regimes {
			plan := PlanPosition(bars, 100, 10_000_000, regime)
			if plan.StopLossPct < stopPctMin || plan.StopLossPct > stopPctMax {
				t.Errorf("hr=%v regime=%s: stop %v outside [%v, %v]",
					hr, regime, plan.StopLossPct, stopPctMin, stopPctMax)
			}
		}
	}
}

func TestPlanPositionCap(t *testing.T) {
	balance := 10_000_000.0
	bars := barsFromCloses(flatCloses(30, 100), 0.5) // low volatility, generous risk sizing
	for _, regime := range []models.Regime{models.RegimeTrending, models.RegimeSideways} {
		plan := PlanPosition(bars, 100, balance, regime)
		maxFrac := maxPositionPct
		if regime == models.RegimeSideways {
			maxFrac = maxPositionPctSideways
		}
		if float64(plan.Shares)*plan.EntryPrice > maxFrac*balance {
			t.Errorf("%s: position value %v exceeds cap %v",
				regime, float64(plan.Shares)*plan.EntryPrice, maxFrac*balance)
		}
	}
}

func TestPlanPositionTargetsByVolatility(t *testing.T) {
	cases := []struct {
		halfRange float64
		t1, t2    float64
	}{
		{0.5, 10, 18}, // ATR 1% -> conservative targets
		{1, 12, 20},   // ATR 2% -> base targets
		{3, 15, 25},   // ATR 6% -> aggressive targets
	}
	for _, tc := range cases {
		bars := barsFromCloses(flatCloses(30, 100), tc.halfRange)
		plan := PlanPosition(bars, 100, 10_000_000, models.RegimeTrending)
		if plan.ProfitTarget1 != tc.t1 || plan.ProfitTarget2 != tc.t2 {
			t.Errorf("halfRange=%v: targets (%v, %v), want (%v, %v)",
				tc.halfRange, plan.ProfitTarget1, plan.ProfitTarget2, tc.t1, tc.t2)
		}
	}
}

func TestPlanPositionSidewaysHalves(t *testing.T) {
	bars := barsFromCloses(flatCloses(30, 100), 1)
	normal := PlanPosition(bars, 100, 100_000_000, models.RegimeTrending)
	sideways := PlanPosition(bars, 100, 100_000_000, models.RegimeSideways)
	if sideways.Shares >= normal.Shares {
		t.Errorf("sideways %d shares not reduced vs %d", sideways.Shares, normal.Shares)
	}
}

// Zero shares means "do not enter", never an error.
func TestPlanPositionDegradesToZero(t *testing.T) {
	short := barsFromCloses(flatCloses(10, 100), 1)
	if plan := PlanPosition(short, 100, 10_000_000, models.RegimeTrending); plan.Shares != 0 {
		t.Errorf("short series: shares = %d, want 0", plan.Shares)
	}
	full := barsFromCloses(flatCloses(30, 100), 1)
	if plan := PlanPosition(full, 0, 10_000_000, models.RegimeTrending); plan.Shares != 0 {
		t.Errorf("no price: shares = %d, want 0", plan.Shares)
	}
}
