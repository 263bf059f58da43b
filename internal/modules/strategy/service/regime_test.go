package service

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

func TestClassifyCrashOn5DayDrop(t *testing.T) {
	// 16 flat closes then 98, 95, 91, 88: the 5-bar window is
	// [100 98 95 91 88], a -12% change.
	closes := append(flatCloses(16, 100), 98, 95, 91, 88)
	bars := barsFromCloses(closes, 1)
	latest, _, err := Indicators(bars)
	if err != nil {
		t.Fatalf("indicators: %v", err)
	}

	state := ClassifyRegime(bars, latest, 88, nil)
	if state.Regime != models.RegimeCrash {
		t.Fatalf("regime = %s, want crash", state.Regime)
	}
	if math.Abs(state.PriceChange5D-(-12.0)) > 1e-9 {
		t.Errorf("5d change = %v, want -12", state.PriceChange5D)
	}
}

func TestClassifyCrashOnIntradayDrop(t *testing.T) {
	bars := barsFromCloses(flatCloses(30, 100), 0.2)
	latest, _, _ := Indicators(bars)

	// Flat history but the live price is 6% under the prior close.
	state := ClassifyRegime(bars, latest, 94, nil)
	if state.Regime != models.RegimeCrash {
		t.Errorf("regime = %s, want crash on intraday drop", state.Regime)
	}
}

func TestClassifySideways(t *testing.T) {
	closes := append(flatCloses(19, 100), 101)
	bars := barsFromCloses(closes, 0.2)

	// Snapshot values per the scenario: ADX 18, MA gap 0.99% under the 2%
	// threshold.
	latest := models.IndicatorSet{
		ADX:    d(18),
		MAFast: d(101), MASlow: d(100),
	}
	state := ClassifyRegime(bars, latest, 101, nil)
	if state.Regime != models.RegimeSideways {
		t.Errorf("regime = %s, want sideways", state.Regime)
	}
}

func TestClassifyTrending(t *testing.T) {
	closes := append(flatCloses(19, 100), 101)
	bars := barsFromCloses(closes, 0.2)
	latest := models.IndicatorSet{ADX: d(30), MAFast: d(110), MASlow: d(100)}
	state := ClassifyRegime(bars, latest, 101, nil)
	if state.Regime != models.RegimeTrending {
		t.Errorf("regime = %s, want trending", state.Regime)
	}
}

func TestClassifyUnknownWithoutADX(t *testing.T) {
	closes := append(flatCloses(19, 100), 101)
	bars := barsFromCloses(closes, 0.2)
	state := ClassifyRegime(bars, models.IndicatorSet{MAFast: d(110), MASlow: d(100)}, 101, nil)
	if state.Regime != models.RegimeUnknown {
		t.Errorf("regime = %s, want unknown when ADX is undefined", state.Regime)
	}
}

// A failed live-price query must propagate as unknown with the error
// recorded — even when the bar history alone would not look like a crash.
func TestClassifyPriceFailureIsUnknown(t *testing.T) {
	bars := barsFromCloses(flatCloses(30, 100), 0.2)
	latest, _, _ := Indicators(bars)

	state := ClassifyRegime(bars, latest, 0, errors.New("quote endpoint down"))
	if state.Regime != models.RegimeUnknown {
		t.Fatalf("regime = %s, want unknown on price failure", state.Regime)
	}
	if state.Err == nil {
		t.Error("error must be recorded on the snapshot")
	}
	if state.IntradayChange.Valid {
		t.Error("intraday change must stay undefined without a price")
	}
}

// Pure function: identical inputs give identical states.
func TestClassifyIdempotent(t *testing.T) {
	closes := append(flatCloses(16, 100), 98, 95, 91, 88)
	bars := barsFromCloses(closes, 1)
	latest, _, _ := Indicators(bars)

	a := ClassifyRegime(bars, latest, 88, nil)
	b := ClassifyRegime(bars, latest, 88, nil)
	if a.Regime != b.Regime || a.PriceChange5D != b.PriceChange5D || a.Volatility != b.Volatility {
		t.Errorf("repeated classification diverged: %+v vs %+v", a, b)
	}
}
