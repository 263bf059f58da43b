package service

import (
	"math"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// Sizing parameters: a 2% risk budget per trade, stop distance scaled by
// ATR-as-percent-of-price and clamped to [3%, 8%], and a per-symbol cap on
// position value.
const (
	riskBudgetPct = 0.02

	baseStopPct      = 0.05
	baseStopPctCrash = 0.03
	stopPctMin       = 0.03
	stopPctMax       = 0.08

	lowATRPct  = 2.0
	highATRPct = 5.0

	maxPositionPct         = 0.10
	maxPositionPctSideways = 0.05
)

// PlanPosition converts balance, regime and the instrument's volatility
// into a share count, stop distance and two profit targets.
//
// Zero shares means "do not enter" — returned when the series is too short
// for an ATR (fewer than 14 bars) or the price is unavailable. Callers
// must not treat that as an error.
func PlanPosition(bars []models.Bar, price, balance float64, regime models.Regime) models.PositionPlan {
	if len(bars) < atrPeriod || price <= 0 || balance <= 0 {
		return models.PositionPlan{}
	}
	atr := LatestATR(bars)
	if !atr.Valid {
		return models.PositionPlan{}
	}
	atrPct := atr.Value / price * 100

	stop := baseStopPct
	if regime == models.RegimeCrash {
		stop = baseStopPctCrash
	}
	switch {
	case atrPct < lowATRPct:
		stop *= 0.8
	case atrPct > highATRPct:
		stop *= 1.5
	}
	stop = math.Max(stopPctMin, math.Min(stop, stopPctMax))

	var target1, target2 float64
	switch {
	case atrPct < lowATRPct:
		target1, target2 = 10.0, 18.0
	case atrPct > highATRPct:
		target1, target2 = 15.0, 25.0
	default:
		target1, target2 = 12.0, 20.0
	}

	shares := int(balance * riskBudgetPct / (price * stop))
	if regime == models.RegimeSideways {
		shares /= 2
	}

	maxFrac := maxPositionPct
	if regime == models.RegimeSideways {
		maxFrac = maxPositionPctSideways
	}
	if maxShares := int(maxFrac * balance / price); shares > maxShares {
		shares = maxShares
	}

	return models.PositionPlan{
		Shares:        shares,
		EntryPrice:    price,
		ATR:           atr.Value,
		StopLossPct:   stop,
		ProfitTarget1: target1,
		ProfitTarget2: target2,
	}
}
