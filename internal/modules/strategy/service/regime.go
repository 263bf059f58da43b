package service

import (
	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// Regime thresholds, matched across the entry gate and the crash exits.
const (
	crashChange5D     = -10.0 // 5-bar close change, percent
	crashVolatility   = 10.0  // 20-bar stdev/mean, percent
	crashIntraday     = -5.0  // live price vs prior close, percent
	sidewaysADX       = 25.0
	sidewaysMAGapPct  = 2.0
	volatilityWindow  = 20
	changeLookbackLen = 5
)

// ClassifyRegime labels the symbol's current market state. First matching
// clause wins; later clauses are not evaluated.
//
// priceErr carries a failed live-price query: the result is then
// RegimeUnknown with the error recorded. Assuming "not a crash" on a
// failed query is the one thing this function must never do.
func ClassifyRegime(bars []models.Bar, latest models.IndicatorSet, price float64, priceErr error) models.RegimeState {
	state := models.RegimeState{Regime: models.RegimeUnknown}
	if len(bars) < volatilityWindow {
		return state
	}

	closes := models.Closes(bars)
	n := len(closes)
	lastClose := closes[n-1]

	state.PriceChange5D = (lastClose - closes[n-changeLookbackLen]) / closes[n-changeLookbackLen] * 100

	window := closes[n-volatilityWindow:]
	m := mean(window)
	if m > 0 {
		state.Volatility = stdDev(window, m) / m * 100
	}
	if latest.ADX.Valid {
		state.ADX = latest.ADX.Value
	}
	if latest.ATR.Valid {
		state.ATR = latest.ATR.Value
	}
	if latest.MAFast.Valid {
		state.MAFast = latest.MAFast.Value
	}
	if latest.MASlow.Valid {
		state.MASlow = latest.MASlow.Value
	}

	if priceErr != nil {
		state.Err = priceErr
		return state
	}
	state.CurrentPrice = price
	state.IntradayChange = models.Defined((price - lastClose) / lastClose * 100)

	// Crash: steep 5-bar decline, or decline with high volatility, or an
	// intraday drop against the prior close.
	if state.PriceChange5D < crashChange5D {
		state.Regime = models.RegimeCrash
		return state
	}
	if state.PriceChange5D < 0 && state.Volatility > crashVolatility {
		state.Regime = models.RegimeCrash
		return state
	}
	if state.IntradayChange.Value < crashIntraday {
		state.Regime = models.RegimeCrash
		return state
	}

	// Sideways: weak trend with converged moving averages.
	if latest.ADX.Valid && latest.ADX.Value < sidewaysADX &&
		latest.MAFast.Valid && latest.MASlow.Valid && latest.MASlow.Value > 0 {
		gap := latest.MAFast.Value - latest.MASlow.Value
		if gap < 0 {
			gap = -gap
		}
		if gap/latest.MASlow.Value*100 < sidewaysMAGapPct {
			state.Regime = models.RegimeSideways
			return state
		}
	}

	if latest.ADX.Valid && latest.ADX.Value >= sidewaysADX {
		state.Regime = models.RegimeTrending
		return state
	}

	return state
}
