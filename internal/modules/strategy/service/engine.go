package service

import (
	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// Engine bundles the per-cycle analytics: indicators, the buy-signal score
// and the regime label for one symbol's bar window.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Evaluation is everything the position machine needs from one window.
type Evaluation struct {
	Latest models.IndicatorSet
	Prev   models.IndicatorSet
	Signal models.SignalResult
	Regime models.RegimeState
}

// Evaluate derives one cycle's view of a symbol. priceErr carries a failed
// live-price query into the regime classifier, which then reports
// RegimeUnknown instead of guessing. Fewer than 20 bars returns
// ErrInsufficientData and the caller skips the cycle.
func (e *Engine) Evaluate(bars []models.Bar, price float64, priceErr error) (Evaluation, error) {
	latest, prev, err := Indicators(bars)
	if err != nil {
		return Evaluation{}, err
	}

	closes := models.Closes(bars)
	vols := models.Volumes(bars)
	avgVol := mean(vols[len(vols)-maSlowPeriod:])

	return Evaluation{
		Latest: latest,
		Prev:   prev,
		Signal: Score(latest, prev, closes[len(closes)-1], vols[len(vols)-1], avgVol),
		Regime: ClassifyRegime(bars, latest, price, priceErr),
	}, nil
}

// Plan sizes an entry under the current regime.
func (e *Engine) Plan(bars []models.Bar, price, balance float64, regime models.Regime) models.PositionPlan {
	return PlanPosition(bars, price, balance, regime)
}
