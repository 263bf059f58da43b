package models

type Regime string

const (
	RegimeTrending Regime = "trending"
	RegimeSideways Regime = "sideways"
	RegimeCrash    Regime = "crash"
	RegimeUnknown  Regime = "unknown"
)

// RegimeState is produced fresh every cycle and never persisted.
// Err is set when the live price query failed; in that case the regime is
// RegimeUnknown rather than an assumed "not a crash".
type RegimeState struct {
	Regime         Regime
	ADX            float64
	ATR            float64
	PriceChange5D  float64
	IntradayChange Metric
	Volatility     float64
	MAFast         float64
	MASlow         float64
	CurrentPrice   float64
	Err            error
}
