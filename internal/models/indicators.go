package models

// Metric is an indicator value that may be undefined while the lookback
// window is still filling. Invalid metrics never participate in scoring.
type Metric struct {
	Value float64
	Valid bool
}

func Defined(v float64) Metric { return Metric{Value: v, Valid: true} }

// IndicatorSet holds the derived values for a single bar.
type IndicatorSet struct {
	MAFast     Metric // SMA 5
	MASlow     Metric // SMA 20
	RSI        Metric // Wilder 14
	MACD       Metric // EMA12 - EMA26
	MACDSignal Metric // EMA9 of MACD series
	MACDHist   Metric
	BBUpper    Metric // Bollinger 20 / 2 sigma
	BBMid      Metric
	BBLower    Metric
	ADX        Metric // Wilder 14
	ATR        Metric // Wilder 14
}
