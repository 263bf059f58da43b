package service

import (
	"math"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// Indicator windows. 14 is fixed across the oscillators so the regime
// classifier and the sizer read the same volatility.
const (
	maFastPeriod   = 5
	maSlowPeriod   = 20
	rsiPeriod      = 14
	macdFastPeriod = 12
	macdSlowPeriod = 26
	macdSigPeriod  = 9
	bbPeriod       = 20
	bbMult         = 2.0
	adxPeriod      = 14
	atrPeriod      = 14
)

// MinBars is the shortest series the calculator accepts. Below it the
// caller gets ErrInsufficientData and must treat the cycle as "no signal".
const MinBars = 20

// Indicators derives the full set for the latest bar and the one prior
// (the prior set feeds delta checks such as "RSI rising").
func Indicators(bars []models.Bar) (latest, prev models.IndicatorSet, err error) {
	if len(bars) < MinBars {
		return models.IndicatorSet{}, models.IndicatorSet{}, models.ErrInsufficientData
	}

	closes := models.Closes(bars)
	n := len(closes)

	maFast := smaSeries(closes, maFastPeriod)
	maSlow := smaSeries(closes, maSlowPeriod)
	rsi := rsiSeries(closes, rsiPeriod)
	macd, macdSig, macdHist := macdSeries(closes)
	bbUp, bbMid, bbLo := bollingerSeries(closes, bbPeriod, bbMult)
	adx := adxSeries(bars, adxPeriod)
	atr := atrSeries(bars, atrPeriod)

	at := func(i int) models.IndicatorSet {
		return models.IndicatorSet{
			MAFast:     metricAt(maFast, i),
			MASlow:     metricAt(maSlow, i),
			RSI:        metricAt(rsi, i),
			MACD:       metricAt(macd, i),
			MACDSignal: metricAt(macdSig, i),
			MACDHist:   metricAt(macdHist, i),
			BBUpper:    metricAt(bbUp, i),
			BBMid:      metricAt(bbMid, i),
			BBLower:    metricAt(bbLo, i),
			ADX:        metricAt(adx, i),
			ATR:        metricAt(atr, i),
		}
	}
	return at(n - 1), at(n - 2), nil
}

// LatestATR is the sizer's view: just the volatility metric.
func LatestATR(bars []models.Bar) models.Metric {
	atr := atrSeries(bars, atrPeriod)
	if len(atr) == 0 {
		return models.Metric{}
	}
	return metricAt(atr, len(atr)-1)
}

func metricAt(series []float64, i int) models.Metric {
	if i < 0 || i >= len(series) || math.IsNaN(series[i]) {
		return models.Metric{}
	}
	return models.Defined(series[i])
}

// Series builders below use NaN for the warm-up prefix; metricAt converts
// to Metric validity at extraction.

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func smaSeries(src []float64, period int) []float64 {
	out := nanSeries(len(src))
	if period <= 0 || len(src) < period {
		return out
	}
	var sum float64
	for i, v := range src {
		sum += v
		if i >= period {
			sum -= src[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

func emaSeries(src []float64, period int) []float64 {
	out := nanSeries(len(src))
	if period <= 0 || len(src) < period {
		return out
	}
	// Seed with the SMA of the first window, then smooth.
	var sum float64
	for i := 0; i < period; i++ {
		sum += src[i]
	}
	out[period-1] = sum / float64(period)
	k := 2.0 / float64(period+1)
	for i := period; i < len(src); i++ {
		out[i] = src[i]*k + out[i-1]*(1-k)
	}
	return out
}

// rsiSeries computes Wilder's RSI.
func rsiSeries(src []float64, period int) []float64 {
	out := nanSeries(len(src))
	if len(src) < period+1 {
		return out
	}
	var gain, loss float64
	for i := 1; i <= period; i++ {
		delta := src[i] - src[i-1]
		if delta >= 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	out[period] = rsiValue(avgGain, avgLoss)
	for i := period + 1; i < len(src); i++ {
		delta := src[i] - src[i-1]
		var g, l float64
		if delta >= 0 {
			g = delta
		} else {
			l = -delta
		}
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// macdSeries returns the MACD 12/26 line, its 9-period signal line and the
// histogram. The signal line warms up only after nine defined MACD values.
func macdSeries(src []float64) (macd, signal, hist []float64) {
	n := len(src)
	macd, signal, hist = nanSeries(n), nanSeries(n), nanSeries(n)

	fast := emaSeries(src, macdFastPeriod)
	slow := emaSeries(src, macdSlowPeriod)
	firstMACD := -1
	for i := 0; i < n; i++ {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			macd[i] = fast[i] - slow[i]
			if firstMACD < 0 {
				firstMACD = i
			}
		}
	}
	if firstMACD < 0 {
		return macd, signal, hist
	}

	sig := emaSeries(macd[firstMACD:], macdSigPeriod)
	for j, v := range sig {
		i := firstMACD + j
		if !math.IsNaN(v) {
			signal[i] = v
			hist[i] = macd[i] - v
		}
	}
	return macd, signal, hist
}

func bollingerSeries(src []float64, period int, mult float64) (upper, mid, lower []float64) {
	n := len(src)
	upper, mid, lower = nanSeries(n), nanSeries(n), nanSeries(n)
	if len(src) < period {
		return upper, mid, lower
	}
	for i := period - 1; i < n; i++ {
		window := src[i-period+1 : i+1]
		m := mean(window)
		sd := stdDev(window, m)
		mid[i] = m
		upper[i] = m + mult*sd
		lower[i] = m - mult*sd
	}
	return upper, mid, lower
}

// atrSeries computes Wilder-smoothed Average True Range.
func atrSeries(bars []models.Bar, period int) []float64 {
	out := nanSeries(len(bars))
	if len(bars) < period+1 {
		return out
	}
	tr := trueRanges(bars)
	var sum float64
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	out[period] = sum / float64(period)
	for i := period + 1; i < len(bars); i++ {
		out[i] = (out[i-1]*float64(period-1) + tr[i]) / float64(period)
	}
	return out
}

// trueRanges[0] is unused; TR needs a prior close.
func trueRanges(bars []models.Bar) []float64 {
	tr := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		h, l, pc := bars[i].High, bars[i].Low, bars[i-1].Close
		tr[i] = math.Max(h-l, math.Max(math.Abs(h-pc), math.Abs(l-pc)))
	}
	return tr
}

// adxSeries computes Wilder's ADX. The first value lands at index
// 2*period, so a 20-bar series leaves ADX undefined; the classifier treats
// that as neither trending nor sideways.
func adxSeries(bars []models.Bar, period int) []float64 {
	n := len(bars)
	out := nanSeries(n)
	if n < 2*period+1 {
		return out
	}

	tr := trueRanges(bars)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	// Wilder smoothing: seed with the first-window sum.
	var smTR, smPlus, smMinus float64
	for i := 1; i <= period; i++ {
		smTR += tr[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}

	dx := nanSeries(n)
	dx[period] = dxValue(smPlus, smMinus, smTR)
	for i := period + 1; i < n; i++ {
		smTR = smTR - smTR/float64(period) + tr[i]
		smPlus = smPlus - smPlus/float64(period) + plusDM[i]
		smMinus = smMinus - smMinus/float64(period) + minusDM[i]
		dx[i] = dxValue(smPlus, smMinus, smTR)
	}

	var dxSum float64
	for i := period; i < 2*period; i++ {
		dxSum += dx[i]
	}
	out[2*period] = dxSum / float64(period)
	for i := 2*period + 1; i < n; i++ {
		out[i] = (out[i-1]*float64(period-1) + dx[i]) / float64(period)
	}
	return out
}

func dxValue(plusDM, minusDM, tr float64) float64 {
	if tr == 0 {
		return 0
	}
	plusDI := 100 * plusDM / tr
	minusDI := 100 * minusDM / tr
	if plusDI+minusDI == 0 {
		return 0
	}
	return 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func stdDev(data []float64, m float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(data)))
}
