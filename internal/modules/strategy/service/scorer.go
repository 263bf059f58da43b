package service

import (
	"fmt"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// Fixed check weights. Volume is graded: full weight above 1.3x the 20-bar
// average, 1.5x the weight above 1.8x.
const (
	weightMA     = 2.0
	weightRSI    = 1.0
	weightMACD   = 1.5
	weightVolume = 2.0
	weightBB     = 1.0

	weightMax = weightMA + weightRSI + weightMACD + weightVolume + weightBB

	volumeRatioFull  = 1.3
	volumeRatioSurge = 1.8
)

// Score runs the five weighted buy checks and normalizes the sum to an
// integer 0..5 (floored — the surge-graded volume check can push the raw
// sum past weightMax, so the result is also clamped).
//
// A check whose inputs are undefined contributes zero and appends a
// "cannot compute" note; it never aborts the remaining checks. Pure
// function: the only output besides the score is the explanation list.
func Score(latest, prev models.IndicatorSet, lastClose, lastVolume, avgVolume20 float64) models.SignalResult {
	var raw float64
	var notes []string

	// 1. Trend: fast MA above slow MA.
	if latest.MAFast.Valid && latest.MASlow.Valid {
		if latest.MAFast.Value > latest.MASlow.Value {
			raw += weightMA
			notes = append(notes, fmt.Sprintf("MA aligned (fast %.0f > slow %.0f) [+%.1f]",
				latest.MAFast.Value, latest.MASlow.Value, weightMA))
		} else {
			notes = append(notes, fmt.Sprintf("MA inverted (fast %.0f < slow %.0f)",
				latest.MAFast.Value, latest.MASlow.Value))
		}
	} else {
		notes = append(notes, "MA: cannot compute")
	}

	// 2. Momentum: RSI in the neutral band and rising.
	if latest.RSI.Valid && prev.RSI.Valid {
		if latest.RSI.Value > 30 && latest.RSI.Value < 70 && latest.RSI.Value > prev.RSI.Value {
			raw += weightRSI
			notes = append(notes, fmt.Sprintf("RSI neutral and rising (%.1f) [+%.1f]", latest.RSI.Value, weightRSI))
		} else {
			notes = append(notes, fmt.Sprintf("RSI unsuitable (%.1f, prev %.1f)", latest.RSI.Value, prev.RSI.Value))
		}
	} else {
		notes = append(notes, "RSI: cannot compute")
	}

	// 3. Trend change: MACD above its signal with a positive histogram.
	if latest.MACD.Valid && latest.MACDSignal.Valid && latest.MACDHist.Valid {
		if latest.MACD.Value > latest.MACDSignal.Value && latest.MACDHist.Value > 0 {
			raw += weightMACD
			notes = append(notes, fmt.Sprintf("MACD golden cross [+%.1f]", weightMACD))
		} else {
			notes = append(notes, fmt.Sprintf("MACD weak (%.1f vs signal %.1f)",
				latest.MACD.Value, latest.MACDSignal.Value))
		}
	} else {
		notes = append(notes, "MACD: cannot compute")
	}

	// 4. Volume vs the 20-bar average.
	if avgVolume20 > 0 {
		ratio := lastVolume / avgVolume20
		switch {
		case ratio > volumeRatioSurge:
			raw += weightVolume * 1.5
			notes = append(notes, fmt.Sprintf("volume surge (%.1fx) [+%.1f]", ratio, weightVolume*1.5))
		case ratio > volumeRatioFull:
			raw += weightVolume
			notes = append(notes, fmt.Sprintf("volume elevated (%.1fx) [+%.1f]", ratio, weightVolume))
		default:
			notes = append(notes, fmt.Sprintf("volume thin (%.1fx, need %.1fx+)", ratio, volumeRatioFull))
		}
	} else {
		notes = append(notes, "volume: cannot compute")
	}

	// 5. Bollinger position: lower half of the band, or below it (oversold).
	if latest.BBLower.Valid && latest.BBMid.Valid && latest.BBUpper.Valid {
		switch {
		case lastClose > latest.BBLower.Value && lastClose < latest.BBMid.Value:
			raw += weightBB
			notes = append(notes, fmt.Sprintf("Bollinger lower half [+%.1f]", weightBB))
		case lastClose < latest.BBLower.Value:
			raw += weightBB
			notes = append(notes, fmt.Sprintf("Bollinger breakdown, oversold [+%.1f]", weightBB))
		default:
			notes = append(notes, "Bollinger upper half (overbought)")
		}
	} else {
		notes = append(notes, "Bollinger: cannot compute")
	}

	normalized := raw / weightMax * 5.0
	score := int(normalized) // floor
	if score > 5 {
		score = 5
	}
	if score < 0 {
		score = 0
	}
	notes = append(notes, fmt.Sprintf("weighted %.1f/%.1f -> %.2f/5 -> score %d/5", raw, weightMax, normalized, score))

	return models.SignalResult{
		Score:        score,
		WeightedRaw:  raw,
		WeightedMax:  weightMax,
		Explanations: notes,
	}
}

// ScoreBars is the convenience form used by the runner and the backtest:
// derive indicators from the series, then score. Insufficient data
// degrades to a zero score with a single explanation.
func ScoreBars(bars []models.Bar) models.SignalResult {
	latest, prev, err := Indicators(bars)
	if err != nil {
		return models.SignalResult{
			WeightedMax:  weightMax,
			Explanations: []string{fmt.Sprintf("no score: %v (have %d bars)", err, len(bars))},
		}
	}
	closes := models.Closes(bars)
	vols := models.Volumes(bars)
	avgVol := mean(vols[len(vols)-maSlowPeriod:])
	return Score(latest, prev, closes[len(closes)-1], vols[len(vols)-1], avgVol)
}
