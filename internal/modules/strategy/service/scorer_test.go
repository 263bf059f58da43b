package service

import (
	"strings"
	"testing"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

func d(v float64) models.Metric { return models.Defined(v) }

// Only the MA check (2.0) and the RSI check (1.0) pass: raw 3.0 out of
// 7.5 normalizes to exactly 2.0, floored to score 2.
func TestScoreMAPlusRSIOnly(t *testing.T) {
	latest := models.IndicatorSet{
		MAFast: d(101), MASlow: d(100),
		RSI:  d(50),
		MACD: d(-1), MACDSignal: d(0), MACDHist: d(-1),
		BBLower: d(90), BBMid: d(95), BBUpper: d(110),
	}
	prev := models.IndicatorSet{RSI: d(45)}

	// close 100 sits above the mid band, volume flat: both checks fail.
	res := Score(latest, prev, 100, 1000, 1000)
	if res.WeightedRaw != 3.0 {
		t.Errorf("raw = %v, want 3.0", res.WeightedRaw)
	}
	if res.Score != 2 {
		t.Errorf("score = %d, want 2", res.Score)
	}
}

func TestScoreAllChecksPass(t *testing.T) {
	latest := models.IndicatorSet{
		MAFast: d(101), MASlow: d(100),
		RSI:  d(55),
		MACD: d(2), MACDSignal: d(1), MACDHist: d(1),
		BBLower: d(90), BBMid: d(105), BBUpper: d(120),
	}
	prev := models.IndicatorSet{RSI: d(50)}

	// Volume surge (2x) grades the volume weight up to 3.0: raw 8.5 > max
	// 7.5, so the normalized value must clamp at 5.
	res := Score(latest, prev, 100, 2000, 1000)
	if res.Score != 5 {
		t.Errorf("score = %d, want clamped 5", res.Score)
	}
}

func TestScoreRangeInvariant(t *testing.T) {
	sets := []struct {
		latest models.IndicatorSet
		prev   models.IndicatorSet
		close  float64
		vol    float64
		avg    float64
	}{
		{models.IndicatorSet{}, models.IndicatorSet{}, 0, 0, 0},
		{models.IndicatorSet{MAFast: d(1), MASlow: d(2)}, models.IndicatorSet{}, 1, 1, 1},
		{
			models.IndicatorSet{
				MAFast: d(200), MASlow: d(100), RSI: d(60),
				MACD: d(5), MACDSignal: d(1), MACDHist: d(4),
				BBLower: d(90), BBMid: d(300), BBUpper: d(400),
			},
			models.IndicatorSet{RSI: d(40)}, 100, 10000, 1000,
		},
	}
	for i, tc := range sets {
		res := Score(tc.latest, tc.prev, tc.close, tc.vol, tc.avg)
		if res.Score < 0 || res.Score > 5 {
			t.Errorf("case %d: score %d outside 0..5", i, res.Score)
		}
	}
}

// Missing indicators must not abort the other checks: an undefined MACD
// still lets MA contribute, and the result carries a "cannot compute" note.
func TestScoreUndefinedMetricDegrades(t *testing.T) {
	latest := models.IndicatorSet{MAFast: d(101), MASlow: d(100)}
	res := Score(latest, models.IndicatorSet{}, 100, 0, 0)
	if res.WeightedRaw != weightMA {
		t.Errorf("raw = %v, want %v from the MA check alone", res.WeightedRaw, weightMA)
	}
	found := false
	for _, note := range res.Explanations {
		if strings.Contains(note, "cannot compute") {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected a cannot-compute explanation")
	}
}

func TestScoreBarsInsufficientData(t *testing.T) {
	res := ScoreBars(barsFromCloses(flatCloses(10, 100), 1))
	if res.Score != 0 {
		t.Errorf("score = %d, want 0 on short series", res.Score)
	}
	if len(res.Explanations) == 0 {
		t.Error("expected an explanation for the degraded score")
	}
}

// Oversold close below the lower band earns the Bollinger weight just like
// the lower-half position does.
func TestScoreBollingerOversold(t *testing.T) {
	latest := models.IndicatorSet{BBLower: d(95), BBMid: d(100), BBUpper: d(105)}
	res := Score(latest, models.IndicatorSet{}, 90, 0, 0)
	if res.WeightedRaw != weightBB {
		t.Errorf("raw = %v, want %v", res.WeightedRaw, weightBB)
	}
}
