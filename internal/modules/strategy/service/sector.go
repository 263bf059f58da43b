package service

import (
	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// SectorSample is one representative stock's data for the rotation score.
type SectorSample struct {
	Bars  []models.Bar
	Price float64
}

// SectorScore rates a sector 0..100 from its representative stocks:
// 5-day return 60%, 20-day return 30%, volume change 10%, averaged across
// samples and rescaled so -10%..+10% maps onto the full range. Sectors
// with no usable sample score a neutral 50.
func SectorScore(samples []SectorSample) float64 {
	var total float64
	var count int

	for _, s := range samples {
		if len(s.Bars) < maSlowPeriod || s.Price <= 0 {
			continue
		}
		closes := models.Closes(s.Bars)
		vols := models.Volumes(s.Bars)
		n := len(closes)

		return5d := (s.Price - closes[n-5]) / closes[n-5] * 100
		return20d := (s.Price - closes[n-maSlowPeriod]) / closes[n-maSlowPeriod] * 100

		older := mean(vols[n-maSlowPeriod : n-5])
		recent := mean(vols[n-5:])
		var volumeChange float64
		if older > 0 {
			volumeChange = (recent - older) / older * 100
		}

		total += return5d*0.6 + return20d*0.3 + volumeChange*0.1
		count++
	}
	if count == 0 {
		return 50.0
	}

	score := (total/float64(count) + 10) * 5
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
