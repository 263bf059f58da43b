package service

import "testing"

func TestSectorScoreNeutralWithoutSamples(t *testing.T) {
	if got := SectorScore(nil); got != 50.0 {
		t.Errorf("empty sector score = %v, want neutral 50", got)
	}
	// Unusable samples (short series) also fall back to neutral.
	short := []SectorSample{{Bars: barsFromCloses(flatCloses(5, 100), 1), Price: 100}}
	if got := SectorScore(short); got != 50.0 {
		t.Errorf("short-sample sector score = %v, want 50", got)
	}
}

func TestSectorScoreDirection(t *testing.T) {
	flat := barsFromCloses(flatCloses(20, 100), 1)

	up := SectorScore([]SectorSample{{Bars: flat, Price: 110}})
	down := SectorScore([]SectorSample{{Bars: flat, Price: 90}})
	even := SectorScore([]SectorSample{{Bars: flat, Price: 100}})

	if up <= even || down >= even {
		t.Errorf("ordering broken: up=%v even=%v down=%v", up, even, down)
	}
	for _, v := range []float64{up, down, even} {
		if v < 0 || v > 100 {
			t.Errorf("score %v outside 0..100", v)
		}
	}
}
