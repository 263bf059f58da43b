package models

// SignalResult is the scorer output: 0..5 strength plus the raw weighted
// sum and per-check explanations for the notifier/journal.
type SignalResult struct {
	Score        int
	WeightedRaw  float64
	WeightedMax  float64
	Explanations []string
}

// Strong signals get their own notification tier.
func (s SignalResult) Strong() bool { return s.Score >= 4 }
