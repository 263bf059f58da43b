package runner

import (
	"sync"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// PositionStore tracks per-symbol entry plans, staging state, peak profit
// and taken profit targets. In-memory: the broker account is the source
// of truth for quantities; this holds only what the broker cannot return.
type PositionStore struct {
	mu       sync.RWMutex
	plans    map[string]*models.PyramidPlan
	states   map[string]models.PositionState
	peaks    map[string]float64
	pt1Taken map[string]bool
}

func NewPositionStore() *PositionStore {
	return &PositionStore{
		plans:    make(map[string]*models.PyramidPlan),
		states:   make(map[string]models.PositionState),
		peaks:    make(map[string]float64),
		pt1Taken: make(map[string]bool),
	}
}

func (s *PositionStore) Plan(code string) *models.PyramidPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plans[code]
}

func (s *PositionStore) State(code string) models.PositionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.states[code]; ok {
		return st
	}
	return models.PositionFlat
}

// SetEntry registers a fresh entry. Resets the peak and target trackers.
func (s *PositionStore) SetEntry(code string, plan *models.PyramidPlan, state models.PositionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[code] = plan
	s.states[code] = state
	s.peaks[code] = 0
	s.pt1Taken[code] = false
}

func (s *PositionStore) PromoteFull(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[code] = models.PositionFull
}

// UpdatePeak records the highest profit seen and returns it.
func (s *PositionStore) UpdatePeak(code string, profitPct float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profitPct > s.peaks[code] {
		s.peaks[code] = profitPct
	}
	return s.peaks[code]
}

func (s *PositionStore) Peak(code string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.peaks[code]
}

func (s *PositionStore) MarkTarget1(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pt1Taken[code] = true
}

func (s *PositionStore) Target1Taken(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pt1Taken[code]
}

// Clear drops every tracker for the symbol after a full exit.
func (s *PositionStore) Clear(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plans, code)
	delete(s.states, code)
	delete(s.peaks, code)
	delete(s.pt1Taken, code)
}
