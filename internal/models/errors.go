package models

import "github.com/pkg/errors"

// Expected-absence conditions are sentinel errors so callers can degrade to
// "no action" instead of treating them as faults.
var (
	// ErrDataUnavailable covers holidays, delistings and empty payloads
	// from the market data provider.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrInsufficientData means the bar window is too short for the
	// requested indicator set. Callers treat it as "no signal".
	ErrInsufficientData = errors.New("insufficient bars")

	// ErrOrderRejected means the broker declined the order. No in-memory
	// state may be mutated on this error.
	ErrOrderRejected = errors.New("order rejected")
)
