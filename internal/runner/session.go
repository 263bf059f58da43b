package runner

import (
	"time"

	"github.com/HyunWoo9930/AutoTrade/internal/modules/config"
)

const (
	openHour    = 9
	closeHour   = 15
	closeMinute = 30
)

// SessionClock answers whether the KRX cash session is open, keeping a
// guard window after the open and before the close where the engine
// does not act on thin, noisy prints.
type SessionClock struct {
	loc        *time.Location
	openGuard  time.Duration
	closeGuard time.Duration
}

func NewSessionClock(cfg *config.Config) *SessionClock {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}
	return &SessionClock{
		loc:        loc,
		openGuard:  time.Duration(cfg.OpenGuardMin) * time.Minute,
		closeGuard: time.Duration(cfg.CloseGuardMin) * time.Minute,
	}
}

// SessionOpen reports whether the cash session is trading at t. Exits
// stay live for the whole session.
func (c *SessionClock) SessionOpen(t time.Time) bool {
	lt := t.In(c.loc)
	switch lt.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	open := time.Date(lt.Year(), lt.Month(), lt.Day(), openHour, 0, 0, 0, c.loc)
	closeAt := time.Date(lt.Year(), lt.Month(), lt.Day(), closeHour, closeMinute, 0, 0, c.loc)

	return !lt.Before(open) && lt.Before(closeAt)
}

// Tradable reports whether new entries may be opened at t: session open
// and outside the guard minutes around the open and close.
func (c *SessionClock) Tradable(t time.Time) bool {
	if !c.SessionOpen(t) {
		return false
	}
	lt := t.In(c.loc)

	open := time.Date(lt.Year(), lt.Month(), lt.Day(), openHour, 0, 0, 0, c.loc)
	closeAt := time.Date(lt.Year(), lt.Month(), lt.Day(), closeHour, closeMinute, 0, 0, c.loc)

	if lt.Before(open.Add(c.openGuard)) {
		return false
	}
	if !lt.Before(closeAt.Add(-c.closeGuard)) {
		return false
	}
	return true
}

// TradingDay returns the session date key for lockout records.
func (c *SessionClock) TradingDay(t time.Time) string {
	return t.In(c.loc).Format("2006-01-02")
}
