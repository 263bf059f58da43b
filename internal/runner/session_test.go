package runner

import (
	"testing"
	"time"

	"github.com/HyunWoo9930/AutoTrade/internal/modules/config"
)

func kst(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	return loc
}

func TestSessionClock(t *testing.T) {
	loc := kst(t)
	clock := NewSessionClock(&config.Config{OpenGuardMin: 10, CloseGuardMin: 10})

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		// 2026-09-01 is a Tuesday.
		{"mid session", time.Date(2026, 9, 1, 11, 0, 0, 0, loc), true},
		{"before open", time.Date(2026, 9, 1, 8, 59, 0, 0, loc), false},
		{"inside open guard", time.Date(2026, 9, 1, 9, 5, 0, 0, loc), false},
		{"guard boundary", time.Date(2026, 9, 1, 9, 10, 0, 0, loc), true},
		{"inside close guard", time.Date(2026, 9, 1, 15, 21, 0, 0, loc), false},
		{"before close guard", time.Date(2026, 9, 1, 15, 19, 0, 0, loc), true},
		{"after close", time.Date(2026, 9, 1, 16, 0, 0, 0, loc), false},
		{"saturday", time.Date(2026, 9, 5, 11, 0, 0, 0, loc), false},
		{"sunday", time.Date(2026, 9, 6, 11, 0, 0, 0, loc), false},
	}
	for _, tc := range cases {
		if got := clock.Tradable(tc.at); got != tc.want {
			t.Errorf("%s: Tradable(%v) = %v, want %v", tc.name, tc.at, got, tc.want)
		}
	}
}

func TestSessionClockOpenVersusTradable(t *testing.T) {
	loc := kst(t)
	clock := NewSessionClock(&config.Config{OpenGuardMin: 10, CloseGuardMin: 10})

	cases := []struct {
		name         string
		at           time.Time
		wantOpen     bool
		wantTradable bool
	}{
		// The guard minutes suspend entries but the session is still open,
		// so exits keep running there.
		{"inside open guard", time.Date(2026, 9, 1, 9, 5, 0, 0, loc), true, false},
		{"inside close guard", time.Date(2026, 9, 1, 15, 25, 0, 0, loc), true, false},
		{"mid session", time.Date(2026, 9, 1, 11, 0, 0, 0, loc), true, true},
		{"before open", time.Date(2026, 9, 1, 8, 30, 0, 0, loc), false, false},
		{"after close", time.Date(2026, 9, 1, 15, 30, 0, 0, loc), false, false},
	}
	for _, tc := range cases {
		if got := clock.SessionOpen(tc.at); got != tc.wantOpen {
			t.Errorf("%s: SessionOpen(%v) = %v, want %v", tc.name, tc.at, got, tc.wantOpen)
		}
		if got := clock.Tradable(tc.at); got != tc.wantTradable {
			t.Errorf("%s: Tradable(%v) = %v, want %v", tc.name, tc.at, got, tc.wantTradable)
		}
	}
}

func TestSessionClockTradingDay(t *testing.T) {
	kst(t)
	clock := NewSessionClock(&config.Config{})

	// A UTC evening timestamp is already the next day in Seoul.
	at := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	if got := clock.TradingDay(at); got != "2026-09-02" {
		t.Fatalf("TradingDay = %q, want 2026-09-02", got)
	}
}
