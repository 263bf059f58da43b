package notify

import (
	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// Typed event helpers so every call site formats alerts the same way.

func StrongSignal(n Notifier, code, name string, sig models.SignalResult) {
	n.Sendf("🔔 %s (%s) signal %d/5\n%s", name, code, sig.Score, joinLines(sig.Explanations))
}

func Bought(n Notifier, code, name string, qty int, price float64, stage string) {
	n.Sendf("🟢 BUY %s (%s) x%d @ %.0f [%s]", name, code, qty, price, stage)
}

func Sold(n Notifier, code, name string, qty int, price, profitPct float64, reason string) {
	n.Sendf("🔴 SELL %s (%s) x%d @ %.0f pnl=%.2f%% [%s]", name, code, qty, price, profitPct, reason)
}

func RegimeChanged(n Notifier, from, to models.Regime) {
	n.Sendf("🌐 market regime: %s → %s", from, to)
}

func CrashProtection(n Notifier, code string, qty int, profitPct float64) {
	n.Sendf("⚠️ crash protection: selling %s x%d (pnl=%.2f%%)", code, qty, profitPct)
}

func Failure(n Notifier, context string, err error) {
	n.Sendf("❗️ %s: %v", context, err)
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += "• " + l
	}
	return out
}
