package backtest

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// WriteReport dumps the result as JSON.
func WriteReport(path string, res Result) error {
	data, err := sonic.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write report")
	}
	return nil
}

// PrintSummary writes the human-readable figures to stdout.
func PrintSummary(s Summary) {
	fmt.Printf("initial cash:   %.0f\n", s.InitialCash)
	fmt.Printf("final equity:   %.0f (%.2f%%)\n", s.FinalEquity, s.TotalReturnPct)
	fmt.Printf("trades:         %d (%d closed)\n", s.TotalTrades, s.ClosedTrades)
	if s.ClosedTrades > 0 {
		fmt.Printf("win rate:       %.1f%%\n", s.WinRate)
		fmt.Printf("avg win/loss:   %.2f%% / %.2f%%\n", s.AvgWinPct, s.AvgLossPct)
	}
	fmt.Printf("max drawdown:   %.2f%%\n", s.MaxDrawdownPct)
	fmt.Printf("sharpe:         %.2f\n", s.Sharpe)
}
