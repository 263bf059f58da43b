package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/HyunWoo9930/AutoTrade/internal/backtest"
	"github.com/HyunWoo9930/AutoTrade/internal/models"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/strategy/service"
)

func main() {
	var (
		configPath = flag.String("config", "configs/values_local.yaml", "watchlist config")
		dataDir    = flag.String("data", "data", "directory with <code>.csv daily bars")
		cash       = flag.Float64("cash", 10_000_000, "initial cash")
		out        = flag.String("out", "", "optional JSON report path")
	)
	flag.Parse()

	if err := run(*configPath, *dataDir, *cash, *out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, dataDir string, cash float64, out string) error {
	engine := viper.New()
	engine.SetConfigFile(configPath)
	if err := engine.ReadInConfig(); err != nil {
		return errors.Wrap(err, "read config")
	}

	var watchlist models.Watchlist
	if err := engine.UnmarshalKey("watchlist", &watchlist); err != nil {
		return errors.Wrap(err, "decode watchlist")
	}
	maxHoldings := engine.GetInt("max_holdings")
	if maxHoldings == 0 {
		maxHoldings = 10
	}

	data := make(map[string][]models.Bar)
	names := make(map[string]string)
	for _, stock := range watchlist.All() {
		bars, err := loadBars(filepath.Join(dataDir, stock.Code+".csv"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "skip %s (%s): %v\n", stock.Name, stock.Code, err)
			continue
		}
		data[stock.Code] = bars
		names[stock.Code] = stock.Name
	}
	if len(data) == 0 {
		return errors.New("no usable bar files")
	}

	runner := backtest.NewRunner(service.NewEngine(), cash, maxHoldings)
	res := runner.Run(data, names)

	backtest.PrintSummary(res.Summary)
	if out != "" {
		if err := backtest.WriteReport(out, res); err != nil {
			return err
		}
		fmt.Printf("report written to %s\n", out)
	}
	return nil
}

// loadBars reads a CSV of date,open,high,low,close,volume rows in
// chronological order. A header row is skipped if present.
func loadBars(path string) ([]models.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse csv")
	}

	bars := make([]models.Bar, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, errors.Errorf("row %d: want 6 columns, got %d", i+1, len(row))
		}
		date, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			if i == 0 {
				continue // header
			}
			return nil, errors.Wrapf(err, "row %d", i+1)
		}
		bar := models.Bar{Date: date}
		for j, dst := range []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume} {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d col %d", i+1, j+2)
			}
			*dst = v
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, errors.New("no rows")
	}
	return bars, nil
}
