package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// Trades implement db store
type Trades struct{}

// NewTrades instance
func NewTrades() *Trades {
	return &Trades{}
}

func (t *Trades) InsertBuy(ctx context.Context, tx pgx.Tx, trade *models.Trade) (id int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Trades.InsertBuy: %w", err)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO trades (type, trade_date, code, name, quantity, price, signals)
		VALUES ('buy', $1, $2, $3, $4, $5, $6)
		RETURNING id`,
		trade.Date, trade.Code, trade.Name, trade.Quantity, trade.Price, trade.Signals,
	).Scan(&id)
	return
}

func (t *Trades) InsertSell(ctx context.Context, tx pgx.Tx, trade *models.Trade) (id int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Trades.InsertSell: %w", err)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO trades (type, buy_id, trade_date, code, name, quantity, price, profit_rate, reason)
		VALUES ('sell', $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		trade.BuyID, trade.Date, trade.Code, trade.Name, trade.Quantity, trade.Price,
		trade.ProfitRate, trade.Reason,
	).Scan(&id)
	return
}

func (t *Trades) Stats(ctx context.Context, tx pgx.Tx) (stats *models.TradeStats, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Trades.Stats: %w", err)
		}
	}()

	stats = &models.TradeStats{ByReason: make(map[string]int)}

	err = tx.QueryRow(ctx, `
		SELECT
			count(*) FILTER (WHERE type = 'buy'),
			count(*) FILTER (WHERE type = 'sell'),
			count(*) FILTER (WHERE type = 'sell' AND profit_rate > 0),
			count(*) FILTER (WHERE type = 'sell' AND profit_rate <= 0),
			coalesce(avg(profit_rate) FILTER (WHERE type = 'sell'), 0)
		FROM trades`,
	).Scan(&stats.TotalBuys, &stats.TotalSells, &stats.Wins, &stats.Losses, &stats.AvgProfit)
	if err != nil {
		return nil, err
	}
	if stats.TotalSells > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.TotalSells) * 100
	}

	rows, err := tx.Query(ctx, `
		SELECT reason, count(*) FROM trades
		WHERE type = 'sell' GROUP BY reason`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var reason string
		var n int
		if err = rows.Scan(&reason, &n); err != nil {
			return nil, err
		}
		stats.ByReason[reason] = n
	}
	return stats, rows.Err()
}
