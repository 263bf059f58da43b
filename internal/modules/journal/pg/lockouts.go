package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// Lockouts implement db store
type Lockouts struct{}

// NewLockouts instance
func NewLockouts() *Lockouts {
	return &Lockouts{}
}

func (l *Lockouts) Upsert(ctx context.Context, tx pgx.Tx, rec *models.LockoutRecord) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Lockouts.Upsert: %w", err)
		}
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO lockouts (code, day, profit_rate, peak_profit, reason)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code, day) DO UPDATE
		SET profit_rate = excluded.profit_rate,
		    peak_profit = excluded.peak_profit,
		    reason = excluded.reason`,
		rec.Code, rec.Day, rec.ProfitRate, rec.PeakProfit, rec.Reason)
	return
}

func (l *Lockouts) Get(ctx context.Context, tx pgx.Tx, code, day string) (rec *models.LockoutRecord, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Lockouts.Get: %w", err)
		}
	}()

	rec = &models.LockoutRecord{Code: code, Day: day}
	err = tx.QueryRow(ctx, `
		SELECT profit_rate, peak_profit, reason FROM lockouts
		WHERE code = $1 AND day = $2`,
		code, day,
	).Scan(&rec.ProfitRate, &rec.PeakProfit, &rec.Reason)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
