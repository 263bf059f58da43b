package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/journal/pg"
	"github.com/HyunWoo9930/AutoTrade/pkg/db"
)

// Lockout blocks same-day re-entry after a protective exit. Keyed by
// (symbol, trading day) so the block expires naturally at the next session.
type Lockout struct {
	db       *db.PgTxManager
	lockouts *pg.Lockouts
}

func NewLockout(txm *db.PgTxManager, lockouts *pg.Lockouts) *Lockout {
	return &Lockout{
		db:       txm,
		lockouts: lockouts,
	}
}

func (l *Lockout) Get(ctx context.Context, code, day string) (rec *models.LockoutRecord, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Lockout.Get: %w", err)
		}
	}()

	err = l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		rec, err = l.lockouts.Get(ctxTx, tx, code, day)
		return err
	})
	return
}

func (l *Lockout) Set(ctx context.Context, rec *models.LockoutRecord) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Lockout.Set: %w", err)
		}
	}()

	return l.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		return l.lockouts.Upsert(ctxTx, tx, rec)
	})
}
