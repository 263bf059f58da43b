package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/journal/pg"
	"github.com/HyunWoo9930/AutoTrade/pkg/db"
)

// Journal persists every executed order so closed trades can be paired
// with their entries and analyzed later.
type Journal struct {
	db     *db.PgTxManager
	trades *pg.Trades
}

func NewJournal(txm *db.PgTxManager, trades *pg.Trades) *Journal {
	return &Journal{
		db:     txm,
		trades: trades,
	}
}

func (j *Journal) RecordBuy(ctx context.Context, trade *models.Trade) (id int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Journal.RecordBuy: %w", err)
		}
	}()

	err = j.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		id, err = j.trades.InsertBuy(ctxTx, tx, trade)
		return err
	})
	return
}

func (j *Journal) RecordSell(ctx context.Context, trade *models.Trade) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Journal.RecordSell: %w", err)
		}
	}()

	return j.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := j.trades.InsertSell(ctxTx, tx, trade)
		return err
	})
}

func (j *Journal) Statistics(ctx context.Context) (stats *models.TradeStats, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Journal.Statistics: %w", err)
		}
	}()

	err = j.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		stats, err = j.trades.Stats(ctxTx, tx)
		return err
	})
	return
}
