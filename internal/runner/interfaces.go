package runner

import (
	"context"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// MarketData is the read side of the broker API.
type MarketData interface {
	DailyBars(ctx context.Context, code string, count int) ([]models.Bar, error)
	CurrentPrice(ctx context.Context, code string) (float64, error)
}

// Broker is the order and account side of the broker API.
type Broker interface {
	PlaceBuy(ctx context.Context, code string, qty int) (string, error)
	PlaceSell(ctx context.Context, code string, qty int) (string, error)
	Balance(ctx context.Context) (models.AccountBalance, error)
	OpenPositions(ctx context.Context) ([]models.Holding, error)
}

// Journal records executed orders.
type Journal interface {
	RecordBuy(ctx context.Context, trade *models.Trade) (int64, error)
	RecordSell(ctx context.Context, trade *models.Trade) error
	Statistics(ctx context.Context) (*models.TradeStats, error)
}

// LockoutStore blocks same-day re-entry after a protective exit.
type LockoutStore interface {
	Get(ctx context.Context, code, day string) (*models.LockoutRecord, error)
	Set(ctx context.Context, rec *models.LockoutRecord) error
}
