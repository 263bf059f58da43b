package notify

import (
	"context"

	"go.uber.org/fx"

	"github.com/HyunWoo9930/AutoTrade/internal/modules/config"
	"github.com/HyunWoo9930/AutoTrade/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(
			func(cfg *config.Config, src PositionSource) (Notifier, error) {
				if cfg.Telegram.Token == "" {
					logger.Info("telegram token not set, notifications go to stdout")
					return NewStdout(), nil
				}
				return NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, src)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, n Notifier, ctx context.Context) {
			t, ok := n.(*Telegram)
			if !ok {
				return
			}
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					return t.Start(ctx)
				},
				OnStop: func(_ context.Context) error {
					t.Stop()
					return nil
				},
			})
		}),
	)
}
