package runner

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/HyunWoo9930/AutoTrade/internal/modules/config"
	health "github.com/HyunWoo9930/AutoTrade/internal/modules/health/service"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewPositionStore,
			NewSessionClock,
			NewManager,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			m *Manager,
			cfg *config.Config,
			clock *SessionClock,
			state *health.State,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					state.SetReady(true)
					go func() {
						cycle := time.NewTicker(cfg.CycleInterval)
						healthTick := time.NewTicker(cfg.HealthInterval)
						defer cycle.Stop()
						defer healthTick.Stop()
						for {
							select {
							case <-ctx.Done():
								return
							case <-cycle.C:
								now := time.Now()
								state.SetSessionOpen(clock.SessionOpen(now))
								m.Cycle(ctx)
								state.TouchCycle(now)
							case <-healthTick.C:
								m.HealthReport(ctx)
							}
						}
					}()
					return nil
				},
				OnStop: func(context.Context) error {
					state.SetReady(false)
					return nil
				},
			})
		}),
	)
}
