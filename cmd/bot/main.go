package main

import (
	"context"
	"log"

	"github.com/HyunWoo9930/AutoTrade/internal/modules/config"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/health"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/journal"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/kis"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/postgres"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/strategy"
	"github.com/HyunWoo9930/AutoTrade/internal/notify"
	"github.com/HyunWoo9930/AutoTrade/internal/runner"
	"github.com/HyunWoo9930/AutoTrade/pkg/logger"
	"github.com/HyunWoo9930/AutoTrade/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName("autotrade")
	tracing.SetServiceName("autotrade")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		strategy.Module(),
		kis.Module(),
		journal.Module(),
		notify.Module(),
		health.Module(),
		runner.Module(),

		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closeTracer()
					return nil
				},
			})
			return nil
		}),
	)
	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	<-app.Done()
}
