package kis

import (
	"github.com/HyunWoo9930/AutoTrade/internal/modules/kis/service"
	"github.com/HyunWoo9930/AutoTrade/internal/notify"
	"github.com/HyunWoo9930/AutoTrade/internal/runner"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("kis",
		fx.Provide(
			service.NewClient,
		),

		// Adapters: *service.Client -> runner interfaces
		fx.Provide(
			func(c *service.Client) runner.MarketData { return c },
			func(c *service.Client) runner.Broker { return c },
			func(c *service.Client) notify.PositionSource { return c },
		),
	)
}
