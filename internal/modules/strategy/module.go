package strategy

import (
	"go.uber.org/fx"

	"github.com/HyunWoo9930/AutoTrade/internal/modules/strategy/service"
)

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			service.NewEngine, // *service.Engine
		),
	)
}
