package journal

import (
	"github.com/HyunWoo9930/AutoTrade/internal/modules/journal/pg"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/journal/service"
	"github.com/HyunWoo9930/AutoTrade/internal/runner"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(
			pg.NewTrades,
			pg.NewLockouts,
			service.NewJournal,
			service.NewLockout,
		),

		// Adapters: services -> runner interfaces
		fx.Provide(
			func(j *service.Journal) runner.Journal { return j },
			func(l *service.Lockout) runner.LockoutStore { return l },
		),
	)
}
