package runner

import (
	"github.com/HyunWoo9930/AutoTrade/internal/models"
	"github.com/HyunWoo9930/AutoTrade/internal/modules/strategy/service"
)

const (
	crashKeepHalfProfitPct = 8.0
	trailingPeakMinPct     = 10.0
	trailingRetracePct     = 3.0
	pyramidLowPct          = 5.0
	pyramidHighPct         = 8.0
	pyramidRescoreMin      = 3
	fallbackStopPct        = 5.0
	entryScoreMin          = 3
	entryScoreMinUnknown   = 4
	firstStageShare        = 40 // percent of the planned size bought on entry
)

// Sell reasons as persisted in the journal.
const (
	ReasonCrashProtection = "crash_protection"
	ReasonTrendReversal   = "trend_reversal"
	ReasonTrailingStop    = "trailing_stop"
	ReasonStopLoss        = "stop_loss"
	ReasonTarget1         = "profit_target_1"
	ReasonTarget2         = "profit_target_2"
)

// Buy stages.
const (
	StageInitial = "initial"
	StagePyramid = "pyramid"
)

type ActionType int

const (
	ActionNone ActionType = iota
	ActionBuy
	ActionSell
)

// DecisionInput is everything the machine needs for one symbol in one cycle.
type DecisionInput struct {
	Code string
	Eval service.Evaluation
	// EntryPlan is the sized position for a fresh entry; ignored while held.
	EntryPlan models.PositionPlan

	Holding *models.Holding
	Plan    *models.PyramidPlan
	State   models.PositionState
	// Peak is the highest profit percent seen on the open position.
	Peak float64
	// MarkedTarget1 is whether the first profit target already fired.
	MarkedTarget1 bool

	HoldingsCount     int
	MaxHoldings       int
	SectorExposurePct float64
	SectorCapPct      float64
	LockedOut         bool
	// EntryAllowed is false inside the open/close guard minutes; exits
	// are unaffected.
	EntryAllowed bool
}

// Decision is the single action the machine chose for this cycle.
type Decision struct {
	Action  ActionType
	Qty     int
	Reason  string
	Stage   string
	SellAll bool
	Lockout bool

	PromoteFull bool
	MarkTarget1 bool
	NewPlan     *models.PyramidPlan
	NewState    models.PositionState
}

// Decide applies the exit and entry rules in strict precedence and
// returns at most one order per symbol per cycle.
func Decide(in DecisionInput) Decision {
	if in.Holding != nil && in.Holding.Quantity > 0 {
		return decideHeld(in)
	}
	return decideEntry(in)
}

func decideHeld(in DecisionInput) Decision {
	profit := in.Holding.UnrealizedPct
	qty := in.Holding.Quantity
	var d Decision

	// 1. Crash regime: liquidate, keeping half of a well-profitable position.
	if in.Eval.Regime.Regime == models.RegimeCrash {
		if profit >= crashKeepHalfProfitPct && qty > 1 {
			return Decision{Action: ActionSell, Qty: qty / 2, Reason: ReasonCrashProtection}
		}
		return Decision{Action: ActionSell, Qty: qty, Reason: ReasonCrashProtection, SellAll: true}
	}

	// 2. Trend reversal: short MA crossed below long MA while in profit.
	fast, slow := in.Eval.Latest.MAFast, in.Eval.Latest.MASlow
	if fast.Valid && slow.Valid && fast.Value < slow.Value && profit > 0 {
		return Decision{Action: ActionSell, Qty: qty, Reason: ReasonTrendReversal, SellAll: true}
	}

	// 3. Trailing stop: a strong peak gave back too much.
	if in.Peak >= trailingPeakMinPct && in.Peak-profit >= trailingRetracePct {
		return Decision{Action: ActionSell, Qty: qty, Reason: ReasonTrailingStop, SellAll: true, Lockout: true}
	}

	// 4. Pyramid window.
	if in.State == models.PositionPartial {
		if profit >= pyramidLowPct && profit < pyramidHighPct &&
			in.Eval.Signal.Score >= pyramidRescoreMin &&
			in.Plan != nil && in.Plan.RemainingQty > 0 {
			return Decision{
				Action:      ActionBuy,
				Qty:         in.Plan.RemainingQty,
				Stage:       StagePyramid,
				PromoteFull: true,
			}
		}
		if profit >= pyramidHighPct {
			// Window passed; stop waiting for the add and manage as full.
			d.PromoteFull = true
		}
	}

	// 5. Stop loss at the planned level.
	stopPct := fallbackStopPct
	if in.Plan != nil && in.Plan.StopLossPct > 0 {
		stopPct = in.Plan.StopLossPct * 100
	}
	if profit <= -stopPct {
		d.Action, d.Qty, d.Reason, d.SellAll = ActionSell, qty, ReasonStopLoss, true
		return d
	}

	// 6/7. Profit targets, first tier first: even when profit gaps past
	// the second target in one cycle, the untaken first tier sells half
	// and keeps the rest open.
	if in.Plan != nil {
		if profit >= in.Plan.ProfitTarget1 && !in.MarkedTarget1 {
			half := qty / 2
			if half == 0 {
				d.Action, d.Qty, d.Reason, d.SellAll = ActionSell, qty, ReasonTarget1, true
				return d
			}
			d.Action, d.Qty, d.Reason, d.MarkTarget1 = ActionSell, half, ReasonTarget1, true
			return d
		}
		if profit >= in.Plan.ProfitTarget2 {
			d.Action, d.Qty, d.Reason, d.SellAll, d.Lockout = ActionSell, qty, ReasonTarget2, true, true
			return d
		}
	}

	return d
}

func decideEntry(in DecisionInput) Decision {
	if !in.EntryAllowed {
		return Decision{}
	}
	if in.LockedOut {
		return Decision{}
	}
	if in.Eval.Regime.Regime == models.RegimeCrash {
		return Decision{}
	}
	if in.HoldingsCount >= in.MaxHoldings {
		return Decision{}
	}
	if in.SectorCapPct > 0 && in.SectorExposurePct >= in.SectorCapPct {
		return Decision{}
	}

	need := entryScoreMin
	if in.Eval.Regime.Regime == models.RegimeUnknown {
		need = entryScoreMinUnknown
	}
	if in.Eval.Signal.Score < need {
		return Decision{}
	}
	if in.EntryPlan.Shares <= 0 {
		return Decision{}
	}

	firstQty := in.EntryPlan.Shares * firstStageShare / 100
	state := models.PositionPartial
	if firstQty == 0 {
		firstQty = in.EntryPlan.Shares
		state = models.PositionFull
	}

	return Decision{
		Action: ActionBuy,
		Qty:    firstQty,
		Stage:  StageInitial,
		NewPlan: &models.PyramidPlan{
			FirstQty:      firstQty,
			FirstPrice:    in.EntryPlan.EntryPrice,
			TargetQty:     in.EntryPlan.Shares,
			RemainingQty:  in.EntryPlan.Shares - firstQty,
			StopLossPct:   in.EntryPlan.StopLossPct,
			ATR:           in.EntryPlan.ATR,
			RegimeAtEntry: in.Eval.Regime.Regime,
			ProfitTarget1: in.EntryPlan.ProfitTarget1,
			ProfitTarget2: in.EntryPlan.ProfitTarget2,
		},
		NewState: state,
	}
}
