package engine

import (
	"github.com/tstirrat/wow-threat-sub003/internal/gamedata"
	"github.com/tstirrat/wow-threat-sub003/internal/threatcfg"
)

// FormulaResult is the resolved threat formula applied to one event.
type FormulaResult struct {
	// Formula is the human-readable calculation string.
	Formula string
	// Value is the base threat before modifiers.
	Value float64
	// Split divides the threat evenly across all tracked enemies.
	Split bool
	// Special, when set, bypasses or augments the standard distribution.
	Special *threatcfg.Special
}

// resolveFormula picks the applicable formula for the event: the merged
// global+class ability override when the ability has an entry, else the base
// formula for the event type, else zero threat.
func resolveFormula(ctx *runContext, ev gamedata.Event, amount float64) FormulaResult {
	class := ctx.index.ActorClass(ev.SourceID)
	if ev.AbilityGameID != 0 {
		if f, ok := ctx.abilities(class)[ev.AbilityGameID]; ok {
			return FormulaResult{
				Formula: f.Describe(),
				Value:   f.Evaluate(amount),
				Split:   f.Split,
				Special: f.Special,
			}
		}
	}

	switch ev.Type {
	case gamedata.EventDamage, gamedata.EventHeal, gamedata.EventEnergize:
		if f, ok := ctx.config.Base[string(ev.Type)]; ok {
			return FormulaResult{
				Formula: f.Describe(),
				Value:   f.Evaluate(amount),
				Split:   f.Split,
			}
		}
	}

	return FormulaResult{Formula: "0", Value: 0}
}
