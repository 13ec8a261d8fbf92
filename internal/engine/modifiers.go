package engine

import (
	"sort"

	"github.com/tstirrat/wow-threat-sub003/internal/gamedata"
)

// AppliedModifier is one multiplicative modifier that survived scoping for
// the current event, recorded in the calculation breakdown.
type AppliedModifier struct {
	Source string  `json:"source"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
}

// collectModifiers gathers the source actor's class flat factor plus every
// active-aura modifier whose scopes admit the current event, and reduces them
// to a single multiplier. The empty product is 1.0.
func collectModifiers(ctx *runContext, ev gamedata.Event) (float64, []AppliedModifier) {
	var applied []AppliedModifier

	class := ctx.index.ActorClass(ev.SourceID)
	if factor := ctx.classFactor(class); factor != 1.0 {
		applied = append(applied, AppliedModifier{Source: "class", Name: class, Value: factor})
	}

	active := ctx.auras.ActiveSet(ev.SourceID)
	if len(active) > 0 {
		school := ctx.index.School(ev.AbilityGameID)
		auraIDs := make([]int, 0, len(active))
		for auraID := range active {
			if _, has := ctx.auraModifiers[auraID]; has {
				auraIDs = append(auraIDs, auraID)
			}
		}
		// Deterministic modifier order regardless of map iteration.
		sort.Ints(auraIDs)
		for _, auraID := range auraIDs {
			for _, mod := range ctx.auraModifiers[auraID] {
				if !mod.AppliesTo(ev.AbilityGameID, school) {
					continue
				}
				applied = append(applied, AppliedModifier{
					Source: mod.Source,
					Name:   mod.Name,
					Value:  mod.Value,
				})
			}
		}
	}

	multiplier := 1.0
	for _, mod := range applied {
		multiplier *= mod.Value
	}
	return multiplier, applied
}
