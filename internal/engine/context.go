// Package engine recomputes per-event threat for one fight: a deterministic
// fold over an ordered combat-log event stream, driven by the resolved threat
// rule table. The engine performs no I/O and keeps no state between runs;
// identical inputs produce identical output.
package engine

import (
	"sort"

	"github.com/tstirrat/wow-threat-sub003/internal/auras"
	"github.com/tstirrat/wow-threat-sub003/internal/gamedata"
	"github.com/tstirrat/wow-threat-sub003/internal/threatcfg"
)

// runContext carries the per-run lookup state threaded through the pipeline.
// Merged tables are computed once at run start; everything else is the live
// mutable state owned by the processor.
type runContext struct {
	index  *gamedata.FightIndex
	config *threatcfg.Config
	auras  *auras.Tracker
	states *StateTracker

	// abilitiesByClass holds the global ability table overlaid with each
	// class's table, class entries winning on id collision.
	abilitiesByClass map[string]map[int]threatcfg.Formula

	// auraModifiers merges the global and every class's aura-modifier
	// tables. Cross-class buffs are intentional: a paladin blessing on a
	// warrior modifies the warrior's threat because the aura is on the
	// warrior, which the game itself guarantees.
	auraModifiers map[int][]threatcfg.Modifier
}

func newRunContext(index *gamedata.FightIndex, cfg *threatcfg.Config, tracker *auras.Tracker) *runContext {
	ctx := &runContext{
		index:            index,
		config:           cfg,
		auras:            tracker,
		states:           NewStateTracker(),
		abilitiesByClass: make(map[string]map[int]threatcfg.Formula),
		auraModifiers:    make(map[int][]threatcfg.Modifier),
	}

	for auraID, mods := range cfg.Global.AuraModifiers {
		ctx.auraModifiers[auraID] = append(ctx.auraModifiers[auraID], mods...)
	}
	// Classes merge in name order so shared aura ids keep a stable
	// modifier sequence across runs.
	classes := make([]string, 0, len(cfg.Classes))
	for name := range cfg.Classes {
		classes = append(classes, name)
	}
	sort.Strings(classes)
	for _, name := range classes {
		for auraID, mods := range cfg.Classes[name].AuraModifiers {
			ctx.auraModifiers[auraID] = append(ctx.auraModifiers[auraID], mods...)
		}
	}

	return ctx
}

// abilities returns the merged ability table for a class, building and
// memoizing it on first use. The empty class gets the global table alone.
func (ctx *runContext) abilities(class string) map[int]threatcfg.Formula {
	if merged, ok := ctx.abilitiesByClass[class]; ok {
		return merged
	}
	merged := make(map[int]threatcfg.Formula, len(ctx.config.Global.Abilities))
	for id, f := range ctx.config.Global.Abilities {
		merged[id] = f
	}
	if cc, ok := ctx.config.Classes[class]; ok {
		for id, f := range cc.Abilities {
			merged[id] = f
		}
	}
	ctx.abilitiesByClass[class] = merged
	return merged
}

// classFactor returns the flat class-level threat factor for a class,
// defaulting to 1.0.
func (ctx *runContext) classFactor(class string) float64 {
	if cc, ok := ctx.config.Classes[class]; ok && cc.BaseThreatFactor != 0 {
		return cc.BaseThreatFactor
	}
	return 1.0
}
