package engine

import (
	"errors"

	"github.com/tstirrat/wow-threat-sub003/internal/auras"
	"github.com/tstirrat/wow-threat-sub003/internal/gamedata"
	"github.com/tstirrat/wow-threat-sub003/internal/threatcfg"
)

// Input is everything one engine run consumes. The engine reads it and
// nothing else; all state below is constructed fresh per call.
type Input struct {
	Events []gamedata.Event
	Index  *gamedata.FightIndex
	Config *threatcfg.Config

	// InitialAuras seeds per-actor aura state, e.g. from the final
	// snapshot of the previous page of a paginated fight.
	InitialAuras map[int][]int

	// CombatantInfo provides the fight-start gear/talent snapshot from
	// which synthetic auras are derived.
	CombatantInfo []gamedata.CombatantInfo

	// TankIDs passes through untouched for downstream consumers.
	TankIDs []int
}

// Output is the augmented event stream plus the state needed to resume a
// later page of the same fight.
type Output struct {
	Events        []AugmentedEvent     `json:"events"`
	AuraSnapshot  map[int][]int        `json:"auraSnapshot,omitempty"`
	StateSnapshot map[int][]StateEntry `json:"stateSnapshot,omitempty"`
	TankIDs       []int                `json:"tankIDs,omitempty"`
}

// AugmentedEvent is the original event plus its computed threat payload.
// Events that cannot generate threat (enemy-sourced, deaths, unseeded types)
// carry no payload.
type AugmentedEvent struct {
	gamedata.Event
	Threat *ThreatPayload `json:"threat,omitempty"`
}

// ThreatPayload is the per-event threat result.
type ThreatPayload struct {
	// Values holds one change per affected enemy; empty when the event
	// generated no threat.
	Values []ThreatChange `json:"values"`
	// AttributedTo is the actor credited with the threat: the source,
	// unless a redirect interceptor claimed the event.
	AttributedTo int         `json:"attributedTo"`
	Calculation  Calculation `json:"calculation"`
}

// Calculation is the human-readable breakdown of how the threat was derived.
type Calculation struct {
	Formula     string            `json:"formula"`
	Amount      float64           `json:"amount"`
	Base        float64           `json:"base"`
	Multiplier  float64           `json:"multiplier"`
	Modifiers   []AppliedModifier `json:"modifiers,omitempty"`
	Special     string            `json:"special,omitempty"`
	Intercepted string            `json:"intercepted,omitempty"`
}

// ErrMissingInput is returned when the run lacks its fight index or config.
var ErrMissingInput = errors.New("engine input requires a fight index and a threat config")

// Process folds over the ordered event stream and computes per-event threat.
// It is pure and re-entrant: no I/O, no globals, identical inputs produce
// identical output.
func Process(in Input) (*Output, error) {
	if in.Index == nil || in.Config == nil {
		return nil, ErrMissingInput
	}

	tracker := auras.NewTracker(in.Config.ExclusiveAuras)
	tracker.Seed(in.InitialAuras)
	seedSyntheticAuras(tracker, in)

	ctx := newRunContext(in.Index, in.Config, tracker)
	registry := NewRegistry()
	stateBuffs := buildStateBuffIndex(in.Config)

	out := &Output{
		Events:  make([]AugmentedEvent, 0, len(in.Events)),
		TankIDs: in.TankIDs,
	}

	var now int64
	for _, ev := range in.Events {
		now = ev.Timestamp
		switch ev.Type {
		case gamedata.EventApplyBuff, gamedata.EventApplyDebuff:
			tracker.Apply(ev.TargetID, ev.AbilityGameID)
			if kind, ok := stateBuffs[ev.AbilityGameID]; ok {
				entry := StateEntry{Kind: kind}
				if kind == threatcfg.StateFixate {
					entry.TargetID = ev.SourceID
				}
				ctx.states.Set(ev.TargetID, entry)
			}
		case gamedata.EventRemoveBuff, gamedata.EventRemoveDebuff:
			tracker.Remove(ev.TargetID, ev.AbilityGameID)
			if kind, ok := stateBuffs[ev.AbilityGameID]; ok {
				ctx.states.Clear(ev.TargetID, kind)
			}
		case gamedata.EventDeath:
			registry.RemoveTargeting(ev.TargetID)
		}

		payload := evaluateEvent(ctx, registry, ev)
		out.Events = append(out.Events, AugmentedEvent{Event: ev, Threat: payload})
	}

	out.AuraSnapshot = tracker.Snapshot()
	out.StateSnapshot = ctx.states.Snapshot(now)
	return out, nil
}

// evaluateEvent runs the per-event pipeline: interceptor first refusal, then
// formula, modifiers and distribution. Returns nil for events that cannot
// generate threat.
func evaluateEvent(ctx *runContext, registry *Registry, ev gamedata.Event) *ThreatPayload {
	if ev.Type == gamedata.EventDeath {
		return nil
	}
	if !ctx.index.IsFriendly(ev.SourceID) {
		return nil
	}

	claim := registry.Evaluate(ev)
	if claim.Decision == DecisionSkip {
		return &ThreatPayload{
			AttributedTo: ev.SourceID,
			Calculation: Calculation{
				Formula:     "0",
				Multiplier:  1,
				Intercepted: claim.Note,
			},
		}
	}

	amount := ev.BaseAmount()
	res := resolveFormula(ctx, ev, amount)
	multiplier, applied := collectModifiers(ctx, ev)
	modified := res.Value * multiplier

	payload := &ThreatPayload{
		AttributedTo: ev.SourceID,
		Calculation: Calculation{
			Formula:    res.Formula,
			Amount:     amount,
			Base:       res.Value,
			Multiplier: multiplier,
			Modifiers:  applied,
		},
	}

	if claim.Decision == DecisionAugment {
		payload.Calculation.Intercepted = claim.Note
		if claim.RedirectTo != 0 {
			payload.AttributedTo = claim.RedirectTo
		}
		if claim.Multiplier != 0 {
			modified *= claim.Multiplier
		}
	}

	// An actor under aggro loss cannot generate normal threat.
	if _, lost := ctx.states.Get(ev.SourceID, threatcfg.StateAggroLoss, ev.Timestamp); lost {
		payload.Calculation.Special = string(threatcfg.StateAggroLoss)
		return payload
	}

	if res.Special != nil {
		if handled := applySpecial(ctx, ev, registry, res.Special, &modified, payload); handled {
			return payload
		}
	}

	payload.Values = distribute(ctx, ev, modified, res)
	return payload
}

// applySpecial handles non-standard formula behaviors. Returns true when the
// special fully decided the payload, bypassing standard distribution.
func applySpecial(ctx *runContext, ev gamedata.Event, registry *Registry, sp *threatcfg.Special, modified *float64, payload *ThreatPayload) bool {
	switch sp.Kind {
	case threatcfg.SpecialTaunt:
		entry := StateEntry{Kind: threatcfg.StateFixate, TargetID: ev.SourceID}
		if sp.DurationMS > 0 {
			entry.ExpiresAt = ev.Timestamp + sp.DurationMS
		}
		ctx.states.Set(ev.TargetID, entry)
		payload.Calculation.Special = string(threatcfg.SpecialTaunt)
		return true

	case threatcfg.SpecialThreatMultiply:
		*modified *= sp.Multiplier
		payload.Calculation.Special = string(threatcfg.SpecialThreatMultiply)
		return false

	case threatcfg.SpecialCustom:
		payload.Values = distributeCustom(ctx, ev, sp)
		payload.Calculation.Special = string(threatcfg.SpecialCustom)
		return true

	case threatcfg.SpecialState:
		entry := StateEntry{Kind: sp.State}
		if sp.DurationMS > 0 {
			entry.ExpiresAt = ev.Timestamp + sp.DurationMS
		}
		if sp.Active {
			ctx.states.Set(ev.SourceID, entry)
		} else {
			ctx.states.Clear(ev.SourceID, sp.State)
		}
		payload.Calculation.Special = string(sp.State)
		return true

	case threatcfg.SpecialInterceptor:
		registry.Install(sp.Interceptor, ev, ctx.index.AbilityName(ev.AbilityGameID))
		payload.Calculation.Special = string(threatcfg.SpecialInterceptor)
		return false
	}
	return false
}

func seedSyntheticAuras(tracker *auras.Tracker, in Input) {
	for _, ci := range in.CombatantInfo {
		for _, spellID := range ci.Auras {
			tracker.Apply(ci.SourceID, spellID)
		}
		class := in.Index.ActorClass(ci.SourceID)
		rules := in.Config.Global.SyntheticAuras
		if cc, ok := in.Config.Classes[class]; ok {
			rules = append(rules[:len(rules):len(rules)], cc.SyntheticAuras...)
		}
		for _, rule := range rules {
			if matchesSnapshot(rule, ci) {
				tracker.Apply(ci.SourceID, rule.SpellID)
			}
		}
	}
}

func matchesSnapshot(rule threatcfg.SyntheticAura, ci gamedata.CombatantInfo) bool {
	if rule.ItemID != 0 {
		for _, item := range ci.Gear {
			if item == rule.ItemID {
				return true
			}
		}
		return false
	}
	if rule.TalentTree != 0 {
		for _, spec := range ci.Talents {
			if spec.Tree == rule.TalentTree && spec.Points >= rule.MinPoints {
				return true
			}
		}
	}
	return false
}

func buildStateBuffIndex(cfg *threatcfg.Config) map[int]threatcfg.StateKind {
	idx := make(map[int]threatcfg.StateKind)
	for _, id := range cfg.FixateBuffs {
		idx[id] = threatcfg.StateFixate
	}
	for _, id := range cfg.AggroLossBuffs {
		idx[id] = threatcfg.StateAggroLoss
	}
	for _, id := range cfg.InvulnerabilityBuffs {
		idx[id] = threatcfg.StateInvulnerability
	}
	return idx
}
