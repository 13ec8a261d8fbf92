// Package threatcfg holds the per-game-version threat rule tables and the
// machinery that selects and validates them. The tables themselves are data,
// authored as YAML documents; this package only interprets them.
package threatcfg

import (
	"fmt"

	"github.com/tstirrat/wow-threat-sub003/internal/gamedata"
)

// FormulaKind selects how a formula descriptor is evaluated.
type FormulaKind string

const (
	// FormulaFlat yields Flat regardless of the event amount.
	FormulaFlat FormulaKind = "flat"
	// FormulaScaled yields amount*Coefficient + Flat.
	FormulaScaled FormulaKind = "scaled"
	// FormulaZero yields no threat.
	FormulaZero FormulaKind = "zero"
)

// SpecialKind tags the non-standard behaviors a formula can trigger.
type SpecialKind string

const (
	// SpecialTaunt forces the target enemy onto the source for a bounded
	// duration, independent of threat ranking.
	SpecialTaunt SpecialKind = "taunt"
	// SpecialThreatMultiply scales the computed value before distribution.
	SpecialThreatMultiply SpecialKind = "threatMultiply"
	// SpecialCustom enumerates its own per-enemy threat changes.
	SpecialCustom SpecialKind = "custom"
	// SpecialState sets or clears a per-actor threat state.
	SpecialState SpecialKind = "state"
	// SpecialInterceptor installs a handler over subsequent events.
	SpecialInterceptor SpecialKind = "interceptor"
)

// StateKind names the per-actor threat states.
type StateKind string

const (
	StateFixate          StateKind = "fixate"
	StateAggroLoss       StateKind = "aggroLoss"
	StateInvulnerability StateKind = "invulnerability"
)

// InterceptorKind names the deferred-attribution behaviors.
type InterceptorKind string

const (
	// InterceptRedirect attributes the caster's subsequent qualifying
	// threat to another friendly actor.
	InterceptRedirect InterceptorKind = "redirect"
	// InterceptAmplify multiplies the caster's subsequent qualifying
	// threat.
	InterceptAmplify InterceptorKind = "amplify"
	// InterceptSuppress drops the caster's subsequent qualifying threat.
	InterceptSuppress InterceptorKind = "suppress"
)

// CustomTargets selects which enemies a custom special touches.
type CustomTargets string

const (
	CustomAllEnemies  CustomTargets = "allEnemies"
	CustomEventTarget CustomTargets = "target"
)

// Special describes a formula's non-standard behavior.
type Special struct {
	Kind SpecialKind `yaml:"kind"`

	// Taunt / state fields.
	State      StateKind `yaml:"state,omitempty"`
	Active     bool      `yaml:"active,omitempty"`
	DurationMS int64     `yaml:"durationMS,omitempty"`

	// threatMultiply factor.
	Multiplier float64 `yaml:"multiplier,omitempty"`

	// Custom per-enemy change.
	Targets CustomTargets `yaml:"targets,omitempty"`
	Amount  float64       `yaml:"amount,omitempty"`

	// Interceptor installation.
	Interceptor *InterceptorSpec `yaml:"interceptor,omitempty"`
}

// InterceptorSpec configures an installed interceptor. Charges and WindowMS
// are both optional; whichever is set bounds the interceptor's life, and a
// redirect additionally retires when its beneficiary dies.
type InterceptorSpec struct {
	Kind       InterceptorKind `yaml:"kind"`
	Charges    int             `yaml:"charges,omitempty"`
	WindowMS   int64           `yaml:"windowMS,omitempty"`
	Multiplier float64         `yaml:"multiplier,omitempty"`
}

// Formula is a tagged threat-formula descriptor.
type Formula struct {
	Kind        FormulaKind `yaml:"kind"`
	Coefficient float64     `yaml:"coefficient,omitempty"`
	Flat        float64     `yaml:"flat,omitempty"`
	Split       bool        `yaml:"split,omitempty"`
	Special     *Special    `yaml:"special,omitempty"`
}

// Describe renders the formula as the human-readable calculation string.
func (f Formula) Describe() string {
	switch f.Kind {
	case FormulaFlat:
		return fmt.Sprintf("%g", f.Flat)
	case FormulaScaled:
		if f.Flat != 0 {
			return fmt.Sprintf("(amount * %g) + %g", f.Coefficient, f.Flat)
		}
		return fmt.Sprintf("amount * %g", f.Coefficient)
	case FormulaZero:
		return "0"
	}
	return string(f.Kind)
}

// Evaluate computes the formula's base value for the event amount.
func (f Formula) Evaluate(amount float64) float64 {
	switch f.Kind {
	case FormulaFlat:
		return f.Flat
	case FormulaScaled:
		return amount*f.Coefficient + f.Flat
	}
	return 0
}

// Modifier is an aura-driven multiplicative threat modifier. SpellIDs and
// Schools, when present, scope the modifier to the current event's ability or
// damage school; absent means always active while the owning aura is up.
type Modifier struct {
	Source   string   `yaml:"source"` // class|talent|buff|debuff|gear|stance|aura
	Name     string   `yaml:"name"`
	Value    float64  `yaml:"value"`
	SpellIDs []int    `yaml:"spellIds,omitempty"`
	Schools  []string `yaml:"schools,omitempty"`
}

// AppliesTo reports whether the modifier's scopes admit the given ability and
// school. An empty scope always admits.
func (m Modifier) AppliesTo(abilityGameID int, school gamedata.School) bool {
	if len(m.SpellIDs) > 0 {
		found := false
		for _, id := range m.SpellIDs {
			if id == abilityGameID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(m.Schools) > 0 {
		var mask gamedata.School
		for _, name := range m.Schools {
			if s, ok := gamedata.SchoolByName(name); ok {
				mask |= s
			}
		}
		if mask&school == 0 {
			return false
		}
	}
	return true
}

// SyntheticAura derives an aura from the fight-start combatant snapshot:
// wearing the item or meeting the talent threshold behaves exactly like the
// aura having been applied by the log.
type SyntheticAura struct {
	SpellID    int `yaml:"spellId"`
	ItemID     int `yaml:"itemId,omitempty"`
	TalentTree int `yaml:"talentTree,omitempty"`
	MinPoints  int `yaml:"minPoints,omitempty"`
}

// ClassConfig is the rule table for one class (or the global table).
type ClassConfig struct {
	// BaseThreatFactor is the class-wide flat multiplier, 1.0 when unset.
	BaseThreatFactor float64 `yaml:"baseThreatFactor,omitempty"`

	// Abilities maps ability game id to its threat formula override.
	Abilities map[int]Formula `yaml:"abilities,omitempty"`

	// AuraModifiers maps an aura spell id to the modifiers it grants while
	// active on the source actor.
	AuraModifiers map[int][]Modifier `yaml:"auraModifiers,omitempty"`

	// SyntheticAuras derived from gear/talents at fight start.
	SyntheticAuras []SyntheticAura `yaml:"syntheticAuras,omitempty"`
}

// Match is the declarative resolve predicate for a config: the game-version
// flag must equal, and season id / partition tags must be listed when the
// config constrains them.
type Match struct {
	GameVersion int      `yaml:"gameVersion"`
	SeasonIDs   []int    `yaml:"seasonIds,omitempty"`
	Partitions  []string `yaml:"partitions,omitempty"`
}

// Config is one complete per-game-version threat rule table. Loaded once,
// read-only for the life of a run.
type Config struct {
	Name     string `yaml:"name"`
	Revision string `yaml:"revision"`
	Match    Match  `yaml:"match"`

	// Base formulas by event type: damage, heal, energize.
	Base map[string]Formula `yaml:"base"`

	Global  ClassConfig            `yaml:"global"`
	Classes map[string]ClassConfig `yaml:"classes,omitempty"`

	// ExclusiveAuras lists mutually-exclusive aura groups (stances,
	// blessings, forms). At most one member of a group is active per actor.
	ExclusiveAuras [][]int `yaml:"exclusiveAuras,omitempty"`

	// Buff sets driving per-actor threat state.
	FixateBuffs          []int `yaml:"fixateBuffs,omitempty"`
	AggroLossBuffs       []int `yaml:"aggroLossBuffs,omitempty"`
	InvulnerabilityBuffs []int `yaml:"invulnerabilityBuffs,omitempty"`
}

// Matches evaluates the config's resolve predicate against report metadata.
func (c *Config) Matches(meta Metadata) bool {
	if c.Match.GameVersion != meta.GameVersion {
		return false
	}
	if len(c.Match.SeasonIDs) > 0 {
		found := false
		for _, id := range c.Match.SeasonIDs {
			if id == meta.SeasonID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(c.Match.Partitions) > 0 {
		found := false
		for _, p := range c.Match.Partitions {
			for _, have := range meta.Partitions {
				if p == have {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Metadata is the report-level input to config resolution.
type Metadata struct {
	GameVersion int
	SeasonID    int
	Partitions  []string
}
