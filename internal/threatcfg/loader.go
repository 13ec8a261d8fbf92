package threatcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tstirrat/wow-threat-sub003/internal/gamedata"
)

// LoadDir loads every *.yaml rule table in the directory, in name order.
// Each table is validated as it is read; a bad table fails the whole load.
func LoadDir(dir string) ([]*Config, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	configs := make([]*Config, 0, len(names))
	for _, name := range names {
		cfg, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// LoadFile loads and validates a single rule table.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("config name is required")
	}
	if c.Match.GameVersion == 0 {
		return fmt.Errorf("%s: match.gameVersion is required", c.Name)
	}
	for eventType, f := range c.Base {
		switch eventType {
		case "damage", "heal", "energize":
		default:
			return fmt.Errorf("%s: base formula for unsupported event type %q", c.Name, eventType)
		}
		if err := f.validate(); err != nil {
			return fmt.Errorf("%s: base.%s: %w", c.Name, eventType, err)
		}
	}
	if err := c.Global.validate(); err != nil {
		return fmt.Errorf("%s: global: %w", c.Name, err)
	}
	for class, cc := range c.Classes {
		cc := cc
		if err := cc.validate(); err != nil {
			return fmt.Errorf("%s: class %s: %w", c.Name, class, err)
		}
	}
	seen := map[int]int{}
	for gi, group := range c.ExclusiveAuras {
		if len(group) < 2 {
			return fmt.Errorf("%s: exclusive group %d needs at least two members", c.Name, gi)
		}
		for _, id := range group {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("%s: aura %d appears in exclusive groups %d and %d", c.Name, id, prev, gi)
			}
			seen[id] = gi
		}
	}
	return nil
}

func (cc *ClassConfig) validate() error {
	for id, f := range cc.Abilities {
		if err := f.validate(); err != nil {
			return fmt.Errorf("ability %d: %w", id, err)
		}
	}
	for auraID, mods := range cc.AuraModifiers {
		for i := range mods {
			for _, name := range mods[i].Schools {
				if _, ok := gamedata.SchoolByName(name); !ok {
					return fmt.Errorf("aura %d modifier %q: unknown school %q", auraID, mods[i].Name, name)
				}
			}
			if mods[i].Value <= 0 {
				return fmt.Errorf("aura %d modifier %q: value must be positive", auraID, mods[i].Name)
			}
		}
	}
	for _, syn := range cc.SyntheticAuras {
		if syn.SpellID == 0 {
			return fmt.Errorf("synthetic aura without spellId")
		}
		if syn.ItemID == 0 && syn.TalentTree == 0 {
			return fmt.Errorf("synthetic aura %d needs an itemId or talent source", syn.SpellID)
		}
	}
	return nil
}

func (f Formula) validate() error {
	switch f.Kind {
	case FormulaFlat, FormulaScaled, FormulaZero:
	default:
		return fmt.Errorf("unknown formula kind %q", f.Kind)
	}
	if f.Special == nil {
		return nil
	}
	sp := f.Special
	switch sp.Kind {
	case SpecialTaunt:
	case SpecialThreatMultiply:
		if sp.Multiplier <= 0 {
			return fmt.Errorf("threatMultiply needs a positive multiplier")
		}
	case SpecialCustom:
		switch sp.Targets {
		case CustomAllEnemies, CustomEventTarget:
		default:
			return fmt.Errorf("custom special has unknown targets %q", sp.Targets)
		}
	case SpecialState:
		switch sp.State {
		case StateFixate, StateAggroLoss, StateInvulnerability:
		default:
			return fmt.Errorf("state special has unknown state %q", sp.State)
		}
	case SpecialInterceptor:
		if sp.Interceptor == nil {
			return fmt.Errorf("interceptor special without interceptor spec")
		}
		switch sp.Interceptor.Kind {
		case InterceptRedirect, InterceptAmplify, InterceptSuppress:
		default:
			return fmt.Errorf("unknown interceptor kind %q", sp.Interceptor.Kind)
		}
		if sp.Interceptor.Charges <= 0 && sp.Interceptor.WindowMS <= 0 {
			return fmt.Errorf("interceptor needs a charge count or a time window")
		}
		if sp.Interceptor.Kind == InterceptAmplify && sp.Interceptor.Multiplier <= 0 {
			return fmt.Errorf("amplify interceptor needs a positive multiplier")
		}
	default:
		return fmt.Errorf("unknown special kind %q", sp.Kind)
	}
	return nil
}
