package threatcfg

import (
	"fmt"
	"sort"
)

// Lint runs the development-time consistency checks over a rule table. These
// are warnings, not load failures: a class override shadowing a global entry
// is legal at runtime but usually indicates a table authoring mistake.
func Lint(cfg *Config) []string {
	var warnings []string

	classNames := make([]string, 0, len(cfg.Classes))
	for name := range cfg.Classes {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)

	// Ability ids defined in both the global table and a class table: the
	// class entry wins on collision, flag it so the shadowed global entry
	// does not linger unnoticed.
	for _, class := range classNames {
		cc := cfg.Classes[class]
		ids := make([]int, 0, len(cc.Abilities))
		for id := range cc.Abilities {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			if _, dup := cfg.Global.Abilities[id]; dup {
				warnings = append(warnings,
					fmt.Sprintf("ability %d defined in both global and %s tables; %s wins", id, class, class))
			}
		}
	}

	// The same ability id appearing in two different class tables is almost
	// always a copy-paste slip, since an event source has exactly one class.
	byClass := map[int]string{}
	for _, class := range classNames {
		for id := range cfg.Classes[class].Abilities {
			if prev, dup := byClass[id]; dup {
				warnings = append(warnings,
					fmt.Sprintf("ability %d defined in both %s and %s tables", id, prev, class))
				continue
			}
			byClass[id] = class
		}
	}

	// Aura modifiers for the same aura spell id in more than one table all
	// apply at once; duplicated entries double-count the multiplier.
	auraOwner := map[int]string{}
	for auraID := range cfg.Global.AuraModifiers {
		auraOwner[auraID] = "global"
	}
	for _, class := range classNames {
		for auraID := range cfg.Classes[class].AuraModifiers {
			if prev, dup := auraOwner[auraID]; dup {
				warnings = append(warnings,
					fmt.Sprintf("aura modifier %d defined in both %s and %s tables; both will apply", auraID, prev, class))
				continue
			}
			auraOwner[auraID] = class
		}
	}

	// Fixate/aggro-loss/invulnerability buff ids inside an exclusivity group
	// are fine; the same id in two of those sets is not.
	stateSets := []struct {
		name string
		ids  []int
	}{
		{"fixateBuffs", cfg.FixateBuffs},
		{"aggroLossBuffs", cfg.AggroLossBuffs},
		{"invulnerabilityBuffs", cfg.InvulnerabilityBuffs},
	}
	stateOwner := map[int]string{}
	for _, set := range stateSets {
		for _, id := range set.ids {
			if prev, dup := stateOwner[id]; dup {
				warnings = append(warnings,
					fmt.Sprintf("buff %d listed in both %s and %s", id, prev, set.name))
				continue
			}
			stateOwner[id] = set.name
		}
	}

	return warnings
}
