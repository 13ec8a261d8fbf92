// Package auras tracks, per actor, the set of currently-active aura spell
// ids. The tracker is owned by one engine run at a time and mutated only by
// apply/remove events and exclusivity resolution.
package auras

import "sort"

// Tracker holds per-actor active-aura sets and the exclusivity group index.
type Tracker struct {
	active map[int]map[int]struct{}
	// group maps an aura spell id to the other members of its exclusive
	// group. Applying the aura removes those members first.
	group map[int][]int
}

// NewTracker builds an empty tracker with the configured exclusivity groups.
func NewTracker(exclusiveGroups [][]int) *Tracker {
	t := &Tracker{
		active: make(map[int]map[int]struct{}),
		group:  make(map[int][]int),
	}
	for _, members := range exclusiveGroups {
		for _, id := range members {
			others := make([]int, 0, len(members)-1)
			for _, other := range members {
				if other != id {
					others = append(others, other)
				}
			}
			t.group[id] = others
		}
	}
	return t
}

// Apply marks the aura active on the actor. If the aura belongs to an
// exclusive group, every other member of that group is removed from the same
// actor's set before inserting the new id, as a side effect of this call.
func (t *Tracker) Apply(actorID, spellID int) {
	set, ok := t.active[actorID]
	if !ok {
		set = make(map[int]struct{})
		t.active[actorID] = set
	}
	for _, other := range t.group[spellID] {
		delete(set, other)
	}
	set[spellID] = struct{}{}
}

// Remove clears the aura from the actor's set. Removing an absent aura is a
// no-op; the log routinely emits removes for auras applied before the fight.
func (t *Tracker) Remove(actorID, spellID int) {
	if set, ok := t.active[actorID]; ok {
		delete(set, spellID)
	}
}

// IsActive reports whether the aura is currently active on the actor.
func (t *Tracker) IsActive(actorID, spellID int) bool {
	_, ok := t.active[actorID][spellID]
	return ok
}

// ActiveSet returns the actor's active aura set. The returned map is the
// tracker's own; callers must not mutate it.
func (t *Tracker) ActiveSet(actorID int) map[int]struct{} {
	return t.active[actorID]
}

// Seed injects an initial per-actor aura snapshot as a batch of applies.
// Seeded auras are indistinguishable from log-driven ones afterwards.
func (t *Tracker) Seed(snapshot map[int][]int) {
	for actorID, spellIDs := range snapshot {
		for _, spellID := range spellIDs {
			t.Apply(actorID, spellID)
		}
	}
}

// Snapshot exports the tracker state as sorted id lists, suitable for
// resuming a later page of the same fight.
func (t *Tracker) Snapshot() map[int][]int {
	out := make(map[int][]int, len(t.active))
	for actorID, set := range t.active {
		if len(set) == 0 {
			continue
		}
		ids := make([]int, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		out[actorID] = ids
	}
	return out
}
