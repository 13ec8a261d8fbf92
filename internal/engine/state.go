package engine

import (
	"sort"

	"github.com/tstirrat/wow-threat-sub003/internal/threatcfg"
)

// StateEntry records one threat state on one actor.
type StateEntry struct {
	Kind threatcfg.StateKind `json:"kind"`
	// TargetID is the forced target for fixate states, zero otherwise.
	TargetID int `json:"targetID,omitempty"`
	// ExpiresAt bounds the state in log time; zero means until cleared.
	ExpiresAt int64 `json:"expiresAt,omitempty"`
}

// StateTracker is the per-actor threat state map: fixate, aggro loss and
// invulnerability, keyed by kind. It is independent of the interceptor
// dispatch list; state-typed specials and configured state buffs update it.
type StateTracker struct {
	states map[int]map[threatcfg.StateKind]StateEntry
}

// NewStateTracker returns an empty state tracker.
func NewStateTracker() *StateTracker {
	return &StateTracker{states: make(map[int]map[threatcfg.StateKind]StateEntry)}
}

// Set records a state on the actor, replacing any prior entry of the kind.
func (s *StateTracker) Set(actorID int, entry StateEntry) {
	m, ok := s.states[actorID]
	if !ok {
		m = make(map[threatcfg.StateKind]StateEntry)
		s.states[actorID] = m
	}
	m[entry.Kind] = entry
}

// Clear removes a state kind from the actor.
func (s *StateTracker) Clear(actorID int, kind threatcfg.StateKind) {
	if m, ok := s.states[actorID]; ok {
		delete(m, kind)
	}
}

// Get returns the actor's state of the given kind if present and not expired
// at the supplied log time. Expired entries are removed lazily.
func (s *StateTracker) Get(actorID int, kind threatcfg.StateKind, now int64) (StateEntry, bool) {
	m, ok := s.states[actorID]
	if !ok {
		return StateEntry{}, false
	}
	entry, ok := m[kind]
	if !ok {
		return StateEntry{}, false
	}
	if entry.ExpiresAt > 0 && now > entry.ExpiresAt {
		delete(m, kind)
		return StateEntry{}, false
	}
	return entry, true
}

// Snapshot exports every actor's unexpired states at the given log time,
// suitable for resuming a later page of the same fight. Actors with no live
// state are omitted.
func (s *StateTracker) Snapshot(now int64) map[int][]StateEntry {
	out := make(map[int][]StateEntry, len(s.states))
	for actorID := range s.states {
		if entries := s.ActiveStates(actorID, now); len(entries) > 0 {
			out[actorID] = entries
		}
	}
	return out
}

// ActiveStates lists the actor's unexpired states in kind order.
func (s *StateTracker) ActiveStates(actorID int, now int64) []StateEntry {
	m, ok := s.states[actorID]
	if !ok {
		return nil
	}
	kinds := make([]string, 0, len(m))
	for kind := range m {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	var out []StateEntry
	for _, kind := range kinds {
		if entry, ok := s.Get(actorID, threatcfg.StateKind(kind), now); ok {
			out = append(out, entry)
		}
	}
	return out
}
