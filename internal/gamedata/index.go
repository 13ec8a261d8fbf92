package gamedata

import (
	"errors"
	"fmt"
	"sort"
)

// ErrFightNotFound is returned when the requested fight id is not present in
// the supplied report.
var ErrFightNotFound = errors.New("fight not found in report")

// IndexedActor is the per-actor lookup record for one fight.
type IndexedActor struct {
	ID       int
	Name     string
	Class    string // empty for NPCs and unknown actors
	Friendly bool
}

// EnemyRef is one tracked hostile spawn for the fight.
type EnemyRef struct {
	ID       int
	GameID   int
	Name     string
	Instance int
}

// FightIndex holds the lookup tables for one fight: actor facts, the tracked
// enemy list, and the ability spell-school map. Built once per fight,
// read-only afterwards.
type FightIndex struct {
	FightID     int
	EncounterID int
	SeasonID    int

	Actors         map[int]IndexedActor
	FriendlyIDs    map[int]struct{}
	Enemies        []EnemyRef
	AbilitySchools map[int]School
	AbilityNames   map[int]string

	enemyByKey map[enemyKey]int // index into Enemies
}

type enemyKey struct {
	id       int
	instance int
}

// BuildFightIndex builds the lookup tables for the given fight. Actor ids
// referenced by the fight but absent from the report roster are omitted
// rather than treated as errors.
func BuildFightIndex(rep *Report, fightID int) (*FightIndex, error) {
	var fight *Fight
	for i := range rep.Fights {
		if rep.Fights[i].ID == fightID {
			fight = &rep.Fights[i]
			break
		}
	}
	if fight == nil {
		return nil, fmt.Errorf("%w: id %d in report %s", ErrFightNotFound, fightID, rep.Code)
	}

	roster := make(map[int]ReportActor, len(rep.Actors))
	for _, a := range rep.Actors {
		roster[a.ID] = a
	}

	idx := &FightIndex{
		FightID:        fight.ID,
		EncounterID:    fight.EncounterID,
		SeasonID:       fight.SeasonID,
		Actors:         make(map[int]IndexedActor),
		FriendlyIDs:    make(map[int]struct{}),
		AbilitySchools: make(map[int]School, len(rep.Abilities)),
		AbilityNames:   make(map[int]string, len(rep.Abilities)),
		enemyByKey:     make(map[enemyKey]int),
	}

	for _, id := range fight.FriendlyPlayers {
		a, ok := roster[id]
		if !ok {
			continue
		}
		idx.Actors[id] = IndexedActor{ID: id, Name: a.Name, Class: a.SubType, Friendly: true}
		idx.FriendlyIDs[id] = struct{}{}
	}
	for _, id := range fight.FriendlyPets {
		a, ok := roster[id]
		if !ok {
			continue
		}
		// Pets inherit no class; their owner's class tables never apply.
		idx.Actors[id] = IndexedActor{ID: id, Name: a.Name, Friendly: true}
		idx.FriendlyIDs[id] = struct{}{}
	}

	addEnemies := func(refs []FightEnemy) {
		for _, ref := range refs {
			a, ok := roster[ref.ID]
			if !ok {
				continue
			}
			if _, seen := idx.Actors[ref.ID]; !seen {
				idx.Actors[ref.ID] = IndexedActor{ID: ref.ID, Name: a.Name, Friendly: false}
			}
			key := enemyKey{id: ref.ID, instance: ref.Instance}
			if _, dup := idx.enemyByKey[key]; dup {
				continue
			}
			idx.enemyByKey[key] = len(idx.Enemies)
			idx.Enemies = append(idx.Enemies, EnemyRef{
				ID:       ref.ID,
				GameID:   ref.GameID,
				Name:     a.Name,
				Instance: ref.Instance,
			})
		}
	}
	addEnemies(fight.EnemyNPCs)
	addEnemies(fight.EnemyPets)

	sort.Slice(idx.Enemies, func(i, j int) bool {
		if idx.Enemies[i].ID != idx.Enemies[j].ID {
			return idx.Enemies[i].ID < idx.Enemies[j].ID
		}
		return idx.Enemies[i].Instance < idx.Enemies[j].Instance
	})
	idx.enemyByKey = make(map[enemyKey]int, len(idx.Enemies))
	for i, e := range idx.Enemies {
		idx.enemyByKey[enemyKey{id: e.ID, instance: e.Instance}] = i
	}

	for _, ab := range rep.Abilities {
		idx.AbilitySchools[ab.GameID] = ab.Type
		idx.AbilityNames[ab.GameID] = ab.Name
	}

	return idx, nil
}

// Enemy looks up a tracked enemy by actor id and instance. If the exact
// instance is untracked it falls back to instance zero, covering events whose
// instance data is absent.
func (idx *FightIndex) Enemy(id, instance int) (EnemyRef, bool) {
	if i, ok := idx.enemyByKey[enemyKey{id: id, instance: instance}]; ok {
		return idx.Enemies[i], true
	}
	if instance != 0 {
		if i, ok := idx.enemyByKey[enemyKey{id: id, instance: 0}]; ok {
			return idx.Enemies[i], true
		}
	}
	return EnemyRef{}, false
}

// IsFriendly reports whether the actor id belongs to the friendly roster.
func (idx *FightIndex) IsFriendly(id int) bool {
	_, ok := idx.FriendlyIDs[id]
	return ok
}

// ActorClass returns the class of a friendly actor, or "" when unknown.
func (idx *FightIndex) ActorClass(id int) string {
	return idx.Actors[id].Class
}

// AbilityName returns the display name for an ability id, "" when unknown.
func (idx *FightIndex) AbilityName(abilityGameID int) string {
	return idx.AbilityNames[abilityGameID]
}

// School returns the spell school for an ability id, zero when unknown.
func (idx *FightIndex) School(abilityGameID int) School {
	return idx.AbilitySchools[abilityGameID]
}
