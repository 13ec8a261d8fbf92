package gamedata

import (
	"encoding/json"
	"fmt"
	"os"
)

// ActorType values used in report rosters.
const (
	ActorTypePlayer = "Player"
	ActorTypePet    = "Pet"
	ActorTypeNPC    = "NPC"
)

// ReportActor is one roster entry: a player, a pet, or an NPC.
type ReportActor struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	SubType  string `json:"subType,omitempty"` // player class, e.g. "Warrior"
	GameID   int    `json:"gameID,omitempty"`  // creature id for NPCs
	PetOwner int    `json:"petOwner,omitempty"`
}

// ReportAbility is one ability-table entry.
type ReportAbility struct {
	GameID int    `json:"gameID"`
	Name   string `json:"name"`
	Type   School `json:"type"` // spell-school bitmask
}

// Fight is one encounter within a report.
type Fight struct {
	ID              int          `json:"id"`
	EncounterID     int          `json:"encounterID"`
	Name            string       `json:"name"`
	StartTime       int64        `json:"startTime"`
	EndTime         int64        `json:"endTime"`
	SeasonID        int          `json:"seasonID,omitempty"`
	FriendlyPlayers []int        `json:"friendlyPlayers"`
	FriendlyPets    []int        `json:"friendlyPets,omitempty"`
	EnemyNPCs       []FightEnemy `json:"enemyNPCs"`
	EnemyPets       []FightEnemy `json:"enemyPets,omitempty"`
}

// FightEnemy references a hostile roster actor together with its spawn
// instance. Instance disambiguates multiple spawns of the same creature.
type FightEnemy struct {
	ID       int `json:"id"`
	GameID   int `json:"gameID"`
	Instance int `json:"instance"`
}

// Report is a complete exported combat log: metadata, roster, abilities,
// fights, and the full ordered event stream.
type Report struct {
	Code        string          `json:"code"`
	GameVersion int             `json:"gameVersion"`
	Partitions  []string        `json:"partitions,omitempty"`
	Actors      []ReportActor   `json:"actors"`
	Abilities   []ReportAbility `json:"abilities"`
	Fights      []Fight         `json:"fights"`
	Events      []Event         `json:"events"`

	// CombatantInfo carries the per-player gear/talent snapshot taken at
	// fight start, used to derive synthetic auras.
	CombatantInfo []CombatantInfo `json:"combatantInfo,omitempty"`

	// TankIDs marks the actors the caller considers tanks. The engine
	// passes them through untouched for downstream consumers.
	TankIDs []int `json:"tankIDs,omitempty"`
}

// CombatantInfo is the gear and talent snapshot for one player.
type CombatantInfo struct {
	SourceID int          `json:"sourceID"`
	Gear     []int        `json:"gear,omitempty"`    // equipped item ids
	Talents  []TalentSpec `json:"talents,omitempty"` // points per tree
	Auras    []int        `json:"auras,omitempty"`   // aura spell ids at snapshot time
}

// TalentSpec is points spent in one talent tree.
type TalentSpec struct {
	Tree   int `json:"tree"`
	Points int `json:"points"`
}

// ReadReport decodes a report export from a JSON file. This is the whole of
// the Log Source boundary: input is always a complete, already-ordered batch.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &rep, nil
}
