package gamedata

// EventType identifies the kind of a combat-log event.
type EventType string

// Event types that carry threat-relevant payloads.
const (
	EventDamage   EventType = "damage"
	EventHeal     EventType = "heal"
	EventEnergize EventType = "energize"
	EventCast     EventType = "cast"
)

// Aura application/removal events. These mutate tracked aura state.
const (
	EventApplyBuff    EventType = "applybuff"
	EventRemoveBuff   EventType = "removebuff"
	EventApplyDebuff  EventType = "applydebuff"
	EventRemoveDebuff EventType = "removedebuff"
)

// EventDeath records an actor dying. It generates no threat but retires
// any attribution handler pointed at the dead actor.
const EventDeath EventType = "death"

// School is a spell-school bitmask as recorded in the log's ability table.
type School int

const (
	SchoolPhysical School = 1 << iota
	SchoolHoly
	SchoolFire
	SchoolNature
	SchoolFrost
	SchoolShadow
	SchoolArcane
)

var schoolNames = map[string]School{
	"physical": SchoolPhysical,
	"holy":     SchoolHoly,
	"fire":     SchoolFire,
	"nature":   SchoolNature,
	"frost":    SchoolFrost,
	"shadow":   SchoolShadow,
	"arcane":   SchoolArcane,
}

// SchoolByName returns the school bit for a lowercase school name.
func SchoolByName(name string) (School, bool) {
	s, ok := schoolNames[name]
	return s, ok
}

// Event is one combat-log entry. The log emits these in ascending timestamp
// order with ties kept in original sequence; the engine never re-sorts them.
// Fields not present for a given type decode to their zero value, and the
// formula layer treats missing fields as zero contribution rather than
// failing the event.
type Event struct {
	Timestamp        int64     `json:"timestamp"`
	Type             EventType `json:"type"`
	SourceID         int       `json:"sourceID"`
	SourceIsFriendly bool      `json:"sourceIsFriendly"`
	TargetID         int       `json:"targetID"`
	TargetIsFriendly bool      `json:"targetIsFriendly"`
	TargetInstance   int       `json:"targetInstance,omitempty"`
	AbilityGameID    int       `json:"abilityGameID,omitempty"`

	Amount         float64 `json:"amount,omitempty"`
	Overheal       float64 `json:"overheal,omitempty"`
	ResourceChange float64 `json:"resourceChange,omitempty"`
	Waste          float64 `json:"waste,omitempty"`
}

// BaseAmount returns the threat-relevant amount for the event: raw damage,
// effective healing (overheal excluded), or effective resource gain (waste
// excluded). Other event types contribute zero.
func (e Event) BaseAmount() float64 {
	switch e.Type {
	case EventDamage:
		return e.Amount
	case EventHeal:
		amt := e.Amount - e.Overheal
		if amt < 0 {
			return 0
		}
		return amt
	case EventEnergize:
		amt := e.ResourceChange - e.Waste
		if amt < 0 {
			return 0
		}
		return amt
	}
	return 0
}
