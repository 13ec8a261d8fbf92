package engine

import (
	"testing"

	"github.com/tstirrat/wow-threat-sub003/internal/gamedata"
	"github.com/tstirrat/wow-threat-sub003/internal/threatcfg"
)

func installEvent(ts int64, source, target int) gamedata.Event {
	return gamedata.Event{
		Timestamp:        ts,
		Type:             gamedata.EventCast,
		SourceID:         source,
		SourceIsFriendly: true,
		TargetID:         target,
		TargetIsFriendly: true,
	}
}

func qualifyingEvent(ts int64, source int) gamedata.Event {
	return gamedata.Event{
		Timestamp:        ts,
		Type:             gamedata.EventDamage,
		SourceID:         source,
		SourceIsFriendly: true,
		TargetID:         bossID,
		Amount:           100,
	}
}

func TestRegistryChargeExpiry(t *testing.T) {
	r := NewRegistry()
	r.Install(&threatcfg.InterceptorSpec{
		Kind:    threatcfg.InterceptRedirect,
		Charges: 3,
	}, installEvent(0, rogueID, warriorID), "Tricks")

	for i := 1; i <= 3; i++ {
		claim := r.Evaluate(qualifyingEvent(int64(i*100), rogueID))
		if claim.Decision != DecisionAugment || claim.RedirectTo != warriorID {
			t.Fatalf("charge %d: claim = %+v", i, claim)
		}
	}
	if r.Len() != 0 {
		t.Fatalf("registry holds %d handlers after the last charge", r.Len())
	}
	if claim := r.Evaluate(qualifyingEvent(400, rogueID)); claim.Decision != DecisionPassthrough {
		t.Fatalf("post-exhaustion claim = %+v, want passthrough", claim)
	}
}

func TestRegistryWindowBoundary(t *testing.T) {
	r := NewRegistry()
	r.Install(&threatcfg.InterceptorSpec{
		Kind:       threatcfg.InterceptAmplify,
		WindowMS:   30000,
		Multiplier: 1.2,
	}, installEvent(0, warriorID, warriorID), "Rage")

	if claim := r.Evaluate(qualifyingEvent(29000, warriorID)); claim.Decision != DecisionAugment || claim.Multiplier != 1.2 {
		t.Fatalf("claim inside window = %+v", claim)
	}
	if claim := r.Evaluate(qualifyingEvent(31000, warriorID)); claim.Decision != DecisionPassthrough {
		t.Fatalf("claim past window = %+v, want passthrough", claim)
	}
	if r.Len() != 0 {
		t.Fatal("expired handler must uninstall when encountered")
	}
}

func TestRegistryWindowEdgeInclusive(t *testing.T) {
	r := NewRegistry()
	r.Install(&threatcfg.InterceptorSpec{
		Kind:       threatcfg.InterceptAmplify,
		WindowMS:   30000,
		Multiplier: 1.2,
	}, installEvent(0, warriorID, warriorID), "Rage")

	// An event exactly at the window edge still qualifies.
	if claim := r.Evaluate(qualifyingEvent(30000, warriorID)); claim.Decision != DecisionAugment {
		t.Fatalf("claim at window edge = %+v", claim)
	}
}

func TestRegistrySuppress(t *testing.T) {
	r := NewRegistry()
	r.Install(&threatcfg.InterceptorSpec{
		Kind:    threatcfg.InterceptSuppress,
		Charges: 1,
	}, installEvent(0, rogueID, rogueID), "Vanish")

	claim := r.Evaluate(qualifyingEvent(100, rogueID))
	if claim.Decision != DecisionSkip || claim.Note != "Vanish" {
		t.Fatalf("claim = %+v, want skip noted Vanish", claim)
	}
}

func TestRegistryIgnoresOtherSources(t *testing.T) {
	r := NewRegistry()
	r.Install(&threatcfg.InterceptorSpec{
		Kind:    threatcfg.InterceptRedirect,
		Charges: 1,
	}, installEvent(0, rogueID, warriorID), "Tricks")

	if claim := r.Evaluate(qualifyingEvent(100, paladinID)); claim.Decision != DecisionPassthrough {
		t.Fatalf("claim for unwatched source = %+v", claim)
	}
	if r.Len() != 1 {
		t.Fatal("unmatched event must not consume a charge")
	}
}

func TestRegistryNonThreatEventsDoNotQualify(t *testing.T) {
	r := NewRegistry()
	r.Install(&threatcfg.InterceptorSpec{
		Kind:    threatcfg.InterceptRedirect,
		Charges: 1,
	}, installEvent(0, rogueID, warriorID), "Tricks")

	cast := gamedata.Event{Timestamp: 100, Type: gamedata.EventCast, SourceID: rogueID, SourceIsFriendly: true}
	if claim := r.Evaluate(cast); claim.Decision != DecisionPassthrough {
		t.Fatalf("cast event claimed: %+v", claim)
	}
	if r.Len() != 1 {
		t.Fatal("cast must not consume a charge")
	}
}

func TestRegistryFirstInstalledClaimsFirst(t *testing.T) {
	r := NewRegistry()
	r.Install(&threatcfg.InterceptorSpec{
		Kind:    threatcfg.InterceptRedirect,
		Charges: 1,
	}, installEvent(0, rogueID, warriorID), "First")
	r.Install(&threatcfg.InterceptorSpec{
		Kind:    threatcfg.InterceptRedirect,
		Charges: 1,
	}, installEvent(10, rogueID, paladinID), "Second")

	claim := r.Evaluate(qualifyingEvent(100, rogueID))
	if claim.Note != "First" || claim.RedirectTo != warriorID {
		t.Fatalf("claim = %+v, want the earlier install", claim)
	}
	// The later handler keeps its charge for the next event.
	claim = r.Evaluate(qualifyingEvent(200, rogueID))
	if claim.Note != "Second" || claim.RedirectTo != paladinID {
		t.Fatalf("second claim = %+v", claim)
	}
}

func TestRegistryRemoveTargeting(t *testing.T) {
	r := NewRegistry()
	r.Install(&threatcfg.InterceptorSpec{
		Kind:    threatcfg.InterceptRedirect,
		Charges: 3,
	}, installEvent(0, rogueID, warriorID), "Tricks")
	r.Install(&threatcfg.InterceptorSpec{
		Kind:       threatcfg.InterceptAmplify,
		WindowMS:   60000,
		Multiplier: 1.2,
	}, installEvent(0, warriorID, warriorID), "Rage")

	r.RemoveTargeting(warriorID)

	if r.Len() != 1 {
		t.Fatalf("registry holds %d handlers, want 1 (amplify is not a redirect)", r.Len())
	}
	if claim := r.Evaluate(qualifyingEvent(100, rogueID)); claim.Decision != DecisionPassthrough {
		t.Fatalf("retired redirect still claims: %+v", claim)
	}
}
