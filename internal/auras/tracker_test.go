package auras

import (
	"reflect"
	"testing"
)

var stances = [][]int{{71, 2457, 2458}}

func TestApplyAndRemove(t *testing.T) {
	tr := NewTracker(nil)

	tr.Apply(1, 25780)
	if !tr.IsActive(1, 25780) {
		t.Fatal("aura not active after apply")
	}
	if tr.IsActive(2, 25780) {
		t.Fatal("aura leaked to another actor")
	}

	tr.Remove(1, 25780)
	if tr.IsActive(1, 25780) {
		t.Fatal("aura still active after remove")
	}

	// Removing an aura that was never applied is a no-op.
	tr.Remove(3, 12345)
}

func TestExclusiveGroupInvariant(t *testing.T) {
	tr := NewTracker(stances)

	tr.Apply(1, 2457)
	tr.Apply(1, 71)
	if tr.IsActive(1, 2457) {
		t.Fatal("applying Defensive Stance must remove Battle Stance")
	}
	if !tr.IsActive(1, 71) {
		t.Fatal("Defensive Stance must be active")
	}

	tr.Apply(1, 2458)
	active := tr.ActiveSet(1)
	if len(active) != 1 {
		t.Fatalf("active set = %v, want exactly one group member", active)
	}
	if _, ok := active[2458]; !ok {
		t.Fatal("Berserker Stance must be the surviving member")
	}

	// Group membership is per actor: another actor's stance is untouched.
	tr.Apply(2, 71)
	tr.Apply(1, 2457)
	if !tr.IsActive(2, 71) {
		t.Fatal("actor 2's stance must be unaffected by actor 1")
	}
}

func TestSeedAndSnapshot(t *testing.T) {
	tr := NewTracker(stances)
	tr.Seed(map[int][]int{
		1: {2457, 71}, // later seed entry wins the exclusive group
		2: {25780, 25895},
	})

	want := map[int][]int{
		1: {71},
		2: {25780, 25895},
	}
	if got := tr.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}

	// Snapshots are sorted and stable across runs.
	if got := tr.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("second Snapshot() = %v, want %v", got, want)
	}

	// A snapshot can seed a fresh tracker for the next page.
	next := NewTracker(stances)
	next.Seed(tr.Snapshot())
	if !reflect.DeepEqual(next.Snapshot(), want) {
		t.Fatal("snapshot roundtrip changed state")
	}
}
