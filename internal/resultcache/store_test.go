package resultcache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tstirrat/wow-threat-sub003/internal/engine"
	"github.com/tstirrat/wow-threat-sub003/internal/gamedata"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleOutput() *engine.Output {
	return &engine.Output{
		Events: []engine.AugmentedEvent{{
			Event: gamedata.Event{
				Timestamp:        10,
				Type:             gamedata.EventDamage,
				SourceID:         1,
				SourceIsFriendly: true,
				TargetID:         10,
				Amount:           500,
			},
			Threat: &engine.ThreatPayload{
				Values:       []engine.ThreatChange{{EnemyID: 10, Amount: 500}},
				AttributedTo: 1,
				Calculation:  engine.Calculation{Formula: "amount * 1", Amount: 500, Base: 500, Multiplier: 1},
			},
		}},
		AuraSnapshot: map[int][]int{1: {71}},
		TankIDs:      []int{1},
	}
}

func TestPutGetRoundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.Put(ctx, "AbCd1234", 1, "classic-1", sampleOutput())
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if id == "" {
		t.Fatal("Put returned an empty run id")
	}

	got, hit, err := store.Get(ctx, "AbCd1234", 1, "classic-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !hit {
		t.Fatal("Get missed a stored run")
	}
	if len(got.Events) != 1 || got.Events[0].Threat == nil {
		t.Fatalf("cached output lost events: %+v", got.Events)
	}
	if got.Events[0].Threat.Values[0].Amount != 500 {
		t.Fatalf("cached amount = %v, want 500", got.Events[0].Threat.Values[0].Amount)
	}
	if got.AuraSnapshot[1][0] != 71 {
		t.Fatalf("cached snapshot = %v", got.AuraSnapshot)
	}
}

func TestGetMiss(t *testing.T) {
	store := openTestStore(t)

	out, hit, err := store.Get(context.Background(), "AbCd1234", 1, "classic-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if hit || out != nil {
		t.Fatalf("Get reported a hit on an empty cache: %+v", out)
	}
}

func TestPutReplacesSameKey(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := sampleOutput()
	if _, err := store.Put(ctx, "AbCd1234", 1, "classic-1", first); err != nil {
		t.Fatalf("first Put returned error: %v", err)
	}

	second := sampleOutput()
	second.Events[0].Threat.Values[0].Amount = 999
	if _, err := store.Put(ctx, "AbCd1234", 1, "classic-1", second); err != nil {
		t.Fatalf("second Put returned error: %v", err)
	}

	got, hit, err := store.Get(ctx, "AbCd1234", 1, "classic-1")
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if got.Events[0].Threat.Values[0].Amount != 999 {
		t.Fatalf("amount = %v, want the replacement value 999", got.Events[0].Threat.Values[0].Amount)
	}

	// Different revision is a distinct key.
	if _, hit, _ := store.Get(ctx, "AbCd1234", 1, "classic-2"); hit {
		t.Fatal("revision must be part of the cache key")
	}
}

func TestPutValidatesInput(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Put(ctx, "", 1, "classic-1", sampleOutput()); err == nil {
		t.Fatal("Put accepted an empty report code")
	}
	if _, err := store.Put(ctx, "AbCd1234", 1, "classic-1", nil); err == nil {
		t.Fatal("Put accepted a nil output")
	}
}
