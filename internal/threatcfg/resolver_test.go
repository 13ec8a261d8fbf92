package threatcfg

import (
	"errors"
	"testing"
)

func eraConfig() *Config {
	return &Config{Name: "era", Match: Match{GameVersion: 2, SeasonIDs: []int{0}}}
}

func seasonConfig() *Config {
	return &Config{Name: "season", Match: Match{GameVersion: 2, SeasonIDs: []int{3}}}
}

func TestResolveSingleMatch(t *testing.T) {
	configs := []*Config{eraConfig(), seasonConfig()}

	cfg, err := Resolve(configs, Metadata{GameVersion: 2, SeasonID: 3})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if cfg.Name != "season" {
		t.Fatalf("resolved %q, want season", cfg.Name)
	}
}

func TestResolveZeroMatchesFailsClosed(t *testing.T) {
	configs := []*Config{eraConfig(), seasonConfig()}

	_, err := Resolve(configs, Metadata{GameVersion: 3, SeasonID: 0})
	if !errors.Is(err, ErrNoConfig) {
		t.Fatalf("err = %v, want ErrNoConfig", err)
	}
	_, err = Resolve(configs, Metadata{GameVersion: 2, SeasonID: 9})
	if !errors.Is(err, ErrNoConfig) {
		t.Fatalf("unknown season err = %v, want ErrNoConfig", err)
	}
}

func TestResolveAmbiguousFailsClosed(t *testing.T) {
	dup := eraConfig()
	dup.Name = "era-copy"
	configs := []*Config{eraConfig(), dup}

	_, err := Resolve(configs, Metadata{GameVersion: 2, SeasonID: 0})
	if !errors.Is(err, ErrAmbiguousConfig) {
		t.Fatalf("err = %v, want ErrAmbiguousConfig", err)
	}
}

func TestResolvePartitionConstraint(t *testing.T) {
	cfg := &Config{Name: "hc", Match: Match{GameVersion: 2, Partitions: []string{"hardcore"}}}

	if _, err := Resolve([]*Config{cfg}, Metadata{GameVersion: 2}); !errors.Is(err, ErrNoConfig) {
		t.Fatalf("missing partition err = %v, want ErrNoConfig", err)
	}
	got, err := Resolve([]*Config{cfg}, Metadata{GameVersion: 2, Partitions: []string{"hardcore", "fresh"}})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.Name != "hc" {
		t.Fatalf("resolved %q, want hc", got.Name)
	}
}
