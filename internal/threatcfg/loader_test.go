package threatcfg

import (
	"os"
	"path/filepath"
	"testing"
)

// The shipped tables must load, validate and lint clean.
func TestShippedConfigs(t *testing.T) {
	configs, err := LoadDir(filepath.Join("..", "..", "configs"))
	if err != nil {
		t.Fatalf("LoadDir returned error: %v", err)
	}
	if len(configs) == 0 {
		t.Fatal("no shipped configs found")
	}
	for _, cfg := range configs {
		if cfg.Revision == "" {
			t.Fatalf("%s: missing revision", cfg.Name)
		}
		for _, warning := range Lint(cfg) {
			t.Errorf("%s: %s", cfg.Name, warning)
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "table.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
name: test
revision: r1
match:
  gameVersion: 2
base:
  damage:
    kind: scaled
    coefficient: 1
classes:
  Warrior:
    abilities:
      23922:
        kind: scaled
        coefficient: 2
        flat: 150
    auraModifiers:
      71:
        - source: stance
          name: Defensive Stance
          value: 1.3
exclusiveAuras:
  - [71, 2457]
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	f, ok := cfg.Classes["Warrior"].Abilities[23922]
	if !ok {
		t.Fatal("ability 23922 missing")
	}
	if got := f.Evaluate(2500); got != 5150 {
		t.Fatalf("Evaluate(2500) = %v, want 5150", got)
	}
	if got := f.Describe(); got != "(amount * 2) + 150" {
		t.Fatalf("Describe() = %q", got)
	}
}

func TestLoadFileRejectsBadTables(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown formula kind", `
name: bad
match: {gameVersion: 2}
global:
  abilities:
    1: {kind: quadratic}
`},
		{"unknown school", `
name: bad
match: {gameVersion: 2}
global:
  auraModifiers:
    71:
      - {source: stance, name: X, value: 1.3, schools: [chromatic]}
`},
		{"interceptor without bounds", `
name: bad
match: {gameVersion: 2}
global:
  abilities:
    1:
      kind: zero
      special:
        kind: interceptor
        interceptor: {kind: redirect}
`},
		{"aura in two exclusive groups", `
name: bad
match: {gameVersion: 2}
exclusiveAuras:
  - [71, 2457]
  - [71, 783]
`},
		{"missing game version", `
name: bad
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFile(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected load error")
			}
		})
	}
}
