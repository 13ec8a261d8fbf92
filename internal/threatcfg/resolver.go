package threatcfg

import (
	"errors"
	"fmt"
)

// Resolution errors. Both mean "no config": applying wrong game-version math
// silently is worse than refusing, so the resolver fails closed.
var (
	ErrNoConfig        = errors.New("no threat config matches report metadata")
	ErrAmbiguousConfig = errors.New("multiple threat configs match report metadata")
)

// Resolve selects the single config whose predicate matches the report
// metadata. Zero matches or more than one match both fail.
func Resolve(configs []*Config, meta Metadata) (*Config, error) {
	var matched *Config
	for _, cfg := range configs {
		if !cfg.Matches(meta) {
			continue
		}
		if matched != nil {
			return nil, fmt.Errorf("%w: %s and %s (gameVersion=%d season=%d)",
				ErrAmbiguousConfig, matched.Name, cfg.Name, meta.GameVersion, meta.SeasonID)
		}
		matched = cfg
	}
	if matched == nil {
		return nil, fmt.Errorf("%w: gameVersion=%d season=%d", ErrNoConfig, meta.GameVersion, meta.SeasonID)
	}
	return matched, nil
}
