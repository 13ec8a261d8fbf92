package engine

import (
	"github.com/tstirrat/wow-threat-sub003/internal/gamedata"
	"github.com/tstirrat/wow-threat-sub003/internal/threatcfg"
)

// ThreatChange is the threat one event generates toward one enemy.
type ThreatChange struct {
	EnemyID       int     `json:"enemyID"`
	EnemyInstance int     `json:"enemyInstance"`
	Amount        float64 `json:"amount"`
}

// distribute turns the modified threat value into per-enemy changes.
// Split spreads evenly across every tracked enemy, including ones the event
// never touched; raid-wide generators like shouts are modeled this way.
// Damage against a friendly target generates nothing; healing and resource
// events keep generating threat regardless of their friendly target.
func distribute(ctx *runContext, ev gamedata.Event, modified float64, res FormulaResult) []ThreatChange {
	if modified == 0 {
		return nil
	}
	if ev.Type == gamedata.EventDamage && ev.TargetIsFriendly {
		return nil
	}

	if res.Split {
		n := len(ctx.index.Enemies)
		if n == 0 {
			return nil
		}
		share := modified / float64(n)
		changes := make([]ThreatChange, 0, n)
		for _, enemy := range ctx.index.Enemies {
			changes = append(changes, ThreatChange{
				EnemyID:       enemy.ID,
				EnemyInstance: enemy.Instance,
				Amount:        share,
			})
		}
		return changes
	}

	enemy, ok := ctx.index.Enemy(ev.TargetID, ev.TargetInstance)
	if !ok {
		return nil
	}
	return []ThreatChange{{
		EnemyID:       enemy.ID,
		EnemyInstance: enemy.Instance,
		Amount:        modified,
	}}
}

// distributeCustom builds the changes a custom special enumerates itself,
// independent of who the event hit.
func distributeCustom(ctx *runContext, ev gamedata.Event, sp *threatcfg.Special) []ThreatChange {
	switch sp.Targets {
	case threatcfg.CustomAllEnemies:
		changes := make([]ThreatChange, 0, len(ctx.index.Enemies))
		for _, enemy := range ctx.index.Enemies {
			changes = append(changes, ThreatChange{
				EnemyID:       enemy.ID,
				EnemyInstance: enemy.Instance,
				Amount:        sp.Amount,
			})
		}
		return changes
	case threatcfg.CustomEventTarget:
		enemy, ok := ctx.index.Enemy(ev.TargetID, ev.TargetInstance)
		if !ok {
			return nil
		}
		return []ThreatChange{{
			EnemyID:       enemy.ID,
			EnemyInstance: enemy.Instance,
			Amount:        sp.Amount,
		}}
	}
	return nil
}
