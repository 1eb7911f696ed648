package upgrade

import (
	"math"

	"github.com/sirupsen/logrus"
)

const (
	// MaxBoostPct caps speed and reach boosts when surfaced.
	MaxBoostPct = 200
	// MaxSlowdownPct caps enemy slowdown when surfaced so carriers never stop.
	MaxSlowdownPct = 60
)

// Modifiers is the resolved capability record for a session.
type Modifiers struct {
	ExtraDefenders   int     `json:"extraDefenders"`
	SpeedBoostPct    float64 `json:"speedBoostPct"`
	ReachBoostPct    float64 `json:"reachBoostPct"`
	EnemySlowdownPct float64 `json:"enemySlowdownPct"`
}

// Combine adds two records field by field. It is associative and
// commutative with the zero Modifiers as identity.
func (m Modifiers) Combine(o Modifiers) Modifiers {
	return Modifiers{
		ExtraDefenders:   m.ExtraDefenders + o.ExtraDefenders,
		SpeedBoostPct:    m.SpeedBoostPct + o.SpeedBoostPct,
		ReachBoostPct:    m.ReachBoostPct + o.ReachBoostPct,
		EnemySlowdownPct: m.EnemySlowdownPct + o.EnemySlowdownPct,
	}
}

// Surfaced returns the record clamped to its allowed ranges with
// percentages rounded to whole points.
func (m Modifiers) Surfaced() Modifiers {
	return Modifiers{
		ExtraDefenders:   max(m.ExtraDefenders, 0),
		SpeedBoostPct:    clampPct(m.SpeedBoostPct, MaxBoostPct),
		ReachBoostPct:    clampPct(m.ReachBoostPct, MaxBoostPct),
		EnemySlowdownPct: clampPct(m.EnemySlowdownPct, MaxSlowdownPct),
	}
}

func clampPct(v, upper float64) float64 {
	return math.Round(math.Min(math.Max(v, 0), upper))
}

// Delta returns the contribution of one upgrade variant. Instant variants
// contribute nothing.
func Delta(d Definition) Modifiers {
	switch d.Target {
	case TargetExtraDefenders:
		return Modifiers{ExtraDefenders: int(math.Round(d.Magnitude))}
	case TargetSpeedBoostPct:
		return Modifiers{SpeedBoostPct: d.Magnitude}
	case TargetReachBoostPct:
		return Modifiers{ReachBoostPct: d.Magnitude}
	case TargetEnemySlowdownPct:
		return Modifiers{EnemySlowdownPct: d.Magnitude}
	default:
		return Modifiers{}
	}
}

// Resolve folds the acquired upgrades into one modifier record. The input is
// trusted: selection limits are enforced by the offer generator.
func Resolve(pool *Pool, acquired []Type) Modifiers {
	var m Modifiers
	for _, t := range acquired {
		d, ok := pool.Get(t)
		if !ok {
			logrus.Warnf("resolve: unknown upgrade type %s ignored", t)
			continue
		}
		m = m.Combine(Delta(d))
	}
	return m
}

// Counts returns how many times each type appears in acquired.
func Counts(acquired []Type) map[Type]int {
	counts := make(map[Type]int, len(acquired))
	for _, t := range acquired {
		counts[t]++
	}
	return counts
}
