package upgrade

import (
	"fmt"
	"strings"
)

// Type is the tag identifying an upgrade variant.
type Type string

const (
	TypeExtraDefender     Type = "extra_defender"
	TypeSpeedBoost        Type = "speed_boost"
	TypeReachBoost        Type = "reach_boost"
	TypeEnemySlowdown     Type = "enemy_slowdown"
	TypeProBowlLinebacker Type = "pro_bowl_linebacker"
	TypeIronCurtain       Type = "iron_curtain"
	TypeCrowdBonus        Type = "crowd_bonus"
	TypeExtraLife         Type = "extra_life"
)

// Target names the single quantity an upgrade variant changes.
type Target string

const (
	TargetExtraDefenders   Target = "extra_defenders"
	TargetSpeedBoostPct    Target = "speed_boost_pct"
	TargetReachBoostPct    Target = "reach_boost_pct"
	TargetEnemySlowdownPct Target = "enemy_slowdown_pct"

	// Instant targets are applied once to the session on selection and do
	// not contribute to the modifier record.
	TargetBonusPoints Target = "bonus_points"
	TargetExtraLife   Target = "extra_life"
)

var allTargets = []Target{
	TargetExtraDefenders,
	TargetSpeedBoostPct,
	TargetReachBoostPct,
	TargetEnemySlowdownPct,
	TargetBonusPoints,
	TargetExtraLife,
}

// Validate reports whether t is a known target.
func (t Target) Validate() error {
	for _, known := range allTargets {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("unknown upgrade target %q (expected one of %s)", t, targetList())
}

// IsInstant reports whether the target is applied once rather than folded
// into the modifier record.
func (t Target) IsInstant() bool {
	return t == TargetBonusPoints || t == TargetExtraLife
}

func targetList() string {
	parts := make([]string, len(allTargets))
	for i, t := range allTargets {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

// Tier separates the limited high tier from the never-exhausted minor pool.
type Tier string

const (
	TierHigh  Tier = "high"
	TierMinor Tier = "minor"
)

// Definition describes one upgrade variant: its tag, the quantity it
// changes and by how much, and the acquisition limits.
type Definition struct {
	Type        Type    `yaml:"type" json:"type"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Icon        string  `yaml:"icon" json:"icon"`
	Color       string  `yaml:"color" json:"color"`
	Target      Target  `yaml:"target" json:"target"`
	Magnitude   float64 `yaml:"magnitude" json:"magnitude"`
	Tier        Tier    `yaml:"tier" json:"tier"`
	Single      bool    `yaml:"single" json:"single"`
	MaxStacks   int     `yaml:"max_stacks" json:"maxStacks,omitempty"`
}

// Available reports whether the definition can still be offered given how
// many times it has already been acquired this session.
func (d Definition) Available(acquired int) bool {
	if d.Tier == TierMinor {
		return true
	}
	if d.Single && acquired > 0 {
		return false
	}
	if d.MaxStacks > 0 && acquired >= d.MaxStacks {
		return false
	}
	return true
}
