package upgrade

import (
	"fmt"
	"strings"
)

// Pool is the set of upgrade definitions a session can be offered.
type Pool struct {
	defs  map[Type]Definition
	order []Type
}

// NewPool validates the definitions and builds a pool. The minor tier must
// hold at least MinOfferSize entries so an offer can always be filled.
func NewPool(defs []Definition) (*Pool, error) {
	var errs []string

	p := &Pool{defs: make(map[Type]Definition, len(defs))}
	minor := 0
	for _, d := range defs {
		if d.Type == "" {
			errs = append(errs, "upgrade with empty type")
			continue
		}
		if _, exists := p.defs[d.Type]; exists {
			errs = append(errs, fmt.Sprintf("duplicate upgrade type %s", d.Type))
			continue
		}
		if err := d.Target.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("upgrade %s: %v", d.Type, err))
		}
		if d.Magnitude < 0 {
			errs = append(errs, fmt.Sprintf("upgrade %s magnitude must be >= 0", d.Type))
		}
		switch d.Tier {
		case TierHigh:
		case TierMinor:
			if d.Single || d.MaxStacks > 0 {
				errs = append(errs, fmt.Sprintf("minor upgrade %s must not be limited", d.Type))
			}
			minor++
		default:
			errs = append(errs, fmt.Sprintf("upgrade %s has unknown tier %q", d.Type, d.Tier))
		}

		p.defs[d.Type] = d
		p.order = append(p.order, d.Type)
	}

	if minor < MinOfferSize {
		errs = append(errs, fmt.Sprintf("minor pool needs at least %d upgrades, found %d", MinOfferSize, minor))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid upgrade pool: %s", strings.Join(errs, "; "))
	}
	return p, nil
}

// Get returns the definition for a type.
func (p *Pool) Get(t Type) (Definition, bool) {
	d, ok := p.defs[t]
	return d, ok
}

// ByTier returns the definitions of one tier in registration order.
func (p *Pool) ByTier(tier Tier) []Definition {
	var out []Definition
	for _, t := range p.order {
		if d := p.defs[t]; d.Tier == tier {
			out = append(out, d)
		}
	}
	return out
}

// All returns every definition in registration order.
func (p *Pool) All() []Definition {
	out := make([]Definition, 0, len(p.order))
	for _, t := range p.order {
		out = append(out, p.defs[t])
	}
	return out
}

// DefaultDefinitions returns the built-in upgrade set.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Type: TypeExtraDefender, Name: "Extra Defender", Description: "Adds a defender to the line",
			Icon: "shield", Color: "#1E88E5", Target: TargetExtraDefenders, Magnitude: 1, Tier: TierHigh, MaxStacks: 2},
		{Type: TypeSpeedBoost, Name: "Speed Boost", Description: "Defenders move 15% faster",
			Icon: "bolt", Color: "#FDD835", Target: TargetSpeedBoostPct, Magnitude: 15, Tier: TierHigh, MaxStacks: 3},
		{Type: TypeReachBoost, Name: "Long Arms", Description: "Tackle reach +20%",
			Icon: "hand", Color: "#43A047", Target: TargetReachBoostPct, Magnitude: 20, Tier: TierHigh, MaxStacks: 3},
		{Type: TypeEnemySlowdown, Name: "Muddy Field", Description: "Ball carriers move 10% slower",
			Icon: "cloud", Color: "#6D4C41", Target: TargetEnemySlowdownPct, Magnitude: 10, Tier: TierHigh, MaxStacks: 3},
		{Type: TypeProBowlLinebacker, Name: "Pro Bowl Linebacker", Description: "Two elite defenders join the line",
			Icon: "star", Color: "#8E24AA", Target: TargetExtraDefenders, Magnitude: 2, Tier: TierHigh, Single: true},
		{Type: TypeIronCurtain, Name: "Iron Curtain", Description: "Ball carriers move 25% slower",
			Icon: "wall", Color: "#546E7A", Target: TargetEnemySlowdownPct, Magnitude: 25, Tier: TierHigh, Single: true},
		{Type: TypeCrowdBonus, Name: "Crowd Bonus", Description: "+250 points",
			Icon: "megaphone", Color: "#FB8C00", Target: TargetBonusPoints, Magnitude: 250, Tier: TierMinor},
		{Type: TypeExtraLife, Name: "Timeout", Description: "+1 life",
			Icon: "heart", Color: "#E53935", Target: TargetExtraLife, Magnitude: 1, Tier: TierMinor},
	}
}

// DefaultPool returns a pool built from DefaultDefinitions.
func DefaultPool() *Pool {
	p, err := NewPool(DefaultDefinitions())
	if err != nil {
		panic("upgrade: invalid default pool: " + err.Error())
	}
	return p
}
