package upgrade

import (
	"errors"
	"strings"
	"testing"
)

func TestResolve_Additive(t *testing.T) {
	pool := DefaultPool()

	tests := []struct {
		name     string
		acquired []Type
		expected Modifiers
	}{
		{"empty", nil, Modifiers{}},
		{"single speed", []Type{TypeSpeedBoost}, Modifiers{SpeedBoostPct: 15}},
		{"stacked speed", []Type{TypeSpeedBoost, TypeSpeedBoost}, Modifiers{SpeedBoostPct: 30}},
		{"defenders from two variants", []Type{TypeExtraDefender, TypeProBowlLinebacker}, Modifiers{ExtraDefenders: 3}},
		{"slowdown mix", []Type{TypeEnemySlowdown, TypeIronCurtain}, Modifiers{EnemySlowdownPct: 35}},
		{"instant upgrades contribute nothing", []Type{TypeCrowdBonus, TypeExtraLife}, Modifiers{}},
		{"unknown type ignored", []Type{"mystery", TypeReachBoost}, Modifiers{ReachBoostPct: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(pool, tt.acquired)
			if got != tt.expected {
				t.Errorf("Resolve(%v) = %+v, expected %+v", tt.acquired, got, tt.expected)
			}
		})
	}
}

func TestResolve_Commutative(t *testing.T) {
	pool := DefaultPool()
	a := []Type{TypeSpeedBoost, TypeExtraDefender, TypeIronCurtain, TypeReachBoost}
	b := []Type{TypeReachBoost, TypeIronCurtain, TypeExtraDefender, TypeSpeedBoost}

	if Resolve(pool, a) != Resolve(pool, b) {
		t.Errorf("Resolve should not depend on order: %+v vs %+v", Resolve(pool, a), Resolve(pool, b))
	}
}

func TestCombine_Associative(t *testing.T) {
	x := Modifiers{ExtraDefenders: 1, SpeedBoostPct: 15}
	y := Modifiers{ReachBoostPct: 20}
	z := Modifiers{EnemySlowdownPct: 10, ExtraDefenders: 2}

	if x.Combine(y).Combine(z) != x.Combine(y.Combine(z)) {
		t.Error("Combine should be associative")
	}
	if x.Combine(Modifiers{}) != x {
		t.Error("zero Modifiers should be the identity")
	}
}

func TestSurfaced_ClampsAndRounds(t *testing.T) {
	m := Modifiers{ExtraDefenders: -1, SpeedBoostPct: 14.6, ReachBoostPct: 250, EnemySlowdownPct: 75}
	got := m.Surfaced()

	expected := Modifiers{ExtraDefenders: 0, SpeedBoostPct: 15, ReachBoostPct: MaxBoostPct, EnemySlowdownPct: MaxSlowdownPct}
	if got != expected {
		t.Errorf("Surfaced() = %+v, expected %+v", got, expected)
	}
}

func TestOffer_SizeAndDistinct(t *testing.T) {
	for _, size := range []int{1, 2, 3, 4, 9} {
		g := NewGenerator(DefaultPool(), WithOfferSize(size), WithRandomSource(NewSeededRNG(7)))
		offer := g.Offer(nil)

		n := len(offer.Candidates)
		if n < MinOfferSize || n > MaxOfferSize {
			t.Errorf("size %d: offer has %d candidates", size, n)
		}

		seen := make(map[Type]bool)
		for _, c := range offer.Candidates {
			if seen[c.Type] {
				t.Errorf("size %d: duplicate candidate %s", size, c.Type)
			}
			seen[c.Type] = true
		}
	}
}

func TestOffer_ExcludesExhausted(t *testing.T) {
	g := NewGenerator(DefaultPool(), WithOfferSize(4), WithRandomSource(NewSeededRNG(1)))
	acquired := []Type{TypeProBowlLinebacker, TypeIronCurtain, TypeExtraDefender, TypeExtraDefender}

	for i := 0; i < 50; i++ {
		offer := g.Offer(acquired)
		for _, banned := range []Type{TypeProBowlLinebacker, TypeIronCurtain, TypeExtraDefender} {
			if offer.Contains(banned) {
				t.Fatalf("offer %v contains exhausted upgrade %s", offer.Types(), banned)
			}
		}
	}
}

func TestOffer_NeverEmpty(t *testing.T) {
	g := NewGenerator(DefaultPool(), WithRandomSource(NewSeededRNG(3)))

	var everything []Type
	for _, d := range DefaultPool().ByTier(TierHigh) {
		limit := 1
		if d.MaxStacks > 0 {
			limit = d.MaxStacks
		}
		for i := 0; i < limit; i++ {
			everything = append(everything, d.Type)
		}
	}

	offer := g.Offer(everything)
	if len(offer.Candidates) < MinOfferSize {
		t.Fatalf("offer with exhausted high tier has %d candidates", len(offer.Candidates))
	}
	for _, c := range offer.Candidates {
		if c.Tier != TierMinor {
			t.Errorf("expected only minor upgrades, got %s", c.Type)
		}
	}
}

func TestOffer_Deterministic(t *testing.T) {
	a := NewGenerator(DefaultPool(), WithRandomSource(NewSeededRNG(42))).Offer(nil)
	b := NewGenerator(DefaultPool(), WithRandomSource(NewSeededRNG(42))).Offer(nil)

	if strings.Join(typeStrings(a.Types()), ",") != strings.Join(typeStrings(b.Types()), ",") {
		t.Errorf("seeded offers differ: %v vs %v", a.Types(), b.Types())
	}
}

func typeStrings(types []Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func TestNewPool_Validation(t *testing.T) {
	tests := []struct {
		name    string
		defs    []Definition
		wantErr string
	}{
		{"default", DefaultDefinitions(), ""},
		{"duplicate", append(DefaultDefinitions(), DefaultDefinitions()[0]), "duplicate"},
		{"bad target", append(DefaultDefinitions(), Definition{Type: "x", Target: "nope", Tier: TierHigh}), "unknown upgrade target"},
		{"limited minor", append(DefaultDefinitions(), Definition{Type: "y", Target: TargetBonusPoints, Tier: TierMinor, Single: true}), "must not be limited"},
		{"minor pool too small", DefaultDefinitions()[:7], "minor pool needs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPool(tt.defs)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("NewPool() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewPool() error = %v, expected to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestInvalidUpgradeSelectionError_Is(t *testing.T) {
	var err error = &InvalidUpgradeSelectionError{Type: TypeSpeedBoost, Offered: []Type{TypeExtraLife}}
	if !errors.Is(err, ErrInvalidUpgradeSelection) {
		t.Error("InvalidUpgradeSelectionError should match ErrInvalidUpgradeSelection")
	}
}
