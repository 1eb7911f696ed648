package session

import (
	"errors"
	"testing"

	"github.com/endzone-defense/campaign-engine/pkg/stage"
	"github.com/endzone-defense/campaign-engine/pkg/upgrade"
)

func testStage() stage.Stage {
	return stage.Stage{ID: 1, Name: "Opener", Difficulty: 1, WaveTarget: 5, MaxLives: 3, IsTutorial: true}
}

func newTestSession(opts ...Option) *Session {
	gen := upgrade.NewGenerator(upgrade.DefaultPool(), upgrade.WithRandomSource(upgrade.NewSeededRNG(11)))
	return New(testStage(), gen, opts...)
}

func TestNew_InitialState(t *testing.T) {
	s := newTestSession(WithID("fixed-id"))
	snap := s.Snapshot()

	if snap.ID != "fixed-id" {
		t.Errorf("ID = %s, expected fixed-id", snap.ID)
	}
	if snap.State != StateActive {
		t.Errorf("State = %s, expected active", snap.State)
	}
	if snap.Lives != 3 || snap.Wave != 1 || snap.Score != 0 {
		t.Errorf("unexpected initial state: %+v", snap)
	}
}

func TestComboSequence(t *testing.T) {
	s := newTestSession()

	steps := []struct {
		success       bool
		expectedCombo int
	}{
		{true, 1},
		{true, 2},
		{false, 0},
		{true, 1},
	}

	for i, step := range steps {
		if step.success {
			s.OnSuccessfulAction(100)
		} else {
			s.OnFailedAction()
		}
		snap := s.Snapshot()
		if snap.Combo != step.expectedCombo {
			t.Errorf("step %d: combo = %d, expected %d", i, snap.Combo, step.expectedCombo)
		}
		if i >= 1 && snap.MaxCombo != 2 {
			t.Errorf("step %d: maxCombo = %d, expected 2", i, snap.MaxCombo)
		}
	}
}

func TestScoreNonDecreasing(t *testing.T) {
	s := newTestSession()
	last := 0

	check := func(label string) {
		score := s.Snapshot().Score
		if score < last {
			t.Fatalf("%s: score decreased from %d to %d", label, last, score)
		}
		last = score
	}

	for i := 0; i < 30; i++ {
		s.OnSuccessfulAction(120)
		check("success")
		if i%4 == 0 {
			s.OnFailedAction()
			check("fail")
		}
		if i%7 == 0 {
			s.OnSuccessfulAction(-50)
			check("negative points")
		}
	}
	s.OnBreach()
	check("breach")
	s.OnWaveCleared()
	check("wave cleared")
}

func TestOnSuccessfulAction_ClampsNegative(t *testing.T) {
	s := newTestSession()
	if got := s.OnSuccessfulAction(-10); got != 0 {
		t.Errorf("awarded = %d, expected 0", got)
	}
	if s.Snapshot().Combo != 1 {
		t.Error("a clamped success still counts toward the combo")
	}
}

func TestFanBonus(t *testing.T) {
	s := newTestSession()

	// 100 base points add 10 to the meter, so the tenth success fills it.
	total := 0
	for i := 0; i < 10; i++ {
		total += s.OnSuccessfulAction(100)
	}

	snap := s.Snapshot()
	if snap.FanBonuses != 1 {
		t.Fatalf("FanBonuses = %d, expected 1", snap.FanBonuses)
	}
	if snap.FanMeter != 0 {
		t.Errorf("FanMeter = %v, expected reset to 0", snap.FanMeter)
	}
	if snap.Score != total {
		t.Errorf("Score = %d, expected sum of awarded %d", snap.Score, total)
	}
	if snap.Score < FanBonusPoints {
		t.Errorf("Score = %d should include the fan bonus", snap.Score)
	}
}

func TestBreach_DefeatAtZeroLives(t *testing.T) {
	s := newTestSession()
	s.OnSuccessfulAction(100)

	s.OnBreach()
	s.OnBreach()
	if s.Ended() {
		t.Fatal("session ended with a life left")
	}
	s.OnBreach()

	if !s.Ended() || s.Outcome() != OutcomeDefeat {
		t.Fatalf("state = %s outcome = %s, expected ended defeat", s.State(), s.Outcome())
	}
	if s.Snapshot().Lives != 0 {
		t.Errorf("Lives = %d, expected 0", s.Snapshot().Lives)
	}

	// Further events are ignored and lives never go negative.
	s.OnBreach()
	s.OnSuccessfulAction(100)
	if s.Snapshot().Lives != 0 || s.Snapshot().Score != 100 {
		t.Errorf("events after end changed state: %+v", s.Snapshot())
	}
}

func TestBreach_BypassesPendingOffer(t *testing.T) {
	s := newTestSession()
	s.OnWaveCleared()
	if s.State() != StateUpgradePending {
		t.Fatalf("State = %s, expected upgrade_pending", s.State())
	}

	s.OnBreach()
	s.OnBreach()
	s.OnBreach()

	if s.Outcome() != OutcomeDefeat {
		t.Fatalf("Outcome = %s, expected defeat", s.Outcome())
	}
	if s.Snapshot().Offer != nil {
		t.Error("pending offer should be discarded on defeat")
	}
}

func TestWaveCleared_VictoryAfterTarget(t *testing.T) {
	s := newTestSession()

	for i := 0; i < 5; i++ {
		if s.Ended() {
			t.Fatalf("ended early after %d clears", i)
		}
		s.OnWaveCleared()
		if i < 4 {
			offer := s.Snapshot().Offer
			if offer == nil || len(offer.Candidates) == 0 {
				t.Fatalf("wave %d: expected an upgrade offer", i+1)
			}
			if err := s.SelectUpgrade(offer.Candidates[0].Type); err != nil {
				t.Fatalf("SelectUpgrade() error = %v", err)
			}
		}
	}

	if s.Outcome() != OutcomeVictory {
		t.Fatalf("Outcome = %s, expected victory", s.Outcome())
	}
	if got := len(s.Snapshot().Acquired); got != 4 {
		t.Errorf("acquired %d upgrades, expected 4", got)
	}
}

func TestWaveCleared_ForfeitsPendingOffer(t *testing.T) {
	forfeits := 0
	s := newTestSession(WithListener(func(e Event) {
		if e.Kind == EventUpgradeForfeited {
			forfeits++
			if e.Offer == nil || len(e.Offer.Candidates) == 0 {
				t.Error("forfeit event should carry the discarded offer")
			}
		}
	}))

	s.OnWaveCleared()
	s.OnWaveCleared()
	if s.Snapshot().Wave != 3 {
		t.Fatalf("Wave = %d, expected 3", s.Snapshot().Wave)
	}
	if s.State() != StateUpgradePending || s.Snapshot().Offer == nil {
		t.Fatalf("State = %s, expected a fresh offer pending", s.State())
	}

	s.OnWaveCleared()
	s.OnWaveCleared()
	s.OnWaveCleared()

	if s.Outcome() != OutcomeVictory {
		t.Fatalf("Outcome = %s after 5 clears, expected victory", s.Outcome())
	}
	if forfeits != 4 {
		t.Errorf("forfeited %d offers, expected 4", forfeits)
	}
	if got := len(s.Snapshot().Acquired); got != 0 {
		t.Errorf("acquired %d upgrades, expected none", got)
	}
	if s.Snapshot().Offer != nil {
		t.Error("no offer should remain after victory")
	}
}

func TestSelectUpgrade(t *testing.T) {
	s := newTestSession()

	err := s.SelectUpgrade(upgrade.TypeSpeedBoost)
	if !errors.Is(err, upgrade.ErrInvalidUpgradeSelection) {
		t.Fatalf("selection without offer: error = %v", err)
	}

	s.OnWaveCleared()
	offer := s.Snapshot().Offer

	var notOffered upgrade.Type
	for _, d := range upgrade.DefaultPool().All() {
		if !offer.Contains(d.Type) {
			notOffered = d.Type
			break
		}
	}
	err = s.SelectUpgrade(notOffered)
	var selErr *upgrade.InvalidUpgradeSelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("expected InvalidUpgradeSelectionError, got %v", err)
	}
	if s.State() != StateUpgradePending {
		t.Error("invalid selection must leave the offer pending")
	}

	chosen := offer.Candidates[0]
	if err := s.SelectUpgrade(chosen.Type); err != nil {
		t.Fatalf("SelectUpgrade() error = %v", err)
	}
	if s.State() != StateActive {
		t.Errorf("State = %s, expected active", s.State())
	}
	expected := upgrade.Resolve(upgrade.DefaultPool(), []upgrade.Type{chosen.Type}).Surfaced()
	if s.Snapshot().Modifiers != expected {
		t.Errorf("Modifiers = %+v, expected %+v", s.Snapshot().Modifiers, expected)
	}
}

func TestSelectUpgrade_InstantEffects(t *testing.T) {
	pool, err := upgrade.NewPool([]upgrade.Definition{
		{Type: upgrade.TypeCrowdBonus, Target: upgrade.TargetBonusPoints, Magnitude: 250, Tier: upgrade.TierMinor},
		{Type: upgrade.TypeExtraLife, Target: upgrade.TargetExtraLife, Magnitude: 1, Tier: upgrade.TierMinor},
	})
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	s := New(testStage(), upgrade.NewGenerator(pool, upgrade.WithRandomSource(upgrade.NewSeededRNG(5))))

	s.OnWaveCleared()
	if err := s.SelectUpgrade(upgrade.TypeCrowdBonus); err != nil {
		t.Fatalf("SelectUpgrade(crowd_bonus) error = %v", err)
	}
	if s.Snapshot().Score != 250 {
		t.Errorf("Score = %d, expected 250", s.Snapshot().Score)
	}

	s.OnWaveCleared()
	if err := s.SelectUpgrade(upgrade.TypeExtraLife); err != nil {
		t.Fatalf("SelectUpgrade(extra_life) error = %v", err)
	}
	if s.Snapshot().Lives != 4 {
		t.Errorf("Lives = %d, expected 4", s.Snapshot().Lives)
	}
}

func TestListener_ReceivesEvents(t *testing.T) {
	var kinds []EventKind
	s := newTestSession(WithListener(func(e Event) { kinds = append(kinds, e.Kind) }))

	s.OnSuccessfulAction(100)
	s.OnBreach()

	expected := []EventKind{EventComboChanged, EventScoreChanged, EventLifeLost}
	if len(kinds) != len(expected) {
		t.Fatalf("events = %v, expected %v", kinds, expected)
	}
	for i := range expected {
		if kinds[i] != expected[i] {
			t.Errorf("event %d = %s, expected %s", i, kinds[i], expected[i])
		}
	}
}
