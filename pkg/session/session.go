package session

import (
	"math"
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/stage"
	"github.com/endzone-defense/campaign-engine/pkg/upgrade"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session is the mutable state of one match. It is driven by a single
// caller and does no locking.
type Session struct {
	id        string
	stage     stage.Stage
	generator *upgrade.Generator
	listener  Listener
	startedAt time.Time

	state      State
	outcome    Outcome
	score      int
	lives      int
	wave       int
	combo      int
	maxCombo   int
	fanMeter   float64
	fanBonuses int
	modifiers  upgrade.Modifiers
	acquired   []upgrade.Type
	offer      *upgrade.Offer
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session id instead of generating one.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithListener registers the receiver of session events.
func WithListener(l Listener) Option {
	return func(s *Session) {
		s.listener = l
	}
}

// New starts an active session on a stage.
func New(st stage.Stage, generator *upgrade.Generator, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		stage:     st,
		generator: generator,
		startedAt: time.Now(),
		state:     StateActive,
		lives:     max(st.MaxLives, 1),
		wave:      1,
	}
	for _, opt := range opts {
		opt(s)
	}

	logrus.Debugf("session %s started on stage %d (waves=%d, lives=%d)", s.id, st.ID, st.WaveTarget, s.lives)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Stage returns the stage being played.
func (s *Session) Stage() stage.Stage { return s.stage }

// State returns the current phase.
func (s *Session) State() State { return s.state }

// Outcome returns how the session ended, or OutcomeNone while it runs.
func (s *Session) Outcome() Outcome { return s.outcome }

// Ended reports whether the session reached a terminal state.
func (s *Session) Ended() bool { return s.state == StateEnded }

// StartedAt returns when the session began.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// OnSuccessfulAction extends the combo and awards multiplied points.
// Negative base points are clamped to zero. Returns the points awarded,
// including any fan bonus.
func (s *Session) OnSuccessfulAction(basePoints int) int {
	if s.Ended() {
		logrus.Debugf("session %s: ignoring action after end", s.id)
		return 0
	}
	basePoints = max(basePoints, 0)

	s.combo++
	s.maxCombo = max(s.maxCombo, s.combo)
	s.emit(Event{Kind: EventComboChanged})

	awarded := AwardedPoints(basePoints, s.combo)
	s.addScore(awarded)

	s.fanMeter += FanGain(basePoints, s.modifiers.SpeedBoostPct)
	if s.fanMeter >= FanThreshold {
		s.fanMeter = 0
		s.fanBonuses++
		s.addScore(FanBonusPoints)
		awarded += FanBonusPoints
		logrus.Debugf("session %s: fan bonus #%d", s.id, s.fanBonuses)
		s.emit(Event{Kind: EventFanBonus, Points: FanBonusPoints})
	}

	return awarded
}

// OnFailedAction resets the combo. Score and lives are untouched.
func (s *Session) OnFailedAction() {
	if s.Ended() {
		return
	}
	s.combo = 0
	s.emit(Event{Kind: EventComboChanged})
}

// OnBreach costs a life. Reaching zero ends the session in defeat, even
// while an upgrade offer is pending.
func (s *Session) OnBreach() {
	if s.Ended() {
		return
	}
	s.lives = max(s.lives-1, 0)
	s.emit(Event{Kind: EventLifeLost})

	if s.lives == 0 {
		s.offer = nil
		s.end(OutcomeDefeat)
	}
}

// OnWaveCleared advances the wave. Passing the stage's wave target ends the
// session in victory; otherwise an upgrade offer is drawn and the session
// waits for a selection. An offer still pending when the next wave is
// cleared is forfeited, so every clear advances exactly one wave.
func (s *Session) OnWaveCleared() {
	if s.Ended() {
		return
	}
	if s.state == StateUpgradePending {
		forfeited := s.offer
		s.offer = nil
		s.state = StateActive
		logrus.Debugf("session %s: upgrade offer forfeited by wave clear", s.id)
		s.emit(Event{Kind: EventUpgradeForfeited, Offer: forfeited})
	}

	s.wave++
	s.emit(Event{Kind: EventWaveCleared})

	if s.wave > s.stage.WaveTarget {
		s.end(OutcomeVictory)
		return
	}

	offer := s.generator.Offer(s.acquired)
	s.offer = &offer
	s.state = StateUpgradePending
	s.emit(Event{Kind: EventUpgradeOffered, Offer: s.offer})
}

// SelectUpgrade takes one candidate from the pending offer, re-resolves the
// modifiers and resumes play.
func (s *Session) SelectUpgrade(t upgrade.Type) error {
	if s.state != StateUpgradePending || s.offer == nil || !s.offer.Contains(t) {
		var offered []upgrade.Type
		if s.offer != nil {
			offered = s.offer.Types()
		}
		return &upgrade.InvalidUpgradeSelectionError{Type: t, Offered: offered}
	}

	def, _ := s.generator.Pool().Get(t)
	s.acquired = append(s.acquired, t)
	s.modifiers = upgrade.Resolve(s.generator.Pool(), s.acquired)

	switch def.Target {
	case upgrade.TargetBonusPoints:
		s.addScore(int(math.Round(def.Magnitude)))
	case upgrade.TargetExtraLife:
		s.lives += int(math.Round(def.Magnitude))
		s.emit(Event{Kind: EventLifeGained})
	}

	s.offer = nil
	s.state = StateActive
	logrus.Debugf("session %s: selected upgrade %s", s.id, t)
	s.emit(Event{Kind: EventUpgradeSelected, Upgrade: t})
	return nil
}

// Snapshot returns a copy of the session state with percentages surfaced.
func (s *Session) Snapshot() Snapshot {
	acquired := make([]upgrade.Type, len(s.acquired))
	copy(acquired, s.acquired)

	var offer *upgrade.Offer
	if s.offer != nil {
		o := upgrade.Offer{Candidates: make([]upgrade.Definition, len(s.offer.Candidates))}
		copy(o.Candidates, s.offer.Candidates)
		offer = &o
	}

	mods := s.modifiers.Surfaced()
	return Snapshot{
		ID:         s.id,
		StageID:    s.stage.ID,
		State:      s.state,
		Outcome:    s.outcome,
		Score:      s.score,
		Lives:      s.lives,
		Wave:       s.wave,
		WaveTarget: s.stage.WaveTarget,
		Combo:      s.combo,
		MaxCombo:   s.maxCombo,
		FanMeter:   math.Round(math.Min(s.fanMeter, FanThreshold)),
		FanBonuses: s.fanBonuses,
		Modifiers:  mods,
		Acquired:   acquired,
		Offer:      offer,
		Difficulty: DifficultyAt(s.wave, s.stage.Difficulty, mods.EnemySlowdownPct),
	}
}

func (s *Session) addScore(points int) {
	if points <= 0 {
		return
	}
	s.score += points
	s.emit(Event{Kind: EventScoreChanged, Points: points})
}

func (s *Session) end(outcome Outcome) {
	s.state = StateEnded
	s.outcome = outcome
	logrus.Debugf("session %s ended: %s (score=%d, wave=%d, lives=%d)", s.id, outcome, s.score, s.wave, s.lives)
	s.emit(Event{Kind: EventEnded})
}

func (s *Session) emit(e Event) {
	if s.listener == nil {
		return
	}
	e.Snapshot = s.Snapshot()
	s.listener(e)
}
