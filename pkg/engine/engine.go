// Package engine is the per-player surface of the game: it owns the active
// session, feeds finished sessions into the campaign and notifies observers.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/campaign"
	"github.com/endzone-defense/campaign-engine/pkg/metrics"
	"github.com/endzone-defense/campaign-engine/pkg/session"
	"github.com/endzone-defense/campaign-engine/pkg/stage"
	"github.com/endzone-defense/campaign-engine/pkg/upgrade"
	"github.com/endzone-defense/campaign-engine/pkg/victory"
	"github.com/sirupsen/logrus"
)

// Step is the outcome of one gameplay event. Ended is set when the event
// finished the session.
type Step struct {
	Session session.Snapshot `json:"session"`
	Awarded int              `json:"awarded,omitempty"`
	Ended   *SessionEnded    `json:"ended,omitempty"`
}

// StageStatus is a stage as seen by one player.
type StageStatus struct {
	stage.Stage
	Unlocked  bool `json:"unlocked"`
	Completed bool `json:"completed"`
	HighScore *int `json:"highScore,omitempty"`
}

// Engine serializes all operations of one player.
type Engine struct {
	playerID  string
	catalog   *stage.Catalog
	manager   *campaign.Manager
	generator *upgrade.Generator
	now       func() time.Time

	mu      sync.Mutex
	session *session.Session
	pending []Notification

	// held while delivering, taken before mu is released so deliveries
	// keep operation order
	publishMu sync.Mutex

	obsMu     sync.RWMutex
	observers map[int]Observer
	nextObsID int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source for notifications.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithObserver subscribes an observer at construction.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.subscribe(o)
	}
}

// New creates an engine over a loaded campaign.
func New(manager *campaign.Manager, generator *upgrade.Generator, opts ...Option) *Engine {
	e := &Engine{
		playerID:  manager.PlayerID(),
		catalog:   manager.Catalog(),
		manager:   manager,
		generator: generator,
		now:       time.Now,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PlayerID returns the player this engine serves.
func (e *Engine) PlayerID() string {
	return e.playerID
}

// Subscribe registers an observer and returns a function removing it.
func (e *Engine) Subscribe(o Observer) func() {
	id := e.subscribe(o)
	return func() {
		e.obsMu.Lock()
		delete(e.observers, id)
		e.obsMu.Unlock()
	}
}

func (e *Engine) subscribe(o Observer) int {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	id := e.nextObsID
	e.nextObsID++
	e.observers[id] = o
	return id
}

// StartSession begins a session on an unlocked stage.
func (e *Engine) StartSession(ctx context.Context, stageID int) (session.Snapshot, error) {
	e.mu.Lock()

	st, err := e.catalog.GetStage(stageID)
	if err != nil {
		e.mu.Unlock()
		return session.Snapshot{}, err
	}
	if e.session != nil {
		e.mu.Unlock()
		return session.Snapshot{}, fmt.Errorf("%w: session %s on stage %d", ErrSessionActive, e.session.ID(), e.session.Stage().ID)
	}
	if !e.manager.IsUnlocked(stageID) || !e.manager.IsEligible(stageID) {
		e.mu.Unlock()
		logrus.Infof("player %s tried to start locked stage %d", e.playerID, stageID)
		return session.Snapshot{}, &StageLockedError{StageID: stageID}
	}

	e.session = session.New(st, e.generator, session.WithListener(e.record))
	snap := e.session.Snapshot()
	e.queue(Notification{Kind: KindSessionStarted, Session: &snap})

	metrics.SessionsStarted.WithLabelValues(strconv.Itoa(stageID)).Inc()
	metrics.ActiveSessions.Inc()
	logrus.Infof("player %s started session %s on stage %d (%s)", e.playerID, snap.ID, st.ID, st.Name)

	e.flush(ctx)
	return snap, nil
}

// ApplyAction feeds one defensive action. A nil basePoints uses the
// action's default value.
func (e *Engine) ApplyAction(ctx context.Context, kind session.ActionKind, basePoints *int) (Step, error) {
	if err := kind.Validate(); err != nil {
		return Step{}, err
	}
	points := kind.DefaultPoints()
	if basePoints != nil {
		points = *basePoints
	}

	return e.step(ctx, func(s *session.Session) (int, error) {
		if kind.IsSuccess() {
			return s.OnSuccessfulAction(points), nil
		}
		s.OnFailedAction()
		return 0, nil
	})
}

// ReportBreach costs the player a life.
func (e *Engine) ReportBreach(ctx context.Context) (Step, error) {
	return e.step(ctx, func(s *session.Session) (int, error) {
		s.OnBreach()
		return 0, nil
	})
}

// ReportWaveCleared advances the wave.
func (e *Engine) ReportWaveCleared(ctx context.Context) (Step, error) {
	return e.step(ctx, func(s *session.Session) (int, error) {
		s.OnWaveCleared()
		return 0, nil
	})
}

// SelectUpgrade takes an upgrade from the pending offer.
func (e *Engine) SelectUpgrade(ctx context.Context, t upgrade.Type) (Step, error) {
	return e.step(ctx, func(s *session.Session) (int, error) {
		if err := s.SelectUpgrade(t); err != nil {
			return 0, err
		}
		metrics.UpgradesSelected.WithLabelValues(string(t)).Inc()
		return 0, nil
	})
}

// ExitSession abandons the active session. Nothing is persisted.
func (e *Engine) ExitSession(ctx context.Context) error {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return ErrNoActiveSession
	}

	snap := e.session.Snapshot()
	e.session = nil
	e.queue(Notification{Kind: KindSessionExited, Session: &snap})
	metrics.ActiveSessions.Dec()
	logrus.Infof("player %s exited session %s on stage %d", e.playerID, snap.ID, snap.StageID)

	e.flush(ctx)
	return nil
}

// CurrentSession returns the active session.
func (e *Engine) CurrentSession() (session.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return session.Snapshot{}, ErrNoActiveSession
	}
	return e.session.Snapshot(), nil
}

// Active reports whether a session is running.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil
}

// GetCampaignSnapshot returns a copy of the campaign.
func (e *Engine) GetCampaignSnapshot() *campaign.State {
	return e.manager.Snapshot()
}

// Stages lists the catalog with this player's progress.
func (e *Engine) Stages() []StageStatus {
	state := e.manager.Snapshot()
	stages := e.catalog.ListStages()

	out := make([]StageStatus, 0, len(stages))
	for _, st := range stages {
		status := StageStatus{
			Stage:     st,
			Unlocked:  state.IsUnlocked(st.ID),
			Completed: state.IsCompleted(st.ID),
		}
		if hs, ok := state.HighScore(st.ID); ok {
			status.HighScore = &hs
		}
		out = append(out, status)
	}
	return out
}

// Flush retries a campaign write that failed earlier.
func (e *Engine) Flush(ctx context.Context) error {
	return e.manager.Flush(ctx)
}

// step runs fn against the active session and finishes the session when fn
// ended it. e.mu is released by flush.
func (e *Engine) step(ctx context.Context, fn func(*session.Session) (int, error)) (Step, error) {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return Step{}, ErrNoActiveSession
	}

	s := e.session
	awarded, err := fn(s)
	if err != nil {
		// events emitted before the error still reach observers
		e.flush(ctx)
		return Step{}, err
	}

	result := Step{Session: s.Snapshot(), Awarded: awarded}
	if s.Ended() {
		result.Ended = e.finish(ctx, s)
	}

	e.flush(ctx)
	return result, nil
}

// finish resolves the session and hands it to the campaign. Called with e.mu held.
func (e *Engine) finish(ctx context.Context, s *session.Session) *SessionEnded {
	snap := s.Snapshot()
	st := s.Stage()
	e.session = nil
	metrics.ActiveSessions.Dec()
	metrics.SessionsEnded.WithLabelValues(strconv.Itoa(st.ID), string(snap.Outcome)).Inc()

	result, err := victory.Resolve(snap, st, e.manager.VictoryContext(st.ID))
	if err != nil {
		logrus.Errorf("session %s ended without a result: %v", snap.ID, err)
		result = victory.Result{StageID: st.ID, Score: snap.Score}
	}

	update := e.manager.OnSessionEnd(ctx, campaign.SessionEnd{
		SessionID: snap.ID,
		StageID:   st.ID,
		Result:    result,
	})

	ended := &SessionEnded{
		SessionID:         snap.ID,
		StageID:           st.ID,
		Outcome:           snap.Outcome,
		Score:             result.Score,
		MaxCombo:          snap.MaxCombo,
		LivesRemaining:    snap.Lives,
		Victory:           result.Victory,
		UnlockedStages:    update.UnlockedStages,
		NewHighScore:      update.NewHighScore,
		PreviousHighScore: update.PreviousHighScore,
		SuperBowlClinched: update.SuperBowlClinched,
		Campaign:          e.manager.Snapshot(),
		Persisted:         update.Persisted,
	}
	if result.Victory != nil {
		metrics.Victories.WithLabelValues(string(result.Victory.Type)).Inc()
	}

	logrus.Infof("player %s finished session %s on stage %d: outcome=%s score=%d unlocked=%v",
		e.playerID, snap.ID, st.ID, snap.Outcome, result.Score, update.UnlockedStages)

	e.queue(Notification{Kind: KindSessionEnded, Session: &snap, Ended: ended})
	return ended
}

// record is the session listener. Called with e.mu held.
func (e *Engine) record(ev session.Event) {
	snap := ev.Snapshot
	e.queue(Notification{
		Kind:    Kind(ev.Kind),
		Points:  ev.Points,
		Upgrade: ev.Upgrade,
		Offer:   ev.Offer,
		Session: &snap,
	})
}

func (e *Engine) queue(n Notification) {
	n.PlayerID = e.playerID
	n.At = e.now()
	e.pending = append(e.pending, n)
}

// flush hands pending notifications to observers. It must be called with
// e.mu held and releases it.
func (e *Engine) flush(ctx context.Context) {
	pending := e.pending
	e.pending = nil

	e.publishMu.Lock()
	e.mu.Unlock()
	defer e.publishMu.Unlock()

	if len(pending) == 0 {
		return
	}

	e.obsMu.RLock()
	observers := make([]Observer, 0, len(e.observers))
	for i := 0; i < e.nextObsID; i++ {
		if o, ok := e.observers[i]; ok {
			observers = append(observers, o)
		}
	}
	e.obsMu.RUnlock()

	for _, n := range pending {
		for _, o := range observers {
			o.Notify(ctx, n)
		}
	}
}
