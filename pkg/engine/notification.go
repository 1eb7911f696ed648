package engine

import (
	"context"
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/campaign"
	"github.com/endzone-defense/campaign-engine/pkg/session"
	"github.com/endzone-defense/campaign-engine/pkg/upgrade"
	"github.com/endzone-defense/campaign-engine/pkg/victory"
)

// Kind identifies a notification. Session events keep their session kind.
type Kind string

const (
	KindSessionStarted Kind = "session_started"
	KindSessionEnded   Kind = "session_ended"
	KindSessionExited  Kind = "session_exited"
)

// SessionEnded is the result of a finished session after the campaign has
// absorbed it.
type SessionEnded struct {
	SessionID         string          `json:"sessionId"`
	StageID           int             `json:"stageId"`
	Outcome           session.Outcome `json:"outcome"`
	Score             int             `json:"score"`
	MaxCombo          int             `json:"maxCombo"`
	LivesRemaining    int             `json:"livesRemaining"`
	Victory           *victory.Record `json:"victory,omitempty"`
	UnlockedStages    []int           `json:"unlockedStages,omitempty"`
	NewHighScore      bool            `json:"newHighScore"`
	PreviousHighScore int             `json:"previousHighScore"`
	SuperBowlClinched bool            `json:"superBowlClinched"`
	Campaign          *campaign.State `json:"campaign"`
	Persisted         bool            `json:"persisted"`
}

// IsVictory reports whether the session was won.
func (e *SessionEnded) IsVictory() bool {
	return e.Victory != nil
}

// Notification is delivered to observers after each change.
type Notification struct {
	Kind     Kind              `json:"kind"`
	PlayerID string            `json:"playerId"`
	At       time.Time         `json:"at"`
	Points   int               `json:"points,omitempty"`
	Upgrade  upgrade.Type      `json:"upgrade,omitempty"`
	Offer    *upgrade.Offer    `json:"offer,omitempty"`
	Session  *session.Snapshot `json:"session,omitempty"`
	Ended    *SessionEnded     `json:"ended,omitempty"`
}

// Observer receives notifications in the order they happened. Notify runs
// on the caller's goroutine and must not call back into the same Engine.
type Observer interface {
	Notify(ctx context.Context, n Notification)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, n Notification)

// Notify calls f.
func (f ObserverFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}
