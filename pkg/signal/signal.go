// Package signal turns engine notifications into typed signals that the
// results pipeline evaluates.
package signal

import (
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/campaign"
)

// Signal is a normalized gameplay fact with the player's campaign attached.
type Signal interface {
	// Type returns the signal type identifier (e.g. "session_end").
	Type() string

	UserID() string

	Timestamp() time.Time

	// Metadata exposes signal fields to rules without type assertions.
	Metadata() map[string]interface{}

	Context() *PlayerContext
}

// PlayerContext is the campaign view rules and actions work against.
// Campaign may be nil for a player that has never finished a session.
type PlayerContext struct {
	UserID      string
	Campaign    *campaign.State
	Namespace   string
	SessionInfo map[string]interface{}
}

// BaseSignal carries the fields shared by all signals. Embed it.
type BaseSignal struct {
	signalType string
	userID     string
	timestamp  time.Time
	metadata   map[string]interface{}
	context    *PlayerContext
}

// NewBaseSignal creates a BaseSignal. A nil metadata map is replaced by an
// empty one.
func NewBaseSignal(signalType, userID string, timestamp time.Time, metadata map[string]interface{}, context *PlayerContext) BaseSignal {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return BaseSignal{
		signalType: signalType,
		userID:     userID,
		timestamp:  timestamp,
		metadata:   metadata,
		context:    context,
	}
}

func (s BaseSignal) Type() string                     { return s.signalType }
func (s BaseSignal) UserID() string                   { return s.userID }
func (s BaseSignal) Timestamp() time.Time             { return s.timestamp }
func (s BaseSignal) Metadata() map[string]interface{} { return s.metadata }
func (s BaseSignal) Context() *PlayerContext          { return s.context }
