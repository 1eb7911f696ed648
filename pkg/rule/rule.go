// Package rule evaluates session signals and produces triggers for the
// actions wired to each rule.
package rule

import (
	"context"
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/signal"
)

// Rule evaluates signals and emits a trigger when its conditions hold.
type Rule interface {
	ID() string

	Name() string

	// SignalTypes returns the signal types this rule handles. An empty
	// slice means all types.
	SignalTypes() []string

	// Evaluate returns true and a trigger on a match. The error is reserved
	// for failures, not for mismatches.
	Evaluate(ctx context.Context, sig signal.Signal) (bool, *Trigger, error)

	Config() RuleConfig
}

// Trigger is a rule match handed to the action executor.
type Trigger struct {
	RuleID    string
	UserID    string
	Timestamp time.Time
	Reason    string
	// Metadata carries values actions read, such as "score" or "entries".
	Metadata map[string]interface{}
	// Priority orders triggers, higher first.
	Priority int
}

// NewTrigger creates a trigger stamped with the current time.
func NewTrigger(ruleID, userID, reason string, priority int) *Trigger {
	return &Trigger{
		RuleID:    ruleID,
		UserID:    userID,
		Timestamp: time.Now(),
		Reason:    reason,
		Metadata:  make(map[string]interface{}),
		Priority:  priority,
	}
}

// WithMetadata sets one metadata key and returns the trigger for chaining.
func (t *Trigger) WithMetadata(key string, value interface{}) *Trigger {
	t.Metadata[key] = value
	return t
}

// MetadataInt reads an integer metadata value.
func (t *Trigger) MetadataInt(key string) (int, bool) {
	return toInt(t.Metadata[key])
}

// MetadataString reads a string metadata value.
func (t *Trigger) MetadataString(key string) string {
	s, _ := t.Metadata[key].(string)
	return s
}
