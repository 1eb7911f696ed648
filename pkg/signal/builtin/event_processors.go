// Package builtin holds the event processors and signals shipped with the
// engine.
package builtin

import (
	"context"
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/engine"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
)

// RegisterEventProcessors registers all built-in event processors.
func RegisterEventProcessors(registry *signal.EventProcessorRegistry, namespace string) {
	registry.Register(&SessionEndedEventProcessor{Namespace: namespace})
}

// SessionEndedEventProcessor turns session_ended notifications into
// SessionEndSignal.
type SessionEndedEventProcessor struct {
	Namespace string
}

func (p *SessionEndedEventProcessor) EventType() string {
	return string(engine.KindSessionEnded)
}

// Process accepts an engine.Notification by value or pointer. The campaign
// snapshot on the notification is preferred over the store so that a
// failed write does not hide the new progress from rules.
func (p *SessionEndedEventProcessor) Process(ctx context.Context, event interface{}, loader signal.PlayerContextLoader) (signal.Signal, error) {
	var n engine.Notification
	switch ev := event.(type) {
	case engine.Notification:
		n = ev
	case *engine.Notification:
		if ev == nil {
			return nil, fmt.Errorf("notification is nil")
		}
		n = *ev
	default:
		return nil, fmt.Errorf("expected engine.Notification, got %T", event)
	}

	if n.Kind != engine.KindSessionEnded {
		return nil, fmt.Errorf("expected %s notification, got %s", engine.KindSessionEnded, n.Kind)
	}
	if n.Ended == nil {
		return nil, fmt.Errorf("session ended notification without result")
	}
	if n.PlayerID == "" {
		return nil, fmt.Errorf("player ID is empty in notification")
	}

	var playerCtx *signal.PlayerContext
	if n.Ended.Campaign != nil {
		playerCtx = signal.BuildPlayerContext(n.PlayerID, p.Namespace, n.Ended.Campaign)
	} else {
		loaded, err := loader.Load(ctx, n.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load player context: %w", err)
		}
		playerCtx = loaded
	}

	return NewSessionEndSignal(n.PlayerID, n.At, n.Ended, playerCtx), nil
}
