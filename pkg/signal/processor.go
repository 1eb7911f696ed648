package signal

import (
	"context"
	"errors"
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/campaign"
	"github.com/sirupsen/logrus"
)

// StoreContextLoader loads player context from the campaign store.
type StoreContextLoader struct {
	store     campaign.Store
	namespace string
}

// NewStoreContextLoader creates a loader over store.
func NewStoreContextLoader(store campaign.Store, namespace string) *StoreContextLoader {
	return &StoreContextLoader{
		store:     store,
		namespace: namespace,
	}
}

// Load reads the stored campaign. A player without a stored campaign gets
// a context with a nil Campaign.
func (l *StoreContextLoader) Load(ctx context.Context, userID string) (*PlayerContext, error) {
	state, err := l.store.GetCampaignState(ctx, userID)
	if errors.Is(err, campaign.ErrNoCampaignState) {
		return BuildPlayerContext(userID, l.namespace, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign state: %w", err)
	}
	return BuildPlayerContext(userID, l.namespace, state), nil
}

// Processor dispatches raw events to the registered event processors.
type Processor struct {
	loader    PlayerContextLoader
	registry  *EventProcessorRegistry
	namespace string
}

// NewProcessor creates a processor with an empty registry.
func NewProcessor(loader PlayerContextLoader, namespace string) *Processor {
	return &Processor{
		loader:    loader,
		registry:  NewEventProcessorRegistry(),
		namespace: namespace,
	}
}

// Registry returns the event processor registry.
func (p *Processor) Registry() *EventProcessorRegistry {
	return p.registry
}

// Namespace returns the namespace stamped on player contexts.
func (p *Processor) Namespace() string {
	return p.namespace
}

// Process converts event with the processor registered for eventType. A nil
// signal with a nil error means the event type is not handled.
func (p *Processor) Process(ctx context.Context, eventType string, event interface{}) (Signal, error) {
	processor := p.registry.Get(eventType)
	if processor == nil {
		logrus.Debugf("no event processor for '%s'", eventType)
		return nil, nil
	}

	sig, err := processor.Process(ctx, event, p.loader)
	if err != nil {
		return nil, fmt.Errorf("failed to process %s event: %w", eventType, err)
	}
	if sig != nil {
		logrus.Debugf("processed %s event for user %s into %s signal", eventType, sig.UserID(), sig.Type())
	}
	return sig, nil
}
