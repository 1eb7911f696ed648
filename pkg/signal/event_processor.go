package signal

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// EventProcessor converts one kind of raw event into a signal.
type EventProcessor interface {
	// EventType returns the event kind this processor handles, e.g.
	// "session_ended".
	EventType() string

	// Process converts event into a signal. It returns a nil signal when the
	// event carries nothing worth evaluating.
	Process(ctx context.Context, event interface{}, loader PlayerContextLoader) (Signal, error)
}

// PlayerContextLoader provides player context for processors whose events
// do not carry a campaign snapshot.
type PlayerContextLoader interface {
	Load(ctx context.Context, userID string) (*PlayerContext, error)
}

// EventProcessorRegistry holds processors by event type.
type EventProcessorRegistry struct {
	mu         sync.RWMutex
	processors map[string]EventProcessor
}

// NewEventProcessorRegistry creates an empty registry.
func NewEventProcessorRegistry() *EventProcessorRegistry {
	return &EventProcessorRegistry{
		processors: make(map[string]EventProcessor),
	}
}

// Register adds a processor, replacing one registered for the same type.
func (r *EventProcessorRegistry) Register(processor EventProcessor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processors[processor.EventType()] = processor
}

// Get returns the processor for eventType or nil.
func (r *EventProcessorRegistry) Get(eventType string) EventProcessor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.processors[eventType]
}

// EventTypes lists the registered event types in order.
func (r *EventProcessorRegistry) EventTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.processors))
	for t := range r.processors {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Count returns the number of registered processors.
func (r *EventProcessorRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.processors)
}

// Unregister removes the processor for eventType.
func (r *EventProcessorRegistry) Unregister(eventType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.processors[eventType]; !exists {
		return fmt.Errorf("event processor for type '%s' not found", eventType)
	}

	delete(r.processors, eventType)
	return nil
}
