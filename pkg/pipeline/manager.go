package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/endzone-defense/campaign-engine/pkg/action"
	"github.com/endzone-defense/campaign-engine/pkg/engine"
	"github.com/endzone-defense/campaign-engine/pkg/metrics"
	"github.com/endzone-defense/campaign-engine/pkg/rule"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

// Manager runs the results pipeline: notification, signal, rules, actions.
// It is an engine.Observer and only reacts to notification kinds that have
// a registered event processor.
type Manager struct {
	processor   *signal.Processor
	engine      *rule.Engine
	executor    *action.Executor
	ruleActions map[string][]string

	eventsProcessed   atomic.Int64
	signalsGenerated  atomic.Int64
	triggersGenerated atomic.Int64
	actionsSucceeded  atomic.Int64
	actionsFailed     atomic.Int64
}

// NewManager creates a pipeline manager. ruleActions maps rule IDs to the
// action IDs they run.
func NewManager(processor *signal.Processor, engine *rule.Engine, executor *action.Executor, ruleActions map[string][]string) *Manager {
	if ruleActions == nil {
		ruleActions = make(map[string][]string)
	}
	return &Manager{
		processor:   processor,
		engine:      engine,
		executor:    executor,
		ruleActions: ruleActions,
	}
}

// Notify implements engine.Observer. Failures are logged and never reach
// the engine.
func (m *Manager) Notify(ctx context.Context, n engine.Notification) {
	if m.processor.Registry().Get(string(n.Kind)) == nil {
		return
	}
	if err := m.Process(ctx, string(n.Kind), n); err != nil {
		logrus.WithFields(logrus.Fields{
			"player_id": n.PlayerID,
			"kind":      n.Kind,
		}).Errorf("results pipeline failed: %v", err)
	}
}

// Process runs one raw event through the pipeline.
func (m *Manager) Process(ctx context.Context, eventType string, event interface{}) error {
	m.eventsProcessed.Add(1)

	sig, err := m.processor.Process(ctx, eventType, event)
	if err != nil {
		return fmt.Errorf("signal processing failed: %w", err)
	}
	if sig == nil {
		logrus.Debugf("%s event did not generate a signal, skipping pipeline", eventType)
		return nil
	}
	m.signalsGenerated.Add(1)

	return m.evaluateAndExecute(ctx, sig)
}

func (m *Manager) evaluateAndExecute(ctx context.Context, sig signal.Signal) error {
	log := logrus.WithFields(logrus.Fields{
		"signal_type": sig.Type(),
		"user_id":     sig.UserID(),
	})

	triggers, err := m.engine.Evaluate(ctx, sig)
	if err != nil {
		return fmt.Errorf("rule evaluation failed: %w", err)
	}
	if len(triggers) == 0 {
		log.Debug("no rules triggered for signal")
		return nil
	}
	m.triggersGenerated.Add(int64(len(triggers)))

	for _, trigger := range triggers {
		metrics.RuleTriggers.WithLabelValues(trigger.RuleID).Inc()

		actionIDs := m.ruleActions[trigger.RuleID]
		if len(actionIDs) == 0 {
			log.WithField("rule_id", trigger.RuleID).Info("trigger has no actions configured")
			continue
		}

		results, err := m.executor.ExecuteMultiple(ctx, actionIDs, trigger, sig.Context(), true)

		succeeded, failed := 0, 0
		for _, result := range results {
			if result.Error != nil {
				failed++
				metrics.ActionExecutions.WithLabelValues(result.ActionID, "failure").Inc()
				continue
			}
			succeeded++
			metrics.ActionExecutions.WithLabelValues(result.ActionID, "success").Inc()
		}
		m.actionsSucceeded.Add(int64(succeeded))
		m.actionsFailed.Add(int64(failed))

		entry := log.WithFields(logrus.Fields{
			"rule_id": trigger.RuleID,
			"success": succeeded,
			"failed":  failed,
		})
		if err != nil {
			entry.Errorf("action execution rolled back: %v", err)
			continue
		}
		entry.Info("action execution completed")
	}

	return nil
}

// Stats is a snapshot of pipeline counters.
type Stats struct {
	EventsProcessed   int64 `json:"eventsProcessed"`
	SignalsGenerated  int64 `json:"signalsGenerated"`
	TriggersGenerated int64 `json:"triggersGenerated"`
	ActionsSucceeded  int64 `json:"actionsSucceeded"`
	ActionsFailed     int64 `json:"actionsFailed"`
}

// GetStats returns the counters since start.
func (m *Manager) GetStats() Stats {
	return Stats{
		EventsProcessed:   m.eventsProcessed.Load(),
		SignalsGenerated:  m.signalsGenerated.Load(),
		TriggersGenerated: m.triggersGenerated.Load(),
		ActionsSucceeded:  m.actionsSucceeded.Load(),
		ActionsFailed:     m.actionsFailed.Load(),
	}
}
