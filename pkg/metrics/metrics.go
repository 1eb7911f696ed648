// Package metrics defines the Prometheus collectors of the campaign engine.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SessionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_engine_sessions_started_total",
			Help: "Total number of game sessions started",
		},
		[]string{"stage_id"},
	)

	SessionsEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_engine_sessions_ended_total",
			Help: "Total number of game sessions ended by outcome",
		},
		[]string{"stage_id", "outcome"},
	)

	Victories = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_engine_victories_total",
			Help: "Total number of victories by classification",
		},
		[]string{"type"},
	)

	UpgradesSelected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_engine_upgrades_selected_total",
			Help: "Total number of upgrades chosen by players",
		},
		[]string{"upgrade"},
	)

	StagesUnlocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campaign_engine_stages_unlocked_total",
			Help: "Total number of stages unlocked",
		},
	)

	PersistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campaign_engine_persist_failures_total",
			Help: "Campaign writes that failed after all retries",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "campaign_engine_active_sessions",
			Help: "Sessions currently in progress",
		},
	)

	RuleTriggers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_engine_rule_triggers_total",
			Help: "Total number of rule triggers",
		},
		[]string{"rule_id"},
	)

	ActionExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaign_engine_action_executions_total",
			Help: "Total number of action executions by result",
		},
		[]string{"action_id", "result"},
	)
)

// Collectors returns every collector for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		SessionsStarted,
		SessionsEnded,
		Victories,
		UpgradesSelected,
		StagesUnlocked,
		PersistFailures,
		ActiveSessions,
		RuleTriggers,
		ActionExecutions,
	}
}
