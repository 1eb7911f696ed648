// Package pipeline wires finished sessions through signals, rules and
// actions.
package pipeline

import (
	"fmt"
	"os"

	"github.com/endzone-defense/campaign-engine/pkg/action"
	"github.com/endzone-defense/campaign-engine/pkg/common"
	"github.com/endzone-defense/campaign-engine/pkg/rule"
	"gopkg.in/yaml.v3"
)

// Config is the pipeline YAML.
type Config struct {
	Rules   []RuleConfig   `yaml:"rules"`
	Actions []ActionConfig `yaml:"actions"`
}

// RuleConfig is one rule entry. Actions lists the action IDs run, in
// order, when the rule triggers.
type RuleConfig struct {
	ID         string                 `yaml:"id"`
	Name       string                 `yaml:"name,omitempty"`
	Type       string                 `yaml:"type"`
	Enabled    bool                   `yaml:"enabled"`
	Priority   int                    `yaml:"priority,omitempty"`
	Actions    []string               `yaml:"actions,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
}

// ActionConfig is one action entry.
type ActionConfig struct {
	ID         string                 `yaml:"id"`
	Name       string                 `yaml:"name,omitempty"`
	Type       string                 `yaml:"type"`
	Enabled    bool                   `yaml:"enabled"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
}

// LoadConfig reads and validates a pipeline file. ${VAR} and
// ${VAR:default} are expanded before parsing.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates pipeline YAML.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal([]byte(common.ExpandEnvVars(string(data))), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Validate checks IDs, types and action references.
func (c *Config) Validate() error {
	ruleIDs := make(map[string]bool)
	for _, r := range c.Rules {
		if r.ID == "" {
			return fmt.Errorf("rule with empty ID found")
		}
		if ruleIDs[r.ID] {
			return fmt.Errorf("duplicate rule ID: %s", r.ID)
		}
		ruleIDs[r.ID] = true

		if r.Type == "" {
			return fmt.Errorf("rule %s has empty type", r.ID)
		}
	}

	actionIDs := make(map[string]bool)
	for _, a := range c.Actions {
		if a.ID == "" {
			return fmt.Errorf("action with empty ID found")
		}
		if actionIDs[a.ID] {
			return fmt.Errorf("duplicate action ID: %s", a.ID)
		}
		actionIDs[a.ID] = true

		if a.Type == "" {
			return fmt.Errorf("action %s has empty type", a.ID)
		}
	}

	for _, r := range c.Rules {
		for _, actionID := range r.Actions {
			if !actionIDs[actionID] {
				return fmt.Errorf("rule %s references unknown action: %s", r.ID, actionID)
			}
		}
	}
	return nil
}

// RuleConfigs converts the rule entries for the rule factory.
func (c *Config) RuleConfigs() []rule.RuleConfig {
	out := make([]rule.RuleConfig, len(c.Rules))
	for i, rc := range c.Rules {
		out[i] = rule.RuleConfig{
			ID:         rc.ID,
			Name:       rc.Name,
			Type:       rc.Type,
			Enabled:    rc.Enabled,
			Priority:   rc.Priority,
			Parameters: rc.Parameters,
		}
	}
	return out
}

// ActionConfigs converts the action entries for the action factory.
func (c *Config) ActionConfigs() []action.ActionConfig {
	out := make([]action.ActionConfig, len(c.Actions))
	for i, ac := range c.Actions {
		out[i] = action.ActionConfig{
			ID:         ac.ID,
			Name:       ac.Name,
			Type:       ac.Type,
			Enabled:    ac.Enabled,
			Parameters: ac.Parameters,
		}
	}
	return out
}

// RuleActions maps each rule ID to its action IDs.
func (c *Config) RuleActions() map[string][]string {
	out := make(map[string][]string)
	for _, rc := range c.Rules {
		if len(rc.Actions) > 0 {
			out[rc.ID] = rc.Actions
		}
	}
	return out
}
