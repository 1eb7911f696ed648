package pipeline

import (
	"fmt"
	"strings"

	"github.com/endzone-defense/campaign-engine/pkg/action"
	"github.com/endzone-defense/campaign-engine/pkg/rule"
)

// ValidateWiring checks that every enabled rule and action in config was
// registered, and that no enabled rule runs a disabled action.
func ValidateWiring(ruleRegistry *rule.Registry, actionRegistry *action.Registry, config *Config) error {
	var problems []string

	enabledActions := make(map[string]bool)
	for _, ac := range config.Actions {
		if !ac.Enabled {
			continue
		}
		enabledActions[ac.ID] = true
		if actionRegistry.Get(ac.ID) == nil {
			problems = append(problems, fmt.Sprintf("action '%s' (type=%s) is enabled in config but not registered", ac.ID, ac.Type))
		}
	}

	for _, rc := range config.Rules {
		if !rc.Enabled {
			continue
		}
		if ruleRegistry.Get(rc.ID) == nil {
			problems = append(problems, fmt.Sprintf("rule '%s' (type=%s) is enabled in config but not registered", rc.ID, rc.Type))
		}
		for _, actionID := range rc.Actions {
			if !enabledActions[actionID] {
				problems = append(problems, fmt.Sprintf("rule '%s' runs disabled action '%s'", rc.ID, actionID))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("pipeline wiring validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
