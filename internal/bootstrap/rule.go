// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/pipeline"
	"github.com/endzone-defense/campaign-engine/pkg/rule"
	ruleBuiltin "github.com/endzone-defense/campaign-engine/pkg/rule/builtin"
	"github.com/sirupsen/logrus"
)

// InitRuleEngine registers the built-in rule types and creates the rules
// configured in the pipeline.
//
// To add a rule type, implement rule.Rule in pkg/rule/builtin, register it
// in RegisterBuiltinRules and reference its type from config/pipeline.yaml.
func InitRuleEngine(pipelineConfig *pipeline.Config) (*rule.Engine, *rule.Registry, error) {
	ruleBuiltin.RegisterBuiltinRules()

	registry := rule.NewRegistry()
	if err := rule.RegisterRules(registry, pipelineConfig.RuleConfigs()); err != nil {
		return nil, nil, fmt.Errorf("failed to register rules: %w", err)
	}

	logrus.Infof("initialized rule engine with %d rules", registry.Count())
	return rule.NewEngine(registry), registry, nil
}
