// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	actionBuiltin "github.com/endzone-defense/campaign-engine/pkg/action/builtin"
	"github.com/endzone-defense/campaign-engine/pkg/campaign"
	"github.com/endzone-defense/campaign-engine/pkg/pipeline"
	"github.com/sirupsen/logrus"
)

// InitPipeline builds the whole results pipeline from config and checks
// its wiring. Rule-to-action mappings live in config/pipeline.yaml.
func InitPipeline(
	pipelineConfig *pipeline.Config,
	store campaign.Store,
	namespace string,
	deps *actionBuiltin.Dependencies,
) (*pipeline.Manager, error) {
	processor := InitSignalProcessor(store, namespace)

	ruleEngine, ruleRegistry, err := InitRuleEngine(pipelineConfig)
	if err != nil {
		return nil, err
	}

	executor, actionRegistry, err := InitActionExecutor(pipelineConfig, deps)
	if err != nil {
		return nil, err
	}

	if err := pipeline.ValidateWiring(ruleRegistry, actionRegistry, pipelineConfig); err != nil {
		return nil, fmt.Errorf("pipeline wiring: %w", err)
	}

	ruleActions := pipelineConfig.RuleActions()
	logrus.Infof("configured %d rule-to-action mappings", len(ruleActions))

	return pipeline.NewManager(processor, ruleEngine, executor, ruleActions), nil
}
