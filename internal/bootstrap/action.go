// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/action"
	actionBuiltin "github.com/endzone-defense/campaign-engine/pkg/action/builtin"
	"github.com/endzone-defense/campaign-engine/pkg/pipeline"
	"github.com/sirupsen/logrus"
)

// InitActionExecutor registers the built-in action types with their
// service dependencies and creates the configured actions.
//
// Built-in actions:
//   - award_entries credits the giveaway entries ledger
//   - grant_prize fulfills a platform item
//   - increment_stat mirrors milestones into platform statistics
func InitActionExecutor(pipelineConfig *pipeline.Config, deps *actionBuiltin.Dependencies) (*action.Executor, *action.Registry, error) {
	actionBuiltin.RegisterActions(deps)

	registry := action.NewRegistry()
	if err := action.RegisterActions(registry, pipelineConfig.ActionConfigs()); err != nil {
		return nil, nil, fmt.Errorf("failed to register actions: %w", err)
	}

	logrus.Infof("initialized action executor with %d actions", registry.Count())
	return action.NewExecutor(registry), registry, nil
}
