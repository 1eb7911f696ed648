// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"github.com/endzone-defense/campaign-engine/pkg/campaign"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
	signalBuiltin "github.com/endzone-defense/campaign-engine/pkg/signal/builtin"
	"github.com/sirupsen/logrus"
)

// InitSignalProcessor creates a signal processor with the built-in event
// processors. Custom processors are registered on processor.Registry().
func InitSignalProcessor(store campaign.Store, namespace string) *signal.Processor {
	processor := signal.NewProcessor(signal.NewStoreContextLoader(store, namespace), namespace)
	signalBuiltin.RegisterEventProcessors(processor.Registry(), namespace)

	logrus.Infof("initialized signal processor with %d event processors", processor.Registry().Count())
	return processor
}
