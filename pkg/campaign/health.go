// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package campaign

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// HealthChecker probes the campaign store
type HealthChecker struct {
	store Store
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(store Store) *HealthChecker {
	return &HealthChecker{store: store}
}

// Check pings the store with a short timeout
func (h *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logrus.Errorf("campaign store health check failed: %v", err)
		return err
	}

	logrus.Debugf("campaign store health check passed")
	return nil
}

// IsHealthy returns true if the store is reachable
func (h *HealthChecker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx) == nil
}
