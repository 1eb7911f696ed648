// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	// In production (Docker/K8s), environment variables are injected directly
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file found or error loading it: %v (this is normal in production)", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	return Parse()
}

// Parse reads the Config from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return cfg, nil
}

// Validate performs custom validation on the configuration.
func (c *Config) Validate() error {
	ports := []struct {
		name string
		port int
	}{
		{"GRPC_PORT", c.GRPCPort},
		{"HTTP_PORT", c.HTTPPort},
		{"METRICS_PORT", c.MetricsPort},
	}
	for _, p := range ports {
		if p.port < 1 || p.port > 65535 {
			return fmt.Errorf("invalid %s: %d (must be 1-65535)", p.name, p.port)
		}
	}

	switch c.StoreBackend {
	case StoreRedis:
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_BACKEND=%s", StoreSQLite)
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %q (must be %s or %s)", c.StoreBackend, StoreRedis, StoreSQLite)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if c.OfferSize < 2 || c.OfferSize > 4 {
		return fmt.Errorf("invalid OFFER_SIZE: %d (must be 2-4)", c.OfferSize)
	}

	if c.CampaignStateTTL < 0 {
		return fmt.Errorf("CAMPAIGN_STATE_TTL must be non-negative")
	}

	if c.PersistMaxRetries < 0 {
		return fmt.Errorf("PERSIST_MAX_RETRIES must be non-negative")
	}

	if c.FlushInterval <= 0 {
		return fmt.Errorf("FLUSH_INTERVAL must be positive")
	}

	if c.EngineIdleTTL <= 0 {
		return fmt.Errorf("ENGINE_IDLE_TTL must be positive")
	}

	if c.ABNamespace == "" {
		return fmt.Errorf("AB_NAMESPACE is required")
	}

	return nil
}
