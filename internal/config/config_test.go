// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"strings"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.StoreBackend != StoreRedis {
		t.Errorf("StoreBackend = %q, expected %q", cfg.StoreBackend, StoreRedis)
	}
	if cfg.CampaignStateTTL != 365*24*time.Hour {
		t.Errorf("CampaignStateTTL = %v", cfg.CampaignStateTTL)
	}
	if cfg.OfferSize != 3 || cfg.OfferSeed != 0 {
		t.Errorf("offer config = %d/%d", cfg.OfferSize, cfg.OfferSeed)
	}
	if cfg.FlushInterval != 30*time.Second || cfg.EngineIdleTTL != 30*time.Minute {
		t.Errorf("maintenance config = %v/%v", cfg.FlushInterval, cfg.EngineIdleTTL)
	}
	if cfg.PlatformEnabled() {
		t.Error("PlatformEnabled() = true without credentials")
	}
}

func TestParse_FromEnvironment(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/campaign.db")
	t.Setenv("OFFER_SEED", "42")
	t.Setenv("AB_BASE_URL", "https://demo.accelbyte.io")
	t.Setenv("AB_CLIENT_ID", "id")
	t.Setenv("AB_CLIENT_SECRET", "secret")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.StoreBackend != StoreSQLite || cfg.SQLitePath != "/tmp/campaign.db" || cfg.OfferSeed != 42 {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.PlatformEnabled() {
		t.Error("PlatformEnabled() = false with credentials")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"grpc port", func(c *Config) { c.GRPCPort = 0 }, "GRPC_PORT"},
		{"http port", func(c *Config) { c.HTTPPort = 70000 }, "HTTP_PORT"},
		{"metrics port", func(c *Config) { c.MetricsPort = -1 }, "METRICS_PORT"},
		{"store backend", func(c *Config) { c.StoreBackend = "postgres" }, "STORE_BACKEND"},
		{"sqlite path", func(c *Config) { c.StoreBackend = StoreSQLite; c.SQLitePath = "" }, "SQLITE_PATH"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
		{"offer size", func(c *Config) { c.OfferSize = 5 }, "OFFER_SIZE"},
		{"retries", func(c *Config) { c.PersistMaxRetries = -1 }, "PERSIST_MAX_RETRIES"},
		{"flush interval", func(c *Config) { c.FlushInterval = 0 }, "FLUSH_INTERVAL"},
		{"idle ttl", func(c *Config) { c.EngineIdleTTL = -time.Minute }, "ENGINE_IDLE_TTL"},
		{"namespace", func(c *Config) { c.ABNamespace = "" }, "AB_NAMESPACE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse()
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, expected mention of %s", err, tt.wantErr)
			}
		})
	}
}
