// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import "time"

// Store backends accepted by STORE_BACKEND.
const (
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"6565"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"CampaignEngine"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// ============================================================
	// Campaign persistence
	// ============================================================
	StoreBackend      string        `env:"STORE_BACKEND" envDefault:"redis"`
	CampaignStateTTL  time.Duration `env:"CAMPAIGN_STATE_TTL" envDefault:"8760h"`
	SQLitePath        string        `env:"SQLITE_PATH" envDefault:"data/campaign.db"`
	PersistMaxRetries int           `env:"PERSIST_MAX_RETRIES" envDefault:"3"`
	FlushInterval     time.Duration `env:"FLUSH_INTERVAL" envDefault:"30s"`
	EngineIdleTTL     time.Duration `env:"ENGINE_IDLE_TTL" envDefault:"30m"`

	// ============================================================
	// Redis configuration (campaign store and entries ledger)
	// ============================================================
	RedisHost       string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisMaxRetries int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`

	// ============================================================
	// Game content
	// ============================================================
	StageCatalogPath string `env:"STAGE_CATALOG_PATH"`
	ConfigPath       string `env:"CONFIG_PATH" envDefault:"config/pipeline.yaml"`
	OfferSize        int    `env:"OFFER_SIZE" envDefault:"3"`
	OfferSeed        uint64 `env:"OFFER_SEED" envDefault:"0"`

	// ============================================================
	// AccelByte configuration (optional: platform actions run in
	// test mode without credentials)
	// ============================================================
	ABNamespace    string `env:"AB_NAMESPACE" envDefault:"endzone"`
	ABBaseURL      string `env:"AB_BASE_URL"`
	ABClientID     string `env:"AB_CLIENT_ID"`
	ABClientSecret string `env:"AB_CLIENT_SECRET"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	ZipkinEndpoint string `env:"ZIPKIN_ENDPOINT"`
}

// PlatformEnabled reports whether AccelByte credentials are present.
func (c *Config) PlatformEnabled() bool {
	return c.ABBaseURL != "" && c.ABClientID != "" && c.ABClientSecret != ""
}
