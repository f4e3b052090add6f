package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Geo      GeoConfig
	Tracking TrackingConfig
	Notify   NotifyConfig
}

type AppConfig struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type DBConfig struct {
	URL      string `envconfig:"DATABASE_URL" required:"true"`
	SeedPath string `envconfig:"SEED_PATH" default:"data/seeds/deliveries.json"`
}

type RedisConfig struct {
	URL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
}

type GeoConfig struct {
	APIKey  string `envconfig:"ORS_API_KEY"`
	BaseURL string `envconfig:"ORS_BASE_URL" default:"https://api.openrouteservice.org"`

	// Service area used to validate computed coordinates and to anchor the
	// synthetic fallback provider. Defaults cover the Delhi NCR pilot region.
	MinLat float64 `envconfig:"SERVICE_AREA_MIN_LAT" default:"28.0"`
	MinLng float64 `envconfig:"SERVICE_AREA_MIN_LNG" default:"76.5"`
	MaxLat float64 `envconfig:"SERVICE_AREA_MAX_LAT" default:"29.0"`
	MaxLng float64 `envconfig:"SERVICE_AREA_MAX_LNG" default:"78.0"`

	// Offline mode skips the external provider entirely and serves
	// synthesized data. Intended for tests and development.
	Offline bool `envconfig:"GEO_OFFLINE" default:"false"`
}

type TrackingConfig struct {
	Interval         time.Duration `envconfig:"TRACKING_INTERVAL" default:"2s"`
	ProgressStep     int           `envconfig:"TRACKING_PROGRESS_STEP" default:"1"`
	AlertProbability float64       `envconfig:"TRACKING_ALERT_PROBABILITY" default:"0.1"`
	AlertRadiusM     int           `envconfig:"TRACKING_ALERT_RADIUS_M" default:"2000"`
	SnapshotTTL      time.Duration `envconfig:"TRACKING_SNAPSHOT_TTL" default:"5m"`
}

type NotifyConfig struct {
	WebhookURL string        `envconfig:"NOTIFY_WEBHOOK_URL"`
	Timeout    time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"5s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if !cfg.Geo.Offline && cfg.Geo.APIKey == "" {
		return nil, fmt.Errorf("config: ORS_API_KEY is required unless GEO_OFFLINE=true")
	}
	if cfg.Tracking.ProgressStep < 1 {
		return nil, fmt.Errorf("config: TRACKING_PROGRESS_STEP must be at least 1")
	}
	if cfg.Tracking.AlertProbability < 0 || cfg.Tracking.AlertProbability > 1 {
		return nil, fmt.Errorf("config: TRACKING_ALERT_PROBABILITY must be in [0,1]")
	}

	return &cfg, nil
}
