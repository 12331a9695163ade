package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	z "github.com/Oudwins/zog"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"liyu1981.xyz/iot-telemetry-service/pkg/common"
)

const (
	defaultMqttBroker = "tcp://localhost:1883"
	defaultMqttTopic  = "cefet/iot"
	defaultDbPath     = "telemetry.db"
	defaultLatestTTL  = 24 * time.Hour
)

// Config is built once at startup and handed by pointer to every component.
type Config struct {
	DBType      string
	DBPath      string
	PostgresURL string

	MQTTBroker   string
	MQTTClientID string
	MQTTTopic    string
	MQTTQoS      int

	HTTPHostPort string
	GrpcHostPort string

	RedisAddr string
	LatestTTL time.Duration

	// DefaultRate of 0 disables per-device rate limiting.
	DefaultRate  float64
	DefaultBurst int
}

var configSchema = z.Struct(z.Shape{
	"DBType":       z.String().Required(),
	"MQTTBroker":   z.String().Required(),
	"MQTTClientID": z.String().Required(),
	"MQTTTopic":    z.String().Required(),
	"MQTTQoS":      z.Int().GTE(0).LTE(2),
	"DefaultRate":  z.Float64().GTE(0),
	"DefaultBurst": z.Int().GTE(0),
})

func getEnv(key, fallback string) string {
	if value, found := os.LookupEnv(key); found && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// Load reads configuration from the environment, optionally seeded by .env.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := &Config{
		DBType:       getEnv(common.EnvKeyIOTDBType, common.DBTypeFile),
		DBPath:       getEnv(common.EnvKeyIOTDbPath, defaultDbPath),
		PostgresURL:  getEnv(common.EnvKeyIOTPostgresURL, ""),
		MQTTBroker:   getEnv(common.EnvKeyIOTMqttBroker, defaultMqttBroker),
		MQTTClientID: getEnv(common.EnvKeyIOTMqttClientID, "telemetry-subscriber-"+uuid.NewString()[:8]),
		MQTTTopic:    getEnv(common.EnvKeyIOTMqttTopic, defaultMqttTopic),
		HTTPHostPort: getEnv(common.EnvKeyIOTHttpHostPort, ""),
		GrpcHostPort: getEnv(common.EnvKeyIOTGrpcHostPort, ""),
		RedisAddr:    getEnv(common.EnvKeyIOTRedisAddr, ""),
		LatestTTL:    defaultLatestTTL,
	}

	var err error

	if v := getEnv(common.EnvKeyIOTMqttQoS, ""); v != "" {
		if cfg.MQTTQoS, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", common.EnvKeyIOTMqttQoS, err)
		}
	}

	if v := getEnv(common.EnvKeyIOTLatestTTL, ""); v != "" {
		if cfg.LatestTTL, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", common.EnvKeyIOTLatestTTL, err)
		}
	}

	if v := getEnv(common.EnvKeyIOTDefaultRate, ""); v != "" {
		if cfg.DefaultRate, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid %s, should be a float64 value: %w", common.EnvKeyIOTDefaultRate, err)
		}
	}

	if v := getEnv(common.EnvKeyIOTDefaultBurst, ""); v != "" {
		if cfg.DefaultBurst, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid %s, should be an int value: %w", common.EnvKeyIOTDefaultBurst, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if issues := configSchema.Validate(c); len(issues) > 0 {
		return fmt.Errorf("invalid configuration: %v", issues)
	}

	switch c.DBType {
	case common.DBTypeFile, common.DBTypeMemory:
	case common.DBTypePostgres:
		if c.PostgresURL == "" {
			return errors.New(common.EnvKeyIOTPostgresURL + " is required when " + common.EnvKeyIOTDBType + "=postgres")
		}
	default:
		return fmt.Errorf("unknown %s: %s", common.EnvKeyIOTDBType, c.DBType)
	}

	if c.DefaultRate > 0 && c.DefaultBurst < 1 {
		return fmt.Errorf("%s must be at least 1 when %s is set", common.EnvKeyIOTDefaultBurst, common.EnvKeyIOTDefaultRate)
	}

	return nil
}

// RateLimitEnabled reports whether a per-device limiter should be installed.
func (c *Config) RateLimitEnabled() bool {
	return c.DefaultRate > 0
}
