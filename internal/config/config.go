package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/database"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/ratelimit"
)

const envPrefix = "SHAREIT"

// KafkaConfig holds producer settings for booking events.
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// RateLimitConfig bounds requests per caller.
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
	Burst    int
}

// GatewayConfig holds settings for the validating gateway.
type GatewayConfig struct {
	Port      string
	ServerURL string
}

// ServiceConfig holds all configuration for the server and the gateway.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    database.PostgresConfig
	KafkaConfig KafkaConfig
	RedisConfig ratelimit.RedisConfig
	RateLimit   RateLimitConfig
	Gateway     GatewayConfig
}

// Load reads configuration from an optional .env file and SHAREIT_* environment variables.
func Load() (*ServiceConfig, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return LoadFrom(newViper())
}

// LoadFrom builds a ServiceConfig from an already populated viper instance.
func LoadFrom(v *viper.Viper) (*ServiceConfig, error) {
	cfg := &ServiceConfig{
		Port:   normalizePort(v.GetString("SERVICE_PORT")),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		KafkaConfig: KafkaConfig{
			Enabled: v.GetBool("KAFKA_ENABLED"),
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		RedisConfig: ratelimit.RedisConfig{
			Address:  v.GetString("REDIS_ADDRESS"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
			Burst:    v.GetInt("RATE_LIMIT_BURST"),
		},
		Gateway: GatewayConfig{
			Port:      normalizePort(v.GetString("GATEWAY_PORT")),
			ServerURL: v.GetString("SERVER_URL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "9090")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "shareit")
	v.SetDefault("DB_PASSWORD", "shareit")
	v.SetDefault("DB_NAME", "shareit")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "booking.events")
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("GATEWAY_PORT", "8080")
	v.SetDefault("SERVER_URL", "http://localhost:9090")
	return v
}

func (c *ServiceConfig) validate() error {
	if c.KafkaConfig.Enabled && len(c.KafkaConfig.Brokers) == 0 {
		return fmt.Errorf("kafka is enabled but %s_KAFKA_BROKERS is empty", envPrefix)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit requests and window must be positive")
	}
	return nil
}

func normalizePort(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
