package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	ServicePort      string
	MetricsPort      string
	GRPCPort         string
	Environment      string
	StoreDriver      string
	PostgreSQLConfig PostgreSQLConfig
	MongoDBConfig    MongoDBConfig
	RedisConfig      RedisConfig
	KafkaConfig      KafkaConfig
	TracingConfig    TracingConfig
	SessionConfig    SessionConfig
	OrderConfig      OrderConfig
}

type PostgreSQLConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUsername string
	DBPassword string
}

type MongoDBConfig struct {
	URI    string
	DBName string
}

type RedisConfig struct {
	Address  string
	Password string
}

type KafkaConfig struct {
	BrokerAddress string
	BrokerTopic   string
}

type TracingConfig struct {
	CollectorHost string
}

type SessionConfig struct {
	JWTSecret string
	TTL       time.Duration
}

// OrderConfig holds the simulated timings of the order lifecycle.
type OrderConfig struct {
	CreateLatency time.Duration
	LookupLatency time.Duration
	SettleDelay   time.Duration
	PollInterval  time.Duration
}

const (
	StoreDriverMemory   = "memory"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
	StoreDriverMongoDB  = "mongodb"
)

func DefaultOrderConfig() OrderConfig {
	return OrderConfig{
		CreateLatency: 300 * time.Millisecond,
		LookupLatency: 150 * time.Millisecond,
		SettleDelay:   6 * time.Second,
		PollInterval:  2 * time.Second,
	}
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	defaults := DefaultOrderConfig()

	conf := Config{
		ServicePort: getEnv("SERVICE_PORT", "8080"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		GRPCPort:    os.Getenv("GRPC_PORT"),
		Environment: getEnv("ENVIRONMENT", "development"),
		StoreDriver: getEnv("STORE_DRIVER", StoreDriverMemory),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBName:     os.Getenv("DB_NAME"),
			DBPort:     os.Getenv("DB_PORT"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
		},
		MongoDBConfig: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getEnv("MONGODB_DB_NAME", "storefront_service"),
		},
		RedisConfig: RedisConfig{
			Address:  os.Getenv("REDIS_ADDRESS"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", "storefront-orders"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
		SessionConfig: SessionConfig{
			JWTSecret: getEnv("JWT_SECRET", "kopikuy-development-secret"),
			TTL:       getPositiveDuration("SESSION_TTL", 30*time.Minute),
		},
		OrderConfig: OrderConfig{
			CreateLatency: getDuration("ORDER_CREATE_LATENCY", defaults.CreateLatency),
			LookupLatency: getDuration("ORDER_LOOKUP_LATENCY", defaults.LookupLatency),
			SettleDelay:   getPositiveDuration("ORDER_SETTLE_DELAY", defaults.SettleDelay),
			PollInterval:  getPositiveDuration("ORDER_POLL_INTERVAL", defaults.PollInterval),
		},
	}

	return &conf
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

// getDuration reads a non-negative duration. Zero disables the wait it controls.
func getDuration(key string, fallback time.Duration) time.Duration {
	d, ok := parseDuration(key)
	if !ok {
		return fallback
	}

	if d < 0 {
		log.Error().Str("component", "CreateNewConfig").Str("key", key).Dur("value", d).Msg("negative duration, using default")
		return fallback
	}

	return d
}

func getPositiveDuration(key string, fallback time.Duration) time.Duration {
	d, ok := parseDuration(key)
	if !ok {
		return fallback
	}

	if d <= 0 {
		log.Error().Str("component", "CreateNewConfig").Str("key", key).Dur("value", d).Msg("duration must be positive, using default")
		return fallback
	}

	return d
}

func parseDuration(key string) (time.Duration, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Error().Err(err).Str("component", "CreateNewConfig").Str("key", key).Msg("invalid duration, using default")
		return 0, false
	}

	return d, true
}
