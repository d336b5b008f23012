package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Server captures process level configuration.
type Server struct {
	Addr              string
	LogLevel          string
	PolicyCatalogPath string
	ShutdownTimeout   time.Duration

	Store StoreConfig
	Redis RedisConfig
	Kafka KafkaConfig
	Cache CacheConfig
}

// StoreConfig selects where stay records live.
type StoreConfig struct {
	Driver          string
	DatabaseURL     string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the shared status cache. An empty URL disables it.
// KeyPrefix namespaces every key and TTL is the default expiry.
type RedisConfig struct {
	URL          string
	KeyPrefix    string
	TTL          time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures evaluation events. No brokers disables publishing.
type KafkaConfig struct {
	Brokers           []string
	Topic             string
	Partitions        int32
	ReplicationFactor int16
}

// CacheConfig sizes the in-process status cache. Capacity 0 disables it.
type CacheConfig struct {
	Capacity int
	TTL      time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:              getEnv("SOJOURN_ADDR", ":8080"),
		LogLevel:          getEnv("SOJOURN_LOG_LEVEL", "info"),
		PolicyCatalogPath: os.Getenv("SOJOURN_POLICY_CATALOG"),
		ShutdownTimeout:   getDuration("SOJOURN_SHUTDOWN_TIMEOUT", 10*time.Second),
		Store: StoreConfig{
			Driver:          strings.ToLower(getEnv("SOJOURN_STORE", DriverMemory)),
			DatabaseURL:     os.Getenv("DATABASE_URL"),
			SQLitePath:      getEnv("SOJOURN_SQLITE_PATH", "sojourn.db"),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			KeyPrefix:    getEnv("REDIS_KEY_PREFIX", "sojourn"),
			TTL:          getDuration("REDIS_TTL", 10*time.Minute),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:             getEnv("KAFKA_EVALUATION_TOPIC", "stay.evaluations"),
			Partitions:        int32(getInt("KAFKA_TOPIC_PARTITIONS", 3)),
			ReplicationFactor: int16(getInt("KAFKA_TOPIC_REPLICATION", 1)),
		},
		Cache: CacheConfig{
			Capacity: getInt("SOJOURN_CACHE_CAPACITY", 10_000),
			TTL:      getDuration("SOJOURN_CACHE_TTL", 10*time.Minute),
		},
	}
}

// Validate rejects combinations main cannot start with.
func (s Server) Validate() error {
	switch s.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if s.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", DriverPostgres)
		}
	case DriverSQLite:
		if s.Store.SQLitePath == "" {
			return fmt.Errorf("SOJOURN_SQLITE_PATH is required for the %s store", DriverSQLite)
		}
	default:
		return fmt.Errorf("unknown SOJOURN_STORE %q", s.Store.Driver)
	}
	if s.Cache.Capacity < 0 {
		return fmt.Errorf("SOJOURN_CACHE_CAPACITY cannot be negative")
	}
	if s.Redis.URL != "" {
		if s.Redis.TTL <= 0 {
			return fmt.Errorf("REDIS_TTL must be positive when REDIS_URL is set")
		}
		if strings.TrimSpace(s.Redis.KeyPrefix) == "" {
			return fmt.Errorf("REDIS_KEY_PREFIX cannot be blank when REDIS_URL is set")
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
