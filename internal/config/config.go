// Package config loads storefront settings from an optional config file and
// the environment. Environment variables win: server.port is SERVER_PORT, with
// HTTP_PORT accepted first.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type Config struct {
	Server    Server
	Log       Log
	Store     Store
	Catalog   Catalog
	Kafka     Kafka
	Telemetry Telemetry
}

type Server struct {
	Port               string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

type Log struct {
	Level string
}

type Store struct {
	Backend  string
	Redis    Redis
	SQLite   SQLite
	Postgres Postgres
	Mongo    Mongo
}

type Redis struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

type SQLite struct {
	Path string
}

type Postgres struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type Mongo struct {
	URI      string
	Database string
}

// Catalog picks the product source: URL first, then File, then the built-in
// demo catalog.
type Catalog struct {
	URL                 string
	File                string
	Timeout             time.Duration
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

type Kafka struct {
	Brokers []string
	Topic   string
}

type Telemetry struct {
	ServiceName  string
	OTLPEndpoint string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_request_body_size", int64(1<<20))
	v.SetDefault("server.secure_cookies", false)

	v.SetDefault("log.level", "info")

	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.namespace", "clothify")
	v.SetDefault("store.sqlite.path", "clothify.db")
	v.SetDefault("store.postgres.host", "localhost")
	v.SetDefault("store.postgres.port", 5432)
	v.SetDefault("store.postgres.user", "postgres")
	v.SetDefault("store.postgres.password", "postgres")
	v.SetDefault("store.postgres.dbname", "clothify")
	v.SetDefault("store.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo.database", "clothify")

	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.file", "")
	v.SetDefault("catalog.timeout", 5*time.Second)
	v.SetDefault("catalog.consecutive_failures", 5)
	v.SetDefault("catalog.open_timeout", 30*time.Second)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "storefront-events")

	v.SetDefault("telemetry.service_name", "clothify-storefront")
	v.SetDefault("telemetry.otlp_endpoint", "")
}

// Load reads config.{yaml,json,toml} from dir when present, then applies the
// environment. An empty dir skips the file lookup.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "HTTP_PORT", "SERVER_PORT"); err != nil {
		return nil, fmt.Errorf("bind env failed: %w", err)
	}

	if dir != "" {
		v.SetConfigName("config")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config failed: %w", err)
			}
		}
	}

	cfg := &Config{
		Server: Server{
			Port:               v.GetString("server.port"),
			RequestTimeout:     v.GetDuration("server.request_timeout"),
			ShutdownTimeout:    v.GetDuration("server.shutdown_timeout"),
			MaxRequestBodySize: v.GetInt64("server.max_request_body_size"),
			SecureCookies:      v.GetBool("server.secure_cookies"),
		},
		Log: Log{Level: v.GetString("log.level")},
		Store: Store{
			Backend: strings.ToLower(v.GetString("store.backend")),
			Redis: Redis{
				Addr:      v.GetString("store.redis.addr"),
				Password:  v.GetString("store.redis.password"),
				DB:        v.GetInt("store.redis.db"),
				Namespace: v.GetString("store.redis.namespace"),
			},
			SQLite: SQLite{Path: v.GetString("store.sqlite.path")},
			Postgres: Postgres{
				Host:     v.GetString("store.postgres.host"),
				Port:     v.GetInt("store.postgres.port"),
				User:     v.GetString("store.postgres.user"),
				Password: v.GetString("store.postgres.password"),
				DBName:   v.GetString("store.postgres.dbname"),
			},
			Mongo: Mongo{
				URI:      v.GetString("store.mongo.uri"),
				Database: v.GetString("store.mongo.database"),
			},
		},
		Catalog: Catalog{
			URL:                 v.GetString("catalog.url"),
			File:                v.GetString("catalog.file"),
			Timeout:             v.GetDuration("catalog.timeout"),
			ConsecutiveFailures: v.GetUint32("catalog.consecutive_failures"),
			OpenTimeout:         v.GetDuration("catalog.open_timeout"),
		},
		Kafka: Kafka{
			Brokers: splitList(v.GetStringSlice("kafka.brokers")),
			Topic:   v.GetString("kafka.topic"),
		},
		Telemetry: Telemetry{
			ServiceName:  v.GetString("telemetry.service_name"),
			OTLPEndpoint: v.GetString("telemetry.otlp_endpoint"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendSQLite, BackendPostgres, BackendMongo:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	return nil
}

// splitList accepts both a list and a single comma-separated value, which is
// how lists arrive from the environment.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
