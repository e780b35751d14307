package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	NATS   NATSConfig
	TTS    TTSConfig
	Quota  QuotaConfig
	Admin  AdminConfig
	CORS   CORSConfig
	Log    LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32

	MigrationsPath string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NATSConfig is optional: an empty URL disables event publishing and the
// audit consumer entirely.
type NATSConfig struct {
	URL string
}

// TTSConfig describes the upstream synthesis provider.
type TTSConfig struct {
	Endpoint string
	Model    string
	// APIKeys is the ordered credential ring; rotation advances to the next key.
	APIKeys []string
	Timeout time.Duration
}

// QuotaConfig carries the provider-imposed usage ceilings.
type QuotaConfig struct {
	DailyLimit  int
	MinuteLimit int
	// CacheTTL bounds how long synthesized audio stays in the Redis cache.
	CacheTTL time.Duration
}

type AdminConfig struct {
	// Token guards the credential rotation endpoint. Empty means unauthenticated.
	Token string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:     k.String("db.host"),
			Port:     k.Int("db.port"),
			User:     k.String("db.user"),
			Password: k.String("db.password"),
			Name:     k.String("db.name"),
			SSLMode:  k.String("db.sslmode"),
			MaxConns: int32(k.Int("db.max.conns")),

			MigrationsPath: k.String("db.migrations.path"),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		TTS: TTSConfig{
			Endpoint: k.String("tts.endpoint"),
			Model:    k.String("tts.model"),
			APIKeys:  splitList(k.String("tts.api.keys")),
		},
		Quota: QuotaConfig{
			DailyLimit:  k.Int("quota.daily.limit"),
			MinuteLimit: k.Int("quota.minute.limit"),
		},
		Admin: AdminConfig{
			Token: k.String("admin.token"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(k.String("cors.allowed.origins")),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "voxgate"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "voxgate"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.DB.MigrationsPath == "" {
		cfg.DB.MigrationsPath = "migrations"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.TTS.Endpoint == "" {
		cfg.TTS.Endpoint = "https://generativelanguage.googleapis.com"
	}
	if cfg.TTS.Model == "" {
		cfg.TTS.Model = "gemini-2.5-flash-preview-tts"
	}
	if cfg.Quota.DailyLimit == 0 {
		cfg.Quota.DailyLimit = 1500
	}
	if cfg.Quota.MinuteLimit == 0 {
		cfg.Quota.MinuteLimit = 15
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	ttsTimeoutStr := k.String("tts.timeout")
	if ttsTimeoutStr == "" {
		ttsTimeoutStr = "60s"
	}
	cfg.TTS.Timeout, err = time.ParseDuration(ttsTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("parsing tts timeout: %w", err)
	}

	cacheTTLStr := k.String("quota.cache.ttl")
	if cacheTTLStr == "" {
		cacheTTLStr = "24h"
	}
	cfg.Quota.CacheTTL, err = time.ParseDuration(cacheTTLStr)
	if err != nil {
		return nil, fmt.Errorf("parsing cache ttl: %w", err)
	}

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
