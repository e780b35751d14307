package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		DB: DBConfig{
			Host: "localhost", Port: 5432, User: "voxgate",
			Password: "secret", Name: "voxgate", SSLMode: "disable", MaxConns: 25,
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		TTS: TTSConfig{
			Endpoint: "https://generativelanguage.googleapis.com",
			Model:    "gemini-2.5-flash-preview-tts",
			APIKeys:  []string{"AIzaSyTestKeyLongEnough000"},
			Timeout:  60 * time.Second,
		},
		Quota: QuotaConfig{DailyLimit: 1500, MinuteLimit: 15, CacheTTL: 24 * time.Hour},
		Admin: AdminConfig{Token: "operator-token"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_NoAPIKeys(t *testing.T) {
	cfg := validConfig()
	cfg.TTS.APIKeys = nil
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "TTS_API_KEYS") {
		t.Fatalf("expected TTS_API_KEYS error, got: %v", err)
	}
}

func TestValidate_ShortAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.TTS.APIKeys = []string{"short"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "suspiciously short") {
		t.Fatalf("expected short key error, got: %v", err)
	}
}

func TestValidate_ZeroQuotaLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Quota.DailyLimit = 0
	cfg.Quota.MinuteLimit = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for zero quota limits")
	}
	if !strings.Contains(err.Error(), "QUOTA_DAILY_LIMIT") || !strings.Contains(err.Error(), "QUOTA_MINUTE_LIMIT") {
		t.Fatalf("expected both quota limit errors, got: %v", err)
	}
}

func TestValidate_MissingDBPassword(t *testing.T) {
	cfg := validConfig()
	cfg.DB.Password = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DB_PASSWORD") {
		t.Fatalf("expected DB_PASSWORD error, got: %v", err)
	}
}

func TestValidate_BadServerPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Fatalf("expected SERVER_PORT error, got: %v", err)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("a, b ,,c")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected split result: %v", got)
	}
	if splitList("") != nil {
		t.Fatal("expected nil for empty input")
	}
}
