package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8000/api/users" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 0 || cfg.API.RateLimit != 0 {
		t.Fatalf("expected no timeout and no rate limit by default, got %+v", cfg.API)
	}
	if cfg.Store.Backend != BackendFile || cfg.Profile != "default" || cfg.Console.Addr != ":8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_BASE_URL":      "https://ams.example.com/api/users",
		"HTTP_TIMEOUT":      "5s",
		"API_RATE_LIMIT":    "2.5",
		"STORE_BACKEND":     "redis",
		"STORE_SESSION_TTL": "1h",
		"REDIS_DB":          "3",
		"REDIS_PASSWORD":    "s3cret",
		"LOG_PRETTY":        "true",
		"CLI_PROFILE":       "work",
	}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.API.Timeout != 5*time.Second || cfg.API.RateLimit != 2.5 {
		t.Fatalf("unexpected api config %+v", cfg.API)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.SessionTTL != time.Hour || cfg.Redis.DB != 3 || cfg.Redis.Password != "s3cret" {
		t.Fatalf("unexpected store config %+v %+v", cfg.Store, cfg.Redis)
	}
	if !cfg.Log.Pretty || cfg.Profile != "work" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadFrom_RejectsUnknownBackend(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"STORE_BACKEND": "sqlite"}))
	if err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
