package config

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "5000" || cfg.Host != "0.0.0.0" {
		t.Fatalf("unexpected bind defaults: %s:%s", cfg.Host, cfg.Port)
	}
	if cfg.Storage.Type != "file" || cfg.Storage.FilePath != "file.json" {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis must be disabled by default, got %q", cfg.Redis.Addr)
	}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development env by default")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"HBNB_TYPE_STORAGE": "sqlite",
		"HBNB_SQLITE_PATH":  "/tmp/x.db",
		"HBNB_API_PORT":     "8080",
		"REDIS_ADDR":        "localhost:6379",
		"REDIS_DB":          "2",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Type != "sqlite" || cfg.Storage.SQLitePath != "/tmp/x.db" {
		t.Fatalf("storage not overridden: %+v", cfg.Storage)
	}
	if cfg.Port != "8080" || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected overrides: port=%s redis_db=%d", cfg.Port, cfg.Redis.DB)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown storage":      {"HBNB_TYPE_STORAGE": "mysql"},
		"auth without secret":  {"HBNB_AUTH_REQUIRED": "true"},
		"malformed redis db":   {"REDIS_DB": "two"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
