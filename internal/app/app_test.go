package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
	"github.com/hbnb-clone/hbnb-api/internal/pkg/config"
)

func TestOpen_FileStorageSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.LoadWith(ctx, envconfig.MapLookuper(map[string]string{
		"HBNB_FILE_PATH": filepath.Join(t.TempDir(), "file.json"),
	}))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	a, err := Open(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := a.Checks["redis"]; ok {
		t.Fatal("redis must be disabled without REDIS_ADDR")
	}
	res, err := a.Resources.Create(ctx, ports.CreateInput{Kind: domain.KindState, Payload: map[string]any{"name": "Nevada"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := a.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := Open(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close(ctx)
	got, err := b.Resources.Get(ctx, domain.KindState, res.Object.Meta().ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.(*domain.State).Name != "Nevada" {
		t.Fatalf("unexpected state: %+v", got.ToMap())
	}
}
