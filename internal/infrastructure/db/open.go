// Package db selects and opens the configured storage backend.
package db

import (
	"context"
	"fmt"

	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
	"github.com/hbnb-clone/hbnb-api/internal/infrastructure/db/file"
	"github.com/hbnb-clone/hbnb-api/internal/infrastructure/db/mongo"
	"github.com/hbnb-clone/hbnb-api/internal/infrastructure/db/sqlite"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

type Config struct {
	Type       string
	FilePath   string
	SQLitePath string
	Mongo      mongo.Config
}

// Open returns the storage backend named by cfg.Type.
func Open(ctx context.Context, cfg Config) (ports.Storage, error) {
	var (
		store ports.Storage
		err   error
	)
	switch cfg.Type {
	case BackendFile, "":
		store, err = openFile(cfg.FilePath)
	case BackendSQLite, "db":
		store, err = openSQLite(ctx, cfg.SQLitePath)
	case BackendMongo:
		store, err = openMongo(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Type, err)
	}
	return store, nil
}

func openFile(path string) (ports.Storage, error) {
	s, err := file.Open(file.Config{Path: path})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openSQLite(ctx context.Context, path string) (ports.Storage, error) {
	s, err := sqlite.Open(ctx, sqlite.Config{Path: path})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openMongo(ctx context.Context, cfg mongo.Config) (ports.Storage, error) {
	s, err := mongo.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}
