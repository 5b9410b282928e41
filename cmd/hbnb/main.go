// Command hbnb is the administration console over the configured store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hbnb-clone/hbnb-api/internal/app"
	"github.com/hbnb-clone/hbnb-api/internal/cli"
	"github.com/hbnb-clone/hbnb-api/internal/pkg/config"
	"github.com/hbnb-clone/hbnb-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: "warn", Pretty: true, Output: os.Stderr, Service: "hbnb"})

	ctx := context.Background()
	deps, err := app.Open(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	err = cli.NewRootCmd(deps.Resources).ExecuteContext(ctx)
	if cerr := deps.Close(ctx); cerr != nil {
		log.Error().Err(cerr).Msg("failed to close storage")
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
