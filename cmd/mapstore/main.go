// Command mapstore inspects, compares and hot-reloads robot map files.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/mapstore/internal/adapters/driven/config/file"
	"github.com/custodia-labs/mapstore/internal/adapters/driven/linefile"
	"github.com/custodia-labs/mapstore/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/mapstore/internal/adapters/driven/mirror/s3"
	"github.com/custodia-labs/mapstore/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/mapstore/internal/adapters/driving/cli"
	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
	"github.com/custodia-labs/mapstore/internal/core/ports/driving"
	"github.com/custodia-labs/mapstore/internal/core/services"
	"github.com/custodia-labs/mapstore/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func main() {
	if err := run(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// MAPSTORE_CONFIG_DIR overrides ~/.mapstore.
	configStore, err := file.NewConfigStore(os.Getenv("MAPSTORE_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open config: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load settings: %v\n", err)
		return err
	}

	store, err := sqlite.NewStore(settings.Storage.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open version store: %v\n", err)
		return err
	}
	defer store.Close()
	fingerprints := store.FingerprintStore()

	metrics := prometheus.New()

	var mirror driven.MapMirror
	if settings.Mirror.IsConfigured() {
		m, err := s3.New(ctx, settings.Mirror)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to configure mirror: %v\n", err)
			return err
		}
		mirror = m
	}

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Settings: settingsService,
		Versions: services.NewVersionService(fingerprints, settings.Store.OriginName),
		NewMap: func(st domain.StoreSettings) driving.MapService {
			return services.NewMapHandle(st, linefile.NewFactory(), fingerprints, mirror, metrics)
		},
		MetricsHandler: metrics.Handler(),
	})

	if err := cli.Execute(ctx); err != nil {
		logger.Debug("command failed: %v", err)
		return err
	}
	return nil
}
