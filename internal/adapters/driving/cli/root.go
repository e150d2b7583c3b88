// Package cli provides the mapstore command line, a driving adapter over
// the map services.
package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driving"
	"github.com/custodia-labs/mapstore/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var verbose bool

// Services are the core services the commands run against.
type Services struct {
	// Settings loads the application settings.
	Settings driving.SettingsService

	// Versions tracks recorded map versions.
	Versions driving.VersionService

	// NewMap creates an empty map handle configured by settings.
	NewMap func(settings domain.StoreSettings) driving.MapService

	// MetricsHandler serves metrics for watch --metrics-addr. Optional.
	MetricsHandler http.Handler
}

var cliServices *Services

var errNotConfigured = errors.New("services not configured")

// SetServices wires the services used by all commands.
func SetServices(s *Services) {
	cliServices = s
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "mapstore",
	Short: "Inspect, compare and hot-reload robot map files",
	Long: `mapstore reads, writes and monitors the map files used by mobile robots.

It reports what a map contains, compares two versions of a map, rewrites
maps in canonical form and reloads a map whenever its file changes.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// storeSettings returns the configured map settings, or defaults when no
// settings service is wired.
func storeSettings() (domain.StoreSettings, error) {
	if cliServices == nil || cliServices.Settings == nil {
		return domain.DefaultStoreSettings(), nil
	}
	s, err := cliServices.Settings.Get()
	if err != nil {
		return domain.StoreSettings{}, err
	}
	return s.Store, nil
}

// openMap reads path into a new map handle. The caller closes the handle.
func openMap(ctx context.Context, path string) (driving.MapService, error) {
	if cliServices == nil || cliServices.NewMap == nil {
		return nil, errNotConfigured
	}
	settings, err := storeSettings()
	if err != nil {
		return nil, err
	}
	m := cliServices.NewMap(settings)
	if err := m.ReadFile(ctx, path); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}
