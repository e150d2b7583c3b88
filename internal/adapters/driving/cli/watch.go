package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui"
	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/mapstore/internal/adapters/driving/watch"
	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driving"
	"github.com/custodia-labs/mapstore/internal/logger"
)

var (
	watchMetricsAddr string
	watchPlain       bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <map-file>",
	Short: "Reload a map whenever its file changes",
	Long: `Load a map file and reload it whenever the file changes on disk.

On a terminal an interactive monitor shows the live map and every change
notification. Otherwise, or with --plain, each notification is printed as
one line.

Controls:
  r        - Reload now
  ↑/k, ↓/j - Scroll the change log
  c        - Clear the change log
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this address (overrides metrics.listen)")
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "print notifications instead of the monitor")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	settings, err := storeSettings()
	if err != nil {
		return err
	}

	m, err := openMap(ctx, path)
	if err != nil {
		return err
	}
	defer m.Close()

	shutdown, err := serveMetrics(cmd, metricsAddr())
	if err != nil {
		return err
	}
	defer shutdown()

	if !watchPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		return watchInteractive(ctx, m, path, settings.Reload)
	}
	return watchLog(ctx, cmd, m, path, settings.Reload)
}

func metricsAddr() string {
	if watchMetricsAddr != "" || cliServices == nil || cliServices.Settings == nil {
		return watchMetricsAddr
	}
	s, err := cliServices.Settings.Get()
	if err != nil {
		return ""
	}
	return s.Metrics.Listen
}

// serveMetrics starts the metrics endpoint when addr is set and returns a
// function that stops it.
func serveMetrics(cmd *cobra.Command, addr string) (func(), error) {
	if addr == "" {
		return func() {}, nil
	}
	if cliServices == nil || cliServices.MetricsHandler == nil {
		return nil, errors.New("metrics are not available")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", cliServices.MetricsHandler)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server: %v", err)
		}
	}()
	logger.Info("serving metrics on http://%s/metrics", ln.Addr())
	cmd.PrintErrf("Metrics on http://%s/metrics\n", ln.Addr())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// watchLog prints one line per change notification until ctx is done.
func watchLog(ctx context.Context, cmd *cobra.Command, m driving.MapService, path string, cfg domain.ReloadSettings) error {
	id := m.AddChangedCallback(func(e domain.MapChangedEvent) {
		cmd.Println(formatEvent(e))
	})
	defer m.RemoveChangedCallback(id)

	w, err := watch.New(m, path, cfg, watch.WithResultFunc(func(_ bool, err error) {
		if err != nil {
			cmd.PrintErrf("reload failed: %v\n", err)
		}
	}))
	if err != nil {
		return err
	}
	defer w.Close()

	cmd.Printf("Watching %s (checksum %s)\n", path, m.Fingerprint().ChecksumString())
	return w.Run(ctx)
}

// watchInteractive runs the monitor until the user quits or ctx is done.
func watchInteractive(ctx context.Context, m driving.MapService, path string, cfg domain.ReloadSettings) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in monitor: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app, err := tui.NewApp(tui.NewPorts(m))
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}
	defer app.Close()
	app.WithContext(ctx)
	p := app.NewProgram()

	w, err := watch.New(m, path, cfg, watch.WithResultFunc(func(reloaded bool, err error) {
		p.Send(messages.WatchResult{Reloaded: reloaded, Err: err})
	}))
	if err != nil {
		return err
	}
	defer w.Close()
	go func() { _ = w.Run(ctx) }()

	_, err = p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("monitor error: %w", err)
	}
	return nil
}

func formatEvent(e domain.MapChangedEvent) string {
	return fmt.Sprintf("%s %-8s %s %s", e.At.Format(time.RFC3339), e.Reason,
		e.Fingerprint.ChecksumString(), joinComponents(e.Components, ","))
}

func joinComponents(cs []domain.Component, sep string) string {
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		names = append(names, string(c))
	}
	return strings.Join(names, sep)
}
