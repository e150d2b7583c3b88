package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mapstore/internal/adapters/driven/linefile"
	"github.com/custodia-labs/mapstore/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driving"
	"github.com/custodia-labs/mapstore/internal/core/services"
)

const mapV1 = `2D-Map
Cairn: Goal "Dock" 1 2 0
RouteInfo: Route Loop
DATA
0 0
1 1
2 2
`

// mapV1Unsorted holds the same content as mapV1 in a different order.
const mapV1Unsorted = `2D-Map
RouteInfo: Route Loop
Cairn: Goal "Dock" 1 2 0
DATA
2 2
0 0
1 1
`

const mapV2 = `2D-Map
Cairn: Goal "Dock" 1 2 0
Cairn: Goal "Door" 5 5 90
RouteInfo: Route Loop
DATA
0 0
2 2
3 3
4 4
`

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// setupServices wires in-memory services and restores the previous ones
// when the test ends.
func setupServices(t *testing.T) *Services {
	t.Helper()
	s, _ := setupServicesWithConfig(t)
	return s
}

func setupServicesWithConfig(t *testing.T) (*Services, *memory.ConfigStore) {
	t.Helper()
	cfg := memory.NewConfigStore()
	fps := memory.NewFingerprintStore()
	s := &Services{
		Settings: services.NewSettingsService(cfg),
		Versions: services.NewVersionService(fps, "test"),
		NewMap: func(settings domain.StoreSettings) driving.MapService {
			return services.NewMapHandle(settings, linefile.NewFactory(), fps, nil, nil)
		},
	}
	previous := cliServices
	SetServices(s)
	t.Cleanup(func() { SetServices(previous) })
	return s, cfg
}

func writeMap(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// resetFlags restores every package-level flag to its default.
func resetFlags() {
	verbose = false
	infoObjects = false
	checksumCanonical = false
	diffPatch = false
	statusRecord = false
	statusForget = false
	watchMetricsAddr = ""
	watchPlain = false
}

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runContext(context.Background(), t, &syncBuffer{}, args...)
}

func runContext(ctx context.Context, t *testing.T, out *syncBuffer, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}
