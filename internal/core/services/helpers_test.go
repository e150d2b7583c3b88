package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mapstore/internal/adapters/driven/linefile"
	"github.com/custodia-labs/mapstore/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
)

const mapV1 = `2D-Map
Cairn: Goal "Dock" 1 2 0
DATA
0 0
1 1
2 2
`

const mapV2 = `2D-Map
Cairn: Goal "Dock" 1 2 0
Cairn: Goal "Door" 5 5 90
DATA
0 0
1 1
2 2
3 3
4 4
`

func writeMap(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func tempMap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.map")
	writeMap(t, path, content)
	return path
}

func testSettings() domain.StoreSettings {
	s := domain.DefaultStoreSettings()
	s.OriginName = "test"
	s.Reload.CancelWaitInterval = time.Millisecond
	s.Reload.CancelWaitAttempts = 1000
	return s
}

func newTestHandle(t *testing.T) (*MapHandle, *memory.FingerprintStore, *fakeMetrics) {
	t.Helper()
	fps := memory.NewFingerprintStore()
	metrics := &fakeMetrics{points: map[string]int{}}
	h := NewMapHandle(testSettings(), linefile.NewFactory(), fps, nil, metrics)
	t.Cleanup(func() { _ = h.Close() })
	return h, fps, metrics
}

// fakeMetrics records what the handle reports.
type fakeMetrics struct {
	mu      sync.Mutex
	reloads []error
	writes  []error
	changes []domain.MapChangedEvent
	points  map[string]int
}

func (m *fakeMetrics) ObserveReload(_ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reloads = append(m.reloads, err)
}

func (m *fakeMetrics) ObserveWrite(_ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, err)
}

func (m *fakeMetrics) ObserveChange(event domain.MapChangedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, event)
}

func (m *fakeMetrics) SetPoints(scanType string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[scanType] = n
}

// fakeMirror records published files.
type fakeMirror struct {
	mu        sync.Mutex
	published []domain.Fingerprint
	err       error
}

func (m *fakeMirror) Publish(_ context.Context, fp domain.Fingerprint, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, fp)
	return nil
}

// blockingTokenizer parses nothing until it is cancelled.
type blockingTokenizer struct {
	*linefile.Tokenizer
	started chan struct{}
	stop    chan struct{}
	once    sync.Once
}

func newBlockingFactory(started chan struct{}) driven.LineTokenizerFactory {
	return func() driven.LineTokenizer {
		return &blockingTokenizer{
			Tokenizer: linefile.New(),
			started:   started,
			stop:      make(chan struct{}),
		}
	}
}

func (b *blockingTokenizer) Parse(_ context.Context, _ io.Reader) error {
	close(b.started)
	<-b.stop
	return domain.ErrReadCancelled
}

func (b *blockingTokenizer) Cancel() {
	b.once.Do(func() { close(b.stop) })
}

func newFingerprintsAndMetrics() (*memory.FingerprintStore, *fakeMetrics) {
	return memory.NewFingerprintStore(), &fakeMetrics{points: map[string]int{}}
}
