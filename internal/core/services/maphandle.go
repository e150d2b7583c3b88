package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/mapstore/internal/changes"
	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
	"github.com/custodia-labs/mapstore/internal/core/ports/driving"
	"github.com/custodia-labs/mapstore/internal/logger"
	"github.com/custodia-labs/mapstore/internal/mapdoc"
)

// Ensure MapHandle implements the interface.
var _ driving.MapService = (*MapHandle)(nil)

type callback[F any] struct {
	id domain.CallbackID
	fn F
}

// MapHandle serves one live map document to concurrent callers and
// replaces it atomically when the file is reloaded.
//
// A reload reads into a fresh document off to the side. Only a complete
// read is swapped in; a failed one leaves the live document untouched.
type MapHandle struct {
	settings     domain.StoreSettings
	newTokenizer driven.LineTokenizerFactory
	fingerprints driven.FingerprintStore
	mirror       driven.MapMirror
	metrics      driven.Metrics

	mu       sync.Mutex
	live     *mapdoc.Document
	fileName string
	notified map[domain.Component]mapdoc.Stamp

	state   atomic.Int32
	closed  atomic.Bool
	loading atomic.Pointer[mapdoc.Document]
	reloads singleflight.Group

	cbMu      sync.Mutex
	changed   []callback[driving.ChangedFunc]
	preChange []callback[driving.PreChangeFunc]
}

// NewMapHandle creates a handle with an empty live document.
// fingerprints, mirror and metrics are optional.
func NewMapHandle(
	settings domain.StoreSettings,
	newTokenizer driven.LineTokenizerFactory,
	fingerprints driven.FingerprintStore,
	mirror driven.MapMirror,
	metrics driven.Metrics,
) *MapHandle {
	h := &MapHandle{
		settings:     settings,
		newTokenizer: newTokenizer,
		fingerprints: fingerprints,
		mirror:       mirror,
		metrics:      metrics,
		live:         mapdoc.New(settings, newTokenizer),
	}
	h.notified = h.live.Stamps()
	return h
}

// State returns the reload state.
func (h *MapHandle) State() domain.HandleState {
	return domain.HandleState(h.state.Load())
}

// FileName returns the file last read or written.
func (h *MapHandle) FileName() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fileName
}

// Lock acquires the map lock.
func (h *MapHandle) Lock() driving.LockedMap {
	h.mu.Lock()
	return &lockedMap{h: h}
}

// TryLock acquires the map lock if it is free.
func (h *MapHandle) TryLock() (driving.LockedMap, bool) {
	if !h.mu.TryLock() {
		return nil, false
	}
	return &lockedMap{h: h}, true
}

// Unlock releases the map lock taken by Lock or TryLock.
func (h *MapHandle) Unlock() {
	h.mu.Unlock()
}

// Snapshot returns a deep copy of the live document.
func (h *MapHandle) Snapshot() *mapdoc.Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.Clone()
}

// ReadFile loads a map file and swaps it in.
func (h *MapHandle) ReadFile(ctx context.Context, path string) error {
	if h.closed.Load() {
		return domain.ErrHandleClosed
	}
	if path == "" {
		if h.settings.AllowEmptyFileName {
			return nil
		}
		return fmt.Errorf("read map: empty file name: %w", domain.ErrInvalidInput)
	}

	h.mu.Lock()
	event, err := h.readLocked(ctx, path)
	h.mu.Unlock()

	if event != nil {
		h.fireChanged(*event)
	}
	return err
}

// readLocked reads path into a fresh document and swaps it in.
// Returns the change event to raise once the lock is released.
func (h *MapHandle) readLocked(ctx context.Context, path string) (*domain.MapChangedEvent, error) {
	previous := h.state.Swap(int32(domain.StateLoading))

	doc := mapdoc.New(h.settings, h.newTokenizer)
	h.loading.Store(doc)
	defer h.loading.Store(nil)
	if h.closed.Load() {
		doc.Cancel()
	}

	start := time.Now()
	err := doc.Read(ctx, path)
	if h.metrics != nil {
		h.metrics.ObserveReload(time.Since(start), err)
	}
	if err != nil {
		h.state.Store(previous)
		logger.Warn("reload of %s failed, keeping the previous map: %v", path, err)
		return nil, err
	}
	var components []domain.Component
	if doc.TakeChanged() {
		components = doc.ChangedSince(h.notified)
	}
	if len(components) > 0 {
		for _, cb := range h.preChangeCallbacks() {
			cb.fn()
		}
	}

	doc.CopyWriteCallbacks(h.live)
	h.live = doc
	h.fileName = path
	h.notified = doc.Stamps()
	h.state.Store(int32(domain.StateLive))

	fp := doc.Fingerprint()
	h.saveFingerprint(ctx, fp)
	h.recordPoints()
	logger.Info("loaded %s (%s, checksum %s, %d changed component(s))",
		path, doc.Category(), fp.ChecksumString(), len(components))

	if len(components) == 0 {
		return nil, nil
	}
	return &domain.MapChangedEvent{
		Reason:      domain.ChangeReasonReload,
		Components:  components,
		Fingerprint: fp,
		At:          time.Now(),
	}, nil
}

// Reload reads the current file again. Concurrent reloads of the same
// file share one read.
func (h *MapHandle) Reload(ctx context.Context) error {
	path := h.FileName()
	if path == "" {
		return domain.ErrNoFile
	}
	_, err, _ := h.reloads.Do(path, func() (any, error) {
		return nil, h.ReadFile(ctx, path)
	})
	return err
}

// Refresh reloads only when the file's size or modification time differ
// from the live fingerprint.
func (h *MapHandle) Refresh(ctx context.Context) (bool, error) {
	h.mu.Lock()
	path := h.fileName
	fp := h.live.Fingerprint()
	h.mu.Unlock()

	if path == "" {
		return false, domain.ErrNoFile
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat map %s: %w", path, err)
	}
	if info.Size() == fp.Size && info.ModTime().Equal(fp.ModTime) {
		return false, nil
	}
	if err := h.Reload(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// WriteFile writes the live document to path and publishes it to the
// mirror when one is configured.
func (h *MapHandle) WriteFile(ctx context.Context, path string) error {
	if path == "" {
		if h.settings.AllowEmptyFileName {
			return nil
		}
		return fmt.Errorf("write map: empty file name: %w", domain.ErrInvalidInput)
	}

	h.mu.Lock()
	start := time.Now()
	err := h.live.Write(path, h.settings.UseTempFile)
	if h.metrics != nil {
		h.metrics.ObserveWrite(time.Since(start), err)
	}
	if err != nil {
		h.mu.Unlock()
		return err
	}
	fp := h.live.Fingerprint()
	h.fileName = path
	if h.State() == domain.StateIdle {
		h.state.Store(int32(domain.StateLive))
	}
	h.saveFingerprint(ctx, fp)
	h.mu.Unlock()

	if h.mirror != nil {
		if err := h.mirror.Publish(ctx, fp, path); err != nil {
			logger.Warn("mirroring %s failed: %v", path, err)
			return fmt.Errorf("mirror map %s: %w", path, err)
		}
	}
	return nil
}

// NotifyChanged raises a change event for the components edited since
// the last notification.
func (h *MapHandle) NotifyChanged() {
	h.mu.Lock()
	components := h.live.ChangedSince(h.notified)
	h.notified = h.live.Stamps()
	fp := h.live.Fingerprint()
	if len(components) > 0 {
		h.recordPoints()
	}
	h.mu.Unlock()

	if len(components) == 0 {
		return
	}
	h.fireChanged(domain.MapChangedEvent{
		Reason:      domain.ChangeReasonMutation,
		Components:  components,
		Fingerprint: fp,
		At:          time.Now(),
	})
}

// Close cancels a running read and makes later reads fail. It waits a
// bounded time for the read to stop.
func (h *MapHandle) Close() error {
	if h.closed.Swap(true) {
		return nil
	}
	doc := h.loading.Load()
	if doc == nil {
		return nil
	}
	doc.Cancel()

	wait := h.settings.Reload
	for i := 0; i < wait.CancelWaitAttempts; i++ {
		if h.loading.Load() == nil {
			return nil
		}
		time.Sleep(wait.CancelWaitInterval)
	}
	if h.loading.Load() != nil {
		logger.Warn("map read may still be in progress after close")
	}
	return nil
}

// AddChangedCallback registers fn for change notifications.
func (h *MapHandle) AddChangedCallback(fn driving.ChangedFunc) domain.CallbackID {
	id := newCallbackID()
	h.cbMu.Lock()
	defer h.cbMu.Unlock()
	h.changed = append(h.changed, callback[driving.ChangedFunc]{id: id, fn: fn})
	return id
}

// RemoveChangedCallback unregisters a change callback.
func (h *MapHandle) RemoveChangedCallback(id domain.CallbackID) bool {
	h.cbMu.Lock()
	defer h.cbMu.Unlock()
	return removeCallback(&h.changed, id)
}

// AddPreChangeCallback registers fn to run before a reload swap.
func (h *MapHandle) AddPreChangeCallback(fn driving.PreChangeFunc) domain.CallbackID {
	id := newCallbackID()
	h.cbMu.Lock()
	defer h.cbMu.Unlock()
	h.preChange = append(h.preChange, callback[driving.PreChangeFunc]{id: id, fn: fn})
	return id
}

// RemovePreChangeCallback unregisters a pre-change callback.
func (h *MapHandle) RemovePreChangeCallback(id domain.CallbackID) bool {
	h.cbMu.Lock()
	defer h.cbMu.Unlock()
	return removeCallback(&h.preChange, id)
}

// AddPreWriteCallback registers fn to run before every write.
func (h *MapHandle) AddPreWriteCallback(fn mapdoc.PreWriteFunc) domain.CallbackID {
	id := newCallbackID()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.live.AddPreWriteCallback(string(id), fn)
	return id
}

// AddPostWriteCallback registers fn to run after every write.
func (h *MapHandle) AddPostWriteCallback(fn mapdoc.PostWriteFunc) domain.CallbackID {
	id := newCallbackID()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.live.AddPostWriteCallback(string(id), fn)
	return id
}

// RemoveWriteCallback unregisters a write callback.
func (h *MapHandle) RemoveWriteCallback(id domain.CallbackID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.RemoveWriteCallback(string(id))
}

func (h *MapHandle) preChangeCallbacks() []callback[driving.PreChangeFunc] {
	h.cbMu.Lock()
	defer h.cbMu.Unlock()
	return slices.Clone(h.preChange)
}

func (h *MapHandle) fireChanged(event domain.MapChangedEvent) {
	if h.metrics != nil {
		h.metrics.ObserveChange(event)
	}
	h.cbMu.Lock()
	cbs := slices.Clone(h.changed)
	h.cbMu.Unlock()
	for _, cb := range cbs {
		cb.fn(event)
	}
}

// saveFingerprint records the live version. Failures are logged only.
func (h *MapHandle) saveFingerprint(ctx context.Context, fp domain.Fingerprint) {
	if h.fingerprints == nil || fp.FileName == "" {
		return
	}
	if err := h.fingerprints.Save(ctx, fp); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("failed to store fingerprint of %s: %v", fp.FileName, err)
	}
}

// recordPoints publishes layer sizes (caller must hold lock).
func (h *MapHandle) recordPoints() {
	if h.metrics == nil {
		return
	}
	for _, s := range h.live.ScanSummaries() {
		h.metrics.SetPoints(s.ScanType, s.NumPoints)
	}
}

func newCallbackID() domain.CallbackID {
	return domain.CallbackID(uuid.NewString())
}

func removeCallback[F any](cbs *[]callback[F], id domain.CallbackID) bool {
	for i, cb := range *cbs {
		if cb.id == id {
			*cbs = slices.Delete(*cbs, i, i+1)
			return true
		}
	}
	return false
}

// ==================== Forwarding accessors ====================

// Fingerprint returns the version of the file last read or written.
func (h *MapHandle) Fingerprint() domain.Fingerprint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.Fingerprint()
}

// Category returns the file category.
func (h *MapHandle) Category() domain.Category {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.Category()
}

// Sources returns the declared scan sources.
func (h *MapHandle) Sources() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.Sources()
}

// Scans describes every scan layer.
func (h *MapHandle) Scans() []domain.ScanSummary {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.ScanSummaries()
}

// Points returns a copy of a layer's points.
func (h *MapHandle) Points(scanType string) ([]orb.Point, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.Points(scanType)
}

// Lines returns a copy of a layer's line segments.
func (h *MapHandle) Lines(scanType string) ([]domain.LineSegment, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.Lines(scanType)
}

// FindObject finds an active object by name and optional type.
func (h *MapHandle) FindObject(name, objType string, includeHeadingVariant bool) (domain.MapObject, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.FindObject(name, objType, includeHeadingVariant)
}

// Objects returns the active objects.
func (h *MapHandle) Objects() []domain.MapObject {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.Objects().Objects()
}

// Info returns the lines of an info section.
func (h *MapHandle) Info(section string) ([]domain.ArgLine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.Info().Info(section)
}

// HasOrigin reports whether the map is georeferenced.
func (h *MapHandle) HasOrigin() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.Supplement().HasOrigin()
}

// Origin returns the GPS origin.
func (h *MapHandle) Origin() domain.Origin {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.Supplement().Origin()
}

// SetSources declares the scan sources.
func (h *MapHandle) SetSources(scanTypes []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.SetSources(scanTypes)
}

// SetPoints replaces the points of a declared layer.
func (h *MapHandle) SetPoints(scanType string, points []orb.Point, ledger *changes.Ledger) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.SetPoints(scanType, points, false, ledger)
}

// SetLines replaces the line segments of a declared layer.
func (h *MapHandle) SetLines(scanType string, lines []domain.LineSegment, ledger *changes.Ledger) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.SetLines(scanType, lines, false, ledger)
}

// SetObjects replaces the active objects.
func (h *MapHandle) SetObjects(objects []domain.MapObject, ledger *changes.Ledger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.live.Objects().Set(objects, false, ledger)
}

// SetInfo replaces the lines of an info section.
func (h *MapHandle) SetInfo(section string, lines []domain.ArgLine, ledger *changes.Ledger) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live.Info().SetInfo(section, lines, ledger)
}

// SetOrigin replaces the GPS origin.
func (h *MapHandle) SetOrigin(origin domain.Origin, ledger *changes.Ledger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.live.Supplement().SetOrigin(origin, ledger)
}
