package driving

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/custodia-labs/mapstore/internal/changes"
	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/mapdoc"
)

// ChangedFunc receives change notifications. It runs without the map lock
// held and may read the map.
type ChangedFunc func(event domain.MapChangedEvent)

// PreChangeFunc runs just before a loaded document replaces the live one.
// It runs with the map lock held and must not call back into the map.
type PreChangeFunc func()

// MapReader reads the live map.
type MapReader interface {
	// Fingerprint returns the version of the file last read or written.
	Fingerprint() domain.Fingerprint

	// Category returns the file category.
	Category() domain.Category

	// Sources returns the declared scan sources.
	Sources() []string

	// Scans describes every scan layer, plus the summary layer when
	// there are several sources.
	Scans() []domain.ScanSummary

	// Points returns a copy of a layer's points.
	// domain.SummaryScanType requests the union of all layers.
	Points(scanType string) ([]orb.Point, error)

	// Lines returns a copy of a layer's line segments.
	Lines(scanType string) ([]domain.LineSegment, error)

	// FindObject finds an active object by name and optional type.
	FindObject(name, objType string, includeHeadingVariant bool) (domain.MapObject, bool)

	// Objects returns the active objects sorted by type and name.
	Objects() []domain.MapObject

	// Info returns the lines of an info section.
	// Returns domain.ErrNotFound for an unknown section.
	Info(section string) ([]domain.ArgLine, error)

	// HasOrigin reports whether the map is georeferenced.
	HasOrigin() bool

	// Origin returns the GPS origin.
	Origin() domain.Origin
}

// MapEditor reads and edits the live map. Every edit records its delta
// into ledger when ledger is not nil.
type MapEditor interface {
	MapReader

	// SetSources declares the scan sources. Names holding whitespace,
	// quotes or control characters return domain.ErrInvalidInput.
	SetSources(scanTypes []string) error

	// SetPoints replaces the points of a declared layer.
	SetPoints(scanType string, points []orb.Point, ledger *changes.Ledger) error

	// SetLines replaces the line segments of a declared layer.
	SetLines(scanType string, lines []domain.LineSegment, ledger *changes.Ledger) error

	// SetObjects replaces the active objects.
	SetObjects(objects []domain.MapObject, ledger *changes.Ledger)

	// SetInfo replaces the lines of an info section.
	SetInfo(section string, lines []domain.ArgLine, ledger *changes.Ledger) error

	// SetOrigin replaces the GPS origin.
	SetOrigin(origin domain.Origin, ledger *changes.Ledger)
}

// LockedMap is the live map held under the map lock. Its methods do not
// lock again, so several calls observe one consistent document.
// The map's own methods must not be called until Unlock.
type LockedMap interface {
	MapEditor

	// Document returns the live document. It is valid until Unlock.
	Document() *mapdoc.Document

	// Unlock releases the map lock.
	Unlock()
}

// MapService is a thread-safe handle on one map file with hot reload.
type MapService interface {
	MapEditor

	// State returns the reload state.
	State() domain.HandleState

	// FileName returns the file last read or written.
	FileName() string

	// Lock acquires the map lock.
	Lock() LockedMap

	// TryLock acquires the map lock if it is free.
	TryLock() (LockedMap, bool)

	// Unlock releases the map lock taken by Lock or TryLock.
	Unlock()

	// Snapshot returns a deep copy of the live document.
	Snapshot() *mapdoc.Document

	// ReadFile loads a map file and swaps it in. On failure the live
	// document is left untouched.
	ReadFile(ctx context.Context, path string) error

	// Reload reads the current file again. Concurrent reloads of the same
	// file share one read.
	Reload(ctx context.Context) error

	// Refresh reloads only when the file's size or modification time
	// differ from the live fingerprint. Reports whether it reloaded.
	Refresh(ctx context.Context) (bool, error)

	// WriteFile writes the live document to path.
	WriteFile(ctx context.Context, path string) error

	// NotifyChanged announces in-memory edits made since the last
	// notification to the change callbacks.
	NotifyChanged()

	// AddChangedCallback registers fn for change notifications.
	AddChangedCallback(fn ChangedFunc) domain.CallbackID

	// RemoveChangedCallback unregisters a change callback.
	RemoveChangedCallback(id domain.CallbackID) bool

	// AddPreChangeCallback registers fn to run before a reload swap.
	AddPreChangeCallback(fn PreChangeFunc) domain.CallbackID

	// RemovePreChangeCallback unregisters a pre-change callback.
	RemovePreChangeCallback(id domain.CallbackID) bool

	// AddPreWriteCallback registers fn to run before every write.
	AddPreWriteCallback(fn mapdoc.PreWriteFunc) domain.CallbackID

	// AddPostWriteCallback registers fn to run after every write.
	AddPostWriteCallback(fn mapdoc.PostWriteFunc) domain.CallbackID

	// RemoveWriteCallback unregisters a write callback.
	RemoveWriteCallback(id domain.CallbackID) bool

	// Close cancels a running read and stops further reads.
	Close() error
}
