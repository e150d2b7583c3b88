package mapdoc

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/paulmach/orb"

	"github.com/custodia-labs/mapstore/internal/changes"
	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
)

// PreWriteFunc runs before a write with the destination path.
type PreWriteFunc func(path string)

// PostWriteFunc runs after a write, whether it succeeded or not.
type PostWriteFunc func(result domain.WriteResult)

type writeHook struct {
	id   string
	pre  PreWriteFunc
	post PostWriteFunc
}

// Document is one map: scan layers, object registries, info sections and
// the supplement, plus the fingerprint of the file it was read from.
type Document struct {
	settings     domain.StoreSettings
	newTokenizer driven.LineTokenizerFactory

	fingerprint domain.Fingerprint
	category    domain.Category

	sources         []string
	layers          map[string]*ScanLayer
	summary         *ScanLayer
	sourcesModified Stamp

	objects    *ObjectRegistry
	inactive   *ObjectRegistry
	children   *ObjectRegistry
	info       *InfoRegistry
	supplement *Supplement

	remainder         []string
	remainderModified Stamp

	changed bool
	hooks   []writeHook

	readMu    sync.Mutex
	reading   driven.LineTokenizer
	cancelled atomic.Bool
}

// New creates an empty document with the single default scan source.
// newTokenizer is called once per Read.
func New(settings domain.StoreSettings, newTokenizer driven.LineTokenizerFactory) *Document {
	d := &Document{
		settings:     settings,
		newTokenizer: newTokenizer,
		objects:      NewObjectRegistry(domain.KeywordObject, changes.SectionObjects),
		inactive:     NewObjectRegistry(domain.KeywordInactiveObject, changes.SectionInactive),
		children:     NewObjectRegistry(domain.KeywordChildObject, changes.SectionChildren),
		info:         NewInfoRegistry(settings.ExtraInfoNames...),
		supplement:   NewSupplement(),
	}
	d.Clear()
	return d
}

// Settings returns the settings the document was created with.
func (d *Document) Settings() domain.StoreSettings { return d.settings }

// Fingerprint returns the version of the file last read or written.
func (d *Document) Fingerprint() domain.Fingerprint { return d.fingerprint }

// Category returns the file category last read, written or inferred.
func (d *Document) Category() domain.Category { return d.category }

// Clear empties every component and resets the sources to the default one.
// The fingerprint keeps only the origin name.
func (d *Document) Clear() {
	d.fingerprint = domain.Fingerprint{OriginName: d.settings.OriginName}
	d.category = domain.Category2D
	d.sources = []string{domain.DefaultScanType}
	d.layers = map[string]*ScanLayer{domain.DefaultScanType: NewScanLayer(domain.DefaultScanType)}
	d.summary = nil
	d.sourcesModified = touch()
	d.objects.Clear()
	d.inactive.Clear()
	d.children.Clear()
	d.info.Clear()
	d.supplement.Clear()
	d.remainder = nil
	d.remainderModified = touch()
}

// Sources returns the declared scan sources in file order.
func (d *Document) Sources() []string {
	return slices.Clone(d.sources)
}

// SetSources declares the scan sources. Layers of sources that remain are
// kept; new sources get empty layers. No sources means the default one.
// Names differing only in case denote one source, the first one wins.
// An invalid name returns domain.ErrInvalidInput and changes nothing.
func (d *Document) SetSources(scanTypes []string) error {
	var next []string
	for _, t := range scanTypes {
		if err := domain.ValidateScanType(t); err != nil {
			return err
		}
		if t == domain.SummaryScanType {
			continue
		}
		if !slices.ContainsFunc(next, func(n string) bool { return strings.EqualFold(n, t) }) {
			next = append(next, t)
		}
	}
	if len(next) == 0 {
		next = []string{domain.DefaultScanType}
	}
	if slices.Equal(next, d.sources) {
		return nil
	}
	layers := make(map[string]*ScanLayer, len(next))
	for _, t := range next {
		if l, ok := d.layers[t]; ok {
			layers[t] = l
		} else {
			layers[t] = NewScanLayer(t)
		}
	}
	d.sources = next
	d.layers = layers
	d.summary = nil
	d.sourcesModified = touch()
	return nil
}

// HasDefaultSources reports whether the map has only the unnamed source.
func (d *Document) HasDefaultSources() bool {
	return len(d.sources) == 1 && d.sources[0] == domain.DefaultScanType
}

// Scan returns the layer of a scan source. domain.SummaryScanType returns
// the union of all layers, or the only layer when there is one source.
// Returns domain.ErrNotFound for an undeclared source.
func (d *Document) Scan(scanType string) (*ScanLayer, error) {
	if scanType == domain.SummaryScanType {
		return d.summaryLayer(), nil
	}
	l, ok := d.layers[scanType]
	if !ok {
		return nil, fmt.Errorf("scan type %q: %w", scanType, domain.ErrNotFound)
	}
	return l, nil
}

// summaryLayer rebuilds the union layer when any layer changed after it.
func (d *Document) summaryLayer() *ScanLayer {
	if len(d.sources) < 2 {
		return d.layers[d.sources[0]]
	}
	if d.summary != nil && !d.scanStamp().After(d.summary.lastModified) {
		return d.summary
	}
	s := NewScanLayer(domain.SummaryScanType)
	for _, t := range d.sources {
		s.Unite(d.layers[t], true)
	}
	d.summary = s
	return s
}

// Points returns a copy of a layer's points in sorted order.
func (d *Document) Points(scanType string) ([]orb.Point, error) {
	l, err := d.Scan(scanType)
	if err != nil {
		return nil, err
	}
	return slices.Clone(l.Points()), nil
}

// Lines returns a copy of a layer's line segments in sorted order.
func (d *Document) Lines(scanType string) ([]domain.LineSegment, error) {
	l, err := d.Scan(scanType)
	if err != nil {
		return nil, err
	}
	return slices.Clone(l.Lines()), nil
}

// SetPoints replaces the points of a declared layer.
func (d *Document) SetPoints(scanType string, points []orb.Point, sorted bool, ledger *changes.Ledger) error {
	l, err := d.writableScan(scanType)
	if err != nil {
		return err
	}
	l.SetPoints(points, sorted, ledger)
	return nil
}

// SetLines replaces the line segments of a declared layer.
func (d *Document) SetLines(scanType string, lines []domain.LineSegment, sorted bool, ledger *changes.Ledger) error {
	l, err := d.writableScan(scanType)
	if err != nil {
		return err
	}
	l.SetLines(lines, sorted, ledger)
	return nil
}

func (d *Document) writableScan(scanType string) (*ScanLayer, error) {
	if scanType == domain.SummaryScanType {
		return nil, fmt.Errorf("summary layer is read-only: %w", domain.ErrInvalidInput)
	}
	l, ok := d.layers[scanType]
	if !ok {
		return nil, fmt.Errorf("scan type %q: %w", scanType, domain.ErrNotFound)
	}
	return l, nil
}

// Objects returns the active object registry.
func (d *Document) Objects() *ObjectRegistry { return d.objects }

// InactiveObjects returns the inactive object registry.
func (d *Document) InactiveObjects() *ObjectRegistry { return d.inactive }

// ChildObjects returns the child object registry.
func (d *Document) ChildObjects() *ObjectRegistry { return d.children }

// FindObject finds an active object by name.
func (d *Document) FindObject(name, objType string, includeHeadingVariant bool) (domain.MapObject, bool) {
	return d.objects.FindFirst(name, objType, includeHeadingVariant)
}

// Info returns the info registry.
func (d *Document) Info() *InfoRegistry { return d.info }

// Supplement returns the supplement.
func (d *Document) Supplement() *Supplement { return d.supplement }

// Remainder returns the unrecognised lines kept from the file.
func (d *Document) Remainder() []string {
	return slices.Clone(d.remainder)
}

// SetRemainder replaces the unrecognised lines.
func (d *Document) SetRemainder(lines []string) {
	d.remainder = slices.Clone(lines)
	d.remainderModified = touch()
}

func (d *Document) scanStamp() Stamp {
	latest := d.sourcesModified
	for _, l := range d.layers {
		latest = max(latest, l.lastModified)
	}
	return latest
}

// Stamps returns the modification stamp of every component.
func (d *Document) Stamps() map[domain.Component]Stamp {
	return map[domain.Component]Stamp{
		domain.ComponentScan:       d.scanStamp(),
		domain.ComponentObjects:    d.objects.lastModified,
		domain.ComponentInactive:   d.inactive.lastModified,
		domain.ComponentChildren:   d.children.lastModified,
		domain.ComponentInfo:       d.info.lastModified,
		domain.ComponentSupplement: d.supplement.lastModified,
		domain.ComponentRemainder:  d.remainderModified,
	}
}

// ChangedSince returns the components whose stamps are later than in
// before, in domain.AllComponents order.
func (d *Document) ChangedSince(before map[domain.Component]Stamp) []domain.Component {
	now := d.Stamps()
	var changed []domain.Component
	for _, c := range domain.AllComponents() {
		if now[c].After(before[c]) {
			changed = append(changed, c)
		}
	}
	return changed
}

// TakeChanged returns and resets the flag raised by a successful Read.
func (d *Document) TakeChanged() bool {
	c := d.changed
	d.changed = false
	return c
}

// AddPreWriteCallback registers fn to run before every write.
func (d *Document) AddPreWriteCallback(id string, fn PreWriteFunc) {
	d.hooks = append(d.hooks, writeHook{id: id, pre: fn})
}

// AddPostWriteCallback registers fn to run after every write.
func (d *Document) AddPostWriteCallback(id string, fn PostWriteFunc) {
	d.hooks = append(d.hooks, writeHook{id: id, post: fn})
}

// RemoveWriteCallback unregisters a write callback by id.
func (d *Document) RemoveWriteCallback(id string) bool {
	for i, h := range d.hooks {
		if h.id == id {
			d.hooks = slices.Delete(d.hooks, i, i+1)
			return true
		}
	}
	return false
}

// CopyWriteCallbacks replaces the write callbacks with those of other.
func (d *Document) CopyWriteCallbacks(other *Document) {
	d.hooks = slices.Clone(other.hooks)
}

// Clone returns a deep copy of the document without write callbacks.
func (d *Document) Clone() *Document {
	c := &Document{
		settings:          d.settings,
		newTokenizer:      d.newTokenizer,
		fingerprint:       d.fingerprint,
		category:          d.category,
		sources:           slices.Clone(d.sources),
		layers:            make(map[string]*ScanLayer, len(d.layers)),
		sourcesModified:   d.sourcesModified,
		objects:           d.objects.Clone(),
		inactive:          d.inactive.Clone(),
		children:          d.children.Clone(),
		info:              d.info.Clone(),
		supplement:        d.supplement.Clone(),
		remainder:         slices.Clone(d.remainder),
		remainderModified: d.remainderModified,
	}
	for t, l := range d.layers {
		c.layers[t] = l.Clone()
	}
	return c
}
