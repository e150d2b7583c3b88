package changes

import (
	"slices"
	"strings"

	"github.com/paulmach/orb"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// ChangeType selects one side of a recorded change.
type ChangeType int

// Change sides. Deletions are applied before additions.
const (
	Deletions ChangeType = iota
	Additions
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case Deletions:
		return "deletions"
	case Additions:
		return "additions"
	default:
		return "unknown"
	}
}

// Well-known text sections of a ledger.
const (
	SectionObjects    = "objects"
	SectionInactive   = "inactive"
	SectionChildren   = "children"
	SectionSupplement = "supplement"
)

const infoSectionPrefix = "info:"

// InfoSection returns the ledger section of an info section.
func InfoSection(name string) string {
	return infoSectionPrefix + name
}

// InfoName returns the info section name of a ledger section.
func InfoName(section string) (string, bool) {
	if len(section) <= len(infoSectionPrefix) || !strings.EqualFold(section[:len(infoSectionPrefix)], infoSectionPrefix) {
		return "", false
	}
	return section[len(infoSectionPrefix):], true
}

type scanDelta struct {
	points   [2][]orb.Point
	segments [2][]domain.LineSegment
	summary  [2]LineSet
}

func (d *scanDelta) empty() bool {
	for _, ct := range []ChangeType{Deletions, Additions} {
		if len(d.points[ct]) > 0 || len(d.segments[ct]) > 0 || len(d.summary[ct]) > 0 {
			return false
		}
	}
	return true
}

type lineDelta struct {
	name  string
	lines [2]LineSet
}

// Ledger accumulates the changes of one or more mutations.
// The zero value is an empty ledger with no child arguments registered.
type Ledger struct {
	childArgs map[string][]string
	scans     map[string]*scanDelta
	sections  map[string]*lineDelta
}

// NewLedger creates an empty ledger with the default child arguments
// registered.
func NewLedger() *Ledger {
	l := &Ledger{
		childArgs: make(map[string][]string),
		scans:     make(map[string]*scanDelta),
		sections:  make(map[string]*lineDelta),
	}
	for section, args := range domain.DefaultStoreSettings().ChildArgs {
		l.RegisterChildArgs(section, args...)
	}
	return l
}

// RegisterChildArgs sets the first arguments that make a line of the info
// section a child of the preceding line. No arguments unregisters the
// section.
func (l *Ledger) RegisterChildArgs(infoName string, args ...string) {
	key := strings.ToLower(infoName)
	if len(args) == 0 {
		delete(l.childArgs, key)
		return
	}
	if l.childArgs == nil {
		l.childArgs = make(map[string][]string)
	}
	l.childArgs[key] = slices.Clone(args)
}

// ChildArgs returns the child arguments registered for an info section.
func (l *Ledger) ChildArgs(infoName string) []string {
	return slices.Clone(l.childArgs[strings.ToLower(infoName)])
}

func (l *Ledger) scan(scanType string) *scanDelta {
	d, ok := l.scans[scanType]
	if !ok {
		if l.scans == nil {
			l.scans = make(map[string]*scanDelta)
		}
		d = &scanDelta{}
		l.scans[scanType] = d
	}
	return d
}

func (l *Ledger) section(name string) *lineDelta {
	key := strings.ToLower(name)
	d, ok := l.sections[key]
	if !ok {
		if l.sections == nil {
			l.sections = make(map[string]*lineDelta)
		}
		d = &lineDelta{name: name}
		l.sections[key] = d
	}
	return d
}

// RecordPoints appends point deltas for a scan layer.
func (l *Ledger) RecordPoints(scanType string, deleted, added []orb.Point) {
	if len(deleted) == 0 && len(added) == 0 {
		return
	}
	d := l.scan(scanType)
	d.points[Deletions] = append(d.points[Deletions], deleted...)
	d.points[Additions] = append(d.points[Additions], added...)
}

// RecordSegments appends line segment deltas for a scan layer.
func (l *Ledger) RecordSegments(scanType string, deleted, added []domain.LineSegment) {
	if len(deleted) == 0 && len(added) == 0 {
		return
	}
	d := l.scan(scanType)
	d.segments[Deletions] = append(d.segments[Deletions], deleted...)
	d.segments[Additions] = append(d.segments[Additions], added...)
}

// RecordScanSummary diffs the header lines of a scan layer.
func (l *Ledger) RecordScanSummary(scanType string, old, new LineSet) {
	deleted, added := Diff(old, new, false)
	if len(deleted) == 0 && len(added) == 0 {
		return
	}
	d := l.scan(scanType)
	d.summary[Deletions] = append(d.summary[Deletions], deleted...)
	d.summary[Additions] = append(d.summary[Additions], added...)
}

// RecordLines diffs a text section without child grouping.
func (l *Ledger) RecordLines(section string, old, new LineSet) {
	l.recordLines(section, old, new, false)
}

// RecordInfo diffs an info section. Lines are grouped by the section's
// registered child arguments and groups change as a whole.
func (l *Ledger) RecordInfo(infoName string, old, new []domain.ArgLine) {
	childArgs := l.childArgs[strings.ToLower(infoName)]
	l.recordLines(InfoSection(infoName),
		GroupArgLines(old, childArgs), GroupArgLines(new, childArgs), len(childArgs) > 0)
}

func (l *Ledger) recordLines(section string, old, new LineSet, childAware bool) {
	deleted, added := Diff(old, new, childAware)
	if len(deleted) == 0 && len(added) == 0 {
		return
	}
	d := l.section(section)
	d.lines[Deletions] = append(d.lines[Deletions], deleted...)
	d.lines[Additions] = append(d.lines[Additions], added...)
}

// Points returns the recorded point changes of a scan layer.
func (l *Ledger) Points(scanType string, ct ChangeType) []orb.Point {
	if d, ok := l.scans[scanType]; ok {
		return d.points[ct]
	}
	return nil
}

// Segments returns the recorded line segment changes of a scan layer.
func (l *Ledger) Segments(scanType string, ct ChangeType) []domain.LineSegment {
	if d, ok := l.scans[scanType]; ok {
		return d.segments[ct]
	}
	return nil
}

// ScanSummary returns the recorded header line changes of a scan layer.
func (l *Ledger) ScanSummary(scanType string, ct ChangeType) LineSet {
	if d, ok := l.scans[scanType]; ok {
		return d.summary[ct]
	}
	return nil
}

// Lines returns the recorded changes of a text section.
func (l *Ledger) Lines(section string, ct ChangeType) LineSet {
	if d, ok := l.sections[strings.ToLower(section)]; ok {
		return d.lines[ct]
	}
	return nil
}

// Info returns the recorded changes of an info section.
func (l *Ledger) Info(infoName string, ct ChangeType) LineSet {
	return l.Lines(InfoSection(infoName), ct)
}

// ScanTypes returns the scan layers with recorded changes, sorted.
func (l *Ledger) ScanTypes() []string {
	types := make([]string, 0, len(l.scans))
	for t, d := range l.scans {
		if !d.empty() {
			types = append(types, t)
		}
	}
	slices.Sort(types)
	return types
}

// Sections returns the text sections with recorded changes, sorted by
// their lower-case key. Names keep the case of their first recording.
func (l *Ledger) Sections() []string {
	keys := make([]string, 0, len(l.sections))
	for k := range l.sections {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = l.sections[k].name
	}
	return names
}

// IsEmpty reports whether nothing was recorded.
func (l *Ledger) IsEmpty() bool {
	return len(l.ScanTypes()) == 0 && len(l.sections) == 0
}

// Reset drops every recorded change. Registered child arguments are kept.
func (l *Ledger) Reset() {
	l.scans = make(map[string]*scanDelta)
	l.sections = make(map[string]*lineDelta)
}
