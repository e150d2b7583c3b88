package mapdoc

import (
	"slices"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/custodia-labs/mapstore/internal/changes"
	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// ScanLayer holds the obstacle data of one sensor source.
//
// Bounds always equal the bounding box of the current points; line
// segments have their own bounds. Unsorted sequences are sorted the first
// time they are read.
type ScanLayer struct {
	scanType     string
	display      string
	points       []orb.Point
	lines        []domain.LineSegment
	resolution   int
	pointBounds  orb.Bound
	lineBounds   orb.Bound
	pointsSorted bool
	linesSorted  bool
	lastModified Stamp

	hasPointBounds bool
	hasLineBounds  bool
}

// NewScanLayer creates an empty layer for a scan source.
func NewScanLayer(scanType string) *ScanLayer {
	return &ScanLayer{scanType: scanType, pointsSorted: true, linesSorted: true, lastModified: touch()}
}

// ScanType returns the source name. The default source is "".
func (s *ScanLayer) ScanType() string { return s.scanType }

// Display returns the display label.
func (s *ScanLayer) Display() string { return s.display }

// Resolution returns the grid resolution, or 0 when unset.
func (s *ScanLayer) Resolution() int { return s.resolution }

// NumPoints returns the number of points.
func (s *ScanLayer) NumPoints() int { return len(s.points) }

// NumLines returns the number of line segments.
func (s *ScanLayer) NumLines() int { return len(s.lines) }

// PointBounds returns the bounding box of the points.
// The bound is zero when there are no points.
func (s *ScanLayer) PointBounds() orb.Bound { return s.pointBounds }

// LineBounds returns the bounding box of the line segments.
func (s *ScanLayer) LineBounds() orb.Bound { return s.lineBounds }

// LastModified returns the layer's modification stamp.
func (s *ScanLayer) LastModified() Stamp { return s.lastModified }

// Points returns the points in sorted order.
// The slice is owned by the layer and must not be modified.
func (s *ScanLayer) Points() []orb.Point {
	s.sortPoints()
	return s.points
}

// Lines returns the line segments in sorted order.
// The slice is owned by the layer and must not be modified.
func (s *ScanLayer) Lines() []domain.LineSegment {
	s.sortLines()
	return s.lines
}

func (s *ScanLayer) sortPoints() {
	if !s.pointsSorted {
		slices.SortFunc(s.points, domain.ComparePoints)
		s.pointsSorted = true
	}
}

func (s *ScanLayer) sortLines() {
	if !s.linesSorted {
		slices.SortFunc(s.lines, domain.CompareSegments)
		s.linesSorted = true
	}
}

// SetDisplay changes the display label.
func (s *ScanLayer) SetDisplay(label string, ledger *changes.Ledger) {
	if label == s.display {
		return
	}
	s.mutate(ledger, func() { s.display = label })
}

// SetResolution changes the grid resolution. Values below 1 unset it.
func (s *ScanLayer) SetResolution(resolution int, ledger *changes.Ledger) {
	if resolution < 0 {
		resolution = 0
	}
	if resolution == s.resolution {
		return
	}
	s.mutate(ledger, func() { s.resolution = resolution })
}

// SetPoints replaces the points. A nil slice clears them.
// sorted tells whether points is already in sorted order.
func (s *ScanLayer) SetPoints(points []orb.Point, sorted bool, ledger *changes.Ledger) {
	next := slices.Clone(points)
	if ledger != nil {
		deleted, added := changes.MultisetDiff(s.points, next, domain.ComparePoints)
		ledger.RecordPoints(s.scanType, deleted, added)
	}
	s.mutate(ledger, func() {
		s.points = next
		s.pointsSorted = sorted || len(next) < 2
		s.pointBounds = boundOfPoints(next)
		s.hasPointBounds = len(next) > 0
	})
}

// SetLines replaces the line segments. A nil slice clears them.
func (s *ScanLayer) SetLines(lines []domain.LineSegment, sorted bool, ledger *changes.Ledger) {
	next := slices.Clone(lines)
	if ledger != nil {
		deleted, added := changes.MultisetDiff(s.lines, next, domain.CompareSegments)
		ledger.RecordSegments(s.scanType, deleted, added)
	}
	s.mutate(ledger, func() {
		s.lines = next
		s.linesSorted = sorted || len(next) < 2
		s.lineBounds = boundOfLines(next)
		s.hasLineBounds = len(next) > 0
	})
}

// mutate applies fn and records the change of the header lines.
func (s *ScanLayer) mutate(ledger *changes.Ledger, fn func()) {
	var before changes.LineSet
	if ledger != nil {
		before = changes.NewLineSet(s.HeaderLines()...)
	}
	fn()
	s.lastModified = touch()
	if ledger != nil {
		ledger.RecordScanSummary(s.scanType, before, changes.NewLineSet(s.HeaderLines()...))
	}
}

// LoadPoint appends a point read from a file.
func (s *ScanLayer) LoadPoint(p orb.Point) {
	if !s.hasPointBounds {
		s.pointBounds = p.Bound()
		s.hasPointBounds = true
	} else {
		s.pointBounds = s.pointBounds.Extend(p)
	}
	if n := len(s.points); n > 0 && s.pointsSorted && domain.ComparePoints(s.points[n-1], p) > 0 {
		s.pointsSorted = false
	}
	s.points = append(s.points, p)
	s.lastModified = touch()
}

// LoadLine appends a line segment read from a file.
func (s *ScanLayer) LoadLine(seg domain.LineSegment) {
	if !s.hasLineBounds {
		s.lineBounds = seg.From.Bound().Extend(seg.To)
		s.hasLineBounds = true
	} else {
		s.lineBounds = s.lineBounds.Extend(seg.From).Extend(seg.To)
	}
	if n := len(s.lines); n > 0 && s.linesSorted && domain.CompareSegments(s.lines[n-1], seg) > 0 {
		s.linesSorted = false
	}
	s.lines = append(s.lines, seg)
	s.lastModified = touch()
}

// reservePoints grows capacity ahead of loading.
func (s *ScanLayer) reservePoints(n int) {
	if n > 0 {
		s.points = slices.Grow(s.points, n)
	}
}

func (s *ScanLayer) reserveLines(n int) {
	if n > 0 {
		s.lines = slices.Grow(s.lines, n)
	}
}

// Unite merges other into the layer. The finest positive resolution wins
// and bounds are united. With includeData the points and segments are
// appended too.
func (s *ScanLayer) Unite(other *ScanLayer, includeData bool) {
	if other.resolution > 0 && (s.resolution == 0 || other.resolution < s.resolution) {
		s.resolution = other.resolution
	}
	if len(other.points) > 0 {
		s.pointBounds = unite(s.pointBounds, s.hasPointBounds, other.pointBounds)
		s.hasPointBounds = true
	}
	if len(other.lines) > 0 {
		s.lineBounds = unite(s.lineBounds, s.hasLineBounds, other.lineBounds)
		s.hasLineBounds = true
	}
	if includeData {
		if len(other.points) > 0 {
			s.points = append(s.points, other.points...)
			s.pointsSorted = len(s.points) < 2
		}
		if len(other.lines) > 0 {
			s.lines = append(s.lines, other.lines...)
			s.linesSorted = len(s.lines) < 2
		}
	}
	s.lastModified = touch()
}

// Clear removes all data and header values except the scan type.
func (s *ScanLayer) Clear() {
	*s = ScanLayer{scanType: s.scanType, pointsSorted: true, linesSorted: true, lastModified: touch()}
}

// Clone returns a deep copy of the layer.
func (s *ScanLayer) Clone() *ScanLayer {
	c := *s
	c.points = slices.Clone(s.points)
	c.lines = slices.Clone(s.lines)
	return &c
}

// HeaderLines returns the layer's header lines as written to a file.
// Data is sorted first so the sort flags are true.
func (s *ScanLayer) HeaderLines() []string {
	s.sortPoints()
	s.sortLines()

	kw := func(k string) string { return domain.ScanKeyword(s.scanType, k) }
	var lines []string
	if s.display != "" {
		lines = append(lines, kw(domain.KeywordDisplay)+" "+quote(s.display))
	}
	if len(s.points) > 0 {
		lines = append(lines,
			kw(domain.KeywordMinPos)+" "+domain.FormatPoint(s.pointBounds.Min),
			kw(domain.KeywordMaxPos)+" "+domain.FormatPoint(s.pointBounds.Max),
			kw(domain.KeywordNumPoints)+" "+strconv.Itoa(len(s.points)),
			kw(domain.KeywordPointsAreSorted)+" "+strconv.FormatBool(s.pointsSorted),
		)
	}
	if s.resolution > 0 {
		lines = append(lines, kw(domain.KeywordResolution)+" "+strconv.Itoa(s.resolution))
	}
	if len(s.lines) > 0 {
		lines = append(lines,
			kw(domain.KeywordLineMinPos)+" "+domain.FormatPoint(s.lineBounds.Min),
			kw(domain.KeywordLineMaxPos)+" "+domain.FormatPoint(s.lineBounds.Max),
			kw(domain.KeywordNumLines)+" "+strconv.Itoa(len(s.lines)),
			kw(domain.KeywordLinesAreSorted)+" "+strconv.FormatBool(s.linesSorted),
		)
	}
	return lines
}

func unite(b orb.Bound, set bool, other orb.Bound) orb.Bound {
	if !set {
		return other
	}
	return b.Union(other)
}

func boundOfPoints(points []orb.Point) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{}
	}
	b := points[0].Bound()
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b
}

func boundOfLines(lines []domain.LineSegment) orb.Bound {
	if len(lines) == 0 {
		return orb.Bound{}
	}
	b := lines[0].From.Bound().Extend(lines[0].To)
	for _, l := range lines[1:] {
		b = b.Extend(l.From).Extend(l.To)
	}
	return b
}

// quote always wraps a token in double quotes.
func quote(tok string) string {
	q := domain.QuoteToken(tok)
	if len(q) > 0 && q[0] == '"' {
		return q
	}
	return `"` + q + `"`
}
