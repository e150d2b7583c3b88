package domain

import (
	"cmp"
	"strconv"

	"github.com/paulmach/orb"
)

// LineSegment is one obstacle line of a scan layer.
type LineSegment struct {
	// From is the first end point.
	From orb.Point

	// To is the second end point.
	To orb.Point
}

// Pose is a position with a heading in degrees.
type Pose struct {
	X  float64
	Y  float64
	Th float64
}

// Point returns the position part of the pose.
func (p Pose) Point() orb.Point {
	return orb.Point{p.X, p.Y}
}

// ComparePoints orders points lexicographically, X first then Y.
func ComparePoints(a, b orb.Point) int {
	if c := cmp.Compare(a[0], b[0]); c != 0 {
		return c
	}
	return cmp.Compare(a[1], b[1])
}

// CompareSegments orders segments by their From point then their To point.
func CompareSegments(a, b LineSegment) int {
	if c := ComparePoints(a.From, b.From); c != 0 {
		return c
	}
	return ComparePoints(a.To, b.To)
}

// FormatNumber renders a coordinate the way the map file stores it.
// Integral values have no fractional part.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseNumber parses a coordinate written by FormatNumber.
func ParseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatPoint renders a point as "x y".
func FormatPoint(p orb.Point) string {
	return FormatNumber(p[0]) + " " + FormatNumber(p[1])
}

// FormatSegment renders a segment as "x1 y1 x2 y2".
func FormatSegment(s LineSegment) string {
	return FormatPoint(s.From) + " " + FormatPoint(s.To)
}

// ParsePoint parses the two tokens of a point line.
func ParsePoint(tokens []string) (orb.Point, bool) {
	if len(tokens) != 2 {
		return orb.Point{}, false
	}
	x, ok := ParseNumber(tokens[0])
	if !ok {
		return orb.Point{}, false
	}
	y, ok := ParseNumber(tokens[1])
	if !ok {
		return orb.Point{}, false
	}
	return orb.Point{x, y}, true
}

// ParseSegment parses the four tokens of a line segment.
func ParseSegment(tokens []string) (LineSegment, bool) {
	if len(tokens) != 4 {
		return LineSegment{}, false
	}
	from, ok := ParsePoint(tokens[:2])
	if !ok {
		return LineSegment{}, false
	}
	to, ok := ParsePoint(tokens[2:])
	if !ok {
		return LineSegment{}, false
	}
	return LineSegment{From: from, To: to}, true
}
