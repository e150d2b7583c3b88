package changes

import (
	"slices"

	"github.com/paulmach/orb"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// ApplyMultiset removes deleted from base, counting duplicates, then
// appends added. The result is sorted by compare. Deletions missing from
// base are ignored.
func ApplyMultiset[T any](base, deleted, added []T, compare func(a, b T) int) []T {
	b := slices.Clone(base)
	del := slices.Clone(deleted)
	slices.SortFunc(b, compare)
	slices.SortFunc(del, compare)

	out := make([]T, 0, len(b)+len(added))
	i, j := 0, 0
	for i < len(b) {
		if j >= len(del) {
			out = append(out, b[i:]...)
			break
		}
		switch c := compare(b[i], del[j]); {
		case c < 0:
			out = append(out, b[i])
			i++
		case c > 0:
			j++
		default:
			i++
			j++
		}
	}
	out = append(out, added...)
	slices.SortFunc(out, compare)
	return out
}

// ApplyPoints replays the point changes of a scan layer onto base.
func (l *Ledger) ApplyPoints(scanType string, base []orb.Point) []orb.Point {
	return ApplyMultiset(base, l.Points(scanType, Deletions), l.Points(scanType, Additions), domain.ComparePoints)
}

// ApplySegments replays the line segment changes of a scan layer onto base.
func (l *Ledger) ApplySegments(scanType string, base []domain.LineSegment) []domain.LineSegment {
	return ApplyMultiset(base, l.Segments(scanType, Deletions), l.Segments(scanType, Additions), domain.CompareSegments)
}

// ApplyGroups replays a section's text changes onto base groups. A deleted
// group removes one base group with the same parent and child lines; added
// groups are appended in order.
func (l *Ledger) ApplyGroups(section string, base LineSet) LineSet {
	deleted := l.Lines(section, Deletions)
	used := make([]bool, len(deleted))
	out := make(LineSet, 0, len(base))
next:
	for _, g := range base {
		for k, d := range deleted {
			if !used[k] && slices.Equal(g.Lines(), d.Lines()) {
				used[k] = true
				continue next
			}
		}
		out = append(out, g)
	}
	return append(out, l.Lines(section, Additions).Clone()...)
}

// ApplyLines replays the changes of a section without child lines onto
// base lines.
func (l *Ledger) ApplyLines(section string, base []string) []string {
	return l.ApplyGroups(section, NewLineSet(base...)).Texts()
}
