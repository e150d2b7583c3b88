package changes

import (
	"slices"
	"strings"
)

// MultisetDiff returns the elements of old missing from new (deleted) and
// the elements of new missing from old (added), counting duplicates.
// Both inputs are sorted copies; the caller's slices are not modified.
// Results come out in compare order.
func MultisetDiff[T any](old, new []T, compare func(a, b T) int) (deleted, added []T) {
	o := slices.Clone(old)
	n := slices.Clone(new)
	slices.SortFunc(o, compare)
	slices.SortFunc(n, compare)

	i, j := 0, 0
	for i < len(o) && j < len(n) {
		switch c := compare(o[i], n[j]); {
		case c < 0:
			deleted = append(deleted, o[i])
			i++
		case c > 0:
			added = append(added, n[j])
			j++
		default:
			i++
			j++
		}
	}
	deleted = append(deleted, o[i:]...)
	added = append(added, n[j:]...)
	return deleted, added
}

// Diff compares two line sets by parent text.
//
// Parents present on one side only are deleted or added together with
// their children. When childAware is set, a parent present on both sides
// whose sorted child lines differ is replaced as a whole: the old group is
// deleted and the new group added. A nil side counts as empty.
func Diff(old, new LineSet, childAware bool) (deleted, added LineSet) {
	o := old.Clone()
	n := new.Clone()
	o.Sort()
	n.Sort()

	i, j := 0, 0
	for i < len(o) && j < len(n) {
		switch c := strings.Compare(o[i].Parent.Text, n[j].Parent.Text); {
		case c < 0:
			deleted = append(deleted, o[i])
			i++
		case c > 0:
			added = append(added, n[j])
			j++
		default:
			if childAware && !slices.Equal(o[i].childTexts(), n[j].childTexts()) {
				deleted = append(deleted, o[i])
				added = append(added, n[j])
			}
			i++
			j++
		}
	}
	deleted = append(deleted, o[i:]...)
	added = append(added, n[j:]...)
	return deleted, added
}
