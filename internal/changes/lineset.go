package changes

import (
	"slices"
	"strings"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// LineText is one text line with its position in the file.
// Number is zero when the line did not come from a file.
type LineText struct {
	Number int
	Text   string
}

// LineGroup is a parent line and the child lines that belong to it.
type LineGroup struct {
	Parent   LineText
	Children []LineText
}

// childTexts returns the sorted texts of the group's children.
func (g LineGroup) childTexts() []string {
	texts := make([]string, len(g.Children))
	for i, c := range g.Children {
		texts[i] = c.Text
	}
	slices.Sort(texts)
	return texts
}

// Lines returns the parent text followed by the child texts.
func (g LineGroup) Lines() []string {
	lines := make([]string, 0, 1+len(g.Children))
	lines = append(lines, g.Parent.Text)
	for _, c := range g.Children {
		lines = append(lines, c.Text)
	}
	return lines
}

// LineSet is an ordered collection of line groups.
type LineSet []LineGroup

// NewLineSet builds a set of childless groups from plain lines.
func NewLineSet(lines ...string) LineSet {
	set := make(LineSet, len(lines))
	for i, l := range lines {
		set[i] = LineGroup{Parent: LineText{Text: l}}
	}
	return set
}

// GroupArgLines groups info lines into parents and children.
// A line whose first argument is one of childArgs (case-insensitive) is
// attached to the closest preceding parent. A child without a parent
// becomes a parent of its own.
func GroupArgLines(lines []domain.ArgLine, childArgs []string) LineSet {
	var set LineSet
	for i, l := range lines {
		text := LineText{Number: i + 1, Text: l.String()}
		if len(set) > 0 && isChildArg(l.First(), childArgs) {
			last := &set[len(set)-1]
			last.Children = append(last.Children, text)
			continue
		}
		set = append(set, LineGroup{Parent: text})
	}
	return set
}

func isChildArg(first string, childArgs []string) bool {
	for _, a := range childArgs {
		if strings.EqualFold(a, first) {
			return true
		}
	}
	return false
}

// Sort orders the groups by parent text. Groups with equal parents keep
// their relative order.
func (s LineSet) Sort() {
	slices.SortStableFunc(s, func(a, b LineGroup) int {
		return strings.Compare(a.Parent.Text, b.Parent.Text)
	})
}

// Len returns the number of lines, parents and children together.
func (s LineSet) Len() int {
	n := 0
	for _, g := range s {
		n += 1 + len(g.Children)
	}
	return n
}

// Texts flattens the set into lines, each parent followed by its children.
func (s LineSet) Texts() []string {
	texts := make([]string, 0, s.Len())
	for _, g := range s {
		texts = append(texts, g.Lines()...)
	}
	return texts
}

// Clone returns a deep copy of the set.
func (s LineSet) Clone() LineSet {
	if s == nil {
		return nil
	}
	out := make(LineSet, len(s))
	for i, g := range s {
		out[i] = LineGroup{Parent: g.Parent, Children: slices.Clone(g.Children)}
	}
	return out
}
