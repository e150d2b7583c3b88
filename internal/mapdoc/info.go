package mapdoc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/mapstore/internal/changes"
	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// InfoRegistry maps info section names to their argument lines.
// Names compare case-insensitively and keep their registered spelling.
type InfoRegistry struct {
	names        []string
	index        map[string]int
	sections     [][]domain.ArgLine
	params       map[string]domain.ArgLine
	lastModified Stamp
}

// NewInfoRegistry creates a registry with the built-in sections followed
// by extraNames. Duplicate names are ignored.
func NewInfoRegistry(extraNames ...string) *InfoRegistry {
	r := &InfoRegistry{
		index:        make(map[string]int),
		params:       make(map[string]domain.ArgLine),
		lastModified: touch(),
	}
	for _, name := range append(domain.BuiltinInfoNames(), extraNames...) {
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, ok := r.index[key]; ok {
			continue
		}
		r.index[key] = len(r.names)
		r.names = append(r.names, name)
		r.sections = append(r.sections, nil)
	}
	return r
}

// Names returns the section names in write order.
func (r *InfoRegistry) Names() []string {
	return slices.Clone(r.names)
}

// Canonical returns the registered spelling of a section name.
func (r *InfoRegistry) Canonical(name string) (string, bool) {
	i, ok := r.index[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return r.names[i], true
}

// LastModified returns the registry's modification stamp.
func (r *InfoRegistry) LastModified() Stamp { return r.lastModified }

// Info returns a copy of the lines of a section.
// Returns domain.ErrNotFound for an unknown section.
func (r *InfoRegistry) Info(name string) ([]domain.ArgLine, error) {
	i, ok := r.index[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("info section %q: %w", name, domain.ErrNotFound)
	}
	return cloneArgLines(r.sections[i]), nil
}

// HasContent reports whether a known section holds any line.
func (r *InfoRegistry) HasContent(name string) bool {
	i, ok := r.index[strings.ToLower(name)]
	return ok && len(r.sections[i]) > 0
}

// ContainsFirstArg reports whether any line of any section starts with token.
func (r *InfoRegistry) ContainsFirstArg(token string) bool {
	for _, lines := range r.sections {
		for _, l := range lines {
			if strings.EqualFold(l.First(), token) {
				return true
			}
		}
	}
	return false
}

// SetInfo replaces the lines of a section. Lines are rewritten under the
// section's keyword. Returns domain.ErrNotFound for an unknown section.
func (r *InfoRegistry) SetInfo(name string, lines []domain.ArgLine, ledger *changes.Ledger) error {
	i, ok := r.index[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("info section %q: %w", name, domain.ErrNotFound)
	}
	canonical := r.names[i]
	next := make([]domain.ArgLine, len(lines))
	for j, l := range lines {
		next[j] = domain.NewArgLine(canonical, slices.Clone(l.Args)...)
	}
	if ledger != nil {
		ledger.RecordInfo(canonical, r.sections[i], next)
	}
	r.sections[i] = next
	if strings.EqualFold(canonical, domain.InfoCairn) {
		r.rebuildParams()
	}
	r.lastModified = touch()
	return nil
}

// Load appends a line read from a file to a known section.
func (r *InfoRegistry) Load(name string, args []string) bool {
	i, ok := r.index[strings.ToLower(name)]
	if !ok {
		return false
	}
	line := domain.NewArgLine(r.names[i], slices.Clone(args)...)
	r.sections[i] = append(r.sections[i], line)
	if strings.EqualFold(r.names[i], domain.InfoCairn) {
		r.cacheParams(line)
	}
	r.lastModified = touch()
	return true
}

// Params returns the CairnInfo parameter line of an object name.
func (r *InfoRegistry) Params(objectName string) (domain.ArgLine, bool) {
	l, ok := r.params[strings.ToLower(objectName)]
	return l, ok
}

func (r *InfoRegistry) cacheParams(line domain.ArgLine) {
	if len(line.Args) >= 2 && strings.EqualFold(line.Args[0], domain.ParamsToken) {
		r.params[strings.ToLower(line.Args[1])] = line
	}
}

func (r *InfoRegistry) rebuildParams() {
	clear(r.params)
	i := r.index[strings.ToLower(domain.InfoCairn)]
	for _, l := range r.sections[i] {
		r.cacheParams(l)
	}
}

// Lines returns the file lines of every section in write order.
func (r *InfoRegistry) Lines() []string {
	var out []string
	for _, lines := range r.sections {
		for _, l := range lines {
			out = append(out, l.String())
		}
	}
	return out
}

// Clear removes the lines of every section.
func (r *InfoRegistry) Clear() {
	for i := range r.sections {
		r.sections[i] = nil
	}
	clear(r.params)
	r.lastModified = touch()
}

// Clone returns a deep copy of the registry.
func (r *InfoRegistry) Clone() *InfoRegistry {
	c := &InfoRegistry{
		names:        slices.Clone(r.names),
		index:        make(map[string]int, len(r.index)),
		sections:     make([][]domain.ArgLine, len(r.sections)),
		params:       make(map[string]domain.ArgLine, len(r.params)),
		lastModified: r.lastModified,
	}
	for k, v := range r.index {
		c.index[k] = v
	}
	for i, lines := range r.sections {
		c.sections[i] = cloneArgLines(lines)
	}
	c.rebuildParams()
	return c
}

func cloneArgLines(lines []domain.ArgLine) []domain.ArgLine {
	if lines == nil {
		return nil
	}
	out := make([]domain.ArgLine, len(lines))
	for i, l := range lines {
		out[i] = domain.ArgLine{Keyword: l.Keyword, Args: slices.Clone(l.Args)}
	}
	return out
}
