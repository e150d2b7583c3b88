package mapdoc

import (
	"slices"
	"strings"

	"github.com/custodia-labs/mapstore/internal/changes"
	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// ObjectRegistry is an ordered list of map objects written under one
// keyword. Objects are sorted by type then name on first read.
type ObjectRegistry struct {
	keyword      string
	section      string
	objects      []domain.MapObject
	sorted       bool
	lastModified Stamp
}

// NewObjectRegistry creates an empty registry. keyword is the file
// keyword and section the ledger section its changes are recorded under.
func NewObjectRegistry(keyword, section string) *ObjectRegistry {
	return &ObjectRegistry{keyword: keyword, section: section, sorted: true, lastModified: touch()}
}

// Keyword returns the file keyword of the registry.
func (r *ObjectRegistry) Keyword() string { return r.keyword }

// Section returns the ledger section of the registry.
func (r *ObjectRegistry) Section() string { return r.section }

// Len returns the number of objects.
func (r *ObjectRegistry) Len() int { return len(r.objects) }

// LastModified returns the registry's modification stamp.
func (r *ObjectRegistry) LastModified() Stamp { return r.lastModified }

// Objects returns a copy of the objects in sorted order.
func (r *ObjectRegistry) Objects() []domain.MapObject {
	return cloneObjects(r.sortedObjects())
}

func (r *ObjectRegistry) sortedObjects() []domain.MapObject {
	if !r.sorted {
		slices.SortStableFunc(r.objects, domain.CompareObjects)
		r.sorted = true
	}
	return r.objects
}

// Lines returns the canonical file lines of the objects.
func (r *ObjectRegistry) Lines() []string {
	objs := r.sortedObjects()
	lines := make([]string, len(objs))
	for i, o := range objs {
		lines[i] = o.Line(r.keyword)
	}
	return lines
}

// Set replaces the objects. A nil slice clears the registry.
func (r *ObjectRegistry) Set(objects []domain.MapObject, sorted bool, ledger *changes.Ledger) {
	var before []string
	if ledger != nil {
		before = r.Lines()
	}
	r.objects = cloneObjects(objects)
	r.sorted = sorted || len(r.objects) < 2
	r.lastModified = touch()
	if ledger != nil {
		ledger.RecordLines(r.section, changes.NewLineSet(before...), changes.NewLineSet(r.Lines()...))
	}
}

// Load appends an object read from a file.
func (r *ObjectRegistry) Load(obj domain.MapObject) {
	if n := len(r.objects); n > 0 && r.sorted && domain.CompareObjects(r.objects[n-1], obj) > 0 {
		r.sorted = false
	}
	r.objects = append(r.objects, obj)
	r.lastModified = touch()
}

// FindFirst returns the first object with the given name, compared
// case-insensitively. An empty objType matches any type.
func (r *ObjectRegistry) FindFirst(name, objType string, includeHeadingVariant bool) (domain.MapObject, bool) {
	for _, o := range r.sortedObjects() {
		if strings.EqualFold(o.Name, name) && o.MatchesType(objType, includeHeadingVariant) {
			o.Params = slices.Clone(o.Params)
			return o, true
		}
	}
	return domain.MapObject{}, false
}

// FindAllOfType returns every object of the given type.
func (r *ObjectRegistry) FindAllOfType(objType string, includeHeadingVariant bool) []domain.MapObject {
	var found []domain.MapObject
	for _, o := range r.sortedObjects() {
		if o.MatchesType(objType, includeHeadingVariant) {
			o.Params = slices.Clone(o.Params)
			found = append(found, o)
		}
	}
	return found
}

// Clear removes all objects.
func (r *ObjectRegistry) Clear() {
	r.objects = nil
	r.sorted = true
	r.lastModified = touch()
}

// Clone returns a deep copy of the registry.
func (r *ObjectRegistry) Clone() *ObjectRegistry {
	c := *r
	c.objects = cloneObjects(r.objects)
	return &c
}

func cloneObjects(objects []domain.MapObject) []domain.MapObject {
	if objects == nil {
		return nil
	}
	out := make([]domain.MapObject, len(objects))
	for i, o := range objects {
		o.Params = slices.Clone(o.Params)
		out[i] = o
	}
	return out
}
