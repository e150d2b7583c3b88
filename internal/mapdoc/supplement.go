package mapdoc

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/custodia-labs/mapstore/internal/changes"
	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// altitudeTolerance is the smallest altitude change treated as a change.
const altitudeTolerance = 1e-9

// Supplement holds map data outside the scan, object and info components.
// Today that is the GPS origin of the map frame.
type Supplement struct {
	origin       domain.Origin
	lastModified Stamp
}

// NewSupplement creates an empty supplement.
func NewSupplement() *Supplement {
	return &Supplement{lastModified: touch()}
}

// HasOrigin reports whether the map is georeferenced.
func (s *Supplement) HasOrigin() bool { return s.origin.Has }

// Origin returns the GPS origin.
func (s *Supplement) Origin() domain.Origin { return s.origin }

// LastModified returns the supplement's modification stamp.
func (s *Supplement) LastModified() Stamp { return s.lastModified }

// SetOrigin replaces the GPS origin. Nothing happens unless the origin
// changed; altitudes closer than altitudeTolerance are equal.
func (s *Supplement) SetOrigin(origin domain.Origin, ledger *changes.Ledger) {
	if !origin.Has {
		origin = domain.Origin{}
	}
	if origin.Has == s.origin.Has && origin.LatLong == s.origin.LatLong &&
		math.Abs(origin.Altitude-s.origin.Altitude) <= altitudeTolerance {
		return
	}
	before := s.Lines()
	s.origin = origin
	s.lastModified = touch()
	if ledger != nil {
		ledger.RecordLines(changes.SectionSupplement, changes.NewLineSet(before...), changes.NewLineSet(s.Lines()...))
	}
}

// Lines returns the supplement's file lines.
func (s *Supplement) Lines() []string {
	if line := s.origin.Line(); line != "" {
		return []string{line}
	}
	return nil
}

// LocalToLatLong converts a map position in millimetres (X east, Y north)
// to latitude and longitude, held in X and Y of the result.
// Returns false when the map has no origin.
func (s *Supplement) LocalToLatLong(p orb.Point) (orb.Point, bool) {
	if !s.origin.Has {
		return orb.Point{}, false
	}
	distance := math.Hypot(p[0], p[1]) / 1000
	bearing := math.Atan2(p[0], p[1]) * 180 / math.Pi
	origin := orb.Point{s.origin.LatLong[1], s.origin.LatLong[0]}
	if distance == 0 {
		return s.origin.LatLong, true
	}
	ll := geo.PointAtBearingAndDistance(origin, bearing, distance)
	return orb.Point{ll.Lat(), ll.Lon()}, true
}

// Clear removes the origin.
func (s *Supplement) Clear() {
	s.origin = domain.Origin{}
	s.lastModified = touch()
}

// Clone returns a copy of the supplement.
func (s *Supplement) Clone() *Supplement {
	c := *s
	return &c
}
