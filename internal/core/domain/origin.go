package domain

import "github.com/paulmach/orb"

// KeywordOrigin introduces the GPS origin line.
const KeywordOrigin = "OriginLatLongAlt:"

// Origin is the GPS georeference of the map's local frame.
type Origin struct {
	// Has is false when the map is not georeferenced.
	Has bool

	// LatLong holds latitude in X and longitude in Y.
	LatLong orb.Point

	// Altitude is in metres.
	Altitude float64
}

// Line returns the file line, or "" when no origin is set.
func (o Origin) Line() string {
	if !o.Has {
		return ""
	}
	return KeywordOrigin + " " + FormatPoint(o.LatLong) + " " + FormatNumber(o.Altitude)
}

// ParseOrigin parses the arguments of an origin line.
func ParseOrigin(args []string) (Origin, bool) {
	if len(args) != 3 {
		return Origin{}, false
	}
	ll, ok := ParsePoint(args[:2])
	if !ok {
		return Origin{}, false
	}
	alt, ok := ParseNumber(args[2])
	if !ok {
		return Origin{}, false
	}
	return Origin{Has: true, LatLong: ll, Altitude: alt}, true
}
