package domain

import (
	"cmp"
	"strings"

	"github.com/paulmach/orb"
)

// Object keywords for the three object registries of a map.
const (
	KeywordObject         = "Cairn:"
	KeywordInactiveObject = "_Cairn:"
	KeywordChildObject    = "ChildCairn:"
)

// headingSuffix marks the heading variant of an object type.
const headingSuffix = "WithHeading"

// fromToToken separates the name from the region corners of an object line.
const fromToToken = "FromTo"

// MapObject is a named, typed point or rectangular region of interest.
type MapObject struct {
	// Type is the object type, e.g. Goal, Dock, ForbiddenArea.
	Type string

	// Name is the object's name. It may be empty.
	Name string

	// Pose is the object position. For regions only Th is written,
	// as the rotation of the rectangle.
	Pose Pose

	// HasFromTo marks a region or line object.
	HasFromTo bool

	// From is the first region corner.
	From orb.Point

	// To is the opposite region corner.
	To orb.Point

	// Params are free-form trailing arguments.
	Params []string
}

// BaseType strips the heading suffix from an object type.
func BaseType(objType string) string {
	if len(objType) > len(headingSuffix) &&
		strings.EqualFold(objType[len(objType)-len(headingSuffix):], headingSuffix) {
		return objType[:len(objType)-len(headingSuffix)]
	}
	return objType
}

// MatchesType reports whether the object is of the given type.
// An empty type matches every object. With includeHeadingVariant a type
// and its WithHeading sibling match each other.
func (o MapObject) MatchesType(objType string, includeHeadingVariant bool) bool {
	if objType == "" || strings.EqualFold(o.Type, objType) {
		return true
	}
	return includeHeadingVariant && strings.EqualFold(BaseType(o.Type), BaseType(objType))
}

// Line returns the canonical file line of the object under keyword.
func (o MapObject) Line(keyword string) string {
	var b strings.Builder
	b.WriteString(keyword)
	b.WriteByte(' ')
	b.WriteString(QuoteToken(o.Type))
	b.WriteByte(' ')
	b.WriteString(quoteAlways(o.Name))
	if o.HasFromTo {
		b.WriteString(" " + fromToToken + " ")
		b.WriteString(FormatPoint(o.From))
		b.WriteByte(' ')
		b.WriteString(FormatPoint(o.To))
		b.WriteByte(' ')
		b.WriteString(FormatNumber(o.Pose.Th))
	} else {
		b.WriteByte(' ')
		b.WriteString(FormatNumber(o.Pose.X))
		b.WriteByte(' ')
		b.WriteString(FormatNumber(o.Pose.Y))
		b.WriteByte(' ')
		b.WriteString(FormatNumber(o.Pose.Th))
	}
	if len(o.Params) > 0 {
		b.WriteByte(' ')
		b.WriteString(JoinTokens(o.Params))
	}
	return b.String()
}

// ParseMapObject parses the arguments of an object line (keyword removed).
func ParseMapObject(args []string) (MapObject, bool) {
	if len(args) < 5 {
		return MapObject{}, false
	}
	obj := MapObject{Type: args[0], Name: args[1]}
	rest := args[2:]
	if strings.EqualFold(rest[0], fromToToken) {
		if len(rest) < 6 {
			return MapObject{}, false
		}
		seg, ok := ParseSegment(rest[1:5])
		if !ok {
			return MapObject{}, false
		}
		th, ok := ParseNumber(rest[5])
		if !ok {
			return MapObject{}, false
		}
		obj.HasFromTo = true
		obj.From, obj.To = seg.From, seg.To
		obj.Pose = Pose{
			X:  (seg.From[0] + seg.To[0]) / 2,
			Y:  (seg.From[1] + seg.To[1]) / 2,
			Th: th,
		}
		rest = rest[6:]
	} else {
		var nums [3]float64
		for i := range nums {
			v, ok := ParseNumber(rest[i])
			if !ok {
				return MapObject{}, false
			}
			nums[i] = v
		}
		obj.Pose = Pose{X: nums[0], Y: nums[1], Th: nums[2]}
		rest = rest[3:]
	}
	if len(rest) > 0 {
		obj.Params = append([]string(nil), rest...)
	}
	return obj, true
}

// CompareObjects orders objects by type then name.
func CompareObjects(a, b MapObject) int {
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

func quoteAlways(tok string) string {
	q := QuoteToken(tok)
	if strings.HasPrefix(q, `"`) {
		return q
	}
	return `"` + q + `"`
}
