package domain

import "strings"

// Category is the capability tag on the first line of a map file.
// Higher values can describe more content.
type Category int

// Known categories, lowest to highest capability.
const (
	// CategoryUnknown is not a valid map file.
	CategoryUnknown Category = iota

	// Category2D is a single-source map.
	Category2D

	// CategoryMultiSource declares more than one scan source, or a named one.
	CategoryMultiSource

	// CategoryExtended carries cairn or custom info, or argument descriptions.
	CategoryExtended

	// CategoryComposite is recognised on read but never inferred.
	CategoryComposite

	// CategoryGroup carries group info.
	CategoryGroup
)

var categoryNames = map[Category]string{
	Category2D:          "2D-Map",
	CategoryMultiSource: "2D-Map-Ex",
	CategoryExtended:    "2D-Map-Ex2",
	CategoryComposite:   "2D-Map-Ex3",
	CategoryGroup:       "2D-Map-Ex4",
}

// String returns the tag written to the file.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// IsValid returns true if the category is a known tag.
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory maps a file tag to its category.
func ParseCategory(tag string) Category {
	for c, name := range categoryNames {
		if strings.EqualFold(name, tag) {
			return c
		}
	}
	return CategoryUnknown
}

// MaxCategory returns the higher of two categories.
func MaxCategory(a, b Category) Category {
	if a > b {
		return a
	}
	return b
}

// CategoryPolicy names the content that promotes a map to a higher category.
// The names are configuration data, not code.
type CategoryPolicy struct {
	// GroupInfoNames are info sections whose presence means CategoryGroup.
	GroupInfoNames []string

	// ExtendedInfoNames are info sections whose presence means CategoryExtended.
	ExtendedInfoNames []string

	// ArgDescToken is the first argument marking an argument-description line
	// in any info section. Its presence means CategoryExtended.
	ArgDescToken string
}

// DefaultCategoryPolicy returns the stock category triggers.
func DefaultCategoryPolicy() CategoryPolicy {
	return CategoryPolicy{
		GroupInfoNames:    []string{InfoGroup},
		ExtendedInfoNames: []string{InfoCairn, InfoCustom},
		ArgDescToken:      "ArgDesc",
	}
}
