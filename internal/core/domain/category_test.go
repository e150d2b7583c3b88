package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		tag      string
		expected Category
	}{
		{"2D-Map", Category2D},
		{"2D-Map-Ex", CategoryMultiSource},
		{"2d-map-ex2", CategoryExtended},
		{"2D-Map-Ex3", CategoryComposite},
		{"2D-Map-Ex4", CategoryGroup},
		{"3D-Map", CategoryUnknown},
		{"", CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCategory(tt.tag))
		})
	}
}

func TestCategory_StringRoundTrip(t *testing.T) {
	for _, c := range []Category{Category2D, CategoryMultiSource, CategoryExtended, CategoryComposite, CategoryGroup} {
		assert.True(t, c.IsValid())
		assert.Equal(t, c, ParseCategory(c.String()))
	}
	assert.False(t, CategoryUnknown.IsValid())
	assert.Equal(t, "Unknown", CategoryUnknown.String())
}

func TestCategory_Ordering(t *testing.T) {
	assert.Less(t, int(Category2D), int(CategoryMultiSource))
	assert.Less(t, int(CategoryMultiSource), int(CategoryExtended))
	assert.Less(t, int(CategoryExtended), int(CategoryGroup))
	assert.Equal(t, CategoryExtended, MaxCategory(CategoryExtended, Category2D))
	assert.Equal(t, CategoryGroup, MaxCategory(CategoryExtended, CategoryGroup))
}

func TestDefaultCategoryPolicy(t *testing.T) {
	p := DefaultCategoryPolicy()

	assert.Equal(t, []string{InfoGroup}, p.GroupInfoNames)
	assert.Equal(t, []string{InfoCairn, InfoCustom}, p.ExtendedInfoNames)
	assert.Equal(t, "ArgDesc", p.ArgDescToken)
}
