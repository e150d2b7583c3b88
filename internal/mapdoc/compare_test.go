package mapdoc

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

func TestChangedComponents(t *testing.T) {
	a := newTestDoc()
	require.NoError(t, a.Read(context.Background(), writeMapFile(t, officeMap)))
	b := a.Clone()

	assert.Empty(t, ChangedComponents(a, b))

	require.NoError(t, b.SetPoints("Sonar", []orb.Point{{1, 1}}, true, nil))
	b.SetRemainder(nil)
	b.ChildObjects().Set(nil, true, nil)

	assert.Equal(t, []domain.Component{
		domain.ComponentScan, domain.ComponentChildren, domain.ComponentRemainder,
	}, ChangedComponents(a, b))
}

func TestChangedComponents_Sources(t *testing.T) {
	a := newTestDoc()
	b := newTestDoc()
	b.SetSources([]string{"Laser"})

	assert.Equal(t, []domain.Component{domain.ComponentScan}, ChangedComponents(a, b))
}

func TestScanSummaries(t *testing.T) {
	d := newTestDoc()
	require.NoError(t, d.Read(context.Background(), writeMapFile(t, officeMap)))

	got := d.ScanSummaries()

	require.Len(t, got, 3)
	assert.Equal(t, "Laser", got[0].ScanType)
	assert.Equal(t, "Laser scan", got[0].Display)
	assert.Equal(t, 3, got[0].NumPoints)
	assert.Equal(t, 1, got[0].NumLines)
	assert.Equal(t, 20, got[0].Resolution)
	assert.Equal(t, "Sonar", got[1].ScanType)
	assert.Equal(t, domain.SummaryScanType, got[2].ScanType)
	assert.Equal(t, 4, got[2].NumPoints)
	assert.Equal(t, orb.Bound{Min: orb.Point{-50, 0}, Max: orb.Point{100, 200}}, got[2].PointBounds)
}

func TestScanSummaries_DefaultSource(t *testing.T) {
	got := newTestDoc().ScanSummaries()

	require.Len(t, got, 1)
	assert.Equal(t, domain.DefaultScanType, got[0].ScanType)
}
