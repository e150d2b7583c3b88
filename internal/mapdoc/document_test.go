package mapdoc

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mapstore/internal/changes"
	"github.com/custodia-labs/mapstore/internal/core/domain"
)

func TestNew_DefaultSource(t *testing.T) {
	d := newTestDoc()

	assert.Equal(t, []string{domain.DefaultScanType}, d.Sources())
	assert.True(t, d.HasDefaultSources())
	assert.Equal(t, domain.Category2D, d.Category())
	assert.True(t, d.Fingerprint().IsZero())

	layer, err := d.Scan(domain.SummaryScanType)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultScanType, layer.ScanType())
}

func TestDocument_SetSources(t *testing.T) {
	d := newTestDoc()
	require.NoError(t, d.SetPoints("", []orb.Point{{1, 1}}, true, nil))

	d.SetSources([]string{"Laser", "Sonar", "Laser", domain.SummaryScanType})
	assert.Equal(t, []string{"Laser", "Sonar"}, d.Sources())

	_, err := d.Scan("")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, d.SetPoints("Laser", []orb.Point{{2, 2}}, true, nil))
	d.SetSources([]string{"Laser"})
	pts, err := d.Points("Laser")
	require.NoError(t, err)
	assert.Equal(t, []orb.Point{{2, 2}}, pts)

	d.SetSources(nil)
	assert.True(t, d.HasDefaultSources())
}

func TestDocument_SetSourcesRejectsUnwritableNames(t *testing.T) {
	for _, name := range []string{"Front Laser", "tab\tbed", `say"hi"`, `back\slash`, "new\nline"} {
		t.Run(name, func(t *testing.T) {
			d := newTestDoc()
			require.NoError(t, d.SetSources([]string{"Laser"}))

			err := d.SetSources([]string{"Sonar", name})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, []string{"Laser"}, d.Sources())
		})
	}
}

func TestDocument_SetSourcesFoldsCase(t *testing.T) {
	d := newTestDoc()

	require.NoError(t, d.SetSources([]string{"Laser", "laser", "LASER", "Sonar"}))
	assert.Equal(t, []string{"Laser", "Sonar"}, d.Sources())
}

func TestDocument_SummaryOfTwoSources(t *testing.T) {
	d := newTestDoc()
	d.SetSources([]string{"A", "B"})
	require.NoError(t, d.SetPoints("A", []orb.Point{{0, 0}, {10, 0}, {5, 5}}, false, nil))
	require.NoError(t, d.SetPoints("B", []orb.Point{{-10, 20}, {3, 3}}, false, nil))

	summary, err := d.Scan(domain.SummaryScanType)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.NumPoints())
	assert.Equal(t, orb.Bound{Min: orb.Point{-10, 0}, Max: orb.Point{10, 20}}, summary.PointBounds())

	ledger := changes.NewLedger()
	require.NoError(t, d.SetPoints("A", []orb.Point{{5, 5}}, true, ledger))

	assert.Len(t, ledger.Points("A", changes.Deletions), 2)
	assert.Empty(t, ledger.Points("A", changes.Additions))
	assert.Empty(t, ledger.Points("B", changes.Deletions))

	summary, err = d.Scan(domain.SummaryScanType)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.NumPoints())
	assert.Equal(t, orb.Bound{Min: orb.Point{-10, 3}, Max: orb.Point{5, 20}}, summary.PointBounds())
}

func TestDocument_SummaryIsReadOnly(t *testing.T) {
	d := newTestDoc()

	err := d.SetPoints(domain.SummaryScanType, nil, true, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = d.SetLines("Missing", nil, true, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocument_CategoryOnlyUpgrades(t *testing.T) {
	d := newTestDoc()
	assert.Equal(t, domain.Category2D, d.InferCategory())

	d.SetSources([]string{"Laser"})
	assert.Equal(t, domain.CategoryMultiSource, d.InferCategory())

	require.NoError(t, d.Info().SetInfo(domain.InfoCustom, []domain.ArgLine{{Args: []string{"x"}}}, nil))
	assert.Equal(t, domain.CategoryExtended, d.InferCategory())

	require.NoError(t, d.Info().SetInfo(domain.InfoGroup, []domain.ArgLine{{Args: []string{"g"}}}, nil))
	assert.Equal(t, domain.CategoryGroup, d.InferCategory())

	require.NoError(t, d.Info().SetInfo(domain.InfoGroup, nil, nil))
	require.NoError(t, d.Info().SetInfo(domain.InfoCustom, nil, nil))
	d.SetSources(nil)
	assert.Equal(t, domain.CategoryGroup, d.InferCategory())
}

func TestDocument_ArgDescMakesExtended(t *testing.T) {
	d := newTestDoc()
	require.NoError(t, d.Info().SetInfo(domain.InfoTask, []domain.ArgLine{{Args: []string{"ArgDesc", "speed"}}}, nil))

	assert.Equal(t, domain.CategoryExtended, d.InferCategory())
}

func TestDocument_CategoryPolicyIsConfigurable(t *testing.T) {
	settings := domain.DefaultStoreSettings()
	settings.ExtraInfoNames = []string{"ZoneInfo"}
	settings.Category.GroupInfoNames = []string{"ZoneInfo"}
	d := New(settings, nil)

	require.NoError(t, d.Info().SetInfo("ZoneInfo", []domain.ArgLine{{Args: []string{"z"}}}, nil))

	assert.Equal(t, domain.CategoryGroup, d.InferCategory())
}

func TestDocument_StampsAndChangedSince(t *testing.T) {
	d := newTestDoc()
	before := d.Stamps()

	d.Objects().Set([]domain.MapObject{{Type: "Goal", Name: "A"}}, true, nil)
	d.Supplement().SetOrigin(domain.Origin{Has: true}, nil)

	assert.Equal(t, []domain.Component{domain.ComponentObjects, domain.ComponentSupplement}, d.ChangedSince(before))
	assert.Empty(t, d.ChangedSince(d.Stamps()))
}

func TestDocument_Clone(t *testing.T) {
	d := newTestDoc()
	d.SetSources([]string{"Laser"})
	require.NoError(t, d.SetPoints("Laser", []orb.Point{{1, 1}}, true, nil))
	d.Objects().Set([]domain.MapObject{{Type: "Goal", Name: "A"}}, true, nil)
	d.SetRemainder([]string{"Extra: 1"})
	d.AddPostWriteCallback("cb", func(domain.WriteResult) {})

	c := d.Clone()
	require.NoError(t, c.SetPoints("Laser", nil, true, nil))
	c.Objects().Set(nil, true, nil)
	c.SetRemainder(nil)

	pts, err := d.Points("Laser")
	require.NoError(t, err)
	assert.Len(t, pts, 1)
	assert.Equal(t, 1, d.Objects().Len())
	assert.Equal(t, []string{"Extra: 1"}, d.Remainder())
	assert.Empty(t, c.hooks)
}

func TestDocument_WriteCallbacks(t *testing.T) {
	d := newTestDoc()
	d.AddPreWriteCallback("a", func(string) {})
	d.AddPostWriteCallback("b", func(domain.WriteResult) {})

	assert.True(t, d.RemoveWriteCallback("a"))
	assert.False(t, d.RemoveWriteCallback("a"))

	other := newTestDoc()
	other.CopyWriteCallbacks(d)
	assert.Len(t, other.hooks, 1)
	assert.Equal(t, "b", other.hooks[0].id)
}

func TestDocument_TakeChanged(t *testing.T) {
	d := newTestDoc()
	assert.False(t, d.TakeChanged())

	d.changed = true
	assert.True(t, d.TakeChanged())
	assert.False(t, d.TakeChanged())
}
