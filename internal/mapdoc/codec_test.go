package mapdoc

import (
	"bytes"
	"context"
	"crypto/md5"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

func TestRead_OfficeMap(t *testing.T) {
	path := writeMapFile(t, officeMap)
	d := newTestDoc()

	require.NoError(t, d.Read(context.Background(), path))

	assert.Equal(t, domain.CategoryExtended, d.Category())
	assert.Equal(t, []string{"Laser", "Sonar"}, d.Sources())
	assert.True(t, d.TakeChanged())

	laser, err := d.Scan("Laser")
	require.NoError(t, err)
	assert.Equal(t, "Laser scan", laser.Display())
	assert.Equal(t, 20, laser.Resolution())
	assert.Equal(t, []orb.Point{{0, 0}, {50, 100}, {100, 200}}, laser.Points())
	assert.Equal(t, []domain.LineSegment{{From: orb.Point{0, 0}, To: orb.Point{100, 0}}}, laser.Lines())

	sonar, err := d.Scan("Sonar")
	require.NoError(t, err)
	assert.Equal(t, orb.Bound{Min: orb.Point{-50, 10}, Max: orb.Point{-50, 10}}, sonar.PointBounds())

	summary, err := d.Scan(domain.SummaryScanType)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.NumPoints())

	stairs, ok := d.FindObject("stairs", "ForbiddenArea", false)
	require.True(t, ok)
	assert.True(t, stairs.HasFromTo)
	assert.Equal(t, orb.Point{-100, -100}, stairs.From)
	assert.Equal(t, 3, d.Objects().Len())
	assert.Equal(t, 1, d.InactiveObjects().Len())
	assert.Equal(t, 1, d.ChildObjects().Len())

	route, err := d.Info().Info(domain.InfoRoute)
	require.NoError(t, err)
	assert.Len(t, route, 3)
	params, ok := d.Info().Params("Dock1")
	require.True(t, ok)
	assert.Equal(t, "speed=100", params.Args[2])

	assert.Equal(t, domain.Origin{Has: true, LatLong: orb.Point{42.5, -71.25}, Altitude: 12}, d.Supplement().Origin())
	assert.Equal(t, []string{"Legacy: keep this line"}, d.Remainder())

	fp := d.Fingerprint()
	assert.Equal(t, path, fp.FileName)
	assert.Equal(t, int64(len(officeMap)), fp.Size)
	assert.Equal(t, md5.Sum([]byte(officeMap)), fp.Checksum)
	assert.False(t, fp.ModTime.IsZero())
}

func TestEncode_CanonicalRoundTrip(t *testing.T) {
	d := newTestDoc()
	require.NoError(t, d.Read(context.Background(), writeMapFile(t, officeMap)))

	var buf bytes.Buffer
	require.NoError(t, d.Encode(&buf))

	assert.Equal(t, officeMap, buf.String())
	assert.Equal(t, d.Fingerprint().Checksum, d.CalculateChecksum())
}

func TestWrite_RoundTrip(t *testing.T) {
	d := newTestDoc()
	d.SetSources([]string{"Laser"})
	require.NoError(t, d.SetPoints("Laser", []orb.Point{{3, 3}, {1, 1}, {2, 2}}, false, nil))
	require.NoError(t, d.SetLines("Laser", []domain.LineSegment{{From: orb.Point{0, 0}, To: orb.Point{1, 1}}}, true, nil))
	d.Objects().Set([]domain.MapObject{
		{Type: "Goal", Name: "With space", Pose: domain.Pose{X: 1.5, Y: -2, Th: 90}, Params: []string{"a b"}},
	}, true, nil)
	require.NoError(t, d.Info().SetInfo(domain.InfoMap, []domain.ArgLine{{Args: []string{"Name", `say "hi"`}}}, nil))
	d.Supplement().SetOrigin(domain.Origin{Has: true, LatLong: orb.Point{1, 2}, Altitude: 3}, nil)
	d.SetRemainder([]string{"Custom: line"})

	path := filepath.Join(t.TempDir(), "out.map")
	require.NoError(t, d.Write(path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, md5.Sum(data), d.Fingerprint().Checksum)
	assert.Equal(t, int64(len(data)), d.Fingerprint().Size)

	r := newTestDoc()
	require.NoError(t, r.Read(context.Background(), path))

	assert.Equal(t, d.Sources(), r.Sources())
	for _, get := range []func(*Document) any{
		func(x *Document) any { p, _ := x.Points("Laser"); return p },
		func(x *Document) any { l, _ := x.Lines("Laser"); return l },
		func(x *Document) any { return x.Objects().Objects() },
		func(x *Document) any { i, _ := x.Info().Info(domain.InfoMap); return i },
		func(x *Document) any { return x.Supplement().Origin() },
		func(x *Document) any { return x.Remainder() },
		func(x *Document) any { return x.Category() },
	} {
		assert.Equal(t, get(d), get(r))
	}
	assert.True(t, d.Fingerprint().SameVersion(r.Fingerprint()))
}

func TestWrite_LineBreaksInTokensStayOnOneLine(t *testing.T) {
	d := newTestDoc()
	d.Objects().Set([]domain.MapObject{
		{Type: "Goal", Name: "a\r", Pose: domain.Pose{X: 1, Y: 2}, Params: []string{"x\ny"}},
	}, true, nil)
	require.NoError(t, d.Info().SetInfo(domain.InfoMap, []domain.ArgLine{{Args: []string{"Name", "line1\nDATA"}}}, nil))
	d.SetRemainder([]string{"Custom: line"})

	path := filepath.Join(t.TempDir(), "out.map")
	require.NoError(t, d.Write(path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\nDATA\n")
	assert.NotContains(t, string(data), "\r")

	r := newTestDoc()
	require.NoError(t, r.Read(context.Background(), path))

	assert.Equal(t, d.Objects().Objects(), r.Objects().Objects())
	want, _ := d.Info().Info(domain.InfoMap)
	got, _ := r.Info().Info(domain.InfoMap)
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"Custom: line"}, r.Remainder())
	pts, err := r.Points("")
	require.NoError(t, err)
	assert.Empty(t, pts)
}

func TestRead_SourceWithWhitespaceIsRejected(t *testing.T) {
	path := writeMapFile(t, "2D-Map\nSources: \"Front Laser\"\n")

	err := newTestDoc().Read(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRead_SourcesDifferingInCaseAreOneSource(t *testing.T) {
	path := writeMapFile(t, "2D-Map\nSources: Laser laser\nLaser_NumPoints: 1\nlaser_DATA\n5 5\n")
	d := newTestDoc()

	require.NoError(t, d.Read(context.Background(), path))

	assert.Equal(t, []string{"Laser"}, d.Sources())
	pts, err := d.Points("Laser")
	require.NoError(t, err)
	assert.Equal(t, []orb.Point{{5, 5}}, pts)
}

func TestWrite_ChecksumDeterministic(t *testing.T) {
	d := newTestDoc()
	require.NoError(t, d.Read(context.Background(), writeMapFile(t, officeMap)))
	dir := t.TempDir()

	require.NoError(t, d.Write(filepath.Join(dir, "a.map"), false))
	first := d.Fingerprint()
	require.NoError(t, d.Write(filepath.Join(dir, "b.map"), true))
	second := d.Fingerprint()

	assert.Equal(t, first.Checksum, second.Checksum)
	assert.Equal(t, first.Checksum, d.CalculateChecksum())
	a, _ := os.ReadFile(filepath.Join(dir, "a.map"))
	b, _ := os.ReadFile(filepath.Join(dir, "b.map"))
	assert.Equal(t, a, b)
}

func TestWrite_KeepsFileModeAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "office.map")
	require.NoError(t, os.WriteFile(path, []byte("2D-Map\n"), 0o600))

	require.NoError(t, newTestDoc().Write(path, true))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWrite_Callbacks(t *testing.T) {
	d := newTestDoc()
	var calls []string
	var results []domain.WriteResult
	d.AddPreWriteCallback("pre1", func(p string) { calls = append(calls, "pre1") })
	d.AddPostWriteCallback("post", func(r domain.WriteResult) {
		calls = append(calls, "post")
		results = append(results, r)
	})
	d.AddPreWriteCallback("pre2", func(p string) { calls = append(calls, "pre2") })

	path := filepath.Join(t.TempDir(), "ok.map")
	require.NoError(t, d.Write(path, true))

	missing := filepath.Join(t.TempDir(), "no", "such", "dir.map")
	err := d.Write(missing, true)
	require.Error(t, err)

	assert.Equal(t, []string{"pre1", "pre2", "post", "pre1", "pre2", "post"}, calls)
	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, path, results[0].Fingerprint.FileName)
	assert.Error(t, results[1].Err)
	assert.True(t, results[1].Fingerprint.IsZero())
	assert.Equal(t, path, d.Fingerprint().FileName)
}

func TestEmptyFileName(t *testing.T) {
	d := newTestDoc()
	assert.NoError(t, d.Read(context.Background(), ""))
	assert.NoError(t, d.Write("", true))

	settings := domain.DefaultStoreSettings()
	settings.AllowEmptyFileName = false
	strict := New(settings, nil)
	assert.ErrorIs(t, strict.Read(context.Background(), ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, strict.Write("", true), domain.ErrInvalidInput)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{"unknown category", "3D-Map\nDATA\n1 2\n", domain.ErrUnrecognizedCategory},
		{"empty file", "\n\n", domain.ErrUnrecognizedCategory},
		{"undeclared named source", "2D-Map-Ex\nSources: Laser\nSonar_DATA\n1 2\n", domain.ErrUnknownScanType},
		{"default data with named sources", "2D-Map-Ex\nSources: Laser\nDATA\n1 2\n", domain.ErrUnknownScanType},
		{"undeclared source inside data", "2D-Map\nDATA\n1 2\nFoo_LINES\n", domain.ErrUnknownScanType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDoc()
			require.NoError(t, d.Read(context.Background(), writeMapFile(t, officeMap)))
			d.TakeChanged()

			err := d.Read(context.Background(), writeMapFile(t, tt.content))

			assert.ErrorIs(t, err, tt.err)
			assert.True(t, d.HasDefaultSources())
			assert.Zero(t, d.Objects().Len())
			assert.Empty(t, d.Remainder())
			assert.True(t, d.Fingerprint().IsZero())
			assert.False(t, d.TakeChanged())
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	err := newTestDoc().Read(context.Background(), filepath.Join(t.TempDir(), "nope.map"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRead_SkipsMalformedLines(t *testing.T) {
	content := strings.Join([]string{
		"2D-Map",
		"Cairn: Goal \"Bad\" 1 two 0",
		"Cairn: Goal \"Good\" 1 2 0",
		"OriginLatLongAlt: 1 2",
		"Resolution: fine",
		"DATA",
		"1 2",
		"x y",
		"3",
		"Cairn: Goal \"Late\" 1 2 0",
		"4 5",
		"",
	}, "\n")
	d := newTestDoc()

	require.NoError(t, d.Read(context.Background(), writeMapFile(t, content)))

	assert.Equal(t, 1, d.Objects().Len())
	assert.False(t, d.Supplement().HasOrigin())
	pts, err := d.Points("")
	require.NoError(t, err)
	assert.Equal(t, []orb.Point{{1, 2}, {4, 5}}, pts)
}

func TestRead_RecognisesEveryCategory(t *testing.T) {
	for _, c := range []domain.Category{
		domain.Category2D, domain.CategoryMultiSource, domain.CategoryExtended,
		domain.CategoryComposite, domain.CategoryGroup,
	} {
		t.Run(c.String(), func(t *testing.T) {
			d := newTestDoc()
			require.NoError(t, d.Read(context.Background(), writeMapFile(t, c.String()+"\n")))

			assert.Equal(t, c, d.Category())

			var buf bytes.Buffer
			require.NoError(t, d.Encode(&buf))
			assert.Equal(t, c.String()+"\n", buf.String())
		})
	}
}

func TestRead_Cancelled(t *testing.T) {
	d := newTestDoc()
	d.Cancel()

	err := d.Read(context.Background(), writeMapFile(t, officeMap))

	assert.ErrorIs(t, err, domain.ErrReadCancelled)
	assert.Zero(t, d.Objects().Len())
}

func TestRead_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestDoc().Read(ctx, writeMapFile(t, officeMap))

	assert.ErrorIs(t, err, domain.ErrReadCancelled)
}

func TestRead_NoTokenizer(t *testing.T) {
	d := New(domain.DefaultStoreSettings(), nil)

	err := d.Read(context.Background(), writeMapFile(t, officeMap))

	assert.Error(t, err)
}
