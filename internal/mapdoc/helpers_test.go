package mapdoc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mapstore/internal/adapters/driven/linefile"
	"github.com/custodia-labs/mapstore/internal/core/domain"
)

func newTestDoc() *Document {
	return New(domain.DefaultStoreSettings(), linefile.NewFactory())
}

func writeMapFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "office.map")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// officeMap is a multi-source map in canonical form: reading and
// re-encoding it yields the same bytes.
const officeMap = `2D-Map-Ex2
Sources: Laser Sonar
Laser_Display: "Laser scan"
Laser_MinPos: 0 0
Laser_MaxPos: 100 200
Laser_NumPoints: 3
Laser_PointsAreSorted: true
Laser_Resolution: 20
Laser_LineMinPos: 0 0
Laser_LineMaxPos: 100 0
Laser_NumLines: 1
Laser_LinesAreSorted: true
Sonar_MinPos: -50 10
Sonar_MaxPos: -50 10
Sonar_NumPoints: 1
Sonar_PointsAreSorted: true
OriginLatLongAlt: 42.5 -71.25 12
MapInfo: Name "Office floor"
RouteInfo: Route Loop
RouteInfo: Goal A
RouteInfo: Goal B
CairnInfo: Params Dock1 speed=100
Cairn: ForbiddenArea "Stairs" FromTo -100 -100 100 100 0
Cairn: Goal "A" 100 200 90
Cairn: Goal "B" 0 0 0
_Cairn: Dock "Dock1" 50 50 180
ChildCairn: Goal "A child" 1 1 0
Legacy: keep this line
Laser_LINES
0 0 100 0
Laser_DATA
0 0
50 100
100 200
Sonar_DATA
-50 10
`
