package services

import (
	"github.com/paulmach/orb"

	"github.com/custodia-labs/mapstore/internal/changes"
	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driving"
	"github.com/custodia-labs/mapstore/internal/mapdoc"
)

// Ensure lockedMap implements the interface.
var _ driving.LockedMap = (*lockedMap)(nil)

// lockedMap forwards to the live document of a handle whose lock the
// caller holds.
type lockedMap struct {
	h *MapHandle
}

func (m *lockedMap) doc() *mapdoc.Document { return m.h.live }

func (m *lockedMap) Document() *mapdoc.Document { return m.doc() }

func (m *lockedMap) Unlock() { m.h.mu.Unlock() }

func (m *lockedMap) Fingerprint() domain.Fingerprint { return m.doc().Fingerprint() }

func (m *lockedMap) Category() domain.Category { return m.doc().Category() }

func (m *lockedMap) Sources() []string { return m.doc().Sources() }

func (m *lockedMap) Scans() []domain.ScanSummary { return m.doc().ScanSummaries() }

func (m *lockedMap) Points(scanType string) ([]orb.Point, error) {
	return m.doc().Points(scanType)
}

func (m *lockedMap) Lines(scanType string) ([]domain.LineSegment, error) {
	return m.doc().Lines(scanType)
}

func (m *lockedMap) FindObject(name, objType string, includeHeadingVariant bool) (domain.MapObject, bool) {
	return m.doc().FindObject(name, objType, includeHeadingVariant)
}

func (m *lockedMap) Objects() []domain.MapObject { return m.doc().Objects().Objects() }

func (m *lockedMap) Info(section string) ([]domain.ArgLine, error) {
	return m.doc().Info().Info(section)
}

func (m *lockedMap) HasOrigin() bool { return m.doc().Supplement().HasOrigin() }

func (m *lockedMap) Origin() domain.Origin { return m.doc().Supplement().Origin() }

func (m *lockedMap) SetSources(scanTypes []string) error {
	return m.doc().SetSources(scanTypes)
}

func (m *lockedMap) SetPoints(scanType string, points []orb.Point, ledger *changes.Ledger) error {
	return m.doc().SetPoints(scanType, points, false, ledger)
}

func (m *lockedMap) SetLines(scanType string, lines []domain.LineSegment, ledger *changes.Ledger) error {
	return m.doc().SetLines(scanType, lines, false, ledger)
}

func (m *lockedMap) SetObjects(objects []domain.MapObject, ledger *changes.Ledger) {
	m.doc().Objects().Set(objects, false, ledger)
}

func (m *lockedMap) SetInfo(section string, lines []domain.ArgLine, ledger *changes.Ledger) error {
	return m.doc().Info().SetInfo(section, lines, ledger)
}

func (m *lockedMap) SetOrigin(origin domain.Origin, ledger *changes.Ledger) {
	m.doc().Supplement().SetOrigin(origin, ledger)
}
