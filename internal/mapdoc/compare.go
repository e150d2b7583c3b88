package mapdoc

import (
	"slices"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// ChangedComponents returns the components whose content differs between
// two documents, in domain.AllComponents order. Fingerprints are ignored.
func ChangedComponents(a, b *Document) []domain.Component {
	var changed []domain.Component
	for _, c := range domain.AllComponents() {
		if !componentEqual(c, a, b) {
			changed = append(changed, c)
		}
	}
	return changed
}

func componentEqual(c domain.Component, a, b *Document) bool {
	switch c {
	case domain.ComponentScan:
		return scansEqual(a, b)
	case domain.ComponentObjects:
		return slices.Equal(a.objects.Lines(), b.objects.Lines())
	case domain.ComponentInactive:
		return slices.Equal(a.inactive.Lines(), b.inactive.Lines())
	case domain.ComponentChildren:
		return slices.Equal(a.children.Lines(), b.children.Lines())
	case domain.ComponentInfo:
		return slices.Equal(a.info.Lines(), b.info.Lines())
	case domain.ComponentSupplement:
		return slices.Equal(a.supplement.Lines(), b.supplement.Lines())
	case domain.ComponentRemainder:
		return slices.Equal(a.remainder, b.remainder)
	}
	return true
}

func scansEqual(a, b *Document) bool {
	if !slices.Equal(a.sources, b.sources) {
		return false
	}
	for _, t := range a.sources {
		la, lb := a.layers[t], b.layers[t]
		if !slices.Equal(la.HeaderLines(), lb.HeaderLines()) ||
			!slices.Equal(la.Points(), lb.Points()) ||
			!slices.Equal(la.Lines(), lb.Lines()) {
			return false
		}
	}
	return true
}

// Summary describes a scan layer without copying its data.
func (s *ScanLayer) Summary() domain.ScanSummary {
	return domain.ScanSummary{
		ScanType:    s.scanType,
		Display:     s.display,
		Resolution:  s.resolution,
		NumPoints:   len(s.points),
		NumLines:    len(s.lines),
		PointBounds: s.pointBounds,
		LineBounds:  s.lineBounds,
	}
}

// ScanSummaries describes every declared layer in source order, followed
// by the summary layer when there is more than one source.
func (d *Document) ScanSummaries() []domain.ScanSummary {
	out := make([]domain.ScanSummary, 0, len(d.sources)+1)
	for _, t := range d.sources {
		out = append(out, d.layers[t].Summary())
	}
	if len(d.sources) > 1 {
		out = append(out, d.summaryLayer().Summary())
	}
	return out
}
