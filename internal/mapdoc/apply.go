package mapdoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/mapstore/internal/changes"
	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/logger"
)

// ApplyChanges replays a ledger recorded on another copy of the map.
// Deletions are applied before additions. Returns domain.ErrUnknownScanType
// when the ledger names a source this document does not declare.
func (d *Document) ApplyChanges(ledger *changes.Ledger) error {
	for _, scanType := range ledger.ScanTypes() {
		layer, err := d.writableScan(scanType)
		if err != nil {
			return fmt.Errorf("apply scan %q: %w", scanType, domain.ErrUnknownScanType)
		}
		if len(ledger.Points(scanType, changes.Deletions))+len(ledger.Points(scanType, changes.Additions)) > 0 {
			layer.SetPoints(ledger.ApplyPoints(scanType, layer.Points()), true, nil)
		}
		if len(ledger.Segments(scanType, changes.Deletions))+len(ledger.Segments(scanType, changes.Additions)) > 0 {
			layer.SetLines(ledger.ApplySegments(scanType, layer.Lines()), true, nil)
		}
		d.applyScanHeader(layer, ledger)
	}

	for _, section := range ledger.Sections() {
		if name, ok := changes.InfoName(section); ok {
			if err := d.applyInfo(name, ledger); err != nil {
				return err
			}
			continue
		}
		switch strings.ToLower(section) {
		case changes.SectionObjects:
			d.applyObjects(d.objects, ledger)
		case changes.SectionInactive:
			d.applyObjects(d.inactive, ledger)
		case changes.SectionChildren:
			d.applyObjects(d.children, ledger)
		case changes.SectionSupplement:
			d.applySupplement(ledger)
		default:
			logger.Warn("ignoring changes of unknown section %q", section)
		}
	}
	return nil
}

// applyScanHeader replays header values that are not derived from data.
func (d *Document) applyScanHeader(layer *ScanLayer, ledger *changes.Ledger) {
	display := domain.ScanKeyword(layer.scanType, domain.KeywordDisplay)
	resolution := domain.ScanKeyword(layer.scanType, domain.KeywordResolution)

	for _, text := range ledger.ScanSummary(layer.scanType, changes.Deletions).Texts() {
		tokens := domain.SplitTokens(text)
		switch {
		case len(tokens) > 0 && strings.EqualFold(tokens[0], display):
			layer.SetDisplay("", nil)
		case len(tokens) > 0 && strings.EqualFold(tokens[0], resolution):
			layer.SetResolution(0, nil)
		}
	}
	for _, text := range ledger.ScanSummary(layer.scanType, changes.Additions).Texts() {
		tokens := domain.SplitTokens(text)
		if len(tokens) < 2 {
			continue
		}
		switch {
		case strings.EqualFold(tokens[0], display):
			layer.SetDisplay(tokens[1], nil)
		case strings.EqualFold(tokens[0], resolution):
			if n, err := strconv.Atoi(tokens[1]); err == nil {
				layer.SetResolution(n, nil)
			}
		}
	}
}

func (d *Document) applyObjects(reg *ObjectRegistry, ledger *changes.Ledger) {
	lines := ledger.ApplyLines(reg.section, reg.Lines())
	objects := make([]domain.MapObject, 0, len(lines))
	for _, text := range lines {
		tokens := domain.SplitTokens(text)
		if len(tokens) == 0 {
			continue
		}
		obj, ok := domain.ParseMapObject(tokens[1:])
		if !ok {
			logger.Warn("ignoring malformed object change %q", text)
			continue
		}
		objects = append(objects, obj)
	}
	reg.Set(objects, false, nil)
}

func (d *Document) applyInfo(name string, ledger *changes.Ledger) error {
	current, err := d.info.Info(name)
	if err != nil {
		return fmt.Errorf("apply info: %w", err)
	}
	groups := ledger.ApplyGroups(changes.InfoSection(name), changes.GroupArgLines(current, ledger.ChildArgs(name)))
	var lines []domain.ArgLine
	for _, text := range groups.Texts() {
		tokens := domain.SplitTokens(text)
		if len(tokens) == 0 {
			continue
		}
		lines = append(lines, domain.ArgLine{Keyword: tokens[0], Args: tokens[1:]})
	}
	return d.info.SetInfo(name, lines, nil)
}

func (d *Document) applySupplement(ledger *changes.Ledger) {
	added := ledger.Lines(changes.SectionSupplement, changes.Additions).Texts()
	if len(added) == 0 {
		if len(ledger.Lines(changes.SectionSupplement, changes.Deletions)) > 0 {
			d.supplement.SetOrigin(domain.Origin{}, nil)
		}
		return
	}
	tokens := domain.SplitTokens(added[len(added)-1])
	if len(tokens) == 0 {
		return
	}
	o, ok := domain.ParseOrigin(tokens[1:])
	if !ok {
		logger.Warn("ignoring malformed origin change %q", added[len(added)-1])
		return
	}
	d.supplement.SetOrigin(o, nil)
}
