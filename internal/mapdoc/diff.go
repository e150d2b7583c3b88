package mapdoc

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/mapstore/internal/changes"
	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// Diff returns a ledger holding the edits that turn old into new. Info
// sections are grouped by the child arguments of old's settings. Both
// documents must declare the same scan sources.
func Diff(old, new *Document) (*changes.Ledger, error) {
	if !slices.Equal(old.sources, new.sources) {
		return nil, fmt.Errorf("%w: scan sources differ", domain.ErrInvalidInput)
	}

	ledger := changes.NewLedger()
	for section, args := range old.settings.ChildArgs {
		ledger.RegisterChildArgs(section, args...)
	}

	scratch := old.Clone()
	for _, scanType := range new.sources {
		from, to := scratch.layers[scanType], new.layers[scanType]
		from.SetDisplay(to.display, ledger)
		from.SetResolution(to.resolution, ledger)
		from.SetPoints(to.Points(), false, ledger)
		from.SetLines(to.Lines(), false, ledger)
	}

	scratch.objects.Set(new.objects.Objects(), false, ledger)
	scratch.inactive.Set(new.inactive.Objects(), false, ledger)
	scratch.children.Set(new.children.Objects(), false, ledger)

	for _, name := range new.info.Names() {
		lines, err := new.info.Info(name)
		if err != nil {
			return nil, err
		}
		if err := scratch.info.SetInfo(name, lines, ledger); err != nil {
			return nil, fmt.Errorf("diff info: %w", err)
		}
	}

	scratch.supplement.SetOrigin(new.supplement.Origin(), ledger)
	return ledger, nil
}
