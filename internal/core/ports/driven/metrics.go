package driven

import (
	"time"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// Metrics records map handle activity.
type Metrics interface {
	// ObserveReload records one read attempt and its duration.
	ObserveReload(d time.Duration, err error)

	// ObserveWrite records one write attempt and its duration.
	ObserveWrite(d time.Duration, err error)

	// ObserveChange records one change notification.
	ObserveChange(event domain.MapChangedEvent)

	// SetPoints records the number of points of a scan layer.
	SetPoints(scanType string, n int)
}
