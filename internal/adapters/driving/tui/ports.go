// Package tui provides the interactive map monitor, a driving adapter that
// shows the live map and follows its change notifications.
package tui

import (
	"github.com/custodia-labs/mapstore/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the monitor.
type Ports struct {
	// Map is the handle being monitored.
	Map driving.MapService
}

// NewPorts creates a Ports aggregate.
func NewPorts(m driving.MapService) *Ports {
	return &Ports{Map: m}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Map == nil {
		return ErrMissingMapService
	}
	return nil
}
