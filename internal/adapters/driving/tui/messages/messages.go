// Package messages defines the Bubbletea messages of the map monitor.
package messages

import (
	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// MapChanged carries a change notification from the map handle.
type MapChanged struct {
	Event domain.MapChangedEvent
}

// ReloadRequested asks the monitor to read the map file again.
type ReloadRequested struct{}

// ReloadCompleted reports the outcome of a reload started from the monitor.
type ReloadCompleted struct {
	Err error
}

// WatchResult reports a refresh attempt made by the file watcher.
type WatchResult struct {
	Reloaded bool
	Err      error
}

// ViewChanged is sent when switching between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies the active view.
type ViewType int

const (
	// ViewMonitor shows the live map and its event log.
	ViewMonitor ViewType = iota
	// ViewHelp lists the keybindings.
	ViewHelp
)

// String returns the view name.
func (v ViewType) String() string {
	switch v {
	case ViewMonitor:
		return "monitor"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the monitor should exit.
type Quit struct{}
