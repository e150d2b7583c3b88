package domain

import (
	"time"
)

// Component identifies one part of a map document.
type Component string

// Document components tracked for change notification.
const (
	ComponentScan       Component = "scan"
	ComponentObjects    Component = "objects"
	ComponentInactive   Component = "inactive_objects"
	ComponentChildren   Component = "child_objects"
	ComponentInfo       Component = "info"
	ComponentSupplement Component = "supplement"
	ComponentRemainder  Component = "remainder"
)

// AllComponents lists every tracked component in a stable order.
func AllComponents() []Component {
	return []Component{
		ComponentScan, ComponentObjects, ComponentInactive, ComponentChildren,
		ComponentInfo, ComponentSupplement, ComponentRemainder,
	}
}

// CallbackID identifies a registered callback so it can be removed.
type CallbackID string

// ChangeReason says why a change notification fired.
type ChangeReason string

// Change reasons.
const (
	// ChangeReasonReload fires after a file was loaded and swapped in.
	ChangeReasonReload ChangeReason = "reload"

	// ChangeReasonMutation fires after in-memory edits were announced.
	ChangeReasonMutation ChangeReason = "mutation"
)

// MapChangedEvent describes one change notification.
type MapChangedEvent struct {
	// Reason says what triggered the notification.
	Reason ChangeReason

	// Components lists the parts whose timestamps advanced.
	Components []Component

	// Fingerprint is the live document's fingerprint after the change.
	Fingerprint Fingerprint

	// At is when the notification was raised.
	At time.Time
}

// Has reports whether the event covers the component.
func (e MapChangedEvent) Has(c Component) bool {
	for _, got := range e.Components {
		if got == c {
			return true
		}
	}
	return false
}

// WriteResult is handed to post-write callbacks.
type WriteResult struct {
	// Path is the destination file.
	Path string

	// Fingerprint is the written version. Zero when Err is set.
	Fingerprint Fingerprint

	// Err is the write failure, if any.
	Err error
}

// HandleState is the reload state of a map handle.
type HandleState int

// Map handle states.
const (
	// StateIdle means no file has been loaded.
	StateIdle HandleState = iota

	// StateLoading means a file is being read into the scratch document.
	StateLoading

	// StateLive means a loaded document is being served.
	StateLive
)

// String returns the state name.
func (s HandleState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLive:
		return "live"
	default:
		return "unknown"
	}
}
