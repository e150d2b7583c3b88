// Package driving defines the interfaces that external actors (CLI, TUI,
// file watchers) use to drive the map store. These are the "driving" ports
// in hexagonal architecture terminology.
//
// Implementations of these interfaces live in internal/core/services.
package driving
