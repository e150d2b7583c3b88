// Package domain defines the core value types of the map store.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types shared by the document model, the
// change ledger and the adapters:
//
//   - Fingerprint: identity of one exact map file version
//   - LineSegment, Pose: geometry carried by scan layers and map objects
//   - MapObject: a named, typed point or region of interest ("cairn")
//   - ArgLine: one free-form metadata line of an info section
//   - Origin: the GPS georeference of the map frame
//   - Category: the file format capability tag
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import the Go
// standard library and the orb geometry primitives. All other packages
// depend on domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/paulmach/orb
//   - Cannot Import: Any internal/ package, any other external dependency
package domain
