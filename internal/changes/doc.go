// Package changes implements the line-level change ledger of the map store.
//
// A mutation of a map document is described as deletions followed by
// additions. Geometry is tracked as typed point and segment deltas per
// scan layer; everything else is tracked as text lines, grouped into
// parent lines with optional child lines so that a route and its steps
// change as one unit.
//
// Ledgers are filled by the document during a mutation and read by remote
// observers to resynchronise their own copy. A Ledger is not safe for
// concurrent use; the map handle's lock serialises access.
package changes
