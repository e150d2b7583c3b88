// Package mapdoc is the in-memory map document and its file codec.
//
// A Document aggregates four independently usable components:
//
//   - ScanLayer: obstacle points and line segments of one sensor source
//   - ObjectRegistry: named points and regions of interest
//   - InfoRegistry: free-form metadata sections
//   - Supplement: the GPS origin of the map frame
//
// Every mutating call takes an optional *changes.Ledger. When given, the
// call records what it removed and added so remote observers can replay
// the edit on their own copy.
//
// Components carry a strictly increasing modification stamp. The map
// handle compares stamps to decide whether change callbacks must run.
//
// A Document is not safe for concurrent use. services.MapHandle wraps it
// with a mutex.
package mapdoc
