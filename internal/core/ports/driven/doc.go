// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// The document model and the map handle depend on these interfaces, and
// infrastructure adapters implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - LineTokenizer: Splits a map file into keyword lines and dispatches them
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - FingerprintStore: Remembers the last seen version of each map file.
//     Without it, the status command cannot report drift.
//   - MapMirror: Publishes written map files to remote storage.
//   - Metrics: Records reload, write and change counters.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
