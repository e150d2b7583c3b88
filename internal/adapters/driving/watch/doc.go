// Package watch reloads a map handle when its file changes on disk.
//
// The watcher observes the map file's directory rather than the file itself
// so that editors and writers that replace the file by rename keep being
// followed. Bursts of events are debounced and reloads are rate limited.
package watch
