// Package services implements the driving port interfaces.
// Services contain the core logic of the map store and orchestrate
// calls to driven ports (adapters).
//
//   - MapHandle: the live map document, its reloads, writes and change
//     notifications
//   - SettingsService: application settings over a ConfigStore
//   - VersionService: recorded map versions over a FingerprintStore
//
// Services never import adapter packages.
package services
