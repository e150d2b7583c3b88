// Package prometheus provides a Metrics adapter backed by a dedicated
// Prometheus registry. The registry is exposed over HTTP through Handler.
package prometheus
