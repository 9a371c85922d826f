// Package metrics collects run statistics: Prometheus counters for the
// orchestrator and runtime memory snapshots for the details view.
package metrics
