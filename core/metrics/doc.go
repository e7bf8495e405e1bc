// Package metrics exposes Prometheus counters for the temperature consumer.
//
// # Collectors
//
//   - temperature_messages_success_total{type="success"}: messages that were
//     processed but did not change the store (no-op merges only).
//   - temperature_messages_failures_total{type="failure"}: decode or processing failures.
//   - temperature_merge_outcomes_total{outcome}: every merge by outcome.
//   - temperature_sensors_tracked: number of sensors in the store.
//
// Collectors live on a dedicated registry so tests can build as many Metrics
// instances as they need. The Feature serves the registry on GET /metrics.
package metrics
