// Package reconcile implements the last-writer-wins reconciliation store for
// sensor temperature readings.
//
// The store keeps exactly one Reading per SensorKey ("{longitude}|{latitude}|{elevation}")
// and decides for every incoming reading whether it replaces the stored one.
//
// # Replace Rule
//
// A reading for an unknown sensor is always inserted. For a known sensor the
// incoming reading replaces the stored one only when its timestamp is strictly
// greater AND its temperature differs. Everything else is a no-op:
//
//	stored:   ts=1704067200000 temp=2.22
//	incoming: ts=1704067299999 temp=11.22  -> updated
//	incoming: ts=1604067200000 temp=24.87  -> noop (older)
//	incoming: ts=1704067999999 temp=2.22   -> noop (same temperature)
//
// # Concurrency
//
// Each sensor has its own slot holding an atomic pointer to the latest reading.
// Merge loads the pointer, decides, and publishes the new reading with a
// compare-and-swap, retrying on conflict. This makes read/decide/write
// indivisible per key without a global lock, so unrelated sensors merge in
// parallel. Snapshot copies whole readings and never observes a partial write,
// but it is weakly consistent across keys rather than a point-in-time view.
//
// # Side Channel
//
// The store reports every merge to an Observer exactly once, after the swap.
// Logging and metrics hang off the observer, which keeps Merge total and free
// of error handling.
//
// # Usage
//
//	store := reconcile.NewStore(observer)
//	store.Merge(reconcile.Reading{Longitude: "46°04'53.6\"N", Latitude: "14°29'43.5\"E", Elevation: 296, Timestamp: 1704067200000, Temperature: 2.22})
//	snapshot := store.Snapshot()
package reconcile
