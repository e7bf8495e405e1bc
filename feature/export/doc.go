// Package export publishes snapshots of the reconciliation store to object
// storage.
//
// Exporter.Run exports on a ticker; the final export on shutdown is left to
// the caller so it can drain pending work first.
//
// The export is write-only: the service never reads a snapshot back, so a
// restart still begins with an empty store. A snapshot is a single JSON
// document overwritten in place:
//
//	{
//	  "exported_at": "2024-01-01T00:00:00Z",
//	  "sensors": 1,
//	  "readings": {"46°04'53.6\"N|14°29'43.5\"E|296": {...}}
//	}
package export
