// Package temperature implements the temperature ingestion feature.
//
// It sits between the Kafka consumer and the reconcile store:
//
//  1. Decode turns a raw JSON payload into a reconcile.Reading, classifying
//     failures as syntax, missing_field or type_mismatch.
//  2. Dispatcher submits payloads to the worker pool and, on a worker,
//     decodes and merges them. A failed payload increments the failure counter,
//     is logged with the raw message and dropped without retry.
//  3. Observer receives every merge outcome from the store and writes the
//     log events and counters (created/updated at info, no-op at debug).
//
// # HTTP Endpoints
//
//   - GET /temperatures : latest reading of every sensor keyed by sensor id.
//   - GET /temperatures/sensor?longitude=&latitude=&elevation= : one sensor.
//   - GET /temperatures/stats : number of tracked sensors.
package temperature
