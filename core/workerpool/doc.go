// Package workerpool provides a fixed-size pool of goroutines fed by a bounded queue.
//
// Submit blocks while the queue is full, which pushes backpressure back to the
// Kafka consumer instead of buffering without limit. A task that panics is
// recovered and reported so a single bad payload never takes down a worker.
// Close drains the queue before returning, so in-flight payloads are merged
// during a graceful shutdown.
package workerpool
