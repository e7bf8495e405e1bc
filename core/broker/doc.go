// Package broker wires the Kafka transport that feeds raw temperature payloads
// into the service.
//
// NewReader builds a kafka-go group reader for the configured topic
// ("temperatures") and group ("temperatures-group"). Consumer reads messages in
// a loop and hands every message value to a Handler; offsets are committed by
// the reader on the configured interval, so delivery is at-most-once per
// successful read and failed payloads are never redelivered.
//
// Read failures back off exponentially from one to ten seconds. Run returns
// when its context is cancelled and always closes the reader.
package broker
