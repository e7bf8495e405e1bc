package reconcile

import "strconv"

// Reading is a single temperature observation reported by a sensor.
// Longitude, Latitude and Elevation together identify the sensor.
type Reading struct {
	// Longitude is the sensor longitude exactly as received (e.g. 46°04'53.6"N).
	Longitude string `json:"longitude"`

	// Latitude is the sensor latitude exactly as received.
	Latitude string `json:"latitude"`

	// Elevation is the sensor elevation in meters.
	Elevation int `json:"elevation"`

	// Timestamp is the caller-supplied observation time in epoch milliseconds.
	// It is never checked against the wall clock.
	Timestamp int64 `json:"timestamp"`

	// Temperature is the observed temperature in single precision.
	// Equality checks run at this width.
	Temperature float32 `json:"temperature"`
}

// Key returns the SensorKey of the reading.
func (r Reading) Key() string {
	return SensorKey(r.Longitude, r.Latitude, r.Elevation)
}

// SensorKey builds the identity string "{longitude}|{latitude}|{elevation}".
// The strings are used byte for byte, so two spellings of the same physical
// location are two different sensors.
func SensorKey(longitude, latitude string, elevation int) string {
	return longitude + "|" + latitude + "|" + strconv.Itoa(elevation)
}

// Outcome is the result of merging a reading into the store.
type Outcome string

const (
	// OutcomeCreated means the sensor was unknown and the reading was inserted.
	OutcomeCreated Outcome = "created"
	// OutcomeUpdated means the reading replaced the stored one.
	OutcomeUpdated Outcome = "updated"
	// OutcomeNoop means the stored reading was kept.
	OutcomeNoop Outcome = "noop"
)

// Observer receives exactly one notification per merge.
//
// For OutcomeCreated and OutcomeUpdated, reading is the newly stored reading.
// For OutcomeNoop, reading is the unchanged current reading.
// OnMerge is called outside of any store synchronization, so it may be slow
// without blocking other merges on the same key.
type Observer interface {
	OnMerge(outcome Outcome, key string, reading Reading)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(outcome Outcome, key string, reading Reading)

// OnMerge calls f.
func (f ObserverFunc) OnMerge(outcome Outcome, key string, reading Reading) {
	f(outcome, key, reading)
}

type nopObserver struct{}

func (nopObserver) OnMerge(Outcome, string, Reading) {}
