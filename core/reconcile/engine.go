package reconcile

// Decide returns the outcome of merging incoming against current.
// A nil current means the sensor has no stored reading yet.
//
// A stored reading is replaced only when incoming is strictly newer AND
// carries a different temperature. Equal or older timestamps never replace,
// and a newer reading with the same temperature is a no-op. Temperatures are
// compared with exact float32 equality, so 2.22 and 2.2200001 are the same.
func Decide(current *Reading, incoming Reading) Outcome {
	if current == nil {
		return OutcomeCreated
	}
	if incoming.Timestamp > current.Timestamp && incoming.Temperature != current.Temperature {
		return OutcomeUpdated
	}
	return OutcomeNoop
}
