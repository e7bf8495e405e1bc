package temperature

import (
	"errors"
	"fmt"
	"strconv"

	"temperature-consumer/core/reconcile"

	"github.com/tidwall/gjson"
)

// ErrorKind classifies why a payload could not be decoded.
type ErrorKind string

const (
	// KindSyntax means the payload is not a JSON object.
	KindSyntax ErrorKind = "syntax"
	// KindMissingField means a required field is absent or null.
	KindMissingField ErrorKind = "missing_field"
	// KindTypeMismatch means a required field has the wrong JSON type.
	KindTypeMismatch ErrorKind = "type_mismatch"
)

// ErrInvalidPayload is wrapped by every DecodeError.
var ErrInvalidPayload = errors.New("invalid temperature payload")

// DecodeError describes a payload that could not be turned into a Reading.
type DecodeError struct {
	Kind  ErrorKind
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s: %v", ErrInvalidPayload, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s %q: %v", ErrInvalidPayload, e.Kind, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrInvalidPayload, e.Err}
}

// requiredFields lists the JSON fields of a Reading.
var requiredFields = []string{"longitude", "latitude", "elevation", "timestamp", "temperature"}

// Decode parses a JSON payload into a Reading.
// Unknown fields are ignored. Every field of the reading is required.
// A repeated field takes its last value.
func Decode(payload []byte) (reconcile.Reading, error) {
	if !gjson.ValidBytes(payload) {
		return reconcile.Reading{}, &DecodeError{Kind: KindSyntax, Err: errors.New("malformed json")}
	}
	doc := gjson.ParseBytes(payload)
	if !doc.IsObject() {
		return reconcile.Reading{}, &DecodeError{Kind: KindSyntax, Err: errors.New("payload is not an object")}
	}
	fields := collect(doc)

	var (
		r   reconcile.Reading
		err error
	)
	if r.Longitude, err = stringField(fields, "longitude"); err != nil {
		return reconcile.Reading{}, err
	}
	if r.Latitude, err = stringField(fields, "latitude"); err != nil {
		return reconcile.Reading{}, err
	}
	elevation, err := intField(fields, "elevation", strconv.IntSize)
	if err != nil {
		return reconcile.Reading{}, err
	}
	r.Elevation = int(elevation)
	if r.Timestamp, err = intField(fields, "timestamp", 64); err != nil {
		return reconcile.Reading{}, err
	}
	if r.Temperature, err = float32Field(fields, "temperature"); err != nil {
		return reconcile.Reading{}, err
	}
	return r, nil
}

// collect walks the top-level members once so that later duplicates
// overwrite earlier ones.
func collect(doc gjson.Result) map[string]gjson.Result {
	fields := make(map[string]gjson.Result, len(requiredFields))
	doc.ForEach(func(key, value gjson.Result) bool {
		for _, name := range requiredFields {
			if key.Str == name {
				fields[name] = value
				break
			}
		}
		return true
	})
	return fields
}

func field(fields map[string]gjson.Result, name string, want gjson.Type) (gjson.Result, error) {
	v, ok := fields[name]
	if !ok || v.Type == gjson.Null {
		return v, &DecodeError{Kind: KindMissingField, Field: name, Err: errors.New("required")}
	}
	if v.Type != want {
		return v, &DecodeError{Kind: KindTypeMismatch, Field: name, Err: fmt.Errorf("expected %s, got %s", want, v.Type)}
	}
	return v, nil
}

func stringField(fields map[string]gjson.Result, name string) (string, error) {
	v, err := field(fields, name, gjson.String)
	if err != nil {
		return "", err
	}
	return v.Str, nil
}

func intField(fields map[string]gjson.Result, name string, bits int) (int64, error) {
	v, err := field(fields, name, gjson.Number)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v.Raw, 10, bits)
	if err != nil {
		return 0, &DecodeError{Kind: KindTypeMismatch, Field: name, Err: fmt.Errorf("expected integer, got %s", v.Raw)}
	}
	return n, nil
}

func float32Field(fields map[string]gjson.Result, name string) (float32, error) {
	v, err := field(fields, name, gjson.Number)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v.Raw, 32)
	if err != nil {
		return 0, &DecodeError{Kind: KindTypeMismatch, Field: name, Err: err}
	}
	return float32(f), nil
}
