package temperature

import (
	"temperature-consumer/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service provides read access to the store for the HTTP API.
type Service struct {
	store  *reconcile.Store
	logger *zap.Logger
	sf     singleflight.Group
}

// NewService creates a new temperature service.
func NewService(store *reconcile.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Snapshot returns the latest reading of every sensor.
// Concurrent callers share a single copy of the store.
func (s *Service) Snapshot() map[string]reconcile.Reading {
	v, _, _ := s.sf.Do("snapshot", func() (interface{}, error) {
		return s.store.Snapshot(), nil
	})
	return v.(map[string]reconcile.Reading)
}

// Reading returns the latest reading of one sensor.
func (s *Service) Reading(longitude, latitude string, elevation int) (reconcile.Reading, bool) {
	return s.store.Get(reconcile.SensorKey(longitude, latitude, elevation))
}

// Stats summarizes the store.
type Stats struct {
	Sensors int `json:"sensors"`
}

// Stats returns store statistics.
func (s *Service) Stats() Stats {
	return Stats{Sensors: s.store.Len()}
}
