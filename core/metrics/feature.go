package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Feature exposes the registry in the Prometheus text format.
// It implements the loader.Feature interface.
type Feature struct {
	metrics *Metrics
}

// NewFeature creates the metrics feature.
func NewFeature(m *Metrics) *Feature {
	return &Feature{metrics: m}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "metrics"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.metrics != nil
}

// Load registers GET /metrics.
func (f *Feature) Load(app fiber.Router) error {
	h := promhttp.HandlerFor(f.metrics.registry, promhttp.HandlerOpts{})
	app.Get("/metrics", adaptor.HTTPHandler(h))
	return nil
}
