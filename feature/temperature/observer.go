package temperature

import (
	"temperature-consumer/core/metrics"
	"temperature-consumer/core/reconcile"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Observer turns merge outcomes into log events and metrics.
// It implements reconcile.Observer.
type Observer struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewObserver creates an observer writing to logger and m.
func NewObserver(logger *zap.Logger, m *metrics.Metrics) *Observer {
	return &Observer{logger: logger, metrics: m}
}

// OnMerge logs the outcome. Only no-op outcomes count as succeeded messages.
func (o *Observer) OnMerge(outcome reconcile.Outcome, key string, r reconcile.Reading) {
	o.metrics.ObserveOutcome(string(outcome))

	switch outcome {
	case reconcile.OutcomeCreated:
		o.metrics.IncSensors()
		o.logger.Info("New temperature added for sensor",
			zap.String("sensorId", key),
			zap.Float32("temperature", r.Temperature),
			zap.Object("newMessage", readingMarshaler(r)),
		)
	case reconcile.OutcomeUpdated:
		o.logger.Info("Updated temperature for sensor",
			zap.String("sensorId", key),
			zap.Float32("temperature", r.Temperature),
			zap.Object("newMessage", readingMarshaler(r)),
		)
	default:
		// TODO: count created and updated as succeeded once product confirms the counter's meaning.
		o.metrics.IncSucceeded()
		if ce := o.logger.Check(zapcore.DebugLevel, "No update for sensor: temperature or timestamp did not change"); ce != nil {
			ce.Write(
				zap.String("sensorId", key),
				zap.Object("currentMessage", readingMarshaler(r)),
			)
		}
	}
}

type readingMarshaler reconcile.Reading

func (r readingMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("longitude", r.Longitude)
	enc.AddString("latitude", r.Latitude)
	enc.AddInt("elevation", r.Elevation)
	enc.AddInt64("timestamp", r.Timestamp)
	enc.AddFloat32("temperature", r.Temperature)
	return nil
}
