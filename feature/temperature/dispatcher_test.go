package temperature

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"temperature-consumer/core/metrics"
	"temperature-consumer/core/reconcile"
	"temperature-consumer/core/workerpool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sensorID = "46°04'53.6\"N|14°29'43.5\"E|296"

type fixture struct {
	store      *reconcile.Store
	metrics    *metrics.Metrics
	logs       *observer.ObservedLogs
	dispatcher *Dispatcher
}

func newFixture(t *testing.T, pool *workerpool.Pool) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)
	m := metrics.New()
	st := reconcile.NewStore(NewObserver(l, m))
	return &fixture{
		store:      st,
		metrics:    m,
		logs:       logs,
		dispatcher: NewDispatcher(st, pool, m, l),
	}
}

// counter returns the value of the first series of the named metric family.
func counter(t *testing.T, m *metrics.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range f.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if g := metric.GetGauge(); g != nil {
				total += g.GetValue()
			}
		}
		return total
	}
	return 0
}

func payload(ts int64, temp string) []byte {
	return []byte(fmt.Sprintf(`{"longitude": "46°04'53.6\"N", "latitude": "14°29'43.5\"E", "elevation": 296, "timestamp": %d, "temperature": %s}`, ts, temp))
}

func TestHandle_NewSensorIsAdded(t *testing.T) {
	f := newFixture(t, nil)

	outcome, err := f.dispatcher.Handle([]byte(sourcePayload))
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeCreated, outcome)

	got, ok := f.store.Snapshot()[sensorID]
	require.True(t, ok)
	assert.Equal(t, float32(2.22), got.Temperature)
	assert.Equal(t, int64(1704067200000), got.Timestamp)

	entries := f.logs.FilterMessage("New temperature added for sensor").AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, sensorID, entries[0].ContextMap()["sensorId"])

	// Created outcomes do not count as succeeded messages.
	assert.Equal(t, 0.0, counter(t, f.metrics, "temperature_messages_success_total"))
	assert.Equal(t, 1.0, counter(t, f.metrics, "temperature_sensors_tracked"))
}

func TestHandle_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		payload     []byte
		outcome     reconcile.Outcome
		temperature float32
		timestamp   int64
		message     string
		level       zapcore.Level
		succeeded   float64
	}{
		{"NewerDifferentTemperature", payload(1704067299999, "11.22"), reconcile.OutcomeUpdated, 11.22, 1704067299999, "Updated temperature for sensor", zapcore.InfoLevel, 0},
		{"OlderDifferentTemperature", payload(1604067200000, "24.87"), reconcile.OutcomeNoop, 2.22, 1704067200000, "No update for sensor: temperature or timestamp did not change", zapcore.DebugLevel, 1},
		{"NewerSameTemperature", payload(1704067999999, "2.22"), reconcile.OutcomeNoop, 2.22, 1704067200000, "No update for sensor: temperature or timestamp did not change", zapcore.DebugLevel, 1},
		{"NewerEqualAtSinglePrecision", payload(1704067299999, "2.2200001"), reconcile.OutcomeNoop, 2.22, 1704067200000, "No update for sensor: temperature or timestamp did not change", zapcore.DebugLevel, 1},
		{"NewerNextSinglePrecisionValue", payload(1704067299999, "2.2200003"), reconcile.OutcomeUpdated, 2.2200003, 1704067299999, "Updated temperature for sensor", zapcore.InfoLevel, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			_, err := f.dispatcher.Handle([]byte(sourcePayload))
			require.NoError(t, err)

			outcome, err := f.dispatcher.Handle(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, outcome)

			got, ok := f.store.Get(sensorID)
			require.True(t, ok)
			assert.Equal(t, tt.temperature, got.Temperature)
			assert.Equal(t, tt.timestamp, got.Timestamp)

			entries := f.logs.FilterMessage(tt.message).AllUntimed()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.Equal(t, tt.succeeded, counter(t, f.metrics, "temperature_messages_success_total"))
			assert.Equal(t, 0.0, counter(t, f.metrics, "temperature_messages_failures_total"))
		})
	}
}

func TestHandle_DecodeFailureIsIsolated(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.dispatcher.Handle([]byte(sourcePayload))
	require.NoError(t, err)
	before := f.store.Snapshot()

	raw := []byte(`{"longitude": "46", "elevation": "high"}`)
	outcome, err := f.dispatcher.Handle(raw)
	require.Error(t, err)
	assert.Empty(t, outcome)

	assert.Equal(t, before, f.store.Snapshot())
	assert.Equal(t, 1.0, counter(t, f.metrics, "temperature_messages_failures_total"))
	assert.Equal(t, 0.0, counter(t, f.metrics, "temperature_messages_success_total"))

	entries := f.logs.FilterMessage("Error processing message").AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	ctx := entries[0].ContextMap()
	assert.Equal(t, string(raw), ctx["rawMessage"])
	assert.Equal(t, "missing_field", ctx["exception"])

	// The next valid payload is processed normally.
	outcome, err = f.dispatcher.Handle(payload(1704067299999, "11.22"))
	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeUpdated, outcome)
	assert.Equal(t, 1.0, counter(t, f.metrics, "temperature_messages_failures_total"))
}

func TestSubmit_ConcurrentPayloads(t *testing.T) {
	pool, err := workerpool.New(workerpool.Config{Threads: 8, QueueSize: 16}, zap.NewNop(), nil)
	require.NoError(t, err)
	f := newFixture(t, pool)

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, f.dispatcher.Submit(context.Background(), payload(int64(1000+i), fmt.Sprintf("%d.5", i))))
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, f.dispatcher.Submit(context.Background(), []byte("not json")))
	}()
	wg.Wait()
	pool.Close()

	got, ok := f.store.Get(sensorID)
	require.True(t, ok)
	assert.Equal(t, int64(1000+n-1), got.Timestamp)
	assert.Equal(t, float32(n-1)+0.5, got.Temperature)
	assert.Equal(t, 1.0, counter(t, f.metrics, "temperature_messages_failures_total"))
	assert.Equal(t, float64(n), counter(t, f.metrics, "temperature_merge_outcomes_total"))
}

func TestSubmit_WithoutPool(t *testing.T) {
	f := newFixture(t, nil)
	assert.Error(t, f.dispatcher.Submit(context.Background(), []byte(sourcePayload)))
}
