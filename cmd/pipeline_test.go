package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"temperature-consumer/core/metrics"
	"temperature-consumer/core/reconcile"
	"temperature-consumer/core/storage/mocks"
	"temperature-consumer/core/workerpool"
	"temperature-consumer/feature/export"
	"temperature-consumer/feature/temperature"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPipeline(t *testing.T) *pipeline {
	t.Helper()
	logg := zap.NewNop()
	m := metrics.New()
	store := reconcile.NewStore(temperature.NewObserver(logg, m))
	pool, err := workerpool.New(workerpool.Config{Threads: 1, QueueSize: 64}, logg, nil)
	require.NoError(t, err)
	return &pipeline{
		logger:     logg,
		metrics:    m,
		store:      store,
		pool:       pool,
		dispatcher: temperature.NewDispatcher(store, pool, m, logg),
	}
}

func TestDrain_ExportsQueuedPayloads(t *testing.T) {
	p := newTestPipeline(t)

	// Hold the only worker so every payload below is still queued at drain time.
	started, release := make(chan struct{}), make(chan struct{})
	require.NoError(t, p.pool.Submit(context.Background(), func() {
		close(started)
		<-release
	}))
	<-started

	const n = 20
	for i := 0; i < n; i++ {
		payload := fmt.Sprintf(`{"longitude":"lon-%d","latitude":"lat","elevation":1,"timestamp":1,"temperature":%d}`, i, i)
		require.NoError(t, p.dispatcher.Submit(context.Background(), []byte(payload)))
	}
	assert.Equal(t, n, p.pool.Pending())

	var uploaded []byte
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "temperatures").Return(true, nil)
	client.On("PutObject", mock.Anything, "temperatures", "snapshots/latest.json", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { uploaded = args.Get(3).([]byte) }).
		Return(minio.UploadInfo{}, nil).Once()
	exp := export.NewExporter(client, "temperatures", "", "snapshots/latest.json", p.store, p.logger)

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	require.NoError(t, p.drain(context.Background(), exp))

	var snap export.Snapshot
	require.NoError(t, json.Unmarshal(uploaded, &snap))
	assert.Equal(t, n, snap.Sensors)
	assert.Len(t, snap.Readings, n)
	client.AssertExpectations(t)
}

func TestDrain_WithoutExporter(t *testing.T) {
	p := newTestPipeline(t)
	require.NoError(t, p.dispatcher.Submit(context.Background(), []byte(`{"longitude":"a","latitude":"b","elevation":1,"timestamp":1,"temperature":1}`)))

	require.NoError(t, p.drain(context.Background(), nil))
	assert.Equal(t, 1, p.store.Len())
}
