package export

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"temperature-consumer/core/reconcile"
	"temperature-consumer/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestExporter(client *mocks.Client, store *reconcile.Store) *Exporter {
	e := NewExporter(client, "temperatures", "eu-west-1", "snapshots/latest.json", store, zap.NewNop())
	e.now = func() time.Time { return fixedTime }
	return e
}

func TestExport(t *testing.T) {
	store := reconcile.NewStore(nil)
	a := reconcile.Reading{Longitude: "46°04'53.6\"N", Latitude: "14°29'43.5\"E", Elevation: 296, Timestamp: 1704067200000, Temperature: 2.22}
	store.Merge(a)

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "temperatures").Return(false, nil).Once()
	client.On("MakeBucket", mock.Anything, "temperatures", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil).Once()

	var uploaded []byte
	client.On("PutObject", mock.Anything, "temperatures", "snapshots/latest.json", mock.AnythingOfType("[]uint8"), mock.AnythingOfType("int64"), minio.PutObjectOptions{ContentType: "application/json"}).
		Run(func(args mock.Arguments) {
			uploaded = args.Get(3).([]byte)
			assert.Equal(t, int64(len(uploaded)), args.Get(4).(int64))
		}).
		Return(minio.UploadInfo{}, nil).Twice()

	e := newTestExporter(client, store)

	snap, err := e.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Sensors)
	assert.Equal(t, fixedTime, snap.ExportedAt)

	var got Snapshot
	require.NoError(t, json.Unmarshal(uploaded, &got))
	assert.Equal(t, snap, got)
	assert.Equal(t, a, got.Readings[a.Key()])

	// The bucket check runs only once.
	_, err = e.Export(context.Background())
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestExport_BucketFailureIsRetried(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "temperatures").Return(false, errors.New("unreachable")).Once()
	client.On("BucketExists", mock.Anything, "temperatures").Return(true, nil).Once()
	client.On("PutObject", mock.Anything, "temperatures", "snapshots/latest.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()

	e := newTestExporter(client, reconcile.NewStore(nil))

	_, err := e.Export(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")

	snap, err := e.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Sensors)
	client.AssertExpectations(t)
}

func TestExport_UploadFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "temperatures").Return(true, nil)
	client.On("PutObject", mock.Anything, "temperatures", "snapshots/latest.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))

	e := newTestExporter(client, reconcile.NewStore(nil))

	_, err := e.Export(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshots/latest.json")
}

func TestRun_StopsWithoutExport(t *testing.T) {
	client := new(mocks.Client)
	e := newTestExporter(client, reconcile.NewStore(nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, time.Hour) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
