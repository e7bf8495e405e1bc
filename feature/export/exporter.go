package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"temperature-consumer/core/reconcile"
	"temperature-consumer/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Snapshot is the document written to object storage.
type Snapshot struct {
	ExportedAt time.Time                    `json:"exported_at"`
	Sensors    int                          `json:"sensors"`
	Readings   map[string]reconcile.Reading `json:"readings"`
}

// Exporter writes store snapshots to a bucket.
type Exporter struct {
	client storage.Client
	bucket string
	region string
	object string
	store  *reconcile.Store
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	bucketReady bool
}

// NewExporter creates an exporter writing to bucket/object.
func NewExporter(client storage.Client, bucket, region, object string, store *reconcile.Store, logger *zap.Logger) *Exporter {
	return &Exporter{
		client: client,
		bucket: bucket,
		region: region,
		object: object,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Export writes the current snapshot and returns it.
// The bucket is created on the first successful call if it is missing.
func (e *Exporter) Export(ctx context.Context) (Snapshot, error) {
	if err := e.ensureBucket(ctx); err != nil {
		return Snapshot{}, err
	}

	readings := e.store.Snapshot()
	snap := Snapshot{
		ExportedAt: e.now().UTC(),
		Sensors:    len(readings),
		Readings:   readings,
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = e.client.PutObject(ctx, e.bucket, e.object, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to upload snapshot to %s/%s: %w", e.bucket, e.object, err)
	}

	e.logger.Info("Snapshot exported",
		zap.String("bucket", e.bucket),
		zap.String("object", e.object),
		zap.Int("sensors", snap.Sensors),
		zap.Int("bytes", len(body)),
	)
	return snap, nil
}

// Run exports every interval until ctx is cancelled.
// Failures are logged and retried on the next tick. Run does not export on
// shutdown; callers export once more after in-flight work has drained.
func (e *Exporter) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := e.Export(ctx); err != nil {
				e.logger.Error("Snapshot export failed", zap.Error(err))
			}
		}
	}
}

func (e *Exporter) ensureBucket(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bucketReady {
		return nil
	}
	if err := storage.EnsureBucket(ctx, e.client, e.bucket, e.region); err != nil {
		return err
	}
	e.bucketReady = true
	return nil
}
