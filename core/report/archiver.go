package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"skinledger/core/storage"
)

// Archiver persists finished run reports as JSON objects so past runs
// can be audited after the fact.
type Archiver struct {
	client storage.Client
	bucket string
	log    *zap.Logger
}

// NewArchiver creates an archiver writing into the configured bucket.
func NewArchiver(client storage.Client, bucket string, log *zap.Logger) *Archiver {
	return &Archiver{client: client, bucket: bucket, log: log}
}

// objectName keys archived reports by start date, then run id.
func objectName(r *RunReport) string {
	return fmt.Sprintf("reports/%s/%s.json", r.StartedAt.Format("2006-01-02"), r.RunID)
}

// Archive uploads the report, creating the bucket on first use.
func (a *Archiver) Archive(ctx context.Context, r *RunReport) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check report bucket: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create report bucket: %w", err)
		}
	}

	payload, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	name := objectName(r)
	_, err = a.client.PutObject(ctx, a.bucket, name,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("upload report %s: %w", name, err)
	}

	a.log.Info("run report archived",
		zap.String("run_id", r.RunID),
		zap.String("object", name))
	return nil
}
