package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skinledger/core/report"
	"skinledger/core/storage/mocks"
)

func sampleReport() *report.RunReport {
	r := report.New("run-123")
	r.StartedAt = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	r.Inserted = 2
	r.Repriced = 5
	return r
}

func TestArchiveUploadsReport(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "run-reports").Return(true, nil)
	client.On("PutObject", mock.Anything, "run-reports",
		"reports/2025-03-14/run-123.json",
		mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	archiver := report.NewArchiver(client, "run-reports", zap.NewNop())
	err := archiver.Archive(context.Background(), sampleReport())

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestArchiveCreatesMissingBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "run-reports").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "run-reports", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "run-reports", mock.Anything,
		mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	archiver := report.NewArchiver(client, "run-reports", zap.NewNop())
	err := archiver.Archive(context.Background(), sampleReport())

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestArchiveUploadFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "run-reports").Return(true, nil)
	client.On("PutObject", mock.Anything, "run-reports", mock.Anything,
		mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Return(minio.UploadInfo{}, errors.New("connection refused"))

	archiver := report.NewArchiver(client, "run-reports", zap.NewNop())
	err := archiver.Archive(context.Background(), sampleReport())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload report")
}

func TestReportMutations(t *testing.T) {
	r := report.New("run-1")
	assert.Zero(t, r.Mutations())
	r.Inserted = 1
	r.Updated = 2
	r.Repriced = 3
	r.Skipped = 9
	assert.Equal(t, 6, r.Mutations())
}
