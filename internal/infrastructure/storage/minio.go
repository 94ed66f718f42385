package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-actions/pkg/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient archives transcripts in an S3-compatible bucket
type MinIOClient struct {
	client *minio.Client
	bucket string
}

// NewMinIOClient creates a MinIO client and makes sure the bucket exists
func NewMinIOClient(ctx context.Context, cfg config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &MinIOClient{client: minioClient, bucket: cfg.BucketName}
	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return client, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// TranscriptKey is the object key of a meeting transcript
func TranscriptKey(workspaceID, meetingID uuid.UUID) string {
	return fmt.Sprintf("transcripts/%s/%s.txt", workspaceID, meetingID)
}

// PutTranscript stores a transcript and returns its object key
func (m *MinIOClient) PutTranscript(ctx context.Context, workspaceID, meetingID uuid.UUID, transcript string) (string, error) {
	key := TranscriptKey(workspaceID, meetingID)
	_, err := m.client.PutObject(ctx, m.bucket, key, strings.NewReader(transcript), int64(len(transcript)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload transcript: %w", err)
	}
	return key, nil
}

// PresignedURL returns a temporary download link for an object
func (m *MinIOClient) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return u.String(), nil
}
