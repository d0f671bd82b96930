package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	awsconfig "name-swiper/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BackupService snapshots the catalog to S3 as JSON. The admin reset flow
// takes a snapshot before any destructive step; the server also exposes it
// as an on-demand operation.
type BackupService struct {
	names    NameStore
	s3Client *s3.Client
	bucket   string
}

// NewBackupService creates a new backup service
func NewBackupService(names NameStore, cfg awsconfig.AWSConfig) (*BackupService, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &BackupService{names: names, s3Client: client, bucket: cfg.S3Bucket}, nil
}

// Backup writes the full catalog to the bucket and returns the object key.
func (s *BackupService) Backup(ctx context.Context) (string, error) {
	names, err := s.names.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read catalog: %w", err)
	}

	body, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal catalog: %w", err)
	}

	key := fmt.Sprintf("backups/names-%s.json", time.Now().UTC().Format("20060102-150405"))
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	return key, nil
}
