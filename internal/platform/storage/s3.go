// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vidora/vidora/pkg/slug"
	"github.com/vidora/vidora/pkg/uuid"
)

// S3Config holds the settings needed to talk to an S3-compatible bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string

	// BaseURL is the public CDN base from which objects are served.
	BaseURL string
}

// S3Store implements [ObjectStore] on top of aws-sdk-go-v2.
//
// It is compatible with Cloudflare R2 and MinIO through the custom endpoint.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewS3Store builds the S3 client and verifies the configuration shape.
func NewS3Store(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage: bucket and endpoint are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		options.BaseEndpoint = aws.String(cfg.Endpoint)
	})

	logger.Info("object store configured",
		slog.String("bucket", cfg.Bucket),
		slog.String("endpoint", cfg.Endpoint),
	)

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}, nil
}

// Upload implements [ObjectStore].
func (store *S3Store) Upload(ctx context.Context, input UploadInput) (Asset, error) {
	if input.File == nil {
		return Asset{}, fmt.Errorf("storage: nil upload file")
	}

	key := buildKey(input.Folder, input.File.Name)

	fileHandle, err := os.Open(input.File.Path)
	if err != nil {
		return Asset{}, fmt.Errorf("storage: failed to open spooled file: %w", err)
	}
	defer fileHandle.Close()

	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(store.bucket),
		Key:           aws.String(key),
		Body:          fileHandle,
		ContentType:   aws.String(input.File.ContentType),
		ContentLength: aws.Int64(input.File.Size),
	}
	if input.Profile.CacheControl != "" {
		putInput.CacheControl = aws.String(input.Profile.CacheControl)
	}
	if len(input.Profile.Metadata) > 0 {
		putInput.Metadata = input.Profile.Metadata
	}

	if _, err := store.client.PutObject(ctx, putInput); err != nil {
		return Asset{}, fmt.Errorf("storage: put object failed: %w", err)
	}

	store.logger.Debug("object uploaded",
		slog.String("key", key),
		slog.Int64("size_bytes", input.File.Size),
	)

	return Asset{
		URL: store.baseURL + "/" + key,
		Key: key,
	}, nil
}

// Delete implements [ObjectStore].
func (store *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete object failed: %w", err)
	}

	store.logger.Debug("object deleted", slog.String("key", key))
	return nil
}

// buildKey derives a collision-free object key from the original filename.
//
// Layout: <folder>/<uuid>-<slugged-name><ext>
// The UUID prefix guarantees uniqueness; the slugged name keeps keys
// human-readable in bucket listings.
func buildKey(folder, originalName string) string {
	extension := strings.ToLower(filepath.Ext(originalName))
	baseName := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))

	sluggedName := slug.From(baseName)
	if sluggedName == "" {
		sluggedName = "file"
	}

	return folder + "/" + uuid.New() + "-" + sluggedName + extension
}
