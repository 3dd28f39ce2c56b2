package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dbsweep/dbsweep/internal/domain/model"
)

// DefaultKeyPrefix is used when a job's dump policy does not set one.
const DefaultKeyPrefix = "db_dumps"

// S3API is the subset of the S3 client used by the sink.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads dump artifacts to an S3 bucket. Transport errors surface
// unchanged; retry policy belongs to the caller and the SDK configuration.
type S3Sink struct {
	client S3API
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Sink creates a sink uploading under <prefix>/<filename> in bucket.
func NewS3Sink(client S3API, bucket, prefix string, logger *slog.Logger) (*S3Sink, error) {
	if client == nil {
		return nil, errors.New("s3 client is required")
	}
	if bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &S3Sink{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}, nil
}

// Store uploads the artifact and returns its object URI.
func (s *S3Sink) Store(ctx context.Context, artifact model.DumpArtifact) (string, error) {
	key := s.prefix + "/" + artifact.FileName

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(artifact.Data),
		ContentLength: aws.Int64(int64(len(artifact.Data))),
		ContentType:   aws.String("application/gzip"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", key, s.bucket, err)
	}

	location := "s3://" + s.bucket + "/" + key
	if s.logger != nil {
		s.logger.Info("dump uploaded",
			"location", location, "bytes", len(artifact.Data), "rows", artifact.RowCount)
	}
	return location, nil
}
