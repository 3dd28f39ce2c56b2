package storage

import (
	"fmt"
	"log/slog"

	"github.com/dbsweep/dbsweep/internal/core"
	"github.com/dbsweep/dbsweep/internal/domain/model"
)

// Resolver selects a concrete sink for each job's dump policy.
type Resolver struct {
	// S3Client is required only when some job dumps to S3.
	S3Client S3API
	// DefaultBucket applies when a policy omits its bucket.
	DefaultBucket string
	Logger        *slog.Logger
}

var _ core.SinkResolver = (*Resolver)(nil)

// ForPolicy returns the sink matching the policy's destination kind.
//
//nolint:ireturn // the resolver exists to pick a sink implementation at runtime.
func (r *Resolver) ForPolicy(policy model.DumpPolicy) (core.StorageSink, error) {
	switch policy.Destination {
	case model.DumpDestinationLocal:
		return NewLocalSink(policy.Path, policy.Overwrite, r.Logger), nil
	case model.DumpDestinationS3:
		bucket := policy.Bucket
		if bucket == "" {
			bucket = r.DefaultBucket
		}
		return NewS3Sink(r.S3Client, bucket, policy.Prefix, r.Logger)
	default:
		return nil, fmt.Errorf("unknown dump destination %q", policy.Destination)
	}
}
