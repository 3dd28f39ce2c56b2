package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsweep/dbsweep/internal/domain/model"
)

func TestResolver_ForPolicy(t *testing.T) {
	resolver := &Resolver{S3Client: &fakeS3{}, DefaultBucket: "archive"}

	t.Run("local", func(t *testing.T) {
		sink, err := resolver.ForPolicy(model.DumpPolicy{
			Destination: model.DumpDestinationLocal,
			Path:        "./dumps",
		})
		require.NoError(t, err)
		assert.IsType(t, &LocalSink{}, sink)
	})

	t.Run("s3 with default bucket", func(t *testing.T) {
		sink, err := resolver.ForPolicy(model.DumpPolicy{
			Destination: model.DumpDestinationS3,
		})
		require.NoError(t, err)
		require.IsType(t, &S3Sink{}, sink)
		assert.Equal(t, "archive", sink.(*S3Sink).bucket)
	})

	t.Run("s3 policy bucket wins", func(t *testing.T) {
		sink, err := resolver.ForPolicy(model.DumpPolicy{
			Destination: model.DumpDestinationS3,
			Bucket:      "other",
		})
		require.NoError(t, err)
		assert.Equal(t, "other", sink.(*S3Sink).bucket)
	})

	t.Run("s3 without any bucket", func(t *testing.T) {
		bare := &Resolver{S3Client: &fakeS3{}}
		_, err := bare.ForPolicy(model.DumpPolicy{Destination: model.DumpDestinationS3})
		assert.Error(t, err)
	})

	t.Run("unknown destination", func(t *testing.T) {
		_, err := resolver.ForPolicy(model.DumpPolicy{Destination: "ftp"})
		assert.Error(t, err)
	})
}
