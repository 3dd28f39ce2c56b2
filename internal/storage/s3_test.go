package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestNewS3Sink_Validation(t *testing.T) {
	_, err := NewS3Sink(nil, "bucket", "", nil)
	assert.Error(t, err)

	_, err = NewS3Sink(&fakeS3{}, "", "", nil)
	assert.Error(t, err)
}

func TestS3Sink_Store(t *testing.T) {
	client := &fakeS3{}
	sink, err := NewS3Sink(client, "archive", "", nil)
	require.NoError(t, err)

	artifact := testArtifact("sessions_20240102_030405.sql.gz")
	location, err := sink.Store(context.Background(), artifact)
	require.NoError(t, err)
	assert.Equal(t, "s3://archive/db_dumps/sessions_20240102_030405.sql.gz", location)

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "archive", *in.Bucket)
	assert.Equal(t, "db_dumps/sessions_20240102_030405.sql.gz", *in.Key)
	assert.Equal(t, "application/gzip", *in.ContentType)
	assert.Equal(t, int64(len(artifact.Data)), *in.ContentLength)

	body, err := io.ReadAll(in.Body)
	require.NoError(t, err)
	assert.Equal(t, artifact.Data, body)
}

func TestS3Sink_CustomPrefix(t *testing.T) {
	client := &fakeS3{}
	sink, err := NewS3Sink(client, "archive", "/retention/daily/", nil)
	require.NoError(t, err)

	location, err := sink.Store(context.Background(), testArtifact("a.sql.gz"))
	require.NoError(t, err)
	assert.Equal(t, "s3://archive/retention/daily/a.sql.gz", location)
}

func TestS3Sink_UploadErrorSurfaces(t *testing.T) {
	client := &fakeS3{err: errors.New("access denied")}
	sink, err := NewS3Sink(client, "archive", "", nil)
	require.NoError(t, err)

	_, err = sink.Store(context.Background(), testArtifact("a.sql.gz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Contains(t, err.Error(), "archive")
}
