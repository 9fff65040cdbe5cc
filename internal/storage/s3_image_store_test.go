package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-desk/internal/config"
	apperrors "github.com/spec-kit/complaint-desk/pkg/errorutil"
)

type storedObject struct {
	body        []byte
	contentType string
}

// memoryS3 answers PutObject requests in place of S3.
type memoryS3 struct {
	mu      sync.Mutex
	objects map[string]storedObject
	status  int
}

func (m *memoryS3) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != 0 {
		return &http.Response{StatusCode: m.status, Body: io.NopCloser(strings.NewReader("<Error><Code>InternalError</Code></Error>")), Header: http.Header{}}, nil
	}
	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
	}
	body, _ := io.ReadAll(req.Body)
	m.objects[strings.TrimPrefix(req.URL.Path, "/")] = storedObject{body: body, contentType: req.Header.Get("Content-Type")}
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {"\"etag\""}}}, nil
}

func newMemoryStore(t *testing.T, cfg config.StorageConfig) (*S3ImageStore, *memoryS3) {
	t.Helper()
	rt := &memoryS3{objects: make(map[string]storedObject)}
	store, err := NewS3ImageStore(context.Background(), cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.Credentials = credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	require.NoError(t, err)
	return store, rt
}

func TestS3ImageStore_Store(t *testing.T) {
	store, rt := newMemoryStore(t, config.StorageConfig{
		S3Bucket:      "complaint-images",
		S3Region:      "eu-central-1",
		S3Endpoint:    "http://minio.local:9000",
		S3PathStyle:   true,
		S3KeyPrefix:   "complaints/",
		MaxImageBytes: 1024,
	})

	url, err := store.Store(context.Background(), Upload{Filename: "Swing.PNG", ContentType: "image/png", Data: pngHeader})

	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://minio.local:9000/complaint-images/complaints/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	require.Len(t, rt.objects, 1)
	for key, obj := range rt.objects {
		assert.True(t, strings.HasPrefix(key, "complaint-images/complaints/"))
		assert.Equal(t, "image/png", obj.contentType)
		assert.True(t, bytes.Contains(obj.body, pngHeader))
	}
}

func TestS3ImageStore_RejectsBeforeUpload(t *testing.T) {
	store, rt := newMemoryStore(t, config.StorageConfig{S3Bucket: "b", S3Endpoint: "http://minio.local:9000", S3PathStyle: true, MaxImageBytes: 4})

	_, err := store.Store(context.Background(), Upload{ContentType: "image/png", Data: pngHeader})

	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, rt.objects)
}

func TestS3ImageStore_UploadFailure(t *testing.T) {
	store, rt := newMemoryStore(t, config.StorageConfig{S3Bucket: "b", S3Endpoint: "http://minio.local:9000", S3PathStyle: true})
	rt.status = http.StatusForbidden

	_, err := store.Store(context.Background(), Upload{ContentType: "image/png", Data: pngHeader})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInternal, apperrors.ToDomainError(err).Code)
}

func TestNewS3ImageStore_RequiresBucket(t *testing.T) {
	_, err := NewS3ImageStore(context.Background(), config.StorageConfig{})
	assert.Error(t, err)
}

func TestObjectBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{name: "public base", cfg: config.StorageConfig{S3Bucket: "b", S3PublicBaseURL: "https://cdn.example/img/"}, want: "https://cdn.example/img"},
		{name: "path style endpoint", cfg: config.StorageConfig{S3Bucket: "b", S3Endpoint: "http://minio:9000", S3PathStyle: true}, want: "http://minio:9000/b"},
		{name: "virtual host endpoint", cfg: config.StorageConfig{S3Bucket: "b", S3Endpoint: "https://s3.example"}, want: "https://b.s3.example"},
		{name: "aws", cfg: config.StorageConfig{S3Bucket: "b"}, want: "https://b.s3.eu-west-1.amazonaws.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, objectBaseURL(tt.cfg, "eu-west-1"))
		})
	}
}
