package storage

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	apperrors "github.com/spec-kit/complaint-desk/pkg/errorutil"
)

// Upload is an image attached to a new complaint.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageStore keeps complaint images and returns the URL to show for them.
type ImageStore interface {
	Store(ctx context.Context, upload Upload) (string, error)
}

// DataURLStore inlines images into the complaint as data URLs.
type DataURLStore struct {
	maxBytes int64
}

// NewDataURLStore creates a store that rejects images larger than maxBytes.
func NewDataURLStore(maxBytes int64) *DataURLStore {
	return &DataURLStore{maxBytes: maxBytes}
}

// Store implements ImageStore by inlining the upload as a data URL.
func (s *DataURLStore) Store(_ context.Context, upload Upload) (string, error) {
	contentType, err := checkUpload(&upload, s.maxBytes)
	if err != nil {
		return "", err
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(upload.Data), nil
}

// checkUpload enforces the size limit and resolves the image content type,
// sniffing it when the client sent none.
func checkUpload(upload *Upload, maxBytes int64) (string, error) {
	if len(upload.Data) == 0 {
		return "", apperrors.NewValidationError("image is empty", map[string]any{"image": "empty"})
	}
	if maxBytes > 0 && int64(len(upload.Data)) > maxBytes {
		return "", apperrors.NewValidationError("image too large", map[string]any{
			"image":     "too_large",
			"max_bytes": maxBytes,
		})
	}
	contentType := strings.TrimSpace(upload.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(upload.Data)
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperrors.NewValidationError("only image uploads are accepted", map[string]any{
			"image":        "unsupported_type",
			"content_type": contentType,
		})
	}
	return contentType, nil
}
