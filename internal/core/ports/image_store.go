package ports

import (
	"context"
	"io"
)

// ImageStore hosts uploaded images and returns their public URL.
type ImageStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// ImageUpload is one file received from the admin form.
type ImageUpload struct {
	Filename string
	Data     []byte
}

type UploadService interface {
	UploadImages(ctx context.Context, images []ImageUpload) ([]string, error)
}
