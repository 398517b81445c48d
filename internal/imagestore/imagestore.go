// Package imagestore abstracts where memory images live. The backend
// (local filesystem today, blob storage later) is swappable and invisible
// to the services.
package imagestore

import (
	"context"
	"io"
)

type ImageStore interface {
	// Save stores the image bytes and returns an opaque storage key. The
	// prefix groups related images (one per uploading user).
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
