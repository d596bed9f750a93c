package storage

import (
	"context"
	"errors"
)

// ErrUpload is returned when a blob write does not complete.
var ErrUpload = errors.New("object upload failed")

// ObjectStore is the narrow object-storage contract the registration pipeline
// needs: put a blob under a key and resolve the key to a public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}
