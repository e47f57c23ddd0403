// Package blob provides the object storage seam and its S3 implementation
package blob

import (
	"context"
	"time"
)

// Store is the minimal object storage surface the services use
type Store interface {
	// Put writes body under key with the given content type, overwriting any
	// previous object at that key
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// PresignGet returns a time-limited download URL for key
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)

	// Delete removes the object at key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}
