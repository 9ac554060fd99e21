// Package metadata is an opaque key/value store for small client state that
// does not deserve its own table; the persisted bearer credential lives here
// under common.MetadataKeyToken.
package metadata

import (
	"context"
)

// Repository describes key/value operations. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
