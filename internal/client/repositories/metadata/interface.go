// Package metadata implements the client's durable key/value store,
// backed by a local sqlite database. The session layer keeps the token
// and its change revision here.
package metadata

import "context"

type Repository interface {
	// Get returns the stored value, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
