// Package localdata is the client's local persistent key/value storage.
// Values are strings (JSON text for structured records); keys are namespaced
// per user identifier where the data is session-scoped.
package localdata

import "context"

type Repository interface {
	// Get returns the stored value, or "" with found=false when absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	// Take reads and deletes a key in one transaction: one-shot flags are
	// consumed with it.
	Take(ctx context.Context, key string) (value string, found bool, err error)
	Clear(ctx context.Context) error
}
