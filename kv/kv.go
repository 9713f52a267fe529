package kv

import "context"

// Well-known keys for persisted application state.
const (
	KeyTranscriptionHistory = "transcriptionHistory"
	KeyNoiseSuppression     = "isNoiseSuppressionEnabled"
	Key3DEffect             = "is3dEffectEnabled"
)

// Store is a durable key-value store for small JSON-serializable state.
// Get reports whether the key was present; absent keys are not an error.
type Store interface {
	// Get decodes the value for key into out. Returns false when the key
	// is absent, in which case out is left untouched.
	Get(ctx context.Context, key string, out any) (bool, error)

	// Set encodes value and stores it under key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}
