// Package kv provides a small durable key-value store for application
// state: the transcription history and persisted preference flags.
//
// FileStore keeps each key as a JSON file under a base directory and is
// the production implementation; MemStore backs tests. Both encode
// values through JSON so behavior is identical.
//
//	store, err := kv.NewFileStore("./data")
//	err = store.Set(ctx, kv.KeyNoiseSuppression, true)
//
//	var enabled bool
//	found, err := store.Get(ctx, kv.KeyNoiseSuppression, &enabled)
package kv
