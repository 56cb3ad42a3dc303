// Package store persists comparison layout state.
//
// A [Store] is a keyed container over a [Backend]. It exposes a read that
// reinitializes stale state and an atomic read-modify-write:
//
//	st, err := s.Get(ctx, key, items)   // reinitializes on signature change
//	st, err = s.Set(ctx, key, func(st layout.State) layout.State {
//		st.Zoom = 1.5
//		return st
//	})
//
// # Backends
//
// Backends store opaque JSON documents by key:
//
//   - [MemoryBackend]: in-process map, used by tests and the TUI preview
//   - [FileBackend]: one JSON file per key under a hashed directory layout,
//     with an OS file lock per key so concurrent CLI processes serialize
//   - [SQLiteBackend]: a single table in a local SQLite database
//   - [RedisBackend]: string values under a key prefix
//   - [MongoBackend]: one document per key in a collection
//
// [Open] builds a backend from a [Config].
//
// # Errors
//
// Keys are validated with [errors.ValidateKey]. Backend failures are wrapped
// with [errors.ErrCodeStoreUnavailable]. Network backends mark transient
// failures with [Retryable] so [RetryWithBackoff] retries them.
package store
