// Package storage provides the durable key-value substrate every other
// component persists through. Values are opaque strings; callers own their
// own encoding.
//
// Read-modify-write sequences built on top of a Store are not atomic across
// processes: another process writing the same key between a Read and a Write
// simply wins (last writer wins). That matches the guarantees of the browser
// storage this substrate stands in for, and no locking is layered on top.
package storage

import "context"

// Store is the durable store adapter contract. A missing key is signaled via
// the boolean result of Read, never as an error; errors are reserved for the
// backend being unavailable. Every Write and Remove is immediately durable
// and visible to subsequent Reads.
type Store interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
