// Package kv provides the key-value backends that stand in for browser
// local storage.
package kv

import "context"

// Op is one write of an atomic batch. Delete removes Key and ignores Value.
type Op struct {
	Key    string
	Value  string
	Delete bool
}

func Set(key, value string) Op {
	return Op{Key: key, Value: value}
}

func Del(key string) Op {
	return Op{Key: key, Delete: true}
}

type Store interface {
	// MGet returns the values of the keys that exist; missing keys are absent
	// from the map.
	MGet(ctx context.Context, keys ...string) (map[string]string, error)
	// Apply runs all ops atomically. Readers never observe part of a batch.
	Apply(ctx context.Context, ops ...Op) error
	Ping(ctx context.Context) error
	Close() error
}
