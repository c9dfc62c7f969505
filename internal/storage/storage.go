// Package storage provides the durable key-value store that session state is
// written through to. Values are opaque strings (JSON in practice).
package storage

import "context"

// KV is a string key-value store. Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

type namespaced struct {
	kv     KV
	prefix string
}

// Namespaced scopes every key of kv under prefix + ":".
func Namespaced(kv KV, prefix string) KV {
	return &namespaced{kv: kv, prefix: prefix + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.kv.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.kv.Set(ctx, n.prefix+key, value)
}
