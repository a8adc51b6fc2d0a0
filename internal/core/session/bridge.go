package session

import (
	"context"
	"sync"
)

// Keys written by a Store. Values are JSON blobs rewritten wholesale.
const (
	KeyUser = "user"
	KeyCart = "cart"
)

// Bridge is the durable key-value mirror a Store reads at startup and writes
// after every change. Read reports ok=false when the key is absent.
type Bridge interface {
	Read(ctx context.Context, key string) (value []byte, ok bool, err error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Namespace scopes every key of b under prefix, so several sessions can
// share one backing bridge.
func Namespace(b Bridge, prefix string) Bridge {
	return &namespaced{inner: b, prefix: prefix}
}

type namespaced struct {
	inner  Bridge
	prefix string
}

func (n *namespaced) Read(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Read(ctx, n.prefix+key)
}

func (n *namespaced) Write(ctx context.Context, key string, value []byte) error {
	return n.inner.Write(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

// MemoryBridge keeps blobs in process memory. Used for development and tests.
type MemoryBridge struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBridge() *MemoryBridge {
	return &MemoryBridge{data: make(map[string][]byte)}
}

func (m *MemoryBridge) Read(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryBridge) Write(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBridge) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryBridge) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
