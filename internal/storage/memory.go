package storage

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// memoryStore is the ephemeral ledger store used by tests and the CLI's
// in-memory mode. It gives the same transaction semantics as the badger
// backend: a write transaction buffers its writes and applies them in
// one step on commit, reads within the transaction observe the snapshot
// plus the buffered writes.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{
		data: map[string][]byte{},
	}
}

func (ms *memoryStore) View(f func(Tx) error) error {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return f(&memoryTx{store: ms})
}

func (ms *memoryStore) Update(f func(Tx) error) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	tx := &memoryTx{
		store:   ms,
		pending: map[string][]byte{},
	}
	if err := f(tx); err != nil {
		return err
	}
	for k, v := range tx.pending {
		ms.data[k] = v
	}
	return nil
}

func (ms *memoryStore) Close() error {
	return nil
}

type memoryTx struct {
	store   *memoryStore
	pending map[string][]byte // nil for read-only transactions
}

func (tx *memoryTx) Get(key string) ([]byte, error) {
	if tx.pending != nil {
		if data, ok := tx.pending[key]; ok {
			return data, nil
		}
	}
	data, ok := tx.store.data[key]
	if !ok {
		return nil, errors.Wrap(ErrKeyNotFound, key)
	}
	return data, nil
}

func (tx *memoryTx) Put(key string, data []byte) error {
	if tx.pending == nil {
		return errors.New("put on read-only transaction")
	}
	tx.pending[key] = data
	return nil
}

func (tx *memoryTx) Query(sel Selector) ([]KV, error) {
	merged := make(map[string][]byte, len(tx.store.data)+len(tx.pending))
	for k, v := range tx.store.data {
		merged[k] = v
	}
	for k, v := range tx.pending {
		merged[k] = v
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := []KV{}
	for _, k := range keys {
		if sel.Match(merged[k]) {
			out = append(out, KV{Key: k, Data: merged[k]})
		}
	}
	return out, nil
}
