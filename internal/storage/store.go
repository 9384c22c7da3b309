package storage

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrKeyNotFound is returned by Tx.Get for an absent key.
var ErrKeyNotFound = errors.New("key not found")

// KV is one query result: a key and the raw document stored under it.
type KV struct {
	Key  string
	Data []byte
}

// Tx is a single logical transaction against the ledger store. All reads
// observe one consistent snapshot plus the transaction's own buffered
// writes; nothing becomes visible to other transactions until the
// enclosing Update commits. Query results are always in ascending key
// order, engines must not assume any other ordering is meaningful.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/tx_mock.go -package mocks code.assetex.io/assetex/internal/storage Tx
type Tx interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Query(sel Selector) ([]KV, error)
}

// Store opens transactions over the shared keyspace. Update either
// commits the full buffered write-set or discards it, there is no
// partial application.
type Store interface {
	View(f func(Tx) error) error
	Update(f func(Tx) error) error
	Close() error
}

// GetDoc reads the document under key and unmarshals it into out.
func GetDoc(tx Tx, key string, out interface{}) error {
	data, err := tx.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// PutDoc marshals doc and buffers the write under key.
func PutDoc(tx Tx, key string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return tx.Put(key, data)
}

// Exists reports whether a document is stored under key.
func Exists(tx Tx, key string) (bool, error) {
	if _, err := tx.Get(key); err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
