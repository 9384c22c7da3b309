package storage

import (
	"code.assetex.io/assetex/internal/logging"

	"github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"
)

// badgerStore is the persistent ledger store. One badger transaction
// backs one logical exchange transaction, so the full write-set of an
// operation (contract latches, asset rewrite, wallet adjustments)
// commits atomically or not at all.
type badgerStore struct {
	log *logging.Logger
	db  *badger.DB
}

// NewBadgerStore opens (or creates) the badger-backed store at the
// configured directory.
func NewBadgerStore(log *logging.Logger, cfg Config) (Store, error) {
	opts := badger.DefaultOptions(cfg.Directory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(log.Named("badger"))
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open badger database")
	}
	return &badgerStore{
		log: log,
		db:  db,
	}, nil
}

func (bs *badgerStore) View(f func(Tx) error) error {
	return bs.db.View(func(txn *badger.Txn) error {
		return f(&badgerTx{txn: txn})
	})
}

func (bs *badgerStore) Update(f func(Tx) error) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return f(&badgerTx{txn: txn})
	})
}

func (bs *badgerStore) Close() error {
	return bs.db.Close()
}

type badgerTx struct {
	txn *badger.Txn
}

func (tx *badgerTx) Get(key string) ([]byte, error) {
	item, err := tx.txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, errors.Wrap(ErrKeyNotFound, key)
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (tx *badgerTx) Put(key string, data []byte) error {
	return tx.txn.Set([]byte(key), data)
}

// Query scans the keyspace in ascending key order and returns every
// document matching the selector. Badger iterators observe the
// transaction's own pending writes, so a document written earlier in the
// same transaction is queryable immediately.
func (tx *badgerTx) Query(sel Selector) ([]KV, error) {
	out := []KV{}
	opts := badger.DefaultIteratorOptions
	it := tx.txn.NewIterator(opts)
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		data, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		if sel.Match(data) {
			out = append(out, KV{Key: string(item.KeyCopy(nil)), Data: data})
		}
	}
	return out, nil
}
