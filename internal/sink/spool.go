package sink

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"canvastream/internal/logging"
	"canvastream/internal/state"
)

var spoolPrefix = []byte("batch/")

// Spool is an ordered on-disk queue of undelivered batches.
type Spool struct {
	db *badger.DB

	mu   sync.Mutex
	next uint64
}

// OpenSpool opens (or creates) a spool in dir. An empty dir keeps the
// spool in memory.
func OpenSpool(dir string) (*Spool, error) {
	opts := badger.DefaultOptions(dir).WithLogger(logging.NewLogger("spool"))
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open spool: %w", err)
	}

	s := &Spool{db: db}
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: spoolPrefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if seq := keySeq(it.Item().Key()); seq >= s.next {
				s.next = seq + 1
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("scan spool: %w", err)
	}
	return s, nil
}

// Put appends a batch.
func (s *Spool) Put(batch []state.Sample) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	s.mu.Lock()
	key := spoolKey(s.next)
	s.next++
	s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// Len returns the number of batches waiting.
func (s *Spool) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: spoolPrefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Drain hands batches to fn oldest first, removing each one fn accepts.
// It stops at the first error and returns how many batches were removed.
func (s *Spool) Drain(fn func([]state.Sample) error) (int, error) {
	drained := 0
	for {
		key, batch, ok, err := s.first()
		if err != nil || !ok {
			return drained, err
		}
		if err := fn(batch); err != nil {
			return drained, err
		}
		if err := s.db.Update(func(txn *badger.Txn) error { return txn.Delete(key) }); err != nil {
			return drained, fmt.Errorf("remove spooled batch: %w", err)
		}
		drained++
	}
}

// Close releases the underlying store.
func (s *Spool) Close() error {
	return s.db.Close()
}

func (s *Spool) first() (key []byte, batch []state.Sample, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: spoolPrefix, PrefetchValues: true, PrefetchSize: 1})
		defer it.Close()
		it.Rewind()
		if !it.Valid() {
			return nil
		}
		item := it.Item()
		key = item.KeyCopy(nil)
		ok = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &batch)
		})
	})
	return key, batch, ok, err
}

func spoolKey(seq uint64) []byte {
	key := make([]byte, len(spoolPrefix)+8)
	copy(key, spoolPrefix)
	binary.BigEndian.PutUint64(key[len(spoolPrefix):], seq)
	return key
}

func keySeq(key []byte) uint64 {
	if !bytes.HasPrefix(key, spoolPrefix) || len(key) != len(spoolPrefix)+8 {
		return 0
	}
	return binary.BigEndian.Uint64(key[len(spoolPrefix):])
}
