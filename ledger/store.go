// Package ledger implements the persistent storage of the settlement
// ledger: account balances, credit positions, registered fiscal
// authorities, the processed-digest index, the audit records and the
// aggregate ledger state.
//
// All writes are staged in a flushable overlay on top of the physical
// key-value database. They reach the database only on Commit, and an
// uncommitted batch can be discarded with Rollback. The settlement engine
// relies on this to make every settlement all-or-nothing.
//
// The store itself is not synchronized; the engine serializes access.
package ledger

import (
	"sync/atomic"

	"github.com/Fantom-foundation/lachesis-base/kvdb"
	"github.com/Fantom-foundation/lachesis-base/kvdb/flushable"
	"github.com/Fantom-foundation/lachesis-base/kvdb/memorydb"
	"github.com/Fantom-foundation/lachesis-base/kvdb/table"
	"github.com/Fantom-foundation/lachesis-base/utils/wlru"

	"github.com/rony4d/go-splitpay/inter/istate"
	"github.com/rony4d/go-splitpay/logger"
	"github.com/rony4d/go-splitpay/utils/rlpstore"
)

// Store is the settlement ledger storage, working over a physical
// key-value database.
type Store struct {
	cfg StoreConfig

	flushable kvdb.FlushableKVStore

	table struct {
		Version kvdb.Store `table:"_"`
		// Monetary positions
		Balances kvdb.Store `table:"b"`
		Credits  kvdb.Store `table:"c"`
		// Authorization
		Authorities kvdb.Store `table:"a"`
		// Settlement history
		Processed kvdb.Store `table:"p"`
		Records   kvdb.Store `table:"r"`
		// Aggregate state
		LedgerState kvdb.Store `table:"s"`
	}

	cache struct {
		Records *wlru.Cache  // audit records by sequence
		State   atomic.Value // active ledger state
	}

	rlp rlpstore.Helper

	logger.Instance
}

// NewStore creates the ledger store over a key-value database.
func NewStore(db kvdb.Store, cfg StoreConfig) *Store {
	s := &Store{
		cfg:       cfg,
		flushable: flushable.Wrap(db),
		Instance:  logger.New("ledger-store"),
	}
	s.rlp = rlpstore.Helper{Instance: s.Instance}
	table.MigrateTables(&s.table, s.flushable)
	s.initCache()
	return s
}

// NewMemStore creates an in-memory ledger store for testing purposes.
func NewMemStore() *Store {
	return NewStore(memorydb.New(), LiteStoreConfig())
}

func (s *Store) initCache() {
	s.cache.Records = s.makeCache(s.cfg.Cache.RecordsSize, s.cfg.Cache.RecordsNum)
}

// Close leaves the underlying database.
func (s *Store) Close() error {
	table.MigrateTables(&s.table, nil)
	s.cache.Records.Purge()
	return s.flushable.Close()
}

// Commit writes all staged changes to the underlying database atomically.
func (s *Store) Commit() error {
	s.flushLedgerState()
	return s.flushable.Flush()
}

// Rollback discards every write staged since the last Commit, including
// the cached ledger state. The records cache is purged wholesale: it may
// hold records staged by the discarded batch, and a rollback is rare
// enough that re-reading committed records is cheaper than tracking
// which entries were staged.
func (s *Store) Rollback() {
	s.flushable.DropNotFlushed()
	s.cache.Records.Purge()
	s.cache.State.Store((*istate.LedgerState)(nil))
}

// StagedWrites returns the number of key-value pairs staged for the next
// Commit. Useful for sanity logging around administrative operations.
func (s *Store) StagedWrites() int {
	return s.flushable.NotFlushedPairs()
}

func (s *Store) makeCache(weight uint, size int) *wlru.Cache {
	cache, err := wlru.New(weight, size)
	if err != nil {
		s.Log.Crit("Failed to create LRU cache", "err", err)
		return nil
	}
	return cache
}
