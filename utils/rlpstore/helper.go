// Package rlpstore keeps the boilerplate of RLP-encoded key-value records
// in one place. Encoding and database failures are defects, not conditions
// a caller can handle, so the helper logs them at crit level.
package rlpstore

import (
	"github.com/Fantom-foundation/lachesis-base/kvdb"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-splitpay/logger"
)

// Helper binds the RLP codec to a logger.
type Helper struct {
	logger.Instance
}

// Set stores the RLP encoding of val under key.
func (s *Helper) Set(table kvdb.Store, key []byte, val interface{}) {
	buf, err := rlp.EncodeToBytes(val)
	if err != nil {
		s.Log.Crit("Failed to encode rlp", "err", err)
	}
	if err := table.Put(key, buf); err != nil {
		s.Log.Crit("Failed to put key-value", "err", err)
	}
}

// Get decodes the record under key into to, returning to, or nil if the
// key is absent.
func (s *Helper) Get(table kvdb.Store, key []byte, to interface{}) interface{} {
	buf, err := table.Get(key)
	if err != nil {
		s.Log.Crit("Failed to get key-value", "err", err)
	}
	if buf == nil {
		return nil
	}
	if err := rlp.DecodeBytes(buf, to); err != nil {
		s.Log.Crit("Failed to decode rlp", "err", err, "size", len(buf))
	}
	return to
}
