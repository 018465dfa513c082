package ledger

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
)

// MarkProcessed records an assessment digest as settled under the given
// sequence. The mark is what makes a re-submission of the same assessment
// fail as a duplicate, so the engine writes it before moving any funds.
func (s *Store) MarkProcessed(digest common.Hash, seq idx.Block) {
	if err := s.table.Processed.Put(digest.Bytes(), seq.Bytes()); err != nil {
		s.Log.Crit("Failed to put key-value", "err", err)
	}
}

// IsProcessed reports whether an assessment digest was already settled.
func (s *Store) IsProcessed(digest common.Hash) bool {
	ok, err := s.table.Processed.Has(digest.Bytes())
	if err != nil {
		s.Log.Crit("Failed to get key-value", "err", err)
	}
	return ok
}

// GetProcessedSeq returns the sequence an assessment digest settled under.
func (s *Store) GetProcessedSeq(digest common.Hash) (idx.Block, bool) {
	buf, err := s.table.Processed.Get(digest.Bytes())
	if err != nil {
		s.Log.Crit("Failed to get key-value", "err", err)
	}
	if buf == nil {
		return 0, false
	}
	return idx.BytesToBlock(buf), true
}
