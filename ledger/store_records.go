package ledger

import (
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-splitpay/inter/iar"
)

// SetRecord stores an audit record keyed by its settlement sequence.
func (s *Store) SetRecord(r *iar.IdxFullSettlementRecord) {
	s.rlp.Set(s.table.Records, r.Seq.Bytes(), r)
	s.cache.Records.Add(r.Seq, r, uint(r.Receipt.EstimateSize()))
}

// GetRecord returns the audit record of a settlement sequence, or nil.
// Returned records are shared with the cache and must not be mutated.
func (s *Store) GetRecord(seq idx.Block) *iar.IdxFullSettlementRecord {
	if rv, ok := s.cache.Records.Get(seq); ok {
		return rv.(*iar.IdxFullSettlementRecord)
	}
	r, _ := s.rlp.Get(s.table.Records, seq.Bytes(), &iar.IdxFullSettlementRecord{}).(*iar.IdxFullSettlementRecord)
	if r != nil {
		s.cache.Records.Add(seq, r, uint(r.Receipt.EstimateSize()))
	}
	return r
}

// ForEachRecord iterates the audit records in sequence order, starting at
// the given sequence. Iteration stops when fn returns false.
func (s *Store) ForEachRecord(start idx.Block, fn func(r *iar.IdxFullSettlementRecord) bool) {
	it := s.table.Records.NewIterator(nil, start.Bytes())
	defer it.Release()
	for it.Next() {
		r := &iar.IdxFullSettlementRecord{}
		if err := rlp.DecodeBytes(it.Value(), r); err != nil {
			s.Log.Crit("Failed to decode rlp", "err", err)
		}
		if !fn(r) {
			break
		}
	}
}
