package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// GetCredit returns the accumulated tax credit of a seller.
// Sellers without a credit position hold zero.
func (s *Store) GetCredit(addr common.Address) *big.Int {
	buf, err := s.table.Credits.Get(addr.Bytes())
	if err != nil {
		s.Log.Crit("Failed to get key-value", "err", err)
	}
	if buf == nil {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(buf)
}

// SetCredit stores the credit position of a seller. Zero positions are
// erased, so the table enumerates credit holders only.
func (s *Store) SetCredit(addr common.Address, v *big.Int) {
	if v == nil || v.Sign() == 0 {
		if err := s.table.Credits.Delete(addr.Bytes()); err != nil {
			s.Log.Crit("Failed to erase key-value", "err", err)
		}
		return
	}
	if v.Sign() < 0 {
		s.Log.Crit("Negative credit write", "addr", addr, "value", v)
	}
	if err := s.table.Credits.Put(addr.Bytes(), v.Bytes()); err != nil {
		s.Log.Crit("Failed to put key-value", "err", err)
	}
}

// ForEachCredit iterates the credit holders in address order.
// Iteration stops when fn returns false.
func (s *Store) ForEachCredit(fn func(addr common.Address, credit *big.Int) bool) {
	it := s.table.Credits.NewIterator(nil, nil)
	defer it.Release()
	for it.Next() {
		if !fn(common.BytesToAddress(it.Key()), new(big.Int).SetBytes(it.Value())) {
			break
		}
	}
}
