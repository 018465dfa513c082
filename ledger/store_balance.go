package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// GetBalance returns the balance of an account. Absent accounts hold zero.
func (s *Store) GetBalance(addr common.Address) *big.Int {
	buf, err := s.table.Balances.Get(addr.Bytes())
	if err != nil {
		s.Log.Crit("Failed to get key-value", "err", err)
	}
	if buf == nil {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(buf)
}

// SetBalance stores the balance of an account. Zero balances are erased,
// so the table enumerates funded accounts only.
func (s *Store) SetBalance(addr common.Address, v *big.Int) {
	if v == nil || v.Sign() == 0 {
		if err := s.table.Balances.Delete(addr.Bytes()); err != nil {
			s.Log.Crit("Failed to erase key-value", "err", err)
		}
		return
	}
	if v.Sign() < 0 {
		s.Log.Crit("Negative balance write", "addr", addr, "value", v)
	}
	if err := s.table.Balances.Put(addr.Bytes(), v.Bytes()); err != nil {
		s.Log.Crit("Failed to put key-value", "err", err)
	}
}

// ForEachBalance iterates the funded accounts in address order.
// Iteration stops when fn returns false.
func (s *Store) ForEachBalance(fn func(addr common.Address, balance *big.Int) bool) {
	it := s.table.Balances.NewIterator(nil, nil)
	defer it.Release()
	for it.Next() {
		if !fn(common.BytesToAddress(it.Key()), new(big.Int).SetBytes(it.Value())) {
			break
		}
	}
}
