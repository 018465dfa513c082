package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-splitpay/inter/authoritytype"
)

// SetAuthority registers or updates the record of a fiscal authority.
// Revocation keeps the record with the revoked status bit set, so a
// revoked key stays visible to the audit trail.
func (s *Store) SetAuthority(addr common.Address, a authoritytype.Authority) {
	s.rlp.Set(s.table.Authorities, addr.Bytes(), &a)
}

// GetAuthority returns the authority record of an address, or nil if the
// address was never registered.
func (s *Store) GetAuthority(addr common.Address) *authoritytype.Authority {
	a, _ := s.rlp.Get(s.table.Authorities, addr.Bytes(), &authoritytype.Authority{}).(*authoritytype.Authority)
	return a
}

// HasActiveAuthority reports whether the address belongs to a registered
// and not revoked fiscal authority. This is the check the settlement
// engine runs against recovered signer addresses.
func (s *Store) HasActiveAuthority(addr common.Address) bool {
	a := s.GetAuthority(addr)
	return a != nil && a.Active()
}

// ForEachAuthority iterates all authority records, revoked ones included,
// in address order. Iteration stops when fn returns false.
func (s *Store) ForEachAuthority(fn func(addr common.Address, a authoritytype.Authority) bool) {
	it := s.table.Authorities.NewIterator(nil, nil)
	defer it.Release()
	for it.Next() {
		a := authoritytype.Authority{}
		if err := rlp.DecodeBytes(it.Value(), &a); err != nil {
			s.Log.Crit("Failed to decode rlp", "err", err)
		}
		if !fn(common.BytesToAddress(it.Key()), a) {
			break
		}
	}
}
