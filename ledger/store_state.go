package ledger

import (
	"github.com/rony4d/go-splitpay/inter/istate"
)

var stateKey = []byte("s")

// SetLedgerState replaces the aggregate ledger state. The write is cached
// and reaches the database on Commit; the passed state must not be
// mutated by the caller afterwards.
func (s *Store) SetLedgerState(ls istate.LedgerState) {
	s.cache.State.Store(&ls)
}

// GetLedgerState returns a deep copy of the aggregate ledger state, so
// callers may mutate it freely before handing it back to SetLedgerState.
func (s *Store) GetLedgerState() istate.LedgerState {
	if v := s.cache.State.Load(); v != nil {
		if ls := v.(*istate.LedgerState); ls != nil {
			return ls.Copy()
		}
	}
	ls, _ := s.rlp.Get(s.table.LedgerState, stateKey, &istate.LedgerState{}).(*istate.LedgerState)
	if ls == nil {
		s.Log.Crit("Ledger state is not initialized, genesis wasn't applied")
	}
	s.cache.State.Store(ls)
	return ls.Copy()
}

// flushLedgerState writes the cached state through to its table.
// Called on Commit.
func (s *Store) flushLedgerState() {
	if v := s.cache.State.Load(); v != nil {
		if ls := v.(*istate.LedgerState); ls != nil {
			s.rlp.Set(s.table.LedgerState, stateKey, ls)
		}
	}
}
