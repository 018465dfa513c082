package ledger

import (
	"errors"
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/hash"

	"github.com/rony4d/go-splitpay/inter/istate"
	"github.com/rony4d/go-splitpay/splitpay"
	"github.com/rony4d/go-splitpay/splitpay/genesis"
)

var genesisKey = []byte("g")

var (
	// ErrGenesisMismatch is returned when the database was initialized
	// from a different genesis than the one being applied.
	ErrGenesisMismatch = errors.New("genesis mismatch: database belongs to a different deployment")
)

// ApplyGenesis seeds an empty store from the genesis and commits.
// Applying the same genesis twice is a no-op; applying a different one
// to an initialized store fails with ErrGenesisMismatch.
func (s *Store) ApplyGenesis(g genesis.Genesis) (genesisHash hash.Hash, err error) {
	if err := g.Validate(); err != nil {
		return hash.Zero, err
	}
	genesisHash = g.Hash()

	if prev := s.GetGenesisHash(); prev != nil {
		if *prev == genesisHash {
			return genesisHash, nil
		}
		return hash.Zero, ErrGenesisMismatch
	}

	for _, b := range g.Balances {
		s.SetBalance(b.Addr, b.Balance)
	}
	for _, c := range g.Credits {
		s.SetCredit(c.Addr, c.Amount)
	}
	for _, a := range g.Authorities {
		s.SetAuthority(a.Addr, a.Authority)
	}

	ls := istate.LedgerState{
		LastSettlement: istate.SettlementCtx{
			Time: g.Time,
		},
		Supply:            g.TotalSupply(),
		CreditOutstanding: g.TotalCredits(),
		CreditCompensated: new(big.Int),
		Reconciled:        new(big.Int),
		Rules:             g.Rules.Copy(),
		Upgrades:          make([]splitpay.UpgradeTime, len(g.Upgrades)),
		Destinations:      g.Destinations,
	}
	copy(ls.Upgrades, g.Upgrades)
	for i := range ls.TaxCollected {
		ls.TaxCollected[i] = new(big.Int)
	}
	s.SetLedgerState(ls)
	s.SetGenesisHash(genesisHash)

	if err := s.Commit(); err != nil {
		return hash.Zero, err
	}
	return genesisHash, nil
}

// GetGenesisHash returns the hash of the applied genesis, or nil if the
// store is not initialized yet.
func (s *Store) GetGenesisHash() *hash.Hash {
	buf, err := s.table.Version.Get(genesisKey)
	if err != nil {
		s.Log.Crit("Failed to get key-value", "err", err)
	}
	if buf == nil {
		return nil
	}
	h := hash.BytesToHash(buf)
	return &h
}

// SetGenesisHash marks the store as initialized from the given genesis.
func (s *Store) SetGenesisHash(h hash.Hash) {
	if err := s.table.Version.Put(genesisKey, h.Bytes()); err != nil {
		s.Log.Crit("Failed to put key-value", "err", err)
	}
}
