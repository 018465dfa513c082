// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// This file handles fake network genesis: deterministic keys and funded
// accounts for testing and development.

package integration

import (
	"crypto/ecdsa"
	"math/big"
	"math/rand"
	"time"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/rony4d/go-splitpay/inter"
	"github.com/rony4d/go-splitpay/inter/authoritypk"
	"github.com/rony4d/go-splitpay/inter/authoritytype"
	"github.com/rony4d/go-splitpay/ledger"
	"github.com/rony4d/go-splitpay/splitpay"
	"github.com/rony4d/go-splitpay/splitpay/genesis"
	"github.com/rony4d/go-splitpay/utils/brl"
)

// FakeGenesisTime is the default timestamp of fake network genesis.
// Timestamp: 1608600000 seconds since Unix epoch (December 22, 2020)
// This provides a consistent reference point for fake ledger initialization.
var FakeGenesisTime = inter.Timestamp(1608600000 * time.Second)

// FakeKey generates a deterministic fake private key for testing purposes.
//
// Given the same index 'n', it will always generate the same key, so fake
// deployments, tests and tooling agree on the account set without sharing
// key files. Index 0 is reserved for the fake fiscal authority; payer
// accounts start at index 1.
//
// Parameters:
//   - n: The seed/index for key generation (deterministic: same n = same key)
//
// Returns:
//   - *ecdsa.PrivateKey: A deterministic ECDSA private key on the secp256k1 curve
func FakeKey(n int) *ecdsa.PrivateKey {
	reader := rand.New(rand.NewSource(int64(n)))

	key, err := ecdsa.GenerateKey(crypto.S256(), reader)
	if err != nil {
		panic(err)
	}

	return key
}

// FakeAddr returns the account address of FakeKey(n).
func FakeAddr(n int) common.Address {
	return crypto.PubkeyToAddress(FakeKey(n).PublicKey)
}

// FakeAuthority returns the registry entry of the fake fiscal authority,
// which signs with FakeKey(0).
func FakeAuthority() authoritytype.AuthorityAndAddress {
	key := FakeKey(0)
	return authoritytype.AuthorityAndAddress{
		Addr: crypto.PubkeyToAddress(key.PublicKey),
		Authority: authoritytype.Authority{
			PubKey: authoritypk.PubKey{
				Type: authoritypk.Types.Secp256k1,
				Raw:  crypto.FromECDSAPub(&key.PublicKey),
			},
			Status: authoritytype.OkStatus,
		},
	}
}

// FakeGenesis assembles a fake network genesis: fake rules with every
// regime component active from the start, accs payer accounts funded
// with balance each, and FakeKey(0) registered as the fiscal authority.
//
// Parameters:
//   - accs: Number of funded payer accounts (FakeKey(1) through FakeKey(accs))
//   - balance: Opening balance of each payer account (in wei)
//
// Returns:
//   - genesis.Genesis: A genesis ready for ledger.Store.ApplyGenesis
func FakeGenesis(accs int, balance *big.Int) genesis.Genesis {
	g := genesis.Genesis{
		Rules:        splitpay.FakeRules(),
		Time:         FakeGenesisTime,
		Extra:        []byte("fake"),
		Destinations: splitpay.DefaultDestinations(),
		Authorities:  []authoritytype.AuthorityAndAddress{FakeAuthority()},
	}

	for i := 1; i <= accs; i++ {
		g.Balances = append(g.Balances, genesis.AccountBalance{
			Addr:    FakeAddr(i),
			Balance: new(big.Int).Set(balance),
		})
	}

	return g
}

// ApplyGenesis seeds a store from a genesis in one flush and logs the
// deployment summary.
func ApplyGenesis(store *ledger.Store, g genesis.Genesis) (hash.Hash, error) {
	h, err := store.ApplyGenesis(g)
	if err != nil {
		return hash.Hash{}, err
	}
	log.Info("Applied genesis", "network", g.Rules.Name, "id", g.Rules.NetworkID,
		"hash", h.String(), "supply", brl.Format(g.TotalSupply()))
	return h, nil
}

// MustApplyGenesis applies a genesis to a store and terminates the
// process on failure. A node that cannot establish its opening state
// has nothing useful left to do.
func MustApplyGenesis(store *ledger.Store, g genesis.Genesis) hash.Hash {
	h, err := ApplyGenesis(store, g)
	if err != nil {
		log.Crit("ApplyGenesis", "err", err)
	}
	return h
}
