// Package genesis defines the configuration structures and validation logic
// for settlement ledger genesis. The genesis establishes the initial state
// every replica of the ledger must agree on: fiscal rules, funded accounts,
// opening credit positions, registered fiscal authorities and the treasury
// destinations.
//
// Key concepts:
//   - Rules: Fiscal parameters (rate tables, credit limits, audit limits)
//   - Balances/Credits: Opening monetary positions of ledger accounts
//   - Authorities: Fiscal authority keys allowed to sign assessments
//   - Destinations: Treasury accounts receiving the split components
//
// The genesis configuration is typically loaded from a file (JSON) or
// generated programmatically for test networks (fakenet).
package genesis

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"time"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-splitpay/inter"
	"github.com/rony4d/go-splitpay/inter/authoritytype"
	"github.com/rony4d/go-splitpay/splitpay"
)

// AccountBalance seeds the opening balance of one ledger account.
type AccountBalance struct {
	Addr    common.Address // Account address
	Balance *big.Int       // Opening balance in wei
}

// CreditGrant seeds the opening tax credit position of one seller.
type CreditGrant struct {
	Addr   common.Address // Seller address holding the credit
	Amount *big.Int       // Credit amount in wei
}

// Genesis is the complete initial configuration of a settlement ledger.
// All replicas must apply an identical genesis; the genesis hash is logged
// at startup so mismatches are caught immediately.
type Genesis struct {
	// Chain identification
	Rules splitpay.Rules  // Fiscal rules active from genesis
	Time  inter.Timestamp // Ledger time of the genesis
	Extra []byte          // Free-form tag describing the deployment

	// Opening monetary state
	Balances []AccountBalance // Funded accounts (buyers, treasuries start empty)
	Credits  []CreditGrant    // Opening credit positions

	// Authorization
	Authorities  []authoritytype.AuthorityAndAddress // Fiscal authority keys allowed to sign
	Destinations splitpay.Destinations               // Treasury accounts for the split components

	// Transition calendar
	Upgrades []splitpay.UpgradeTime // Scheduled regime activations, ordered by time
}

// TotalSupply sums the opening balances. The ledger records this as the
// supply invariant; settlements move funds around but never change it.
func (g Genesis) TotalSupply() *big.Int {
	total := new(big.Int)
	for _, b := range g.Balances {
		if b.Balance != nil {
			total.Add(total, b.Balance)
		}
	}
	return total
}

// TotalCredits sums the opening credit positions.
func (g Genesis) TotalCredits() *big.Int {
	total := new(big.Int)
	for _, c := range g.Credits {
		if c.Amount != nil {
			total.Add(total, c.Amount)
		}
	}
	return total
}

// Validate checks the genesis for internal consistency:
//   - The rules must validate on their own
//   - The destinations must be set and distinct
//   - Opening balances and credits must be present and non-negative
//   - No account may be funded twice
//   - Registered authority keys must resolve to their declared address
//   - The activation schedule must be ordered by time
func (g Genesis) Validate() error {
	if err := g.Rules.Validate(); err != nil {
		return err
	}
	if err := g.Destinations.Validate(); err != nil {
		return err
	}

	seen := map[common.Address]bool{}
	for _, b := range g.Balances {
		if b.Balance == nil || b.Balance.Sign() < 0 {
			return fmt.Errorf("invalid opening balance of account %s", b.Addr.String())
		}
		if seen[b.Addr] {
			return fmt.Errorf("account %s is funded twice", b.Addr.String())
		}
		seen[b.Addr] = true
	}

	seen = map[common.Address]bool{}
	for _, c := range g.Credits {
		if c.Amount == nil || c.Amount.Sign() < 0 {
			return fmt.Errorf("invalid opening credit of seller %s", c.Addr.String())
		}
		if seen[c.Addr] {
			return fmt.Errorf("seller %s is granted credit twice", c.Addr.String())
		}
		seen[c.Addr] = true
	}

	for _, a := range g.Authorities {
		if a.Authority.PubKey.Empty() {
			continue
		}
		addr, err := a.Authority.PubKey.Address()
		if err != nil {
			return err
		}
		if addr != a.Addr {
			return fmt.Errorf("authority key of %s resolves to a different address", a.Addr.String())
		}
	}

	for i := 1; i < len(g.Upgrades); i++ {
		if g.Upgrades[i].Time < g.Upgrades[i-1].Time {
			return fmt.Errorf("activation schedule is not ordered by time")
		}
	}
	return nil
}

// Hash calculates the SHA256 hash of the RLP-encoded genesis. The hash
// identifies the deployment in logs and in the first audit record.
func (g Genesis) Hash() hash.Hash {
	hasher := sha256.New()
	err := rlp.Encode(hasher, &g)
	if err != nil {
		panic("can't hash: " + err.Error())
	}
	return hash.BytesToHash(hasher.Sum(nil))
}

// DefaultUpgradeSchedule returns the LC 214/2025 transition calendar:
// CBS and the simplified regime become effective in 2027, the IBS
// components join with the state/municipal transition in 2029.
func DefaultUpgradeSchedule() []splitpay.UpgradeTime {
	return []splitpay.UpgradeTime{
		{
			Upgrades: splitpay.Upgrades{Cbs: true, Simplified: true},
			Time:     inter.FromUnix(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()),
		},
		{
			Upgrades: splitpay.Upgrades{Cbs: true, Ibs: true, Simplified: true},
			Time:     inter.FromUnix(time.Date(2029, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()),
		},
	}
}
