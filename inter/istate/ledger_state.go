// Package istate defines the aggregate ledger state maintained across
// settlements. The state is hashed after every executed settlement and
// chained into the audit records, so any divergence between two replicas
// of the ledger becomes visible at the first differing record.
package istate

import (
	"crypto/sha256"
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-splitpay/inter"
	"github.com/rony4d/go-splitpay/splitpay"
)

// SettlementCtx is the short context of the last executed settlement.
type SettlementCtx struct {
	// Seq is the 1-based sequence number of the settlement. It equals the
	// number of settlements executed so far, so the zero value means none.
	Seq idx.Block

	// Time is the ledger time at which the settlement executed
	Time inter.Timestamp

	// Digest is the assessment digest the settlement was keyed by
	Digest common.Hash
}

// LedgerState aggregates the running totals of the settlement ledger.
type LedgerState struct {
	LastSettlement SettlementCtx

	// Monetary aggregates, all in wei

	// Supply is the total balance held across all ledger accounts.
	// Settlements move funds between accounts and never mint or burn,
	// so Supply only changes through genesis and administrative funding.
	Supply *big.Int

	// CreditOutstanding is the total of granted but not yet consumed
	// tax credits
	CreditOutstanding *big.Int

	// CreditCompensated is the cumulative credit consumed as offsets
	CreditCompensated *big.Int

	// TaxCollected is the cumulative standard regime tax routed to each
	// beneficiary kind
	TaxCollected [inter.NumBeneficiaries]*big.Int

	// Reconciled is the cumulative simplified regime tax routed to the
	// reconciliation account
	Reconciled *big.Int

	// Fiscal configuration

	Rules        splitpay.Rules
	Upgrades     []splitpay.UpgradeTime // scheduled regime activations, ordered by time
	Destinations splitpay.Destinations
}

// NextSeq returns the sequence number the next settlement will receive.
func (ls LedgerState) NextSeq() idx.Block {
	return ls.LastSettlement.Seq + 1
}

// TotalCollected returns the sum of all tax ever routed to beneficiaries,
// across both regimes.
func (ls LedgerState) TotalCollected() *big.Int {
	total := new(big.Int)
	for _, v := range ls.TaxCollected {
		if v != nil {
			total.Add(total, v)
		}
	}
	if ls.Reconciled != nil {
		total.Add(total, ls.Reconciled)
	}
	return total
}

// Copy returns a deep copy of the ledger state.
func (ls LedgerState) Copy() LedgerState {
	cp := ls
	// Deep copy big.Int pointers
	cp.Supply = copyBigInt(ls.Supply)
	cp.CreditOutstanding = copyBigInt(ls.CreditOutstanding)
	cp.CreditCompensated = copyBigInt(ls.CreditCompensated)
	for i := range cp.TaxCollected {
		cp.TaxCollected[i] = copyBigInt(ls.TaxCollected[i])
	}
	cp.Reconciled = copyBigInt(ls.Reconciled)
	// Deep copy slices and rules
	cp.Upgrades = make([]splitpay.UpgradeTime, len(ls.Upgrades))
	copy(cp.Upgrades, ls.Upgrades)
	if ls.Rules != (splitpay.Rules{}) {
		cp.Rules = ls.Rules.Copy()
	}
	return cp
}

// Hash calculates the SHA256 hash of the RLP-encoded LedgerState.
// This hash effectively fingerprints the entire ledger state after a settlement.
func (ls LedgerState) Hash() hash.Hash {
	hasher := sha256.New()
	err := rlp.Encode(hasher, &ls)
	if err != nil {
		panic("can't hash: " + err.Error())
	}
	return hash.BytesToHash(hasher.Sum(nil))
}

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
