package inter

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/common"
)

// Regime tells which settlement path produced a receipt.
type Regime uint8

const (
	// RegimeStandard is the per-beneficiary split path.
	RegimeStandard Regime = iota
	// RegimeSimplified is the flat-rate path settling into the
	// reconciliation account.
	RegimeSimplified
)

func (r Regime) String() string {
	switch r {
	case RegimeStandard:
		return "standard"
	case RegimeSimplified:
		return "simplified"
	}
	return "unknown"
}

// SettlementReceipt is the record of one executed settlement. It is
// emitted only after every transfer of the settlement has been applied,
// and is the unit the audit store persists.
type SettlementReceipt struct {
	// Time is when the engine finalized the settlement.
	Time Timestamp `json:"time"`

	// Digest is the canonical assessment digest, which doubles as the
	// settlement's idempotency key.
	Digest common.Hash `json:"digest"`

	InvoiceID string         `json:"invoiceId"`
	Payer     common.Address `json:"payer"`
	Seller    common.Address `json:"seller"`
	Regime    Regime         `json:"regime"`

	Gross *big.Int `json:"gross"`

	// CreditUsed is the amount of accumulated credit consumed to offset
	// tax. Zero on the simplified path.
	CreditUsed *big.Int `json:"creditUsed"`

	// TaxPaid holds the net amount transferred to each beneficiary,
	// indexed by BeneficiaryKind. All zero on the simplified path.
	TaxPaid [NumBeneficiaries]*big.Int `json:"taxPaid"`

	// Reconciled is the flat-rate tax transferred to the reconciliation
	// account. Zero on the standard path.
	Reconciled *big.Int `json:"reconciled"`

	// NetToSeller is what the seller kept after the split.
	NetToSeller *big.Int `json:"netToSeller"`
}

// TotalTax returns the total tax the settlement moved, across either
// path. Never nil.
func (r *SettlementReceipt) TotalTax() *big.Int {
	total := new(big.Int)
	for _, amount := range r.TaxPaid {
		if amount != nil {
			total.Add(total, amount)
		}
	}
	if r.Reconciled != nil {
		total.Add(total, r.Reconciled)
	}
	return total
}

// EstimateSize returns an approximate in-memory size in bytes, used
// for audit cache accounting.
func (r *SettlementReceipt) EstimateSize() int {
	const bigIntSize = 32
	amounts := 4 + NumBeneficiaries // Gross, CreditUsed, Reconciled, NetToSeller and the per-kind shares
	return len(r.InvoiceID) +
		2*common.AddressLength +
		common.HashLength +
		amounts*bigIntSize +
		8 + 1 // Time, Regime
}

// CalcReceiptHash hashes the canonical encoding of a receipt. Panics
// on a receipt the codec cannot represent.
func CalcReceiptHash(r *SettlementReceipt) hash.Hash {
	bb, err := r.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return hash.Of(bb)
}

// Copy returns a deep copy.
func (r *SettlementReceipt) Copy() SettlementReceipt {
	cp := SettlementReceipt{
		Time:        r.Time,
		Digest:      r.Digest,
		InvoiceID:   r.InvoiceID,
		Payer:       r.Payer,
		Seller:      r.Seller,
		Regime:      r.Regime,
		Gross:       copyBig(r.Gross),
		CreditUsed:  copyBig(r.CreditUsed),
		Reconciled:  copyBig(r.Reconciled),
		NetToSeller: copyBig(r.NetToSeller),
	}
	for kind, amount := range r.TaxPaid {
		cp.TaxPaid[kind] = copyBig(amount)
	}
	return cp
}
