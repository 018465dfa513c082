// Package iar (Inter Audit Records) defines the structures of the
// settlement audit trail: commitments that tie every executed
// settlement to the ledger state it produced, so an auditor can verify
// the sequence without replaying it.
package iar

import (
	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-splitpay/inter"
)

// SettlementSummary commits to one executed settlement without
// carrying the receipt body. Suitable for export streams where
// bandwidth matters more than detail.
type SettlementSummary struct {
	// Digest is the assessment digest the settlement consumed.
	Digest common.Hash
	// StateHash is the ledger state hash after the settlement applied.
	StateHash hash.Hash
	// ReceiptHash is the hash of the canonical receipt encoding.
	ReceiptHash hash.Hash
	// Time is the settlement time.
	Time inter.Timestamp
}

// FullSettlementRecord pairs the full receipt with the ledger state
// hash recorded after it was applied.
type FullSettlementRecord struct {
	Receipt   inter.SettlementReceipt
	StateHash hash.Hash
}

// IdxFullSettlementRecord wraps a record with its position in the
// settlement sequence.
type IdxFullSettlementRecord struct {
	FullSettlementRecord
	Seq idx.Block
}

// Hash combines all summary fields into a single commitment.
func (s SettlementSummary) Hash() hash.Hash {
	return hash.Of(
		s.Digest.Bytes(),
		s.StateHash.Bytes(),
		s.ReceiptHash.Bytes(),
		s.Time.Bytes(),
	)
}

// Hash reduces the full record to its summary hash, so a stored record
// and its published summary commit to the same value.
func (r FullSettlementRecord) Hash() hash.Hash {
	return SettlementSummary{
		Digest:      r.Receipt.Digest,
		StateHash:   r.StateHash,
		ReceiptHash: inter.CalcReceiptHash(&r.Receipt),
		Time:        r.Receipt.Time,
	}.Hash()
}
