// Package settlement implements the atomic split payment engine: the
// single component that turns a signed fiscal assessment into money
// movements.
//
// Every settlement runs as one indivisible unit under a single mutex:
// either the idempotency mark, all transfers, the state update and the
// audit record commit together, or none of them do. Rejected calls
// leave the ledger untouched. The engine emits no logs; its receipt
// and the audit record are its only outputs.
package settlement

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-splitpay/inter"
	"github.com/rony4d/go-splitpay/inter/authoritypk"
	"github.com/rony4d/go-splitpay/inter/authoritytype"
	"github.com/rony4d/go-splitpay/inter/iar"
	"github.com/rony4d/go-splitpay/inter/istate"
	"github.com/rony4d/go-splitpay/ledger"
	"github.com/rony4d/go-splitpay/verifier"
)

// Engine executes settlements against a ledger store. Calls are
// serialized: each settlement observes the final state of the previous
// one, which makes the duplicate check-and-mark and the credit
// consumption race-free by construction.
type Engine struct {
	mu    sync.Mutex
	store *ledger.Store
	clock func() inter.Timestamp
}

// New creates an engine over a genesis-initialized store.
func New(store *ledger.Store) *Engine {
	return &Engine{
		store: store,
		clock: func() inter.Timestamp {
			return inter.Timestamp(uint64(time.Now().UnixNano()))
		},
	}
}

// Store exposes the underlying ledger for read-only surfaces such as
// status queries and audit export. All mutations must go through the
// engine.
func (e *Engine) Store() *ledger.Store {
	return e.store
}

// Settle executes whichever assessment the envelope carries. An
// envelope that does not carry exactly one assessment is rejected as
// unauthorized, the same as any other undecodable submission.
func (e *Engine) Settle(payer common.Address, sa *inter.SignedAssessment) (*inter.SettlementReceipt, error) {
	if sa == nil {
		return nil, ErrUnauthorized
	}
	switch {
	case sa.Standard != nil && sa.Simplified == nil:
		return e.SettleStandard(payer, sa.Standard, sa.Sig)
	case sa.Simplified != nil && sa.Standard == nil:
		return e.SettleSimplified(payer, sa.Simplified, sa.Sig)
	}
	return nil, ErrUnauthorized
}

// SettleStandard executes a standard-regime settlement: the payer is
// debited the full gross amount, the seller receives gross minus net
// tax, and the net tax is apportioned across the three beneficiaries
// with the municipal share absorbing the rounding remainder.
//
// The checks run in a fixed order, so when several reasons to reject
// apply, the caller always sees the same one: tax bounds, payer funds,
// offset bounds, duplicate digest, authority signature, seller credit.
func (e *Engine) SettleStandard(payer common.Address, a *inter.FiscalAssessment, sig []byte) (*inter.SettlementReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if a == nil || a.Validate() != nil {
		return nil, ErrUnauthorized
	}
	totalTax := a.TotalTax()
	if totalTax.Cmp(a.Gross) > 0 {
		return nil, ErrTaxExceedsGross
	}
	if e.store.GetBalance(payer).Cmp(a.Gross) < 0 {
		return nil, ErrInsufficientFunds
	}
	if a.CreditOffset.Cmp(totalTax) > 0 {
		return nil, ErrCompensationExceedsTax
	}

	// The digest is recomputed here, never trusted from the transport:
	// the signature check below covers exactly the fields this call is
	// about to settle.
	digest := a.Digest()
	if e.store.IsProcessed(digest) {
		return nil, ErrDuplicateSettlement
	}
	if !e.authorized(digest, sig) {
		return nil, ErrUnauthorized
	}

	offset := a.CreditOffset
	if offset.Sign() > 0 {
		credit := e.store.GetCredit(a.Seller)
		if credit.Cmp(offset) < 0 {
			return nil, ErrInsufficientCredit
		}
		e.store.SetCredit(a.Seller, credit.Sub(credit, offset))
	}

	netTax := new(big.Int).Sub(totalTax, offset)
	shares := Apportion(netTax, a.Tax)
	netToSeller := new(big.Int).Sub(a.Gross, netTax)

	state := e.store.GetLedgerState()
	seq := state.NextSeq()

	// The digest is marked before any transfer is staged, so no
	// interleaving could ever settle it twice.
	e.store.MarkProcessed(digest, seq)
	e.transfer(payer, a.Seller, netToSeller)
	for kind, share := range shares {
		e.transfer(payer, state.Destinations.ByKind(inter.BeneficiaryKind(kind)), share)
	}

	receipt := &inter.SettlementReceipt{
		Time:        e.clock(),
		Digest:      digest,
		InvoiceID:   a.InvoiceID,
		Payer:       payer,
		Seller:      a.Seller,
		Regime:      inter.RegimeStandard,
		Gross:       new(big.Int).Set(a.Gross),
		CreditUsed:  new(big.Int).Set(offset),
		TaxPaid:     shares,
		Reconciled:  new(big.Int),
		NetToSeller: netToSeller,
	}

	state.LastSettlement = istate.SettlementCtx{Seq: seq, Time: receipt.Time, Digest: digest}
	state.CreditOutstanding.Sub(state.CreditOutstanding, offset)
	state.CreditCompensated.Add(state.CreditCompensated, offset)
	for kind, share := range shares {
		state.TaxCollected[kind].Add(state.TaxCollected[kind], share)
	}

	if err := e.finalize(state, receipt, seq); err != nil {
		return nil, err
	}
	return receipt, nil
}

// SettleSimplified executes a flat-rate settlement: the whole tax due
// goes to the reconciliation account in one piece, with no
// per-beneficiary split and no credit compensation. Redistribution out
// of the reconciliation account is a downstream process, not the
// engine's concern.
func (e *Engine) SettleSimplified(payer common.Address, a *inter.SimplifiedAssessment, sig []byte) (*inter.SettlementReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if a == nil || a.Validate() != nil {
		return nil, ErrUnauthorized
	}
	if a.RateBps > inter.MaxRateBps {
		return nil, ErrInvalidRate
	}
	if e.store.GetBalance(payer).Cmp(a.Gross) < 0 {
		return nil, ErrInsufficientFunds
	}

	digest := a.Digest()
	if e.store.IsProcessed(digest) {
		return nil, ErrDuplicateSettlement
	}
	if !e.authorized(digest, sig) {
		return nil, ErrUnauthorized
	}

	totalTax := a.TaxDue()
	netToSeller := new(big.Int).Sub(a.Gross, totalTax)

	state := e.store.GetLedgerState()
	seq := state.NextSeq()

	e.store.MarkProcessed(digest, seq)
	e.transfer(payer, a.Seller, netToSeller)
	e.transfer(payer, state.Destinations.Reconciliation, totalTax)

	receipt := &inter.SettlementReceipt{
		Time:        e.clock(),
		Digest:      digest,
		InvoiceID:   a.InvoiceID,
		Payer:       payer,
		Seller:      a.Seller,
		Regime:      inter.RegimeSimplified,
		Gross:       new(big.Int).Set(a.Gross),
		CreditUsed:  new(big.Int),
		Reconciled:  totalTax,
		NetToSeller: netToSeller,
	}
	for kind := range receipt.TaxPaid {
		receipt.TaxPaid[kind] = new(big.Int)
	}

	state.LastSettlement = istate.SettlementCtx{Seq: seq, Time: receipt.Time, Digest: digest}
	state.Reconciled.Add(state.Reconciled, totalTax)

	if err := e.finalize(state, receipt, seq); err != nil {
		return nil, err
	}
	return receipt, nil
}

// GrantCredit increases a seller's accumulated credit position. Only an
// active fiscal authority may grant, and a single grant may not exceed
// the cap of the active rules. The grant is observable in the ledger
// state, whose hash is committed by the next settlement record.
func (e *Engine) GrantCredit(authority common.Address, seller common.Address, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("credit grant must be positive")
	}
	if !e.store.HasActiveAuthority(authority) {
		return ErrUnauthorized
	}
	state := e.store.GetLedgerState()
	if max := state.Rules.Credits.MaxGrant; max != nil && amount.Cmp(max) > 0 {
		return ErrCreditAboveCap
	}

	credit := e.store.GetCredit(seller)
	e.store.SetCredit(seller, credit.Add(credit, amount))
	state.CreditOutstanding.Add(state.CreditOutstanding, amount)
	e.store.SetLedgerState(state)

	return e.commit()
}

// RegisterAuthority registers (or reactivates) a fiscal authority.
// The key may be left empty to register by address alone; when given,
// it must resolve to the registered address.
func (e *Engine) RegisterAuthority(addr common.Address, pub authoritypk.PubKey) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !pub.Empty() {
		keyAddr, err := pub.Address()
		if err != nil {
			return err
		}
		if keyAddr != addr {
			return fmt.Errorf("authority key resolves to %s, not %s", keyAddr.String(), addr.String())
		}
	}
	e.store.SetAuthority(addr, authoritytype.Authority{
		PubKey: pub.Copy(),
		Status: authoritytype.OkStatus,
	})
	return e.commit()
}

// RevokeAuthority withdraws an authority's signing rights, effective
// for every settlement after this call. Already-settled assessments
// are unaffected. The registry entry remains as a tombstone.
func (e *Engine) RevokeAuthority(addr common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	a := e.store.GetAuthority(addr)
	if a == nil {
		return fmt.Errorf("unknown authority %s", addr.String())
	}
	a.Status |= authoritytype.RevokedBit
	e.store.SetAuthority(addr, *a)
	return e.commit()
}

// UpdateDestinations repoints the three beneficiary accounts. The
// reconciliation account is fixed at genesis and not updatable here.
// The new set must be pairwise distinct, including against the
// reconciliation account.
func (e *Engine) UpdateDestinations(federal, state, municipal common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ls := e.store.GetLedgerState()
	d := ls.Destinations
	d.Federal = federal
	d.State = state
	d.Municipal = municipal
	if err := d.Validate(); err != nil {
		return err
	}
	ls.Destinations = d
	e.store.SetLedgerState(ls)
	return e.commit()
}

// authorized reports whether sig is a valid signature over digest by
// an active fiscal authority. Malformed signatures and wrong signers
// are indistinguishable here: both recover no active authority.
func (e *Engine) authorized(digest common.Hash, sig []byte) bool {
	signer, err := verifier.RecoverSigner(digest, sig)
	if err != nil {
		return false
	}
	return e.store.HasActiveAuthority(signer)
}

// transfer stages a balance movement. Zero-amount transfers are
// skipped entirely. Funds sufficiency was checked up front, so the
// debit cannot go negative.
func (e *Engine) transfer(from, to common.Address, amount *big.Int) {
	if amount == nil || amount.Sign() == 0 {
		return
	}
	debited := e.store.GetBalance(from)
	e.store.SetBalance(from, debited.Sub(debited, amount))
	credited := e.store.GetBalance(to)
	e.store.SetBalance(to, credited.Add(credited, amount))
}

// finalize stages the state update and the audit record, then commits
// the whole settlement.
func (e *Engine) finalize(state istate.LedgerState, receipt *inter.SettlementReceipt, seq idx.Block) error {
	e.store.SetLedgerState(state)

	record := &iar.IdxFullSettlementRecord{Seq: seq}
	record.Receipt = receipt.Copy()
	record.StateHash = state.Hash()
	e.store.SetRecord(record)

	return e.commit()
}

// commit flushes the staged writes; on failure everything staged is
// discarded, so a broken storage layer cannot leave a half-applied
// settlement behind.
func (e *Engine) commit() error {
	if err := e.store.Commit(); err != nil {
		e.store.Rollback()
		return fmt.Errorf("settlement commit failed: %v", err)
	}
	return nil
}
