// Package oracle implements the signer side of the split payment flow:
// the fiscal authority that looks up the active rate tables, computes
// the tax breakdown of an invoice and signs the assessment digest. The
// engine trusts nothing about these numbers except the signature, so
// the oracle is deliberately a separate component with its own key.
package oracle

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/rony4d/go-splitpay/inter"
	"github.com/rony4d/go-splitpay/inter/authoritypk"
	"github.com/rony4d/go-splitpay/ledger"
	"github.com/rony4d/go-splitpay/splitpay"
)

var (
	// ErrInactiveRegime is returned for assessments ahead of the
	// transition calendar: the requested regime collects nothing yet.
	ErrInactiveRegime = errors.New("regime not active: ahead of the transition calendar")

	// ErrUnknownSector is returned for sectors without a rate entry.
	ErrUnknownSector = errors.New("unknown sector: no rate table entry")

	// ErrInvoiceTooLong is returned for invoice identifiers above the
	// intake limit of the active rules.
	ErrInvoiceTooLong = errors.New("invoice id too long")
)

// StandardRequest describes one standard regime invoice to assess.
type StandardRequest struct {
	Seller    common.Address
	Gross     *big.Int
	Sector    splitpay.Sector
	InvoiceID string // generated when empty
	UseCredit bool   // offset up to the seller's accumulated credit
}

// SimplifiedRequest describes one simplified regime invoice to assess.
type SimplifiedRequest struct {
	Seller    common.Address
	Gross     *big.Int
	Sector    splitpay.Sector
	InvoiceID string // generated when empty
}

// Oracle computes and signs fiscal assessments against the rules and
// credit positions currently committed to the ledger. Rate lookups and
// the credit offset read the store at assessment time, so a grant or a
// rules transition is reflected by the very next assessment.
type Oracle struct {
	mu     sync.Mutex
	key    *ecdsa.PrivateKey
	addr   common.Address
	store  *ledger.Store
	clock  func() inter.Timestamp
	issued uint64
}

// New creates an oracle signing with key over the given ledger.
func New(key *ecdsa.PrivateKey, store *ledger.Store) *Oracle {
	return &Oracle{
		key:   key,
		addr:  crypto.PubkeyToAddress(key.PublicKey),
		store: store,
		clock: func() inter.Timestamp {
			return inter.Timestamp(uint64(time.Now().UnixNano()))
		},
	}
}

// Address returns the authority address the oracle signs as.
func (o *Oracle) Address() common.Address {
	return o.addr
}

// PubKey returns the registry form of the oracle's public key.
func (o *Oracle) PubKey() authoritypk.PubKey {
	return authoritypk.PubKey{
		Type: authoritypk.Types.Secp256k1,
		Raw:  crypto.FromECDSAPub(&o.key.PublicKey),
	}
}

// SignaturesIssued returns how many assessments this oracle has signed.
func (o *Oracle) SignaturesIssued() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.issued
}

// AssessStandard computes the per-beneficiary breakdown of a standard
// regime invoice and signs it. Components whose collection is not yet
// active are assessed at zero: during the CBS-only phase of the
// calendar an assessment carries a federal component and nothing else.
//
// With UseCredit set, the assessment offsets the smaller of the
// seller's current credit position and the total tax.
func (o *Oracle) AssessStandard(req StandardRequest) (*inter.SignedAssessment, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := checkGross(req.Gross); err != nil {
		return nil, err
	}
	if !req.Sector.Valid() {
		return nil, ErrUnknownSector
	}

	state := o.store.GetLedgerState()
	invoiceID, err := checkInvoiceID(req.InvoiceID, state.Rules.Settlements.MaxInvoiceID)
	if err != nil {
		return nil, err
	}
	active := state.Rules.UpgradesAt(state.Upgrades, o.clock())
	if !active.Cbs && !active.Ibs {
		return nil, ErrInactiveRegime
	}

	rates := state.Rules.Regimes.StandardFor(req.Sector)
	a := &inter.FiscalAssessment{
		InvoiceID:    invoiceID,
		Seller:       req.Seller,
		Gross:        new(big.Int).Set(req.Gross),
		CreditOffset: new(big.Int),
	}
	for kind := range a.Tax {
		bps := rates.ByKind(inter.BeneficiaryKind(kind))
		if kind == int(inter.KindFederal) {
			if !active.Cbs {
				bps = 0
			}
		} else if !active.Ibs {
			bps = 0
		}
		a.Tax[kind] = taxOf(req.Gross, bps)
	}

	if req.UseCredit {
		credit := o.store.GetCredit(req.Seller)
		total := a.TotalTax()
		if credit.Cmp(total) < 0 {
			a.CreditOffset = credit
		} else {
			a.CreditOffset = total
		}
	}

	return o.seal(&inter.SignedAssessment{Standard: a})
}

// AssessSimplified computes a flat-rate assessment at the sector's
// combined simplified rate and signs it.
func (o *Oracle) AssessSimplified(req SimplifiedRequest) (*inter.SignedAssessment, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := checkGross(req.Gross); err != nil {
		return nil, err
	}
	if !req.Sector.Valid() {
		return nil, ErrUnknownSector
	}

	state := o.store.GetLedgerState()
	invoiceID, err := checkInvoiceID(req.InvoiceID, state.Rules.Settlements.MaxInvoiceID)
	if err != nil {
		return nil, err
	}
	if active := state.Rules.UpgradesAt(state.Upgrades, o.clock()); !active.Simplified {
		return nil, ErrInactiveRegime
	}

	a := &inter.SimplifiedAssessment{
		InvoiceID: invoiceID,
		Seller:    req.Seller,
		Gross:     new(big.Int).Set(req.Gross),
		RateBps:   state.Rules.Regimes.SimplifiedFor(req.Sector),
	}
	return o.seal(&inter.SignedAssessment{Simplified: a})
}

// seal signs the digest of the carried assessment and stamps the
// envelope.
func (o *Oracle) seal(sa *inter.SignedAssessment) (*inter.SignedAssessment, error) {
	digest, err := sa.Digest()
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(accounts.TextHash(digest.Bytes()), o.key)
	if err != nil {
		return nil, fmt.Errorf("assessment signing failed: %v", err)
	}
	sa.Sig = sig
	o.issued++
	return sa, nil
}

func checkGross(gross *big.Int) error {
	if gross == nil || gross.Sign() <= 0 {
		return fmt.Errorf("gross amount must be positive")
	}
	return nil
}

// checkInvoiceID fills in a generated identifier when the caller gave
// none. Generated identifiers are unique per call, so two assessments
// of otherwise identical trades never collide on their digest.
func checkInvoiceID(given string, maxLen uint32) (string, error) {
	if given == "" {
		given = "NFe-" + uuid.New().String()
	}
	if uint32(len(given)) > maxLen {
		return "", ErrInvoiceTooLong
	}
	return given, nil
}

func taxOf(gross *big.Int, bps uint64) *big.Int {
	tax := new(big.Int).Mul(gross, new(big.Int).SetUint64(bps))
	return tax.Quo(tax, big.NewInt(inter.MaxRateBps))
}
