// Package inter defines the core data structures shared between the
// fiscal authority (which signs assessments), the verifier and the
// settlement engine: assessments, their canonical digests, settlement
// receipts and the compact serializers for all of them.
package inter

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// BeneficiaryKind identifies one of the fixed tax destinations of a
// split settlement.
type BeneficiaryKind uint8

const (
	// KindFederal is the federal CBS share.
	KindFederal BeneficiaryKind = iota
	// KindState is the state share of IBS.
	KindState
	// KindMunicipal is the municipal share of IBS.
	KindMunicipal

	// NumBeneficiaries is the number of tax destinations. Tax component
	// arrays are indexed by BeneficiaryKind.
	NumBeneficiaries = int(KindMunicipal) + 1
)

func (k BeneficiaryKind) String() string {
	switch k {
	case KindFederal:
		return "CBS"
	case KindState:
		return "IBS_ESTADO"
	case KindMunicipal:
		return "IBS_MUNICIPIO"
	}
	return "UNKNOWN"
}

// MaxRateBps is the rate denominator: 10000 basis points = 100%.
const MaxRateBps = 10000

// simplifiedTag is mixed into simplified digests so they can never
// collide with standard digests of the same fields.
const simplifiedTag = "SIMPLIFIED"

// FiscalAssessment is a standard-regime tax assessment issued for one
// invoice. Tax components are positional: Tax[KindFederal] is the CBS
// amount, and so on. All amounts are wei-denominated and non-negative.
type FiscalAssessment struct {
	InvoiceID    string                     `json:"invoiceId"`
	Seller       common.Address             `json:"seller"`
	Gross        *big.Int                   `json:"gross"`
	Tax          [NumBeneficiaries]*big.Int `json:"tax"`
	CreditOffset *big.Int                   `json:"creditOffset"`
}

// SimplifiedAssessment is a simplified-regime (Simples Nacional style)
// assessment: a single flat rate over gross, with no per-beneficiary
// breakdown and no credit compensation.
type SimplifiedAssessment struct {
	InvoiceID string         `json:"invoiceId"`
	Seller    common.Address `json:"seller"`
	Gross     *big.Int       `json:"gross"`
	RateBps   uint64         `json:"rateBps"`
}

// TotalTax returns the sum of all tax components. Never nil.
func (a *FiscalAssessment) TotalTax() *big.Int {
	total := new(big.Int)
	for _, amount := range a.Tax {
		if amount != nil {
			total.Add(total, amount)
		}
	}
	return total
}

// TaxDue returns floor(Gross * RateBps / 10000).
func (a *SimplifiedAssessment) TaxDue() *big.Int {
	if a.Gross == nil {
		return new(big.Int)
	}
	tax := new(big.Int).Mul(a.Gross, new(big.Int).SetUint64(a.RateBps))
	return tax.Quo(tax, big.NewInt(MaxRateBps))
}

// Digest returns the canonical digest of the assessment: the keccak256
// of the tightly packed fields, in declaration order, with every
// amount left-padded to 32 bytes. It is both the payload the fiscal
// authority signs and the idempotency key of the settlement.
func (a *FiscalAssessment) Digest() common.Hash {
	buf := make([]byte, 0, len(a.InvoiceID)+common.AddressLength+5*common.HashLength)
	buf = append(buf, a.InvoiceID...)
	buf = append(buf, a.Seller.Bytes()...)
	buf = append(buf, uint256Bytes(a.Gross)...)
	for _, amount := range a.Tax {
		buf = append(buf, uint256Bytes(amount)...)
	}
	buf = append(buf, uint256Bytes(a.CreditOffset)...)
	return crypto.Keccak256Hash(buf)
}

// Digest returns the canonical digest of the simplified assessment.
// The trailing tag keeps the two digest domains disjoint.
func (a *SimplifiedAssessment) Digest() common.Hash {
	buf := make([]byte, 0, len(a.InvoiceID)+common.AddressLength+2*common.HashLength+len(simplifiedTag))
	buf = append(buf, a.InvoiceID...)
	buf = append(buf, a.Seller.Bytes()...)
	buf = append(buf, uint256Bytes(a.Gross)...)
	buf = append(buf, uint256Bytes(new(big.Int).SetUint64(a.RateBps))...)
	buf = append(buf, simplifiedTag...)
	return crypto.Keccak256Hash(buf)
}

func uint256Bytes(v *big.Int) []byte {
	if v == nil {
		return make([]byte, common.HashLength)
	}
	return common.LeftPadBytes(v.Bytes(), common.HashLength)
}

// Validate rejects assessments that are unrepresentable in the wire
// model. Amount signs matter: digests pack magnitudes only, so a
// negative amount would share its digest with the positive one. The
// invoice bound keeps every accepted assessment exportable through
// the compact codec.
func (a *FiscalAssessment) Validate() error {
	if err := validateInvoiceID(a.InvoiceID); err != nil {
		return err
	}
	if err := validateAmount("gross", a.Gross); err != nil {
		return err
	}
	for kind, amount := range a.Tax {
		if err := validateAmount(BeneficiaryKind(kind).String(), amount); err != nil {
			return err
		}
	}
	return validateAmount("credit offset", a.CreditOffset)
}

// Validate rejects simplified assessments that are unrepresentable in
// the wire model. The rate cap itself is checked by the engine.
func (a *SimplifiedAssessment) Validate() error {
	if err := validateInvoiceID(a.InvoiceID); err != nil {
		return err
	}
	return validateAmount("gross", a.Gross)
}

func validateInvoiceID(id string) error {
	if len(id) > MaxInvoiceIDLen {
		return fmt.Errorf("assessment: invoice id longer than %d bytes", MaxInvoiceIDLen)
	}
	return nil
}

func validateAmount(name string, v *big.Int) error {
	if v == nil {
		return fmt.Errorf("assessment: nil %s amount", name)
	}
	if v.Sign() < 0 {
		return fmt.Errorf("assessment: negative %s amount", name)
	}
	return nil
}

// Copy returns a deep copy.
func (a *FiscalAssessment) Copy() FiscalAssessment {
	cp := FiscalAssessment{
		InvoiceID:    a.InvoiceID,
		Seller:       a.Seller,
		Gross:        copyBig(a.Gross),
		CreditOffset: copyBig(a.CreditOffset),
	}
	for kind, amount := range a.Tax {
		cp.Tax[kind] = copyBig(amount)
	}
	return cp
}

// Copy returns a deep copy.
func (a *SimplifiedAssessment) Copy() SimplifiedAssessment {
	cp := *a
	cp.Gross = copyBig(a.Gross)
	return cp
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// SignedAssessment is the transport envelope of one authorized
// assessment: exactly one of Standard or Simplified is set, plus the
// authority's 65-byte signature over the digest.
type SignedAssessment struct {
	Standard   *FiscalAssessment     `json:"standard,omitempty"`
	Simplified *SimplifiedAssessment `json:"simplified,omitempty"`
	Sig        hexutil.Bytes         `json:"sig"`
}

// Digest returns the digest of whichever assessment the envelope
// carries.
func (s *SignedAssessment) Digest() (common.Hash, error) {
	switch {
	case s.Standard != nil && s.Simplified == nil:
		return s.Standard.Digest(), nil
	case s.Simplified != nil && s.Standard == nil:
		return s.Simplified.Digest(), nil
	}
	return common.Hash{}, fmt.Errorf("envelope must carry exactly one assessment")
}
