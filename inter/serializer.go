package inter

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rony4d/go-splitpay/utils/cser"
)

var (
	ErrSerMalformedAssessment = errors.New("serialization of malformed assessment: amounts must be set and non-negative")
	ErrUnknownRegime          = errors.New("unknown settlement regime: supported regimes are standard and simplified")
)

// MaxInvoiceIDLen bounds invoice identifiers on the wire. Real NFe
// access keys are 44 digits; the bound leaves room for prefixed and
// foreign formats.
const MaxInvoiceIDLen = 512

// MarshalCSER serializes the assessment field by field, in digest
// order.
func (a *FiscalAssessment) MarshalCSER(w *cser.Writer) error {
	if a.Validate() != nil {
		return ErrSerMalformedAssessment
	}
	w.SliceBytes([]byte(a.InvoiceID))
	w.FixedBytes(a.Seller.Bytes())
	w.BigInt(a.Gross)
	for _, amount := range a.Tax {
		w.BigInt(amount)
	}
	w.BigInt(a.CreditOffset)
	return nil
}

// UnmarshalCSER is the inverse of MarshalCSER.
func (a *FiscalAssessment) UnmarshalCSER(r *cser.Reader) error {
	a.InvoiceID = string(r.SliceBytes(MaxInvoiceIDLen))
	r.FixedBytes(a.Seller[:])
	a.Gross = r.BigInt()
	for kind := range a.Tax {
		a.Tax[kind] = r.BigInt()
	}
	a.CreditOffset = r.BigInt()
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *FiscalAssessment) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(a.MarshalCSER)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *FiscalAssessment) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, a.UnmarshalCSER)
}

func (a *SimplifiedAssessment) MarshalCSER(w *cser.Writer) error {
	if a.Validate() != nil {
		return ErrSerMalformedAssessment
	}
	w.SliceBytes([]byte(a.InvoiceID))
	w.FixedBytes(a.Seller.Bytes())
	w.BigInt(a.Gross)
	w.VarUint(a.RateBps)
	return nil
}

func (a *SimplifiedAssessment) UnmarshalCSER(r *cser.Reader) error {
	a.InvoiceID = string(r.SliceBytes(MaxInvoiceIDLen))
	r.FixedBytes(a.Seller[:])
	a.Gross = r.BigInt()
	a.RateBps = r.VarUint()
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *SimplifiedAssessment) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(a.MarshalCSER)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *SimplifiedAssessment) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, a.UnmarshalCSER)
}

// MarshalCSER serializes the envelope: a regime bit, the assessment,
// then the fixed-size authority signature.
func (s *SignedAssessment) MarshalCSER(w *cser.Writer) error {
	if len(s.Sig) != crypto.SignatureLength {
		return ErrSerMalformedAssessment
	}
	switch {
	case s.Standard != nil && s.Simplified == nil:
		w.Bool(false)
		if err := s.Standard.MarshalCSER(w); err != nil {
			return err
		}
	case s.Simplified != nil && s.Standard == nil:
		w.Bool(true)
		if err := s.Simplified.MarshalCSER(w); err != nil {
			return err
		}
	default:
		return ErrSerMalformedAssessment
	}
	w.FixedBytes(s.Sig)
	return nil
}

func (s *SignedAssessment) UnmarshalCSER(r *cser.Reader) error {
	if r.Bool() {
		a := &SimplifiedAssessment{}
		if err := a.UnmarshalCSER(r); err != nil {
			return err
		}
		s.Standard, s.Simplified = nil, a
	} else {
		a := &FiscalAssessment{}
		if err := a.UnmarshalCSER(r); err != nil {
			return err
		}
		s.Standard, s.Simplified = a, nil
	}
	sig := make([]byte, crypto.SignatureLength)
	r.FixedBytes(sig)
	s.Sig = sig
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *SignedAssessment) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(s.MarshalCSER)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *SignedAssessment) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, s.UnmarshalCSER)
}

func (rec *SettlementReceipt) MarshalCSER(w *cser.Writer) error {
	if rec.Regime > RegimeSimplified {
		return ErrUnknownRegime
	}
	w.U64(uint64(rec.Time))
	w.FixedBytes(rec.Digest.Bytes())
	w.SliceBytes([]byte(rec.InvoiceID))
	w.FixedBytes(rec.Payer.Bytes())
	w.FixedBytes(rec.Seller.Bytes())
	w.U8(uint8(rec.Regime))
	w.BigInt(bigOrZero(rec.Gross))
	w.BigInt(bigOrZero(rec.CreditUsed))
	for _, amount := range rec.TaxPaid {
		w.BigInt(bigOrZero(amount))
	}
	w.BigInt(bigOrZero(rec.Reconciled))
	w.BigInt(bigOrZero(rec.NetToSeller))
	return nil
}

func (rec *SettlementReceipt) UnmarshalCSER(r *cser.Reader) error {
	rec.Time = Timestamp(r.U64())
	r.FixedBytes(rec.Digest[:])
	rec.InvoiceID = string(r.SliceBytes(MaxInvoiceIDLen))
	r.FixedBytes(rec.Payer[:])
	r.FixedBytes(rec.Seller[:])
	regime := r.U8()
	if regime > uint8(RegimeSimplified) {
		return ErrUnknownRegime
	}
	rec.Regime = Regime(regime)
	rec.Gross = r.BigInt()
	rec.CreditUsed = r.BigInt()
	for kind := range rec.TaxPaid {
		rec.TaxPaid[kind] = r.BigInt()
	}
	rec.Reconciled = r.BigInt()
	rec.NetToSeller = r.BigInt()
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (rec *SettlementReceipt) MarshalBinary() ([]byte, error) {
	return cser.MarshalBinaryAdapter(rec.MarshalCSER)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (rec *SettlementReceipt) UnmarshalBinary(raw []byte) error {
	return cser.UnmarshalBinaryAdapter(raw, rec.UnmarshalCSER)
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
