package inter

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-splitpay/utils/cser"
)

func maxAssessment() FiscalAssessment {
	huge := new(big.Int).SetBytes(bytes.Repeat([]byte{math.MaxUint8}, 32))
	a := FiscalAssessment{
		InvoiceID:    string(bytes.Repeat([]byte{'9'}, MaxInvoiceIDLen)),
		Seller:       common.BytesToAddress(bytes.Repeat([]byte{math.MaxUint8}, 20)),
		Gross:        new(big.Int).Set(huge),
		CreditOffset: new(big.Int).Set(huge),
	}
	for kind := range a.Tax {
		a.Tax[kind] = new(big.Int).Set(huge)
	}
	return a
}

func randomAssessment(r *rand.Rand) FiscalAssessment {
	var seller common.Address
	r.Read(seller[:])
	a := FiscalAssessment{
		InvoiceID:    common.Bytes2Hex(randomBytes(r, 44)),
		Seller:       seller,
		Gross:        new(big.Int).SetUint64(r.Uint64()),
		CreditOffset: new(big.Int).SetUint64(r.Uint64()),
	}
	for kind := range a.Tax {
		a.Tax[kind] = new(big.Int).SetUint64(r.Uint64())
	}
	return a
}

func randomBytes(r *rand.Rand, n int) []byte {
	bb := make([]byte, n)
	r.Read(bb)
	return bb
}

// TestAssessmentSerialization_RoundTrip verifies that assessments
// survive the binary encoding without data loss.
func TestAssessmentSerialization_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	zero := FiscalAssessment{Gross: big.NewInt(0), CreditOffset: big.NewInt(0)}
	for kind := range zero.Tax {
		zero.Tax[kind] = big.NewInt(0)
	}

	cases := map[string]FiscalAssessment{
		"zero":    zero,
		"typical": testAssessment(),
		"max":     maxAssessment(),
		"random":  randomAssessment(r),
	}

	for name, original := range cases {
		t.Run(name, func(t *testing.T) {
			buf, err := original.MarshalBinary()
			require.NoError(t, err)

			var decoded FiscalAssessment
			require.NoError(t, decoded.UnmarshalBinary(buf))

			assert.Equal(t, original, decoded)
			assert.Equal(t, original.Digest(), decoded.Digest(), "digest must survive the round trip")
		})
	}
}

func TestSimplifiedSerialization_RoundTrip(t *testing.T) {
	cases := map[string]SimplifiedAssessment{
		"zero":    {Gross: big.NewInt(0)},
		"typical": {InvoiceID: "NFe-b2c-001", Seller: common.HexToAddress("0xabcd"), Gross: big.NewInt(200), RateBps: 2650},
		"max":     {InvoiceID: "x", Gross: new(big.Int).SetUint64(math.MaxUint64), RateBps: math.MaxUint64},
	}

	for name, original := range cases {
		t.Run(name, func(t *testing.T) {
			buf, err := original.MarshalBinary()
			require.NoError(t, err)

			var decoded SimplifiedAssessment
			require.NoError(t, decoded.UnmarshalBinary(buf))

			assert.Equal(t, original, decoded)
		})
	}
}

func TestSignedAssessmentSerialization_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	std := testAssessment()
	simp := SimplifiedAssessment{InvoiceID: "NFe-b2c-001", Gross: big.NewInt(200), RateBps: 2650}

	cases := map[string]SignedAssessment{
		"standard":   {Standard: &std, Sig: randomBytes(r, crypto.SignatureLength)},
		"simplified": {Simplified: &simp, Sig: randomBytes(r, crypto.SignatureLength)},
	}

	for name, original := range cases {
		t.Run(name, func(t *testing.T) {
			buf, err := original.MarshalBinary()
			require.NoError(t, err)

			var decoded SignedAssessment
			require.NoError(t, decoded.UnmarshalBinary(buf))

			assert.Equal(t, original, decoded)

			wantDigest, err := original.Digest()
			require.NoError(t, err)
			gotDigest, err := decoded.Digest()
			require.NoError(t, err)
			assert.Equal(t, wantDigest, gotDigest)
		})
	}
}

// TestSignedAssessmentJSON verifies the JSON form used by the CLI
// envelope files.
func TestSignedAssessmentJSON(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	std := testAssessment()
	original := SignedAssessment{Standard: &std, Sig: randomBytes(r, crypto.SignatureLength)}

	buf, err := json.Marshal(&original)
	require.NoError(t, err)

	var decoded SignedAssessment
	require.NoError(t, json.Unmarshal(buf, &decoded))

	require.NotNil(t, decoded.Standard)
	require.Nil(t, decoded.Simplified)
	assert.Equal(t, original.Standard.InvoiceID, decoded.Standard.InvoiceID)
	assert.Equal(t, original.Standard.Seller, decoded.Standard.Seller)
	assert.Equal(t, original.Sig, decoded.Sig)
	assert.Equal(t, original.Standard.Digest(), decoded.Standard.Digest())
}

func TestReceiptSerialization_RoundTrip(t *testing.T) {
	standard := SettlementReceipt{
		Time:        FromUnix(1770000000),
		Digest:      common.HexToHash("0x0102"),
		InvoiceID:   "NFe35260112345678000195550010000000011234567890",
		Payer:       common.HexToAddress("0x00112233445566778899aabbccddeeff00112233"),
		Seller:      common.HexToAddress("0x1234567890123456789012345678901234567890"),
		Regime:      RegimeStandard,
		Gross:       big.NewInt(1000),
		CreditUsed:  big.NewInt(50),
		Reconciled:  big.NewInt(0),
		NetToSeller: big.NewInt(805),
	}
	standard.TaxPaid[KindFederal] = big.NewInt(87)
	standard.TaxPaid[KindState] = big.NewInt(111)
	standard.TaxPaid[KindMunicipal] = big.NewInt(47)

	simplified := SettlementReceipt{
		Time:        FromUnix(1770000001),
		Digest:      common.HexToHash("0x0304"),
		InvoiceID:   "NFe-b2c-001",
		Payer:       common.HexToAddress("0xfeed"),
		Seller:      common.HexToAddress("0xabcd"),
		Regime:      RegimeSimplified,
		Gross:       big.NewInt(200),
		CreditUsed:  big.NewInt(0),
		Reconciled:  big.NewInt(53),
		NetToSeller: big.NewInt(147),
	}
	for kind := range simplified.TaxPaid {
		simplified.TaxPaid[kind] = big.NewInt(0)
	}

	cases := map[string]SettlementReceipt{
		"standard":   standard,
		"simplified": simplified,
	}

	for name, original := range cases {
		t.Run(name, func(t *testing.T) {
			buf, err := original.MarshalBinary()
			require.NoError(t, err)

			var decoded SettlementReceipt
			require.NoError(t, decoded.UnmarshalBinary(buf))

			assert.Equal(t, original, decoded)
		})
	}
}

func TestSerializationErrors(t *testing.T) {
	t.Run("nil amount", func(t *testing.T) {
		a := testAssessment()
		a.Gross = nil
		_, err := a.MarshalBinary()
		require.Equal(t, ErrSerMalformedAssessment, err)
	})

	t.Run("negative amount", func(t *testing.T) {
		a := testAssessment()
		a.Tax[KindState] = big.NewInt(-1)
		_, err := a.MarshalBinary()
		require.Equal(t, ErrSerMalformedAssessment, err)
	})

	t.Run("envelope without assessment", func(t *testing.T) {
		env := SignedAssessment{Sig: make([]byte, crypto.SignatureLength)}
		_, err := env.MarshalBinary()
		require.Equal(t, ErrSerMalformedAssessment, err)
	})

	t.Run("envelope with both assessments", func(t *testing.T) {
		std := testAssessment()
		simp := SimplifiedAssessment{Gross: big.NewInt(1)}
		env := SignedAssessment{Standard: &std, Simplified: &simp, Sig: make([]byte, crypto.SignatureLength)}
		_, err := env.MarshalBinary()
		require.Equal(t, ErrSerMalformedAssessment, err)
	})

	t.Run("short signature", func(t *testing.T) {
		std := testAssessment()
		env := SignedAssessment{Standard: &std, Sig: make([]byte, 10)}
		_, err := env.MarshalBinary()
		require.Equal(t, ErrSerMalformedAssessment, err)
	})

	t.Run("unknown regime on marshal", func(t *testing.T) {
		rec := SettlementReceipt{Regime: Regime(9)}
		_, err := rec.MarshalBinary()
		require.Equal(t, ErrUnknownRegime, err)
	})

	t.Run("unknown regime on unmarshal", func(t *testing.T) {
		raw, err := cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
			w.U64(0)
			w.FixedBytes(make([]byte, common.HashLength))
			w.SliceBytes([]byte("x"))
			w.FixedBytes(make([]byte, common.AddressLength))
			w.FixedBytes(make([]byte, common.AddressLength))
			w.U8(9)
			return nil
		})
		require.NoError(t, err)

		var rec SettlementReceipt
		require.Equal(t, ErrUnknownRegime, rec.UnmarshalBinary(raw))
	})

	t.Run("truncated input", func(t *testing.T) {
		a := testAssessment()
		buf, err := a.MarshalBinary()
		require.NoError(t, err)

		var decoded FiscalAssessment
		require.Error(t, decoded.UnmarshalBinary(buf[:len(buf)/2]))
	})

	t.Run("oversized invoice", func(t *testing.T) {
		a := testAssessment()
		a.InvoiceID = string(bytes.Repeat([]byte{'9'}, MaxInvoiceIDLen+1))
		buf, err := a.MarshalBinary()
		require.NoError(t, err)

		var decoded FiscalAssessment
		require.Equal(t, cser.ErrMalformedEncoding, decoded.UnmarshalBinary(buf))
	})
}
