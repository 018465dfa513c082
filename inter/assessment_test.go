package inter

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssessment() FiscalAssessment {
	a := FiscalAssessment{
		InvoiceID:    "NFe35260112345678000195550010000000011234567890",
		Seller:       common.HexToAddress("0x1234567890123456789012345678901234567890"),
		Gross:        big.NewInt(1000),
		CreditOffset: big.NewInt(0),
	}
	a.Tax[KindFederal] = big.NewInt(87)
	a.Tax[KindState] = big.NewInt(111)
	a.Tax[KindMunicipal] = big.NewInt(47)
	return a
}

// TestDigest_Deterministic checks that the digest is a pure function of
// the assessment fields.
func TestDigest_Deterministic(t *testing.T) {
	a := testAssessment()
	b := a.Copy()
	require.Equal(t, a.Digest(), b.Digest())
}

// TestDigest_CoversEveryField checks that tampering with any single
// field changes the digest.
func TestDigest_CoversEveryField(t *testing.T) {
	baseAssessment := testAssessment()
	base := baseAssessment.Digest()

	mutations := map[string]func(*FiscalAssessment){
		"invoice": func(a *FiscalAssessment) { a.InvoiceID = "NFe00000000000000000000000000000000000000000000" },
		"seller":  func(a *FiscalAssessment) { a.Seller = common.HexToAddress("0xdead") },
		"gross":   func(a *FiscalAssessment) { a.Gross = big.NewInt(1001) },
		"cbs":     func(a *FiscalAssessment) { a.Tax[KindFederal] = big.NewInt(0) },
		"ibs-e":   func(a *FiscalAssessment) { a.Tax[KindState] = big.NewInt(0) },
		"ibs-m":   func(a *FiscalAssessment) { a.Tax[KindMunicipal] = big.NewInt(0) },
		"credit":  func(a *FiscalAssessment) { a.CreditOffset = big.NewInt(1) },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			a := testAssessment()
			mutate(&a)
			assert.NotEqual(t, base, a.Digest())
		})
	}
}

// TestDigest_ComponentOrderMatters checks that moving an amount from
// one beneficiary to another changes the digest even when the total
// stays the same.
func TestDigest_ComponentOrderMatters(t *testing.T) {
	a := testAssessment()
	b := testAssessment()
	b.Tax[KindFederal], b.Tax[KindState] = b.Tax[KindState], b.Tax[KindFederal]

	require.Equal(t, a.TotalTax(), b.TotalTax())
	require.NotEqual(t, a.Digest(), b.Digest())
}

// TestDigest_RegimeDomainsDisjoint checks that a simplified assessment
// never shares a digest with a standard one for the same invoice.
func TestDigest_RegimeDomainsDisjoint(t *testing.T) {
	std := testAssessment()
	simp := SimplifiedAssessment{
		InvoiceID: std.InvoiceID,
		Seller:    std.Seller,
		Gross:     new(big.Int).Set(std.Gross),
		RateBps:   2650,
	}
	require.NotEqual(t, std.Digest(), simp.Digest())
}

func TestTotalTax(t *testing.T) {
	a := testAssessment()
	assert.Equal(t, big.NewInt(245), a.TotalTax())

	var empty FiscalAssessment
	assert.Equal(t, 0, empty.TotalTax().Sign())
}

func TestSimplifiedTaxDue(t *testing.T) {
	tests := []struct {
		gross    int64
		rateBps  uint64
		expected int64
	}{
		{200000, 2650, 53000},
		{1, 2650, 0}, // floors to zero
		{10000, 1, 1},
		{10000, 0, 0},
		{999, 10000, 999}, // 100% rate
	}

	for i, tc := range tests {
		a := SimplifiedAssessment{Gross: big.NewInt(tc.gross), RateBps: tc.rateBps}
		assert.Equal(t, tc.expected, a.TaxDue().Int64(), "case %d", i)
	}

	var empty SimplifiedAssessment
	assert.Equal(t, 0, empty.TaxDue().Sign())
}

func TestValidate(t *testing.T) {
	ok := testAssessment()
	require.NoError(t, ok.Validate())

	nilGross := testAssessment()
	nilGross.Gross = nil
	require.Error(t, nilGross.Validate())

	negTax := testAssessment()
	negTax.Tax[KindState] = big.NewInt(-1)
	require.Error(t, negTax.Validate())

	negCredit := testAssessment()
	negCredit.CreditOffset = big.NewInt(-50)
	require.Error(t, negCredit.Validate())

	longID := testAssessment()
	longID.InvoiceID = strings.Repeat("9", MaxInvoiceIDLen+1)
	require.Error(t, longID.Validate())

	simp := SimplifiedAssessment{Gross: big.NewInt(100)}
	require.NoError(t, simp.Validate())
	simp.Gross = big.NewInt(-100)
	require.Error(t, simp.Validate())
	simp.Gross = big.NewInt(100)
	simp.InvoiceID = strings.Repeat("9", MaxInvoiceIDLen+1)
	require.Error(t, simp.Validate())
}

// TestCopy_Independence checks that mutating a copy leaves the original
// untouched.
func TestCopy_Independence(t *testing.T) {
	a := testAssessment()
	cp := a.Copy()

	cp.Gross.SetInt64(9999)
	cp.Tax[KindFederal].SetInt64(9999)

	assert.Equal(t, int64(1000), a.Gross.Int64())
	assert.Equal(t, int64(87), a.Tax[KindFederal].Int64())
}

func TestBeneficiaryKindString(t *testing.T) {
	assert.Equal(t, "CBS", KindFederal.String())
	assert.Equal(t, "IBS_ESTADO", KindState.String())
	assert.Equal(t, "IBS_MUNICIPIO", KindMunicipal.String())
	assert.Equal(t, "UNKNOWN", BeneficiaryKind(9).String())
}

func TestEnvelopeDigest(t *testing.T) {
	std := testAssessment()

	env := SignedAssessment{Standard: &std}
	d, err := env.Digest()
	require.NoError(t, err)
	require.Equal(t, std.Digest(), d)

	simp := SimplifiedAssessment{InvoiceID: "NFe-1", Gross: big.NewInt(1), RateBps: 100}
	env = SignedAssessment{Simplified: &simp}
	d, err = env.Digest()
	require.NoError(t, err)
	require.Equal(t, simp.Digest(), d)

	_, err = (&SignedAssessment{}).Digest()
	require.Error(t, err)

	_, err = (&SignedAssessment{Standard: &std, Simplified: &simp}).Digest()
	require.Error(t, err)
}
