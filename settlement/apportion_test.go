package settlement

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/rony4d/go-splitpay/inter"
)

func components(federal, state, municipal int64) [inter.NumBeneficiaries]*big.Int {
	var c [inter.NumBeneficiaries]*big.Int
	c[inter.KindFederal] = big.NewInt(federal)
	c[inter.KindState] = big.NewInt(state)
	c[inter.KindMunicipal] = big.NewInt(municipal)
	return c
}

// When no credit was compensated, netTax equals the component total and
// every beneficiary receives exactly its assessed amount.
func TestApportionIdentity(t *testing.T) {
	shares := Apportion(big.NewInt(2450), components(865, 1115, 470))

	for kind, want := range []int64{865, 1115, 470} {
		if shares[kind].Int64() != want {
			t.Errorf("share of %s: got %d, want %d", inter.BeneficiaryKind(kind), shares[kind].Int64(), want)
		}
	}
}

// The prior shares round down and the municipal share takes the
// remainder, so thirds of 100 split as 33/33/34.
func TestApportionRemainder(t *testing.T) {
	shares := Apportion(big.NewInt(100), components(1, 1, 1))

	for kind, want := range []int64{33, 33, 34} {
		if shares[kind].Int64() != want {
			t.Errorf("share of %s: got %d, want %d", inter.BeneficiaryKind(kind), shares[kind].Int64(), want)
		}
	}
}

// The municipal share absorbs rounding dust even when its own assessed
// component is zero.
func TestApportionDustToLast(t *testing.T) {
	shares := Apportion(big.NewInt(7), components(5, 3, 0))

	// floor(7*5/8)=4, floor(7*3/8)=2, remainder 1
	for kind, want := range []int64{4, 2, 1} {
		if shares[kind].Int64() != want {
			t.Errorf("share of %s: got %d, want %d", inter.BeneficiaryKind(kind), shares[kind].Int64(), want)
		}
	}
}

// Zero netTax, zero components and nil components all yield zero
// shares without dividing by zero.
func TestApportionDegenerate(t *testing.T) {
	cases := map[string]struct {
		netTax     *big.Int
		components [inter.NumBeneficiaries]*big.Int
	}{
		"zero net":        {big.NewInt(0), components(865, 1115, 470)},
		"nil net":         {nil, components(865, 1115, 470)},
		"zero components": {big.NewInt(100), components(0, 0, 0)},
		"nil components":  {big.NewInt(100), [inter.NumBeneficiaries]*big.Int{}},
	}

	for name, c := range cases {
		shares := Apportion(c.netTax, c.components)
		for kind := range shares {
			if shares[kind] == nil || shares[kind].Sign() != 0 {
				t.Errorf("%s: share of %s is %v, want zero", name, inter.BeneficiaryKind(kind), shares[kind])
			}
		}
	}
}

// For arbitrary inputs the shares must sum to netTax exactly and stay
// non-negative whenever netTax does not exceed the component total.
func TestApportionExactSum(t *testing.T) {
	rng := rand.New(rand.NewSource(214))

	for i := 0; i < 1000; i++ {
		c := components(rng.Int63n(1e12), rng.Int63n(1e12), rng.Int63n(1e12))
		totalTax := new(big.Int).Add(new(big.Int).Add(c[0], c[1]), c[2])
		if totalTax.Sign() == 0 {
			continue
		}
		netTax := new(big.Int).Rand(rng, new(big.Int).Add(totalTax, big.NewInt(1)))

		shares := Apportion(netTax, c)

		sum := new(big.Int)
		for kind := range shares {
			if shares[kind].Sign() < 0 {
				t.Fatalf("negative share of %s for netTax=%s components=%v", inter.BeneficiaryKind(kind), netTax, c)
			}
			sum.Add(sum, shares[kind])
		}
		if sum.Cmp(netTax) != 0 {
			t.Fatalf("shares sum to %s, want %s (components=%v)", sum, netTax, c)
		}
	}
}
