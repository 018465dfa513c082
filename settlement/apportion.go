package settlement

import (
	"math/big"

	"github.com/rony4d/go-splitpay/inter"
)

// Apportion splits netTax across the beneficiaries in proportion to the
// assessed tax components, rounding each share down. The split order is
// fixed: Federal, State, Municipal. The last beneficiary receives
// whatever remains after the prior floors, so the shares always sum to
// netTax exactly; the municipal share absorbs the rounding remainder,
// including the degenerate case where its own assessed component is
// zero but the prior floors left dust.
//
// A zero netTax or a zero component total yields all-zero shares.
// Returned shares are freshly allocated and never nil.
func Apportion(netTax *big.Int, components [inter.NumBeneficiaries]*big.Int) [inter.NumBeneficiaries]*big.Int {
	var shares [inter.NumBeneficiaries]*big.Int

	totalTax := new(big.Int)
	for _, amount := range components {
		if amount != nil {
			totalTax.Add(totalTax, amount)
		}
	}
	if netTax == nil || netTax.Sign() == 0 || totalTax.Sign() == 0 {
		for kind := range shares {
			shares[kind] = new(big.Int)
		}
		return shares
	}

	rest := new(big.Int).Set(netTax)
	last := len(components) - 1
	for kind, amount := range components[:last] {
		share := new(big.Int)
		if amount != nil {
			share.Mul(netTax, amount)
			share.Quo(share, totalTax)
		}
		shares[kind] = share
		rest.Sub(rest, share)
	}
	shares[last] = rest
	return shares
}
