// Package brl converts between wei-denominated settlement amounts and
// human readable BRL strings. Amounts are carried as integer wei
// (1 real = 1e18 wei) everywhere in the engine; this package exists
// only for display at the edges.
package brl

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	// WeiPerCent is the number of wei in one centavo.
	WeiPerCent = 1e16
	// WeiPerReal is the number of wei in one real.
	WeiPerReal = 1e18
)

// Reais returns n whole reais as a wei amount.
func Reais(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(WeiPerReal))
}

// Cents returns n centavos as a wei amount.
func Cents(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(WeiPerCent))
}

// Format renders wei as "R$ 1,234.56". Sub-cent dust is truncated,
// never rounded up.
func Format(wei *big.Int) string {
	if wei == nil {
		wei = new(big.Int)
	}

	sign := ""
	abs := new(big.Int).Abs(wei)
	if wei.Sign() < 0 {
		sign = "-"
	}

	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(abs, big.NewInt(WeiPerReal), frac)
	cents := frac.Quo(frac, big.NewInt(WeiPerCent))

	return fmt.Sprintf("R$ %s%s.%02d", sign, groupThousands(whole.String()), cents.Uint64())
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
