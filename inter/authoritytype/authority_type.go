// Package authoritytype defines the registry-side representation of
// fiscal authorities: the parties whose signatures make an assessment
// settleable.
package authoritytype

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-splitpay/inter/authoritypk"
)

var (
	// RevokedBit marks an authority whose signing rights were revoked.
	// Revoked entries stay in the registry as tombstones so historical
	// settlements remain attributable, but they no longer authorize
	// new settlements.
	RevokedBit = uint64(1 << 7)

	// OkStatus is an authority with no adverse status bits set.
	OkStatus = uint64(0)
)

// Authority is one registered fiscal authority.
type Authority struct {
	// PubKey verifies the signatures this authority issues over
	// assessment digests.
	PubKey authoritypk.PubKey

	// Status carries the adverse status bits.
	Status uint64
}

// Active reports whether the authority may authorize settlements.
func (a Authority) Active() bool {
	return a.Status&RevokedBit == 0
}

// AuthorityAndAddress pairs an authority with its registry key for
// listings.
type AuthorityAndAddress struct {
	Addr      common.Address
	Authority Authority
}
