package splitpay

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-splitpay/inter"
)

var (
	// FederalTreasuryAddress is the default destination of the CBS component.
	// Address: 0xcb5fede0000000000000000000000000000000f1
	// This address is reserved in the settlement account range
	// (mnemonic: "cb5 fede" for CBS federal).
	FederalTreasuryAddress = common.HexToAddress("0xcb5fede0000000000000000000000000000000f1")

	// StateTreasuryAddress is the default destination of the IBS state share.
	// Address: 0xe57ad000000000000000000000000000000000e5
	// (mnemonic: "e57ad0" for estado).
	StateTreasuryAddress = common.HexToAddress("0xe57ad000000000000000000000000000000000e5")

	// MunicipalTreasuryAddress is the default destination of the IBS municipal share.
	// Address: 0xc1dade0000000000000000000000000000000c17
	// (mnemonic: "c1dade" for cidade).
	MunicipalTreasuryAddress = common.HexToAddress("0xc1dade0000000000000000000000000000000c17")

	// ReconciliationAddress is the default destination of the entire tax of
	// simplified regime settlements, held for later redistribution outside
	// this system.
	// Address: 0xc0c111ac000000000000000000000000000000ca
	// (mnemonic: "c0c111ac" for conciliacao).
	ReconciliationAddress = common.HexToAddress("0xc0c111ac000000000000000000000000000000ca")
)

// Destinations names the accounts that receive tax during settlement.
// The three treasury accounts receive the standard regime split components;
// the reconciliation account receives the undivided tax of simplified
// regime settlements.
//
// The set is part of the ledger state and may be retargeted by the
// administrator, so callers must read it from the store rather than
// assuming the defaults.
type Destinations struct {
	Federal        common.Address // CBS destination
	State          common.Address // IBS state share destination
	Municipal      common.Address // IBS municipal share destination
	Reconciliation common.Address // simplified regime destination
}

// DefaultDestinations returns the reserved treasury accounts used by
// genesis unless overridden.
func DefaultDestinations() Destinations {
	return Destinations{
		Federal:        FederalTreasuryAddress,
		State:          StateTreasuryAddress,
		Municipal:      MunicipalTreasuryAddress,
		Reconciliation: ReconciliationAddress,
	}
}

// ByKind returns the treasury account of one standard split component.
func (d Destinations) ByKind(k inter.BeneficiaryKind) common.Address {
	switch k {
	case inter.KindFederal:
		return d.Federal
	case inter.KindState:
		return d.State
	case inter.KindMunicipal:
		return d.Municipal
	}
	return common.Address{}
}

// SetByKind retargets the treasury account of one standard split component.
func (d *Destinations) SetByKind(k inter.BeneficiaryKind, a common.Address) error {
	switch k {
	case inter.KindFederal:
		d.Federal = a
	case inter.KindState:
		d.State = a
	case inter.KindMunicipal:
		d.Municipal = a
	default:
		return fmt.Errorf("unknown beneficiary kind: %d", k)
	}
	return nil
}

// Validate checks that every destination is set and that no two
// destinations share an account. A zero destination would burn tax;
// shared destinations would make the audit trail ambiguous.
func (d Destinations) Validate() error {
	all := map[common.Address]string{}
	for _, named := range []struct {
		name string
		addr common.Address
	}{
		{"federal", d.Federal},
		{"state", d.State},
		{"municipal", d.Municipal},
		{"reconciliation", d.Reconciliation},
	} {
		if named.addr == (common.Address{}) {
			return fmt.Errorf("%s destination is not set", named.name)
		}
		if prev, ok := all[named.addr]; ok {
			return fmt.Errorf("%s and %s destinations share account %s", prev, named.name, named.addr.String())
		}
		all[named.addr] = named.name
	}
	return nil
}
