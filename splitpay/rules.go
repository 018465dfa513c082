// Package splitpay defines the fiscal rules and configuration parameters for
// split payment settlement networks under LC 214/2025.
//
// This package provides:
//   - Network identification constants (production, homologation, fake)
//   - Sector classification for fiscal assessments (PADRAO, SAUDE, CESTA_BASICA, ...)
//   - Standard regime rate tables for the three split components (CBS, IBS-E, IBS-M)
//   - Simplified regime flat rate tables
//   - Credit compensation limits
//   - Regime activation configuration for the transition calendar
//
// The Rules type serves as the central configuration structure that defines
// all settlement-critical parameters for a given split payment deployment.

package splitpay

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"

	"github.com/rony4d/go-splitpay/inter"
	"github.com/rony4d/go-splitpay/utils/brl"
)

// Network identification constants
const (
	// ProductionNetworkID identifies the production settlement network
	// (214 after Lei Complementar 214/2025)
	ProductionNetworkID uint64 = 214

	// HomologationNetworkID identifies the homologation network used for
	// taxpayer integration testing against real fiscal authority keys
	HomologationNetworkID uint64 = 2142

	// FakeNetworkID identifies local/fake networks used in testing
	FakeNetworkID uint64 = 2143

	// Regime activation flags (bit positions for activation tracking)
	cbsBit        = 1 << 0 // CBS (federal) component active
	ibsBit        = 1 << 1 // IBS (state and municipal) components active
	simplifiedBit = 1 << 2 // simplified flat-rate regime active
)

// Sector classifies an invoice for rate selection. The sector determines
// which row of the regime rate tables applies to an assessment.
type Sector uint8

// Sectors recognized by the rate tables. The codes follow the NFe
// classification vocabulary used by the fiscal authority.
const (
	// SectorPadrao is the default classification for goods and services
	// without a reduced or zero rate
	SectorPadrao Sector = iota

	// SectorSaude covers health services (50% rate reduction)
	SectorSaude

	// SectorEducacao covers education services (50% rate reduction)
	SectorEducacao

	// SectorTransporteColetivo covers public collective transport
	// (50% rate reduction)
	SectorTransporteColetivo

	// SectorCestaBasica covers the national basic food basket (zero rated)
	SectorCestaBasica

	// SectorCombustiveis covers fuels, taxed at the default rates under
	// the single-phase regime
	SectorCombustiveis
)

// NumSectors is the number of recognized sectors
const NumSectors = int(SectorCombustiveis) + 1

// Valid reports whether s names a recognized sector.
func (s Sector) Valid() bool {
	return int(s) < NumSectors
}

// String returns the canonical sector code.
func (s Sector) String() string {
	switch s {
	case SectorPadrao:
		return "PADRAO"
	case SectorSaude:
		return "SAUDE"
	case SectorEducacao:
		return "EDUCACAO"
	case SectorTransporteColetivo:
		return "TRANSPORTE_COLETIVO"
	case SectorCestaBasica:
		return "CESTA_BASICA"
	case SectorCombustiveis:
		return "COMBUSTIVEIS"
	}
	return "UNKNOWN"
}

// ParseSector resolves a canonical sector code to its Sector value.
//
// Parameters:
//   - code: Sector code as emitted by String() (e.g. "SAUDE")
//
// Returns:
//   - Sector: The matching sector
//   - error: Non-nil if the code is not recognized
func ParseSector(code string) (Sector, error) {
	for s := Sector(0); s.Valid(); s++ {
		if s.String() == code {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown sector code: %s", code)
}

// RulesRLP (RLP stands for Recursive Length Prefix, Ethereum's serialization format) is the RLP-serializable version of Rules.
// It contains all fiscal configuration parameters that need to be persisted
// in the ledger state. The Upgrades field is excluded from RLP encoding.
type RulesRLP struct {
	Name      string // Network name identifier (e.g., "producao", "homologacao", "fake")
	NetworkID uint64 // Numeric identifier of the settlement network

	// Regimes options - Standard and simplified rate tables
	Regimes RegimeRules

	// Credits options - Credit compensation limits
	Credits CreditRules

	// Settlements options - Assessment and audit limits
	Settlements SettlementsRules

	// Upgrades - Regime activation flags (not RLP-encoded)
	Upgrades Upgrades `rlp:"-"`
}

// Rules describes the complete fiscal configuration for a split payment network.
// This is the main type used throughout the codebase to access regime parameters.
//
// Note: When implementing Copy(), ensure all non-copiable variables (like *big.Int)
// are properly deep-copied to avoid shared state issues.
type Rules RulesRLP

// SplitRates carries the effective per-beneficiary rates of the standard
// regime for one sector, expressed in basis points of the gross amount.
// The effective rates already include any sector reduction.
type SplitRates struct {
	// FederalBps is the CBS share destined to the federal treasury
	FederalBps uint64

	// StateBps is the IBS share destined to the state treasury
	StateBps uint64

	// MunicipalBps is the IBS share destined to the municipal treasury
	MunicipalBps uint64
}

// ByKind returns the basis point rate for one beneficiary kind.
func (sr SplitRates) ByKind(k inter.BeneficiaryKind) uint64 {
	switch k {
	case inter.KindFederal:
		return sr.FederalBps
	case inter.KindState:
		return sr.StateBps
	case inter.KindMunicipal:
		return sr.MunicipalBps
	}
	return 0
}

// TotalBps returns the combined rate of all three components.
func (sr SplitRates) TotalBps() uint64 {
	return sr.FederalBps + sr.StateBps + sr.MunicipalBps
}

// RegimeRules holds the rate tables for both assessment regimes, indexed
// by sector. Rows for sectors without an explicit rate stay zero, which
// makes the sector effectively exempt.
type RegimeRules struct {
	// Standard maps each sector to its split component rates
	Standard [NumSectors]SplitRates

	// Simplified maps each sector to the flat rate applied to the gross
	// amount when the seller opted into the simplified regime
	Simplified [NumSectors]uint64
}

// StandardFor returns the standard regime rates of a sector.
// Unknown sectors resolve to the zero rates.
func (rr RegimeRules) StandardFor(s Sector) SplitRates {
	if !s.Valid() {
		return SplitRates{}
	}
	return rr.Standard[s]
}

// SimplifiedFor returns the simplified regime flat rate of a sector in
// basis points. Unknown sectors resolve to zero.
func (rr RegimeRules) SimplifiedFor(s Sector) uint64 {
	if !s.Valid() {
		return 0
	}
	return rr.Simplified[s]
}

// CreditRules contains the limits applied to tax credit positions.
type CreditRules struct {
	// MaxGrant is the largest credit amount (in wei) a single
	// administrative grant may register for a seller
	MaxGrant *big.Int
}

// SettlementsRules contains limits for assessment intake and audit export.
type SettlementsRules struct {
	// MaxInvoiceID is the maximum length (in bytes) of an invoice
	// identifier accepted by the fiscal authority
	MaxInvoiceID uint32

	// MaxAuditExport is the maximum number of settlement records
	// returned by a single audit export
	MaxAuditExport idx.Block
}

// Upgrades tracks which parts of the split payment regime are active.
// The transition calendar of LC 214/2025 phases the components in over
// several years, so deployments may start with a partial regime.
type Upgrades struct {
	Cbs        bool // CBS (federal) component collection active
	Ibs        bool // IBS (state and municipal) component collection active
	Simplified bool // simplified flat-rate regime available to opted-in sellers
}

// Bits packs the activation flags into a bitmask for compact storage.
func (u Upgrades) Bits() uint64 {
	b := uint64(0)
	if u.Cbs {
		b |= cbsBit
	}
	if u.Ibs {
		b |= ibsBit
	}
	if u.Simplified {
		b |= simplifiedBit
	}
	return b
}

// UpgradesFromBits unpacks activation flags packed by Bits.
func UpgradesFromBits(b uint64) Upgrades {
	return Upgrades{
		Cbs:        b&cbsBit != 0,
		Ibs:        b&ibsBit != 0,
		Simplified: b&simplifiedBit != 0,
	}
}

// UpgradeTime specifies at which time a set of activation flags becomes
// effective. This allows the transition calendar to be scheduled in the
// genesis instead of requiring redeployments.
type UpgradeTime struct {
	Upgrades Upgrades        // Which regime components are active from Time on
	Time     inter.Timestamp // Time at which the flags take effect
}

// UpgradesAt resolves the activation flags effective at a given time.
//
// Parameters:
//   - tt: Scheduled activations, ordered by time
//   - t: The time to resolve for
//
// Returns:
//   - Upgrades: The flags of the latest schedule entry not after t, or the
//     rules' own Upgrades if no entry applies yet
//
// Each schedule entry replaces the flags wholesale, so disabling a
// component later in the calendar is expressed by an entry without it.
func (r Rules) UpgradesAt(tt []UpgradeTime, t inter.Timestamp) Upgrades {
	u := r.Upgrades
	for _, h := range tt {
		if h.Time > t {
			break
		}
		u = h.Upgrades
	}
	return u
}

// ProductionRules returns the fiscal configuration for the production network.
// Rates follow the effective LC 214/2025 reference rates. No regime component
// is active by default; activation follows the scheduled transition calendar.
func ProductionRules() Rules {
	return Rules{
		Name:        "producao",
		NetworkID:   ProductionNetworkID,
		Regimes:     DefaultRegimeRules(),
		Credits:     DefaultCreditRules(),
		Settlements: DefaultSettlementsRules(),
	}
}

// HomologationRules returns the fiscal configuration for the homologation
// network. Homologation uses the same parameters as production so taxpayer
// integrations are tested against realistic rates.
func HomologationRules() Rules {
	return Rules{
		Name:        "homologacao",
		NetworkID:   HomologationNetworkID,
		Regimes:     DefaultRegimeRules(),
		Credits:     DefaultCreditRules(),
		Settlements: DefaultSettlementsRules(),
	}
}

// FakeRules returns the fiscal configuration for fake/local networks.
// Fake networks keep the production rate tables (so settlement arithmetic
// matches production) but relax the operational limits:
//   - Much higher credit grant limit for test fixtures
//   - All regime components active from genesis
func FakeRules() Rules {
	return Rules{
		Name:        "fake",
		NetworkID:   FakeNetworkID,
		Regimes:     DefaultRegimeRules(),
		Credits:     FakeCreditRules(),
		Settlements: DefaultSettlementsRules(),
		Upgrades: Upgrades{
			Cbs:        true, // All components active for testing
			Ibs:        true,
			Simplified: true,
		},
	}
}

// DefaultRegimeRules returns the reference rate tables of LC 214/2025.
// The standard regime splits the tax into CBS (federal), IBS-E (state) and
// IBS-M (municipal) components. The simplified regime applies one flat rate
// to the gross amount.
func DefaultRegimeRules() RegimeRules {
	full := SplitRates{
		FederalBps:   865,  // 8.65% CBS
		StateBps:     1115, // 11.15% IBS state share
		MunicipalBps: 470,  // 4.70% IBS municipal share
	}
	// 50% reduction of Annex rates for favored sectors
	reduced := SplitRates{
		FederalBps:   433,
		StateBps:     558,
		MunicipalBps: 235,
	}

	rr := RegimeRules{}
	rr.Standard[SectorPadrao] = full
	rr.Standard[SectorSaude] = reduced
	rr.Standard[SectorEducacao] = reduced
	rr.Standard[SectorTransporteColetivo] = reduced
	// SectorCestaBasica stays zero rated
	rr.Standard[SectorCombustiveis] = full

	rr.Simplified[SectorPadrao] = 2650 // 26.5% combined flat rate
	rr.Simplified[SectorSaude] = 1325  // 13.25% for reduced sectors
	rr.Simplified[SectorEducacao] = 1325
	rr.Simplified[SectorTransporteColetivo] = 1325
	// SectorCestaBasica stays zero rated
	rr.Simplified[SectorCombustiveis] = 2650

	return rr
}

// DefaultCreditRules returns the production credit limits.
func DefaultCreditRules() CreditRules {
	return CreditRules{
		MaxGrant: brl.Reais(1000000), // R$ 1M per administrative grant
	}
}

// FakeCreditRules returns relaxed credit limits for fake networks.
// Test fixtures seed large credit positions, so the grant limit is raised
// by three orders of magnitude.
func FakeCreditRules() CreditRules {
	cfg := DefaultCreditRules()
	cfg.MaxGrant = brl.Reais(1000000000) // 1000x the production limit
	return cfg
}

// DefaultSettlementsRules returns the default assessment and audit limits.
// These limits apply to all network types.
func DefaultSettlementsRules() SettlementsRules {
	return SettlementsRules{
		MaxInvoiceID:   inter.MaxInvoiceIDLen, // Matches the wire codec limit
		MaxAuditExport: 10000,                 // Maximum 10k records per export
	}
}

// Validate checks that the rules are internally consistent:
//   - No sector may be taxed above 100% of the gross amount, in either regime
//   - The credit grant limit must be present and non-negative
//   - The invoice identifier limit must allow at least one byte
//
// Returns:
//   - error: Non-nil describing the first violated constraint
func (r Rules) Validate() error {
	for s := Sector(0); s.Valid(); s++ {
		if r.Regimes.Standard[s].TotalBps() > inter.MaxRateBps {
			return fmt.Errorf("standard rates of sector %s exceed the gross amount", s)
		}
		if r.Regimes.Simplified[s] > inter.MaxRateBps {
			return fmt.Errorf("simplified rate of sector %s exceeds the gross amount", s)
		}
	}
	if r.Credits.MaxGrant == nil || r.Credits.MaxGrant.Sign() < 0 {
		return fmt.Errorf("credit grant limit is not set")
	}
	if r.Settlements.MaxInvoiceID == 0 {
		return fmt.Errorf("invoice identifier limit is zero")
	}
	return nil
}

// Copy creates a deep copy of Rules.
// This is necessary because Rules contains pointer types (*big.Int) that
// would be shared in a shallow copy, leading to unintended mutations.
//
// Returns:
//   - Rules: A new Rules instance with all fields properly copied
func (r Rules) Copy() Rules {
	cp := r
	// Deep copy MaxGrant to avoid shared state
	cp.Credits.MaxGrant = new(big.Int).Set(r.Credits.MaxGrant)
	return cp
}

// String returns a JSON representation of Rules for debugging and logging.
// This is useful for inspecting network configuration at runtime.
//
// Returns:
//   - string: JSON-formatted representation of the Rules
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
