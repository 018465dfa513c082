package ledger

import (
	"math/big"
	"testing"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-splitpay/inter"
	"github.com/rony4d/go-splitpay/inter/authoritytype"
	"github.com/rony4d/go-splitpay/splitpay"
	"github.com/rony4d/go-splitpay/splitpay/genesis"
	"github.com/rony4d/go-splitpay/utils/brl"
)

var (
	testSeller = common.HexToAddress("0x1234567890123456789012345678901234567890")
	testBuyer  = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	testAuth   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
)

func testGenesis() genesis.Genesis {
	return genesis.Genesis{
		Rules: splitpay.FakeRules(),
		Time:  inter.FromUnix(1608600000),
		Extra: []byte("ledger-test"),
		Balances: []genesis.AccountBalance{
			{Addr: testBuyer, Balance: brl.Reais(5000)},
			{Addr: testSeller, Balance: brl.Reais(100)},
		},
		Credits: []genesis.CreditGrant{
			{Addr: testSeller, Amount: brl.Reais(50)},
		},
		Authorities: []authoritytype.AuthorityAndAddress{
			{Addr: testAuth, Authority: authoritytype.Authority{Status: authoritytype.OkStatus}},
		},
		Destinations: splitpay.DefaultDestinations(),
		Upgrades:     genesis.DefaultUpgradeSchedule(),
	}
}

func TestApplyGenesis(t *testing.T) {
	require := require.New(t)
	s := NewMemStore()
	defer s.Close()

	g := testGenesis()
	h, err := s.ApplyGenesis(g)
	require.NoError(err)
	require.Equal(g.Hash(), h)
	require.Equal(&h, s.GetGenesisHash())

	// Monetary positions are seeded
	require.Equal(brl.Reais(5000), s.GetBalance(testBuyer))
	require.Equal(brl.Reais(100), s.GetBalance(testSeller))
	require.Equal(brl.Reais(50), s.GetCredit(testSeller))
	require.True(s.HasActiveAuthority(testAuth))

	// State aggregates match the genesis totals
	ls := s.GetLedgerState()
	require.Equal(brl.Reais(5100), ls.Supply)
	require.Equal(brl.Reais(50), ls.CreditOutstanding)
	require.Equal(0, ls.CreditCompensated.Sign())
	require.Equal(idx.Block(0), ls.LastSettlement.Seq)
	require.Equal(g.Time, ls.LastSettlement.Time)
	require.Equal(g.Destinations, ls.Destinations)
	require.Equal(g.Rules.Name, ls.Rules.Name)
}

func TestApplyGenesisTwice(t *testing.T) {
	require := require.New(t)
	s := NewMemStore()
	defer s.Close()

	g := testGenesis()
	h1, err := s.ApplyGenesis(g)
	require.NoError(err)

	// Same genesis is a no-op
	h2, err := s.ApplyGenesis(g)
	require.NoError(err)
	require.Equal(h1, h2)

	// A different genesis is refused
	other := testGenesis()
	other.Extra = []byte("other-deployment")
	_, err = s.ApplyGenesis(other)
	require.Equal(ErrGenesisMismatch, err)
}

func TestApplyGenesisValidates(t *testing.T) {
	require := require.New(t)
	s := NewMemStore()
	defer s.Close()

	g := testGenesis()
	g.Rules.Credits.MaxGrant = nil
	_, err := s.ApplyGenesis(g)
	require.Error(err)
	require.Nil(s.GetGenesisHash())
}

func TestStoreRollback(t *testing.T) {
	require := require.New(t)
	s := NewMemStore()
	defer s.Close()

	_, err := s.ApplyGenesis(testGenesis())
	require.NoError(err)
	require.Equal(0, s.StagedWrites())

	// Stage mutations of every concern, then discard them
	s.SetBalance(testBuyer, big.NewInt(1))
	s.SetCredit(testSeller, big.NewInt(2))
	s.MarkProcessed(common.HexToHash("0xd1"), 1)
	s.SetRecord(testRecord(1))
	ls := s.GetLedgerState()
	ls.Supply.SetInt64(3)
	s.SetLedgerState(ls)
	require.True(s.StagedWrites() > 0)

	s.Rollback()
	require.Equal(0, s.StagedWrites())
	require.Equal(brl.Reais(5000), s.GetBalance(testBuyer))
	require.Equal(brl.Reais(50), s.GetCredit(testSeller))
	require.False(s.IsProcessed(common.HexToHash("0xd1")))
	// The record cache must not serve the discarded record either
	require.Nil(s.GetRecord(1))
	require.Equal(brl.Reais(5100), s.GetLedgerState().Supply)
}

func TestStoreCommit(t *testing.T) {
	require := require.New(t)
	s := NewMemStore()
	defer s.Close()

	_, err := s.ApplyGenesis(testGenesis())
	require.NoError(err)

	s.SetBalance(testBuyer, big.NewInt(42))
	s.SetRecord(testRecord(1))
	ls := s.GetLedgerState()
	ls.Supply.SetInt64(43)
	s.SetLedgerState(ls)
	require.NoError(s.Commit())

	// Committed writes survive a rollback
	s.Rollback()
	require.Equal(int64(42), s.GetBalance(testBuyer).Int64())
	require.Equal(testRecord(1), s.GetRecord(1))
	require.Equal(int64(43), s.GetLedgerState().Supply.Int64())
}
