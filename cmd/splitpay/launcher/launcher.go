package launcher

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/kvdb/memorydb"
	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-splitpay/flags"
	"github.com/rony4d/go-splitpay/integration"
	"github.com/rony4d/go-splitpay/ledger"
	"github.com/rony4d/go-splitpay/logger"
	"github.com/rony4d/go-splitpay/oracle"
	"github.com/rony4d/go-splitpay/settlement"
	"github.com/rony4d/go-splitpay/splitpay"
	"github.com/rony4d/go-splitpay/splitpay/genesis"
	"github.com/rony4d/go-splitpay/utils/brl"
)

var app = flags.NewApp()

func init() {
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.NetworkFlags()...)
	app.Flags = append(app.Flags, flags.EngineFlags()...)

	app.Action = bootstrapAction
	app.Commands = []cli.Command{
		demoCommand,
		statusCommand,
		assessCommand,
		settleCommand,
		auditCommand,
		checkConfigCommand,
	}
}

// Launch parses the arguments and runs the selected command.
func Launch(args []string) error {
	return app.Run(args)
}

// initLogging wires the operational log chain: a leveled terminal handler,
// mirrored into the logrus stream when a Sentry DSN is configured.
func initLogging(cfg LoggingConfig) error {
	var format log.Format
	if cfg.Format == "json" {
		format = log.JSONFormat()
	} else {
		format = log.TerminalFormat(cfg.Color)
	}
	handler := log.StreamHandler(os.Stderr, format)

	if cfg.SentryDSN != "" {
		if err := logger.SetDSN(cfg.SentryDSN); err != nil {
			return fmt.Errorf("sentry: %v", err)
		}
		handler = log.MultiHandler(handler, logger.SentryHandler())
	}

	log.Root().SetHandler(log.LvlFilterHandler(log.Lvl(cfg.Verbosity), handler))
	return logger.SetLevel(logrusLevel(cfg.Verbosity))
}

// logrusLevel maps the geth-style numeric verbosity onto logrus level names.
func logrusLevel(verbosity int) string {
	switch {
	case verbosity <= 0:
		return "fatal"
	case verbosity == 1:
		return "error"
	case verbosity == 2:
		return "warn"
	case verbosity == 3:
		return "info"
	case verbosity == 4:
		return "debug"
	default:
		return "trace"
	}
}

// node bundles the running pieces of a settlement deployment: the ledger
// store, the engine over it, and, on fake networks, an in-process fiscal
// authority oracle signing with the deterministic authority key.
type node struct {
	cfg     Config
	store   *ledger.Store
	engine  *settlement.Engine
	oracle  *oracle.Oracle // nil unless the network carries a known authority key
	genesis hash.Hash
}

// makeNode assembles a settlement node from the merged config: sizes the
// store from the preset, applies the network's genesis and wires up the
// engine. Fake networks also get the deterministic authority oracle.
func makeNode(cfg Config) (*node, error) {
	preset, err := integration.GetPresetByName(cfg.Store.Preset)
	if err != nil {
		return nil, err
	}
	if cfg.Store.CacheMB > 0 {
		preset.CacheMB = cfg.Store.CacheMB
	}
	store := ledger.NewStore(memorydb.New(), preset.StoreConfig())

	g, err := makeGenesis(cfg.Network)
	if err != nil {
		return nil, err
	}
	h, err := integration.ApplyGenesis(store, g)
	if err != nil {
		return nil, fmt.Errorf("apply genesis: %v", err)
	}

	n := &node{
		cfg:     cfg,
		store:   store,
		engine:  settlement.New(store),
		genesis: h,
	}
	if cfg.Network.Name == "fake" {
		n.oracle = oracle.New(integration.FakeKey(0), store)
	}
	return n, nil
}

// makeGenesis resolves the network selection into a concrete genesis:
// deterministic fake genesis for local networks, a genesis file for the
// real deployments.
func makeGenesis(cfg NetworkConfig) (genesis.Genesis, error) {
	switch cfg.Name {
	case "fake":
		return integration.FakeGenesis(cfg.FakeAccounts, brl.Reais(cfg.FakeBalanceReais)), nil
	case "homologacao", "producao":
		if cfg.GenesisPath == "" {
			return genesis.Genesis{}, fmt.Errorf("network %s requires --genesis with the deployment's genesis file", cfg.Name)
		}
		return loadGenesisFile(cfg.GenesisPath, cfg.Name)
	}
	return genesis.Genesis{}, fmt.Errorf("unknown network %q (valid: fake, homologacao, producao)", cfg.Name)
}

// loadGenesisFile reads and validates a genesis JSON file. A network ID
// that does not match the selected network is refused outright: applying
// a homologation genesis to a production node would settle real payments
// under test authority keys.
func loadGenesisFile(path string, network string) (genesis.Genesis, error) {
	raw, err := ioutil.ReadFile(resolvePath(path))
	if err != nil {
		return genesis.Genesis{}, fmt.Errorf("read genesis file: %v", err)
	}
	var g genesis.Genesis
	if err := json.Unmarshal(raw, &g); err != nil {
		return genesis.Genesis{}, fmt.Errorf("decode genesis file: %v", err)
	}
	if err := g.Validate(); err != nil {
		return genesis.Genesis{}, fmt.Errorf("invalid genesis: %v", err)
	}
	if want := expectedNetworkID(network); g.Rules.NetworkID != want {
		return genesis.Genesis{}, fmt.Errorf("genesis network id %d does not match network %s (want %d)",
			g.Rules.NetworkID, network, want)
	}
	return g, nil
}

func expectedNetworkID(name string) uint64 {
	if name == "producao" {
		return splitpay.ProductionNetworkID
	}
	return splitpay.HomologationNetworkID
}
