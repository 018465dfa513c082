// This file maps CLI context to the launcher config struct: defaults first,
// then an optional JSON config file, then flag overrides on top.

package launcher

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/urfave/cli.v1"
)

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Node    NodeConfig
	Network NetworkConfig
	Store   StoreConfig
	Export  ExportConfig
}

type NodeConfig struct {
	DataDir string
	Name    string
	Logging LoggingConfig
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	SentryDSN string
}

type NetworkConfig struct {
	Name             string // fake | homologacao | producao
	GenesisPath      string
	FakeAccounts     int
	FakeBalanceReais int64
}

type StoreConfig struct {
	Preset  string
	CacheMB int // overrides the preset budget when non-zero
}

type ExportConfig struct {
	Out   string
	Start uint64
	Limit uint64
}

// -----------------------------------------------------------------------------
// Default config + builders
// -----------------------------------------------------------------------------

//	defaultConfig builds the launcher config from the Defaults in defaults.go,
//	keeping this file in sync with the documented baseline values.

func defaultConfig() Config {
	d := DefaultConfig()
	return Config{
		Node: NodeConfig{
			DataDir: d.Node.DataDir,
			Name:    d.Node.Name,
			Logging: LoggingConfig{
				Verbosity: d.Logging.Verbosity,
				Format:    d.Logging.Format,
				Color:     d.Logging.Color,
				SentryDSN: d.Logging.SentryDSN,
			},
		},
		Network: NetworkConfig{
			Name:             d.Network.Name,
			GenesisPath:      d.Network.GenesisPath,
			FakeAccounts:     d.Network.FakeAccounts,
			FakeBalanceReais: d.Network.FakeBalanceReais,
		},
		Store: StoreConfig{
			Preset:  d.Storage.Preset,
			CacheMB: d.Storage.CacheMB,
		},
		Export: ExportConfig{
			Out:   d.Export.Out,
			Start: d.Export.Start,
			Limit: d.Export.Limit,
		},
	}
}

// MakeAllConfigs merges defaults, the optional config file, then CLI flag
// overrides into a single config struct.

func MakeAllConfigs(ctx *cli.Context) Config {
	cfg := defaultConfig()

	if file := ctx.GlobalString("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			panic(fmt.Errorf("failed to load config file %s: %v", file, err))
		}
	}

	applyCLIOverrides(ctx, &cfg)

	cfg.Node.DataDir = resolvePath(cfg.Node.DataDir)
	return cfg
}

// -----------------------------------------------------------------------------
// Config-file / CLI wiring
// -----------------------------------------------------------------------------

func loadConfigFile(path string, cfg *Config) error {
	raw, err := ioutil.ReadFile(resolvePath(path))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, cfg)
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.GlobalIsSet("datadir") {
		cfg.Node.DataDir = ctx.GlobalString("datadir")
	}

	if ctx.GlobalIsSet("log.format") {
		cfg.Node.Logging.Format = ctx.GlobalString("log.format")
	}
	if ctx.GlobalIsSet("log.verbosity") {
		cfg.Node.Logging.Verbosity = ctx.GlobalInt("log.verbosity")
	}
	if ctx.GlobalIsSet("log.color") {
		cfg.Node.Logging.Color = ctx.GlobalBool("log.color")
	}
	if ctx.GlobalIsSet("sentry.dsn") {
		cfg.Node.Logging.SentryDSN = ctx.GlobalString("sentry.dsn")
	}

	if ctx.GlobalIsSet("network") {
		cfg.Network.Name = ctx.GlobalString("network")
	}
	if ctx.GlobalIsSet("genesis") {
		cfg.Network.GenesisPath = ctx.GlobalString("genesis")
	}
	if ctx.GlobalIsSet("fakenet") {
		cfg.Network.FakeAccounts = ctx.GlobalInt("fakenet")
	}
	if ctx.GlobalIsSet("fakenet.balance") {
		cfg.Network.FakeBalanceReais = ctx.GlobalInt64("fakenet.balance")
	}

	if ctx.GlobalIsSet("preset") {
		cfg.Store.Preset = ctx.GlobalString("preset")
	}
	if ctx.GlobalIsSet("cache") {
		cfg.Store.CacheMB = ctx.GlobalInt("cache")
	}

	// command-scoped flags
	if ctx.IsSet("out") {
		cfg.Export.Out = ctx.String("out")
	}
	if ctx.IsSet("start") {
		cfg.Export.Start = ctx.Uint64("start")
	}
	if ctx.IsSet("limit") {
		cfg.Export.Limit = ctx.Uint64("limit")
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create datadir %s: %v", dir, err)
	}
	return nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}

func GuessProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd // hit filesystem root without finding go.mod
		}
		dir = parent
	}
}
