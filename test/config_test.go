package test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-splitpay/cmd/splitpay/launcher"
	"github.com/rony4d/go-splitpay/flags"
)

// helper to run MakeAllConfigs with a synthetic CLI context.

func runConfigFromArgs(t *testing.T, args []string) launcher.Config {

	t.Helper()

	app := cli.NewApp()

	app.HideHelp = true
	app.HideVersion = true

	// Register the subset of flags we want to exercise.

	commonFlags := flags.CommonFlags()
	networkFlags := flags.NetworkFlags()
	engineFlags := flags.EngineFlags()

	app.Flags = append(app.Flags, commonFlags...)
	app.Flags = append(app.Flags, networkFlags...)
	app.Flags = append(app.Flags, engineFlags...)

	//	Get an instance of the Config struct that we want to bind to the flags
	var got launcher.Config

	app.Action = func(c *cli.Context) error {
		got = launcher.MakeAllConfigs(c)
		return nil
	}

	if err := app.Run(append([]string{"splitpay"}, args...)); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
	return got
}

// TestMakeAllConfigs_flagOverrides verifies that every command-line flag we declare
// in the launcher correctly overrides the corresponding field in the aggregated
// Config struct. The test iterates through representative flag combinations and
// asserts that MakeAllConfigs applies them as expected.
//
// Each sub-test feeds custom CLI arguments into a synthetic app, invokes
// launcher.MakeAllConfigs, and checks the bits of the resulting struct that should
// have changed.
func TestMakeAllConfigs_flagOverrides(t *testing.T) {

	projectRoot := launcher.GuessProjectRoot()

	tests := []struct {
		name string                                  // descriptive name for the scenario
		args []string                                // CLI arguments to feed into MakeAllConfigs
		want func(t *testing.T, cfg launcher.Config) // assertion helper examining the final config
	}{
		{
			name: "datadir and verbosity",
			args: []string{"--datadir", projectRoot + "/build/devnet/node-data", "--log.verbosity", "4"}, //	NOTE: this is the command line argument that overrides the default data dir and log level
			want: func(t *testing.T, cfg launcher.Config) {

				// Expect the datadir to be overridden by the --datadir flag command line argument.
				if cfg.Node.DataDir != filepath.Join(projectRoot+"/build/devnet/node-data") {
					t.Fatalf("DataDir = %q, want %q", cfg.Node.DataDir, filepath.Join(projectRoot+"/build/devnet/node-data"))
				}
				t.Logf("cfg.Node.DataDir = %q", cfg.Node.DataDir) //	NOTE: this will only be printed if the test fails

				// Expect the verbosity to be overridden by the --log.verbosity flag.
				if cfg.Node.Logging.Verbosity != 4 {
					t.Fatalf("Verbosity = %d, want 4", cfg.Node.Logging.Verbosity)
				}
				t.Logf("cfg.Node.Logging.Verbosity = %d", cfg.Node.Logging.Verbosity) //	NOTE: this will only be printed if the test fails

			},
		},

		{
			name: "network and fakenet",
			args: []string{"--network", "homologacao", "--genesis", "genesis/homolog.json", "--fakenet", "5", "--fakenet.balance", "2500"},
			want: func(t *testing.T, cfg launcher.Config) {
				// network -> Network.Name override
				if cfg.Network.Name != "homologacao" {
					t.Fatalf("Network.Name = %q, want homologacao", cfg.Network.Name)
				}
				// genesis -> GenesisPath
				if cfg.Network.GenesisPath != "genesis/homolog.json" {
					t.Fatalf("GenesisPath = %q, want genesis/homolog.json", cfg.Network.GenesisPath)
				}
				// fakenet -> FakeAccounts, fakenet.balance -> FakeBalanceReais
				if cfg.Network.FakeAccounts != 5 {
					t.Fatalf("FakeAccounts = %d, want 5", cfg.Network.FakeAccounts)
				}
				if cfg.Network.FakeBalanceReais != 2500 {
					t.Fatalf("FakeBalanceReais = %d, want 2500", cfg.Network.FakeBalanceReais)
				}
			},
		},

		{
			name: "store preset and cache",
			args: []string{"--preset", "lite", "--cache", "512"},
			want: func(t *testing.T, cfg launcher.Config) {
				// preset -> Store.Preset selects the named profile
				if cfg.Store.Preset != "lite" {
					t.Fatalf("Store.Preset = %q, want lite", cfg.Store.Preset)
				}
				// cache -> Store.CacheMB overrides the preset budget
				if cfg.Store.CacheMB != 512 {
					t.Fatalf("Store.CacheMB = %d, want 512", cfg.Store.CacheMB)
				}
			},
		},

		{
			name: "logging format and sentry",
			args: []string{"--log.format", "json", "--log.color", "--sentry.dsn", "https://key@sentry.example.com/42"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Node.Logging.Format != "json" {
					t.Fatalf("Logging.Format = %q, want json", cfg.Node.Logging.Format)
				}
				if !cfg.Node.Logging.Color {
					t.Fatal("Logging.Color should be enabled by --log.color")
				}
				if cfg.Node.Logging.SentryDSN != "https://key@sentry.example.com/42" {
					t.Fatalf("Logging.SentryDSN = %q, want the flag value", cfg.Node.Logging.SentryDSN)
				}
			},
		},

		{
			name: "defaults without flags",
			args: []string{},
			want: func(t *testing.T, cfg launcher.Config) {
				// The default datadir lives under the home directory.
				if cfg.Node.DataDir != filepath.Join(launcher.GuessHomeDir(), ".splitpay") {
					t.Fatalf("DataDir = %q, want %q", cfg.Node.DataDir, filepath.Join(launcher.GuessHomeDir(), ".splitpay"))
				}
				// A bare launch comes up on a three-account fake network.
				if cfg.Network.Name != "fake" || cfg.Network.FakeAccounts != 3 {
					t.Fatalf("Network = %q/%d accounts, want fake/3", cfg.Network.Name, cfg.Network.FakeAccounts)
				}
				if cfg.Network.FakeBalanceReais != 10000 {
					t.Fatalf("FakeBalanceReais = %d, want 10000", cfg.Network.FakeBalanceReais)
				}
				if cfg.Store.Preset != "default" {
					t.Fatalf("Store.Preset = %q, want default", cfg.Store.Preset)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := runConfigFromArgs(t, test.args) // build config using the test helper
			test.want(t, cfg)                      // apply the scenario-specific assertions
			t.Logf("args = %#v", test.args)        //	NOTE: this will only be printed if the test fails
		})

	}

}

// TestMakeAllConfigs_configFileMerge verifies that a JSON config file is merged
// below the command line: values from the file replace defaults, and explicit
// flags still win over the file.
func TestMakeAllConfigs_configFileMerge(t *testing.T) {

	dir, err := ioutil.TempDir("", "splitpay-config")
	if err != nil {
		t.Fatalf("TempDir failed: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.json")
	blob := []byte(`{
		"Node":    {"Name": "homolog-node-1"},
		"Network": {"Name": "homologacao", "FakeAccounts": 7},
		"Store":   {"Preset": "archive"}
	}`)
	if err := ioutil.WriteFile(path, blob, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg := runConfigFromArgs(t, []string{"--config", path, "--preset", "lite"})

	// File values apply where no flag overrides them.
	if cfg.Node.Name != "homolog-node-1" {
		t.Fatalf("Node.Name = %q, want homolog-node-1 from the config file", cfg.Node.Name)
	}
	if cfg.Network.Name != "homologacao" {
		t.Fatalf("Network.Name = %q, want homologacao from the config file", cfg.Network.Name)
	}
	if cfg.Network.FakeAccounts != 7 {
		t.Fatalf("FakeAccounts = %d, want 7 from the config file", cfg.Network.FakeAccounts)
	}

	// The explicit --preset flag wins over the file's choice.
	if cfg.Store.Preset != "lite" {
		t.Fatalf("Store.Preset = %q, want the flag value lite over the file's archive", cfg.Store.Preset)
	}

	// Fields the file left out keep their defaults.
	if cfg.Network.FakeBalanceReais != 10000 {
		t.Fatalf("FakeBalanceReais = %d, want the default 10000", cfg.Network.FakeBalanceReais)
	}
}
