package launcher

// Defaults bundles the baseline configuration values the launcher uses
// before config files and CLI flags override them.

type Defaults struct {
	Node    NodeDefaults
	Network NetworkDefaults
	Storage StorageDefaults
	Export  ExportDefaults
	Logging LoggingDefaults
}

// NodeDefaults captures top-level node settings (datadir, identity).

type NodeDefaults struct {
	DataDir string //	Filesystem root where the node keeps everything it writes (exported audit files, future persistence). Changing it lets you run multiple nodes or keep test data isolated.
	Name    string //	Human-readable node identity surfaced in logs and config dumps; helps the operator distinguish instances.
}

// NetworkDefaults selects the fiscal rule set and genesis of the deployment.
type NetworkDefaults struct {
	Name             string //	Which settlement network preset to run: fake (local deterministic accounts, every regime component active), homologacao (production rates, transition calendar gated) or producao. The name decides the rate tables and operational limits the ledger starts with.
	GenesisPath      string //	Path to a genesis JSON file. Required for homologacao and producao, where the funded accounts and authority keys come from the deployment rather than from deterministic test keys.
	FakeAccounts     int    //	How many payer accounts a fake network funds at genesis. The accounts are derived deterministically, so tooling and tests agree on the addresses without sharing key files.
	FakeBalanceReais int64  //	Opening balance of each fake payer account, in whole reais. Large enough that the demo flow never trips the insufficient funds check.
}

// StorageDefaults configures the ledger store caches.
type StorageDefaults struct {
	Preset  string //	Named cache/logging profile (default, lite, full, archive). Presets bundle the cache budget and log level so operators rarely need the individual knobs.
	CacheMB int    //	Memory budget (in megabytes) for the audit record caches. Zero defers to the preset; a non-zero value overrides it.
}

// ExportDefaults tunes the audit export command.
type ExportDefaults struct {
	Out   string //	Output file the exported settlement records are written to, resolved against the datadir when relative.
	Start uint64 //	First settlement sequence number included in an export. Sequence numbers are 1-based.
	Limit uint64 //	Maximum number of records per export. Zero falls back to the limit the network rules allow, so a default export can never exceed what an auditor endpoint would serve.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    //	Log level numeric (0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string //	Log output format (text vs json).
	Color     bool   //	Whether to use ANSI color codes in logs (helpful on terminals, best disabled when piping to files).
	SentryDSN string //	Sentry DSN error-level records are forwarded to. Empty disables forwarding entirely.
}

// DefaultConfig returns a fully populated Defaults instance.

func DefaultConfig() Defaults {
	return Defaults{
		Node: NodeDefaults{
			DataDir: "~/.splitpay",
			Name:    "go-splitpay",
		},
		Network: NetworkDefaults{
			Name:             "fake",
			FakeAccounts:     3,
			FakeBalanceReais: 10000,
		},
		Storage: StorageDefaults{
			Preset:  "default",
			CacheMB: 0,
		},
		Export: ExportDefaults{
			Out:   "audit.cser",
			Start: 1,
			Limit: 0,
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     true,
		},
	}
}
