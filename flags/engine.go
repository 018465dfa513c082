package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// EngineFlags tunes the settlement engine's store: preset profile and
// cache budget.

func EngineFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "preset",
			Usage: "Configuration preset (default|lite|full|archive)",
			Value: "default",
		},
		cli.IntFlag{
			Name:  "cache",
			Usage: "Megabytes of memory allocated to the audit record caches (overrides the preset)",
		},
	}
}

// SettleFlags isolates the knobs of the settle command, which consumes a
// signed assessment envelope and executes it.
func SettleFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "in",
			Usage: "Path to the signed assessment JSON envelope to settle",
		},
		cli.StringFlag{
			Name:  "payer",
			Usage: "Paying account: hex address or fake payer index (1..N)",
			Value: "1",
		},
	}
}

// ExportFlags isolates the knobs of the audit export command.
func ExportFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "out",
			Usage: "Output file for the exported settlement records (relative paths land in the datadir)",
			Value: "audit.cser",
		},
		cli.Uint64Flag{
			Name:  "start",
			Usage: "First settlement sequence number to export",
			Value: 1,
		},
		cli.Uint64Flag{
			Name:  "limit",
			Usage: "Maximum number of records to export (0 uses the network's audit export limit)",
		},
	}
}
