package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// CommonFlags returns the base set of CLI flags shared across commands.

func CommonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "Path to a JSON config file merged below the CLI flags",
		},
		cli.StringFlag{
			Name:  "datadir",
			Usage: "Data directory for the split payment settlement node",
			Value: "~/.splitpay",
		},
		cli.StringFlag{
			Name:  "log.format",
			Usage: "Log output format (text|json)",
			Value: "text",
		},
		cli.IntFlag{
			Name:  "log.verbosity",
			Usage: "Logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
			Value: 3,
		},
		cli.BoolFlag{
			Name:  "log.color",
			Usage: "Enable colored log output",
		},
		cli.StringFlag{
			Name:  "sentry.dsn",
			Usage: "Sentry DSN for forwarding error-level logs (empty disables forwarding)",
		},
	}
}

// NetworkFlags covers deployment selection: which fiscal rule set the node
// runs under and where its genesis comes from.

func NetworkFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "network",
			Usage: "Settlement network to run (fake|homologacao|producao)",
			Value: "fake",
		},
		cli.StringFlag{
			Name:  "genesis",
			Usage: "Path to a genesis JSON file (required for homologacao and producao)",
		},
		cli.IntFlag{
			Name:  "fakenet",
			Usage: "Number of deterministically funded payer accounts on a fake network",
			Value: 3,
		},
		cli.Int64Flag{
			Name:  "fakenet.balance",
			Usage: "Opening balance of each fake payer account, in whole reais",
			Value: 10000,
		},
	}
}
