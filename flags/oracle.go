package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// OracleFlags isolates the knobs of the assess command, which asks the
// fiscal authority oracle to compute and sign an assessment.

func OracleFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "regime",
			Usage: "Assessment regime (standard|simplified)",
			Value: "standard",
		},
		cli.StringFlag{
			Name:  "seller",
			Usage: "Selling account: hex address or fake payer index (1..N)",
			Value: "2",
		},
		cli.Int64Flag{
			Name:  "gross",
			Usage: "Gross invoice amount in centavos (e.g. 100000 for R$ 1.000,00)",
			Value: 100000,
		},
		cli.StringFlag{
			Name:  "sector",
			Usage: "Invoice sector code (PADRAO|SAUDE|EDUCACAO|TRANSPORTE_COLETIVO|CESTA_BASICA|COMBUSTIVEIS)",
			Value: "PADRAO",
		},
		cli.StringFlag{
			Name:  "invoice",
			Usage: "Invoice identifier (a fresh one is generated when empty)",
		},
		cli.BoolFlag{
			Name:  "use-credit",
			Usage: "Offset the assessed tax with the seller's accumulated credit",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "File to write the signed assessment envelope to (stdout when empty)",
		},
	}
}
