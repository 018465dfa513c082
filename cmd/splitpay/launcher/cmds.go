// Command definitions and actions of the splitpay binary.

package launcher

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-splitpay/flags"
	"github.com/rony4d/go-splitpay/integration"
	"github.com/rony4d/go-splitpay/inter"
	"github.com/rony4d/go-splitpay/inter/iar"
	"github.com/rony4d/go-splitpay/oracle"
	"github.com/rony4d/go-splitpay/splitpay"
	"github.com/rony4d/go-splitpay/utils/brl"
)

// exportMagic opens every audit export file, followed by a format version
// byte. Each record is then framed as seq (8 bytes, big endian), state
// hash (32 bytes), receipt length (4 bytes, big endian) and the canonical
// receipt encoding.
var exportMagic = []byte("SPAY")

const exportVersion = 1

var (
	demoCommand = cli.Command{
		Name:     "demo",
		Usage:    "Run the reference settlement walkthrough against a fake network",
		Category: "SETTLEMENT COMMANDS",
		Action:   demoAction,
	}
	statusCommand = cli.Command{
		Name:     "status",
		Usage:    "Print the ledger state summary and account balances",
		Category: "SETTLEMENT COMMANDS",
		Action:   statusAction,
	}
	assessCommand = cli.Command{
		Name:     "assess",
		Usage:    "Ask the fiscal authority oracle to compute and sign an assessment",
		Category: "SETTLEMENT COMMANDS",
		Flags:    flags.OracleFlags(),
		Action:   assessAction,
	}
	settleCommand = cli.Command{
		Name:     "settle",
		Usage:    "Settle a signed assessment envelope as a paying account",
		Category: "SETTLEMENT COMMANDS",
		Flags:    flags.SettleFlags(),
		Action:   settleAction,
	}
	auditCommand = cli.Command{
		Name:     "audit",
		Usage:    "Audit trail operations",
		Category: "AUDIT COMMANDS",
		Subcommands: []cli.Command{
			{
				Name:   "export",
				Usage:  "Dump settlement records in the compact audit format (fake networks settle the demo flow first)",
				Flags:  flags.ExportFlags(),
				Action: exportAction,
			},
		},
	}
	checkConfigCommand = cli.Command{
		Name:     "check-config",
		Usage:    "Parse the flags and config file and dump the effective configuration",
		Category: "MISCELLANEOUS COMMANDS",
		Action:   checkConfigAction,
	}
)

// setupNode merges the configs, wires logging and assembles the node.
// Every command that touches the ledger goes through here.
func setupNode(ctx *cli.Context) (*node, Config, error) {
	cfg := MakeAllConfigs(ctx)
	if err := initLogging(cfg.Node.Logging); err != nil {
		return nil, cfg, err
	}
	n, err := makeNode(cfg)
	return n, cfg, err
}

// bootstrapAction is the default action: bring the node up, report the
// deployment in one status line and exit.
func bootstrapAction(ctx *cli.Context) error {
	n, _, err := setupNode(ctx)
	if err != nil {
		return err
	}
	state := n.store.GetLedgerState()
	log.Info("Settlement node ready",
		"network", state.Rules.Name,
		"genesis", n.genesis.String(),
		"settlements", uint64(state.LastSettlement.Seq),
		"supply", brl.Format(state.Supply))
	return nil
}

func demoAction(ctx *cli.Context) error {
	n, cfg, err := setupNode(ctx)
	if err != nil {
		return err
	}
	if cfg.Network.Name != "fake" {
		return fmt.Errorf("the demo settles against deterministic accounts; run it with --network fake")
	}
	return runDemo(n, os.Stdout)
}

func statusAction(ctx *cli.Context) error {
	n, _, err := setupNode(ctx)
	if err != nil {
		return err
	}
	printStatus(os.Stdout, n)
	return nil
}

func assessAction(ctx *cli.Context) error {
	n, cfg, err := setupNode(ctx)
	if err != nil {
		return err
	}
	if n.oracle == nil {
		return fmt.Errorf("the assess command signs with the fake authority key; run it with --network fake")
	}

	seller, err := parseAccount(ctx.String("seller"), cfg)
	if err != nil {
		return err
	}
	sector, err := splitpay.ParseSector(ctx.String("sector"))
	if err != nil {
		return err
	}
	gross := brl.Cents(ctx.Int64("gross"))

	var sa *inter.SignedAssessment
	switch regime := ctx.String("regime"); regime {
	case "standard":
		sa, err = n.oracle.AssessStandard(oracle.StandardRequest{
			Seller:    seller,
			Gross:     gross,
			Sector:    sector,
			InvoiceID: ctx.String("invoice"),
			UseCredit: ctx.Bool("use-credit"),
		})
	case "simplified":
		sa, err = n.oracle.AssessSimplified(oracle.SimplifiedRequest{
			Seller:    seller,
			Gross:     gross,
			Sector:    sector,
			InvoiceID: ctx.String("invoice"),
		})
	default:
		return fmt.Errorf("unknown regime %q (valid: standard, simplified)", regime)
	}
	if err != nil {
		return fmt.Errorf("assessment refused: %v", err)
	}

	digest, err := sa.Digest()
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(sa, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	if path := ctx.String("out"); path != "" {
		if err := ioutil.WriteFile(resolvePath(path), out, 0o644); err != nil {
			return err
		}
		log.Info("Wrote signed assessment", "file", path, "digest", digest.Hex(), "gross", brl.Format(gross))
		return nil
	}
	_, err = os.Stdout.Write(out)
	return err
}

func settleAction(ctx *cli.Context) error {
	n, cfg, err := setupNode(ctx)
	if err != nil {
		return err
	}

	in := ctx.String("in")
	if in == "" {
		return fmt.Errorf("--in with a signed assessment envelope is required")
	}
	raw, err := ioutil.ReadFile(resolvePath(in))
	if err != nil {
		return err
	}
	var sa inter.SignedAssessment
	if err := json.Unmarshal(raw, &sa); err != nil {
		return fmt.Errorf("decode envelope: %v", err)
	}
	payer, err := parseAccount(ctx.String("payer"), cfg)
	if err != nil {
		return err
	}

	receipt, err := n.engine.Settle(payer, &sa)
	if err != nil {
		return fmt.Errorf("settlement rejected: %v", err)
	}
	printReceipt(os.Stdout, receipt, n.store.GetLedgerState().LastSettlement.Seq)
	return nil
}

func exportAction(ctx *cli.Context) error {
	n, cfg, err := setupNode(ctx)
	if err != nil {
		return err
	}
	if cfg.Network.Name == "fake" {
		// the in-memory store starts empty, so give the export the
		// reference traffic to carry
		if err := runDemo(n, ioutil.Discard); err != nil {
			return err
		}
	}

	out := cfg.Export.Out
	if !filepath.IsAbs(out) {
		if err := ensureDir(cfg.Node.DataDir); err != nil {
			return err
		}
		out = filepath.Join(cfg.Node.DataDir, out)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(exportMagic); err != nil {
		return err
	}
	if _, err := f.Write([]byte{exportVersion}); err != nil {
		return err
	}

	state := n.store.GetLedgerState()
	limit := cfg.Export.Limit
	if max := uint64(state.Rules.Settlements.MaxAuditExport); limit == 0 || limit > max {
		limit = max
	}

	var count uint64
	var failure error
	n.store.ForEachRecord(idx.Block(cfg.Export.Start), func(r *iar.IdxFullSettlementRecord) bool {
		if count >= limit {
			return false
		}
		raw, err := r.Receipt.MarshalBinary()
		if err != nil {
			failure = fmt.Errorf("encode record %d: %v", r.Seq, err)
			return false
		}
		frame := append(r.Seq.Bytes(), r.StateHash.Bytes()...)
		frame = append(frame, bigendian.Uint32ToBytes(uint32(len(raw)))...)
		frame = append(frame, raw...)
		if _, err := f.Write(frame); err != nil {
			failure = err
			return false
		}
		count++
		return true
	})
	if failure != nil {
		return failure
	}

	log.Info("Exported audit records", "file", out, "records", count, "start", cfg.Export.Start, "limit", limit)
	fmt.Fprintf(os.Stdout, "Exported %d settlement records to %s\n", count, out)
	return nil
}

func checkConfigAction(ctx *cli.Context) error {
	cfg := MakeAllConfigs(ctx)
	if err := initLogging(cfg.Node.Logging); err != nil {
		return err
	}
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

// printStatus writes the ledger state summary: deployment, activation
// calendar position, running totals and every account balance.
func printStatus(w io.Writer, n *node) {
	state := n.store.GetLedgerState()
	active := state.Rules.UpgradesAt(state.Upgrades, inter.FromUnix(time.Now().Unix()))

	fmt.Fprintf(w, "Network:         %s (id %d)\n", state.Rules.Name, state.Rules.NetworkID)
	fmt.Fprintf(w, "Genesis:         %s\n", n.genesis.String())
	fmt.Fprintf(w, "Active regime:   %s (bits %03b)\n", describeUpgrades(active), active.Bits())
	fmt.Fprintf(w, "Settlements:     %d\n", uint64(state.LastSettlement.Seq))
	if state.LastSettlement.Seq > 0 {
		fmt.Fprintf(w, "Last settlement: %s at %s\n",
			state.LastSettlement.Digest.Hex(), state.LastSettlement.Time.Time().Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Supply:          %s\n", brl.Format(state.Supply))
	fmt.Fprintf(w, "Credit:          outstanding %s, compensated %s\n",
		brl.Format(state.CreditOutstanding), brl.Format(state.CreditCompensated))
	for kind, collected := range state.TaxCollected {
		fmt.Fprintf(w, "Collected %-14s %s\n", inter.BeneficiaryKind(kind).String()+":", brl.Format(collected))
	}
	fmt.Fprintf(w, "Reconciled:      %s\n", brl.Format(state.Reconciled))

	fmt.Fprintln(w, "Balances:")
	n.store.ForEachBalance(func(addr common.Address, balance *big.Int) bool {
		fmt.Fprintf(w, "  %s%s  %s\n", addr.Hex(), accountRole(addr, state.Destinations), brl.Format(balance))
		return true
	})
}

// accountRole labels the reserved settlement accounts in status output.
func accountRole(addr common.Address, d splitpay.Destinations) string {
	switch addr {
	case d.Federal:
		return " (federal treasury)"
	case d.State:
		return " (state treasury)"
	case d.Municipal:
		return " (municipal treasury)"
	case d.Reconciliation:
		return " (reconciliation)"
	}
	return ""
}

func describeUpgrades(u splitpay.Upgrades) string {
	parts := make([]string, 0, 3)
	if u.Cbs {
		parts = append(parts, "CBS")
	}
	if u.Ibs {
		parts = append(parts, "IBS")
	}
	if u.Simplified {
		parts = append(parts, "SIMPLIFIED")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// parseAccount resolves a CLI account argument: a 0x hex address, or the
// index of one of the deterministically funded fake payer accounts.
func parseAccount(s string, cfg Config) (common.Address, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if !common.IsHexAddress(s) {
			return common.Address{}, fmt.Errorf("not a hex account address: %s", s)
		}
		return common.HexToAddress(s), nil
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 {
		return common.Address{}, fmt.Errorf("account must be a hex address or a payer index from 1, got %q", s)
	}
	if cfg.Network.Name != "fake" {
		return common.Address{}, fmt.Errorf("payer indexes only resolve on a fake network; pass a hex address")
	}
	if i > cfg.Network.FakeAccounts {
		return common.Address{}, fmt.Errorf("payer index %d is above the %d funded fake accounts", i, cfg.Network.FakeAccounts)
	}
	return integration.FakeAddr(i), nil
}
