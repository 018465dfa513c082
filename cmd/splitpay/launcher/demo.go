// The reference settlement walkthrough: the six scenarios of the original
// split payment proof of concept, executed end to end on a fake network.

package launcher

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rony4d/go-splitpay/integration"
	"github.com/rony4d/go-splitpay/inter"
	"github.com/rony4d/go-splitpay/oracle"
	"github.com/rony4d/go-splitpay/settlement"
	"github.com/rony4d/go-splitpay/splitpay"
	"github.com/rony4d/go-splitpay/utils/brl"
)

const (
	demoRule   = "----------------------------------------------------------------------"
	demoBanner = "======================================================================"
)

// demoInvoices holds one realistic NFe access key per scenario: model 55
// keys for the B2B scenarios, model 65 for the consumer ones.
var demoInvoices = [...]string{
	"NFe35260112345678000195550010000000011234567890",
	"NFe35260112345678000195550010000000021234567890",
	"NFe35260112345678000195550010000000031234567890",
	"NFe35260112345678000195650010000000041234567890",
	"NFe35260112345678000195650010000000051234567890",
	"NFe35260112345678000195550010000000061234567890",
}

// runDemo walks the six reference scenarios: a plain standard split, one
// with accumulated credits, one at reduced sector rates, two simplified
// consumer sales and a tamper attempt. Each success settles against the
// node's ledger, so the closing summary shows the money actually moved.
func runDemo(n *node, w io.Writer) error {
	if n.oracle == nil {
		return fmt.Errorf("the demo needs the fake authority oracle; run it with --network fake")
	}
	payer := integration.FakeAddr(1)
	seller := integration.FakeAddr(2)

	fmt.Fprintln(w, demoBanner)
	fmt.Fprintln(w, "  SPLIT PAYMENT SETTLEMENT WALKTHROUGH (LC 214/2025)")
	fmt.Fprintln(w, demoBanner)
	fmt.Fprintf(w, "  Fiscal authority: %s\n", n.oracle.Address().Hex())
	fmt.Fprintf(w, "  Payer:            %s\n", payer.Hex())
	fmt.Fprintf(w, "  Seller:           %s\n", seller.Hex())

	// 1: standard split, B2B sale of R$ 1000 at the full rates
	err := demoStandard(n, w, "Standard split, B2B sale", payer, seller,
		demoInvoices[0], brl.Reais(1000), splitpay.SectorPadrao, false)
	if err != nil {
		return err
	}

	// 2: the same sale with R$ 50 of accumulated credits offsetting the tax
	if err := n.engine.GrantCredit(n.oracle.Address(), seller, brl.Reais(50)); err != nil {
		return fmt.Errorf("credit grant: %v", err)
	}
	fmt.Fprintf(w, "\n  Granted %s of accumulated tax credit to the seller.\n", brl.Format(brl.Reais(50)))
	err = demoStandard(n, w, "Standard split with credit compensation", payer, seller,
		demoInvoices[1], brl.Reais(1000), splitpay.SectorPadrao, true)
	if err != nil {
		return err
	}

	// 3: health services settle at the 50% reduced rates
	err = demoStandard(n, w, "Standard split at reduced rates", payer, seller,
		demoInvoices[2], brl.Reais(1000), splitpay.SectorSaude, false)
	if err != nil {
		return err
	}

	// 4: simplified consumer sale, one flat rate into reconciliation
	err = demoSimplified(n, w, "Simplified split, consumer sale", payer, seller,
		demoInvoices[3], brl.Reais(200), splitpay.SectorPadrao)
	if err != nil {
		return err
	}

	// 5: the basic food basket is zero rated in both regimes
	err = demoSimplified(n, w, "Simplified split, exempt sector", payer, seller,
		demoInvoices[4], brl.Reais(200), splitpay.SectorCestaBasica)
	if err != nil {
		return err
	}

	// 6: a tampered assessment is rejected
	if err := demoTamper(n, w, payer, seller); err != nil {
		return err
	}

	state := n.store.GetLedgerState()
	fmt.Fprintln(w)
	fmt.Fprintln(w, demoBanner)
	fmt.Fprintf(w, "  SUMMARY: %d assessments signed, %d settlements executed\n",
		n.oracle.SignaturesIssued(), uint64(state.LastSettlement.Seq))
	fmt.Fprintln(w, demoBanner)
	printStatus(w, n)
	return nil
}

func demoStandard(n *node, w io.Writer, title string, payer, seller common.Address,
	invoice string, gross *big.Int, sector splitpay.Sector, useCredit bool) error {

	sa, err := n.oracle.AssessStandard(oracle.StandardRequest{
		Seller:    seller,
		Gross:     gross,
		Sector:    sector,
		InvoiceID: invoice,
		UseCredit: useCredit,
	})
	if err != nil {
		return fmt.Errorf("%s: assess: %v", title, err)
	}
	receipt, err := n.engine.Settle(payer, sa)
	if err != nil {
		return fmt.Errorf("%s: settle: %v", title, err)
	}
	fmt.Fprintf(w, "\n  %s (%s)\n", title, sector)
	printReceipt(w, receipt, n.store.GetLedgerState().LastSettlement.Seq)
	return nil
}

func demoSimplified(n *node, w io.Writer, title string, payer, seller common.Address,
	invoice string, gross *big.Int, sector splitpay.Sector) error {

	sa, err := n.oracle.AssessSimplified(oracle.SimplifiedRequest{
		Seller:    seller,
		Gross:     gross,
		Sector:    sector,
		InvoiceID: invoice,
	})
	if err != nil {
		return fmt.Errorf("%s: assess: %v", title, err)
	}
	receipt, err := n.engine.Settle(payer, sa)
	if err != nil {
		return fmt.Errorf("%s: settle: %v", title, err)
	}
	fmt.Fprintf(w, "\n  %s (%s, flat rate %d bps)\n", title, sector, sa.Simplified.RateBps)
	printReceipt(w, receipt, n.store.GetLedgerState().LastSettlement.Seq)
	return nil
}

// demoTamper assesses a legitimate sale, zeroes the federal component
// after signing and submits the modified assessment. The engine recomputes
// the digest from what it received, so the recovered signer is no longer
// a registered authority and nothing moves.
func demoTamper(n *node, w io.Writer, payer, seller common.Address) error {
	sa, err := n.oracle.AssessStandard(oracle.StandardRequest{
		Seller:    seller,
		Gross:     brl.Reais(1000),
		Sector:    splitpay.SectorPadrao,
		InvoiceID: demoInvoices[5],
	})
	if err != nil {
		return err
	}
	original := brl.Format(sa.Standard.Tax[inter.KindFederal])
	sa.Standard.Tax[inter.KindFederal] = new(big.Int)

	_, err = n.engine.Settle(payer, sa)

	fmt.Fprintln(w)
	fmt.Fprintln(w, demoRule)
	fmt.Fprintln(w, "  FRAUD ATTEMPT")
	fmt.Fprintln(w, demoRule)
	fmt.Fprintf(w, "  The payer zeroes the %s component (was %s) after the authority\n", inter.KindFederal, original)
	fmt.Fprintln(w, "  signed, then submits the modified assessment.")
	if err != settlement.ErrUnauthorized {
		return fmt.Errorf("tampered assessment was not rejected as unauthorized: %v", err)
	}
	fmt.Fprintf(w, "  Engine verdict: %v\n", err)
	fmt.Fprintln(w, demoRule)
	return nil
}

// printReceipt renders one settlement receipt with the amounts that
// actually moved.
func printReceipt(w io.Writer, r *inter.SettlementReceipt, seq idx.Block) {
	fmt.Fprintln(w, demoRule)
	fmt.Fprintf(w, "  SETTLEMENT %d (%s regime)\n", uint64(seq), r.Regime)
	fmt.Fprintln(w, demoRule)
	fmt.Fprintf(w, "  NFe:            %s\n", r.InvoiceID)
	fmt.Fprintf(w, "  Payer:          %s\n", r.Payer.Hex())
	fmt.Fprintf(w, "  Seller:         %s\n", r.Seller.Hex())
	fmt.Fprintf(w, "  Gross:          %s\n", brl.Format(r.Gross))
	if r.Regime == inter.RegimeStandard {
		for kind, amount := range r.TaxPaid {
			fmt.Fprintf(w, "    %-15s %s\n", inter.BeneficiaryKind(kind).String()+":", brl.Format(amount))
		}
		fmt.Fprintf(w, "    %-15s %s\n", "Credit used:", brl.Format(r.CreditUsed))
	} else {
		fmt.Fprintf(w, "    %-15s %s\n", "Reconciled:", brl.Format(r.Reconciled))
	}
	fmt.Fprintf(w, "    %-15s %s\n", "Total tax:", brl.Format(r.TotalTax()))
	fmt.Fprintf(w, "    %-15s %s\n", "Seller keeps:", brl.Format(r.NetToSeller))
	fmt.Fprintf(w, "  Digest:         %s\n", r.Digest.Hex())
	fmt.Fprintf(w, "  Settled at:     %s\n", r.Time.Time().Format(time.RFC3339))
	fmt.Fprintln(w, demoRule)
}
