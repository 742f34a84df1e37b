package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aire-labs/aire/internal/account"
	"github.com/aire-labs/aire/internal/listing"
	"github.com/aire-labs/aire/internal/model"
	"github.com/aire-labs/aire/internal/report"
	"github.com/aire-labs/aire/internal/underwrite"
)

var gradeFlags struct {
	input       model.PropertyInput
	listingURL  string
	rateEnv     string
	extraStress float64
	email       string
	save        bool
	weightsFile string
	jsonOut     bool
	pdfOut      string
}

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Underwrite a single property",
	Long:  "Runs the deterministic underwriting pipeline over one property and prints the grade, score, flags, and narrative.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if gradeFlags.input.Address == "" && gradeFlags.listingURL != "" {
			gradeFlags.input.Address = listing.ExtractAddress(gradeFlags.listingURL)
			if gradeFlags.input.Address == "" {
				return eris.Errorf("could not extract an address from %s; pass --address", gradeFlags.listingURL)
			}
			zap.L().Info("address extracted from listing url",
				zap.String("address", gradeFlags.input.Address))
		}

		engine, err := initEngine(gradeFlags.weightsFile)
		if err != nil {
			return err
		}

		needStore := gradeFlags.save || gradeFlags.email != ""
		if needStore {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			if gradeFlags.email != "" {
				if err := initAccounts(st).Charge(ctx, gradeFlags.email); err != nil {
					if errors.Is(err, account.ErrQuotaExhausted) {
						return eris.New("free analyses exhausted for this email; run `aire unlock` or configure billing")
					}
					return err
				}
			}

			analysis := engine.Analyze(gradeFlags.input, model.ParseRateEnvironment(gradeFlags.rateEnv))
			if gradeFlags.save {
				rec, err := st.SaveAnalysis(ctx, gradeFlags.email, analysis)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Saved run %s\n", rec.ID)
			}
			return emitAnalysis(os.Stdout, analysis)
		}

		analysis := engine.Analyze(gradeFlags.input, model.ParseRateEnvironment(gradeFlags.rateEnv))
		return emitAnalysis(os.Stdout, analysis)
	},
}

func emitAnalysis(out io.Writer, a *model.Analysis) error {
	if gradeFlags.pdfOut != "" {
		memo, err := report.Render(a)
		if err != nil {
			return err
		}
		if err := os.WriteFile(gradeFlags.pdfOut, memo, 0o644); err != nil {
			return eris.Wrapf(err, "write memo %s", gradeFlags.pdfOut)
		}
		fmt.Fprintf(os.Stderr, "Wrote memo %s\n", gradeFlags.pdfOut)
	}

	if gradeFlags.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	formatAnalysis(out, a, gradeFlags.extraStress)
	return nil
}

// formatAnalysis writes the human-readable summary. extraStress only scales
// the displayed DSCR; every graded number is computed before it.
func formatAnalysis(out io.Writer, a *model.Analysis, extraStress float64) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if a.Input.Address != "" {
		fmt.Fprintf(w, "Address:\t%s\n", a.Input.Address)
	}
	fmt.Fprintf(w, "Grade:\t%s (%s)\n", a.Result.Grade, a.Result.Verdict)
	fmt.Fprintf(w, "Score:\t%.1f\n", a.Result.FinalScore)
	fmt.Fprintf(w, "Kill switch:\t%v\n", a.Result.KillSwitch)
	fmt.Fprintf(w, "Penalty:\t%.0f%%\n", a.Result.Penalty*100)
	fmt.Fprintf(w, "Stress DSCR:\t%.2f\n", underwrite.DisplayDSCR(a.Numbers, extraStress))
	fmt.Fprintf(w, "Cap rate:\t%.2f%%\n", a.Numbers.CapRate*100)
	fmt.Fprintf(w, "Cash flow/mo:\t$%.0f\n", a.Numbers.CashFlowMonth)
	fmt.Fprintf(w, "CoC return:\t%.2f%%\n", a.Numbers.CoCReturn*100)

	fmt.Fprintln(w, "\nStrengths:")
	for _, s := range a.Strengths {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	fmt.Fprintln(w, "Risks:")
	for _, r := range a.Risks {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	w.Flush()
}

func init() {
	f := gradeCmd.Flags()
	f.StringVar(&gradeFlags.input.Address, "address", "", "property address")
	f.StringVar(&gradeFlags.listingURL, "listing-url", "", "listing URL to extract the address from")
	f.Float64Var(&gradeFlags.input.Price, "price", 0, "purchase price")
	f.Float64Var(&gradeFlags.input.DownPaymentPct, "down-payment-pct", 20, "down payment percent of price")
	f.Float64Var(&gradeFlags.input.InterestRatePct, "interest-rate-pct", 7.0, "annual mortgage rate percent")
	f.IntVar(&gradeFlags.input.TermYears, "term-years", 30, "loan term in years")
	f.Float64Var(&gradeFlags.input.MonthlyRent, "monthly-rent", 0, "expected monthly rent")
	f.Float64Var(&gradeFlags.input.MonthlyExpenses, "monthly-expenses", 0, "monthly operating expenses excluding debt service")
	f.Float64Var(&gradeFlags.input.VacancyRate, "vacancy-rate", 0.07, "assumed vacancy rate (0-1)")
	f.Float64Var(&gradeFlags.input.ReplacementCost, "replacement-cost", 0, "estimated rebuild cost")
	f.IntVar(&gradeFlags.input.DaysOnMarket, "days-on-market", 0, "days the listing has been on market")
	f.Float64Var(&gradeFlags.input.JobDiversityIndex, "job-diversity", 0.5, "local job diversity index (0-1)")
	f.BoolVar(&gradeFlags.input.RentRegulationRisk, "rent-regulation-risk", false, "flag rent regulation exposure")
	f.StringVar(&gradeFlags.rateEnv, "rate-env", "NORMAL", "rate environment (HIGH or NORMAL)")
	f.Float64Var(&gradeFlags.extraStress, "extra-stress", 0, "additional display-only rent stress (0-1)")
	f.StringVar(&gradeFlags.email, "email", "", "meter this run against an email's quota")
	f.BoolVar(&gradeFlags.save, "save", false, "persist the run to the store")
	f.StringVar(&gradeFlags.weightsFile, "weights-file", "", "YAML weights override file")
	f.BoolVar(&gradeFlags.jsonOut, "json", false, "emit the full analysis as JSON")
	f.StringVar(&gradeFlags.pdfOut, "pdf", "", "also write a PDF memo to this path")

	_ = gradeCmd.MarkFlagRequired("price")
	_ = gradeCmd.MarkFlagRequired("monthly-rent")

	rootCmd.AddCommand(gradeCmd)
}
