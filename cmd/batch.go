package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aire-labs/aire/internal/model"
)

var batchFlags struct {
	inputPath   string
	rateEnv     string
	concurrency int
	format      string
	outPath     string
	save        bool
	weightsFile string
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Underwrite a CSV of properties",
	Long:  "Reads properties from a CSV file, grades them concurrently, and emits a table, CSV, or XLSX summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f, err := os.Open(batchFlags.inputPath)
		if err != nil {
			return eris.Wrapf(err, "open %s", batchFlags.inputPath)
		}
		defer f.Close()

		inputs, err := parseBatchCSV(f)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			fmt.Fprintln(os.Stderr, "No properties in input.")
			return nil
		}

		engine, err := initEngine(batchFlags.weightsFile)
		if err != nil {
			return err
		}
		env := model.ParseRateEnvironment(batchFlags.rateEnv)

		results := make([]*model.Analysis, len(inputs))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchFlags.concurrency)
		for i, input := range inputs {
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				results[i] = engine.Analyze(input, env)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch underwrite")
		}

		if batchFlags.save {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			for _, a := range results {
				if _, err := st.SaveAnalysis(ctx, "", a); err != nil {
					return err
				}
			}
			zap.L().Info("batch saved", zap.Int("runs", len(results)))
		}

		return emitBatch(results)
	},
}

// parseBatchCSV reads property inputs from a headed CSV. Column order is
// free; unknown columns are ignored.
func parseBatchCSV(r io.Reader) ([]model.PropertyInput, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "read csv header")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["price"]; !ok {
		return nil, eris.New("csv header must include a price column")
	}

	var inputs []model.PropertyInput
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, eris.Wrapf(err, "read csv line %d", line)
		}

		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		var p model.PropertyInput
		p.Address = field("address")
		if p.Price, err = parseFloatField(field("price"), "price", line); err != nil {
			return nil, err
		}
		if p.DownPaymentPct, err = parseFloatField(field("down_payment_pct"), "down_payment_pct", line); err != nil {
			return nil, err
		}
		if p.InterestRatePct, err = parseFloatField(field("interest_rate_pct"), "interest_rate_pct", line); err != nil {
			return nil, err
		}
		if p.TermYears, err = parseIntField(field("term_years"), "term_years", line); err != nil {
			return nil, err
		}
		if p.MonthlyRent, err = parseFloatField(field("monthly_rent"), "monthly_rent", line); err != nil {
			return nil, err
		}
		if p.MonthlyExpenses, err = parseFloatField(field("monthly_expenses"), "monthly_expenses", line); err != nil {
			return nil, err
		}
		if p.VacancyRate, err = parseFloatField(field("vacancy_rate"), "vacancy_rate", line); err != nil {
			return nil, err
		}
		if p.ReplacementCost, err = parseFloatField(field("replacement_cost"), "replacement_cost", line); err != nil {
			return nil, err
		}
		if p.DaysOnMarket, err = parseIntField(field("days_on_market"), "days_on_market", line); err != nil {
			return nil, err
		}
		if p.JobDiversityIndex, err = parseFloatField(field("job_diversity_index"), "job_diversity_index", line); err != nil {
			return nil, err
		}
		p.RentRegulationRisk = parseBoolField(field("rent_regulation_risk"))

		inputs = append(inputs, p)
	}
	return inputs, nil
}

func parseFloatField(s, name string, line int) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "csv line %d: parse %s", line, name)
	}
	return v, nil
}

func parseIntField(s, name string, line int) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, eris.Wrapf(err, "csv line %d: parse %s", line, name)
	}
	return v, nil
}

func parseBoolField(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}

func emitBatch(results []*model.Analysis) error {
	switch batchFlags.format {
	case "table":
		formatBatchTable(os.Stdout, results)
		return nil
	case "csv":
		out := io.Writer(os.Stdout)
		if batchFlags.outPath != "" {
			f, err := os.Create(batchFlags.outPath)
			if err != nil {
				return eris.Wrapf(err, "create %s", batchFlags.outPath)
			}
			defer f.Close()
			out = f
		}
		return writeBatchCSV(out, results)
	case "xlsx":
		if batchFlags.outPath == "" {
			return eris.New("xlsx output requires --out")
		}
		return writeBatchXLSX(batchFlags.outPath, results)
	default:
		return eris.Errorf("unknown output format: %s", batchFlags.format)
	}
}

func formatBatchTable(out io.Writer, results []*model.Analysis) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tGRADE\tVERDICT\tSCORE\tKILL\tDSCR\tFLAGS")
	for _, a := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%v\t%.2f\t%d\n",
			a.Input.Address, a.Result.Grade, a.Result.Verdict,
			a.Result.FinalScore, a.Result.KillSwitch, a.Numbers.DSCRStress, len(a.Flags))
	}
	w.Flush()
}

var batchResultColumns = []string{"address", "grade", "verdict", "score", "kill_switch", "penalty", "dscr_stress", "cap_rate", "flags"}

func batchResultRow(a *model.Analysis) []string {
	msgs := make([]string, len(a.Flags))
	for i, f := range a.Flags {
		msgs[i] = f.Message
	}
	return []string{
		a.Input.Address,
		string(a.Result.Grade),
		string(a.Result.Verdict),
		fmt.Sprintf("%.1f", a.Result.FinalScore),
		strconv.FormatBool(a.Result.KillSwitch),
		fmt.Sprintf("%.2f", a.Result.Penalty),
		fmt.Sprintf("%.3f", a.Numbers.DSCRStress),
		fmt.Sprintf("%.4f", a.Numbers.CapRate),
		strings.Join(msgs, "; "),
	}
}

func writeBatchCSV(out io.Writer, results []*model.Analysis) error {
	w := csv.NewWriter(out)
	if err := w.Write(batchResultColumns); err != nil {
		return eris.Wrap(err, "write csv header")
	}
	for _, a := range results {
		if err := w.Write(batchResultRow(a)); err != nil {
			return eris.Wrap(err, "write csv row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "flush csv")
}

func writeBatchXLSX(path string, results []*model.Analysis) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Underwriting")
	if err != nil {
		return eris.Wrap(err, "add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, name := range batchResultColumns {
		header.AddCell().Value = name
	}
	for _, a := range results {
		row := sheet.AddRow()
		for _, val := range batchResultRow(a) {
			row.AddCell().Value = val
		}
	}

	return eris.Wrapf(file.Save(path), "save xlsx %s", path)
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchFlags.inputPath, "input", "", "CSV file of properties")
	f.StringVar(&batchFlags.rateEnv, "rate-env", "NORMAL", "rate environment (HIGH or NORMAL)")
	f.IntVar(&batchFlags.concurrency, "concurrency", 4, "max concurrent analyses")
	f.StringVar(&batchFlags.format, "format", "table", "output format (table, csv, xlsx)")
	f.StringVar(&batchFlags.outPath, "out", "", "output file (required for xlsx)")
	f.BoolVar(&batchFlags.save, "save", false, "persist each run to the store")
	f.StringVar(&batchFlags.weightsFile, "weights-file", "", "YAML weights override file")

	_ = batchCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(batchCmd)
}
