package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/aire-labs/aire/internal/model"
	"github.com/aire-labs/aire/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved underwriting runs",
	Long:  "Commands for listing and viewing persisted analysis runs.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		email, _ := cmd.Flags().GetString("email")
		grade, _ := cmd.Flags().GetString("grade")
		limit, _ := cmd.Flags().GetInt("limit")

		records, err := st.ListAnalyses(ctx, store.AnalysisFilter{
			Email: email,
			Grade: model.Grade(grade),
			Limit: limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, records)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the full analysis payload of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rec, err := st.GetAnalysis(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	runsListCmd.Flags().String("email", "", "filter by email")
	runsListCmd.Flags().String("grade", "", "filter by letter grade (A-F)")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a tabular list of saved runs to w.
func formatRunsList(out io.Writer, records []model.AnalysisRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tADDRESS\tGRADE\tSCORE\tKILL\tCREATED")
	fmt.Fprintln(w, "--\t-------\t-----\t-----\t----\t-------")

	for _, r := range records {
		address := r.Analysis.Input.Address
		if len(address) > 34 {
			address = address[:31] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%v\t%s\n",
			truncateID(r.ID),
			address,
			r.Analysis.Result.Grade,
			r.Analysis.Result.FinalScore,
			r.Analysis.Result.KillSwitch,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
