package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/aire-labs/aire/internal/report"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:   "report <run-id>",
	Short: "Render a PDF memo for a saved run",
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
			return eris.Wrap(err, "report")
		}

		memo, err := report.Render(&rec.Analysis)
		if err != nil {
			return err
		}

		out := reportOut
		if out == "" {
			out = fmt.Sprintf("aire-memo-%s.pdf", truncateID(rec.ID))
		}
		if err := os.WriteFile(out, memo, 0o644); err != nil {
			return eris.Wrapf(err, "write memo %s", out)
		}

		fmt.Fprintf(os.Stderr, "Wrote memo %s\n", out)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output path (default aire-memo-<id>.pdf)")
	rootCmd.AddCommand(reportCmd)
}
