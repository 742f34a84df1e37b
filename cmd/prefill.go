package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/aire-labs/aire/internal/listing"
)

var prefillCmd = &cobra.Command{
	Use:   "prefill <address-or-listing-url>",
	Short: "Suggest input values from property data providers",
	Long:  "Queries the configured property data APIs for an address (or one extracted from a listing URL) and prints suggested input values.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := args[0]
		if strings.HasPrefix(address, "http://") || strings.HasPrefix(address, "https://") {
			address = listing.ExtractAddress(address)
			if address == "" {
				return eris.Errorf("could not extract an address from %s", args[0])
			}
		}

		suggestion, err := initPrefiller().Prefill(cmd.Context(), address)
		if err != nil {
			return err
		}

		out := struct {
			Address    string `json:"address"`
			Suggestion any    `json:"suggestion"`
		}{Address: address, Suggestion: suggestion}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(prefillCmd)
}
