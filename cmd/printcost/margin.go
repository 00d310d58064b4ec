package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/printcost/internal/margin"
	"github.com/Simplici0/printcost/internal/money"
)

func newMarginCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "margin VALUE",
		Short: "Classify a profit margin",
		Long: `Classify a profit margin into its tier. VALUE is a percentage such as
"35", "35%" or "12,5"; values between -1 and 1 are read as ratios, so 0.35
means 35%.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct := margin.Normalize(margin.Parse(args[0]))
			tier := margin.ClassifyString(args[0])

			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(struct {
					Percent float64     `json:"percent"`
					Tier    margin.Tier `json:"tier"`
				}{pct, tier})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s%%  %s (%s)\n%s\n", money.Format(pct), tier.Label, tier.Key, tier.Message)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
