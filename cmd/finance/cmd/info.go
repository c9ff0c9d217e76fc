package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInfoCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show where data is stored and how much there is",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := o.service().Snapshot()
			location := o.service().DataFile()
			if location == "" {
				location = "(in memory)"
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Backend:\t%s\n", o.app.Config.DataBackend)
			fmt.Fprintf(tw, "Data:\t%s\n", location)
			fmt.Fprintf(tw, "Export dir:\t%s\n", o.app.Config.ExportDir)
			fmt.Fprintf(tw, "Budgets:\t%d\n", len(data.Budgets))
			fmt.Fprintf(tw, "Transactions:\t%d\n", len(data.Transactions))
			fmt.Fprintf(tw, "Months:\t%d\n", len(o.service().AvailableMonths()))
			return tw.Flush()
		},
	}
}
