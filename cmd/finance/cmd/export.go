package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"finance/internal/export"
)

func newExportCmd(o *rootOptions) *cobra.Command {
	var (
		month, out, dir string
		all             bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions as CSV",
		Long: `Export one month's transactions to a CSV file, or every month to
one file per month with --all.

Text that a spreadsheet would read as a formula is prefixed with an
apostrophe.

Example:
  finance export --month 2024-05 --out may.csv
  finance export --all --dir ./csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if dir == "" {
					dir = o.app.Config.ExportDir
				}
				paths, err := o.service().ExportAllMonths(cmd.Context(), dir)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d months\n", len(paths))
				return nil
			}

			ym, err := parseMonth(month)
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(o.app.Config.ExportDir, export.MonthFileName(ym))
			}
			path, err := o.service().ExportCSV(cmd.Context(), out, ym)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", ym, path)
			return nil
		},
	}
	addMonthFlag(cmd, &month)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <export dir>/finance-YYYY-MM.csv)")
	cmd.Flags().BoolVar(&all, "all", false, "export every month with transactions")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory for --all (default export dir)")
	cmd.MarkFlagsMutuallyExclusive("all", "out")
	cmd.MarkFlagsMutuallyExclusive("all", "month")
	return cmd
}
