package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"finance/internal/core"
)

func newReportCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Spending reports across months",
	}
	cmd.AddCommand(newReportYearCmd(o), newReportCompareCmd(o))
	return cmd
}

func newReportYearCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "year [year]",
		Short: "Show expenses for each month of a year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year := time.Now().Year()
			if len(args) == 1 {
				y, err := strconv.Atoi(args[0])
				if err != nil || y < 1 {
					return fmt.Errorf("invalid year %q", args[0])
				}
				year = y
			}

			totals := o.service().YearlyExpenses(year)
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "MONTH\tEXPENSES")
			for i, total := range totals {
				fmt.Fprintf(tw, "%s\t%s\n", core.NewYearMonth(year, time.Month(i+1)), core.FormatAmount(total))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if years := o.service().AvailableYears(); len(years) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Years with data: %v\n", years)
			}
			return nil
		},
	}
}

func newReportCompareCmd(o *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a month's expenses with the previous month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := parseMonth(month)
			if err != nil {
				return err
			}
			c := o.service().CompareWithPreviousMonth(ym)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s: %s, %s: %s\n",
				ym, core.FormatAmount(c.CurrentExpense),
				ym.AddMonths(-1), core.FormatAmount(c.PreviousExpense))
			switch {
			case c.Direction == core.TrendSame:
				fmt.Fprintln(out, "Spending unchanged")
			case !c.HasBaseline:
				fmt.Fprintf(out, "Spending %s by %s (no spending the month before)\n", c.Direction, core.FormatAmount(c.Difference))
			default:
				fmt.Fprintf(out, "Spending %s by %s (%s%%)\n", c.Direction, core.FormatAmount(c.Difference), c.Percent.String())
			}
			return nil
		},
	}
	addMonthFlag(cmd, &month)
	return cmd
}
