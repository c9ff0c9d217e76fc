package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"finance/internal/core"
)

func newBudgetCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly budgets per category",
	}
	cmd.AddCommand(
		newBudgetSetCmd(o),
		newBudgetRemoveCmd(o),
		newBudgetListCmd(o),
		newBudgetStatusCmd(o),
	)
	return cmd
}

func newBudgetSetCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <limit>",
		Short: "Set or replace the monthly limit of a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := core.ParseBudgetLimit(args[1])
			if err != nil {
				return err
			}
			if err := o.service().SetBudget(cmd.Context(), args[0], limit); err != nil {
				return err
			}
			if err := o.save(cmd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s set to %s\n", args[0], core.FormatAmount(limit))
			return nil
		},
	}
}

func newBudgetRemoveCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <category>",
		Short: "Remove the budget of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !o.service().RemoveBudget(cmd.Context(), args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "No budget for %s\n", args[0])
				return nil
			}
			if err := o.save(cmd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Budget for %s removed\n", args[0])
			return nil
		},
	}
}

func newBudgetListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			budgets := o.service().Budgets()
			if len(budgets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No budgets")
				return nil
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "CATEGORY\tLIMIT")
			for _, b := range budgets {
				fmt.Fprintf(tw, "%s\t%s\n", b.Name, core.FormatAmount(b.Amount))
			}
			return tw.Flush()
		},
	}
}

func newBudgetStatusCmd(o *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Compare budgets with a month's spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := parseMonth(month)
			if err != nil {
				return err
			}
			statuses := o.service().BudgetStatuses(ym)
			if len(statuses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No budgets")
				return nil
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "CATEGORY\tLIMIT\tSPENT\tREMAINING\tUSED\t")
			for _, st := range statuses {
				flag := ""
				if st.Over {
					flag = "OVER"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\t%s\n",
					st.Category,
					core.FormatAmount(st.Limit),
					core.FormatAmount(st.Spent),
					core.FormatAmount(st.Remaining),
					st.UsedPercent.StringFixed(2),
					flag)
			}
			return tw.Flush()
		},
	}
	addMonthFlag(cmd, &month)
	return cmd
}
