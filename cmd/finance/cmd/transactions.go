package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"finance/internal/core"
	"finance/internal/services"
)

func parseType(s string) (core.TransactionType, error) {
	return core.ParseTransactionType(strings.ToUpper(strings.TrimSpace(s)))
}

func parseDate(s string) (civil.Date, error) {
	if s == "" {
		return civil.DateOf(time.Now()), nil
	}
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, &core.ValidationError{Field: "date", Value: s, Err: fmt.Errorf("%w: expected YYYY-MM-DD", core.ErrInvalidDate)}
	}
	return d, nil
}

func parseRow(s string) (int, error) {
	row, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid row %q: must be a number", s)
	}
	return row, nil
}

func newAddCmd(o *rootOptions) *cobra.Command {
	var date, category, description string

	cmd := &cobra.Command{
		Use:   "add <income|expense> <amount>",
		Short: "Record a transaction",
		Long: `Record an income or expense transaction.

The amount must be greater than zero and may use a comma or a dot as the
decimal separator. Income always uses the INCOME category.

Example:
  finance add expense 12,50 --category Food --description "lunch"
  finance add income 1500 --date 2024-05-27`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := parseType(args[0])
			if err != nil {
				return err
			}
			amount, err := core.ParseAmount(args[1])
			if err != nil {
				return err
			}
			d, err := parseDate(date)
			if err != nil {
				return err
			}

			t, err := o.service().AddTransaction(cmd.Context(), typ, d, amount, category, description)
			if err != nil {
				return err
			}
			if err := o.save(cmd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s on %s\n",
				t.Type, core.FormatAmount(t.Amount), t.Category, t.Date)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category, required for expenses")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	return cmd
}

func newListCmd(o *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a month's transactions with their row numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := parseMonth(month)
			if err != nil {
				return err
			}
			txns := o.service().TransactionsForMonth(ym)
			if len(txns) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No transactions in %s\n", ym)
				return nil
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "#\tDATE\tTYPE\tAMOUNT\tCATEGORY\tDESCRIPTION")
			for i, t := range txns {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					i+1, t.Date, t.Type, core.FormatAmount(t.Amount), t.Category, t.Description)
			}
			return tw.Flush()
		},
	}
	addMonthFlag(cmd, &month)
	return cmd
}

func newEditCmd(o *rootOptions) *cobra.Command {
	var (
		month                 string
		typ, date, amount     string
		category, description string
	)

	cmd := &cobra.Command{
		Use:   "edit <row>",
		Short: "Change fields of a transaction",
		Long: `Change fields of the transaction at <row> in the month's listing
(see "finance list"). Only the flags given are changed.

Example:
  finance edit 2 --month 2024-05 --amount 13.00 --category Groceries`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := parseMonth(month)
			if err != nil {
				return err
			}
			row, err := parseRow(args[0])
			if err != nil {
				return err
			}

			var patch services.TransactionPatch
			flags := cmd.Flags()
			if flags.Changed("type") {
				t, err := parseType(typ)
				if err != nil {
					return err
				}
				patch.Type = &t
			}
			if flags.Changed("date") {
				d, err := parseDate(date)
				if err != nil {
					return err
				}
				patch.Date = &d
			}
			if flags.Changed("amount") {
				a, err := core.ParseAmount(amount)
				if err != nil {
					return err
				}
				patch.Amount = &a
			}
			if flags.Changed("category") {
				patch.Category = &category
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to change: pass at least one of --type, --date, --amount, --category, --description")
			}

			ok, err := o.service().EditTransactionAt(cmd.Context(), ym, row, patch)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no row %d in %s", row, ym)
			}
			if err := o.save(cmd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated row %d of %s\n", row, ym)
			return nil
		},
	}
	addMonthFlag(cmd, &month)
	cmd.Flags().StringVar(&typ, "type", "", "income or expense")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount greater than zero")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category")
	cmd.Flags().StringVar(&description, "description", "", "description")
	return cmd
}

func newDeleteCmd(o *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "delete <row>",
		Short: "Delete a transaction by its row in the month's listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := parseMonth(month)
			if err != nil {
				return err
			}
			row, err := parseRow(args[0])
			if err != nil {
				return err
			}
			if !o.service().DeleteTransactionAt(cmd.Context(), ym, row) {
				return fmt.Errorf("no row %d in %s", row, ym)
			}
			if err := o.save(cmd); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted row %d of %s\n", row, ym)
			return nil
		},
	}
	addMonthFlag(cmd, &month)
	return cmd
}

func newSummaryCmd(o *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses and net for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := parseMonth(month)
			if err != nil {
				return err
			}
			sum := o.service().MonthlySummary(ym)

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Month:\t%s\n", ym)
			fmt.Fprintf(tw, "Transactions:\t%d\n", o.service().MonthTransactionCount(ym))
			fmt.Fprintf(tw, "Income:\t%s\n", core.FormatAmount(sum.TotalIncome))
			fmt.Fprintf(tw, "Expenses:\t%s\n", core.FormatAmount(sum.TotalExpense))
			fmt.Fprintf(tw, "Net:\t%s\n", core.FormatAmount(sum.Net))
			return tw.Flush()
		},
	}
	addMonthFlag(cmd, &month)
	return cmd
}

func newSpentCmd(o *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "spent",
		Short: "Show expenses per category for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ym, err := parseMonth(month)
			if err != nil {
				return err
			}
			spent := o.service().SpentByCategory(ym)
			if len(spent) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No expenses in %s\n", ym)
				return nil
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "CATEGORY\tSPENT")
			for _, c := range spent {
				fmt.Fprintf(tw, "%s\t%s\n", c.Name, core.FormatAmount(c.Amount))
			}
			return tw.Flush()
		},
	}
	addMonthFlag(cmd, &month)
	return cmd
}

func newMonthsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List months that have transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, ym := range o.service().AvailableMonths() {
				fmt.Fprintln(cmd.OutOrStdout(), ym)
			}
			return nil
		},
	}
}
