// Package cmd provides the commands of the finance CLI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"finance/internal/cli"
	"finance/internal/core"
	"finance/internal/log"
	"finance/internal/services"
)

type rootOptions struct {
	cfgFile  string
	dataFile string
	backend  string
	debug    bool

	app *cli.App
}

func (o *rootOptions) service() *services.FinanceService {
	return o.app.Service
}

// save persists after a successful mutation.
func (o *rootOptions) save(cmd *cobra.Command) error {
	if err := o.service().Save(cmd.Context()); err != nil {
		return fmt.Errorf("changes were not saved: %w", err)
	}
	log.FromContext(cmd.Context()).DebugContext(cmd.Context(), "Changes saved",
		log.FieldOperation, log.OpSave, log.FieldFile, o.service().DataFile())
	return nil
}

// Execute builds the command tree, runs it with args and releases the store.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o := &rootOptions{}
	root := newRootCmd(o)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := o.app.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return err
}

func newRootCmd(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "finance",
		Short: "Track personal income, expenses and monthly budgets",
		Long: `finance keeps a personal ledger of income and expense transactions
with per-category monthly budgets.

Data lives in a plain-text file by default; SQLite, bbolt and in-memory
backends can be selected with --backend or DATA_BACKEND.

Example:
  finance add expense 12.50 --category Food --description lunch
  finance list --month 2024-05
  finance budget status`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cli.LoadEnvFile()

			cfg, err := cli.LoadAndValidateConfig(o.cfgFile, cli.Overrides{
				DataFile: o.dataFile,
				Backend:  o.backend,
			})
			if err != nil {
				return err
			}

			level, _ := log.ParseLevel(cfg.LogLevel)
			if o.debug {
				level = slog.LevelDebug
			}
			logger := cli.SetupLogger(cmd.ErrOrStderr(), level)

			app, err := cli.OpenApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			o.app = app
			cmd.SetContext(log.WithContext(cmd.Context(), logger))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&o.cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&o.dataFile, "data", "", "data file (overrides DATA_FILE)")
	root.PersistentFlags().StringVar(&o.backend, "backend", "", "storage backend: plaintext, sqlite, bolt or memory")
	root.PersistentFlags().BoolVar(&o.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newAddCmd(o),
		newListCmd(o),
		newEditCmd(o),
		newDeleteCmd(o),
		newSummaryCmd(o),
		newSpentCmd(o),
		newMonthsCmd(o),
		newBudgetCmd(o),
		newReportCmd(o),
		newExportCmd(o),
		newInfoCmd(o),
	)
	return root
}

// addMonthFlag registers --month on cmd.
func addMonthFlag(cmd *cobra.Command, month *string) {
	cmd.Flags().StringVarP(month, "month", "m", "", "month as YYYY-MM (default current month)")
}

func parseMonth(s string) (core.YearMonth, error) {
	if s == "" {
		return core.CurrentYearMonth(), nil
	}
	return core.ParseYearMonth(s)
}
