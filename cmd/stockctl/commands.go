package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	stockapp "github.com/mfgerp/backend/internal/application/stock"
	"github.com/spf13/cobra"
)

// errDriftFound makes `consistency` exit non-zero so it can gate cron or CI runs
var errDriftFound = errors.New("stock cache differs from ledger")

func newRootCmd() *cobra.Command {
	var logLevel string
	var e *env

	root := &cobra.Command{
		Use:          "stockctl",
		Short:        "Stock ledger maintenance for the manufacturing backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			e, err = setup(cmd.Context(), logLevel)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e != nil {
				e.close()
			}
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	getEnv := func() *env { return e }
	root.AddCommand(
		newConsistencyCmd(getEnv),
		newStockCmd(getEnv),
		newExportCmd(getEnv),
		newJobsCmd(getEnv),
	)
	return root
}

func newConsistencyCmd(getEnv func() *env) *cobra.Command {
	var productID uint
	cmd := &cobra.Command{
		Use:   "consistency",
		Short: "Compare cached stock with the ledger replay",
		Long: "Replays the stock ledger for one product (--product) or all of them and reports drift " +
			"between the cached current stock and the replayed value. Nothing is repaired.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := getEnv()
			var reports []stockapp.ConsistencyResponse
			if productID != 0 {
				r, err := e.stock.CheckConsistency(cmd.Context(), productID)
				if err != nil {
					return err
				}
				reports = append(reports, *r)
			} else {
				summary, err := e.stock.CheckAllConsistency(cmd.Context())
				if err != nil {
					return err
				}
				reports = summary.Products
				fmt.Fprintf(cmd.OutOrStdout(), "checked %d products, %d inconsistent\n", summary.Checked, summary.Inconsistent)
			}
			writeConsistency(cmd.OutOrStdout(), reports)
			for _, r := range reports {
				if !r.Consistent {
					return errDriftFound
				}
			}
			return nil
		},
	}
	cmd.Flags().UintVar(&productID, "product", 0, "Check a single product")
	return cmd
}

func newStockCmd(getEnv func() *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stock <product-id>",
		Short: "Show cached stock, replayed stock and movement history for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductID(args[0])
			if err != nil {
				return err
			}
			res, err := getEnv().stock.GetStockByProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (#%d)\ncached: %d %s  replayed: %d %s\n\n",
				res.ProductName, res.ProductID, res.CurrentStock, res.UnitOfMeasure, res.ReplayedStock, res.UnitOfMeasure)
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ENTRY\tTYPE\tQTY\tRUNNING\tREFERENCE\tAT")
			for _, h := range res.History {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s\n",
					h.ID, h.TransactionType, h.Quantity, h.RunningStock, h.Reference, h.TransactionDate.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newExportCmd(getEnv func() *env) *cobra.Command {
	var (
		productID uint
		txType    string
		from, to  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export ledger entries to an Excel workbook in the configured storage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := stockapp.LedgerListFilter{TransactionType: txType}
			if productID != 0 {
				filter.ProductID = &productID
			}
			var err error
			if filter.StartDate, err = parseDate(from); err != nil {
				return err
			}
			if filter.EndDate, err = parseDate(to); err != nil {
				return err
			}
			res, err := getEnv().stock.ExportLedger(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries to %s\n", res.Rows, res.Location)
			return nil
		},
	}
	cmd.Flags().UintVar(&productID, "product", 0, "Only entries for this product")
	cmd.Flags().StringVar(&txType, "type", "", "Only IN, OUT or ADJUSTMENT entries")
	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	return cmd
}

func newJobsCmd(getEnv func() *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List or run the scheduled maintenance jobs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List registered jobs and their schedules",
			RunE: func(cmd *cobra.Command, _ []string) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tSCHEDULE")
				for _, j := range getEnv().jobs.Jobs() {
					fmt.Fprintf(w, "%s\t%s\n", j.Name, j.Schedule)
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "run <name>",
			Short: "Run a job once and exit",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				start := time.Now()
				if err := getEnv().jobs.RunNow(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s finished in %s\n", args[0], time.Since(start).Round(time.Millisecond))
				return nil
			},
		},
	)
	return cmd
}

func writeConsistency(out io.Writer, reports []stockapp.ConsistencyResponse) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tNAME\tCACHED\tREPLAYED\tDRIFT\tENTRIES\tSTATUS")
	for _, r := range reports {
		status := "ok"
		if !r.Consistent {
			status = "DRIFT"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%+d\t%d\t%s\n",
			r.ProductID, r.ProductName, r.CachedStock, r.ReplayedStock, r.Drift, r.EntryCount, status)
	}
	_ = w.Flush()
}

func parseProductID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return uint(id), nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return &t, nil
}
