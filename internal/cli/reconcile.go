package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catcoin/pos-backend/internal/app"
	"github.com/catcoin/pos-backend/internal/reconcile"
)

// ErrMismatch is returned when at least one day disagrees with the ledger, so
// scripts can alert on the exit code.
var ErrMismatch = errors.New("daily stats disagree with sale ledger")

type reconcileOptions struct {
	date string
	days int
}

// NewReconcileCommand compares stored daily stats with the ledger.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &reconcileOptions{}
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check daily stats against the sale ledger",
		Long: `Recompute each day's totals from the sale ledger and compare them with the
stored daily stats. Nothing is rewritten; fix mismatches by hand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withServices(cmd.Context(), func(svcs *app.Services) error {
				var results []reconcile.Result
				if opts.date != "" {
					result, err := svcs.Reconcile.Check(cmd.Context(), opts.date)
					if err != nil {
						return err
					}
					results = []reconcile.Result{*result}
				} else {
					var err error
					results, err = svcs.Reconcile.CheckRecent(cmd.Context(), opts.days)
					if err != nil {
						return err
					}
				}

				if err := printResults(cmd, rootOpts.Format, results); err != nil {
					return err
				}
				if len(reconcile.Mismatches(results)) > 0 {
					return ErrMismatch
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.date, "date", "", "check a single date YYYY-MM-DD")
	cmd.Flags().IntVar(&opts.days, "days", 1, "number of recent days to check when --date is not set")
	return cmd
}

func printResults(cmd *cobra.Command, format string, results []reconcile.Result) error {
	if format == "json" {
		dtos := make([]reconcile.ResultDTO, len(results))
		for i, r := range results {
			dtos[i] = reconcile.ToDTO(r)
		}
		return writeJSON(cmd.OutOrStdout(), dtos)
	}
	out := cmd.OutOrStdout()
	for _, r := range results {
		status := "ok"
		if !r.Matches {
			status = "MISMATCH"
		}
		fmt.Fprintf(out, "%s %-8s ledger=%s/%d/%d stored=%s/%d/%d\n",
			r.Date, status,
			r.Ledger.TotalSales.StringFixed(2), r.Ledger.OrderCount, r.Ledger.TreatsEaten,
			r.Stored.TotalSales.StringFixed(2), r.Stored.OrderCount, r.Stored.TreatsEaten,
		)
	}
	return nil
}
