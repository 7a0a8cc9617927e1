package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catcoin/pos-backend/internal/app"
	"github.com/catcoin/pos-backend/internal/reports"
)

// NewReportCommand prints the X-report for a day.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "xreport",
		Short: "Print the X-report for a day (default today)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withServices(cmd.Context(), func(svcs *app.Services) error {
				report, err := svcs.Reports.XReport(cmd.Context(), date)
				if err != nil {
					return err
				}
				if rootOpts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), reports.ToDTO(*report))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "X-Report %s\n", report.Date)
				fmt.Fprintf(out, "  transactions  %d (cash %d, card %d)\n", report.TotalTransactions, report.CashTransactions, report.CardTransactions)
				fmt.Fprintf(out, "  total sales   %s\n", report.TotalSales.StringFixed(2))
				fmt.Fprintf(out, "  cash sales    %s\n", report.CashSales.StringFixed(2))
				fmt.Fprintf(out, "  card sales    %s\n", report.CardSales.StringFixed(2))
				fmt.Fprintf(out, "  tax collected %s\n", report.TaxCollected.StringFixed(2))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "calendar date YYYY-MM-DD")
	return cmd
}
