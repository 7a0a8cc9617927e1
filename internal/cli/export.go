package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/catcoin/pos-backend/internal/app"
	"github.com/catcoin/pos-backend/internal/export"
)

type exportOptions struct {
	as     string
	output string
}

// NewExportCommand writes the ledger as CSV or JSON.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every sale, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(opts.as)
			if err != nil {
				return err
			}
			return rootOpts.withServices(cmd.Context(), func(svcs *app.Services) error {
				var w io.Writer = cmd.OutOrStdout()
				if opts.output != "" && opts.output != "-" {
					f, err := os.Create(opts.output)
					if err != nil {
						return fmt.Errorf("create %s: %w", opts.output, err)
					}
					defer f.Close()
					w = f
				}
				return svcs.Export.Sales(cmd.Context(), format, w)
			})
		},
	}
	cmd.Flags().StringVar(&opts.as, "as", "csv", "export encoding (csv|json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "output file, - for stdout")
	return cmd
}
