package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catcoin/pos-backend/internal/app"
)

// NewSeedCommand inserts the demo menu into an empty catalog.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo products when the catalog is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withServices(cmd.Context(), func(svcs *app.Services) error {
				n, err := svcs.Catalog.Seed(cmd.Context())
				if err != nil {
					return err
				}
				if rootOpts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), map[string]int{"inserted": n})
				}
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "catalog already populated; nothing inserted")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "inserted %d products\n", n)
				return nil
			})
		},
	}
}
