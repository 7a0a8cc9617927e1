// Package cli implements posctl, the operator command line for the register.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catcoin/pos-backend/internal/app"
)

// Opener connects to the configured store and returns the services plus a
// function that releases them.
type Opener func(ctx context.Context) (*app.Services, func() error, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"
	open   Opener
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the posctl root command.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "posctl",
		Short: "Cat Coin register operator tools",
		Long:  "Seed the catalog, export the sale ledger, print X-reports and reconcile daily stats.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))

	return cmd
}

// withServices opens the store for the duration of fn.
func (o *RootOptions) withServices(ctx context.Context, fn func(*app.Services) error) error {
	if o.open == nil {
		return fmt.Errorf("no store configured")
	}
	svcs, closeFn, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeFn != nil {
			_ = closeFn()
		}
	}()
	return fn(svcs)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
