package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crshop/attendance/internal/attendance/store"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print stored records as JSON lines",
		Long: `Print every stored record, one JSON object per line, in insertion order.

Rows that cannot be read are reported on stderr and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd.Context())

	a, err := openApp(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	records, scanErr := a.store.ScanAll(ctx)
	for _, re := range store.RowErrors(scanErr) {
		if re.Row == 0 {
			return WrapExitError(ExitFailure, "scan failed", re)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "row %d: %v\n", re.Row, re.Err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return WrapExitError(ExitFailure, "write output", err)
		}
	}
	return nil
}
