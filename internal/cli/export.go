package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crshop/attendance/internal/attendance/service"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Pass string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored record to this minute's JSON artifact",
		Long: `Export every stored record the same way the kiosk's admin mode does.

Example:
  attendance export --pass "$ADMIN_PASS"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Pass, "pass", "", "admin password (required)")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd.Context())

	a, err := openApp(ctx, opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	st := a.session.Edit(service.State{}, opts.Pass)
	_, res := a.session.Export(ctx, st)

	switch res.Outcome {
	case service.ExportDenied:
		return NewExitError(ExitFailure, "admin password rejected")
	case service.ExportFailed:
		return WrapExitError(ExitFailure, "export failed", res.Err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d records\t%d skipped\n",
		res.Artifact.Path, res.Artifact.Written, res.Artifact.Skipped+res.RowErrors)
	return nil
}
