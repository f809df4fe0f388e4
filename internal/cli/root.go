// Package cli holds the cobra commands for the attendance binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/crshop/attendance/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the attendance CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Attendance kiosk",
		Long: `A sign-in kiosk that records attendance from typed names or badge scans.

Lines are either "first last year" or a badge scan "first$last$year%".
Records are kept in SQLite and exported as JSON by an administrator.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "path to the config file (.json or .yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewListCommand(opts))

	return cmd
}
