package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crshop/attendance/internal/clock"
	"github.com/crshop/attendance/internal/kiosk"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the terminal kiosk",
		Long: `Run the kiosk on standard input.

Each line is one sign-in. Enter the admin password and then an empty line
to export every stored record. End input (Ctrl-D) to stop.

Example:
  attendance run --config ./config.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKiosk(rootOpts, cmd)
		},
	}
}

type kioskResult struct {
	stats kiosk.Stats
	err   error
}

func runKiosk(opts *RootOptions, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	k := kiosk.New(kiosk.Dependencies{
		Session: a.session,
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
		Clock:   clock.System{},
		Logger:  a.logger,
	})

	// Reading stdin cannot be interrupted, so the loop runs on its own and
	// a signal returns without waiting for it.
	done := make(chan kioskResult, 1)
	go func() {
		stats, err := k.Run(ctx)
		done <- kioskResult{stats: stats, err: err}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("received signal, shutting down")
		return nil
	case r := <-done:
		if r.err != nil && r.err != context.Canceled {
			return WrapExitError(ExitFailure, "kiosk stopped", r.err)
		}
		return nil
	}
}
