// Package kiosk is the line-oriented terminal front-end. Each line read is
// one submission event; the admin password followed by an empty line is
// the export event.
package kiosk

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/crshop/attendance/internal/attendance/service"
	"github.com/crshop/attendance/internal/clock"
)

type Dependencies struct {
	Session *service.Session
	In      io.Reader
	Out     io.Writer
	Clock   clock.Clock
	Logger  *slog.Logger
}

type Kiosk struct {
	session *service.Session
	in      io.Reader
	out     io.Writer
	clock   clock.Clock
	logger  *slog.Logger
}

// Stats counts what happened during one Run.
type Stats struct {
	Lines   int
	Stored  int
	Exports int
}

func New(d Dependencies) *Kiosk {
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Kiosk{
		session: d.Session,
		in:      d.In,
		out:     d.Out,
		clock:   d.Clock,
		logger:  d.Logger.With("session", uuid.NewString()),
	}
}

// Hint is the example line shown above the prompt.
func Hint(year int) string {
	return fmt.Sprintf("Example: John Doe %d", year)
}

// Run reads lines until EOF or ctx is cancelled. Bad lines and store or
// export failures never end the loop; only a read error does.
func (k *Kiosk) Run(ctx context.Context) (Stats, error) {
	var (
		st    service.State
		stats Stats
	)

	k.logger.Info("kiosk started")
	sc := bufio.NewScanner(k.in)
	k.prompt(st)

	for sc.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := sc.Text()
		stats.Lines++

		if st.AdminMode && line == "" {
			var res service.ExportResult
			st, res = k.session.Export(ctx, st)
			if res.Outcome == service.Exported {
				stats.Exports++
				fmt.Fprintf(k.out, "Exported %d records to %s\n", res.Artifact.Written, res.Artifact.Path)
			}
			k.prompt(st)
			continue
		}

		next := k.session.Edit(st, line)
		if next.AdminMode {
			st = next
			k.prompt(st)
			continue
		}

		if g := k.session.Preview(next); g != "" {
			fmt.Fprintln(k.out, g)
		}

		// Badge lines are submitted by Type; typed lines need the explicit
		// submit event that the newline stands for.
		var res *service.SubmitResult
		st, res = k.session.Type(ctx, st, line)
		if res == nil {
			var r service.SubmitResult
			st, r = k.session.Submit(ctx, st)
			res = &r
		}
		if res.Outcome == service.Stored {
			stats.Stored++
		}
		k.prompt(st)
	}

	k.logger.Info("kiosk stopped", "lines", stats.Lines, "stored", stats.Stored, "exports", stats.Exports)
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read input: %w", err)
	}
	return stats, nil
}

func (k *Kiosk) prompt(st service.State) {
	if st.AdminMode {
		fmt.Fprint(k.out, "admin> press enter to export, type anything else to leave\n> ")
		return
	}
	fmt.Fprintf(k.out, "%s\n> ", Hint(k.clock.Now().Year()))
}
