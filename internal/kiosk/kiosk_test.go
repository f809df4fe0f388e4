package kiosk

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crshop/attendance/internal/attendance/export"
	"github.com/crshop/attendance/internal/attendance/record"
	"github.com/crshop/attendance/internal/attendance/service"
	"github.com/crshop/attendance/internal/attendance/store/memory"
	"github.com/crshop/attendance/internal/clock"
	"github.com/crshop/attendance/internal/logging"
)

// stepClock advances one millisecond on every read so consecutive records
// get distinct ids.
type stepClock struct{ f *clock.Fake }

func (c stepClock) Now() time.Time { return c.f.Advance(time.Millisecond) }

type harness struct {
	store *memory.Store
	dir   string
	out   *bytes.Buffer
}

func run(t *testing.T, input string) (harness, Stats) {
	t.Helper()

	clk := stepClock{f: clock.NewFake(time.Date(2026, 2, 5, 9, 3, 0, 0, time.Local))}
	h := harness{
		store: memory.New(),
		dir:   filepath.Join(t.TempDir(), "dumps"),
		out:   &bytes.Buffer{},
	}
	sess := service.New(service.Dependencies{
		AdminPass: "letmein",
		Factory:   record.NewFactory(clk),
		Store:     h.store,
		Exporter:  export.New(h.dir, clk),
		Logger:    logging.Discard(),
	})
	k := New(Dependencies{
		Session: sess,
		In:      strings.NewReader(input),
		Out:     h.out,
		Clock:   clk,
		Logger:  logging.Discard(),
	})

	stats, err := k.Run(context.Background())
	require.NoError(t, err)
	return h, stats
}

func TestRun_StoresLines(t *testing.T) {
	h, stats := run(t, "John Doe 2026\nJane$Roe$2027%\nnot a name at all\n")

	assert.Equal(t, Stats{Lines: 3, Stored: 2}, stats)

	recs, err := h.store.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "john", recs[0].FirstName)
	assert.False(t, recs[0].Badge)
	assert.Equal(t, "jane", recs[1].FirstName)
	assert.True(t, recs[1].Badge)

	out := h.out.String()
	assert.Contains(t, out, "Welcome John Doe, Graduation year: 2026\n")
	assert.Contains(t, out, "Welcome Jane$Roe$2027%\n")
	assert.Contains(t, out, "Welcome not a name at all\n")
	assert.Contains(t, out, "Example: John Doe 2026\n> ")
}

func TestRun_AdminExport(t *testing.T) {
	h, stats := run(t, "John Doe 2026\nletmein\n\n")

	assert.Equal(t, 1, stats.Stored)
	assert.Equal(t, 1, stats.Exports)

	entries, err := os.ReadDir(h.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2026253.json", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(h.dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"first_name":"john"`)

	out := h.out.String()
	assert.Contains(t, out, "admin> ")
	assert.Contains(t, out, "Exported 1 records to ")
	assert.NotContains(t, out, "Welcome letmein", "admin password must not be echoed")
}

func TestRun_AdminPasswordNeverStored(t *testing.T) {
	h, stats := run(t, "letmein\nJohn Doe 2026\n\n")

	// Leaving admin mode with a normal line submits it; the blank line that
	// follows is an ordinary empty submission, not an export.
	assert.Equal(t, 1, stats.Stored)
	assert.Equal(t, 0, stats.Exports)

	recs, err := h.store.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "john", recs[0].FirstName)

	_, err = os.Stat(h.dir)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRun_EmptyLineWithoutAdminDoesNothing(t *testing.T) {
	h, stats := run(t, "\n\n")

	assert.Equal(t, Stats{Lines: 2}, stats)
	recs, err := h.store.ScanAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	k := New(Dependencies{
		Session: service.New(service.Dependencies{Store: memory.New(), Logger: logging.Discard()}),
		In:      strings.NewReader("John Doe 2026\n"),
		Out:     &bytes.Buffer{},
		Logger:  logging.Discard(),
	})
	stats, err := k.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Lines)
}

func TestHint(t *testing.T) {
	assert.Equal(t, "Example: John Doe 2031", Hint(2031))
}
