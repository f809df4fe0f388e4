// Package export dumps attendance records to JSON artifacts named after the
// minute they were written.
//
// An artifact is a plain concatenation of JSON objects with no separators
// and no enclosing array. Exports that land in the same minute append to
// the same file; nothing is ever truncated.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/crshop/attendance/internal/attendance/types"
	"github.com/crshop/attendance/internal/clock"
)

const DefaultDir = "dumps"

type Result struct {
	Path    string
	Written int
	Skipped int // records that failed to marshal
}

type Exporter struct {
	dir   string
	clock clock.Clock
}

func New(dir string, c clock.Clock) *Exporter {
	if dir == "" {
		dir = DefaultDir
	}
	if c == nil {
		c = clock.System{}
	}
	return &Exporter{dir: dir, clock: c}
}

func (e *Exporter) Dir() string { return e.dir }

// Export writes records to the artifact for the current minute.
func (e *Exporter) Export(records []types.Record) (Result, error) {
	return Write(e.dir, records, e.clock.Now())
}

// ArtifactName is {year}{month}{day}{minute}.json with no zero padding,
// taken from now in now's location.
func ArtifactName(now time.Time) string {
	return fmt.Sprintf("%d%d%d%d.json", now.Year(), int(now.Month()), now.Day(), now.Minute())
}

// Write appends every record to dir/ArtifactName(now), creating dir and the
// file as needed. A record that cannot be marshalled is skipped. If the
// artifact cannot be opened nothing is written.
func Write(dir string, records []types.Record, now time.Time) (Result, error) {
	path := filepath.Join(dir, ArtifactName(now))
	res := Result{Path: path}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, &ExportError{Kind: DirError, Path: dir, Err: err}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return res, &ExportError{Kind: OpenError, Path: path, Err: err}
	}
	defer f.Close()

	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			res.Skipped++
			continue
		}
		if _, err := f.Write(b); err != nil {
			return res, &ExportError{Kind: WriteError, Path: path, Err: err}
		}
		res.Written++
	}

	if err := f.Close(); err != nil {
		return res, &ExportError{Kind: WriteError, Path: path, Err: err}
	}
	return res, nil
}
