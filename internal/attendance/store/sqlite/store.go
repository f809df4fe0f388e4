package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crshop/attendance/internal/attendance/store"
	"github.com/crshop/attendance/internal/attendance/types"
	dbpkg "github.com/crshop/attendance/internal/db"
)

// Store keeps attendance records in the attendance_data table. Reads use
// the shared *sql.DB; writes are serialized through the db.Worker.
type Store struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func New(db *sql.DB, writer *dbpkg.Worker) *Store {
	return &Store{db: db, writer: writer}
}

func (s *Store) Insert(ctx context.Context, rec types.Record) error {
	var badge int
	if rec.Badge {
		badge = 1
	}

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO attendance_data(
  ID, first_name, last_name, grad_year, badge, creation_date
) VALUES (?, ?, ?, ?, ?, ?);
`,
			rec.ID, rec.FirstName, rec.LastName, rec.GradYear, badge, rec.CreationDate,
		); err != nil {
			return fmt.Errorf("insert attendance_data: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.InsertFailed(rec.ID, err)
	}
	return nil
}

// ScanAll reads rows in rowid order, which is insertion order for this
// append-only table. A row that does not decode is skipped and reported.
func (s *Store) ScanAll(ctx context.Context) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT ID, first_name, last_name, grad_year, badge, creation_date
FROM attendance_data
ORDER BY rowid;
`)
	if err != nil {
		return nil, store.ExtractFailed(0, fmt.Errorf("query attendance_data: %w", err))
	}
	defer rows.Close()

	var (
		out     []types.Record
		rowErrs []error
		n       int
	)
	for rows.Next() {
		n++
		var rec types.Record
		if err := rows.Scan(
			&rec.ID, &rec.FirstName, &rec.LastName, &rec.GradYear, &rec.Badge, &rec.CreationDate,
		); err != nil {
			rowErrs = append(rowErrs, store.ExtractFailed(n, err))
			continue
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		rowErrs = append(rowErrs, store.ExtractFailed(n+1, err))
	}

	return out, errors.Join(rowErrs...)
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
