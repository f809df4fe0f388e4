//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Store

package store

import (
	"context"

	"github.com/crshop/attendance/internal/attendance/types"
)

// Store persists attendance records as an append-only log. There is no
// update or delete path.
type Store interface {
	// Insert appends rec. Failures are *StoreError with Kind InsertionError.
	Insert(ctx context.Context, rec types.Record) error

	// ScanAll returns every decodable record in insertion order. Rows that
	// fail to decode are skipped and reported as ExtractionError values
	// joined into the returned error; the records slice is still valid.
	ScanAll(ctx context.Context) ([]types.Record, error)
}
