package store

import (
	"errors"
	"fmt"
)

var (
	ErrInsertion  = errors.New("insertion error")
	ErrExtraction = errors.New("extraction error")
)

type Kind int

const (
	InsertionError Kind = iota + 1
	ExtractionError
)

func (k Kind) String() string {
	switch k {
	case InsertionError:
		return "insertion"
	case ExtractionError:
		return "extraction"
	default:
		return "unknown"
	}
}

// StoreError is the single error type crossing the Store boundary.
type StoreError struct {
	Kind Kind
	ID   string // record id when known
	Row  int    // 1-based scan position for extraction errors
	Err  error
}

func (e *StoreError) Error() string {
	switch e.Kind {
	case ExtractionError:
		return fmt.Sprintf("extract row %d: %v", e.Row, e.Err)
	default:
		return fmt.Sprintf("insert record %s: %v", e.ID, e.Err)
	}
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	switch e.Kind {
	case InsertionError:
		return target == ErrInsertion
	case ExtractionError:
		return target == ErrExtraction
	}
	return false
}

func InsertFailed(id string, err error) *StoreError {
	return &StoreError{Kind: InsertionError, ID: id, Err: err}
}

func ExtractFailed(row int, err error) *StoreError {
	return &StoreError{Kind: ExtractionError, Row: row, Err: err}
}

// RowErrors unpacks the per-row errors joined into a ScanAll error.
func RowErrors(err error) []*StoreError {
	if err == nil {
		return nil
	}
	var out []*StoreError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, RowErrors(e)...)
		}
		return out
	}
	var se *StoreError
	if errors.As(err, &se) {
		out = append(out, se)
	}
	return out
}
