package record

import (
	"fmt"
	"strconv"
	"time"

	"github.com/crshop/attendance/internal/attendance/types"
	"github.com/crshop/attendance/internal/clock"
)

// Factory gives parsed records their identity.
type Factory struct {
	clock clock.Clock
}

func NewFactory(c clock.Clock) *Factory {
	if c == nil {
		c = clock.System{}
	}
	return &Factory{clock: c}
}

// Materialize stamps p with an id and creation date taken from a single
// clock read.
func (f *Factory) Materialize(p types.ParsedRecord) types.Record {
	return Materialize(p, f.clock.Now())
}

// Materialize builds the stored form of p at now. The id is the decimal
// Unix millisecond count, so two records created in the same millisecond
// share an id and the second insert fails.
func Materialize(p types.ParsedRecord, now time.Time) types.Record {
	return types.Record{
		ID:           ID(now),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		GradYear:     int64(p.GradYear),
		Badge:        p.Badge,
		CreationDate: CreationDate(now),
	}
}

func ID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// CreationDate formats the calendar date of now in now's location as
// day/month/year without zero padding.
func CreationDate(now time.Time) string {
	return fmt.Sprintf("%d/%d/%d", now.Day(), int(now.Month()), now.Year())
}
