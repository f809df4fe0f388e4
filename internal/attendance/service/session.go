package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/crshop/attendance/internal/attendance/export"
	"github.com/crshop/attendance/internal/attendance/parse"
	"github.com/crshop/attendance/internal/attendance/record"
	"github.com/crshop/attendance/internal/attendance/store"
	"github.com/crshop/attendance/internal/attendance/types"
	"github.com/crshop/attendance/internal/metrics"
)

type SubmitOutcome int

const (
	Stored SubmitOutcome = iota + 1
	Rejected
	StoreFailed
	Ignored // the buffer held the admin password
)

func (o SubmitOutcome) String() string {
	switch o {
	case Stored:
		return "stored"
	case Rejected:
		return "rejected"
	case StoreFailed:
		return "store_failed"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

type SubmitResult struct {
	Outcome SubmitOutcome
	Record  types.Record // set when Outcome is Stored
	Err     error
}

type ExportOutcome int

const (
	Exported ExportOutcome = iota + 1
	ExportDenied
	ExportFailed
)

func (o ExportOutcome) String() string {
	switch o {
	case Exported:
		return "exported"
	case ExportDenied:
		return "denied"
	case ExportFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type ExportResult struct {
	Outcome   ExportOutcome
	Artifact  export.Result
	RowErrors int // stored rows skipped during the scan
	Err       error
}

type Dependencies struct {
	AdminPass string
	Factory   *record.Factory
	Store     store.Store
	Exporter  *export.Exporter
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// Session drives one kiosk: it turns input events into records and admin
// export requests into artifacts. Nothing it does is fatal and no failure is
// reported to the person at the kiosk; outcomes are returned for logging and
// for front-ends that want them.
type Session struct {
	adminPass string
	factory   *record.Factory
	store     store.Store
	exporter  *export.Exporter
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func New(d Dependencies) *Session {
	if d.Factory == nil {
		d.Factory = record.NewFactory(nil)
	}
	if d.Exporter == nil {
		d.Exporter = export.New("", nil)
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Session{
		adminPass: d.AdminPass,
		factory:   d.Factory,
		store:     d.Store,
		exporter:  d.Exporter,
		logger:    d.Logger,
		metrics:   d.Metrics,
	}
}

// Edit applies a buffer change.
func (s *Session) Edit(st State, input string) State {
	return Edit(st, input, s.adminPass)
}

// Preview is the greeting for the current buffer.
func (s *Session) Preview(st State) string {
	return parse.Greeting(st.PendingInput)
}

// Type applies a buffer change and, when the buffer now ends with the badge
// sentinel, submits it at once the way a badge scanner expects. The result
// is nil when nothing was submitted.
func (s *Session) Type(ctx context.Context, st State, input string) (State, *SubmitResult) {
	st = s.Edit(st, input)
	if st.AdminMode || !parse.IsBadge(st.PendingInput) {
		return st, nil
	}
	next, res := s.Submit(ctx, st)
	return next, &res
}

// Submit parses, stamps and stores the pending input. The returned state is
// always cleared, whatever the outcome.
func (s *Session) Submit(ctx context.Context, st State) (State, SubmitResult) {
	res := s.submit(ctx, st)
	s.metrics.IncSubmission(submissionMetric(res.Outcome))
	return Clear(st), res
}

func (s *Session) submit(ctx context.Context, st State) SubmitResult {
	if st.AdminMode {
		return SubmitResult{Outcome: Ignored}
	}

	parsed, err := parse.Line(st.PendingInput)
	if err != nil {
		return s.classify(err)
	}

	rec := s.factory.Materialize(parsed)
	if err := s.store.Insert(ctx, rec); err != nil {
		return s.classify(err)
	}

	s.logger.Info("attendance recorded", "id", rec.ID, "badge", rec.Badge)
	return SubmitResult{Outcome: Stored, Record: rec}
}

// classify maps a submit failure onto its outcome and logs it.
func (s *Session) classify(err error) SubmitResult {
	var (
		pe *parse.ParseError
		se *store.StoreError
	)
	switch {
	case errors.As(err, &pe):
		s.logger.Debug("input dropped", "reason", pe.Reason.String(), "badge", pe.Badge)
		return SubmitResult{Outcome: Rejected, Err: err}
	case errors.As(err, &se):
		s.logger.Warn("attendance not stored", "kind", se.Kind.String(), "id", se.ID, "err", se.Err)
		return SubmitResult{Outcome: StoreFailed, Err: err}
	default:
		s.logger.Warn("attendance not stored", "err", err)
		return SubmitResult{Outcome: StoreFailed, Err: err}
	}
}

// Export snapshots the store into the current minute's artifact. It only
// runs in admin mode and leaves the state unchanged.
func (s *Session) Export(ctx context.Context, st State) (State, ExportResult) {
	res := s.export(ctx, st)
	s.metrics.IncExport(exportMetric(res.Outcome))
	if res.Outcome == Exported {
		s.metrics.AddExported(res.Artifact.Written, res.RowErrors)
	}
	return st, res
}

func (s *Session) export(ctx context.Context, st State) ExportResult {
	if !st.AdminMode {
		return ExportResult{Outcome: ExportDenied}
	}

	records, err := s.store.ScanAll(ctx)
	rowErrs := store.RowErrors(err)
	for _, re := range rowErrs {
		if re.Row == 0 {
			s.logger.Warn("export scan failed", "err", re.Err)
			return ExportResult{Outcome: ExportFailed, Err: re}
		}
		s.logger.Warn("export skipped stored row", "row", re.Row, "err", re.Err)
	}
	if err != nil && len(rowErrs) == 0 {
		s.logger.Warn("export scan failed", "err", err)
		return ExportResult{Outcome: ExportFailed, Err: err}
	}

	art, err := s.exporter.Export(records)
	if err != nil {
		var ee *export.ExportError
		if errors.As(err, &ee) {
			s.logger.Warn("export not written", "kind", ee.Kind.String(), "path", ee.Path, "err", ee.Err)
		} else {
			s.logger.Warn("export not written", "err", err)
		}
		return ExportResult{Outcome: ExportFailed, Artifact: art, RowErrors: len(rowErrs), Err: err}
	}

	s.logger.Info("export written", "path", art.Path, "records", art.Written, "skipped", art.Skipped)
	return ExportResult{Outcome: Exported, Artifact: art, RowErrors: len(rowErrs)}
}

func submissionMetric(o SubmitOutcome) string {
	switch o {
	case Stored:
		return metrics.OutcomeStored
	case StoreFailed:
		return metrics.OutcomeStoreFailed
	default:
		return metrics.OutcomeRejected
	}
}

func exportMetric(o ExportOutcome) string {
	switch o {
	case Exported:
		return metrics.OutcomeOK
	case ExportDenied:
		return metrics.OutcomeDenied
	default:
		return metrics.OutcomeFailed
	}
}
