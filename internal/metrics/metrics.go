package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeStored      = "stored"
	OutcomeRejected    = "rejected"
	OutcomeStoreFailed = "store_failed"
)

// Export outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
	OutcomeDenied = "denied"
)

// Metrics holds the kiosk's Prometheus collectors.
type Metrics struct {
	Submissions     *prometheus.CounterVec
	Exports         *prometheus.CounterVec
	ExportedRecords prometheus.Counter
	ScanRowErrors   prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which tests use to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_submissions_total",
			Help: "Kiosk submissions by outcome",
		}, []string{"outcome"}),
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_exports_total",
			Help: "Export requests by outcome",
		}, []string{"outcome"}),
		ExportedRecords: f.NewCounter(prometheus.CounterOpts{
			Name: "attendance_exported_records_total",
			Help: "Records written to export artifacts",
		}),
		ScanRowErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "attendance_scan_row_errors_total",
			Help: "Stored rows skipped because they could not be decoded",
		}),
	}
}

func (m *Metrics) IncSubmission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncExport(outcome string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddExported(n, rowErrors int) {
	if m == nil {
		return
	}
	m.ExportedRecords.Add(float64(n))
	m.ScanRowErrors.Add(float64(rowErrors))
}
