package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/crshop/attendance/internal/attendance/export"
	"github.com/crshop/attendance/internal/attendance/record"
	"github.com/crshop/attendance/internal/attendance/service"
	"github.com/crshop/attendance/internal/attendance/store"
	"github.com/crshop/attendance/internal/attendance/store/memory"
	"github.com/crshop/attendance/internal/attendance/store/mocks"
	"github.com/crshop/attendance/internal/attendance/types"
	"github.com/crshop/attendance/internal/clock"
	"github.com/crshop/attendance/internal/logging"
	"github.com/crshop/attendance/internal/metrics"
)

const adminPass = "letmein"

type SessionSuite struct {
	suite.Suite
	clock   *clock.Fake
	store   *memory.Store
	dir     string
	metrics *metrics.Metrics
	session *service.Session
	ctx     context.Context
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewFake(time.Date(2026, 2, 5, 9, 3, 0, 0, time.UTC))
	s.store = memory.New()
	s.dir = filepath.Join(s.T().TempDir(), "dumps")
	s.metrics = metrics.New(nil)
	s.session = s.newSession(s.store, export.New(s.dir, s.clock))
}

func (s *SessionSuite) newSession(st store.Store, ex *export.Exporter) *service.Session {
	return service.New(service.Dependencies{
		AdminPass: adminPass,
		Factory:   record.NewFactory(s.clock),
		Store:     st,
		Exporter:  ex,
		Logger:    logging.Discard(),
		Metrics:   s.metrics,
	})
}

func (s *SessionSuite) stored() []types.Record {
	recs, err := s.store.ScanAll(s.ctx)
	s.Require().NoError(err)
	return recs
}

func (s *SessionSuite) TestSubmit_ManualEntryStored() {
	st := s.session.Edit(service.State{}, "John Doe 2025")
	s.Equal("Welcome John Doe, Graduation year: 2025", s.session.Preview(st))

	next, res := s.session.Submit(s.ctx, st)

	s.Equal(service.Stored, res.Outcome)
	s.NoError(res.Err)
	s.Equal(service.State{}, next)
	s.Equal(types.Record{
		ID:           "1770282180000",
		FirstName:    "john",
		LastName:     "doe",
		GradYear:     2025,
		Badge:        false,
		CreationDate: "5/2/2026",
	}, res.Record)
	s.Equal([]types.Record{res.Record}, s.stored())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues(metrics.OutcomeStored)))
}

func (s *SessionSuite) TestSubmit_MalformedDroppedSilently() {
	for _, in := range []string{"John Doe", "John Doe abc", "", "john$doe$abc%"} {
		next, res := s.session.Submit(s.ctx, s.session.Edit(service.State{}, in))
		s.Equal(service.Rejected, res.Outcome, in)
		s.Equal(service.State{}, next, in)
	}
	s.Empty(s.stored())
	s.Equal(4.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues(metrics.OutcomeRejected)))
}

func (s *SessionSuite) TestType_BadgeSentinelAutoSubmits() {
	st, res := s.session.Type(s.ctx, service.State{}, "john$doe$2025")
	s.Nil(res)
	s.Equal("john$doe$2025", st.PendingInput)

	st, res = s.session.Type(s.ctx, st, "john$doe$2025%")
	s.Require().NotNil(res)
	s.Equal(service.Stored, res.Outcome)
	s.True(res.Record.Badge)
	s.Equal(service.State{}, st)
}

func (s *SessionSuite) TestType_ManualWaitsForSubmit() {
	st, res := s.session.Type(s.ctx, service.State{}, "John Doe 2025")
	s.Nil(res)
	s.Equal("John Doe 2025", st.PendingInput)
	s.Empty(s.stored())
}

func (s *SessionSuite) TestSubmit_AdminPasswordNeverStored() {
	st := s.session.Edit(service.State{}, adminPass)
	s.True(st.AdminMode)

	next, res := s.session.Submit(s.ctx, st)
	s.Equal(service.Ignored, res.Outcome)
	s.False(next.AdminMode)
	s.Empty(s.stored())
}

func (s *SessionSuite) TestSubmit_SameMillisecondSecondInsertFails() {
	_, first := s.session.Submit(s.ctx, s.session.Edit(service.State{}, "a b 2025"))
	_, second := s.session.Submit(s.ctx, s.session.Edit(service.State{}, "c d 2026"))

	s.Equal(service.Stored, first.Outcome)
	s.Equal(service.StoreFailed, second.Outcome)
	s.ErrorIs(second.Err, store.ErrInsertion)
	s.Len(s.stored(), 1)
}

func (s *SessionSuite) TestExport_DeniedOutsideAdminMode() {
	_, _ = s.session.Submit(s.ctx, s.session.Edit(service.State{}, "a b 2025"))

	st := s.session.Edit(service.State{}, "not the password")
	next, res := s.session.Export(s.ctx, st)

	s.Equal(service.ExportDenied, res.Outcome)
	s.Equal(st, next)
	_, err := os.Stat(s.dir)
	s.True(os.IsNotExist(err))
}

func (s *SessionSuite) TestExport_WritesAllRecords() {
	for _, in := range []string{"John Doe 2025", "jane$roe$2027%"} {
		_, res := s.session.Submit(s.ctx, s.session.Edit(service.State{}, in))
		s.Require().Equal(service.Stored, res.Outcome)
		s.clock.Advance(5 * time.Second)
	}

	st := s.session.Edit(service.State{}, adminPass)
	next, res := s.session.Export(s.ctx, st)

	s.Equal(service.Exported, res.Outcome)
	s.Equal(st, next, "export leaves the buffer alone")
	s.Equal(2, res.Artifact.Written)
	s.Equal(filepath.Join(s.dir, "2026253.json"), res.Artifact.Path)

	b, err := os.ReadFile(res.Artifact.Path)
	s.Require().NoError(err)
	s.Equal(
		`{"ID":"1770282180000","first_name":"john","last_name":"doe","grad_year":2025,"badge":false,"creation_date":"5/2/2026"}`+
			`{"ID":"1770282185000","first_name":"jane","last_name":"roe","grad_year":2027,"badge":true,"creation_date":"5/2/2026"}`,
		string(b),
	)
	s.Equal(2.0, testutil.ToFloat64(s.metrics.ExportedRecords))
}

func (s *SessionSuite) TestExport_UnwritableDestination() {
	blocker := filepath.Join(s.T().TempDir(), "file")
	s.Require().NoError(os.WriteFile(blocker, nil, 0o644))
	sess := s.newSession(s.store, export.New(blocker, s.clock))

	_, res := sess.Export(s.ctx, sess.Edit(service.State{}, adminPass))

	s.Equal(service.ExportFailed, res.Outcome)
	s.ErrorIs(res.Err, export.ErrExport)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Exports.WithLabelValues(metrics.OutcomeFailed)))
}

// ── Store failures (mocked) ─────────────────────────────────────────────────

func (s *SessionSuite) TestSubmit_InsertFailureIsSoft() {
	ctrl := gomock.NewController(s.T())
	ms := mocks.NewMockStore(ctrl)
	sess := s.newSession(ms, export.New(s.dir, s.clock))

	ms.EXPECT().Insert(gomock.Any(), gomock.Any()).
		Return(store.InsertFailed("1770282180000", errors.New("disk full")))

	next, res := sess.Submit(s.ctx, sess.Edit(service.State{}, "John Doe 2025"))

	s.Equal(service.StoreFailed, res.Outcome)
	s.ErrorIs(res.Err, store.ErrInsertion)
	s.Equal(service.State{}, next)
}

func (s *SessionSuite) TestExport_SkipsUndecodableRows() {
	ctrl := gomock.NewController(s.T())
	ms := mocks.NewMockStore(ctrl)
	sess := s.newSession(ms, export.New(s.dir, s.clock))

	good := types.Record{ID: "1", FirstName: "a", LastName: "b", GradYear: 2025, CreationDate: "1/1/2026"}
	ms.EXPECT().ScanAll(gomock.Any()).
		Return([]types.Record{good}, errors.Join(store.ExtractFailed(2, errors.New("bad grad_year"))))

	_, res := sess.Export(s.ctx, sess.Edit(service.State{}, adminPass))

	s.Equal(service.Exported, res.Outcome)
	s.Equal(1, res.Artifact.Written)
	s.Equal(1, res.RowErrors)
}

func (s *SessionSuite) TestExport_ScanQueryFailureAborts() {
	ctrl := gomock.NewController(s.T())
	ms := mocks.NewMockStore(ctrl)
	sess := s.newSession(ms, export.New(s.dir, s.clock))

	ms.EXPECT().ScanAll(gomock.Any()).
		Return(nil, store.ExtractFailed(0, errors.New("no such table")))

	_, res := sess.Export(s.ctx, sess.Edit(service.State{}, adminPass))

	s.Equal(service.ExportFailed, res.Outcome)
	s.ErrorIs(res.Err, store.ErrExtraction)
	_, err := os.Stat(s.dir)
	s.True(os.IsNotExist(err))
}
