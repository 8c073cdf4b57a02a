package bulletin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"patentdesk/internal/bulletin/ports"
	"patentdesk/internal/table"
	dErrors "patentdesk/pkg/domain-errors"
)

type stubDirectory struct {
	firms []ports.Firm
	err   error
}

func (s stubDirectory) ListFirms(context.Context) ([]ports.Firm, error) {
	return s.firms, s.err
}

type WatchSuite struct {
	suite.Suite
	mem    *table.Memory
	client *recordingClient
	ctx    context.Context
}

func TestWatchSuite(t *testing.T) {
	suite.Run(t, new(WatchSuite))
}

func (s *WatchSuite) SetupTest() {
	s.mem = table.NewMemory()
	s.mem.Insert(marks,
		markRow(312, "ZLATNI KLAS", "Ferko Ltd"),
		markRow(312, "FERKOVIT", "Someone Else"),
		markRow(312, "ČOKOLINO", "Podravka d.d."),
		markRow(311, "FERKO CLASSIC", "Ferko Ltd"),
	)
	s.client = newRecordingClient(s.mem)
	s.ctx = context.Background()
}

func (s *WatchSuite) service(dir ports.FirmDirectory) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agg := NewAggregator(s.client, DefaultConfig(), WithLogger(logger))
	return NewService(agg, dir, WithServiceLogger(logger))
}

func (s *WatchSuite) TestMatchesFirmsWithinIssue() {
	svc := s.service(stubDirectory{firms: []ports.Firm{
		{ID: "f1", Title: "Ferko"},
		{ID: "f2", Title: "Kraš"},
		{ID: "f3", Title: "Podravka"},
	}})

	report, err := svc.WatchIssue(s.ctx, 312)
	s.Require().NoError(err)
	s.Equal(IssueNumber(312), report.Issue)
	s.False(report.Partial)
	s.Require().Len(report.Matches, 2)

	s.Equal("f1", report.Matches[0].Firm.ID)
	s.Len(report.Matches[0].Marks, 2)
	s.Equal("f3", report.Matches[1].Firm.ID)
	s.Len(report.Matches[1].Marks, 1)
	s.Equal(3, s.client.calls())
}

func (s *WatchSuite) TestFailedSearchMarksReportPartial() {
	s.client.failAt = 0
	svc := s.service(stubDirectory{firms: []ports.Firm{
		{ID: "f1", Title: "Ferko"},
		{ID: "f3", Title: "Podravka"},
	}})

	report, err := svc.WatchIssue(s.ctx, 312)
	s.Require().NoError(err)
	s.True(report.Partial)
	s.Require().Len(report.Matches, 1)
	s.Equal("f3", report.Matches[0].Firm.ID)
}

func (s *WatchSuite) TestErrors() {
	s.Run("non positive issue", func() {
		_, err := s.service(stubDirectory{}).WatchIssue(s.ctx, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("missing directory", func() {
		_, err := s.service(nil).WatchIssue(s.ctx, 312)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	s.Run("directory failure", func() {
		_, err := s.service(stubDirectory{err: errors.New("db down")}).WatchIssue(s.ctx, 312)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("no firms gives empty report", func() {
		report, err := s.service(stubDirectory{}).WatchIssue(s.ctx, 312)
		s.Require().NoError(err)
		s.NotNil(report.Matches)
		s.Empty(report.Matches)
	})
}

func TestParseIssueNumber(t *testing.T) {
	for _, in := range []string{"", " ", "abc", "0", "-4", "1.5"} {
		if _, err := ParseIssueNumber(in); err == nil {
			t.Errorf("ParseIssueNumber(%q) expected error", in)
		}
	}
	n, err := ParseIssueNumber(" 312 ")
	if err != nil || n != 312 {
		t.Fatalf("ParseIssueNumber(312) = %d, %v", n, err)
	}
}
