package bulletin

import (
	"context"
	"log/slog"

	"patentdesk/internal/bulletin/ports"
	dErrors "patentdesk/pkg/domain-errors"
	"patentdesk/pkg/requestcontext"
)

// Service exposes the bulletin aggregators and the firm watch report.
type Service struct {
	aggregator *Aggregator
	firms      ports.FirmDirectory
	logger     *slog.Logger
}

type ServiceOption func(*Service)

func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService constructs a Service. firms may be nil, in which case
// WatchIssue reports the directory as unavailable.
func NewService(aggregator *Aggregator, firms ports.FirmDirectory, opts ...ServiceOption) *Service {
	s := &Service{aggregator: aggregator, firms: firms, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListIssueNumbers(ctx context.Context) []string {
	return s.aggregator.ListIssueNumbers(ctx)
}

func (s *Service) SearchMarks(ctx context.Context, term string, opts SearchOptions) SearchResult {
	return s.aggregator.SearchMarks(ctx, term, opts)
}

// WatchIssue matches every firm title against the marks of one issue. Firms
// are searched one after another; a failed search marks the report partial
// and moves on to the next firm.
func (s *Service) WatchIssue(ctx context.Context, issue IssueNumber) (*WatchReport, error) {
	if issue <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "issue number must be a positive integer")
	}
	if s.firms == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "firm directory is not configured")
	}

	firms, err := s.firms.ListFirms(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list firms")
	}

	report := &WatchReport{Issue: issue, Matches: []WatchMatch{}}
	for _, f := range firms {
		if err := ctx.Err(); err != nil {
			report.Partial = true
			break
		}
		res := s.aggregator.SearchMarks(ctx, f.Title, SearchOptions{Issue: issue})
		if res.Partial {
			report.Partial = true
		}
		if len(res.Marks) == 0 {
			continue
		}
		report.Matches = append(report.Matches, WatchMatch{
			Firm:  FirmRef{ID: f.ID, Title: f.Title},
			Marks: res.Marks,
		})
	}

	s.logger.InfoContext(ctx, "bulletin watch report built",
		"request_id", requestcontext.RequestID(ctx),
		"issue", issue.String(),
		"firms", len(firms),
		"matches", len(report.Matches),
		"partial", report.Partial,
	)
	return report, nil
}
