package bulletin

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"patentdesk/internal/bulletin/metrics"
	"patentdesk/internal/table"
	"patentdesk/pkg/requestcontext"
)

const (
	opScan   = "issue_scan"
	opSearch = "mark_search"
)

// Aggregator reads the bulletin table page by page. Every loop is sequential:
// one page is requested, awaited and processed before the next. A failed page
// ends the loop and whatever was accumulated so far is returned.
type Aggregator struct {
	client  table.Client
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Aggregator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(a *Aggregator) {
		a.tracer = t
	}
}

// NewAggregator constructs an Aggregator. Zero fields in cfg take their
// DefaultConfig values.
func NewAggregator(client table.Client, cfg Config, opts ...Option) *Aggregator {
	a := &Aggregator{
		client: client,
		cfg:    cfg.withDefaults(),
		logger: slog.Default(),
		tracer: otel.Tracer("patentdesk/bulletin"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the effective configuration.
func (a *Aggregator) Config() Config {
	return a.cfg
}

// ListIssueNumbers returns every distinct issue number in the bulletin table,
// highest first, formatted as decimal strings. It never fails: a fetch error
// stops the scan and the issues read before it are returned. At most
// Scan.MaxPages pages are requested.
func (a *Aggregator) ListIssueNumbers(ctx context.Context) []string {
	ctx, span := a.tracer.Start(ctx, "bulletin.ListIssueNumbers")
	defer span.End()
	start := time.Now()

	limits := a.cfg.Scan
	base := table.From(a.cfg.Table).Select(a.cfg.IssueColumn)

	var issues []IssueNumber
	page := 0
	hasMore := true
	for hasMore && page < limits.MaxPages {
		q := table.Page{Index: page, Size: limits.PageSize}.Apply(base)
		rows, err := a.fetch(ctx, opScan, q)
		if err != nil {
			a.logger.ErrorContext(ctx, "bulletin issue page fetch failed",
				"request_id", requestcontext.RequestID(ctx),
				"table", a.cfg.Table,
				"page", page,
				"error", err,
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "page fetch failed")
			break
		}

		if len(rows) == 0 {
			hasMore = false
		} else {
			for _, row := range rows {
				if n, ok := coerceIssueNumber(row[a.cfg.IssueColumn]); ok {
					issues = append(issues, n)
				}
			}
			if len(rows) < limits.PageSize {
				hasMore = false
			}
		}
		page++
	}
	if hasMore && page >= limits.MaxPages {
		a.metrics.IncCeiling(opScan)
		a.logger.WarnContext(ctx, "bulletin issue scan hit page ceiling",
			"request_id", requestcontext.RequestID(ctx),
			"max_pages", limits.MaxPages,
		)
	}

	out := uniqueDescending(issues)
	span.SetAttributes(
		attribute.Int("bulletin.pages", page),
		attribute.Int("bulletin.issues", len(out)),
	)
	a.metrics.ObserveAggregate(opScan, len(issues), start)
	return out
}

// SearchMarks returns every bulletin mark whose searchable columns contain
// term, ordered by issue number descending. A term that is empty after
// trimming yields an empty result without touching the table. Results are
// capped at Search.SafetyLimit rows.
func (a *Aggregator) SearchMarks(ctx context.Context, term string, opts SearchOptions) SearchResult {
	term = strings.TrimSpace(term)
	if term == "" {
		return SearchResult{Marks: []MarkRecord{}}
	}

	ctx, span := a.tracer.Start(ctx, "bulletin.SearchMarks")
	defer span.End()
	start := time.Now()

	limits := a.cfg.Search
	base := table.From(a.cfg.Table).
		Or(a.searchFilters(term)...).
		Order(a.cfg.IssueColumn, table.Descending)
	if opts.Issue > 0 {
		base = base.Eq(a.cfg.IssueColumn, int64(opts.Issue))
	}

	res := SearchResult{Marks: []MarkRecord{}}
	offset := 0
	hasMore := true
	for hasMore {
		q := base.Range(offset, offset+limits.PageSize-1)
		rows, err := a.fetch(ctx, opSearch, q)
		if err != nil {
			a.logger.ErrorContext(ctx, "bulletin search page fetch failed",
				"request_id", requestcontext.RequestID(ctx),
				"table", a.cfg.Table,
				"offset", offset,
				"error", err,
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "page fetch failed")
			res.Partial = true
			break
		}

		for _, row := range rows {
			res.Marks = append(res.Marks, MarkRecord(row))
		}
		offset += limits.PageSize
		if len(rows) < limits.PageSize {
			hasMore = false
		}

		if len(res.Marks) >= limits.SafetyLimit {
			res.Truncated = len(res.Marks) > limits.SafetyLimit || hasMore
			res.Marks = res.Marks[:limits.SafetyLimit]
			if res.Truncated {
				a.metrics.IncCeiling(opSearch)
				a.logger.WarnContext(ctx, "bulletin search hit safety limit",
					"request_id", requestcontext.RequestID(ctx),
					"safety_limit", limits.SafetyLimit,
				)
			}
			break
		}
	}

	span.SetAttributes(
		attribute.Int("bulletin.marks", len(res.Marks)),
		attribute.Bool("bulletin.truncated", res.Truncated),
		attribute.Bool("bulletin.partial", res.Partial),
	)
	a.metrics.ObserveAggregate(opSearch, len(res.Marks), start)
	return res
}

func (a *Aggregator) searchFilters(term string) []table.Filter {
	pattern := table.ContainsPattern(term)
	filters := make([]table.Filter, 0, len(a.cfg.SearchColumns))
	for _, col := range a.cfg.SearchColumns {
		filters = append(filters, table.ILike(col, pattern))
	}
	return filters
}

// fetch runs one page request. A panic inside the client is reported as a
// fetch error so the caller's stop-and-keep-partial policy applies.
func (a *Aggregator) fetch(ctx context.Context, op string, q table.Query) (rows []table.Row, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("table client panicked: %v", r)
		}
		if err != nil {
			a.metrics.IncFailure(op)
		}
	}()
	a.metrics.IncPage(op)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.client.Fetch(ctx, q)
}

// uniqueDescending drops duplicates, sorts highest first and formats the
// result. It always returns a non-nil slice.
func uniqueDescending(in []IssueNumber) []string {
	sorted := slices.Clone(in)
	slices.SortFunc(sorted, func(x, y IssueNumber) int {
		switch {
		case x > y:
			return -1
		case x < y:
			return 1
		}
		return 0
	})
	sorted = slices.Compact(sorted)
	out := make([]string, len(sorted))
	for i, n := range sorted {
		out[i] = n.String()
	}
	return out
}
