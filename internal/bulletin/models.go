package bulletin

import (
	"math"
	"strconv"
	"strings"

	"patentdesk/internal/table"
	dErrors "patentdesk/pkg/domain-errors"
)

// IssueNumber identifies a published trademark bulletin issue.
type IssueNumber int64

func (n IssueNumber) String() string {
	return strconv.FormatInt(int64(n), 10)
}

// ParseIssueNumber parses user input into a positive issue number.
func ParseIssueNumber(s string) (IssueNumber, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeValidation, "issue number is required")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "issue number must be a positive integer")
	}
	return IssueNumber(n), nil
}

// MarkRecord is a bulletin_marks row, passed through unmodified.
type MarkRecord = table.Row

// ScanLimits bound the issue-number scan.
type ScanLimits struct {
	PageSize int
	MaxPages int
}

// Ceiling is the most rows a scan can accumulate.
func (l ScanLimits) Ceiling() int {
	return l.PageSize * l.MaxPages
}

// SearchLimits bound the mark search.
type SearchLimits struct {
	PageSize    int
	SafetyLimit int
}

// Config names the bulletin table and bounds both aggregators.
type Config struct {
	Table         string
	IssueColumn   string
	SearchColumns []string
	Scan          ScanLimits
	Search        SearchLimits
}

// DefaultConfig matches the production bulletin_marks layout.
func DefaultConfig() Config {
	return Config{
		Table:         "bulletin_marks",
		IssueColumn:   "issue_no",
		SearchColumns: []string{"mark_name", "corporate_title"},
		Scan:          ScanLimits{PageSize: 1000, MaxPages: 50},
		Search:        SearchLimits{PageSize: 1000, SafetyLimit: 20000},
	}
}

// withDefaults fills zero or negative fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Table == "" {
		c.Table = d.Table
	}
	if c.IssueColumn == "" {
		c.IssueColumn = d.IssueColumn
	}
	if len(c.SearchColumns) == 0 {
		c.SearchColumns = d.SearchColumns
	}
	if c.Scan.PageSize <= 0 {
		c.Scan.PageSize = d.Scan.PageSize
	}
	if c.Scan.MaxPages <= 0 {
		c.Scan.MaxPages = d.Scan.MaxPages
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = d.Search.PageSize
	}
	if c.Search.SafetyLimit <= 0 {
		c.Search.SafetyLimit = d.Search.SafetyLimit
	}
	return c
}

// SearchOptions narrow a mark search. A zero Issue searches every issue.
type SearchOptions struct {
	Issue IssueNumber
}

// SearchResult is the outcome of a mark search. Partial is set when a page
// fetch failed and Truncated when the safety limit cut the result.
type SearchResult struct {
	Marks     []MarkRecord
	Truncated bool
	Partial   bool
}

// FirmRef is the slice of a firm record the watch report needs.
type FirmRef struct {
	ID    string
	Title string
}

// WatchMatch lists the marks of one issue that match a firm.
type WatchMatch struct {
	Firm  FirmRef
	Marks []MarkRecord
}

// WatchReport is the result of matching one bulletin issue against all firms.
type WatchReport struct {
	Issue   IssueNumber
	Matches []WatchMatch
	Partial bool
}

// coerceIssueNumber turns a raw column value into an issue number. Empty
// values (nil, blank text, false) are dropped, as are values that do not read
// as a positive finite integer.
func coerceIssueNumber(v any) (IssueNumber, bool) {
	switch n := v.(type) {
	case int:
		return positive(float64(n))
	case int32:
		return positive(float64(n))
	case int64:
		if n <= 0 {
			return 0, false
		}
		return IssueNumber(n), true
	case float32:
		return positive(float64(n))
	case float64:
		return positive(n)
	case []byte:
		return fromText(string(n))
	case string:
		return fromText(n)
	default:
		return 0, false
	}
}

func fromText(s string) (IssueNumber, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return positive(f)
}

func positive(f float64) (IssueNumber, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f <= 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return IssueNumber(f), true
}
