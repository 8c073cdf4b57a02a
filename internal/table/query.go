// Package table is the query-builder contract used to read remote relational
// tables page by page.
//
// A Query is an immutable value built fluently and executed by a Client:
//
//	q := table.From("bulletin_marks").
//		Select("issue_no").
//		Order("issue_no", table.Descending).
//		Range(0, 999)
//	rows, err := client.Fetch(ctx, q)
//
// Range bounds are inclusive, matching the hosted store the panel was first
// written against; Page converts a (index, size) cursor into those bounds.
package table

import (
	"fmt"
	"slices"
	"strings"
)

// Row is one record keyed by column name.
type Row map[string]any

// Direction of an ORDER BY term.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Op names a predicate operator.
type Op string

const (
	OpEq    Op = "eq"
	OpILike Op = "ilike"
	OpOr    Op = "or"
)

// Filter is a single predicate. OpOr filters carry their operands in Any.
type Filter struct {
	Op     Op
	Column string
	Value  any
	Any    []Filter
}

// Eq matches rows whose column equals value.
func Eq(column string, value any) Filter {
	return Filter{Op: OpEq, Column: column, Value: value}
}

// ILike matches rows whose column matches a LIKE pattern, ignoring case.
func ILike(column, pattern string) Filter {
	return Filter{Op: OpILike, Column: column, Value: pattern}
}

// Or matches rows satisfying any of the given filters.
func Or(filters ...Filter) Filter {
	return Filter{Op: OpOr, Any: slices.Clone(filters)}
}

// Order is one ORDER BY term.
type Order struct {
	Column    string
	Direction Direction
}

// Query describes a single ranged read. Filters are combined with AND.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Orders  []Order
	From    int
	To      int
	ranged  bool
}

// From starts a query against table.
func From(table string) Query {
	return Query{Table: table}
}

// Select restricts the returned columns. No columns means all columns.
func (q Query) Select(columns ...string) Query {
	q.Columns = slices.Clone(columns)
	return q
}

// Where appends filters.
func (q Query) Where(filters ...Filter) Query {
	q.Filters = append(slices.Clone(q.Filters), filters...)
	return q
}

// Eq appends an equality filter.
func (q Query) Eq(column string, value any) Query {
	return q.Where(Eq(column, value))
}

// ILike appends a case-insensitive pattern filter.
func (q Query) ILike(column, pattern string) Query {
	return q.Where(ILike(column, pattern))
}

// Or appends a disjunction of filters.
func (q Query) Or(filters ...Filter) Query {
	return q.Where(Or(filters...))
}

// Order appends an ORDER BY term.
func (q Query) Order(column string, dir Direction) Query {
	q.Orders = append(slices.Clone(q.Orders), Order{Column: column, Direction: dir})
	return q
}

// Range limits the query to rows start..end, both inclusive.
func (q Query) Range(start, end int) Query {
	q.From, q.To, q.ranged = start, end, true
	return q
}

// Ranged reports whether Range was applied.
func (q Query) Ranged() bool {
	return q.ranged
}

// Limit is the number of rows the range covers, or 0 when unranged.
func (q Query) Limit() int {
	if !q.ranged {
		return 0
	}
	return q.To - q.From + 1
}

// Validate rejects queries a Client cannot execute.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Table) == "" {
		return fmt.Errorf("table name is required")
	}
	if q.ranged && (q.From < 0 || q.To < q.From) {
		return fmt.Errorf("invalid range [%d, %d]", q.From, q.To)
	}
	for _, f := range q.Filters {
		if err := f.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f Filter) validate() error {
	switch f.Op {
	case OpEq, OpILike:
		if f.Column == "" {
			return fmt.Errorf("%s filter requires a column", f.Op)
		}
	case OpOr:
		if len(f.Any) == 0 {
			return fmt.Errorf("or filter requires at least one operand")
		}
		for _, sub := range f.Any {
			if err := sub.validate(); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported filter op %q", f.Op)
	}
	return nil
}

// Page is an ephemeral pagination cursor.
type Page struct {
	Index int
	Size  int
}

// Bounds returns the inclusive row range [Index*Size, Index*Size+Size-1].
func (p Page) Bounds() (start, end int) {
	start = p.Index * p.Size
	return start, start + p.Size - 1
}

// Apply ranges q to this page.
func (p Page) Apply(q Query) Query {
	start, end := p.Bounds()
	return q.Range(start, end)
}

// ContainsPattern returns a LIKE pattern matching term anywhere in a value.
func ContainsPattern(term string) string {
	return "%" + EscapeLike(term) + "%"
}

// EscapeLike escapes LIKE wildcards in user input.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
