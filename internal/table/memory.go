package table

import (
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Memory is an in-process Client holding rows per table. It honors the same
// filter, order and range semantics as SQLClient; NULLs sort below every value.
type Memory struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

// NewMemory constructs an empty in-memory table client.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]Row)}
}

// Insert appends rows to table.
func (m *Memory) Insert(table string, rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.tables[table] = append(m.tables[table], maps.Clone(r))
	}
}

// Len returns the number of rows stored in table.
func (m *Memory) Len(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}

func (m *Memory) Fetch(ctx context.Context, q Query) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	source := m.tables[q.Table]
	matched := make([]Row, 0, len(source))
	for _, row := range source {
		ok, err := matchAll(row, q.Filters)
		if err != nil {
			m.mu.RUnlock()
			return nil, err
		}
		if ok {
			matched = append(matched, row)
		}
	}
	m.mu.RUnlock()

	if len(q.Orders) > 0 {
		slices.SortStableFunc(matched, func(a, b Row) int {
			for _, o := range q.Orders {
				c := compareValues(a[o.Column], b[o.Column])
				if o.Direction == Descending {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}

	if q.Ranged() {
		if q.From >= len(matched) {
			matched = nil
		} else {
			matched = matched[q.From:min(q.To+1, len(matched))]
		}
	}

	out := make([]Row, 0, len(matched))
	for _, row := range matched {
		out = append(out, project(row, q.Columns))
	}
	return out, nil
}

func project(row Row, columns []string) Row {
	if len(columns) == 0 {
		return maps.Clone(row)
	}
	out := make(Row, len(columns))
	for _, c := range columns {
		out[c] = row[c]
	}
	return out
}

func matchAll(row Row, filters []Filter) (bool, error) {
	for _, f := range filters {
		ok, err := match(row, f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func match(row Row, f Filter) (bool, error) {
	switch f.Op {
	case OpEq:
		v := row[f.Column]
		if v == nil || f.Value == nil {
			return false, nil
		}
		return compareValues(v, f.Value) == 0, nil
	case OpILike:
		v := row[f.Column]
		if v == nil {
			return false, nil
		}
		pattern, ok := f.Value.(string)
		if !ok {
			return false, fmt.Errorf("ilike pattern must be a string, got %T", f.Value)
		}
		re, err := likeRegexp(pattern)
		if err != nil {
			return false, err
		}
		return re.MatchString(fmt.Sprint(v)), nil
	case OpOr:
		for _, sub := range f.Any {
			ok, err := match(row, sub)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unsupported filter op %q", f.Op)
	}
}

// likeRegexp translates a LIKE pattern (with backslash escapes) to an
// anchored, case-insensitive regular expression.
func likeRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`(?is)^`)
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(`.*`)
		case r == '_':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if escaped {
		b.WriteString(`\\`)
	}
	b.WriteString(`$`)
	return regexp.Compile(b.String())
}

// compareValues orders two column values. Values that both read as numbers
// compare numerically, everything else compares as text. nil is smallest.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
