package table

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"
)

// Supported SQL dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// SQLClient renders queries with goqu and runs them on a database/sql pool.
type SQLClient struct {
	db          *sql.DB
	dialect     goqu.DialectWrapper
	dialectName string
}

// NewSQLClient builds a client for db using the named goqu dialect.
func NewSQLClient(db *sql.DB, dialect string) *SQLClient {
	return &SQLClient{db: db, dialect: goqu.Dialect(dialect), dialectName: dialect}
}

func (c *SQLClient) Fetch(ctx context.Context, q Query) ([]Row, error) {
	query, args, err := c.Build(q)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Table, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", q.Table, err)
	}
	return out, nil
}

// Build renders q to SQL with positional arguments.
func (c *SQLClient) Build(q Query) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	ds := c.dialect.From(q.Table).Prepared(true)
	if len(q.Columns) > 0 {
		cols := make([]any, 0, len(q.Columns))
		for _, col := range q.Columns {
			cols = append(cols, goqu.C(col))
		}
		ds = ds.Select(cols...)
	}

	if len(q.Filters) > 0 {
		where := make([]exp.Expression, 0, len(q.Filters))
		for _, f := range q.Filters {
			where = append(where, c.toExpression(f))
		}
		ds = ds.Where(where...)
	}

	for _, o := range q.Orders {
		if o.Direction == Descending {
			ds = ds.OrderAppend(goqu.C(o.Column).Desc())
		} else {
			ds = ds.OrderAppend(goqu.C(o.Column).Asc())
		}
	}

	if q.Ranged() {
		ds = ds.Offset(uint(q.From)).Limit(uint(q.Limit()))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build query for %s: %w", q.Table, err)
	}
	return query, args, nil
}

// toExpression renders one filter. Patterns are escaped with EscapeLike;
// Postgres treats backslash as the LIKE escape by default, SQLite needs it
// spelled out.
func (c *SQLClient) toExpression(f Filter) exp.Expression {
	switch f.Op {
	case OpILike:
		if c.dialectName == DialectSQLite {
			return goqu.L(`? LIKE ? ESCAPE '\'`, goqu.C(f.Column), f.Value)
		}
		return goqu.C(f.Column).ILike(f.Value)
	case OpOr:
		ors := make([]exp.Expression, 0, len(f.Any))
		for _, sub := range f.Any {
			ors = append(ors, c.toExpression(sub))
		}
		return goqu.Or(ors...)
	default:
		return goqu.C(f.Column).Eq(f.Value)
	}
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
