package store

import (
	"fmt"
	"strconv"
	"strings"
)

type condOp int

const (
	opEq condOp = iota
	opILike
)

type cond struct {
	column string
	op     condOp
	value  string
}

// Query is a declarative select against one table. Conditions are ANDed in
// the order they were added; the zero limit means no LIMIT clause.
type Query struct {
	table    string
	columns  []string
	distinct bool
	conds    []cond
	orderBy  string
	desc     bool
	limit    int
}

// NewQuery starts a select of all columns from table.
func NewQuery(table string) *Query {
	return &Query{table: table}
}

// Select restricts the projected columns.
func (q *Query) Select(columns ...string) *Query {
	q.columns = columns
	return q
}

// Distinct makes the select return distinct rows.
func (q *Query) Distinct() *Query {
	q.distinct = true
	return q
}

// WhereEq adds an equality condition.
func (q *Query) WhereEq(column, value string) *Query {
	q.conds = append(q.conds, cond{column: column, op: opEq, value: value})
	return q
}

// WhereILike adds a case-insensitive substring condition. The value is
// matched anywhere in the column; LIKE metacharacters in it are escaped.
func (q *Query) WhereILike(column, value string) *Query {
	q.conds = append(q.conds, cond{column: column, op: opILike, value: value})
	return q
}

// OrderBy sorts by one column.
func (q *Query) OrderBy(column string, desc bool) *Query {
	q.orderBy = column
	q.desc = desc
	return q
}

// Limit caps the row count. Non-positive values are ignored.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// SQL compiles the query to parameterized Postgres SQL.
func (q *Query) SQL() (string, []any) {
	var b strings.Builder
	var args []any

	b.WriteString("SELECT ")
	if q.distinct {
		b.WriteString("DISTINCT ")
	}
	if len(q.columns) == 0 {
		b.WriteString("*")
	} else {
		for i, col := range q.columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quoteIdent(col))
		}
	}
	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(q.table))

	for i, c := range q.conds {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		switch c.op {
		case opEq:
			args = append(args, c.value)
			fmt.Fprintf(&b, "%s = $%d", quoteIdent(c.column), len(args))
		case opILike:
			args = append(args, "%"+escapeLike(c.value)+"%")
			fmt.Fprintf(&b, "%s ILIKE $%d", quoteIdent(c.column), len(args))
		}
	}

	if q.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(quoteIdent(q.orderBy))
		if q.desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}

	if q.limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.limit))
	}

	return b.String(), args
}

// quoteIdent quotes an identifier. The hosted table uses column names with
// spaces ("Cost of branded"), so quoting is not optional.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// escapeLike neutralizes LIKE metacharacters so user text matches literally.
func escapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
