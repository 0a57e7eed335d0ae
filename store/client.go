// Package store provides access to the hosted medicines table through a
// pgx-backed database/sql pool, plus a small declarative query builder.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrUnavailable reports that the store connection is not usable. Handlers
// map it to 503; it is distinct from "zero results".
var ErrUnavailable = errors.New("store unavailable")

// Row is one result row keyed by column name.
type Row map[string]any

// Client wraps the connection pool and tracks availability. The healthy flag
// is written by Probe and read on every query, so requests fail fast while
// the database is down instead of piling up on a dead pool.
type Client struct {
	db        *sql.DB
	probeName string
	healthy   atomic.Bool
	lastProbe atomic.Value // time.Time
}

// Open creates the pool and verifies connectivity once. A failed boot probe
// is fatal to the caller: the service has nothing to serve without the table.
func Open(dsn, probeColumn, table string) (*Client, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	c := &Client{db: db}
	c.probeName = fmt.Sprintf("SELECT %s FROM %s LIMIT 1", quoteIdent(probeColumn), quoteIdent(table))
	c.lastProbe.Store(time.Time{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Probe(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

// Probe pings the database and runs a one-row test select against the
// medicines table, updating the availability flag either way.
func (c *Client) Probe(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		c.healthy.Store(false)
		return fmt.Errorf("%w: ping failed: %v", ErrUnavailable, err)
	}

	rows, err := c.db.QueryContext(ctx, c.probeName)
	if err != nil {
		c.healthy.Store(false)
		return fmt.Errorf("%w: test query failed: %v", ErrUnavailable, err)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		c.healthy.Store(false)
		return fmt.Errorf("%w: test query failed: %v", ErrUnavailable, err)
	}

	c.healthy.Store(true)
	c.lastProbe.Store(time.Now())
	return nil
}

// Available reports the last known connection state.
func (c *Client) Available() bool {
	return c.healthy.Load()
}

// LastProbe returns the time of the last successful probe.
func (c *Client) LastProbe() time.Time {
	if t, ok := c.lastProbe.Load().(time.Time); ok {
		return t
	}
	return time.Time{}
}

// Rows executes the query and returns every matching row in store order.
func (c *Client) Rows(ctx context.Context, q *Query) ([]Row, error) {
	if !c.healthy.Load() {
		return nil, ErrUnavailable
	}

	stmt, args := q.SQL()
	rows, err := c.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Close tears the pool down.
func (c *Client) Close() error {
	c.healthy.Store(false)
	return c.db.Close()
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	out := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			// The driver hands text columns back as []byte in some
			// configurations; normalize so mapping sees strings.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}

	return out, rows.Err()
}
