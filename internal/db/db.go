// Package db wraps a pgx pool for the explorer's database mode. Every query
// comes back as display-ready strings; the UI never sees driver types.
package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Result is a fully materialized query result, stringified for display.
type Result struct {
	Headers []string
	Rows    [][]string
}

type Client struct {
	pool *pgxpool.Pool
	dsn  string
}

// Connect parses the DSN, builds a small pool and verifies it with a ping.
// A single-user explorer needs very few connections.
func Connect(ctx context.Context, dsn string) (*Client, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Client{pool: pool, dsn: dsn}, nil
}

func (c *Client) DSN() string { return c.dsn }

func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}

// Query runs sql and stringifies every value.
func (c *Client) Query(ctx context.Context, sql string, args ...any) (*Result, error) {
	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	res := &Result{Headers: make([]string, len(fds))}
	for i, fd := range fds {
		res.Headers[i] = string(fd.Name)
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Tables lists the user tables of the public schema, itself as a result set.
func (c *Client) Tables(ctx context.Context) (*Result, error) {
	return c.Query(ctx, `
		SELECT table_name, table_type
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name`)
}

// TableRows fetches the first rows of a table. The name is quoted, not
// interpolated, so it survives mixed case and quotes.
func (c *Client) TableRows(ctx context.Context, table string, limit int) (*Result, error) {
	if limit <= 0 {
		limit = 1000
	}
	return c.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(table), limit))
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// formatValue renders a driver value the way psql would, close enough for
// display: NULL spelled out, timestamps in a stable layout, control
// characters escaped so rows stay on one line.
func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	switch val := v.(type) {
	case []byte:
		if len(val) == 0 {
			return ""
		}
		for _, b := range val {
			if b < 32 && b != '\n' && b != '\r' && b != '\t' {
				return fmt.Sprintf("[%d bytes]", len(val))
			}
		}
		return escapeControl(string(val))
	case string:
		return escapeControl(val)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func escapeControl(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
