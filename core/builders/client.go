package builders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hiveline/hiveline/core"
)

// Client wraps a *sql.DB with the stream-producing query helpers shared
// by the sql based drivers.
type Client struct {
	db         *sql.DB
	processors map[string]func(any) any
}

type ClientOption func(*Client)

// WithCustomTypeProcessor converts values of the given database type
// before they reach a result stream. The first registration for a type
// wins.
func WithCustomTypeProcessor(typ string, fn func(any) any) ClientOption {
	return func(c *Client) {
		t := strings.ToLower(typ)
		if _, ok := c.processors[t]; ok {
			return
		}
		c.processors[t] = fn
	}
}

func NewClient(db *sql.DB, opts ...ClientOption) *Client {
	c := &Client{
		db:         db,
		processors: make(map[string]func(any) any),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Conn grabs a dedicated connection from the pool.
func (c *Client) Conn(ctx context.Context) (*Conn, error) {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	return &Conn{
		conn:       conn,
		processors: c.processors,
	}, nil
}

// QueryUntilNotEmpty runs the query on a dedicated connection which is
// released once the returned stream closes. Statements that produce no
// result set fall through to the fallback queries in order - typically
// affected row counts of DML statements.
func (c *Client) QueryUntilNotEmpty(ctx context.Context, query string, fallbacks ...string) (*ResultStream, error) {
	conn, err := c.Conn(ctx)
	if err != nil {
		return nil, err
	}
	release := func() { conn.Close() }

	for _, q := range append([]string{query}, fallbacks...) {
		stream, err := conn.Query(ctx, q)
		if err != nil {
			release()
			return nil, err
		}

		if len(stream.Header()) > 0 {
			stream.OnClose(release)
			return stream, nil
		}
		stream.Close()
	}

	// neither the query nor any fallback produced a result set
	next, hasNext := NextNil()
	stream := NewResultStream(next, hasNext, WithOnClose(release))
	return stream, nil
}

// Exec runs the statement on a dedicated connection and returns a single
// row stream with the number of affected rows.
func (c *Client) Exec(ctx context.Context, query string) (*ResultStream, error) {
	conn, err := c.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return conn.Exec(ctx, query)
}

// ColumnsFromQuery runs the sprintf-ed query on a fresh connection and
// reads the result as a column list. The query has to return rows of at
// least (name string, type string).
func (c *Client) ColumnsFromQuery(query string, args ...any) ([]*core.Column, error) {
	ctx := context.Background()

	conn, err := c.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	stream, err := conn.Query(ctx, fmt.Sprintf(query, args...))
	if err != nil {
		return nil, err
	}

	return ColumnsFromResultStream(stream)
}

func (c *Client) Close() {
	c.db.Close()
}

// Swap closes the current database handle and replaces it with db.
func (c *Client) Swap(db *sql.DB) {
	c.db.Close()
	c.db = db
}

// Conn is a single pooled connection, held for the lifetime of one
// query's stream.
type Conn struct {
	conn       *sql.Conn
	processors map[string]func(any) any
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

// Query runs the query and exposes its rows as a lazy stream.
func (c *Conn) Query(ctx context.Context, query string) (*ResultStream, error) {
	dbRows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	header, err := dbRows.Columns()
	if err != nil {
		return nil, err
	}

	hasNext := func() bool {
		if dbRows.Next() {
			return true
		}
		// multi-statement queries may carry further result sets
		if dbRows.NextResultSet() {
			return dbRows.Next()
		}
		return false
	}

	next := func() (core.Row, error) {
		return c.scanRow(dbRows)
	}

	stream := NewResultStream(next, hasNext,
		WithHeader(header),
		WithOnClose(func() { _ = dbRows.Close() }),
	)

	return stream, nil
}

// Exec runs the statement and returns a single row stream with the
// number of affected rows.
func (c *Conn) Exec(ctx context.Context, query string) (*ResultStream, error) {
	res, err := c.conn.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	next, hasNext := NextSingle(affected)
	return NewResultStream(next, hasNext, WithHeader(core.Header{"Rows Affected"})), nil
}

// scanRow reads one row, applying the type processors. Column types are
// looked up per row because NextResultSet can change them mid-stream.
func (c *Conn) scanRow(rows *sql.Rows) (core.Row, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(types))
	pointers := make([]any, len(types))
	for i := range values {
		pointers[i] = &values[i]
	}

	if err := rows.Scan(pointers...); err != nil {
		return nil, err
	}

	row := make(core.Row, len(types))
	for i, typ := range types {
		row[i] = c.process(typ.DatabaseTypeName(), values[i])
	}

	return row, nil
}

// process applies the registered processor for the type, defaulting to
// the []byte-to-string conversion every driver ends up needing.
func (c *Conn) process(typ string, val any) any {
	if proc, ok := c.processors[strings.ToLower(typ)]; ok {
		return proc(val)
	}

	if b, ok := val.([]byte); ok {
		return string(b)
	}
	return val
}

// ColumnsFromResultStream reads (name, type) pairs out of a stream - the
// shape information_schema and pragma column queries return.
func ColumnsFromResultStream(stream core.ResultStream) ([]*core.Column, error) {
	var columns []*core.Column

	for stream.HasNext() {
		row, err := stream.Next()
		if err != nil {
			return nil, err
		}
		if len(row) < 2 {
			return nil, errors.New("column query returned too few fields")
		}

		name, nameOK := row[0].(string)
		typ, typOK := row[1].(string)
		if !nameOK || !typOK {
			return nil, fmt.Errorf("column query returned non-string fields: %v", row)
		}

		columns = append(columns, &core.Column{Name: name, Type: typ})
	}

	return columns, nil
}
