// Package mock provides an in-memory adapter for exercising connection
// and call behavior without a live engine.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/hiveline/hiveline/core"
)

type config struct {
	sideEffects map[string]func(context.Context) error
	helpers     map[string]string
	columns     map[string][]*core.Column
	rowDelay    time.Duration
	failAfter   int
	failWith    error
}

type Option func(*config)

// WithQuerySideEffect runs fn when the given query text is executed.
// An error from fn fails the query before any rows are produced.
func WithQuerySideEffect(query string, fn func(context.Context) error) Option {
	return func(c *config) {
		c.sideEffects[query] = fn
	}
}

// WithTableColumns registers the column list reported for a table.
func WithTableColumns(table string, columns []*core.Column) Option {
	return func(c *config) {
		c.columns[table] = columns
	}
}

// WithTableHelper registers a named helper query.
func WithTableHelper(name, query string) Option {
	return func(c *config) {
		c.helpers[name] = query
	}
}

// WithRowDelay makes every Next call sleep for d.
func WithRowDelay(d time.Duration) Option {
	return func(c *config) {
		c.rowDelay = d
	}
}

// WithStreamError makes the result stream fail with err after n rows
// have been produced.
func WithStreamError(n int, err error) Option {
	return func(c *config) {
		c.failAfter = n
		c.failWith = err
	}
}

// Adapter serves a fixed set of rows for every query.
type Adapter struct {
	rows []core.Row
	cfg  *config
}

var _ core.Adapter = (*Adapter)(nil)

func NewAdapter(rows []core.Row, opts ...Option) *Adapter {
	cfg := &config{
		sideEffects: make(map[string]func(context.Context) error),
		helpers:     make(map[string]string),
		columns:     make(map[string][]*core.Column),
		failAfter:   -1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Adapter{
		rows: rows,
		cfg:  cfg,
	}
}

func (a *Adapter) Connect(string) (core.Driver, error) {
	return &driver{rows: a.rows, cfg: a.cfg}, nil
}

func (a *Adapter) GetHelpers(*core.TableOptions) map[string]string {
	return a.cfg.helpers
}

type driver struct {
	rows []core.Row
	cfg  *config
}

func (d *driver) Query(ctx context.Context, query string) (core.ResultStream, error) {
	if fn, ok := d.cfg.sideEffects[query]; ok {
		if err := fn(ctx); err != nil {
			return nil, err
		}
	}

	return newStream(d.rows, d.cfg), nil
}

func (d *driver) Columns(opts *core.TableOptions) ([]*core.Column, error) {
	return d.cfg.columns[opts.Table], nil
}

func (d *driver) Structure() ([]*core.Structure, error) {
	structure := make([]*core.Structure, 0, len(d.cfg.columns))
	for table := range d.cfg.columns {
		structure = append(structure, &core.Structure{
			Name:   table,
			Schema: "mock",
			Type:   core.StructureTypeTable,
		})
	}
	return structure, nil
}

func (d *driver) Close() {}

// NewRows produces rows {i, "row_i"} for i in [from, to).
func NewRows(from, to int) []core.Row {
	rows := make([]core.Row, 0, to-from)
	for i := from; i < to; i++ {
		rows = append(rows, core.Row{i, fmt.Sprintf("row_%d", i)})
	}
	return rows
}
