package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrDatabaseSwitchingNotSupported = errors.New("database switching not supported")
	ErrSchemaEditingNotSupported     = errors.New("schema editing not supported")
)

type (
	// Adapter is an object which allows to connect to a database via url
	Adapter interface {
		Connect(url string) (Driver, error)
		GetHelpers(opts *TableOptions) map[string]string
	}

	// Driver is an interface for a specific database driver
	Driver interface {
		Query(context.Context, string) (ResultStream, error)
		Columns(opts *TableOptions) ([]*Column, error)
		Structure() ([]*Structure, error)
		Close()
	}

	// DatabaseSwitcher is an optional interface for drivers that have
	// database switching capabilities
	DatabaseSwitcher interface {
		SelectDatabase(string) error
		ListDatabases() (current string, available []string, err error)
	}

	// SchemaEditor is an optional interface for drivers that support
	// column level DDL.
	SchemaEditor interface {
		AddColumn(ctx context.Context, opts *TableOptions, column, typ string) error
		DropColumn(ctx context.Context, opts *TableOptions, column string) error
		AlterColumnType(ctx context.Context, opts *TableOptions, column, typ string) error
	}
)

type ConnectionID string

// Connection is a single caller-owned handle to one database endpoint.
// One instance serves any number of sequential queries, but is not safe
// for concurrent calls to Query or Execute.
type Connection struct {
	params           *ConnectionParams
	unexpandedParams *ConnectionParams

	adapter Adapter
	driver  Driver
}

// NewConnection validates the parameters and prepares the underlying
// driver. Connectivity is established lazily - the first query dials the
// endpoint, constructing a connection never touches the network.
func NewConnection(params *ConnectionParams, adapter Adapter) (*Connection, error) {
	expanded := params.Expand()

	if expanded.ID == "" {
		expanded.ID = ConnectionID(uuid.New().String())
	}

	driver, err := adapter.Connect(expanded.URL)
	if err != nil {
		return nil, &ConnectionError{URL: expanded.URL, Err: err}
	}

	c := &Connection{
		params:           expanded,
		unexpandedParams: params,

		adapter: adapter,
		driver:  driver,
	}

	return c, nil
}

func (c *Connection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.params)
}

func (c *Connection) GetID() ConnectionID {
	return c.params.ID
}

func (c *Connection) GetName() string {
	return c.params.Name
}

func (c *Connection) GetType() string {
	return c.params.Type
}

func (c *Connection) GetURL() string {
	return c.params.URL
}

// GetParams returns the original source for this connection
func (c *Connection) GetParams() *ConnectionParams {
	return c.unexpandedParams
}

// Query sends the query text verbatim to the engine and returns a lazy
// stream of result rows in engine order. It blocks until the engine
// starts producing results or fails. Failures are reported as either
// *ConnectionError or *QueryError.
func (c *Connection) Query(ctx context.Context, query string) (ResultStream, error) {
	stream, err := c.driver.Query(ctx, query)
	if err != nil {
		return nil, classifyQueryError(c.params.URL, query, err)
	}

	// errors surfacing mid-stream get the same classification as errors
	// returned up front
	return &classifiedStream{ResultStream: stream, url: c.params.URL, query: query}, nil
}

// GetHelpers returns a map of named helper queries for a table, expanded
// for the table in opts.
func (c *Connection) GetHelpers(opts *TableOptions) map[string]string {
	if opts == nil {
		opts = &TableOptions{}
	}
	return c.adapter.GetHelpers(opts)
}

// Execute runs the query in the background and reports progress through
// the returned call and the optional onEvent callback.
func (c *Connection) Execute(query string, onEvent func(CallState, *Call)) *Call {
	exec := func(ctx context.Context) (ResultStream, error) {
		return c.Query(ctx, query)
	}

	return newCall(exec, query, onEvent)
}

// SelectDatabase tries to switch to a given database with the used client.
// on error, the switch doesn't happen and the previous connection remains active.
func (c *Connection) SelectDatabase(name string) error {
	switcher, ok := c.driver.(DatabaseSwitcher)
	if !ok {
		return ErrDatabaseSwitchingNotSupported
	}

	err := switcher.SelectDatabase(name)
	if err != nil {
		return fmt.Errorf("switcher.SelectDatabase: %w", err)
	}

	return nil
}

func (c *Connection) ListDatabases() (current string, available []string, err error) {
	switcher, ok := c.driver.(DatabaseSwitcher)
	if !ok {
		return "", nil, ErrDatabaseSwitchingNotSupported
	}

	currentDB, availableDBs, err := switcher.ListDatabases()
	if err != nil {
		return "", nil, fmt.Errorf("switcher.ListDatabases: %w", err)
	}

	return currentDB, availableDBs, nil
}

// Columns returns the ordered (name, type) column list of a table.
func (c *Connection) Columns(opts *TableOptions) ([]*Column, error) {
	columns, err := c.driver.Columns(opts)
	if err != nil {
		return nil, fmt.Errorf("driver.Columns: %w", err)
	}

	if len(columns) < 1 {
		return nil, fmt.Errorf("table %q does not exist", opts.Table)
	}

	return columns, nil
}

// AddColumn appends a new column to the table. It fails if the column is
// already present.
func (c *Connection) AddColumn(ctx context.Context, opts *TableOptions, column, typ string) error {
	editor, ok := c.driver.(SchemaEditor)
	if !ok {
		return ErrSchemaEditingNotSupported
	}

	existing, err := c.columnType(opts, column)
	if err != nil {
		return err
	}
	if existing != "" {
		return fmt.Errorf("table %q already has column %q", opts.Table, column)
	}

	return editor.AddColumn(ctx, opts, column, typ)
}

// DropColumn removes a column from the table. It fails if the column is
// not present.
func (c *Connection) DropColumn(ctx context.Context, opts *TableOptions, column string) error {
	editor, ok := c.driver.(SchemaEditor)
	if !ok {
		return ErrSchemaEditingNotSupported
	}

	existing, err := c.columnType(opts, column)
	if err != nil {
		return err
	}
	if existing == "" {
		return fmt.Errorf("table %q does not have column %q", opts.Table, column)
	}

	return editor.DropColumn(ctx, opts, column)
}

// AlterColumnType changes the type of an existing column. Columns that
// already have the requested type are left alone.
func (c *Connection) AlterColumnType(ctx context.Context, opts *TableOptions, column, typ string) error {
	editor, ok := c.driver.(SchemaEditor)
	if !ok {
		return ErrSchemaEditingNotSupported
	}

	existing, err := c.columnType(opts, column)
	if err != nil {
		return err
	}
	if existing == "" {
		return fmt.Errorf("table %q does not have column %q", opts.Table, column)
	}
	if existing == typ {
		return nil
	}

	return editor.AlterColumnType(ctx, opts, column, typ)
}

// columnType returns the type of the column or "" when it doesn't exist.
func (c *Connection) columnType(opts *TableOptions, column string) (string, error) {
	columns, err := c.Columns(opts)
	if err != nil {
		return "", err
	}

	for _, col := range columns {
		if col.Name == column {
			return col.Type, nil
		}
	}

	return "", nil
}

func (c *Connection) GetStructure() ([]*Structure, error) {
	// structure
	structure, err := c.driver.Structure()
	if err != nil {
		return nil, err
	}

	// fallback to not confuse users
	if len(structure) < 1 {
		structure = []*Structure{
			{
				Name: "no schema to show",
				Type: StructureTypeNone,
			},
		}
	}
	return structure, nil
}

func (c *Connection) Close() {
	c.driver.Close()
}
