package adapters

import (
	"context"
	"database/sql"
	"fmt"
	nurl "net/url"
	"strings"

	"github.com/hiveline/hiveline/core"
	"github.com/hiveline/hiveline/core/builders"
)

var (
	_ core.Driver           = (*trinoDriver)(nil)
	_ core.DatabaseSwitcher = (*trinoDriver)(nil)
	_ core.SchemaEditor     = (*trinoDriver)(nil)
)

type trinoDriver struct {
	c              *builders.Client
	connectionURL  *nurl.URL
	currentCatalog string
	currentSchema  string
}

// Query executes a query on the coordinator and streams the results.
func (d *trinoDriver) Query(ctx context.Context, query string) (core.ResultStream, error) {
	return d.c.QueryUntilNotEmpty(ctx, query)
}

// Columns retrieves the ordered column list for a table.
func (d *trinoDriver) Columns(opts *core.TableOptions) ([]*core.Column, error) {
	return d.c.ColumnsFromQuery(`
		SELECT column_name, data_type
		FROM %s.information_schema.columns
		WHERE table_schema = '%s' AND table_name = '%s'
		ORDER BY ordinal_position`,
		trinoQuoteIdentifier(d.currentCatalog), d.schemaOrDefault(opts), opts.Table)
}

// Structure retrieves schemas and tables of the current catalog.
func (d *trinoDriver) Structure() ([]*core.Structure, error) {
	query := fmt.Sprintf(`
		SELECT table_schema, table_name, table_type
		FROM %s.information_schema.tables
		WHERE table_schema != 'information_schema'`,
		trinoQuoteIdentifier(d.currentCatalog))

	rows, err := d.Query(context.Background(), query)
	if err != nil {
		return nil, err
	}

	return core.GetGenericStructure(rows, getTrinoStructureType)
}

func (d *trinoDriver) Close() {
	d.c.Close()
}

// ListDatabases returns the current schema and all schemas of the catalog.
func (d *trinoDriver) ListDatabases() (current string, available []string, err error) {
	query := fmt.Sprintf("SHOW SCHEMAS FROM %s", trinoQuoteIdentifier(d.currentCatalog))

	rows, err := d.Query(context.Background(), query)
	if err != nil {
		return "", nil, err
	}

	for rows.HasNext() {
		row, err := rows.Next()
		if err != nil {
			return "", nil, err
		}

		schema, ok := row[0].(string)
		if !ok {
			return "", nil, fmt.Errorf("expected string, got %T", row[0])
		}
		if schema == d.currentSchema {
			continue
		}
		available = append(available, schema)
	}

	return d.currentSchema, available, nil
}

// SelectDatabase switches the session to another schema of the catalog by
// reconnecting with an updated url.
func (d *trinoDriver) SelectDatabase(name string) error {
	query := d.connectionURL.Query()
	query.Set("schema", name)
	d.connectionURL.RawQuery = query.Encode()

	db, err := sql.Open("trino", d.connectionURL.String())
	if err != nil {
		return fmt.Errorf("unable to switch schemas: %w", err)
	}

	// sql.Open only validates its arguments, ping to make sure the
	// schema is reachable before swapping
	if err = db.Ping(); err != nil {
		return fmt.Errorf("unable to connect to schema: %q, err: %w", name, err)
	}

	d.c.Swap(db)
	d.currentSchema = name

	return nil
}

func (d *trinoDriver) AddColumn(ctx context.Context, opts *core.TableOptions, column, typ string) error {
	return d.execDDL(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
		d.qualifiedTable(opts), trinoQuoteIdentifier(column), typ))
}

func (d *trinoDriver) DropColumn(ctx context.Context, opts *core.TableOptions, column string) error {
	return d.execDDL(ctx, fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s",
		d.qualifiedTable(opts), trinoQuoteIdentifier(column)))
}

func (d *trinoDriver) AlterColumnType(ctx context.Context, opts *core.TableOptions, column, typ string) error {
	return d.execDDL(ctx, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DATA TYPE %s",
		d.qualifiedTable(opts), trinoQuoteIdentifier(column), typ))
}

func (d *trinoDriver) execDDL(ctx context.Context, ddl string) error {
	rows, err := d.c.Exec(ctx, ddl)
	if err != nil {
		return err
	}
	rows.Close()

	return nil
}

func (d *trinoDriver) qualifiedTable(opts *core.TableOptions) string {
	return fmt.Sprintf("%s.%s.%s",
		trinoQuoteIdentifier(d.currentCatalog),
		trinoQuoteIdentifier(d.schemaOrDefault(opts)),
		trinoQuoteIdentifier(opts.Table))
}

func (d *trinoDriver) schemaOrDefault(opts *core.TableOptions) string {
	if opts.Schema != "" {
		return opts.Schema
	}
	return d.currentSchema
}

// trinoQuoteIdentifier quotes an identifier for usage in a statement.
func trinoQuoteIdentifier(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// getTrinoStructureType returns the core.StructureType based on the
// given type string for the trino adapter.
func getTrinoStructureType(typ string) core.StructureType {
	switch typ {
	case "TABLE", "BASE TABLE":
		return core.StructureTypeTable
	case "VIEW":
		return core.StructureTypeView
	default:
		return core.StructureTypeNone
	}
}
