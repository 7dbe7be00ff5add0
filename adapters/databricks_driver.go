package adapters

import (
	"context"
	"database/sql"
	"fmt"
	nurl "net/url"

	"github.com/hiveline/hiveline/core"
	"github.com/hiveline/hiveline/core/builders"
)

var (
	_ core.Driver           = (*databricksDriver)(nil)
	_ core.DatabaseSwitcher = (*databricksDriver)(nil)
)

// databricksDriver is a driver for Databricks SQL warehouses.
type databricksDriver struct {
	c              *builders.Client
	connectionURL  *nurl.URL
	currentCatalog string
}

// Query executes the given query and returns the result stream.
func (d *databricksDriver) Query(ctx context.Context, query string) (core.ResultStream, error) {
	return d.c.QueryUntilNotEmpty(ctx, query)
}

// Columns returns the columns and their types for the given table.
func (d *databricksDriver) Columns(opts *core.TableOptions) ([]*core.Column, error) {
	return d.c.ColumnsFromQuery(`
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE
			table_schema='%s' AND
			table_name='%s';`,
		opts.Schema, opts.Table)
}

// Structure returns the structure of the current catalog.
func (d *databricksDriver) Structure() ([]*core.Structure, error) {
	query := fmt.Sprintf(`
		SELECT table_schema, table_name, table_type
		FROM system.information_schema.tables
		WHERE table_catalog = '%s';`,
		d.currentCatalog)

	rows, err := d.Query(context.Background(), query)
	if err != nil {
		return nil, err
	}

	return core.GetGenericStructure(rows, getDatabricksStructureType)
}

// Close closes the connection to the database.
func (d *databricksDriver) Close() {
	d.c.Close()
}

// ListDatabases returns the current catalog and a list of
// available catalogs.
func (d *databricksDriver) ListDatabases() (current string, available []string, err error) {
	rows, err := d.Query(context.Background(), "SHOW CATALOGS;")
	if err != nil {
		return "", nil, err
	}

	records, err := core.DrainRecords(rows)
	if err != nil {
		return "", nil, err
	}

	for _, record := range records {
		catalog, ok := record.Value(0).(string)
		if !ok {
			return "", nil, fmt.Errorf("expected string, got %T", record.Value(0))
		}
		available = append(available, catalog)
	}

	return d.currentCatalog, available, nil
}

// SelectDatabase switches to another catalog by reconnecting with an
// updated url.
func (d *databricksDriver) SelectDatabase(name string) error {
	query := d.connectionURL.Query()
	query.Set("catalog", name)
	d.connectionURL.RawQuery = query.Encode()

	db, err := sql.Open("databricks", d.connectionURL.String())
	if err != nil {
		return fmt.Errorf("unable to switch catalogs: %w", err)
	}

	d.c.Swap(db)
	d.currentCatalog = name

	return nil
}

// getDatabricksStructureType returns the core.StructureType based on the
// given type string for databricks adapter.
func getDatabricksStructureType(typ string) core.StructureType {
	switch typ {
	case "TABLE", "BASE TABLE", "SYSTEM TABLE", "MANAGED", "STREAMING_TABLE":
		return core.StructureTypeTable
	case "VIEW", "SYSTEM VIEW", "MATERIALIZED_VIEW":
		return core.StructureTypeView
	default:
		return core.StructureTypeNone
	}
}
