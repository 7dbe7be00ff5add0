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
	_ core.Driver           = (*postgresDriver)(nil)
	_ core.DatabaseSwitcher = (*postgresDriver)(nil)
	_ core.SchemaEditor     = (*postgresDriver)(nil)
)

type postgresDriver struct {
	c   *builders.Client
	url *nurl.URL
}

func (c *postgresDriver) Query(ctx context.Context, query string) (core.ResultStream, error) {
	action := strings.ToLower(strings.Split(query, " ")[0])
	hasReturnValues := strings.Contains(strings.ToLower(query), " returning ")

	if (action == "update" || action == "delete" || action == "insert") && !hasReturnValues {
		return c.c.Exec(ctx, query)
	}

	return c.c.QueryUntilNotEmpty(ctx, query)
}

func (c *postgresDriver) Columns(opts *core.TableOptions) ([]*core.Column, error) {
	return c.c.ColumnsFromQuery(`
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE
			table_schema='%s' AND
			table_name='%s'
		ORDER BY ordinal_position
		`, schemaOrPublic(opts), opts.Table)
}

func (c *postgresDriver) Structure() ([]*core.Structure, error) {
	query := `
		SELECT table_schema, table_name, table_type FROM information_schema.tables UNION ALL
		SELECT schemaname, matviewname, 'MATERIALIZED VIEW' FROM pg_matviews;
	`

	rows, err := c.Query(context.Background(), query)
	if err != nil {
		return nil, err
	}

	return core.GetGenericStructure(rows, getPGStructureType)
}

func (c *postgresDriver) Close() {
	c.c.Close()
}

func (c *postgresDriver) ListDatabases() (current string, available []string, err error) {
	query := `
		SELECT current_database(), datname FROM pg_database
		WHERE datistemplate = false
		AND datname != current_database();
	`

	rows, err := c.Query(context.Background(), query)
	if err != nil {
		return "", nil, err
	}

	for rows.HasNext() {
		row, err := rows.Next()
		if err != nil {
			return "", nil, err
		}

		// We know for a fact there are 2 string fields (see query above)
		current = row[0].(string)
		available = append(available, row[1].(string))
	}

	return current, available, nil
}

func (c *postgresDriver) SelectDatabase(name string) error {
	c.url.Path = fmt.Sprintf("/%s", name)
	db, err := sql.Open("postgres", c.url.String())
	if err != nil {
		return fmt.Errorf("unable to switch databases: %w", err)
	}

	// sql.Open just validates its arguments
	// without creating a connection to the database
	// so we need to ping the database to check if it's valid
	if err = db.Ping(); err != nil {
		return fmt.Errorf("unable to connect to database: %q, err: %w", name, err)
	}

	c.c.Swap(db)

	return nil
}

func (c *postgresDriver) AddColumn(ctx context.Context, opts *core.TableOptions, column, typ string) error {
	return c.execDDL(ctx, fmt.Sprintf("ALTER TABLE %q.%q ADD COLUMN %q %s",
		schemaOrPublic(opts), opts.Table, column, typ))
}

func (c *postgresDriver) DropColumn(ctx context.Context, opts *core.TableOptions, column string) error {
	return c.execDDL(ctx, fmt.Sprintf("ALTER TABLE %q.%q DROP COLUMN %q",
		schemaOrPublic(opts), opts.Table, column))
}

func (c *postgresDriver) AlterColumnType(ctx context.Context, opts *core.TableOptions, column, typ string) error {
	return c.execDDL(ctx, fmt.Sprintf("ALTER TABLE %q.%q ALTER COLUMN %q TYPE %s",
		schemaOrPublic(opts), opts.Table, column, typ))
}

func (c *postgresDriver) execDDL(ctx context.Context, ddl string) error {
	rows, err := c.c.Exec(ctx, ddl)
	if err != nil {
		return err
	}
	rows.Close()

	return nil
}

func schemaOrPublic(opts *core.TableOptions) string {
	if opts.Schema != "" {
		return opts.Schema
	}
	return "public"
}

// getPGStructureType returns the structure type based on the provided string.
func getPGStructureType(typ string) core.StructureType {
	switch typ {
	case "TABLE", "BASE TABLE", "FOREIGN", "FOREIGN TABLE", "SYSTEM TABLE":
		return core.StructureTypeTable
	case "VIEW", "SYSTEM VIEW":
		return core.StructureTypeView
	case "MATERIALIZED VIEW":
		return core.StructureTypeMaterializedView
	default:
		return core.StructureTypeNone
	}
}
