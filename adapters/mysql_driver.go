package adapters

import (
	"context"
	"fmt"

	"github.com/hiveline/hiveline/core"
	"github.com/hiveline/hiveline/core/builders"
)

var (
	_ core.Driver       = (*mySQLDriver)(nil)
	_ core.SchemaEditor = (*mySQLDriver)(nil)
)

type mySQLDriver struct {
	c *builders.Client
}

func (c *mySQLDriver) Query(ctx context.Context, query string) (core.ResultStream, error) {
	// run query, fallback to affected rows
	return c.c.QueryUntilNotEmpty(ctx, query, "select ROW_COUNT() as 'Rows Affected'")
}

func (c *mySQLDriver) Columns(opts *core.TableOptions) ([]*core.Column, error) {
	return c.c.ColumnsFromQuery("DESCRIBE `%s`", opts.Table)
}

func (c *mySQLDriver) Structure() ([]*core.Structure, error) {
	query := `
		SELECT table_schema, table_name, table_type FROM information_schema.tables
		WHERE table_schema NOT IN ('information_schema', 'performance_schema', 'mysql', 'sys')`

	rows, err := c.Query(context.Background(), query)
	if err != nil {
		return nil, err
	}

	return core.GetGenericStructure(rows, getMySQLStructureType)
}

func (c *mySQLDriver) Close() {
	c.c.Close()
}

func (c *mySQLDriver) AddColumn(ctx context.Context, opts *core.TableOptions, column, typ string) error {
	return c.execDDL(ctx, fmt.Sprintf("ALTER TABLE `%s` ADD COLUMN `%s` %s", opts.Table, column, typ))
}

func (c *mySQLDriver) DropColumn(ctx context.Context, opts *core.TableOptions, column string) error {
	return c.execDDL(ctx, fmt.Sprintf("ALTER TABLE `%s` DROP COLUMN `%s`", opts.Table, column))
}

func (c *mySQLDriver) AlterColumnType(ctx context.Context, opts *core.TableOptions, column, typ string) error {
	return c.execDDL(ctx, fmt.Sprintf("ALTER TABLE `%s` MODIFY COLUMN `%s` %s", opts.Table, column, typ))
}

func (c *mySQLDriver) execDDL(ctx context.Context, ddl string) error {
	rows, err := c.c.Exec(ctx, ddl)
	if err != nil {
		return err
	}
	rows.Close()

	return nil
}

// getMySQLStructureType returns the structure type based on the provided string.
func getMySQLStructureType(typ string) core.StructureType {
	switch typ {
	case "TABLE", "BASE TABLE", "SYSTEM TABLE":
		return core.StructureTypeTable
	case "VIEW", "SYSTEM VIEW":
		return core.StructureTypeView
	default:
		return core.StructureTypeNone
	}
}
