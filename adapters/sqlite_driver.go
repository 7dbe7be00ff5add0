//go:build (darwin && (amd64 || arm64)) || (freebsd && (386 || amd64 || arm || arm64)) || (linux && (386 || amd64 || arm || arm64 || ppc64le || riscv64 || s390x)) || (netbsd && amd64) || (openbsd && (amd64 || arm64)) || (windows && (amd64 || arm64))

package adapters

import (
	"context"
	"fmt"

	"github.com/hiveline/hiveline/core"
	"github.com/hiveline/hiveline/core/builders"
)

var (
	_ core.Driver       = (*sqliteDriver)(nil)
	_ core.SchemaEditor = (*sqliteDriver)(nil)
)

type sqliteDriver struct {
	c *builders.Client
}

func (d *sqliteDriver) Query(ctx context.Context, query string) (core.ResultStream, error) {
	// run query, fallback to affected rows
	return d.c.QueryUntilNotEmpty(ctx, query, "select changes() as 'Rows Affected'")
}

func (d *sqliteDriver) Columns(opts *core.TableOptions) ([]*core.Column, error) {
	return d.c.ColumnsFromQuery("SELECT name, type FROM pragma_table_info('%s')", opts.Table)
}

func (d *sqliteDriver) Structure() ([]*core.Structure, error) {
	// sqlite is single schema structure, so we hardcode the name of it.
	query := "SELECT 'sqlite_schema' as schema, name, type FROM sqlite_schema"

	rows, err := d.Query(context.Background(), query)
	if err != nil {
		return nil, err
	}

	return core.GetGenericStructure(rows, getSQLiteStructureType)
}

func (d *sqliteDriver) Close() {
	d.c.Close()
}

func (d *sqliteDriver) AddColumn(ctx context.Context, opts *core.TableOptions, column, typ string) error {
	return d.execDDL(ctx, fmt.Sprintf("ALTER TABLE %q ADD COLUMN %q %s", opts.Table, column, typ))
}

func (d *sqliteDriver) DropColumn(ctx context.Context, opts *core.TableOptions, column string) error {
	return d.execDDL(ctx, fmt.Sprintf("ALTER TABLE %q DROP COLUMN %q", opts.Table, column))
}

// AlterColumnType is not a thing in sqlite, tables have to be rebuilt.
func (d *sqliteDriver) AlterColumnType(ctx context.Context, opts *core.TableOptions, column, typ string) error {
	return core.ErrSchemaEditingNotSupported
}

func (d *sqliteDriver) execDDL(ctx context.Context, ddl string) error {
	rows, err := d.c.Exec(ctx, ddl)
	if err != nil {
		return err
	}
	rows.Close()

	return nil
}

func getSQLiteStructureType(typ string) core.StructureType {
	switch typ {
	case "table":
		return core.StructureTypeTable
	case "view":
		return core.StructureTypeView
	default:
		return core.StructureTypeNone
	}
}
