package adapters

import (
	"context"
	nurl "net/url"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/hiveline/hiveline/core"
	"github.com/hiveline/hiveline/core/builders"
)

func setupPostgresTestDriver(t *testing.T) (*postgresDriver, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	u, _ := nurl.Parse("postgres://localhost:5432/test")
	return &postgresDriver{
		c:   builders.NewClient(db),
		url: u,
	}, mock
}

func Test_postgresDriver_QueryRoutesDML(t *testing.T) {
	r := require.New(t)

	driver, mock := setupPostgresTestDriver(t)

	// plain DML goes through Exec and reports affected rows
	mock.ExpectExec(regexp.QuoteMeta("insert into t values (1)")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stream, err := driver.Query(context.Background(), "insert into t values (1)")
	r.NoError(err)
	r.Equal(core.Header{"Rows Affected"}, stream.Header())

	records, err := core.DrainRecords(stream)
	r.NoError(err)
	r.Len(records, 1)
	r.Equal(int64(1), records[0].Value(0))

	// selects go through Query
	mock.ExpectQuery(regexp.QuoteMeta("select id from t")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	stream, err = driver.Query(context.Background(), "select id from t")
	r.NoError(err)
	r.Equal(core.Header{"id"}, stream.Header())

	r.NoError(mock.ExpectationsWereMet())
}

func Test_postgresDriver_SchemaEditor(t *testing.T) {
	tests := []struct {
		name    string
		wantDDL string
		run     func(d *postgresDriver) error
	}{
		{
			name:    "add column",
			wantDDL: `ALTER TABLE "public"."users" ADD COLUMN "age" integer`,
			run: func(d *postgresDriver) error {
				return d.AddColumn(context.Background(), &core.TableOptions{Table: "users"}, "age", "integer")
			},
		},
		{
			name:    "drop column",
			wantDDL: `ALTER TABLE "billing"."users" DROP COLUMN "age"`,
			run: func(d *postgresDriver) error {
				return d.DropColumn(context.Background(), &core.TableOptions{Schema: "billing", Table: "users"}, "age")
			},
		},
		{
			name:    "alter column type",
			wantDDL: `ALTER TABLE "public"."users" ALTER COLUMN "age" TYPE bigint`,
			run: func(d *postgresDriver) error {
				return d.AlterColumnType(context.Background(), &core.TableOptions{Table: "users"}, "age", "bigint")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, mock := setupPostgresTestDriver(t)

			mock.ExpectExec(regexp.QuoteMeta(tt.wantDDL)).
				WillReturnResult(sqlmock.NewResult(0, 0))

			require.NoError(t, tt.run(driver))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
