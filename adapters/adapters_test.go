package adapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hiveline/hiveline/adapters"
	"github.com/hiveline/hiveline/core"
)

func TestNewConnection_UnknownType(t *testing.T) {
	r := require.New(t)

	_, err := adapters.NewConnection(&core.ConnectionParams{
		Type: "cobol",
		URL:  "cobol://localhost",
	})
	r.Error(err)
	r.ErrorIs(err, adapters.ErrUnsupportedTypeAlias)
}

func TestNewEndpointConnection(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		server   string
		port     int
		database string
		wantErr  bool
	}{
		{
			name:     "trino",
			typ:      "trino",
			server:   "coordinator.internal",
			port:     8080,
			database: "hive",
		},
		{
			name:     "postgres",
			typ:      "postgres",
			server:   "localhost",
			port:     5432,
			database: "warehouse",
		},
		{
			name:     "mysql",
			typ:      "mysql",
			server:   "localhost",
			port:     3306,
			database: "warehouse",
		},
		{
			name:     "unsupported triple",
			typ:      "sqlite",
			server:   "localhost",
			port:     0,
			database: "file.db",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)

			conn, err := adapters.NewEndpointConnection(tt.typ, tt.server, tt.port, tt.database)
			if tt.wantErr {
				r.Error(err)
				return
			}

			// connecting is lazy, so building a connection never dials
			r.NoError(err)
			r.NotNil(conn)
			conn.Close()
		})
	}
}

func TestMux_AddHelpers(t *testing.T) {
	r := require.New(t)

	mux := &adapters.Mux{}

	err := mux.AddHelpers("cobol", map[string]string{"List": "SELECT 1"})
	r.ErrorIs(err, adapters.ErrUnsupportedTypeAlias)

	// extra helpers are templated with the table options
	err = mux.AddHelpers("trino", map[string]string{
		"Row Count": "SELECT count(*) FROM {{.Schema}}.{{.Table}}",
	})
	r.NoError(err)

	conn, err := adapters.NewConnection(&core.ConnectionParams{
		Type: "trino",
		URL:  "http://hiveline@localhost:8080?catalog=memory",
	})
	r.NoError(err)
	defer conn.Close()

	helpers := conn.GetHelpers(&core.TableOptions{Schema: "default", Table: "users"})
	r.Equal("SELECT count(*) FROM default.users", helpers["Row Count"])
	r.Equal("SELECT * FROM default.users LIMIT 100", helpers["List"])
	r.Contains(helpers, "Columns")
}

func TestConnection_UnreachableEndpoint(t *testing.T) {
	r := require.New(t)

	// nothing listens on port 1; connect_timeout keeps the failure fast
	conn, err := adapters.NewConnection(&core.ConnectionParams{
		Type: "postgres",
		URL:  "postgres://localhost:1/nonexistent?sslmode=disable&connect_timeout=2",
	})
	r.NoError(err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = conn.Query(ctx, "select 1")
	r.Error(err)
	r.True(core.IsConnectionError(err))
}
