package adapters

import (
	"database/sql"
	"fmt"
	nurl "net/url"

	"github.com/trinodb/trino-go-client/trino"

	"github.com/hiveline/hiveline/core"
	"github.com/hiveline/hiveline/core/builders"
)

// Register client
func init() {
	_ = register(&Trino{}, "trino")
}

var _ core.Adapter = (*Trino)(nil)

type Trino struct{}

// Connect establishes a connection to a Trino cluster coordinator.
// The URL format is expected to be:
//
//	http[s]://user[:password]@host:port?catalog=<catalog>&schema=<schema>
//
// See https://github.com/trinodb/trino-go-client for more config options.
func (t *Trino) Connect(connectionURL string) (core.Driver, error) {
	parsedURL, err := nurl.Parse(connectionURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse connection string: %w", err)
	}

	catalog := parsedURL.Query().Get("catalog")
	if catalog == "" {
		return nil, fmt.Errorf("required parameter '?catalog=<catalog>' is missing")
	}
	schema := parsedURL.Query().Get("schema")
	if schema == "" {
		schema = "default"
	}

	cfg := &trino.Config{
		ServerURI: parsedURL.String(),
		Source:    "hiveline",
	}
	dsn, err := cfg.FormatDSN()
	if err != nil {
		return nil, fmt.Errorf("invalid trino connection config: %w", err)
	}

	db, err := sql.Open("trino", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to trino coordinator: %w", err)
	}

	return &trinoDriver{
		c:              builders.NewClient(db),
		connectionURL:  parsedURL,
		currentCatalog: catalog,
		currentSchema:  schema,
	}, nil
}

// GetHelpers returns Trino-specific helper queries.
func (t *Trino) GetHelpers(opts *core.TableOptions) map[string]string {
	schemaTable := fmt.Sprintf("%s.%s", opts.Schema, opts.Table)

	return map[string]string{
		"List":        fmt.Sprintf("SELECT * FROM %s LIMIT 100", schemaTable),
		"Columns":     fmt.Sprintf("DESCRIBE %s", schemaTable),
		"Show Create": fmt.Sprintf("SHOW CREATE TABLE %s", schemaTable),
		"Stats":       fmt.Sprintf("SHOW STATS FOR %s", schemaTable),
	}
}
