package adapters

import (
	"database/sql"
	"fmt"
	nurl "net/url"

	_ "github.com/databricks/databricks-sql-go"

	"github.com/hiveline/hiveline/core"
	"github.com/hiveline/hiveline/core/builders"
)

// Register client
func init() {
	_ = register(&Databricks{}, "databricks")
}

var _ core.Adapter = (*Databricks)(nil)

type Databricks struct{}

// Connect parses the connectionURL and returns a new core.Driver
// connectionURL is a DSN structure in the format of:
//
//	token:[my_token]@[hostname]:[port]/[endpoint http path]?param=value
//
// requires the 'catalog' parameter to be set.
//
// see https://github.com/databricks/databricks-sql-go for more information.
func (d *Databricks) Connect(connectionURL string) (core.Driver, error) {
	parsedURL, err := nurl.Parse(connectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	db, err := sql.Open("databricks", parsedURL.String())
	if err != nil {
		return nil, fmt.Errorf("invalid databricks connection string: %w", err)
	}

	currentCatalog := parsedURL.Query().Get("catalog")
	if currentCatalog == "" {
		return nil, fmt.Errorf("required parameter '?catalog=<catalog>' is missing")
	}

	return &databricksDriver{
		c:              builders.NewClient(db),
		connectionURL:  parsedURL,
		currentCatalog: currentCatalog,
	}, nil
}

// GetHelpers returns a map of helper queries for the given table.
func (d *Databricks) GetHelpers(opts *core.TableOptions) map[string]string {
	return map[string]string{
		"List":     fmt.Sprintf("SELECT * FROM %s.%s LIMIT 100;", opts.Schema, opts.Table),
		"Describe": fmt.Sprintf("DESCRIBE EXTENDED %s.%s;", opts.Schema, opts.Table),
		"Columns": fmt.Sprintf(`
			SELECT *
			FROM information_schema.columns
			WHERE table_schema = '%s'
				AND table_name = '%s';`,
			opts.Schema, opts.Table),
	}
}
