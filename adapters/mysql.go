package adapters

import (
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/go-sql-driver/mysql"

	"github.com/hiveline/hiveline/core"
	"github.com/hiveline/hiveline/core/builders"
)

// Register client
func init() {
	_ = register(&MySQL{}, "mysql")
}

var _ core.Adapter = (*MySQL)(nil)

type MySQL struct{}

func (m *MySQL) Connect(url string) (core.Driver, error) {
	// add multiple statements support parameter
	match, err := regexp.MatchString(`[\?][\w]+=[\w-]+`, url)
	if err != nil {
		return nil, err
	}
	sep := "?"
	if match {
		sep = "&"
	}

	db, err := sql.Open("mysql", url+sep+"multiStatements=true")
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mysql database: %w", err)
	}

	return &mySQLDriver{
		c: builders.NewClient(db),
	}, nil
}

func (m *MySQL) GetHelpers(opts *core.TableOptions) map[string]string {
	return map[string]string{
		"List":    fmt.Sprintf("SELECT * FROM `%s` LIMIT 500", opts.Table),
		"Columns": fmt.Sprintf("DESCRIBE `%s`", opts.Table),
		"Indexes": fmt.Sprintf("SHOW INDEXES FROM `%s`", opts.Table),
	}
}
