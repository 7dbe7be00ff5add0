package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tsuite "github.com/stretchr/testify/suite"

	"github.com/hiveline/hiveline/core"
	th "github.com/hiveline/hiveline/tests/testhelpers"
)

// TrinoTestSuite is the test suite for the trino adapter. By default it
// starts a throwaway coordinator container; set HIVELINE_TRINO_URL to run
// against an existing one instead, e.g.:
//
//	HIVELINE_TRINO_URL="http://hiveline@localhost:8080?catalog=memory" go test ./tests/integration/
type TrinoTestSuite struct {
	tsuite.Suite
	ctx context.Context
	ctr *th.TrinoContainer
	// d is the trino connection
	d *core.Connection
}

// TestTrinoTestSuite is the entrypoint for go test.
//
// testify/suite can't handle parallel tests, see
// https://github.com/stretchr/testify/issues/934
func TestTrinoTestSuite(t *testing.T) {
	tsuite.Run(t, new(TrinoTestSuite))
}

func (suite *TrinoTestSuite) SetupSuite() {
	suite.ctx = context.Background()

	ctr, err := th.NewTrinoContainer(suite.ctx, &core.ConnectionParams{
		ID:   "test-trino",
		Name: "test-trino",
	})
	if err != nil {
		suite.T().Skipf("skipping, could not start coordinator: %s", err)
	}

	suite.ctr = ctr
	suite.d = ctr.Driver
}

func (suite *TrinoTestSuite) TearDownSuite() {
	if suite.d != nil {
		suite.d.Close()
	}
	if suite.ctr != nil && suite.ctr.Container != nil {
		_ = suite.ctr.Terminate(suite.ctx)
	}
}

func (suite *TrinoTestSuite) TestShouldErrorInvalidQuery() {
	t := suite.T()

	_, err := suite.d.Query(suite.ctx, "invalid sql")
	assert.Error(t, err)
	assert.True(t, core.IsQueryError(err))
	// the engine diagnostic comes through untouched
	assert.NotEmpty(t, errors.Unwrap(err).Error())
}

func (suite *TrinoTestSuite) TestShouldReturnRows() {
	t := suite.T()

	wantStates := []core.CallState{
		core.CallStateExecuting, core.CallStateRetrieving, core.CallStateCompleted,
	}
	wantCols := []string{"id", "name"}
	wantRows := []core.Row{
		{int64(1), "first"},
		{int64(2), "second"},
	}

	query := `
	SELECT * FROM (
		VALUES (BIGINT '1', 'first'), (BIGINT '2', 'second')
	) AS t (id, name)
	ORDER BY id`

	gotRows, gotCols, gotStates, err := th.GetResult(t, suite.d, query)
	assert.NoError(t, err)

	assert.ElementsMatch(t, wantCols, gotCols)
	assert.ElementsMatch(t, wantStates, gotStates)
	assert.Equal(t, wantRows, gotRows)
}

func (suite *TrinoTestSuite) TestShouldPreserveRowOrderAndShape() {
	t := suite.T()

	query := `
	SELECT * FROM (
		VALUES (BIGINT '3', 'c'), (BIGINT '1', 'a'), (BIGINT '2', 'b')
	) AS t (id, name)
	ORDER BY id`

	stream, err := suite.d.Query(suite.ctx, query)
	assert.NoError(t, err)

	records, err := core.DrainRecords(stream)
	assert.NoError(t, err)
	assert.Len(t, records, 3)

	for i, rec := range records {
		assert.Equal(t, 2, rec.Len())
		assert.Equal(t, int64(i+1), rec.Value(0))

		got, ok := rec.Get("id")
		assert.True(t, ok)
		assert.Equal(t, rec.Value(0), got)
	}
}

func (suite *TrinoTestSuite) TestShouldReturnNoRowsForEmptyResult() {
	t := suite.T()

	query := `
	SELECT * FROM (
		VALUES (1, 'first')
	) AS t (id, name)
	WHERE id < 0`

	stream, err := suite.d.Query(suite.ctx, query)
	assert.NoError(t, err)

	records, err := core.DrainRecords(stream)
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func (suite *TrinoTestSuite) TestShouldServeSequentialQueries() {
	t := suite.T()

	for i := 1; i <= 3; i++ {
		stream, err := suite.d.Query(suite.ctx, "SELECT 1")
		assert.NoError(t, err)

		records, err := core.DrainRecords(stream)
		assert.NoError(t, err)
		assert.Len(t, records, 1)
	}
}

func (suite *TrinoTestSuite) TestShouldTimeOutSlowQuery() {
	t := suite.T()

	ctx, cancel := context.WithTimeout(suite.ctx, time.Nanosecond)
	defer cancel()

	_, err := suite.d.Query(ctx, "SELECT count(*) FROM tpch.sf1.lineitem")
	assert.Error(t, err)
	assert.True(t, core.IsConnectionError(err))
	assert.ErrorIs(t, err, core.ErrTimeout)
}

func (suite *TrinoTestSuite) TestShouldListDatabases() {
	t := suite.T()

	current, available, err := suite.d.ListDatabases()
	assert.NoError(t, err)
	assert.NotEmpty(t, current)
	assert.NotEmpty(t, available)
}

func (suite *TrinoTestSuite) TestShouldReturnStructureAndColumns() {
	t := suite.T()

	// the memory catalog keeps this table for the suite only
	stream, err := suite.d.Query(suite.ctx, "CREATE TABLE IF NOT EXISTS structure_probe (id BIGINT, name VARCHAR)")
	assert.NoError(t, err)
	stream.Close()

	structure, err := suite.d.GetStructure()
	assert.NoError(t, err)

	gotSchemas := th.GetSchemas(t, structure)
	assert.Contains(t, gotSchemas, "default")

	gotTables := th.GetModels(t, structure, core.StructureTypeTable)
	assert.Contains(t, gotTables, "structure_probe")

	columns, err := suite.d.Columns(&core.TableOptions{Table: "structure_probe"})
	assert.NoError(t, err)
	assert.Equal(t, []*core.Column{
		{Name: "id", Type: "bigint"},
		{Name: "name", Type: "varchar"},
	}, columns)
}
