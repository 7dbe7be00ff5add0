package format_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiveline/hiveline/core"
	"github.com/hiveline/hiveline/core/format"
)

var (
	testHeader = core.Header{"id", "name"}
	testRows   = []core.Row{
		{1, "first"},
		{2, "second"},
	}
)

func TestCSVFormat(t *testing.T) {
	r := require.New(t)

	out, err := format.NewCSV().Format(testHeader, testRows, &core.FormatterOptions{})
	r.NoError(err)

	r.Equal("id,name\n1,first\n2,second\n", string(out))
}

func TestJSONFormat_SchemaFul(t *testing.T) {
	r := require.New(t)

	out, err := format.NewJSON().Format(testHeader, testRows, &core.FormatterOptions{
		SchemaType: core.SchemaFul,
	})
	r.NoError(err)

	var decoded []map[string]any
	r.NoError(json.Unmarshal(out, &decoded))

	r.Len(decoded, 2)
	r.Equal("first", decoded[0]["name"])
	r.Equal("second", decoded[1]["name"])
}

func TestJSONFormat_SchemaLess(t *testing.T) {
	r := require.New(t)

	rows := []core.Row{{"single"}, {"value"}}

	out, err := format.NewJSON().Format(core.Header{}, rows, &core.FormatterOptions{
		SchemaType: core.SchemaLess,
	})
	r.NoError(err)

	var decoded []any
	r.NoError(json.Unmarshal(out, &decoded))
	r.Equal([]any{"single", "value"}, decoded)
}

func TestTableFormat(t *testing.T) {
	r := require.New(t)

	out, err := format.NewTable().Format(testHeader, testRows, &core.FormatterOptions{})
	r.NoError(err)

	rendered := string(out)
	r.Contains(rendered, "id")
	r.Contains(rendered, "name")
	r.Contains(rendered, "first")
	r.Contains(rendered, "second")
}
