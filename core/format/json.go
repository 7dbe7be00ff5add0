package format

import (
	"encoding/json"
	"fmt"

	"github.com/hiveline/hiveline/core"
)

var _ core.Formatter = (*JSON)(nil)

type JSON struct{}

func NewJSON() *JSON {
	return &JSON{}
}

func (f *JSON) Format(header core.Header, rows []core.Row, opts *core.FormatterOptions) ([]byte, error) {
	var data any
	switch opts.SchemaType {
	case core.SchemaLess:
		data = flatten(rows)
	default:
		out := make([]map[string]any, len(rows))
		for i, row := range rows {
			out[i] = core.NewRecord(header, row).Map()
		}
		data = out
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json.MarshalIndent: %w", err)
	}

	return encoded, nil
}

// flatten unwraps single-column rows so schemaless results (e.g. raw
// documents) render as the value itself rather than a one-element array.
func flatten(rows []core.Row) []any {
	out := make([]any, 0, len(rows))
	for _, row := range rows {
		switch len(row) {
		case 0:
			continue
		case 1:
			out = append(out, row[0])
		default:
			out = append(out, row)
		}
	}
	return out
}
