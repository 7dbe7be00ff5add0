package format

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/hiveline/hiveline/core"
)

var _ core.Formatter = (*CSV)(nil)

type CSV struct{}

func NewCSV() *CSV {
	return &CSV{}
}

// Format writes the header and rows as csv. Values are rendered with
// their default string representation.
func (f *CSV) Format(header core.Header, rows []core.Row, _ *core.FormatterOptions) ([]byte, error) {
	var out bytes.Buffer
	w := csv.NewWriter(&out)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("w.Write: %w", err)
	}

	for _, row := range rows {
		fields := make([]string, len(row))
		for i, val := range row {
			fields[i] = fmt.Sprint(val)
		}
		if err := w.Write(fields); err != nil {
			return nil, fmt.Errorf("w.Write: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
