package core

import "fmt"

// Record is a single result row paired with its header. Values are
// accessible both positionally and by column name and keep the order the
// engine returned them in.
type Record struct {
	header Header
	row    Row
}

func NewRecord(header Header, row Row) Record {
	return Record{
		header: header,
		row:    row,
	}
}

func (r Record) Len() int {
	return len(r.row)
}

// Name returns the column name at position i or an empty string when the
// header is shorter than the row.
func (r Record) Name(i int) string {
	if i < 0 || i >= len(r.header) {
		return ""
	}
	return r.header[i]
}

func (r Record) Value(i int) any {
	if i < 0 || i >= len(r.row) {
		return nil
	}
	return r.row[i]
}

// Get looks a value up by column name. The second return value reports
// whether the column exists in the record's header.
func (r Record) Get(name string) (any, bool) {
	for i, h := range r.header {
		if h != name || i >= len(r.row) {
			continue
		}
		return r.row[i], true
	}
	return nil, false
}

// Map converts the record to a column-name-to-value mapping.
// Field order is lost, use positional access where it matters.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.row))
	for i, val := range r.row {
		name := r.Name(i)
		if name == "" {
			// values past the header still need distinct keys
			name = fmt.Sprintf("field_%d", i)
		}
		out[name] = val
	}
	return out
}

// DrainRecords consumes the whole stream and returns its rows as records.
// The stream is closed afterwards.
func DrainRecords(stream ResultStream) ([]Record, error) {
	defer stream.Close()

	header := stream.Header()

	var records []Record
	for stream.HasNext() {
		row, err := stream.Next()
		if err != nil {
			return nil, err
		}
		records = append(records, NewRecord(header, row))
	}

	return records, nil
}
