package core

import (
	"fmt"
	"sync"
	"time"
)

// flushWait caps how long a range read waits for rows that are still
// being retrieved from the engine.
const flushWait = 5 * time.Minute

func errInvalidRange(from, to int) error {
	return fmt.Errorf("invalid selection range: %d ... %d", from, to)
}

// Result caches the records of one executed query so they can be read in
// ranges and formatted after the stream is gone. Range reads are allowed
// while the stream is still draining and block until the requested rows
// arrive.
type Result struct {
	mu      sync.RWMutex
	header  Header
	meta    *Meta
	records []Record
	drained bool
	filled  bool
}

// SetIter drains the stream into the result, closing it afterwards.
// onFillStart fires after the header is known but before the first row
// is pulled.
func (r *Result) SetIter(iter ResultStream, onFillStart func()) error {
	defer iter.Close()

	r.mu.Lock()
	r.header = iter.Header()
	r.meta = iter.Meta()
	r.records = nil
	r.drained = false
	r.filled = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.drained = true
		r.mu.Unlock()
	}()

	if onFillStart != nil {
		onFillStart()
	}

	for iter.HasNext() {
		row, err := iter.Next()
		if err != nil {
			r.mu.Lock()
			r.filled = false
			r.mu.Unlock()
			return err
		}

		r.mu.Lock()
		r.records = append(r.records, NewRecord(r.header, row))
		r.mu.Unlock()
	}

	return nil
}

// Wipe clears the result so it can hold another query's rows.
func (r *Result) Wipe() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.header = Header{}
	r.meta = &Meta{}
	r.records = nil
	r.drained = false
	r.filled = false
}

func (r *Result) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// IsEmpty reports whether the result holds a drained query. A query with
// zero rows is still a filled result.
func (r *Result) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.filled
}

func (r *Result) Header() Header {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.header
}

// Records returns the requested row range with positional and by-name
// access. Negative indices select from the end, -1 being one past the
// last record.
func (r *Result) Records(from, to int) ([]Record, error) {
	records, _, err := r.getRange(from, to)
	return records, err
}

// Rows returns the requested row range as raw value slices.
func (r *Result) Rows(from, to int) ([]Row, error) {
	records, _, err := r.getRange(from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(records))
	for i, record := range records {
		rows[i] = record.row
	}
	return rows, nil
}

// Format renders the requested row range with the given formatter.
func (r *Result) Format(formatter Formatter, from, to int) ([]byte, error) {
	records, adjustedFrom, err := r.getRange(from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(records))
	for i, record := range records {
		rows[i] = record.row
	}

	r.mu.RLock()
	header := r.header
	opts := &FormatterOptions{
		SchemaType: r.meta.SchemaType,
		ChunkStart: adjustedFrom,
	}
	r.mu.RUnlock()

	out, err := formatter.Format(header, rows, opts)
	if err != nil {
		return nil, fmt.Errorf("formatter.Format: %w", err)
	}

	return out, nil
}

// getRange resolves the range, waiting for the drain to catch up when the
// requested rows aren't cached yet.
func (r *Result) getRange(from, to int) ([]Record, int, error) {
	// from and to with mixed signs don't describe a range
	if from < 0 && to >= 0 {
		return nil, 0, errInvalidRange(from, to)
	}
	if from > to && (from < 0) == (to < 0) {
		return nil, 0, errInvalidRange(from, to)
	}

	deadline := time.Now().Add(flushWait)
	for {
		r.mu.RLock()
		if r.drained || (to >= 0 && to <= len(r.records)) {
			defer r.mu.RUnlock()
			break
		}
		r.mu.RUnlock()

		if time.Now().After(deadline) {
			return nil, 0, fmt.Errorf("rows %d ... %d did not arrive within %v", from, to, flushWait)
		}
		time.Sleep(20 * time.Millisecond)
	}

	length := len(r.records)
	if from < 0 {
		from += length + 1
		if from < 0 {
			from = 0
		}
	}
	if to < 0 {
		to += length + 1
		if to < 0 {
			to = 0
		}
	}
	if from > length {
		from = length
	}
	if to > length {
		to = length
	}

	return r.records[from:to], from, nil
}
