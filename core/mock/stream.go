package mock

import (
	"fmt"
	"time"

	"github.com/hiveline/hiveline/core"
)

type stream struct {
	rows     []core.Row
	index    int
	rowDelay time.Duration

	failAfter int
	failWith  error
}

var _ core.ResultStream = (*stream)(nil)

func newStream(rows []core.Row, cfg *config) *stream {
	return &stream{
		rows:      rows,
		rowDelay:  cfg.rowDelay,
		failAfter: cfg.failAfter,
		failWith:  cfg.failWith,
	}
}

func (s *stream) failPending() bool {
	return s.failWith != nil && s.index >= s.failAfter
}

func (s *stream) HasNext() bool {
	if s.failPending() {
		return true
	}
	return s.index < len(s.rows)
}

func (s *stream) Next() (core.Row, error) {
	if s.rowDelay > 0 {
		time.Sleep(s.rowDelay)
	}

	if s.failPending() {
		err := s.failWith
		s.failWith = nil
		return nil, err
	}

	if s.index >= len(s.rows) {
		return nil, nil
	}

	row := s.rows[s.index]
	s.index++
	return row, nil
}

func (s *stream) Header() core.Header {
	width := 0
	for _, row := range s.rows {
		if len(row) > width {
			width = len(row)
		}
	}

	header := make(core.Header, width)
	for i := range header {
		header[i] = fmt.Sprintf("header_%d", i)
	}
	return header
}

func (s *stream) Meta() *core.Meta {
	return &core.Meta{SchemaType: core.SchemaFul}
}

func (s *stream) Close() {
	s.index = len(s.rows)
	s.failWith = nil
}
