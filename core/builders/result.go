package builders

import (
	"github.com/hiveline/hiveline/core"
)

// ResultStream is the core.ResultStream implementation shared by the
// database/sql based drivers. It pulls rows through the next/hasNext
// pair and runs the registered close hooks exactly once.
type ResultStream struct {
	next    func() (core.Row, error)
	hasNext func() bool
	header  core.Header
	meta    *core.Meta
	onClose []func()
	closed  bool
}

type StreamOption func(*ResultStream)

func WithHeader(header core.Header) StreamOption {
	return func(s *ResultStream) {
		s.header = header
	}
}

func WithMeta(meta *core.Meta) StreamOption {
	return func(s *ResultStream) {
		s.meta = meta
	}
}

func WithOnClose(fn func()) StreamOption {
	return func(s *ResultStream) {
		s.onClose = append(s.onClose, fn)
	}
}

func NewResultStream(next func() (core.Row, error), hasNext func() bool, opts ...StreamOption) *ResultStream {
	s := &ResultStream{
		next:    next,
		hasNext: hasNext,
		header:  core.Header{},
		meta:    &core.Meta{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnClose registers fn to run when the stream closes. Drivers use it to
// release the connection backing the stream.
func (s *ResultStream) OnClose(fn func()) {
	s.onClose = append(s.onClose, fn)
}

func (s *ResultStream) Header() core.Header {
	return s.header
}

func (s *ResultStream) Meta() *core.Meta {
	return s.meta
}

func (s *ResultStream) HasNext() bool {
	return s.hasNext()
}

// Next returns the next row. A failed pull closes the stream so the
// backing connection is never leaked.
func (s *ResultStream) Next() (core.Row, error) {
	row, err := s.next()
	if err != nil || row == nil {
		s.Close()
		return nil, err
	}
	return row, nil
}

func (s *ResultStream) Close() {
	if s.closed {
		return
	}
	s.closed = true

	for _, fn := range s.onClose {
		fn()
	}
	s.hasNext = func() bool { return false }
}
