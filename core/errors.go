package core

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
)

// ErrTimeout marks connection errors caused by an exceeded per-call
// deadline. Check with errors.Is.
var ErrTimeout = errors.New("deadline exceeded")

// ConnectionError reports a transport failure: the endpoint could not be
// reached or the connection dropped mid-query.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %q failed: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError reports a query the engine accepted the connection for, but
// rejected or failed. Err carries the engine's diagnostic verbatim.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func IsConnectionError(err error) bool {
	var e *ConnectionError
	return errors.As(err, &e)
}

func IsQueryError(err error) bool {
	var e *QueryError
	return errors.As(err, &e)
}

// classifyQueryError sorts a raw driver error into one of the two error
// kinds. Deadline and transport level failures become ConnectionError,
// everything else is treated as a diagnostic from the engine.
func classifyQueryError(url, query string, err error) error {
	if err == nil {
		return nil
	}
	if IsConnectionError(err) || IsQueryError(err) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &ConnectionError{URL: url, Err: fmt.Errorf("%w: %w", ErrTimeout, err)}
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) {
		return &ConnectionError{URL: url, Err: err}
	}

	return &QueryError{Query: query, Err: err}
}

// classifiedStream applies classifyQueryError to errors a driver stream
// produces after the query already started, e.g. a connection dropping
// mid-retrieval.
type classifiedStream struct {
	ResultStream
	url   string
	query string
}

func (s *classifiedStream) Next() (Row, error) {
	row, err := s.ResultStream.Next()
	if err != nil {
		return nil, classifyQueryError(s.url, s.query, err)
	}
	return row, nil
}
