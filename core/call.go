package core

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoStoredResult is returned by GetResult for calls that don't hold a
// result - calls restored from JSON carry metadata only.
var ErrNoStoredResult = errors.New("no result stored for this call")

type CallID string

// Call is a single asynchronous query execution. It moves through
// CallStates, reporting each transition to the onEvent callback, and
// caches the drained result. All accessors are safe to use from the
// callback and from the goroutine waiting on Done.
type Call struct {
	id        CallID
	query     string
	timestamp time.Time

	mu        sync.Mutex
	state     CallState
	timeTaken time.Duration
	err       error

	result  *Result
	onEvent func(CallState, *Call)
	cancel  context.CancelFunc
	done    chan struct{}
}

// callSnapshot is the serialized form of a call - metadata only, the
// result itself is never persisted.
type callSnapshot struct {
	ID        string `json:"id"`
	Query     string `json:"query"`
	State     string `json:"state"`
	TimeTaken int64  `json:"time_taken_us"`
	Timestamp int64  `json:"timestamp_us"`
	Error     string `json:"error,omitempty"`
}

func newCall(run func(context.Context) (ResultStream, error), query string, onEvent func(CallState, *Call)) *Call {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Call{
		id:        CallID(uuid.New().String()),
		query:     query,
		timestamp: time.Now(),
		state:     CallStateUnknown,
		result:    new(Result),
		onEvent:   onEvent,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go func() {
		defer close(c.done)
		defer cancel()

		c.transition(CallStateExecuting)

		stream, err := run(ctx)
		if err != nil {
			c.fail(CallStateExecutingFailed, err)
			return
		}

		err = c.result.SetIter(stream, func() { c.transition(CallStateRetrieving) })
		if err != nil {
			c.fail(CallStateRetrievingFailed, err)
			return
		}

		c.mu.Lock()
		c.timeTaken = time.Since(c.timestamp)
		c.mu.Unlock()

		c.transition(CallStateCompleted)
	}()

	return c
}

// transition moves the call to the given state and fires the event
// callback. Terminal states are sticky: once reached, later transitions
// are discarded.
func (c *Call) transition(to CallState) {
	c.mu.Lock()
	if c.state.IsTerminal() {
		c.mu.Unlock()
		return
	}
	c.state = to
	onEvent := c.onEvent
	c.mu.Unlock()

	if onEvent != nil {
		onEvent(to, c)
	}
}

// fail records the error unless the call already ended (a canceled call
// keeps its canceled state even when the aborted query reports back).
func (c *Call) fail(state CallState, err error) {
	c.mu.Lock()
	if !c.state.IsTerminal() {
		c.err = err
		c.timeTaken = time.Since(c.timestamp)
	}
	c.mu.Unlock()

	c.transition(state)
}

func (c *Call) GetID() CallID {
	return c.id
}

func (c *Call) GetQuery() string {
	return c.query
}

func (c *Call) GetState() CallState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Call) GetTimeTaken() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeTaken
}

func (c *Call) GetTimestamp() time.Time {
	return c.timestamp
}

func (c *Call) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Done returns a channel that is closed once the call has finished and
// no further events will fire.
func (c *Call) Done() chan struct{} {
	return c.done
}

// Cancel aborts an in-flight call. Calls that already ended are left
// alone.
func (c *Call) Cancel() {
	c.mu.Lock()
	if c.state.IsTerminal() || c.cancel == nil {
		c.mu.Unlock()
		return
	}
	c.timeTaken = time.Since(c.timestamp)
	cancel := c.cancel
	c.mu.Unlock()

	cancel()
	c.transition(CallStateCanceled)
}

func (c *Call) GetResult() (*Result, error) {
	if c.result.IsEmpty() {
		return nil, ErrNoStoredResult
	}

	return c.result, nil
}

func (c *Call) MarshalJSON() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	errMsg := ""
	if c.err != nil {
		errMsg = c.err.Error()
	}

	return json.Marshal(&callSnapshot{
		ID:        string(c.id),
		Query:     c.query,
		State:     c.state.String(),
		TimeTaken: c.timeTaken.Microseconds(),
		Timestamp: c.timestamp.UnixMicro(),
		Error:     errMsg,
	})
}

func (c *Call) UnmarshalJSON(data []byte) error {
	var snapshot callSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return err
	}

	var callErr error
	if snapshot.Error != "" {
		callErr = errors.New(snapshot.Error)
	}

	done := make(chan struct{})
	close(done)

	*c = Call{
		id:        CallID(snapshot.ID),
		query:     snapshot.Query,
		timestamp: time.UnixMicro(snapshot.Timestamp),
		state:     CallStateFromString(snapshot.State),
		timeTaken: time.Duration(snapshot.TimeTaken) * time.Microsecond,
		err:       callErr,
		result:    new(Result),
		done:      done,
	}

	return nil
}
