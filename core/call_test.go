package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hiveline/hiveline/core"
	"github.com/hiveline/hiveline/core/mock"
)

func waitForCall(t *testing.T, call *core.Call) {
	t.Helper()

	select {
	case <-call.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("call did not finish in expected time")
	}
}

func TestCall_Success(t *testing.T) {
	r := require.New(t)

	rows := mock.NewRows(0, 10)

	connection, err := core.NewConnection(&core.ConnectionParams{}, mock.NewAdapter(rows))
	r.NoError(err)

	var events []core.CallState
	call := connection.Execute("_", func(state core.CallState, _ *core.Call) {
		events = append(events, state)
	})

	waitForCall(t, call)

	// events arrive in lifecycle order
	r.Equal([]core.CallState{
		core.CallStateExecuting,
		core.CallStateRetrieving,
		core.CallStateCompleted,
	}, events)

	r.Equal(core.CallStateCompleted, call.GetState())
	r.NoError(call.Err())

	result, err := call.GetResult()
	r.NoError(err)

	actualRows, err := result.Rows(0, len(rows))
	r.NoError(err)
	r.Equal(rows, actualRows)
}

func TestCall_Cancel(t *testing.T) {
	r := require.New(t)

	adapter := mock.NewAdapter(mock.NewRows(0, 10),
		mock.WithQuerySideEffect("wait", func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(10 * time.Second):
			}
			return nil
		}),
	)

	connection, err := core.NewConnection(&core.ConnectionParams{}, adapter)
	r.NoError(err)

	var events []core.CallState
	call := connection.Execute("wait", func(state core.CallState, c *core.Call) {
		events = append(events, state)
		if state == core.CallStateExecuting {
			c.Cancel()
		}
	})

	waitForCall(t, call)

	r.Equal([]core.CallState{
		core.CallStateExecuting,
		core.CallStateCanceled,
	}, events)
	r.Equal(core.CallStateCanceled, call.GetState())
}

func TestCall_CancelAfterCompletionIsNoop(t *testing.T) {
	r := require.New(t)

	connection, err := core.NewConnection(&core.ConnectionParams{}, mock.NewAdapter(mock.NewRows(0, 3)))
	r.NoError(err)

	call := connection.Execute("_", nil)
	waitForCall(t, call)

	r.Equal(core.CallStateCompleted, call.GetState())

	// completed calls keep their state
	call.Cancel()
	r.Equal(core.CallStateCompleted, call.GetState())
	r.NoError(call.Err())
}

func TestCall_FailedQuery(t *testing.T) {
	r := require.New(t)

	adapter := mock.NewAdapter(mock.NewRows(0, 10),
		mock.WithQuerySideEffect("fail", func(context.Context) error {
			return errors.New("query failed")
		}),
	)

	connection, err := core.NewConnection(&core.ConnectionParams{}, adapter)
	r.NoError(err)

	var events []core.CallState
	call := connection.Execute("fail", func(state core.CallState, _ *core.Call) {
		events = append(events, state)
	})

	waitForCall(t, call)

	r.Equal([]core.CallState{
		core.CallStateExecuting,
		core.CallStateExecutingFailed,
	}, events)

	r.NotNil(call.Err())
	r.True(core.IsQueryError(call.Err()))
}

func TestCall_MidStreamFailure(t *testing.T) {
	r := require.New(t)

	dropped := &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}

	adapter := mock.NewAdapter(mock.NewRows(0, 10),
		mock.WithStreamError(3, dropped),
	)

	connection, err := core.NewConnection(&core.ConnectionParams{}, adapter)
	r.NoError(err)

	var events []core.CallState
	call := connection.Execute("_", func(state core.CallState, _ *core.Call) {
		events = append(events, state)
	})

	waitForCall(t, call)

	r.Equal([]core.CallState{
		core.CallStateExecuting,
		core.CallStateRetrieving,
		core.CallStateRetrievingFailed,
	}, events)

	// a connection dropping mid-retrieval is a transport failure
	r.True(core.IsConnectionError(call.Err()))
}

func TestCall_ConcurrentStateAccess(t *testing.T) {
	r := require.New(t)

	adapter := mock.NewAdapter(mock.NewRows(0, 20),
		mock.WithRowDelay(5*time.Millisecond),
	)

	connection, err := core.NewConnection(&core.ConnectionParams{}, adapter)
	r.NoError(err)

	call := connection.Execute("_", nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-call.Done():
					return
				default:
					_ = call.GetState()
					_ = call.Err()
					_ = call.GetTimeTaken()
				}
			}
		}()
	}

	waitForCall(t, call)
	wg.Wait()

	r.Equal(core.CallStateCompleted, call.GetState())
}

func TestCall_JSONRoundTrip(t *testing.T) {
	r := require.New(t)

	connection, err := core.NewConnection(&core.ConnectionParams{}, mock.NewAdapter(mock.NewRows(0, 5)))
	r.NoError(err)

	call := connection.Execute("_", nil)
	waitForCall(t, call)

	b, err := json.Marshal(call)
	r.NoError(err)

	restored := new(core.Call)
	err = json.Unmarshal(b, restored)
	r.NoError(err)

	// metadata survives, the result does not
	r.Equal(call.GetID(), restored.GetID())
	r.Equal(call.GetQuery(), restored.GetQuery())
	r.Equal(call.GetState(), restored.GetState())

	_, err = restored.GetResult()
	r.ErrorIs(err, core.ErrNoStoredResult)
}
