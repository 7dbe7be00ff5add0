// Package testhelpers provides helpers for integration tests.
package testhelpers

import (
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/hiveline/hiveline/core"
)

// eventTimeout is the maximum time to wait for a call to finish.
const eventTimeout = 10 * time.Second

// errTimeOut is an error for when a call did not finish within the expected time.
var errTimeOut = fmt.Errorf("call did not finish within %v", eventTimeout)

// GetContainerProvider returns the container provider type to use for the tests.
// If we detect podman is available, we use it, otherwise we use docker.
func GetContainerProvider() testcontainers.ProviderType {
	if _, err := exec.LookPath("podman"); err == nil {
		fmt.Println("Podman detected. Remember to set TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED=true;")
		return testcontainers.ProviderPodman
	}
	return testcontainers.ProviderDocker
}

// GetResult is a helper function for calling the Execute method on a driver
// and waiting for the result to be available.
func GetResult(t *testing.T, d *core.Connection, query string) ([]core.Row, core.Header, []core.CallState, error) {
	t.Helper()

	outStates := make([]core.CallState, 0)

	call := d.Execute(query, func(state core.CallState, _ *core.Call) {
		outStates = append(outStates, state)
	})

	select {
	case <-call.Done():
	case <-time.After(eventTimeout):
		return nil, nil, nil, errTimeOut
	}

	result, err := call.GetResult()
	require.NoError(t, err, "failed getting result with %s, err: %s", call.GetState(), call.Err())

	outRows, err := result.Rows(0, result.Len())
	require.NoError(t, err, "failed getting rows with %s, err: %s", call.GetState(), call.Err())

	return outRows, result.Header(), outStates, nil
}

// GetResultWithCancel is a helper function for calling the Execute method on
// a driver and canceling the call after the first state is received.
func GetResultWithCancel(t *testing.T, d *core.Connection, query string) ([]core.CallState, error) {
	t.Helper()

	outStates := make([]core.CallState, 0)

	call := d.Execute(query, func(state core.CallState, c *core.Call) {
		outStates = append(outStates, state)
		if state == core.CallStateExecuting {
			c.Cancel()
		}
	})

	select {
	case <-call.Done():
		return outStates, nil
	case <-time.After(eventTimeout):
		return nil, errTimeOut
	}
}

// GetSchemas returns a list of schema names from the given structure.
func GetSchemas(t *testing.T, structure []*core.Structure) []string {
	t.Helper()

	schemas := make([]string, 0)
	for _, s := range structure {
		if s.Name == s.Schema {
			schemas = append(schemas, s.Name)
			continue
		}
	}
	return schemas
}

// GetModels returns a list of model names (views, table, etc) from the given structure.
func GetModels(t *testing.T, structure []*core.Structure, modelType core.StructureType) []string {
	t.Helper()

	out := make([]string, 0)
	for _, s := range structure {
		for _, c := range s.Children {
			if c.Type == modelType {
				out = append(out, c.Name)
				continue
			}
		}
	}
	return out
}
