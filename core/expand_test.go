package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandParams(t *testing.T) {
	r := require.New(t)

	t.Setenv("HIVELINE_TEST_HOST", "coordinator.internal")

	params := &ConnectionParams{
		Name: "test",
		Type: "trino",
		URL:  `http://{{ env "HIVELINE_TEST_HOST" }}:8080?catalog=hive`,
	}

	expanded := params.Expand()
	r.Equal("http://coordinator.internal:8080?catalog=hive", expanded.URL)

	// original is untouched
	r.Contains(params.URL, "{{")
}

func TestExpandInvalidTemplate(t *testing.T) {
	// broken templates fall back to the raw value
	value := "http://{{ oops"
	require.Equal(t, value, expandOrDefault(value))
}
