package builders_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiveline/hiveline/core"
	"github.com/hiveline/hiveline/core/builders"
)

func TestNextSingle(t *testing.T) {
	r := require.New(t)

	next, hasNext := builders.NextSingle(42)

	r.True(hasNext())

	row, err := next()
	r.NoError(err)
	r.Equal(core.Row{42}, row)

	r.False(hasNext())

	_, err = next()
	r.Error(err)
}

func TestNextNil(t *testing.T) {
	r := require.New(t)

	next, hasNext := builders.NextNil()

	r.False(hasNext())

	_, err := next()
	r.Error(err)
}
