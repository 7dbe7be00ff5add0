package builders

import (
	"errors"

	"github.com/hiveline/hiveline/core"
)

var errNoMoreRows = errors.New("no more rows")

// NextSingle yields exactly one single-column row holding value.
func NextSingle(value any) (func() (core.Row, error), func() bool) {
	spent := false

	next := func() (core.Row, error) {
		if spent {
			return nil, errNoMoreRows
		}
		spent = true
		return core.Row{value}, nil
	}

	return next, func() bool { return !spent }
}

// NextNil yields no rows at all.
func NextNil() (func() (core.Row, error), func() bool) {
	next := func() (core.Row, error) {
		return nil, errNoMoreRows
	}

	return next, func() bool { return false }
}
