package retry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Do(3, 0, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	sentinel := errors.New("down")
	calls := 0
	err := Do(2, 0, func() error {
		calls++
		return sentinel
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
}

func TestDoStopsOnFirstSuccess(t *testing.T) {
	calls := 0
	require.NoError(t, Do(5, 0, func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
}

func TestDoClampsAttempts(t *testing.T) {
	calls := 0
	_ = Do(0, 0, func() error {
		calls++
		return errors.New("x")
	})
	assert.Equal(t, 1, calls)
}
