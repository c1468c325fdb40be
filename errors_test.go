package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemError_WrapsCauseAndIndex(t *testing.T) {
	cause := errors.New("boom")
	err := itemError(7, cause)

	assert.ErrorIs(t, err, ErrItem)
	assert.ErrorIs(t, err, cause)

	idx, ok := ItemIndex(err)
	assert.True(t, ok)
	assert.Equal(t, uint64(7), idx)
}

func TestItemIndex_FalseForUnrelatedError(t *testing.T) {
	_, ok := ItemIndex(errors.New("plain"))
	assert.False(t, ok)
}

func TestBindingError_IsErrBinding(t *testing.T) {
	err := bindingError("work")
	assert.ErrorIs(t, err, ErrBinding)
}

func TestShutdownError_IsErrShutdown(t *testing.T) {
	err := shutdownError("RunOn")
	assert.ErrorIs(t, err, ErrShutdown)
}
