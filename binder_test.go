package pool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFunc_NilIsBindingError(t *testing.T) {
	_, err := BindFunc[int, int](nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBinding)
}

func TestBindFunc_InvokeForwardsArgs(t *testing.T) {
	bound, err := BindFunc(Func[int, int](func(_ context.Context, item int, args Args) (Maybe[int], error) {
		add, _ := args["add"].(int)
		return Some(item + add), nil
	}), Args{"add": 10})
	require.NoError(t, err)

	res, err := bound.invoke(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, res.Present)
	assert.Equal(t, 15, res.Value)
}

func TestBindInit_NilDefaultsToNoop(t *testing.T) {
	b := BindInit[int, int](nil, nil)
	assert.NoError(t, b.run(context.Background()))
}

func TestBindInit_RunsProvidedFunc(t *testing.T) {
	called := false
	b := BindInit[int, int](func(_ context.Context, args Args) error {
		called = true
		assert.Equal(t, "x", args["k"])
		return nil
	}, Args{"k": "x"})

	require.NoError(t, b.run(context.Background()))
	assert.True(t, called)
}
