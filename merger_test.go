package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderingMerger_BuffersUntilContiguous(t *testing.T) {
	m := newOrderingMerger[string](false)

	assert.Empty(t, m.onResult(Result[string]{Index: 2, Value: "c", HasValue: true}))
	assert.Empty(t, m.onResult(Result[string]{Index: 1, Value: "b", HasValue: true}))

	ready := m.onResult(Result[string]{Index: 0, Value: "a", HasValue: true})
	assert.Equal(t, []Result[string]{
		{Index: 0, Value: "a", HasValue: true},
		{Index: 1, Value: "b", HasValue: true},
		{Index: 2, Value: "c", HasValue: true},
	}, ready)
}

func TestOrderingMerger_NoSortPassesThroughImmediately(t *testing.T) {
	m := newOrderingMerger[int](true)

	r := Result[int]{Index: 5, Value: 99, HasValue: true}
	ready := m.onResult(r)
	assert.Equal(t, []Result[int]{r}, ready)

	r2 := Result[int]{Index: 0, Value: 1, HasValue: true}
	assert.Equal(t, []Result[int]{r2}, m.onResult(r2))
}

func TestOrderingMerger_ExactlyOneReadyAtATime(t *testing.T) {
	m := newOrderingMerger[int](false)

	for i := 0; i < 5; i++ {
		ready := m.onResult(Result[int]{Index: uint64(i), Value: i, HasValue: true})
		assert.Len(t, ready, 1)
		assert.Equal(t, uint64(i), ready[0].Index)
	}
}
