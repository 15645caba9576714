package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	_, ok := q.Get()
	assert.False(t, ok, "empty queue is not an error")

	for i := 1; i <= 200; i++ {
		q.Put(Order{Ticker: "T", Action: Bot, Quantity: int64(i)})
	}
	assert.Equal(t, 200, q.Len())

	for i := 1; i <= 200; i++ {
		e, ok := q.Get()
		require.True(t, ok)
		assert.Equal(t, int64(i), e.(Order).Quantity)
	}
	assert.Equal(t, 0, q.Len())
	_, ok = q.Get()
	assert.False(t, ok)
}

func TestQueueInterleaved(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	next := int64(1)
	want := int64(1)
	for round := 0; round < 50; round++ {
		for i := 0; i < 3; i++ {
			q.Put(Order{Quantity: next})
			next++
		}
		for i := 0; i < 2; i++ {
			e, ok := q.Get()
			require.True(t, ok)
			assert.Equal(t, want, e.(Order).Quantity)
			want++
		}
	}
	assert.Equal(t, 50, q.Len())
}

func TestQueueConcurrentProducers(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Put(Tick{Ticker: "X"})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, q.Len())
}
