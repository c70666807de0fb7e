package background

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameQueueRunsInRequestOrder(t *testing.T) {
	var q FrameQueue
	var order []int

	q.Request(func(time.Time) { order = append(order, 1) })
	id := q.Request(func(time.Time) { order = append(order, 2) })
	q.Request(func(time.Time) {
		order = append(order, 3)
		q.Request(func(time.Time) { order = append(order, 4) })
	})

	assert.True(t, q.Cancel(id))
	assert.False(t, q.Cancel(id), "second cancel is a no-op")

	assert.Equal(t, 2, q.Run(time.Now()))
	assert.Equal(t, []int{1, 3}, order)
	assert.Equal(t, 1, q.Len(), "callbacks requested during Run wait for the next one")

	q.Run(time.Now())
	assert.Equal(t, []int{1, 3, 4}, order)
}

func TestListenersRemove(t *testing.T) {
	var l Listeners[func(int)]
	var got []int

	removeA := l.Add(func(v int) { got = append(got, v) })
	l.Add(func(v int) { got = append(got, v*10) })

	l.Each(func(fn func(int)) { fn(1) })
	assert.Equal(t, []int{1, 10}, got)

	removeA()
	removeA()
	assert.Equal(t, 1, l.Len())

	got = nil
	l.Each(func(fn func(int)) { fn(2) })
	assert.Equal(t, []int{20}, got)
}
