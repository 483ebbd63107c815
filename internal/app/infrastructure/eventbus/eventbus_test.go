package eventbus

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestBus_Subscribe(t *testing.T) {
	b := New[int]()

	var got []int
	unsubscribe := b.Subscribe(func(n int) { got = append(got, n) })

	b.Publish(1)
	b.Publish(2)
	unsubscribe()
	b.Publish(3)

	assert.Equal(t, []int{1, 2}, got)
}

func TestBus_OnceByFiresOnce(t *testing.T) {
	b := New[int]()

	w := b.OnceBy(func(n int) bool { return n%2 == 0 })
	assert.Equal(t, 1, b.Waiters())

	b.Publish(1)
	select {
	case <-w.C():
		t.Fatal("fired on a non-matching event")
	default:
	}

	b.Publish(4)
	b.Publish(6)

	assert.Equal(t, 4, <-w.C())
	assert.Equal(t, 0, b.Waiters())
	select {
	case n := <-w.C():
		t.Fatalf("fired twice, second value %d", n)
	default:
	}
}

func TestBus_IndependentWaiters(t *testing.T) {
	b := New[string]()

	a := b.OnceBy(func(s string) bool { return s == "a" })
	c := b.OnceBy(func(s string) bool { return s == "c" })

	b.Publish("c")
	assert.Equal(t, "c", <-c.C())
	assert.Equal(t, 1, b.Waiters())

	b.Publish("a")
	assert.Equal(t, "a", <-a.C())
	assert.Equal(t, 0, b.Waiters())
}

func TestWaiter_WaitContext(t *testing.T) {
	b := New[int]()
	w := b.OnceBy(func(int) bool { return true })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := w.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, b.Waiters())
}

func TestWaiter_WaitDelivered(t *testing.T) {
	b := New[int]()
	w := b.OnceBy(func(n int) bool { return n == 7 })

	go b.Publish(7)

	n, err := w.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
