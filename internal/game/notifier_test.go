package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier(t *testing.T) {
	n := NewNotifier()
	var order []string

	unsubA := n.Subscribe(func() { order = append(order, "a") })
	n.Subscribe(func() { order = append(order, "b") })
	assert.Equal(t, 2, n.Len())

	n.Notify()
	assert.Equal(t, []string{"a", "b"}, order)

	unsubA()
	unsubA()
	assert.Equal(t, 1, n.Len())

	order = nil
	n.Notify()
	assert.Equal(t, []string{"b"}, order)
}

func TestNotifierListenerMayUnsubscribeItself(t *testing.T) {
	n := NewNotifier()
	calls := 0
	var unsub func()
	unsub = n.Subscribe(func() {
		calls++
		unsub()
	})

	n.Notify()
	n.Notify()
	assert.Equal(t, 1, calls)
	assert.Zero(t, n.Len())
}
