package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_ShiftDown(t *testing.T) {
	assert := assert.New(t)

	s := NewStack(nil)
	assert.True(s.Empty())
	assert.False(s.Full())

	s.ShiftDown(1)
	s.ShiftDown(2)
	assert.False(s.Empty())
	assert.Equal(2, s.Depth())
	assert.Equal(Word(2), s.Layer[0].Get())
	assert.Equal(Word(1), s.Layer[1].Get())
}

func TestStack_ShiftUp(t *testing.T) {
	assert := assert.New(t)

	s := NewStack(nil)
	s.ShiftDown(1)
	s.ShiftDown(2)

	assert.Equal(Word(2), s.ShiftUp())
	assert.Equal(1, s.Depth())
	assert.Equal(Word(1), s.Layer[0].Get())

	assert.Equal(Word(1), s.ShiftUp())
	assert.True(s.Empty())

	// Empty stacks shift in zeros.
	assert.Equal(Word(0), s.ShiftUp())
	assert.Equal(0, s.Depth())
}

func TestStack_Overflow(t *testing.T) {
	assert := assert.New(t)

	s := NewStack(nil)
	for n := range 10 {
		s.ShiftDown(Word(n + 1))
	}

	assert.True(s.Full())
	assert.Equal(STACK_LIMIT, s.Depth())
	assert.Equal([STACK_SIZE]Word{10, 9, 8, 7, 6, 5, 4, 3}, s.Values())

	// The bottom layer is duplicated.
	assert.Equal(Word(10), s.ShiftUp())
	assert.Equal([STACK_SIZE]Word{9, 8, 7, 6, 5, 4, 3, 3}, s.Values())

	s.ShiftUp()
	assert.Equal([STACK_SIZE]Word{8, 7, 6, 5, 4, 3, 3, 3}, s.Values())

	s.Reset()
	assert.True(s.Empty())
	assert.Equal([STACK_SIZE]Word{}, s.Values())
}

func TestStack_Observer(t *testing.T) {
	assert := assert.New(t)

	var events []Event
	s := NewStack(ObserverFunc(func(ev Event) { events = append(events, ev) }))

	s.ShiftDown(5)
	assert.Equal(STACK_SIZE, len(events))
	assert.Equal(Event{
		Slot:   SLOT_STACK,
		Index:  0,
		Access: ACCESS_WRITE,
		Value:  5,
		Valued: true,
		Shift:  SHIFT_DOWN,
	}, events[len(events)-1])

	events = events[:0]
	s.ShiftUp()
	assert.Equal(STACK_SIZE, len(events))
	for _, ev := range events {
		assert.Equal(SHIFT_UP, ev.Shift)
		assert.Equal(ACCESS_READ, ev.Access)
	}

	// The first layer reports direct accesses.
	events = events[:0]
	s.Layer[0].Write(3)
	assert.Equal([]Event{{Slot: SLOT_STACK, Access: ACCESS_WRITE, Value: 3, Valued: true}}, events)
}
