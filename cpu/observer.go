package cpu

import (
	"fmt"
	"log"
)

// Slot identifies the storage element an Event refers to.
type Slot int

//go:generate go tool stringer -linecomment -type=Slot,Access,Shift -output=observer_string.go
const (
	SLOT_IAR   = Slot(0)  // iar
	SLOT_IR    = Slot(1)  // ir
	SLOT_MAR   = Slot(2)  // mar
	SLOT_TMP   = Slot(3)  // tmp
	SLOT_ACC   = Slot(4)  // acc
	SLOT_GPR   = Slot(5)  // gpr
	SLOT_RAM   = Slot(6)  // ram
	SLOT_STACK = Slot(7)  // stack
	SLOT_FLAGS = Slot(8)  // flags
	SLOT_BUS1  = Slot(9)  // bus1
	SLOT_ALU   = Slot(10) // alu
)

// Indexed is true for slots that name one element of a bank.
func (slot Slot) Indexed() bool {
	switch slot {
	case SLOT_GPR, SLOT_RAM, SLOT_STACK, SLOT_FLAGS:
		return true
	}
	return false
}

// Access is the direction of a storage access.
type Access int

const (
	ACCESS_READ  = Access(0) // read
	ACCESS_WRITE = Access(1) // write
)

// Shift is the direction of stack layer motion.
type Shift int

const (
	SHIFT_NONE = Shift(0) // none
	SHIFT_UP   = Shift(1) // up
	SHIFT_DOWN = Shift(2) // down
)

// FLAG_ALL is the flag index of an event touching every flag.
const FLAG_ALL = -1

// Event describes a single storage access of the control unit.
type Event struct {
	Slot   Slot   // Storage element accessed.
	Index  int    // GPR index, RAM address, stack layer or flag index.
	Access Access // Read or write.
	Value  Word   // Value moved, if Valued.
	Valued bool   // Set when Value is meaningful.
	Shift  Shift  // Stack motion, for SLOT_STACK.
	Opcode Opcode // Operation selected, for SLOT_ALU.
}

// String formats the event for tracing.
func (ev Event) String() (text string) {
	text = ev.Slot.String()
	if ev.Slot.Indexed() {
		if ev.Index == FLAG_ALL {
			text += "[*]"
		} else {
			text += fmt.Sprintf("[%d]", ev.Index)
		}
	}
	switch {
	case ev.Slot == SLOT_ALU:
		text += " " + ev.Opcode.String()
	case ev.Shift != SHIFT_NONE:
		text += " shift " + ev.Shift.String()
	default:
		text += " " + ev.Access.String()
	}
	if ev.Valued {
		text += " " + ev.Value.String()
	}
	return
}

// Observer receives every storage access, synchronously and in program
// order. Observers must not mutate the control unit.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(ev Event)

func (fn ObserverFunc) Observe(ev Event) {
	fn(ev)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) Observe(ev Event) {}

// Observers fans events out to each observer in turn.
type Observers []Observer

func (obs Observers) Observe(ev Event) {
	for _, ob := range obs {
		ob.Observe(ev)
	}
}

// LogObserver traces events to a logger, or to the standard logger if nil.
type LogObserver struct {
	Logger *log.Logger
}

func (lo *LogObserver) Observe(ev Event) {
	if lo.Logger == nil {
		log.Printf("cpu: %v", ev)
		return
	}
	lo.Logger.Printf("cpu: %v", ev)
}
