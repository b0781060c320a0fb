package cpu

// Register is a single word of storage. Read and Write report to the
// Observer, Get and Set are silent for internal bookkeeping.
type Register struct {
	Slot     Slot     // Identity reported to the observer.
	Index    int      // Index within the bank, for indexed slots.
	Observer Observer // If nil, the register is silent.

	value Word
}

// Get returns the contents without notification.
func (reg *Register) Get() Word {
	return reg.value
}

// Set replaces the contents without notification.
func (reg *Register) Set(value Word) {
	reg.value = value
}

// Read returns the contents, notifying the observer.
// Only banked registers report the value read.
func (reg *Register) Read() Word {
	if reg.Observer != nil {
		ev := Event{Slot: reg.Slot, Index: reg.Index, Access: ACCESS_READ}
		if reg.Slot.Indexed() {
			ev.Value = reg.value
			ev.Valued = true
		}
		reg.Observer.Observe(ev)
	}
	return reg.value
}

// Write replaces the contents, notifying the observer.
func (reg *Register) Write(value Word) {
	if reg.Observer != nil {
		reg.Observer.Observe(Event{
			Slot:   reg.Slot,
			Index:  reg.Index,
			Access: ACCESS_WRITE,
			Value:  value,
			Valued: true,
		})
	}
	reg.value = value
}
