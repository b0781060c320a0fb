package cpu

// RAM is the 256 word main memory.
type RAM struct {
	Observer Observer // If nil, accesses are silent.

	cell [RAM_SIZE]Register
}

// NewRAM creates a memory holding the image.
func NewRAM(image *Image, observer Observer) (ram *RAM) {
	ram = &RAM{Observer: observer}
	ram.Load(image)
	return
}

// Load replaces the whole memory with the image, silently.
// A nil image clears the memory.
func (ram *RAM) Load(image *Image) {
	for addr := range ram.cell {
		var value Word
		if image != nil {
			value = image[addr]
		}
		ram.cell[addr].Set(value)
	}
}

// Image returns a copy of the memory contents.
func (ram *RAM) Image() (image Image) {
	for addr := range ram.cell {
		image[addr] = ram.cell[addr].Get()
	}
	return
}

// ReadAt returns the word at the address.
func (ram *RAM) ReadAt(addr Word, notify bool) (value Word) {
	value = ram.cell[addr].Get()
	if notify && ram.Observer != nil {
		ram.Observer.Observe(Event{
			Slot:   SLOT_RAM,
			Index:  int(addr),
			Access: ACCESS_READ,
			Value:  value,
			Valued: true,
		})
	}
	return
}

// WriteAt stores the word at the address.
func (ram *RAM) WriteAt(addr Word, value Word, notify bool) {
	ram.cell[addr].Set(value)
	if notify && ram.Observer != nil {
		ram.Observer.Observe(Event{
			Slot:   SLOT_RAM,
			Index:  int(addr),
			Access: ACCESS_WRITE,
			Value:  value,
			Valued: true,
		})
	}
}

// MAR is the memory address register, bundled with the memory it addresses.
type MAR struct {
	Register
	RAM *RAM
}

// NewMAR creates a memory address register in front of the memory.
func NewMAR(ram *RAM, observer Observer) *MAR {
	return &MAR{
		Register: Register{Slot: SLOT_MAR, Observer: observer},
		RAM:      ram,
	}
}

// Load reads the memory location currently addressed.
func (mar *MAR) Load(notify bool) Word {
	return mar.RAM.ReadAt(mar.Get(), notify)
}

// Store writes the memory location currently addressed.
func (mar *MAR) Store(value Word, notify bool) {
	mar.RAM.WriteAt(mar.Get(), value, notify)
}
