package cpu

const (
	STACK_LIMIT = STACK_SIZE + 1 // Maximum depth, counting the top of stack register.
)

// Stack is the layered stack of the stack machine. The top of stack lives
// in the ALU's TMP register; Layer[0] is the value beneath it.
type Stack struct {
	Observer Observer
	Layer    [STACK_SIZE]Register

	depth int
}

// NewStack creates an empty stack. Only the first layer reports reads and
// writes, the others are reported as shifts.
func NewStack(observer Observer) (s *Stack) {
	s = &Stack{Observer: observer}
	for n := range s.Layer {
		s.Layer[n].Slot = SLOT_STACK
		s.Layer[n].Index = n
	}
	s.Layer[0].Observer = observer
	return
}

func (s *Stack) shifted(shift Shift, layer int) {
	if s.Observer == nil {
		return
	}
	access := ACCESS_WRITE
	if shift == SHIFT_UP {
		access = ACCESS_READ
	}
	s.Observer.Observe(Event{
		Slot:   SLOT_STACK,
		Index:  layer,
		Access: access,
		Value:  s.Layer[layer].Get(),
		Valued: true,
		Shift:  shift,
	})
}

// ShiftDown moves every layer down by one, dropping the bottom layer, and
// places top in the first layer.
func (s *Stack) ShiftDown(top Word) {
	for n := STACK_SIZE - 1; n > 0; n-- {
		s.Layer[n].Set(s.Layer[n-1].Get())
		s.shifted(SHIFT_DOWN, n)
	}
	s.Layer[0].Set(top)
	s.shifted(SHIFT_DOWN, 0)

	if s.depth < STACK_LIMIT {
		s.depth++
	}
}

// ShiftUp moves every layer up by one and returns the previous first layer.
// The bottom layer keeps its value, so it is left duplicated.
func (s *Stack) ShiftUp() (top Word) {
	top = s.Layer[0].Get()
	for n := 1; n < STACK_SIZE; n++ {
		s.Layer[n-1].Set(s.Layer[n].Get())
		s.shifted(SHIFT_UP, n-1)
	}
	s.shifted(SHIFT_UP, STACK_SIZE-1)

	if s.depth > 0 {
		s.depth--
	}
	return
}

// Depth returns the number of values pushed, counting the top of stack.
func (s *Stack) Depth() int {
	return s.depth
}

func (s *Stack) Empty() bool {
	return s.depth == 0
}

func (s *Stack) Full() bool {
	return s.depth == STACK_LIMIT
}

// Values returns the layers, first layer first.
func (s *Stack) Values() (values [STACK_SIZE]Word) {
	for n := range s.Layer {
		values[n] = s.Layer[n].Get()
	}
	return
}

func (s *Stack) Reset() {
	for n := range s.Layer {
		s.Layer[n].Set(0)
	}
	s.depth = 0
}
