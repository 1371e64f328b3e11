package bf

// Tape is the interpreter's memory: unsigned cells of a fixed bit width that
// wrap on overflow. It grows by doubling and never shrinks.
type Tape struct {
	cells []uint32
	mask  uint32
	limit int
}

func newTape(length, cellBits, limit int) *Tape {
	return &Tape{
		cells: make([]uint32, length),
		mask:  cellMask(cellBits),
		limit: limit,
	}
}

func cellMask(bits int) uint32 {
	if bits >= 32 {
		return ^uint32(0)
	}
	return uint32(1)<<bits - 1
}

// Len returns the current number of cells.
func (t *Tape) Len() int {
	return len(t.cells)
}

// Get returns cell i, or 0 for indices beyond the tape.
func (t *Tape) Get(i int) uint32 {
	if i < 0 || i >= len(t.cells) {
		return 0
	}
	return t.cells[i]
}

func (t *Tape) set(i int, v uint32) {
	t.cells[i] = v & t.mask
}

func (t *Tape) add(i int, delta uint32) {
	t.cells[i] = (t.cells[i] + delta) & t.mask
}

// ensure grows the tape until index i is addressable. It returns false when
// the configured limit forbids it.
func (t *Tape) ensure(i int) bool {
	if i < len(t.cells) {
		return true
	}
	if t.limit > 0 && i >= t.limit {
		return false
	}
	size := len(t.cells)
	if size == 0 {
		size = 1
	}
	for size <= i {
		size *= 2
	}
	if t.limit > 0 && size > t.limit {
		size = t.limit
	}
	grown := make([]uint32, size)
	copy(grown, t.cells)
	t.cells = grown
	return true
}

func (t *Tape) reset() {
	clear(t.cells)
}
