package bf

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// ctxPollInterval is how many steps run between context checks.
const ctxPollInterval = 1024

// Machine owns a tape and a data pointer. The state survives between
// Execute calls, so several programs can run against the same memory.
type Machine struct {
	config Config
	tape   *Tape
	head   int
	steps  int64

	in  io.Reader
	out *bufio.Writer
}

// NewMachine creates a machine with a zeroed tape.
func (e *Engine) NewMachine(opts RunOptions) *Machine {
	in := opts.Input
	if in == nil {
		in = strings.NewReader("")
	}
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	return &Machine{
		config: e.config,
		tape:   newTape(e.config.TapeLength, e.config.CellBits, e.config.MaxTapeCells),
		in:     in,
		out:    bufio.NewWriter(out),
	}
}

// Head returns the data pointer.
func (m *Machine) Head() int {
	return m.head
}

// Cell returns the value of cell i.
func (m *Machine) Cell(i int) uint32 {
	return m.tape.Get(i)
}

// TapeLen returns the current tape length.
func (m *Machine) TapeLen() int {
	return m.tape.Len()
}

// Steps returns the number of instructions executed so far.
func (m *Machine) Steps() int64 {
	return m.steps
}

// Window returns cells [from, to), clamped to zero at the left edge.
func (m *Machine) Window(from, to int) []uint32 {
	if from < 0 {
		from = 0
	}
	if to < from {
		return nil
	}
	out := make([]uint32, to-from)
	for i := range out {
		out[i] = m.tape.Get(from + i)
	}
	return out
}

// Reset zeroes the tape and returns the head to cell 0. The tape keeps
// whatever length it has grown to.
func (m *Machine) Reset() {
	m.tape.reset()
	m.head = 0
	m.steps = 0
}

// Execute interprets p from its first instruction until the program counter
// runs off the end. Output is flushed before every read, every 1024 steps
// and on every return, so a failed write may be reported a little after the
// '.' that caused it.
// The step quota applies to each call separately.
func (m *Machine) Execute(ctx context.Context, p *Program) (err error) {
	defer func() {
		if flushErr := m.out.Flush(); flushErr != nil && err == nil {
			err = m.fail(p, len(p.instructions)-1, OutputFailed, flushErr)
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	instructions := p.instructions
	jumps := p.jumps
	quota := m.config.StepQuota

	var executed int64
	defer func() { m.steps += executed }()

	pc := 0
	for pc < len(instructions) {
		if quota > 0 && executed >= quota {
			return m.fail(p, pc, StepQuotaExceeded, nil)
		}
		executed++
		if executed%ctxPollInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			// a long-running program still surfaces a broken sink
			if m.out.Buffered() > 0 {
				if err := m.out.Flush(); err != nil {
					return m.fail(p, pc, OutputFailed, err)
				}
			}
		}

		switch instructions[pc] {
		case Advance:
			if !m.tape.ensure(m.head + 1) {
				return m.fail(p, pc, TapeLimitExceeded, nil)
			}
			m.head++
		case Retreat:
			if m.head == 0 {
				return m.fail(p, pc, PointerUnderflow, nil)
			}
			m.head--
		case Increment:
			m.tape.add(m.head, 1)
		case Decrement:
			m.tape.add(m.head, m.tape.mask)
		case Output:
			if err := m.out.WriteByte(byte(m.tape.cells[m.head])); err != nil {
				return m.fail(p, pc, OutputFailed, err)
			}
		case Accept:
			b, kind, cause := m.accept()
			if kind != 0 {
				return m.fail(p, pc, kind, cause)
			}
			m.tape.set(m.head, uint32(b))
		case Forward:
			if m.tape.cells[m.head] == 0 {
				pc = jumps[pc]
				continue
			}
		case Backward:
			if m.tape.cells[m.head] != 0 {
				pc = jumps[pc]
				continue
			}
		}
		pc++
	}

	return nil
}

// accept writes the prompt, flushes, and reads one byte. A non-zero kind
// reports failure.
func (m *Machine) accept() (byte, RuntimeErrorKind, error) {
	if !m.config.DisablePrompt {
		if _, err := m.out.WriteString(m.config.Prompt); err != nil {
			return 0, OutputFailed, err
		}
	}
	if err := m.out.Flush(); err != nil {
		return 0, OutputFailed, err
	}

	var buf [1]byte
	if _, err := io.ReadFull(m.in, buf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, InputExhausted, nil
		}
		return 0, InputFailed, err
	}
	return buf[0], 0, nil
}

func (m *Machine) fail(p *Program, pc int, kind RuntimeErrorKind, cause error) error {
	re := &RuntimeError{Kind: kind, PC: pc, Head: m.head, Err: cause}
	if pc >= 0 && pc < len(p.instructions) {
		re.Instruction = p.instructions[pc]
		re.Pos = p.positions[pc]
		re.CodeFrame = formatCodeFrame(p.source, re.Pos)
	}
	return re
}
