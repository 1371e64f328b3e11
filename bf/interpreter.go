package bf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	DefaultTapeLength = 30000
	DefaultCellBits   = 8
	DefaultPrompt     = "> "
)

// Config controls tape geometry, cell width, and execution bounds.
type Config struct {
	TapeLength    int
	CellBits      int
	MaxTapeCells  int
	StepQuota     int64
	Prompt        string
	DisablePrompt bool
}

// Engine compiles programs and creates machines that run them.
type Engine struct {
	config Config
}

// NewEngine constructs an Engine, filling in defaults for zero fields.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.TapeLength < 0 {
		return nil, fmt.Errorf("bf: tape length must not be negative (got %d)", cfg.TapeLength)
	}
	if cfg.MaxTapeCells < 0 {
		return nil, fmt.Errorf("bf: max tape cells must not be negative (got %d)", cfg.MaxTapeCells)
	}
	if cfg.StepQuota < 0 {
		return nil, fmt.Errorf("bf: step quota must not be negative (got %d)", cfg.StepQuota)
	}
	if cfg.TapeLength == 0 {
		cfg.TapeLength = DefaultTapeLength
	}
	if cfg.CellBits == 0 {
		cfg.CellBits = DefaultCellBits
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}

	switch cfg.CellBits {
	case 8, 16, 32:
	default:
		return nil, fmt.Errorf("bf: cell width must be 8, 16 or 32 bits (got %d)", cfg.CellBits)
	}
	if cfg.MaxTapeCells > 0 && cfg.MaxTapeCells < cfg.TapeLength {
		return nil, fmt.Errorf("bf: max tape cells %d is smaller than tape length %d", cfg.MaxTapeCells, cfg.TapeLength)
	}

	return &Engine{config: cfg}, nil
}

// MustNewEngine constructs an Engine or panics if the config is invalid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// Config returns the effective configuration, defaults included.
func (e *Engine) Config() Config {
	return e.config
}

// ConfigSummary provides a human-readable description of the interpreter limits.
func (e *Engine) ConfigSummary() string {
	maxCells := "unbounded"
	if e.config.MaxTapeCells > 0 {
		maxCells = fmt.Sprint(e.config.MaxTapeCells)
	}
	steps := "unlimited"
	if e.config.StepQuota > 0 {
		steps = fmt.Sprint(e.config.StepQuota)
	}
	return fmt.Sprintf("tape=%d max_cells=%s cell_bits=%d steps=%s", e.config.TapeLength, maxCells, e.config.CellBits, steps)
}

// Program is a lexed and bracket-checked instruction sequence.
type Program struct {
	engine       *Engine
	source       string
	instructions []Instruction
	positions    []Position
	jumps        JumpTable
}

// Compile tokenizes source and resolves its loops. A program that fails
// here never runs.
func (e *Engine) Compile(source string) (*Program, error) {
	instructions, positions, err := newLexer(source).tokenize()
	if err != nil {
		return nil, err
	}

	jumps, err := Resolve(instructions)
	if err != nil {
		var structErr *StructureError
		if errors.As(err, &structErr) {
			structErr.Pos = positions[structErr.Index]
			structErr.CodeFrame = formatCodeFrame(source, structErr.Pos)
		}
		return nil, err
	}

	return &Program{
		engine:       e,
		source:       source,
		instructions: instructions,
		positions:    positions,
		jumps:        jumps,
	}, nil
}

// Instructions returns a copy of the program's instruction sequence.
func (p *Program) Instructions() []Instruction {
	return append([]Instruction(nil), p.instructions...)
}

// Jumps returns a copy of the program's jump table.
func (p *Program) Jumps() JumpTable {
	return append(JumpTable(nil), p.jumps...)
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.instructions)
}

// Position returns where instruction i appears in the source.
func (p *Program) Position(i int) Position {
	if i < 0 || i >= len(p.positions) {
		return Position{}
	}
	return p.positions[i]
}

// Source returns the text the program was compiled from.
func (p *Program) Source() string {
	return p.source
}

// String returns the program's commands with everything else removed.
func (p *Program) String() string {
	var b strings.Builder
	b.Grow(len(p.instructions))
	for _, inst := range p.instructions {
		b.WriteString(inst.String())
	}
	return b.String()
}

// RunOptions supplies the byte streams a run reads from and writes to.
type RunOptions struct {
	Input  io.Reader
	Output io.Writer
}

// Run executes the program on a fresh machine.
func (p *Program) Run(ctx context.Context, opts RunOptions) error {
	return p.engine.NewMachine(opts).Execute(ctx, p)
}

// Run compiles and executes source with the default configuration.
func Run(ctx context.Context, source string, in io.Reader, out io.Writer) error {
	program, err := MustNewEngine(Config{}).Compile(source)
	if err != nil {
		return err
	}
	return program.Run(ctx, RunOptions{Input: in, Output: out})
}
