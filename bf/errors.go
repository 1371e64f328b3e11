package bf

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrImbalanced        = errors.New("imbalanced brackets")
	ErrInputExhausted    = errors.New("input exhausted")
	ErrInputFailed       = errors.New("input read failed")
	ErrOutputFailed      = errors.New("output write failed")
	ErrPointerUnderflow  = errors.New("data pointer moved left of cell 0")
	ErrStepQuotaExceeded = errors.New("step quota exceeded")
	ErrTapeLimitExceeded = errors.New("tape limit exceeded")
)

// SyntaxError reports source text the lexer could not consume.
type SyntaxError struct {
	Pos     Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// StructureErrorKind distinguishes the two ways brackets can fail to pair.
type StructureErrorKind int

const (
	UnmatchedClose StructureErrorKind = iota + 1
	UnclosedOpen
)

func (k StructureErrorKind) String() string {
	switch k {
	case UnmatchedClose:
		return "unmatched ']'"
	case UnclosedOpen:
		return "unclosed '['"
	default:
		return "imbalanced bracket"
	}
}

// StructureError is returned when loop brackets do not nest properly. Index
// is the offending instruction; Pos and CodeFrame are filled in by
// Engine.Compile.
type StructureError struct {
	Kind      StructureErrorKind
	Index     int
	Pos       Position
	CodeFrame string
}

func (e *StructureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s at instruction %d", ErrImbalanced, e.Kind, e.Index)
	if e.Pos.Line > 0 {
		fmt.Fprintf(&b, " (%d:%d)", e.Pos.Line, e.Pos.Column)
	}
	if e.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(e.CodeFrame)
	}
	return b.String()
}

func (e *StructureError) Is(target error) bool {
	return target == ErrImbalanced
}

// RuntimeErrorKind classifies a failed run.
type RuntimeErrorKind int

const (
	InputExhausted RuntimeErrorKind = iota + 1
	InputFailed
	OutputFailed
	PointerUnderflow
	StepQuotaExceeded
	TapeLimitExceeded
)

func (k RuntimeErrorKind) sentinel() error {
	switch k {
	case InputExhausted:
		return ErrInputExhausted
	case InputFailed:
		return ErrInputFailed
	case OutputFailed:
		return ErrOutputFailed
	case PointerUnderflow:
		return ErrPointerUnderflow
	case StepQuotaExceeded:
		return ErrStepQuotaExceeded
	case TapeLimitExceeded:
		return ErrTapeLimitExceeded
	default:
		return nil
	}
}

func (k RuntimeErrorKind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return "runtime error"
}

// RuntimeError aborts a run. It records the instruction that failed and the
// state of the head at that moment.
type RuntimeError struct {
	Kind        RuntimeErrorKind
	PC          int
	Instruction Instruction
	Pos         Position
	Head        int
	CodeFrame   string
	Err         error
}

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(re.Kind.String())
	if re.Err != nil {
		b.WriteString(": ")
		b.WriteString(re.Err.Error())
	}
	fmt.Fprintf(&b, "\n  at instruction %d '%s'", re.PC, re.Instruction)
	if re.Pos.Line > 0 {
		fmt.Fprintf(&b, " (%d:%d)", re.Pos.Line, re.Pos.Column)
	}
	fmt.Fprintf(&b, ", head %d", re.Head)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	return b.String()
}

func (re *RuntimeError) Is(target error) bool {
	sentinel := re.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

// Unwrap returns the underlying I/O error, if any.
func (re *RuntimeError) Unwrap() error {
	return re.Err
}
