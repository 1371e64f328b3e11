package bf

// Instruction is one of the eight commands of the language.
type Instruction byte

const (
	instructionInvalid Instruction = iota

	Advance   // >
	Retreat   // <
	Increment // +
	Decrement // -
	Output    // .
	Accept    // ,
	Forward   // [
	Backward  // ]
)

var instructionSymbols = [...]string{
	instructionInvalid: "?",
	Advance:            ">",
	Retreat:            "<",
	Increment:          "+",
	Decrement:          "-",
	Output:             ".",
	Accept:             ",",
	Forward:            "[",
	Backward:           "]",
}

var instructionNames = [...]string{
	instructionInvalid: "invalid",
	Advance:            "advance",
	Retreat:            "retreat",
	Increment:          "increment",
	Decrement:          "decrement",
	Output:             "output",
	Accept:             "accept",
	Forward:            "forward",
	Backward:           "backward",
}

var instructionDocs = [...]string{
	instructionInvalid: "not a command",
	Advance:            "move the data pointer one cell right",
	Retreat:            "move the data pointer one cell left",
	Increment:          "add one to the current cell",
	Decrement:          "subtract one from the current cell",
	Output:             "write the current cell as a byte",
	Accept:             "read one byte into the current cell",
	Forward:            "jump past the matching ] if the current cell is zero",
	Backward:           "jump back to the matching [ if the current cell is non-zero",
}

// String returns the source symbol for the instruction.
func (i Instruction) String() string {
	if int(i) >= len(instructionSymbols) {
		return instructionSymbols[instructionInvalid]
	}
	return instructionSymbols[i]
}

// Name returns a lower-case name such as "advance".
func (i Instruction) Name() string {
	if !i.Valid() {
		return instructionNames[instructionInvalid]
	}
	return instructionNames[i]
}

// Describe returns a one-line summary of what the instruction does.
func (i Instruction) Describe() string {
	if !i.Valid() {
		return instructionDocs[instructionInvalid]
	}
	return instructionDocs[i]
}

// Valid reports whether i is one of the eight commands.
func (i Instruction) Valid() bool {
	return i >= Advance && i <= Backward
}

// Instructions lists every command in declaration order.
func Instructions() []Instruction {
	return []Instruction{Advance, Retreat, Increment, Decrement, Output, Accept, Forward, Backward}
}

// Lookup returns the instruction for a source rune.
func Lookup(r rune) (Instruction, bool) {
	return instructionFor(r)
}

func instructionFor(r rune) (Instruction, bool) {
	switch r {
	case '>':
		return Advance, true
	case '<':
		return Retreat, true
	case '+':
		return Increment, true
	case '-':
		return Decrement, true
	case '.':
		return Output, true
	case ',':
		return Accept, true
	case '[':
		return Forward, true
	case ']':
		return Backward, true
	default:
		return instructionInvalid, false
	}
}

// Position identifies a line and column (in runes) in the source file.
type Position struct {
	Line   int
	Column int
}
