package bf

// JumpTable links every Forward to its matching Backward and back again.
// Entries for other instructions are -1.
type JumpTable []int

// Partner returns the matching bracket index for i.
func (t JumpTable) Partner(i int) (int, bool) {
	if i < 0 || i >= len(t) || t[i] < 0 {
		return 0, false
	}
	return t[i], true
}

// Resolve pairs loop brackets. It fails with a *StructureError when a ']'
// has no open '[' or when a '[' is never closed.
func Resolve(instructions []Instruction) (JumpTable, error) {
	table := make(JumpTable, len(instructions))
	var stack []int

	for i, inst := range instructions {
		table[i] = -1
		switch inst {
		case Forward:
			stack = append(stack, i)
		case Backward:
			if len(stack) == 0 {
				return nil, &StructureError{Kind: UnmatchedClose, Index: i}
			}
			partner := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			table[i] = partner
			table[partner] = i
		}
	}
	if len(stack) > 0 {
		return nil, &StructureError{Kind: UnclosedOpen, Index: stack[len(stack)-1]}
	}

	return table, nil
}
