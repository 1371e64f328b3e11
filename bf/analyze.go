package bf

import "sort"

// Warning is a lint finding tied to a source position.
type Warning struct {
	Index   int
	Pos     Position
	Message string
}

// Report summarises the static shape of a program.
type Report struct {
	Instructions int
	Counts       map[Instruction]int
	Loops        int
	MaxDepth     int
	Warnings     []Warning
}

// Analyze inspects p without running it.
func Analyze(p *Program) Report {
	report := Report{
		Instructions: len(p.instructions),
		Counts:       make(map[Instruction]int, 8),
	}

	depth := 0
	// cells are all zero until something writes one
	touched := false
	for i, inst := range p.instructions {
		report.Counts[inst]++

		switch inst {
		case Increment, Decrement, Accept:
			touched = true
		case Forward:
			report.Loops++
			depth++
			if depth > report.MaxDepth {
				report.MaxDepth = depth
			}
			if !touched {
				report.Warnings = append(report.Warnings, p.warning(i, "loop is never entered"))
			}
			if next := i + 1; next < len(p.instructions) && p.instructions[next] == Backward {
				report.Warnings = append(report.Warnings, p.warning(i, `empty loop "[]" never terminates once entered`))
			}
		case Backward:
			depth--
		}

		if i > 0 && cancels(p.instructions[i-1], inst) {
			report.Warnings = append(report.Warnings, p.warning(i-1, `redundant "`+p.instructions[i-1].String()+inst.String()+`" sequence`))
		}
	}

	sort.SliceStable(report.Warnings, func(i, j int) bool {
		return report.Warnings[i].Index < report.Warnings[j].Index
	})
	return report
}

func cancels(a, b Instruction) bool {
	switch {
	case a == Increment && b == Decrement, a == Decrement && b == Increment:
		return true
	case a == Advance && b == Retreat, a == Retreat && b == Advance:
		return true
	default:
		return false
	}
}

func (p *Program) warning(i int, message string) Warning {
	return Warning{Index: i, Pos: p.positions[i], Message: message}
}
