// Package bf implements an interpreter for Brainfuck. Source text is lexed
// into eight instructions:
//   - `>` and `<` move the data pointer right and left.
//   - `+` and `-` add and subtract one from the current cell, wrapping at
//     the configured cell width (8 bits unless configured otherwise).
//   - `.` writes the current cell's low byte; `,` prints a prompt and reads
//     one byte into the current cell.
//   - `[` and `]` loop while the current cell is non-zero.
//
// Every other character is ignored. A `#` that starts a line, after optional
// whitespace, comments out the rest of that line. Brackets are paired before
// anything runs, so an imbalanced program fails without side effects. The
// tape starts with 30000 cells and doubles whenever the pointer walks off
// its right end; moving left of cell 0 is a runtime error.
package bf
