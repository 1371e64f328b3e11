package bf

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch  rune
	eof bool

	// true while only whitespace has been seen on the current line
	lineStart bool
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0, lineStart: true}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
		l.lineStart = true
	}
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		l.eof = true
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w
	l.column++
	l.ch = r
}

func (l *lexer) pos() Position {
	return Position{Line: l.line, Column: l.column}
}

// commentTerminated reports whether a newline follows the current rune. A
// '#' with no newline after it does not start a comment.
func (l *lexer) commentTerminated() bool {
	return strings.IndexByte(l.input[l.offset:], '\n') >= 0
}

// skipComment consumes a line comment up to and including its newline.
func (l *lexer) skipComment() {
	for !l.eof && l.ch != '\n' {
		l.readRune()
	}
	if !l.eof {
		l.readRune()
	}
}

func (l *lexer) tokenize() ([]Instruction, []Position, error) {
	instructions := make([]Instruction, 0, len(l.input))
	positions := make([]Position, 0, len(l.input))

	for !l.eof {
		start := l.offset

		if l.ch == '#' && l.lineStart && l.commentTerminated() {
			l.skipComment()
		} else {
			if inst, ok := instructionFor(l.ch); ok {
				instructions = append(instructions, inst)
				positions = append(positions, l.pos())
			}
			if !unicode.IsSpace(l.ch) {
				l.lineStart = false
			}
			l.readRune()
		}

		if l.offset == start && !l.eof {
			return nil, nil, &SyntaxError{Pos: l.pos(), Message: "lexer made no progress"}
		}
	}

	return instructions, positions, nil
}

// Tokenize scans source and returns its commands in order. Runes that are
// not commands are ignored, and a '#' preceded on its line only by
// whitespace starts a comment that runs to the end of the line. A '#' on a
// final line with no newline is junk, so commands after it still count.
func Tokenize(source string) ([]Instruction, error) {
	instructions, _, err := newLexer(source).tokenize()
	return instructions, err
}
