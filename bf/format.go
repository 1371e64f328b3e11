package bf

import "strings"

// FormatSource normalises line endings, strips trailing spaces and tabs, and
// ends the text with exactly one newline. Commands and comments are kept.
func FormatSource(source string) string {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	joined := strings.Join(lines, "\n")
	joined = strings.TrimRight(joined, "\n")
	return joined + "\n"
}

// Minify renders only the program's commands, breaking lines every width
// commands. A width of zero or less keeps everything on one line.
func Minify(p *Program, width int) string {
	code := p.String()
	if code == "" {
		return ""
	}
	if width <= 0 || len(code) <= width {
		return code + "\n"
	}

	var b strings.Builder
	b.Grow(len(code) + len(code)/width + 1)
	for len(code) > width {
		b.WriteString(code[:width])
		b.WriteByte('\n')
		code = code[width:]
	}
	if code != "" {
		b.WriteString(code)
		b.WriteByte('\n')
	}
	return b.String()
}
