package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/aneurysm/bf"
)

// replStepQuota bounds each line when no quota was configured, so a stray
// "+[]" does not hang the session.
const replStepQuota = 1_000_000

// tapeRadius is how many cells either side of the head the tape panel shows.
const tapeRadius = 8

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headCellStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true).
			Underline(true)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

var replCommands = []string{":clear", ":help", ":input", ":quit", ":reset", ":tape"}

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	engine      *bf.Engine
	machine     *bf.Machine
	input       *bytes.Buffer
	output      *bytes.Buffer
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showTape    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlT key.Binding
	CtrlH key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlT: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "toggle tape"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func newREPLModel(engine *bf.Engine) replModel {
	ti := textinput.New()
	ti.Placeholder = "type some commands..."
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "bf> "

	input := new(bytes.Buffer)
	output := new(bytes.Buffer)
	machine := engine.NewMachine(bf.RunOptions{Input: input, Output: output})

	return replModel{
		textInput:  ti,
		engine:     engine,
		machine:    machine,
		input:      input,
		output:     output,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
		showTape:   true,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlT):
			m.showTape = !m.showTape
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.cmdHistory = append(m.cmdHistory, input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, isErr := m.evaluate(input)
			m.history = append(m.history, historyEntry{
				input:  input,
				output: output,
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	cmd, rest, _ := strings.Cut(input, " ")

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":tape", ":t":
		m.showTape = !m.showTape
	case ":input", ":i":
		m.input.WriteString(rest)
		m.input.WriteByte('\n')
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("%d byte(s) queued", m.input.Len()),
		})
	case ":reset", ":r":
		m.machine.Reset()
		m.input.Reset()
		m.output.Reset()
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "Tape reset",
		})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	if !strings.HasPrefix(input, ":") || strings.Contains(input, " ") {
		return m
	}

	var completions []string
	for _, c := range replCommands {
		if strings.HasPrefix(c, input) {
			completions = append(completions, c)
		}
	}

	if len(completions) == 1 {
		m.textInput.SetValue(completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			input:  "",
			output: "Completions: " + strings.Join(completions, ", "),
			isErr:  false,
		})
	}

	return m
}

// evaluate runs one line against the persistent machine. Output produced
// before a runtime error is still reported.
func (m replModel) evaluate(input string) (string, bool) {
	program, err := m.engine.Compile(input)
	if err != nil {
		return err.Error(), true
	}

	err = m.machine.Execute(context.Background(), program)
	produced := m.output.String()
	m.output.Reset()
	if err != nil {
		if produced != "" {
			return fmt.Sprintf("%q\n%s", produced, err.Error()), true
		}
		return err.Error(), true
	}

	state := fmt.Sprintf("head=%d cell=%d", m.machine.Head(), m.machine.Cell(m.machine.Head()))
	if produced == "" {
		return state, false
	}
	return fmt.Sprintf("%q  %s", produced, state), false
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("aneurysm REPL")
	summary := mutedStyle.Render(m.engine.ConfigSummary())
	b.WriteString(header + " " + summary + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(0, min(m.width-2, 60)))) + "\n\n")

	reservedLines := 8
	if m.showHelp {
		reservedLines += 12
	}
	if m.showTape {
		reservedLines += 5
	}
	availableHeight := m.height - reservedLines

	historyStart := 0
	if availableHeight > 0 && len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showTape {
		b.WriteString(renderTapePanel(m.machine, m.input.Len()))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+t") + helpDescStyle.Render(" tape  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderTapePanel(machine *bf.Machine, queued int) string {
	head := machine.Head()
	from := max(head-tapeRadius, 0)
	cells := machine.Window(from, head+tapeRadius+1)

	indexes := make([]string, len(cells))
	values := make([]string, len(cells))
	for i, v := range cells {
		idx := fmt.Sprintf("%4d", from+i)
		val := fmt.Sprintf("%4d", v)
		if from+i == head {
			idx = headCellStyle.Render(idx)
			val = headCellStyle.Render(val)
		}
		indexes[i] = idx
		values[i] = val
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Tape") +
			mutedStyle.Render(fmt.Sprintf("  head %d  cells %d  steps %d  input %d byte(s)",
				head, machine.TapeLen(), machine.Steps(), queued)),
		mutedStyle.Render(strings.Join(indexes, " ")),
		strings.Join(values, " "),
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate command history"},
		{"Tab", "Complete a : command"},
		{"Enter", "Run commands on the tape"},
		{":input", "Queue a line of input for ','"},
		{":tape", "Toggle the tape panel"},
		{":help", "Toggle this help"},
		{":clear", "Clear history"},
		{":reset", "Zero the tape and drop queued input"},
		{":quit", "Exit REPL"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var settings engineFlags
	settings.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := settings.config(fs)
	if err != nil {
		return err
	}
	if cfg.StepQuota == 0 {
		cfg.StepQuota = replStepQuota
	}
	cfg.DisablePrompt = true
	engine, err := bf.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	p := tea.NewProgram(newREPLModel(engine), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
