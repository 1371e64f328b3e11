package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mgomes/aneurysm/bf"
)

func newTestREPL() replModel {
	return newREPLModel(bf.MustNewEngine(bf.Config{DisablePrompt: true, StepQuota: 10_000}))
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	m := newTestREPL()
	m.textInput.SetValue(":quit")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	m := newTestREPL()
	m.textInput.SetValue(":help")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestEvaluateKeepsTapeBetweenLines(t *testing.T) {
	m := newTestREPL()

	if output, isErr := m.evaluate("+++>++"); isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	output, isErr := m.evaluate("<-")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	if output != "head=0 cell=2" {
		t.Fatalf("unexpected state summary: %q", output)
	}
	if m.machine.Cell(1) != 2 {
		t.Fatalf("second cell lost between lines: %d", m.machine.Cell(1))
	}
}

func TestEvaluateReportsOutput(t *testing.T) {
	m := newTestREPL()

	output, isErr := m.evaluate("++++++++[>++++++++<-]>+.")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	if !strings.HasPrefix(output, `"A"`) {
		t.Fatalf("expected quoted output, got %q", output)
	}
}

func TestInputCommandFeedsAccept(t *testing.T) {
	m := newTestREPL()
	m, _ = m.handleCommand(":input hi")

	output, isErr := m.evaluate(",.,.,.")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	if !strings.HasPrefix(output, `"hi\n"`) {
		t.Fatalf("unexpected output: %q", output)
	}

	output, isErr = m.evaluate(",")
	if !isErr || !strings.Contains(output, "input exhausted") {
		t.Fatalf("expected input exhausted, got %q", output)
	}
}

func TestEvaluateReportsErrors(t *testing.T) {
	m := newTestREPL()

	if output, isErr := m.evaluate("+]"); !isErr || !strings.Contains(output, "unmatched ']'") {
		t.Fatalf("expected structure error, got %q", output)
	}
	if output, isErr := m.evaluate("<"); !isErr || !strings.Contains(output, "left of cell 0") {
		t.Fatalf("expected underflow error, got %q", output)
	}
	if output, isErr := m.evaluate("+[]"); !isErr || !strings.Contains(output, "step quota") {
		t.Fatalf("expected step quota error, got %q", output)
	}
}

func TestResetCommandClearsTape(t *testing.T) {
	m := newTestREPL()
	m.evaluate("+++>+")
	m, _ = m.handleCommand(":reset")

	if m.machine.Head() != 0 || m.machine.Cell(0) != 0 || m.machine.Cell(1) != 0 {
		t.Fatalf("reset did not clear the tape")
	}
	last := m.history[len(m.history)-1]
	if last.output != "Tape reset" {
		t.Fatalf("unexpected history entry: %+v", last)
	}
}

func TestAutocompleteCommands(t *testing.T) {
	m := newTestREPL()
	m.textInput.SetValue(":ta")
	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != ":tape" {
		t.Fatalf("expected :tape, got %q", got)
	}

	m.textInput.SetValue(":")
	m = m.handleAutocomplete()
	last := m.history[len(m.history)-1]
	if !strings.Contains(last.output, ":input") || !strings.Contains(last.output, ":reset") {
		t.Fatalf("expected completion list, got %q", last.output)
	}
}

func TestViewShowsTapeWindow(t *testing.T) {
	m := newTestREPL()
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = model.(replModel)
	m.evaluate("+++")

	view := m.View()
	if !strings.Contains(view, "Tape") || !strings.Contains(view, "head 0") {
		t.Fatalf("expected tape panel in view, got %q", view)
	}
}
