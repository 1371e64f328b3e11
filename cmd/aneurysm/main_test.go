package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgomes/aneurysm/bf"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"aneurysm", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"aneurysm", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"aneurysm"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandCheckOnly(t *testing.T) {
	programPath := writeProgram(t, "# just a comment\n+[-]\n")

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-check", programPath})
	})
	if err != nil {
		t.Fatalf("runCommand check failed: %v", err)
	}
	if out != "" {
		t.Fatalf("check should not execute, got %q", out)
	}
}

func TestRunCommandCheckReportsImbalance(t *testing.T) {
	programPath := writeProgram(t, "+\n]")

	err := runCommand([]string{"-check", programPath})
	if err == nil {
		t.Fatalf("expected compile failure")
	}
	if !errors.Is(err, bf.ErrImbalanced) {
		t.Fatalf("expected imbalanced error, got %v", err)
	}
	if !strings.Contains(err.Error(), "compile failed") || !strings.Contains(err.Error(), "line 2, column 1") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandPrintsHelloWorld(t *testing.T) {
	programPath := writeProgram(t, helloWorld)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{programPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if out != "Hello World!\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestRunCommandEchoesInputWithPrompt(t *testing.T) {
	programPath := writeProgram(t, ",.")
	withStdin(t, "A")

	out, err := captureStdout(t, func() error {
		return runCommand([]string{programPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if out != "> A" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestRunCommandInputExhausted(t *testing.T) {
	programPath := writeProgram(t, "+.,")
	withStdin(t, "")

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-no-prompt", programPath})
	})
	if !errors.Is(err, bf.ErrInputExhausted) {
		t.Fatalf("expected input exhausted, got %v", err)
	}
	if !strings.Contains(err.Error(), "execution failed") {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "\x01" {
		t.Fatalf("output before the failure should be flushed, got %q", out)
	}
}

func TestRunCommandStepQuota(t *testing.T) {
	programPath := writeProgram(t, "+[]")

	err := runCommand([]string{"-steps", "500", programPath})
	if !errors.Is(err, bf.ErrStepQuotaExceeded) {
		t.Fatalf("expected step quota error, got %v", err)
	}
}

func TestRunCommandRejectsInvalidSettings(t *testing.T) {
	programPath := writeProgram(t, "+")

	err := runCommand([]string{"-cell-bits", "12", programPath})
	if err == nil || !strings.Contains(err.Error(), "invalid settings") {
		t.Fatalf("expected invalid settings error, got %v", err)
	}
}

func TestRunCommandRequiresProgramPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil {
		t.Fatalf("expected program path error")
	}
	if !strings.Contains(err.Error(), "program path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandMissingFile(t *testing.T) {
	err := runCommand([]string{filepath.Join(t.TempDir(), "missing.bf")})
	if err == nil || !strings.Contains(err.Error(), "read program") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestAnalyzeCommandNoIssues(t *testing.T) {
	programPath := writeProgram(t, "++[>+<-]>.")

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{programPath})
	})
	if err != nil {
		t.Fatalf("analyzeCommand failed: %v", err)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected analyze output: %q", out)
	}
	for _, want := range []string{"increment", "max depth", "total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in statistics table, got %q", want, out)
		}
	}
	if strings.Contains(out, "TOTAL") {
		t.Fatalf("footer should keep its case, got %q", out)
	}
}

func TestAnalyzeCommandReportsWarnings(t *testing.T) {
	programPath := writeProgram(t, "+\n+-")

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{"-stats=false", programPath})
	})
	if err == nil {
		t.Fatalf("expected analyze command to report lint failures")
	}
	if !strings.Contains(err.Error(), "analysis found 1 issue(s)") {
		t.Fatalf("unexpected analyze error: %v", err)
	}
	if !strings.Contains(out, programPath+":2:1: redundant") {
		t.Fatalf("expected redundant sequence warning, got %q", out)
	}
}

func TestAnalyzeCommandRequiresPath(t *testing.T) {
	err := analyzeCommand(nil)
	if err == nil || !strings.Contains(err.Error(), "program path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func writeProgram(t *testing.T, source string) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	path := filepath.Join(dir, "program.bf")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write program: %v", err)
	}
	return path
}

func withStdin(t *testing.T, input string) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if _, err := io.WriteString(w, input); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close write pipe: %v", err)
	}
	orig := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = orig
		_ = r.Close()
	})
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
