package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mgomes/aneurysm/bf"
	"github.com/tebeka/atexit"
)

func main() {
	code := 0
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code = 1
	}
	atexit.Exit(code)
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var settings engineFlags
	settings.register(fs)
	checkOnly := fs.Bool("check", false, "only compile the program without executing")
	raw := fs.Bool("raw", false, "read keystrokes without waiting for enter")
	verbose := fs.Bool("v", false, "log compile and run details to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("aneurysm run: program path required")
	}

	logger := newLogger(os.Stderr, *verbose)
	engine, err := settings.engine(fs)
	if err != nil {
		return err
	}
	program, err := compileFile(engine, remaining[0], logger)
	if err != nil {
		return err
	}
	if *checkOnly {
		return nil
	}

	if *raw {
		restore, err := enterCBreakMode(os.Stdin)
		if err != nil {
			logger.Warn("raw input unavailable, falling back to line input", "err", err)
		} else {
			atexit.Register(restore)
			defer restore()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	machine := engine.NewMachine(bf.RunOptions{Input: os.Stdin, Output: os.Stdout})
	err = machine.Execute(ctx, program)
	logger.Debug("run finished",
		"steps", machine.Steps(),
		"tape_cells", machine.TapeLen(),
		"head", machine.Head(),
		"elapsed", time.Since(start),
	)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

func compileFile(engine *bf.Engine, path string, logger *slog.Logger) (*bf.Program, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve program path: %w", err)
	}
	input, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	program, err := engine.Compile(string(input))
	if err != nil {
		return nil, fmt.Errorf("compile failed: %w", err)
	}
	logger.Debug("compiled program",
		"path", absPath,
		"instructions", program.Len(),
		"config", engine.ConfigSummary(),
	)
	return program, nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args...]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [flags] <program>      execute a program with stdin and stdout")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] [-minify N] <paths...>")
	fmt.Fprintln(os.Stderr, "  analyze <program>          print statistics and lint warnings")
	fmt.Fprintln(os.Stderr, "  repl [flags]               interactive session with a persistent tape")
	fmt.Fprintln(os.Stderr, "  lsp                        language server on stdin/stdout")
	fmt.Fprintln(os.Stderr, "Run flags:")
	fmt.Fprintln(os.Stderr, "  -config <file>")
	fmt.Fprintln(os.Stderr, "    YAML settings file (flags given explicitly take precedence)")
	fmt.Fprintln(os.Stderr, "  -tape int")
	fmt.Fprintln(os.Stderr, "    initial tape length (default 30000)")
	fmt.Fprintln(os.Stderr, "  -cell-bits int")
	fmt.Fprintln(os.Stderr, "    cell width: 8, 16 or 32 (default 8)")
	fmt.Fprintln(os.Stderr, "  -max-cells int")
	fmt.Fprintln(os.Stderr, "    refuse to grow the tape past this many cells (default unbounded)")
	fmt.Fprintln(os.Stderr, "  -steps int")
	fmt.Fprintln(os.Stderr, "    abort after this many instructions (default unlimited)")
	fmt.Fprintln(os.Stderr, "  -prompt string / -no-prompt")
	fmt.Fprintln(os.Stderr, "    text written before each ',' read (default \"> \")")
	fmt.Fprintln(os.Stderr, "  -check")
	fmt.Fprintln(os.Stderr, "    only compile the program without executing")
	fmt.Fprintln(os.Stderr, "  -raw")
	fmt.Fprintln(os.Stderr, "    read keystrokes without waiting for enter")
	fmt.Fprintln(os.Stderr, "  -v")
	fmt.Fprintln(os.Stderr, "    log compile and run details to stderr")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
