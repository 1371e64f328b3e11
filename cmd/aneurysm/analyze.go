package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mgomes/aneurysm/bf"
)

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	stats := fs.Bool("stats", true, "print the instruction table before warnings")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("aneurysm analyze: program path required")
	}

	programPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve program path: %w", err)
	}
	input, err := os.ReadFile(programPath)
	if err != nil {
		return fmt.Errorf("read program: %w", err)
	}

	engine := bf.MustNewEngine(bf.Config{})
	program, err := engine.Compile(string(input))
	if err != nil {
		return fmt.Errorf("analysis compile failed: %w", err)
	}

	report := bf.Analyze(program)
	if *stats {
		renderReport(os.Stdout, report)
	}
	if len(report.Warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range report.Warnings {
		fmt.Printf("%s:%d:%d: %s\n", programPath, warning.Pos.Line, warning.Pos.Column, warning.Message)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(report.Warnings))
}

func renderReport(w io.Writer, report bf.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Symbol", "Instruction", "Count"})
	for _, inst := range bf.Instructions() {
		t.AppendRow(table.Row{inst.String(), inst.Name(), report.Counts[inst]})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"", "loops", report.Loops})
	t.AppendRow(table.Row{"", "max depth", report.MaxDepth})
	t.AppendFooter(table.Row{"", "total", report.Instructions})
	t.Render()
}
