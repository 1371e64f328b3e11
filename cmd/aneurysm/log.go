package main

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "aneurysm",
		ReportTimestamp: verbose,
	})
	return slog.New(handler)
}
