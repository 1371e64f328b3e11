package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mgomes/aneurysm/bf"
)

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, "tape_length: 64\ncell_bits: 16\nmax_tape_cells: 256\nstep_quota: 1000\nprompt: \"? \"\n")

	got, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	want := bf.Config{TapeLength: 64, CellBits: 16, MaxTapeCells: 256, StepQuota: 1000, Prompt: "? "}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFileEmpty(t *testing.T) {
	got, err := loadConfigFile(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("empty config should load: %v", err)
	}
	if diff := cmp.Diff(bf.Config{}, got); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFileRejectsUnknownKeys(t *testing.T) {
	_, err := loadConfigFile(writeConfig(t, "tape_len: 10\n"))
	if err == nil || !strings.Contains(err.Error(), "decode config") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestEngineFlagsOverrideConfigFile(t *testing.T) {
	path := writeConfig(t, "tape_length: 64\ncell_bits: 16\ndisable_prompt: true\n")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var settings engineFlags
	settings.register(fs)
	if err := fs.Parse([]string{"-config", path, "-cell-bits", "32", "-steps", "9"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	got, err := settings.config(fs)
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	want := bf.Config{TapeLength: 64, CellBits: 32, StepQuota: 9, DisablePrompt: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestEngineFlagsDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var settings engineFlags
	settings.register(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	engine, err := settings.engine(fs)
	if err != nil {
		t.Fatalf("engine failed: %v", err)
	}
	cfg := engine.Config()
	if cfg.TapeLength != bf.DefaultTapeLength || cfg.CellBits != bf.DefaultCellBits || cfg.Prompt != bf.DefaultPrompt {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestEngineFlagsMissingConfigFile(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var settings engineFlags
	settings.register(fs)
	if err := fs.Parse([]string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := settings.engine(fs); err == nil || !strings.Contains(err.Error(), "open config") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aneurysm.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
