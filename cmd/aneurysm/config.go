package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mgomes/aneurysm/bf"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors bf.Config in the settings file.
type fileConfig struct {
	TapeLength    int    `yaml:"tape_length"`
	CellBits      int    `yaml:"cell_bits"`
	MaxTapeCells  int    `yaml:"max_tape_cells"`
	StepQuota     int64  `yaml:"step_quota"`
	Prompt        string `yaml:"prompt"`
	DisablePrompt bool   `yaml:"disable_prompt"`
}

func loadConfigFile(path string) (bf.Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return bf.Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var fc fileConfig
	if err := decoder.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return bf.Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}

	return bf.Config{
		TapeLength:    fc.TapeLength,
		CellBits:      fc.CellBits,
		MaxTapeCells:  fc.MaxTapeCells,
		StepQuota:     fc.StepQuota,
		Prompt:        fc.Prompt,
		DisablePrompt: fc.DisablePrompt,
	}, nil
}

// engineFlags are the interpreter settings shared by run and repl.
type engineFlags struct {
	configPath string
	tapeLength int
	cellBits   int
	maxCells   int
	steps      int64
	prompt     string
	noPrompt   bool
}

func (f *engineFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "YAML settings file")
	fs.IntVar(&f.tapeLength, "tape", bf.DefaultTapeLength, "initial tape length")
	fs.IntVar(&f.cellBits, "cell-bits", bf.DefaultCellBits, "cell width in bits (8, 16 or 32)")
	fs.IntVar(&f.maxCells, "max-cells", 0, "maximum tape length (0 = unbounded)")
	fs.Int64Var(&f.steps, "steps", 0, "step quota (0 = unlimited)")
	fs.StringVar(&f.prompt, "prompt", bf.DefaultPrompt, "text written before each input read")
	fs.BoolVar(&f.noPrompt, "no-prompt", false, "do not write a prompt before input reads")
}

// config layers explicitly set flags over the settings file, if any.
func (f *engineFlags) config(fs *flag.FlagSet) (bf.Config, error) {
	var cfg bf.Config
	if f.configPath != "" {
		loaded, err := loadConfigFile(f.configPath)
		if err != nil {
			return bf.Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "tape":
			cfg.TapeLength = f.tapeLength
		case "cell-bits":
			cfg.CellBits = f.cellBits
		case "max-cells":
			cfg.MaxTapeCells = f.maxCells
		case "steps":
			cfg.StepQuota = f.steps
		case "prompt":
			cfg.Prompt = f.prompt
		case "no-prompt":
			cfg.DisablePrompt = f.noPrompt
		}
	})
	return cfg, nil
}

func (f *engineFlags) engine(fs *flag.FlagSet) (*bf.Engine, error) {
	cfg, err := f.config(fs)
	if err != nil {
		return nil, err
	}
	engine, err := bf.NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return engine, nil
}
