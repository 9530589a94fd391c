package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"vex/colors"
	"vex/internal/utils/fs"
)

// FileName is the project file looked up from the entry file's directory.
const FileName = "vex.toml"

// Config holds compiler options. Values from a project file are loaded
// first; command-line flags override them.
type Config struct {
	// Project information
	ProjectName string `toml:"name"`
	ProjectRoot string `toml:"-"` // directory holding vex.toml, or the entry file's

	Extension string `toml:"extension"` // source file extension (default: ".vx")
	MaxErrors int    `toml:"max_errors"`

	Debug   bool `toml:"debug"`
	Color   bool `toml:"color"`
	DumpAST bool `toml:"dump_ast"`
	DumpHIR bool `toml:"dump_hir"`
}

// Default returns the options used when there is no project file.
func Default() *Config {
	return &Config{
		ProjectName: "playground",
		Extension:   ".vx",
		MaxErrors:   100,
		Color:       true,
	}
}

// Load reads a project file over the defaults. Unknown keys are an error so
// that typos do not pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.ProjectRoot = filepath.Dir(path)
	if !md.IsDefined("name") {
		cfg.ProjectName = filepath.Base(cfg.ProjectRoot)
	}
	return cfg, cfg.Validate()
}

// Discover loads the nearest vex.toml above entry, or the defaults rooted
// at entry's directory when there is none.
func Discover(entry string) (*Config, error) {
	dir := filepath.Dir(entry)
	if path := fs.FindUp(dir, FileName); path != "" {
		return Load(path)
	}
	cfg := Default()
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	cfg.ProjectRoot = dir
	cfg.ProjectName = filepath.Base(dir)
	return cfg, nil
}

func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("extension %q must start with a dot", c.Extension)
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("max_errors must not be negative, got %d", c.MaxErrors)
	}
	return nil
}

// ApplyColor turns colour output off when the project asks for it. It never
// turns colour on for a stream that is not a terminal.
func (c *Config) ApplyColor() {
	if !c.Color {
		colors.SetEnabled(false)
	}
}
