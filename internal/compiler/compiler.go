package compiler

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"vex/colors"
	"vex/internal/config"
	"vex/internal/context_v2"
	"vex/internal/pipeline"
)

type FORMAT int

const (
	ANSI FORMAT = iota
	PLAIN
)

// VirtualRoot is the project root used for in-memory code.
const VirtualRoot = "/virtual"

// Options for compilation
type Options struct {
	// For file-based compilation
	EntryFile string
	// For in-memory compilation (tests, the repl)
	Code string

	// Flags; each one only ever turns an option on over the project file
	Debug   bool
	DumpAST bool
	DumpHIR bool

	// ANSI writes diagnostics to Stderr. PLAIN returns them, uncoloured,
	// in Result.Output.
	LogFormat FORMAT

	// Default to os.Stdout and os.Stderr
	Stdout io.Writer
	Stderr io.Writer
}

// Result of compilation
type Result struct {
	Success bool
	Output  string
	// Context is the finished compilation, nil when setup failed
	Context *context_v2.CompilerContext
}

// Compile lexes, parses and lowers the entry module.
func Compile(opts *Options) Result {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	cfg, entry, err := setup(opts)
	if err != nil {
		return fail(opts, stderr, err)
	}
	if opts.LogFormat == ANSI {
		cfg.ApplyColor()
	}

	ctx, err := context_v2.New(cfg)
	if err != nil {
		return fail(opts, stderr, err)
	}

	if opts.Code != "" || opts.EntryFile == "" {
		_, err = ctx.AddSource(entry, opts.Code)
	} else {
		_, err = ctx.AddFile(entry)
	}
	if err != nil {
		return fail(opts, stderr, fmt.Errorf("failed to set entry point: %w", err))
	}

	// Run pipeline
	p := pipeline.New(ctx)
	p.SetTrace(stdout)
	runErr := p.Run()

	dump(ctx, stdout)
	if cfg.Debug {
		p.PrintSummary(stdout)
	}

	result := Result{Success: runErr == nil, Context: ctx}
	if opts.LogFormat == PLAIN {
		result.Output = colors.StripANSI(ctx.Diagnostics.EmitAllToString())
		return result
	}
	ctx.EmitDiagnostics(stderr)
	return result
}

// setup builds the configuration and names the entry module's path.
func setup(opts *Options) (*config.Config, string, error) {
	var cfg *config.Config
	entry := opts.EntryFile

	if entry != "" && opts.Code == "" {
		absPath, err := filepath.Abs(entry)
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve path: %w", err)
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return nil, "", fmt.Errorf("file not found: %s", entry)
		}
		if cfg, err = config.Discover(absPath); err != nil {
			return nil, "", err
		}
		entry = absPath
	} else {
		cfg = config.Default()
		cfg.ProjectRoot = VirtualRoot
		if entry == "" {
			entry = filepath.Join(VirtualRoot, "main"+cfg.Extension)
		}
	}

	cfg.Debug = cfg.Debug || opts.Debug
	cfg.DumpAST = cfg.DumpAST || opts.DumpAST
	cfg.DumpHIR = cfg.DumpHIR || opts.DumpHIR
	return cfg, entry, nil
}

func dump(ctx *context_v2.CompilerContext, w io.Writer) {
	for _, name := range ctx.GetModuleNames() {
		module, ok := ctx.GetModule(name)
		if !ok {
			continue
		}
		if ctx.Config.DumpAST && module.AST != nil {
			colors.BLUE.Fprintf(w, "── AST %s ──\n", name)
			fmt.Fprintln(w, module.AST.DumpRoot())
		}
		if ctx.Config.DumpHIR && module.HIR != 0 {
			colors.BLUE.Fprintf(w, "── HIR %s ──\n", name)
			fmt.Fprintln(w, ctx.HIR.DumpDef(module.HIR, ctx.Names))
		}
	}
}

func fail(opts *Options, stderr io.Writer, err error) Result {
	if opts.LogFormat == PLAIN {
		return Result{Output: err.Error()}
	}
	colors.RED.Fprintln(stderr, err)
	return Result{}
}
