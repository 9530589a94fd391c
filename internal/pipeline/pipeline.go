package pipeline

import (
	"fmt"
	"io"
	"os"
	"sync"

	"vex/colors"
	"vex/internal/context_v2"
	"vex/internal/utils/strings"
)

// Pipeline coordinates the compilation process
type Pipeline struct {
	ctx *context_v2.CompilerContext

	// seen ensures each module is scheduled exactly once
	seen sync.Map // map[string]struct{}

	// wg tracks all parsing tasks
	wg sync.WaitGroup

	// trace receives debug output
	trace io.Writer
}

// New creates a new compilation pipeline
func New(ctx *context_v2.CompilerContext) *Pipeline {
	return &Pipeline{
		ctx:   ctx,
		trace: os.Stdout,
	}
}

// SetTrace redirects debug output.
func (p *Pipeline) SetTrace(w io.Writer) { p.trace = w }

func (p *Pipeline) debugf(color colors.COLOR, format string, args ...any) {
	if p.ctx.Config.Debug {
		color.Fprintf(p.trace, format, args...)
	}
}

// Run lexes and parses every registered module in parallel, then lowers
// them one at a time in registration order. A module with parse errors is
// still lowered so that its remaining items are checked too.
func (p *Pipeline) Run() error {
	p.debugf(colors.CYAN, "\n[Phase 1] Lex + Parse\n")

	for _, importPath := range p.ctx.GetModuleNames() {
		p.processModule(importPath)
	}

	// Wait for all parsing tasks to complete
	p.wg.Wait()

	p.debugf(colors.CYAN, "\n[Phase 2] Lower to HIR\n")
	p.runLoweringPhase()

	if n := p.ctx.Diagnostics.ErrorCount(); n > 0 {
		return fmt.Errorf("compilation failed with %d %s", n, strings.Pluralize("error", "errors", n))
	}

	p.debugf(colors.GREEN, "\n✓ Compilation successful! (%d modules)\n", p.ctx.ModuleCount())
	return nil
}
