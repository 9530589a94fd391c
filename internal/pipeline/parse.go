package pipeline

import (
	"fmt"

	"vex/colors"
	"vex/internal/frontend/lexer"
	"vex/internal/frontend/parser"
	"vex/internal/phase"
)

// processModule schedules parsing for a module exactly once (thread-safe)
func (p *Pipeline) processModule(importPath string) {
	if _, loaded := p.seen.LoadOrStore(importPath, struct{}{}); loaded {
		return
	}

	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		p.parseModule(importPath)
	}()
}

// parseModule lexes and parses one module. Parse errors become diagnostics;
// the partial tree is kept.
func (p *Pipeline) parseModule(importPath string) {
	module, exists := p.ctx.GetModule(importPath)
	if !exists || module.File == nil {
		p.ctx.ReportError(fmt.Sprintf("module %s has no source", importPath))
		return
	}

	toks := lexer.Tokenize(module.File, p.ctx.Diagnostics)

	module.Mu.Lock()
	module.Tokens = toks
	module.Mu.Unlock()

	if !p.ctx.AdvanceModulePhase(importPath, phase.PhaseLexed) {
		p.ctx.ReportError(fmt.Sprintf("cannot advance module %s to PhaseLexed", importPath))
		return
	}

	tree, errs := parser.Parse(module.File, toks)
	for _, err := range errs {
		p.ctx.Diagnostics.Add(err.Diagnostic(module.File))
	}

	module.Mu.Lock()
	module.AST = tree
	module.Mu.Unlock()

	if !p.ctx.AdvanceModulePhase(importPath, phase.PhaseParsed) {
		p.ctx.ReportError(fmt.Sprintf("cannot advance module %s to PhaseParsed", importPath))
		return
	}

	if len(errs) > 0 {
		p.debugf(colors.RED, "  ✗ %s (%d tokens, %d parse errors)\n", importPath, len(toks), len(errs))
		return
	}
	p.debugf(colors.PURPLE, "  ✓ %s (%d tokens, %d nodes)\n", importPath, len(toks), tree.Len())
}
