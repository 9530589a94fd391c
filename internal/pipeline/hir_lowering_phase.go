package pipeline

import (
	"fmt"

	"vex/colors"
	"vex/internal/hirlower"
	"vex/internal/phase"
)

// runLoweringPhase lowers each parsed module under the prelude. Lowering
// shares the HIR store and scope forest, so modules go one at a time.
func (p *Pipeline) runLoweringPhase() {
	for _, importPath := range p.ctx.GetModuleNames() {
		module, exists := p.ctx.GetModule(importPath)
		if !exists || p.ctx.GetModulePhase(importPath) != phase.PhaseParsed {
			continue
		}

		l := hirlower.New(module.AST, p.ctx.HIR, p.ctx.Names, p.ctx.Scopes)
		ref, errs := l.LowerFile(importPath, p.ctx.Prelude.Scope)
		for _, err := range errs {
			p.ctx.Diagnostics.Add(err.Diagnostic(module.File))
		}

		module.Mu.Lock()
		module.HIR = ref
		module.Mu.Unlock()

		if !p.ctx.AdvanceModulePhase(importPath, phase.PhaseLowered) {
			p.ctx.ReportError(fmt.Sprintf("cannot advance module %s to PhaseLowered", importPath))
			continue
		}

		if len(errs) > 0 {
			p.debugf(colors.RED, "  ✗ %s (%d errors)\n", importPath, len(errs))
			continue
		}
		p.debugf(colors.PURPLE, "  ✓ %s\n", importPath)
	}
}
