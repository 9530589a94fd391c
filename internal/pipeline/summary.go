package pipeline

import (
	"fmt"
	"io"

	"vex/colors"
)

// PrintSummary prints a summary of the compilation
func (p *Pipeline) PrintSummary(w io.Writer) {
	fmt.Fprintln(w)
	colors.CYAN.Fprintln(w, "═══════════════════════════════════════")
	colors.CYAN.Fprintln(w, "        COMPILATION SUMMARY")
	colors.CYAN.Fprintln(w, "═══════════════════════════════════════")

	fmt.Fprintf(w, "Entry Module: %s\n", p.ctx.EntryModule)
	fmt.Fprintf(w, "Total Modules: %d\n", p.ctx.ModuleCount())
	fmt.Fprintf(w, "Occurrences: %d\n\n", p.ctx.HIR.Mappings())

	for _, name := range p.ctx.GetModuleNames() {
		module, exists := p.ctx.GetModule(name)
		if !exists {
			continue
		}
		nodes := 0
		if module.AST != nil {
			nodes = module.AST.Len()
		}
		fmt.Fprintf(w, " - %s (%s, %d tokens, %d nodes)\n", name, p.ctx.GetModulePhase(name), len(module.Tokens), nodes)
	}
}
