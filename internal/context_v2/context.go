// Package context_v2 provides the central compilation context for the Vex
// front end.
//
// Each module (source file) tracks its own phase and moves through lexing,
// parsing and lowering independently. Lexing and parsing touch only the
// module's own data and may run in parallel. Lowering writes to the shared
// HIR store, interner and scope forest, so the pipeline runs it one module
// at a time.
package context_v2

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"vex/internal/builtins"
	"vex/internal/config"
	"vex/internal/diagnostics"
	"vex/internal/frontend/ast"
	"vex/internal/hir"
	"vex/internal/phase"
	"vex/internal/semantics/symbols"
	"vex/internal/semantics/table"
	"vex/internal/source"
	"vex/internal/tokens"
	"vex/internal/utils/fs"
)

// Module is one source file and everything derived from it.
type Module struct {
	ImportPath string // logical name, e.g. "utils/math"
	FilePath   string
	File       *source.File

	Tokens []tokens.Token
	AST    *ast.Store
	HIR    hir.DefRef // the lowered ModuleDef, 0 until lowered

	Phase phase.ModulePhase

	// Mu protects field updates during parallel parsing
	Mu sync.Mutex
}

// CompilerContext is the central compilation state manager
type CompilerContext struct {
	// Module registry: import path -> Module
	Modules map[string]*Module
	mu      sync.RWMutex // protects Modules and order during parallel parse
	order   []string     // import paths in registration order

	EntryPoint  string // path of the first registered file
	EntryModule string // its import path

	// Shared by every module of the compilation. None of these is safe for
	// concurrent use.
	Names   *symbols.Interner
	HIR     *hir.Store
	Scopes  *table.SymbolTable
	Prelude *builtins.Prelude

	// Diagnostics: centralized error collection
	Diagnostics *diagnostics.DiagnosticBag

	Config *config.Config
}

// New creates a context and declares the prelude.
func New(cfg *config.Config) (*CompilerContext, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	names := symbols.NewInterner()
	store := hir.NewStore()
	scopes := table.NewSymbolTable(names)
	prelude, err := builtins.Register(store, names, scopes)
	if err != nil {
		return nil, err
	}

	bag := diagnostics.NewDiagnosticBag()
	bag.SetMaxErrors(cfg.MaxErrors)

	return &CompilerContext{
		Modules:     make(map[string]*Module),
		Names:       names,
		HIR:         store,
		Scopes:      scopes,
		Prelude:     prelude,
		Diagnostics: bag,
		Config:      cfg,
	}, nil
}

// AddFile registers a source file read from disk.
func (ctx *CompilerContext) AddFile(filePath string) (*Module, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", filePath, err)
	}
	if !fs.IsValidFile(absPath) {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	return ctx.AddSource(filePath, string(content))
}

// AddSource registers in-memory code under path. The path only names the
// module and labels diagnostics.
func (ctx *CompilerContext) AddSource(path, code string) (*Module, error) {
	importPath := ctx.FilePathToImportPath(path)
	if ctx.HasModule(importPath) {
		return nil, fmt.Errorf("module %q is already registered", importPath)
	}

	file := source.NewFile(filepath.ToSlash(path), code)
	ctx.Diagnostics.AddSource(file)

	module := &Module{
		FilePath: file.Path,
		File:     file,
		Phase:    phase.PhaseNotStarted,
	}
	ctx.AddModule(importPath, module)

	if ctx.EntryModule == "" {
		ctx.EntryPoint = file.Path
		ctx.EntryModule = importPath
	}
	return module, nil
}

// FilePathToImportPath converts a file path to a logical import path: the
// path relative to the project root, without the extension.
func (ctx *CompilerContext) FilePathToImportPath(filePath string) string {
	trimmed := strings.TrimSuffix(filepath.ToSlash(filePath), ctx.Config.Extension)
	if ctx.Config.ProjectRoot == "" {
		return fs.LastPart(filePath)
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fs.LastPart(filePath)
	}
	relPath, err := filepath.Rel(ctx.Config.ProjectRoot, absPath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return fs.LastPart(trimmed)
	}
	return strings.TrimSuffix(filepath.ToSlash(relPath), ctx.Config.Extension)
}

// AddModule registers a module in the context. An existing module under the
// same path is kept.
func (ctx *CompilerContext) AddModule(importPath string, module *Module) {
	if module == nil {
		panic(fmt.Sprintf("cannot add nil module for %q", importPath))
	}

	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if _, exists := ctx.Modules[importPath]; exists {
		return
	}

	module.ImportPath = importPath
	ctx.Modules[importPath] = module
	ctx.order = append(ctx.order, importPath)
}

// GetModule retrieves a module by import path
func (ctx *CompilerContext) GetModule(importPath string) (*Module, bool) {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	module, exists := ctx.Modules[importPath]
	return module, exists
}

// HasModule checks if a module exists in the context
func (ctx *CompilerContext) HasModule(importPath string) bool {
	_, exists := ctx.GetModule(importPath)
	return exists
}

// GetModulePhase returns the current phase of a module
func (ctx *CompilerContext) GetModulePhase(importPath string) phase.ModulePhase {
	module, exists := ctx.GetModule(importPath)
	if !exists {
		return phase.PhaseNotStarted
	}
	module.Mu.Lock()
	defer module.Mu.Unlock()
	return module.Phase
}

// SetModulePhase updates the phase of a module
func (ctx *CompilerContext) SetModulePhase(importPath string, p phase.ModulePhase) {
	if module, exists := ctx.GetModule(importPath); exists {
		module.Mu.Lock()
		module.Phase = p
		module.Mu.Unlock()
	}
}

// AdvanceModulePhase moves a module to targetPhase. It returns false when
// the module is not in the phase's prerequisite.
func (ctx *CompilerContext) AdvanceModulePhase(importPath string, targetPhase phase.ModulePhase) bool {
	if !ctx.CanProcessPhase(importPath, targetPhase) {
		return false
	}
	ctx.SetModulePhase(importPath, targetPhase)
	return true
}

// CanProcessPhase checks if a module is ready for a specific phase
func (ctx *CompilerContext) CanProcessPhase(importPath string, requiredPhase phase.ModulePhase) bool {
	if !ctx.HasModule(importPath) {
		return false
	}
	prerequisite, exists := phase.PhasePrerequisites[requiredPhase]
	if !exists {
		return false
	}
	return ctx.GetModulePhase(importPath) == prerequisite
}

// HasErrors returns true if any errors have been reported
func (ctx *CompilerContext) HasErrors() bool {
	return ctx.Diagnostics.HasErrors()
}

// ReportError adds an error diagnostic without a source label
func (ctx *CompilerContext) ReportError(message string) {
	ctx.Diagnostics.Add(diagnostics.NewError(message))
}

// EmitDiagnostics writes every collected diagnostic to w
func (ctx *CompilerContext) EmitDiagnostics(w io.Writer) {
	ctx.Diagnostics.EmitAll(w)
}

// ModuleCount returns the number of modules in the context
func (ctx *CompilerContext) ModuleCount() int {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return len(ctx.Modules)
}

// GetModuleNames returns all import paths in registration order
func (ctx *CompilerContext) GetModuleNames() []string {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	out := make([]string, len(ctx.order))
	copy(out, ctx.order)
	return out
}
