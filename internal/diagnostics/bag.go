package diagnostics

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"vex/colors"
	"vex/internal/source"
	"vex/internal/utils/strings"
)

const (
	compileFailedMsg          = "\nCompilation failed with %d %s"
	andWarningMsg             = " and %d %s"
	compileSuccessWithWarning = "\nCompilation succeeded with %d %s\n"
)

// DiagnosticBag collects diagnostics during compilation
type DiagnosticBag struct {
	diagnostics []*Diagnostic
	mu          sync.Mutex
	errorCount  int
	warnCount   int
	maxErrors   int
	sourceCache *SourceCache
}

func NewDiagnosticBag() *DiagnosticBag {
	return &DiagnosticBag{
		diagnostics: make([]*Diagnostic, 0),
		sourceCache: NewSourceCache(),
	}
}

// SetMaxErrors caps how many errors are kept. Zero means unlimited.
func (db *DiagnosticBag) SetMaxErrors(n int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.maxErrors = n
}

// AddSource registers a file so its lines can be quoted when emitting.
func (db *DiagnosticBag) AddSource(file *source.File) {
	db.sourceCache.Add(file)
}

// Add adds a diagnostic to the bag
func (db *DiagnosticBag) Add(diag *Diagnostic) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if diag.Severity == Error && db.maxErrors > 0 && db.errorCount >= db.maxErrors {
		return
	}

	db.diagnostics = append(db.diagnostics, diag)

	switch diag.Severity {
	case Error:
		db.errorCount++
	case Warning:
		db.warnCount++
	}
}

// HasErrors returns true if there are any errors
func (db *DiagnosticBag) HasErrors() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount > 0
}

func (db *DiagnosticBag) ErrorCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount
}

func (db *DiagnosticBag) WarningCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.warnCount
}

// Diagnostics returns a copy of all diagnostics
func (db *DiagnosticBag) Diagnostics() []*Diagnostic {
	db.mu.Lock()
	defer db.mu.Unlock()
	result := make([]*Diagnostic, len(db.diagnostics))
	copy(result, db.diagnostics)
	return result
}

// EmitAll renders every diagnostic and the summary line to w.
func (db *DiagnosticBag) EmitAll(w io.Writer) {
	emitter := &Emitter{
		cache:  db.sourceCache,
		writer: w,
	}

	for _, diag := range db.Diagnostics() {
		emitter.Emit(diag)
	}

	db.printSummary(w)
}

// EmitAllToString is EmitAll into a string, colour codes included.
func (db *DiagnosticBag) EmitAllToString() string {
	var buf bytes.Buffer
	db.EmitAll(&buf)
	return buf.String()
}

func (db *DiagnosticBag) printSummary(w io.Writer) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.errorCount > 0 {
		colors.RED.Fprintf(w, compileFailedMsg, db.errorCount, strings.Pluralize("error", "errors", db.errorCount))
		if db.warnCount > 0 {
			colors.RED.Fprintf(w, andWarningMsg, db.warnCount, strings.Pluralize("warning", "warnings", db.warnCount))
		}
		fmt.Fprintln(w)
	} else if db.warnCount > 0 {
		colors.ORANGE.Fprintf(w, compileSuccessWithWarning, db.warnCount, strings.Pluralize("warning", "warnings", db.warnCount))
	}
}

