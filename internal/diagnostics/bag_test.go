package diagnostics

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"vex/colors"
	"vex/internal/source"
)

func TestDiagnosticBagCounts(t *testing.T) {
	bag := NewDiagnosticBag()
	assert.False(t, bag.HasErrors())

	bag.Add(NewError("error 1"))
	bag.Add(NewWarning("warning 1"))
	bag.Add(NewError("error 2"))

	assert.True(t, bag.HasErrors())
	assert.Equal(t, 2, bag.ErrorCount())
	assert.Equal(t, 1, bag.WarningCount())
	assert.Len(t, bag.Diagnostics(), 3)
}

func TestDiagnosticBagMaxErrors(t *testing.T) {
	bag := NewDiagnosticBag()
	bag.SetMaxErrors(2)
	for i := 0; i < 5; i++ {
		bag.Add(NewError("boom"))
	}
	bag.Add(NewWarning("still kept"))

	assert.Equal(t, 2, bag.ErrorCount())
	assert.Equal(t, 1, bag.WarningCount())
}

func TestDiagnosticBagConcurrentAdd(t *testing.T) {
	bag := NewDiagnosticBag()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bag.Add(NewError("concurrent"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, bag.ErrorCount())
}

func TestEmitAllQuotesSource(t *testing.T) {
	colors.SetEnabled(false)
	defer colors.SetEnabled(false)

	file := source.NewFile("main.vx", "let a = 1;\nlet b = zz;\n")
	bag := NewDiagnosticBag()
	bag.AddSource(file)
	bag.Add(NewError("unresolved identifier `zz`").
		WithCode(ErrUnresolvedIdentifier).
		WithPrimaryLabel(file.Path, file.Location(source.Span{From: 19, To: 21}), "not found in this scope").
		WithHelp("declare it with let"))

	out := bag.EmitAllToString()

	assert.Contains(t, out, "error[E4002]: unresolved identifier `zz`")
	assert.Contains(t, out, "--> main.vx:2:9")
	assert.Contains(t, out, "1 | let a = 1;")
	assert.Contains(t, out, "2 | let b = zz;")
	assert.Contains(t, out, "~~ not found in this scope")
	assert.Contains(t, out, "= help: declare it with let")
	assert.Contains(t, out, "Compilation failed with 1 error")
}

func TestEmitterWithoutSource(t *testing.T) {
	colors.SetEnabled(false)

	var sb bytes.Buffer
	emitter := NewEmitter(&sb, nil)
	file := source.NewFile("ghost.vx", "x")
	emitter.Emit(NewError("lost").WithPrimaryLabel("ghost.vx", file.Location(source.Span{From: 0, To: 1}), ""))

	assert.Contains(t, sb.String(), "error: lost")
	assert.Contains(t, sb.String(), "--> ghost.vx:1:1")
}
