package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vex/colors"
	"vex/internal/config"
	"vex/internal/context_v2"
	"vex/internal/hir"
	"vex/internal/phase"
)

func newContext(t *testing.T, sources map[string]string, order ...string) *context_v2.CompilerContext {
	t.Helper()
	cfg := config.Default()
	cfg.ProjectRoot = "/virtual"
	ctx, err := context_v2.New(cfg)
	require.NoError(t, err)
	for _, name := range order {
		_, err := ctx.AddSource("/virtual/"+name+".vx", sources[name])
		require.NoError(t, err)
	}
	return ctx
}

func TestPipelineBasic(t *testing.T) {
	ctx := newContext(t, map[string]string{"main": "let x = 42; x"}, "main")

	require.NoError(t, New(ctx).Run())

	assert.Equal(t, 1, ctx.ModuleCount())
	assert.Equal(t, phase.PhaseLowered, ctx.GetModulePhase("main"))

	module, _ := ctx.GetModule("main")
	assert.NotZero(t, module.HIR)
	assert.NotEmpty(t, module.Tokens)
	x := bindID(t, ctx, "x")
	assert.Equal(t,
		fmt.Sprintf("(Module main [] (Block [(Let (Bind x #%d) _ (Int 42) (Block [(Ref #%d)]))]))", x, x),
		ctx.HIR.DumpDef(module.HIR, ctx.Names))
}

// bindID finds the local occurrence called name.
func bindID(t *testing.T, ctx *context_v2.CompilerContext, name string) uint32 {
	t.Helper()
	for id := hir.ID(1); int(id) <= ctx.HIR.Mappings(); id++ {
		m, _ := ctx.HIR.Mapping(id)
		if m.Kind == hir.MappingLocal && ctx.Names.Name(m.Name) == name {
			return uint32(id)
		}
	}
	t.Fatalf("no local %s", name)
	return 0
}

func TestPreludeIsVisible(t *testing.T) {
	ctx := newContext(t, map[string]string{"main": `fn f(x: int) -> str { println(x); "" }`}, "main")

	require.NoError(t, New(ctx).Run())
	assert.False(t, ctx.HasErrors())
}

func TestParseErrorsDoNotStopLowering(t *testing.T) {
	ctx := newContext(t, map[string]string{"main": "let = 1;\nlet y = nope;\n"}, "main")

	err := New(ctx).Run()
	require.Error(t, err)
	assert.Equal(t, "compilation failed with 2 errors", err.Error())

	codes := make([]string, 0, 2)
	for _, d := range ctx.Diagnostics.Diagnostics() {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []string{"P0003", "E4002"}, codes)
	assert.Equal(t, phase.PhaseLowered, ctx.GetModulePhase("main"))
}

func TestEveryModuleIsLowered(t *testing.T) {
	sources := map[string]string{
		"a": "fn a() { 1 }",
		"b": "fn b() { a() }", // modules do not see each other
		"c": "let c = 3;",
	}
	ctx := newContext(t, sources, "a", "b", "c")

	err := New(ctx).Run()
	require.Error(t, err)

	for _, name := range []string{"a", "b", "c"} {
		assert.Equal(t, phase.PhaseLowered, ctx.GetModulePhase(name), name)
	}
	diags := ctx.Diagnostics.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "unresolved identifier `a`", diags[0].Message)
	assert.Equal(t, "/virtual/b.vx", diags[0].FilePath)
}

func TestModulesAreParsedOnce(t *testing.T) {
	ctx := newContext(t, map[string]string{"main": "1"}, "main")
	p := New(ctx)

	p.processModule("main")
	p.processModule("main")
	p.wg.Wait()

	assert.Equal(t, phase.PhaseParsed, ctx.GetModulePhase("main"))
	assert.False(t, ctx.HasErrors())
}

func TestDebugTrace(t *testing.T) {
	colors.SetEnabled(false)

	ctx := newContext(t, map[string]string{"main": "1 + 2"}, "main")
	ctx.Config.Debug = true

	var trace bytes.Buffer
	p := New(ctx)
	p.SetTrace(&trace)
	require.NoError(t, p.Run())

	out := trace.String()
	assert.Contains(t, out, "[Phase 1] Lex + Parse")
	assert.Contains(t, out, "✓ main (5 tokens, ")
	assert.Contains(t, out, "[Phase 2] Lower to HIR")
	assert.Contains(t, out, "Compilation successful! (1 modules)")
}

func TestQuietWithoutDebug(t *testing.T) {
	ctx := newContext(t, map[string]string{"main": "1"}, "main")

	var trace bytes.Buffer
	p := New(ctx)
	p.SetTrace(&trace)
	require.NoError(t, p.Run())
	assert.Empty(t, trace.String())
}

func TestSummary(t *testing.T) {
	colors.SetEnabled(false)

	ctx := newContext(t, map[string]string{"main": "1"}, "main")
	p := New(ctx)
	require.NoError(t, p.Run())

	var out bytes.Buffer
	p.PrintSummary(&out)
	assert.Contains(t, out.String(), "Entry Module: main")
	assert.Contains(t, out.String(), " - main (Lowered, 3 tokens, ")
}

func TestPipelineFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.vx")
	require.NoError(t, os.WriteFile(path, []byte("fn main() { 0 }"), 0o644))

	cfg := config.Default()
	cfg.ProjectRoot = dir
	ctx, err := context_v2.New(cfg)
	require.NoError(t, err)
	_, err = ctx.AddFile(path)
	require.NoError(t, err)

	require.NoError(t, New(ctx).Run())
	assert.Equal(t, phase.PhaseLowered, ctx.GetModulePhase("prog"))
}
