package compiler

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func compileCode(t *testing.T, code string, opts Options) (Result, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	opts.Code = code
	opts.Stdout = &stdout
	if opts.Stderr == nil {
		opts.Stderr = &bytes.Buffer{}
	}
	return Compile(&opts), &stdout
}

func TestCompile_InMemorySimpleCode(t *testing.T) {
	result, _ := compileCode(t, "let x = 42; x", Options{})

	if !result.Success {
		t.Errorf("Expected successful compilation, got failure")
	}
	if result.Context == nil || result.Context.EntryModule != "main" {
		t.Errorf("Expected the entry module to be main")
	}
}

func TestCompile_InMemoryWithSyntaxError(t *testing.T) {
	var stderr bytes.Buffer
	result, _ := compileCode(t, "let x = ;", Options{Stderr: &stderr})

	if result.Success {
		t.Error("Expected compilation failure for syntax error")
	}
	if !strings.Contains(stderr.String(), "main.vx") {
		t.Errorf("Expected diagnostics on stderr, got %q", stderr.String())
	}
}

func TestCompile_PlainFormatWithError(t *testing.T) {
	result, _ := compileCode(t, "let x = y;", Options{LogFormat: PLAIN})

	if result.Success {
		t.Fatal("Expected compilation failure")
	}
	if !strings.Contains(result.Output, "error[E4002]") {
		t.Errorf("Expected an unresolved identifier error, got %q", result.Output)
	}
	if strings.Contains(result.Output, "\033[") {
		t.Error("Plain output must not contain escape sequences")
	}
}

func TestCompile_InMemoryMultipleStatements(t *testing.T) {
	result, _ := compileCode(t, `let x = 42;
let y = 100;
let z = x + y;
z`, Options{})

	if !result.Success {
		t.Errorf("Expected successful compilation of multiple statements")
	}
}

func TestCompile_FunctionDeclaration(t *testing.T) {
	result, _ := compileCode(t, `fn add(x: i32, y: i32) -> i32 {
	x + y
}
add(1, 2)`, Options{})

	if !result.Success {
		t.Error("Expected successful compilation of function declaration")
	}
}

func TestCompile_EmptyCode(t *testing.T) {
	result, _ := compileCode(t, " ", Options{})

	if !result.Success {
		t.Error("Expected successful compilation of empty code")
	}
}

func TestCompile_DumpAST(t *testing.T) {
	result, stdout := compileCode(t, "1 + 2", Options{DumpAST: true})

	if !result.Success {
		t.Fatal("Expected successful compilation")
	}
	out := stdout.String()
	if !strings.Contains(out, "AST main") {
		t.Errorf("Expected an AST header, got %q", out)
	}
	if strings.Contains(out, "HIR main") {
		t.Error("HIR was not asked for")
	}
}

func TestCompile_DumpHIR(t *testing.T) {
	result, stdout := compileCode(t, "1 + 2", Options{DumpHIR: true})

	if !result.Success {
		t.Fatal("Expected successful compilation")
	}
	if !strings.Contains(stdout.String(), "(Module main [] (Block [(+ (Int 1) (Int 2))]))") {
		t.Errorf("Unexpected HIR dump %q", stdout.String())
	}
}

func TestCompile_DebugMode(t *testing.T) {
	result, stdout := compileCode(t, "let x = 42; x", Options{Debug: true})

	if !result.Success {
		t.Errorf("Expected successful compilation in debug mode")
	}
	if !strings.Contains(stdout.String(), "COMPILATION SUMMARY") {
		t.Error("Expected a summary in debug mode")
	}
}

func TestCompile_FileMode_NonExistentFile(t *testing.T) {
	result := Compile(&Options{
		EntryFile: "/nonexistent/path/to/file.vx",
		LogFormat: PLAIN,
	})

	if result.Success {
		t.Error("Expected failure for non-existent file")
	}
	if !strings.Contains(result.Output, "file not found") {
		t.Errorf("Unexpected output %q", result.Output)
	}
}

func TestCompile_FileMode_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.vx")

	if err := os.WriteFile(testFile, []byte("let x = 42; x"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	result := Compile(&Options{EntryFile: testFile, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

	if !result.Success {
		t.Fatalf("Expected successful compilation of valid file")
	}
	if result.Context.EntryModule != "test" {
		t.Errorf("Expected entry module 'test', got %q", result.Context.EntryModule)
	}
}

func TestCompile_FileMode_ProjectFile(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatal(err)
	}
	project := "name = \"demo\"\ndump_hir = true\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "vex.toml"), []byte(project), 0644); err != nil {
		t.Fatal(err)
	}
	mainPath := filepath.Join(srcDir, "main.vx")
	if err := os.WriteFile(mainPath, []byte("1"), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	result := Compile(&Options{EntryFile: mainPath, Stdout: &stdout, Stderr: &bytes.Buffer{}})

	if !result.Success {
		t.Fatal("Expected successful compilation")
	}
	if result.Context.Config.ProjectName != "demo" {
		t.Errorf("Expected project 'demo', got %q", result.Context.Config.ProjectName)
	}
	if result.Context.EntryModule != "src/main" {
		t.Errorf("Expected entry module 'src/main', got %q", result.Context.EntryModule)
	}
	if !strings.Contains(stdout.String(), "(Module src/main [] (Block [(Int 1)]))") {
		t.Errorf("Expected the project file to turn on the HIR dump, got %q", stdout.String())
	}
}

func TestCompile_FileMode_BadProjectFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "vex.toml"), []byte("colour = false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	mainPath := filepath.Join(tmpDir, "main.vx")
	if err := os.WriteFile(mainPath, []byte("1"), 0644); err != nil {
		t.Fatal(err)
	}

	result := Compile(&Options{EntryFile: mainPath, LogFormat: PLAIN})

	if result.Success {
		t.Fatal("Expected an unknown key to fail")
	}
	if !strings.Contains(result.Output, "colour") {
		t.Errorf("Expected the unknown key to be named, got %q", result.Output)
	}
}

func TestCompile_FileMode_WithSyntaxError(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.vx")

	if err := os.WriteFile(testFile, []byte("let x = ;"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	result := Compile(&Options{EntryFile: testFile, LogFormat: PLAIN})

	if result.Success {
		t.Error("Expected compilation failure for syntax error in file")
	}
	if !strings.Contains(result.Output, "test.vx:1:") {
		t.Errorf("Expected a location in the output, got %q", result.Output)
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"1 + 2", false},
		{"fn f() {", true},
		{"let x = (1,", true},
		{"\"open", true},
		{"let x = ;", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Incomplete(tt.code); got != tt.want {
			t.Errorf("Incomplete(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
