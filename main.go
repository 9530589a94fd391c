//go:build !js && !wasm

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"vex/internal/compiler"
	"vex/internal/hir"
)

const version = "0.1.0"

func main() {
	// Define flags
	debug := flag.Bool("d", false, "Enable debug output")
	showVersion := flag.Bool("v", false, "Show version")
	dumpAST := flag.Bool("ast", false, "Print the parsed tree of every module")
	dumpHIR := flag.Bool("hir", false, "Print the lowered HIR of every module")
	flag.BoolVar(debug, "debug", false, "Enable debug output")
	flag.BoolVar(showVersion, "version", false, "Show version")

	flag.Usage = usage
	flag.Parse()

	// Handle version
	if *showVersion {
		fmt.Printf("Vex compiler version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	if args[0] == "repl" {
		os.Exit(runREPL(*dumpAST))
	}

	// Compile
	result := compiler.Compile(&compiler.Options{
		EntryFile: args[0],
		Debug:     *debug,
		DumpAST:   *dumpAST,
		DumpHIR:   *dumpHIR,
		LogFormat: compiler.ANSI,
	})

	if *debug && result.Context != nil {
		dumpMappings(result.Context.HIR)
	}

	// Exit code
	if !result.Success {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: vex [options] <file>")
	fmt.Fprintln(os.Stderr, "       vex [options] repl")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
}

// dumpMappings prints the occurrence table, one entry per HirId.
func dumpMappings(store *hir.Store) {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
	fmt.Printf("\nOccurrences (%d)\n", store.Mappings())
	for id := hir.ID(1); int(id) <= store.Mappings(); id++ {
		m, ok := store.Mapping(id)
		if !ok {
			continue
		}
		fmt.Printf("#%d %s", id, cfg.Sdump(m))
	}
}
