//go:build !js && !wasm

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"vex/colors"
	"vex/internal/compiler"
	"vex/internal/types"
)

const (
	historyFile = ".vex_history"
	promptMain  = "vex> "
	promptCont  = "...  "
)

const replHelp = `Enter an expression, a statement or an item to see its HIR.
Commands:
  :ast    toggle the parsed tree dump
  :types  list the primitive types
  :help   show this text
  :quit   leave (Ctrl+D works too)
`

func runREPL(showAST bool) int {
	colors.CYAN.Printf("Vex %s, :help for help\n", version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readByParseProbe(ln)
		if !ok {
			fmt.Println()
			break
		}
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(code, ":") {
			var done bool
			showAST, done = replCommand(code, showAST)
			if done {
				break
			}
			continue
		}

		compiler.Compile(&compiler.Options{
			Code:    code,
			DumpAST: showAST,
			DumpHIR: true,
		})
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// replCommand runs a ':' command. It returns the new AST toggle and whether
// the session should end.
func replCommand(line string, showAST bool) (bool, bool) {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ":quit", ":exit":
		return showAST, true
	case ":help":
		fmt.Print(replHelp)
	case ":ast":
		showAST = !showAST
		fmt.Printf("ast dump %s\n", map[bool]string{true: "on", false: "off"}[showAST])
	case ":types":
		for _, name := range types.Primitives {
			fmt.Printf("  %-6s %s\n", name, types.Describe(name))
		}
	default:
		colors.RED.Println("unknown command, :help lists them")
	}
	return showAST, false
}

// readByParseProbe reads lines until the buffer no longer stops in the
// middle of a construct. ok is false on end of input.
func readByParseProbe(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if src := b.String(); strings.HasPrefix(strings.TrimSpace(src), ":") || !compiler.Incomplete(src) {
			return src, true
		}
	}
}
