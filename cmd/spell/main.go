// Command spell is the CLI entry point for the SpellLang toolchain.
//
// Usage:
//
//	spell <file.spell>             Run a source file (§6's literal contract)
//	spell run    <file.spell>      Run a source file
//	spell tokens <file.spell>      Print the token stream
//	spell tokens <file.spell> --json
//	spell parse  <file.spell>      Print the AST as JSON
//	spell repl                     Start an interactive REPL
package main

import (
	"fmt"
	"os"

	"spelllang/internal/diag"
	"spelllang/internal/lexer"
	"spelllang/internal/parser"
	"spelllang/internal/runtime"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: spell <filename.spell>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		requireFileArg("run")
		cmdRun(readFile(os.Args[2]), os.Args[2])
	case "tokens":
		requireFileArg("tokens")
		cmdTokens(readFile(os.Args[2]), hasFlag("--json"))
	case "parse":
		requireFileArg("parse")
		cmdParse(readFile(os.Args[2]))
	case "repl":
		cmdRepl()
	default:
		// Bare invocation: spec.md §6's literal contract — a single
		// positional filename argument runs the file directly.
		cmdRun(readFile(os.Args[1]), os.Args[1])
	}
}

func requireFileArg(command string) {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "error: '%s' requires a file argument\n", command)
		os.Exit(1)
	}
}

func hasFlag(flag string) bool {
	for _, arg := range os.Args[3:] {
		if arg == flag {
			return true
		}
	}
	return false
}

func readFile(filename string) string {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot read file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return string(source)
}

// ---- run ----

func cmdRun(source, filename string) {
	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		printDiagsText(lexDiags)
		os.Exit(1)
	}

	p := parser.New(tokens)
	file, parseDiags := p.ParseFile()
	if len(parseDiags) > 0 {
		printDiagsText(parseDiags)
		os.Exit(1)
	}

	exitCode := 0
	func() {
		// A Go panic raised during evaluation is reported as a clean
		// "Runtime Error" message instead of a raw trace. A Go stack
		// overflow from deep recursion is a fatal runtime error, not a
		// panic: recover() does not catch it and the process ends with
		// Go's own trace.
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "Runtime Error: %v\n", r)
				exitCode = 1
			}
		}()
		interp := runtime.NewInterpreter(os.Stdout)
		if err := interp.Run(file); err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitCode = 1
		}
	}()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// ---- tokens ----

func cmdTokens(source string, jsonMode bool) {
	l := lexer.New(source, "<tokens>")
	tokens, diags := l.Tokenize()

	if jsonMode {
		printTokensJSON(tokens, diags)
	} else {
		printTokensText(tokens, diags)
	}

	if len(diags) > 0 {
		os.Exit(1)
	}
}

// ---- parse ----

func cmdParse(source string) {
	l := lexer.New(source, "<parse>")
	tokens, lexDiags := l.Tokenize()

	p := parser.New(tokens)
	file, parseDiags := p.ParseFile()

	allDiags := append(append([]diag.Diagnostic{}, lexDiags...), parseDiags...)
	printParseJSON(file, allDiags)

	if len(allDiags) > 0 {
		os.Exit(1)
	}
}
