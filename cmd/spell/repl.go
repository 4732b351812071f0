package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"spelllang/internal/diag"
	"spelllang/internal/lexer"
	"spelllang/internal/parser"
	"spelllang/internal/runtime"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

var (
	promptColor = color.New(color.FgGreen)
	bannerColor = color.New(color.FgCyan, color.Bold)
	hintColor   = color.New(color.FgHiBlack)
	errorColor  = color.New(color.FgRed)
)

// cmdRepl starts an interactive SpellLang session with line editing and
// history (§8's ambient REPL tooling, grounded on the teacher's
// chzyer/readline-backed REPL, colorized with fatih/color the way
// akashmaji946-go-mix's repl package does).
func cmdRepl() {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".spell_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptColor.Sprint("spell> "),
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	bannerColor.Fprintln(rl.Stdout(), "SpellLang REPL")
	hintColor.Fprintln(rl.Stdout(), "(type 'exit' or Ctrl+D to quit)")
	fmt.Fprintln(rl.Stdout())

	interp := runtime.NewInterpreter(rl.Stdout())
	var accumulated strings.Builder
	braceDepth := 0

	for {
		if braceDepth > 0 {
			rl.SetPrompt(hintColor.Sprint("...    "))
		} else {
			rl.SetPrompt(promptColor.Sprint("spell> "))
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if braceDepth > 0 {
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				hintColor.Fprintln(rl.Stdout(), "(use 'exit' or Ctrl+D to quit)")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if braceDepth == 0 && strings.TrimSpace(line) == "exit" {
			break
		}

		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")

		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()

		if strings.TrimSpace(source) == "" {
			continue
		}

		l := lexer.New(source, "<repl>")
		tokens, lexDiags := l.Tokenize()
		if len(lexDiags) > 0 {
			printDiagsColored(rl.Stderr(), lexDiags)
			continue
		}

		p := parser.New(tokens)
		file, parseDiags := p.ParseFile()
		if len(parseDiags) > 0 {
			printDiagsColored(rl.Stderr(), parseDiags)
			continue
		}

		if err := interp.Run(file); err != nil {
			errorColor.Fprintf(rl.Stderr(), "%s\n", err)
		}
	}
}

func printDiagsColored(w io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		errorColor.Fprintln(w, d.Error())
	}
}
