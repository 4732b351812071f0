package main

import (
	"encoding/json"
	"fmt"
	"os"

	"spelllang/internal/ast"
	"spelllang/internal/diag"
	"spelllang/internal/token"
)

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "error: JSON encoding failed: %v\n", err)
		os.Exit(1)
	}
}

// printDiagsText prints diagnostics using the exact wording spec.md §7
// requires: "<Kind> Error at line L, column C: <message>".
func printDiagsText(diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.Error())
	}
}

func diagsToSlice(diags []diag.Diagnostic) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		entry := map[string]interface{}{
			"kind":    d.Kind.String(),
			"message": d.Message,
		}
		if d.HasPos {
			entry["line"] = d.Span.Start.Line
			entry["column"] = d.Span.Start.Column
		}
		result[i] = entry
	}
	return result
}

// ---- token output ----

func printTokensText(tokens []token.Token, diags []diag.Diagnostic) {
	for _, tok := range tokens {
		fmt.Printf("%-14s %-20q %s\n", tok.Kind, tok.Lexeme, tok.Span.Start)
	}
	printDiagsText(diags)
}

func printTokensJSON(tokens []token.Token, diags []diag.Diagnostic) {
	type tokenJSON struct {
		Kind   string `json:"kind"`
		Lexeme string `json:"lexeme"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
		Offset int    `json:"offset"`
	}

	toks := make([]tokenJSON, len(tokens))
	for i, tok := range tokens {
		toks[i] = tokenJSON{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Span.Start.Line,
			Column: tok.Span.Start.Column,
			Offset: tok.Span.Start.Offset,
		}
	}

	printJSON(map[string]interface{}{
		"tokens":      toks,
		"diagnostics": diagsToSlice(diags),
	})
}

// ---- parse output ----

func printParseJSON(file *ast.File, diags []diag.Diagnostic) {
	printJSON(map[string]interface{}{
		"ast":         ast.NodeToMap(file),
		"diagnostics": diagsToSlice(diags),
	})
}
