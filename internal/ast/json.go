package ast

import "spelllang/internal/span"

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return m("File", n.Span, "body", stmtSlice(n.Body))

	// ---- Expressions ----
	case *Ident:
		return m("Ident", n.Span, "name", n.Name)
	case *IntLit:
		return m("IntLit", n.Span, "value", n.Value)
	case *StrLit:
		return m("StrLit", n.Span, "value", n.Value)
	case *ListLit:
		return m("ListLit", n.Span, "elements", exprSlice(n.Elements))
	case *MapLit:
		entries := make([]interface{}, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = map[string]interface{}{
				"key":   NodeToMap(e.Key),
				"value": NodeToMap(e.Value),
			}
		}
		return m("MapLit", n.Span, "entries", entries)
	case *Call:
		return m("Call", n.Span, "callee", n.Callee, "args", exprSlice(n.Args))
	case *BinaryOp:
		return m("BinaryOp", n.Span, "op", n.Op, "left", NodeToMap(n.Left), "right", NodeToMap(n.Right))
	case *UnaryOp:
		return m("UnaryOp", n.Span, "op", n.Op, "operand", NodeToMap(n.Operand))

	// ---- Statements ----
	case *VarDecl:
		result := m("VarDecl", n.Span, "declKind", n.Kind.String(), "name", n.Name)
		if n.Init != nil {
			result["init"] = NodeToMap(n.Init)
		}
		return result
	case *Assign:
		return m("Assign", n.Span, "name", n.Name, "expr", NodeToMap(n.Expr))
	case *FuncDecl:
		return m("FuncDecl", n.Span, "name", n.Name, "params", n.Params, "body", stmtSlice(n.Body))
	case *ClassDecl:
		result := m("ClassDecl", n.Span, "name", n.Name, "params", n.Params, "body", stmtSlice(n.Body))
		if n.Parent != "" {
			result["parent"] = n.Parent
		}
		return result
	case *Print:
		return m("Print", n.Span, "expr", NodeToMap(n.Expr))
	case *If:
		result := m("If", n.Span, "cond", NodeToMap(n.Cond), "then", stmtSlice(n.Then))
		if n.HasElse {
			result["else"] = stmtSlice(n.Else)
		}
		return result
	case *While:
		return m("While", n.Span, "cond", NodeToMap(n.Cond), "body", stmtSlice(n.Body))
	case *For:
		result := m("For", n.Span, "cond", NodeToMap(n.Cond), "body", stmtSlice(n.Body))
		if n.Init != nil {
			result["init"] = NodeToMap(n.Init)
		}
		if n.Step != nil {
			result["step"] = NodeToMap(n.Step)
		}
		return result
	case *TryCatch:
		return m("TryCatch", n.Span, "try", stmtSlice(n.Try), "catch", stmtSlice(n.Catch))
	case *ExprStmt:
		return m("ExprStmt", n.Span, "expr", NodeToMap(n.Expr))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{
			"offset": s.Start.Offset,
			"line":   s.Start.Line,
			"column": s.Start.Column,
		},
		"end": map[string]interface{}{
			"offset": s.End.Offset,
			"line":   s.End.Line,
			"column": s.End.Column,
		},
	}
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}
