// Package runtime implements the interpreter and runtime value system for
// SpellLang.
package runtime

import (
	"fmt"
	"io"

	"spelllang/internal/ast"
	"spelllang/internal/diag"
	"spelllang/internal/span"
)

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and executes it against a chain of
// Environments (§4.3). It is strictly single-threaded; a single
// Interpreter value is not safe for concurrent use.
type Interpreter struct {
	global *Environment
	env    *Environment
	output io.Writer

	// instance is non-nil while executing the body of a class
	// constructor (§4.3): VarDecls executed in that body attach to
	// instance.Fields instead of defining a name in the current frame.
	instance *InstanceVal
}

// NewInterpreter creates an interpreter with the built-in spells (len,
// str, int) seeded in the global environment.
func NewInterpreter(output io.Writer) *Interpreter {
	global := NewEnvironment(nil)
	RegisterBuiltins(global)
	return &Interpreter{global: global, env: global, output: output}
}

// Env returns the current environment.
func (i *Interpreter) Env() *Environment { return i.env }

// Run executes every top-level statement in file, in order.
func (i *Interpreter) Run(file *ast.File) error {
	for _, stmt := range file.Body {
		if err := i.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// runtimeErr builds a positioned runtime diagnostic and returns it as an
// error (diag.Diagnostic implements error).
func runtimeErr(s span.Span, format string, args ...interface{}) error {
	return diag.Runtimef(s, format, args...)
}

// errorMessage extracts the plain message a Protego/Alohomora catch block
// binds to `error` (§4.3, §7): the diagnostic's message text, not the
// "Runtime Error at line L, column C: " prefix.
func errorMessage(err error) string {
	if d, ok := err.(diag.Diagnostic); ok {
		return d.Message
	}
	return err.Error()
}

// ============================================================
// Statement dispatch
// ============================================================

func (i *Interpreter) execStmt(stmt ast.Stmt) error {
	switch n := stmt.(type) {
	case *ast.VarDecl:
		return i.execVarDecl(n)
	case *ast.Assign:
		return i.execAssign(n)
	case *ast.FuncDecl:
		return i.execFuncDecl(n)
	case *ast.ClassDecl:
		return i.execClassDecl(n)
	case *ast.Print:
		return i.execPrint(n)
	case *ast.If:
		return i.execIf(n)
	case *ast.While:
		return i.execWhile(n)
	case *ast.For:
		return i.execFor(n)
	case *ast.TryCatch:
		return i.execTryCatch(n)
	case *ast.ExprStmt:
		_, err := i.evalExpr(n.Expr)
		return err
	default:
		return runtimeErr(stmt.GetSpan(), "unsupported statement node %T", stmt)
	}
}

// execBlock runs stmts with env as the current environment, restoring the
// previous environment before returning — the "fresh child frame per
// construct" discipline of §4.3.
func (i *Interpreter) execBlock(stmts []ast.Stmt, env *Environment) error {
	prev := i.env
	i.env = env
	defer func() { i.env = prev }()
	for _, stmt := range stmts {
		if err := i.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// execVarDecl implements Wand/Cauldron/SpellBooks (§4.3): evaluate Init,
// then define it in the current frame — or, while inside a class
// constructor body, attach it to the instance's fields instead (§4.3,
// invariant iii).
func (i *Interpreter) execVarDecl(n *ast.VarDecl) error {
	v, err := i.evalExpr(n.Init)
	if err != nil {
		return err
	}
	if i.instance != nil {
		i.instance.Fields[n.Name] = v
		return nil
	}
	i.env.Define(n.Name, v)
	return nil
}

// execAssign implements name = expr (§4.3): fails if name is unbound
// anywhere in the environment chain.
func (i *Interpreter) execAssign(n *ast.Assign) error {
	v, err := i.evalExpr(n.Expr)
	if err != nil {
		return err
	}
	if err := i.env.Assign(n.Name, v); err != nil {
		return runtimeErr(n.Span, "%s", err)
	}
	return nil
}

// execFuncDecl builds a closure capturing the current environment (§4.3,
// invariant ii) and defines it in the current frame.
func (i *Interpreter) execFuncDecl(n *ast.FuncDecl) error {
	fn := &FuncVal{Name: n.Name, Params: n.Params, Body: n.Body, Closure: i.env}
	i.env.Define(n.Name, fn)
	return nil
}

// execClassDecl builds a class value, resolving an optional Bloodline
// parent by name in the current environment (§4.3).
func (i *Interpreter) execClassDecl(n *ast.ClassDecl) error {
	class := &ClassVal{Decl: n, Env: i.env}
	if n.Parent != "" {
		v, ok := i.env.Lookup(n.Parent)
		if !ok {
			return runtimeErr(n.Span, "parent class '%s' is not defined", n.Parent)
		}
		parent, ok := v.(*ClassVal)
		if !ok {
			return runtimeErr(n.Span, "'%s' is not a class", n.Parent)
		}
		class.Parent = parent
	}
	i.env.Define(n.Name, class)
	return nil
}

// execPrint implements Illuminate(expr) (§4.3): render the value and write
// it followed by a newline.
func (i *Interpreter) execPrint(n *ast.Print) error {
	v, err := i.evalExpr(n.Expr)
	if err != nil {
		return err
	}
	fmt.Fprintln(i.output, renderValue(v))
	return nil
}

// execIf implements Ifar/Elsear (§4.3): whichever branch runs, it runs in
// a fresh child frame.
func (i *Interpreter) execIf(n *ast.If) error {
	cond, err := i.evalExpr(n.Cond)
	if err != nil {
		return err
	}
	if IsTruthy(cond) {
		return i.execBlock(n.Then, NewEnvironment(i.env))
	}
	if n.HasElse {
		return i.execBlock(n.Else, NewEnvironment(i.env))
	}
	return nil
}

// execWhile implements Persistus (§4.3): the condition is re-evaluated in
// the enclosing frame before every iteration; each iteration's body runs
// in its own fresh frame so loop-local bindings do not leak.
func (i *Interpreter) execWhile(n *ast.While) error {
	for {
		cond, err := i.evalExpr(n.Cond)
		if err != nil {
			return err
		}
		if !IsTruthy(cond) {
			return nil
		}
		if err := i.execBlock(n.Body, NewEnvironment(i.env)); err != nil {
			return err
		}
	}
}

// execFor implements Loopus (§4.3). Init and Step are full statements
// (§3's For node doc) evaluated in the enclosing frame so a counter
// declared by Init stays visible to Cond and Step, and survives the loop
// (§8 testable property "Scoping"). Init's assignment form is what
// *declares* the counter — unlike a plain Assign statement it defines
// rather than requires a prior binding, since the counter does not exist
// before the loop starts.
func (i *Interpreter) execFor(n *ast.For) error {
	if n.Init != nil {
		if err := i.execForClause(n.Init); err != nil {
			return err
		}
	}
	for {
		cond, err := i.evalExpr(n.Cond)
		if err != nil {
			return err
		}
		if !IsTruthy(cond) {
			return nil
		}
		if err := i.execBlock(n.Body, NewEnvironment(i.env)); err != nil {
			return err
		}
		if n.Step != nil {
			if err := i.execStmt(n.Step); err != nil {
				return err
			}
		}
	}
}

// execForClause runs Loopus's init clause. An *ast.Assign there defines
// the counter in the enclosing frame (see execFor's doc); any other
// statement form runs exactly as it would anywhere else.
func (i *Interpreter) execForClause(stmt ast.Stmt) error {
	assign, ok := stmt.(*ast.Assign)
	if !ok {
		return i.execStmt(stmt)
	}
	v, err := i.evalExpr(assign.Expr)
	if err != nil {
		return err
	}
	i.env.Define(assign.Name, v)
	return nil
}

// execTryCatch implements Protego/Alohomora (§4.3, §7): a RuntimeError
// raised in Try is caught, binding `error` to its message in a fresh
// frame before running Catch.
func (i *Interpreter) execTryCatch(n *ast.TryCatch) error {
	err := i.execBlock(n.Try, NewEnvironment(i.env))
	if err == nil {
		return nil
	}
	catchEnv := NewEnvironment(i.env)
	catchEnv.Define("error", StrVal(errorMessage(err)))
	return i.execBlock(n.Catch, catchEnv)
}

// ============================================================
// Expression dispatch
// ============================================================

func (i *Interpreter) evalExpr(expr ast.Expr) (Value, error) {
	switch n := expr.(type) {
	case *ast.IntLit:
		return IntVal(n.Value), nil
	case *ast.StrLit:
		return StrVal(n.Value), nil
	case *ast.ListLit:
		return i.evalListLit(n)
	case *ast.MapLit:
		return i.evalMapLit(n)
	case *ast.Ident:
		return i.evalIdent(n)
	case *ast.Call:
		return i.evalCall(n)
	case *ast.BinaryOp:
		return i.evalBinaryOp(n)
	case *ast.UnaryOp:
		return i.evalUnaryOp(n)
	default:
		return nil, runtimeErr(expr.GetSpan(), "unsupported expression node %T", expr)
	}
}

func (i *Interpreter) evalListLit(n *ast.ListLit) (Value, error) {
	elements := make([]Value, len(n.Elements))
	for idx, e := range n.Elements {
		v, err := i.evalExpr(e)
		if err != nil {
			return nil, err
		}
		elements[idx] = v
	}
	return &ListVal{Elements: elements}, nil
}

func (i *Interpreter) evalMapLit(n *ast.MapLit) (Value, error) {
	m := NewMapVal()
	for _, entry := range n.Entries {
		k, err := i.evalExpr(entry.Key)
		if err != nil {
			return nil, err
		}
		v, err := i.evalExpr(entry.Value)
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}
	return m, nil
}

func (i *Interpreter) evalIdent(n *ast.Ident) (Value, error) {
	v, ok := i.env.Lookup(n.Name)
	if !ok {
		return nil, runtimeErr(n.Span, "undefined variable '%s'", n.Name)
	}
	return v, nil
}

// evalCall implements §4.3's call dispatch: the callee is resolved by
// name, arguments are evaluated left-to-right, then dispatched by the
// callee's runtime type.
func (i *Interpreter) evalCall(n *ast.Call) (Value, error) {
	callee, ok := i.env.Lookup(n.Callee)
	if !ok {
		return nil, runtimeErr(n.Span, "undefined function '%s'", n.Callee)
	}

	args := make([]Value, len(n.Args))
	for idx, a := range n.Args {
		v, err := i.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	switch fn := callee.(type) {
	case *FuncVal:
		return i.callFunction(fn, args, n.Span)
	case *ClassVal:
		return i.instantiate(fn, args, n.Span)
	case *BuiltinVal:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, runtimeErr(n.Span, "%s() expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
		}
		v, err := fn.Fn(args)
		if err != nil {
			return nil, runtimeErr(n.Span, "%s", err)
		}
		return v, nil
	default:
		return nil, runtimeErr(n.Span, "'%s' is not callable", n.Callee)
	}
}

// callFunction executes a user-defined function's body in a fresh frame
// rooted at its closure (§4.3). There is no explicit return form (§1,
// §9 Open Question 1): a call always yields Nil; Illuminate inside the
// body is the only way to observe a computed value.
func (i *Interpreter) callFunction(fn *FuncVal, args []Value, callSite span.Span) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, runtimeErr(callSite, "function '%s' expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	frame := NewEnvironment(fn.Closure)
	for idx, param := range fn.Params {
		frame.Define(param, args[idx])
	}
	prevInstance := i.instance
	i.instance = nil
	defer func() { i.instance = prevInstance }()
	if err := i.execBlock(fn.Body, frame); err != nil {
		return nil, err
	}
	return NilVal{}, nil
}

// instantiate builds an InstanceVal and runs the class body against it
// (§4.3): VarDecls executed there become instance fields. A Bloodline
// parent's body runs first, against the same instance and a frame rooted
// at the parent's own closure, so a child's VarDecl overwrites a
// parent-declared field of the same name (§9 Open Question 2). Fields live
// on the instance, not in the constructor frame, so no body can read a
// field back by name, and SpellLang has no instance.field read syntax.
func (i *Interpreter) instantiate(class *ClassVal, args []Value, callSite span.Span) (Value, error) {
	if len(args) != len(class.Decl.Params) {
		return nil, runtimeErr(callSite, "class '%s' expects %d argument(s), got %d", class.Decl.Name, len(class.Decl.Params), len(args))
	}

	instance := &InstanceVal{Class: class, Fields: make(map[string]Value)}

	chain := classChain(class)
	for _, cls := range chain {
		if err := i.runConstructorBody(cls, instance, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// classChain returns the Bloodline ancestry from the root parent down to
// class itself.
func classChain(class *ClassVal) []*ClassVal {
	var chain []*ClassVal
	for c := class; c != nil; c = c.Parent {
		chain = append(chain, c)
	}
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	return chain
}

// runConstructorBody executes one class level's body against instance,
// binding as many of args positionally as the level declares params for.
func (i *Interpreter) runConstructorBody(cls *ClassVal, instance *InstanceVal, args []Value) error {
	frame := NewEnvironment(cls.Env)
	frame.Define("self", instance)
	for idx, param := range cls.Decl.Params {
		if idx < len(args) {
			frame.Define(param, args[idx])
		}
	}

	prevInstance := i.instance
	i.instance = instance
	defer func() { i.instance = prevInstance }()
	return i.execBlock(cls.Decl.Body, frame)
}

// ============================================================
// Operators
// ============================================================

func (i *Interpreter) evalUnaryOp(n *ast.UnaryOp) (Value, error) {
	v, err := i.evalExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "-":
		iv, ok := v.(IntVal)
		if !ok {
			return nil, runtimeErr(n.Span, "unary '-' requires a number, got %s", v.TypeName())
		}
		return -iv, nil
	case "!":
		return boolVal(!IsTruthy(v)), nil
	default:
		return nil, runtimeErr(n.Span, "unknown unary operator '%s'", n.Op)
	}
}

// boolVal renders a truth value as IntVal(1)/IntVal(0) — SpellLang's
// closed value set (§3) has no dedicated boolean variant, so comparisons
// and `!` produce the integer that is itself truthy/falsey exactly where
// the spec's truthiness table (§8) requires: !0 is truthy, !1 is falsey.
func boolVal(b bool) Value {
	if b {
		return IntVal(1)
	}
	return IntVal(0)
}

// evalBinaryOp implements §4.3's operator semantics: short-circuit &&/||,
// type-aware ==/!=, numeric/string/list +, numeric -*/%, and ordered
// comparisons.
func (i *Interpreter) evalBinaryOp(n *ast.BinaryOp) (Value, error) {
	switch n.Op {
	case "&&":
		left, err := i.evalExpr(n.Left)
		if err != nil {
			return nil, err
		}
		if !IsTruthy(left) {
			return boolVal(false), nil
		}
		right, err := i.evalExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return boolVal(IsTruthy(right)), nil
	case "||":
		left, err := i.evalExpr(n.Left)
		if err != nil {
			return nil, err
		}
		if IsTruthy(left) {
			return boolVal(true), nil
		}
		right, err := i.evalExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return boolVal(IsTruthy(right)), nil
	}

	left, err := i.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return boolVal(valuesEqual(left, right)), nil
	case "!=":
		return boolVal(!valuesEqual(left, right)), nil
	case "+":
		return evalAdd(left, right, n.Span)
	case "-", "*", "/", "%":
		return evalArith(n.Op, left, right, n.Span)
	case "<", ">", "<=", ">=":
		return evalCompare(n.Op, left, right, n.Span)
	default:
		return nil, runtimeErr(n.Span, "unknown operator '%s'", n.Op)
	}
}

// evalAdd implements §4.3's + overload: numeric addition, string
// concatenation, and list concatenation.
func evalAdd(left, right Value, s span.Span) (Value, error) {
	if l, ok := left.(IntVal); ok {
		if r, ok := right.(IntVal); ok {
			return l + r, nil
		}
	}
	if l, ok := left.(StrVal); ok {
		if r, ok := right.(StrVal); ok {
			return l + r, nil
		}
	}
	if l, ok := left.(*ListVal); ok {
		if r, ok := right.(*ListVal); ok {
			combined := make([]Value, 0, len(l.Elements)+len(r.Elements))
			combined = append(combined, l.Elements...)
			combined = append(combined, r.Elements...)
			return &ListVal{Elements: combined}, nil
		}
	}
	return nil, runtimeErr(s, "'+' not supported between %s and %s", left.TypeName(), right.TypeName())
}

func evalArith(op string, left, right Value, s span.Span) (Value, error) {
	l, lok := left.(IntVal)
	r, rok := right.(IntVal)
	if !lok || !rok {
		return nil, runtimeErr(s, "'%s' requires two numbers, got %s and %s", op, left.TypeName(), right.TypeName())
	}
	switch op {
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, runtimeErr(s, "division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, runtimeErr(s, "modulo by zero")
		}
		return l % r, nil
	default:
		return nil, runtimeErr(s, "unknown operator '%s'", op)
	}
}

func evalCompare(op string, left, right Value, s span.Span) (Value, error) {
	if l, ok := left.(IntVal); ok {
		if r, ok := right.(IntVal); ok {
			return boolVal(intCompare(op, int64(l), int64(r))), nil
		}
	}
	if l, ok := left.(StrVal); ok {
		if r, ok := right.(StrVal); ok {
			return boolVal(strCompare(op, string(l), string(r))), nil
		}
	}
	return nil, runtimeErr(s, "'%s' not supported between %s and %s", op, left.TypeName(), right.TypeName())
}

func intCompare(op string, l, r int64) bool {
	switch op {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	case ">=":
		return l >= r
	default:
		return false
	}
}

func strCompare(op string, l, r string) bool {
	switch op {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	case ">=":
		return l >= r
	default:
		return false
	}
}

// valuesEqual implements §4.3's type-aware equality: distinct dynamic
// types always compare unequal.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case IntVal:
		bv, ok := b.(IntVal)
		return ok && av == bv
	case StrVal:
		bv, ok := b.(StrVal)
		return ok && av == bv
	case NilVal:
		_, ok := b.(NilVal)
		return ok
	case *ListVal:
		bv, ok := b.(*ListVal)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for idx := range av.Elements {
			if !valuesEqual(av.Elements[idx], bv.Elements[idx]) {
				return false
			}
		}
		return true
	case *MapVal:
		bv, ok := b.(*MapVal)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.order {
			entry := av.entries[k]
			other, ok := bv.Get(entry.key)
			if !ok || !valuesEqual(entry.value, other) {
				return false
			}
		}
		return true
	default:
		// Functions, classes, instances, and builtins compare by
		// identity — SpellLang has no structural equality for them.
		return a == b
	}
}

// ============================================================
// Rendering (§4.3's Illuminate rendering table)
// ============================================================

func renderValue(v Value) string {
	return v.String()
}
