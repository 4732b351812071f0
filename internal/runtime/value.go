// Package runtime implements the interpreter and runtime value system for
// SpellLang.
package runtime

import (
	"fmt"
	"strings"

	"spelllang/internal/ast"
)

// Value is the interface for all runtime values (§3's tagged union).
type Value interface {
	TypeName() string
	String() string
}

// ---- Primitive values ----

// IntVal represents an integer value.
type IntVal int64

func (v IntVal) TypeName() string { return "int" }
func (v IntVal) String() string   { return fmt.Sprintf("%d", int64(v)) }

// StrVal represents a string value.
type StrVal string

func (v StrVal) TypeName() string { return "string" }
func (v StrVal) String() string   { return string(v) }

// NilVal represents the absence of a value.
type NilVal struct{}

func (v NilVal) TypeName() string { return "nil" }
func (v NilVal) String() string   { return "nil" }

// ---- Collections ----

// ListVal represents an ordered sequence of values (Cauldron).
type ListVal struct {
	Elements []Value
}

func (v *ListVal) TypeName() string { return "list" }
func (v *ListVal) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// mapEntry is one key/value pair in a MapVal, keyed by the value's
// canonical form so that e.g. Int(1) and Str("1") never collide.
type mapEntry struct {
	key   Value
	value Value
}

// MapVal represents an unordered mapping with value-typed keys and
// type-aware equality (SpellBooks). Insertion order is preserved for
// deterministic printing, even though §3 calls the mapping "unordered".
type MapVal struct {
	order   []string
	entries map[string]mapEntry
}

// NewMapVal creates an empty map value.
func NewMapVal() *MapVal {
	return &MapVal{entries: make(map[string]mapEntry)}
}

func (v *MapVal) TypeName() string { return "map" }

func (v *MapVal) String() string {
	parts := make([]string, 0, len(v.order))
	for _, k := range v.order {
		e := v.entries[k]
		parts = append(parts, fmt.Sprintf("%s: %s", e.key.String(), e.value.String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Set stores value under key, overwriting any existing entry with an
// equal key.
func (v *MapVal) Set(key, value Value) {
	canon := canonicalKey(key)
	if _, exists := v.entries[canon]; !exists {
		v.order = append(v.order, canon)
	}
	v.entries[canon] = mapEntry{key: key, value: value}
}

// Get looks up key, returning (value, true) if present.
func (v *MapVal) Get(key Value) (Value, bool) {
	e, ok := v.entries[canonicalKey(key)]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Len returns the number of entries.
func (v *MapVal) Len() int { return len(v.order) }

// canonicalKey produces a type-tagged string encoding so that distinct
// value types never compare equal as map keys, matching "==/!= work across
// any types with type-aware equality" (§3/§4.3) applied to key lookup.
func canonicalKey(v Value) string {
	switch k := v.(type) {
	case IntVal:
		return "int:" + k.String()
	case StrVal:
		return "str:" + string(k)
	case NilVal:
		return "nil:"
	default:
		return v.TypeName() + ":" + v.String()
	}
}

// ---- Callable values ----

// FuncVal represents a user-defined function (closure).
type FuncVal struct {
	Name    string
	Params  []string
	Body    []ast.Stmt
	Closure *Environment
}

func (v *FuncVal) TypeName() string { return "function" }
func (v *FuncVal) String() string   { return fmt.Sprintf("<function %s>", v.Name) }

// BuiltinFn is the Go signature for built-in functions.
type BuiltinFn func(args []Value) (Value, error)

// BuiltinVal represents a built-in (native) function (§4.3: len/str/int).
type BuiltinVal struct {
	Name  string
	Arity int // -1 means variadic/unchecked
	Fn    BuiltinFn
}

func (v *BuiltinVal) TypeName() string { return "builtin" }
func (v *BuiltinVal) String() string   { return fmt.Sprintf("<builtin %s>", v.Name) }

// ---- Class / instance values ----

// ClassVal represents a class definition stored in the environment.
type ClassVal struct {
	Decl   *ast.ClassDecl
	Env    *Environment // environment where the class was declared
	Parent *ClassVal    // Bloodline parent, may be nil
}

func (v *ClassVal) TypeName() string { return "class" }
func (v *ClassVal) String() string   { return fmt.Sprintf("<class %s>", v.Decl.Name) }

// InstanceVal represents an instance of a class (§3, §4.3). Fields are
// populated by VarDecls executed in the class body at construction time.
type InstanceVal struct {
	Class  *ClassVal
	Fields map[string]Value
}

func (v *InstanceVal) TypeName() string { return "instance" }
func (v *InstanceVal) String() string   { return fmt.Sprintf("<%s instance>", v.Class.Decl.Name) }

// ---- Truthiness ----

// IsTruthy returns the truthiness of a value per §3's table: Nil, Int(0),
// empty Str, empty List, empty Map are falsey; everything else truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case NilVal:
		return false
	case IntVal:
		return int64(val) != 0
	case StrVal:
		return string(val) != ""
	case *ListVal:
		return len(val.Elements) != 0
	case *MapVal:
		return val.Len() != 0
	default:
		return true
	}
}
