package runtime

import (
	"fmt"
	"strconv"
)

// RegisterBuiltins seeds the global environment with SpellLang's tiny
// built-in set (§4.3): len, str, int. These are the only standard-library
// surface SpellLang has (§1 Non-goals).
func RegisterBuiltins(env *Environment) {
	env.Define("len", &BuiltinVal{Name: "len", Arity: 1, Fn: builtinLen})
	env.Define("str", &BuiltinVal{Name: "str", Arity: 1, Fn: builtinStr})
	env.Define("int", &BuiltinVal{Name: "int", Arity: 1, Fn: builtinInt})
}

// builtinLen returns the length of a string, list, or map (§4.3).
func builtinLen(args []Value) (Value, error) {
	switch v := args[0].(type) {
	case StrVal:
		return IntVal(len(string(v))), nil
	case *ListVal:
		return IntVal(len(v.Elements)), nil
	case *MapVal:
		return IntVal(v.Len()), nil
	default:
		return nil, fmt.Errorf("len() not supported for type '%s'", args[0].TypeName())
	}
}

// builtinStr renders any value as a string (§4.3), reusing the same
// rendering Illuminate uses.
func builtinStr(args []Value) (Value, error) {
	return StrVal(args[0].String()), nil
}

// builtinInt parses a string to an integer, or passes an integer through
// unchanged (§4.3, grounded on the Python original's setup_builtins,
// which binds 'int' straight to Python's int() — a string that fails to
// parse is a runtime error rather than a silent zero).
func builtinInt(args []Value) (Value, error) {
	switch v := args[0].(type) {
	case IntVal:
		return v, nil
	case StrVal:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("int() cannot parse '%s' as an integer", string(v))
		}
		return IntVal(n), nil
	default:
		return nil, fmt.Errorf("int() not supported for type '%s'", args[0].TypeName())
	}
}
