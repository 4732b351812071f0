package runtime

import (
	"bytes"
	"strings"
	"testing"

	"spelllang/internal/lexer"
	"spelllang/internal/parser"
)

// runSource parses and executes source code, returning captured stdout and
// any runtime error.
func runSource(source string) (string, error) {
	l := lexer.New(source, "test.spell")
	tokens, _ := l.Tokenize()
	p := parser.New(tokens)
	file, _ := p.ParseFile()

	var buf bytes.Buffer
	interp := NewInterpreter(&buf)
	err := interp.Run(file)
	return buf.String(), err
}

func expectOutput(t *testing.T, source, expected string) {
	t.Helper()
	out, err := runSource(source)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if strings.TrimRight(out, "\n") != strings.TrimRight(expected, "\n") {
		t.Errorf("output mismatch:\nexpected: %q\ngot:      %q", expected, out)
	}
}

func expectError(t *testing.T, source, contains string) {
	t.Helper()
	_, err := runSource(source)
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", contains)
	}
	if !strings.Contains(err.Error(), contains) {
		t.Errorf("expected error containing %q, got %q", contains, err.Error())
	}
}

func TestIlluminateLiterals(t *testing.T) {
	expectOutput(t, `Illuminate(42)`, "42")
	expectOutput(t, `Illuminate("hello")`, "hello")
}

func TestWandAssignment(t *testing.T) {
	expectOutput(t, "Wand x = 10\nIlluminate(x)", "10")
}

func TestAssignRequiresExistingBinding(t *testing.T) {
	expectError(t, "x = 1", "undefined variable 'x'")
}

func TestArithmetic(t *testing.T) {
	expectOutput(t, "Illuminate(2 + 3 * 4)", "14")
	expectOutput(t, "Illuminate(10 / 3)", "3")
	expectOutput(t, "Illuminate(10 % 3)", "1")
	expectOutput(t, "Illuminate(-5 + 2)", "-3")
}

func TestDivisionByZero(t *testing.T) {
	expectError(t, "Illuminate(1 / 0)", "division by zero")
}

func TestStringConcatenation(t *testing.T) {
	expectOutput(t, `Illuminate("foo" + "bar")`, "foobar")
}

func TestListConcatenation(t *testing.T) {
	expectOutput(t, "Illuminate([1, 2] + [3])", "[1, 2, 3]")
}

func TestComparisonsProduceIntBools(t *testing.T) {
	expectOutput(t, "Illuminate(1 < 2)", "1")
	expectOutput(t, "Illuminate(1 > 2)", "0")
	expectOutput(t, `Illuminate("a" < "b")`, "1")
}

func TestEqualityIsTypeAware(t *testing.T) {
	expectOutput(t, `Illuminate(1 == "1")`, "0")
	expectOutput(t, "Illuminate(1 == 1)", "1")
}

func TestLogicalShortCircuit(t *testing.T) {
	expectOutput(t, "Illuminate(0 && boom())", "0")
	expectOutput(t, "Illuminate(1 || boom())", "1")
}

func TestUnaryNegationAndNot(t *testing.T) {
	expectOutput(t, "Illuminate(!0)", "1")
	expectOutput(t, "Illuminate(!1)", "0")
	expectOutput(t, "Illuminate(-7)", "-7")
}

func TestTruthinessTable(t *testing.T) {
	expectOutput(t, `Ifar 0 {
Illuminate("yes")
} Elsear {
Illuminate("no")
}`, "no")
	expectOutput(t, `Ifar "" {
Illuminate("yes")
} Elsear {
Illuminate("no")
}`, "no")
	expectOutput(t, `Ifar [] {
Illuminate("yes")
} Elsear {
Illuminate("no")
}`, "no")
}

func TestIfElsear(t *testing.T) {
	expectOutput(t, `Wand x = 5
Ifar x < 10 {
Illuminate("small")
} Elsear {
Illuminate("big")
}`, "small")
}

func TestPersistusLoop(t *testing.T) {
	expectOutput(t, `Wand total = 0
Wand i = 0
Persistus i < 5 {
total = total + i
i = i + 1
}
Illuminate(total)`, "10")
}

func TestLoopusForLoop(t *testing.T) {
	expectOutput(t, `Loopus i = 0; i < 3; i = i + 1 {
Illuminate(i)
}`, "0\n1\n2")
}

func TestLoopusCounterSurvivesLoop(t *testing.T) {
	expectOutput(t, `Loopus i = 0; i < 3; i = i + 1 {
}
Illuminate(i)`, "3")
}

func TestFunctionCallAndClosure(t *testing.T) {
	expectOutput(t, `Wand base = 100
Incantation addBase(n) {
Illuminate(base + n)
}
Cast addBase(5)`, "105")
}

func TestFunctionCallAlwaysYieldsNil(t *testing.T) {
	expectOutput(t, `Incantation noop() {
Wand x = 1
}
Wand result = noop()
Illuminate(result)`, "nil")
}

func TestFunctionParamsShadowOuterScope(t *testing.T) {
	expectOutput(t, `Wand x = 1
Incantation setX(x) {
Illuminate(x)
}
Cast setX(99)
Illuminate(x)`, "99\n1")
}

func TestClassInstantiationAndFields(t *testing.T) {
	expectOutput(t, `Magical Creature Phoenix(label) {
Wand name = label
}
Wand w = Phoenix("ash")
Illuminate(w)`, "<Phoenix instance>")
}

func TestBloodlineInheritanceRunsParentConstructor(t *testing.T) {
	expectOutput(t, `Magical Creature Animal(name) {
Illuminate("Animal " + name)
Wand species = name
}
Magical Creature Dog(name) Bloodline Animal {
Wand sound = "woof"
}
Wand d = Dog("Rex")
Illuminate(d)`, "Animal Rex\n<Dog instance>")
}

func TestProtegoAlohomoraCatchesRuntimeError(t *testing.T) {
	expectOutput(t, `Protego {
Illuminate(1 / 0)
} Alohomora {
Illuminate(error)
}`, "division by zero")
}

func TestProtegoAlohomoraNoErrorSkipsCatch(t *testing.T) {
	expectOutput(t, `Protego {
Illuminate("fine")
} Alohomora {
Illuminate("never")
}`, "fine")
}

func TestUndefinedFunctionCall(t *testing.T) {
	expectError(t, "Cast ghost()", "undefined function 'ghost'")
}

func TestUndefinedVariable(t *testing.T) {
	expectError(t, "Illuminate(ghost)", "undefined variable 'ghost'")
}

func TestLenBuiltin(t *testing.T) {
	expectOutput(t, `Illuminate(len("hello"))`, "5")
	expectOutput(t, `Illuminate(len([1, 2, 3]))`, "3")
	expectOutput(t, `Illuminate(len({"a": 1, "b": 2}))`, "2")
}

func TestStrBuiltin(t *testing.T) {
	expectOutput(t, `Illuminate(str(42))`, "42")
}

func TestIntBuiltin(t *testing.T) {
	expectOutput(t, `Illuminate(int("42") + 1)`, "43")
}

func TestIntBuiltinParseFailure(t *testing.T) {
	expectError(t, `Illuminate(int("nope"))`, "cannot parse")
}

func TestListLiteralAndMapLiteral(t *testing.T) {
	expectOutput(t, "Illuminate([1, 2, 3])", "[1, 2, 3]")
	expectOutput(t, `Illuminate({"a": 1, "b": 2})`, "{a: 1, b: 2}")
}

func TestBlockScopingInsideIf(t *testing.T) {
	expectOutput(t, `Wand x = 1
Ifar 1 {
Wand x = 2
Illuminate(x)
}
Illuminate(x)`, "2\n1")
}
