package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"spelllang/internal/token"
)

func kinds(tokens []token.Token) []token.Kind {
	ks := make([]token.Kind, len(tokens))
	for i, t := range tokens {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenizeAssignmentAndArithmetic(t *testing.T) {
	tokens, diags := New(`Wand x = 1 + 2`, "t.spell").Tokenize()
	assert.Empty(t, diags)
	assert.Equal(t, []token.Kind{
		token.KW_WAND, token.IDENT, token.ASSIGN,
		token.INT, token.PLUS, token.INT, token.EOF,
	}, kinds(tokens))
}

func TestTokenizeKeywordSet(t *testing.T) {
	source := `Wand Incantation Cast Illuminate Ifar Elsear Loopus Persistus ` +
		`Cauldron SpellBooks Protego Alohomora Magical Creature Bloodline Forar in len`
	tokens, diags := New(source, "t.spell").Tokenize()
	assert.Empty(t, diags)
	assert.Equal(t, []token.Kind{
		token.KW_WAND, token.KW_INCANTATION, token.KW_CAST, token.KW_ILLUMINATE,
		token.KW_IFAR, token.KW_ELSEAR, token.KW_LOOPUS, token.KW_PERSISTUS,
		token.KW_CAULDRON, token.KW_SPELLBOOKS, token.KW_PROTEGO, token.KW_ALOHOMORA,
		token.KW_MAGICAL, token.KW_CREATURE, token.KW_BLOODLINE, token.KW_FORAR,
		token.KW_IN, token.KW_LEN, token.EOF,
	}, kinds(tokens))
}

func TestTokenizeTwoCharOperators(t *testing.T) {
	tokens, diags := New(`== != <= >= && ||`, "t.spell").Tokenize()
	assert.Empty(t, diags)
	assert.Equal(t, []token.Kind{
		token.EQ, token.NEQ, token.LTE, token.GTE, token.AND, token.OR, token.EOF,
	}, kinds(tokens))
}

func TestTokenizeSingleCharOperators(t *testing.T) {
	tokens, diags := New(`= + - * / % < > ! ( ) { } [ ] , . : ;`, "t.spell").Tokenize()
	assert.Empty(t, diags)
	assert.Equal(t, []token.Kind{
		token.ASSIGN, token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.LT, token.GT, token.BANG, token.LPAREN, token.RPAREN, token.LBRACE,
		token.RBRACE, token.LBRACKET, token.RBRACKET, token.COMMA, token.DOT,
		token.COLON, token.SEMICOLON, token.EOF,
	}, kinds(tokens))
}

func TestTokenizeString(t *testing.T) {
	tokens, diags := New(`"hello world"`, "t.spell").Tokenize()
	assert.Empty(t, diags)
	assert.Equal(t, token.STRING, tokens[0].Kind)
	assert.Equal(t, "hello world", tokens[0].Lexeme)
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, diags := New(`"unterminated`, "t.spell").Tokenize()
	assert.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "unterminated string")
}

func TestTokenizeIdentifierNotKeyword(t *testing.T) {
	tokens, diags := New(`wandering inIt`, "t.spell").Tokenize()
	assert.Empty(t, diags)
	assert.Equal(t, []token.Kind{token.IDENT, token.IDENT, token.EOF}, kinds(tokens))
}

func TestTokenizeLineComment(t *testing.T) {
	tokens, diags := New("# this is ignored\nWand x = 1", "t.spell").Tokenize()
	assert.Empty(t, diags)
	assert.Equal(t, []token.Kind{token.KW_WAND, token.IDENT, token.ASSIGN, token.INT, token.EOF}, kinds(tokens))
}

func TestTokenizeBlockComment(t *testing.T) {
	tokens, diags := New("Wand /* spans\nmultiple\nlines */ x = 1", "t.spell").Tokenize()
	assert.Empty(t, diags)
	assert.Equal(t, []token.Kind{token.KW_WAND, token.IDENT, token.ASSIGN, token.INT, token.EOF}, kinds(tokens))
}

func TestTokenizeIllegalCharacter(t *testing.T) {
	_, diags := New("Wand x = @", "t.spell").Tokenize()
	assert.Len(t, diags, 1)
	assert.Equal(t, "Lexer", diags[0].Kind.String())
}

// TestPositionsMatchOrigin verifies the lex round-trip positions invariant
// (§8): every emitted token's (line, column) matches the 1-indexed origin
// of its first character.
func TestPositionsMatchOrigin(t *testing.T) {
	source := "Wand x = 1\nIlluminate(x)"
	tokens, diags := New(source, "t.spell").Tokenize()
	assert.Empty(t, diags)

	want := []struct {
		line, col int
	}{
		{1, 1},  // Wand
		{1, 6},  // x
		{1, 8},  // =
		{1, 10}, // 1
		{2, 1},  // Illuminate
		{2, 11}, // (
		{2, 12}, // x
		{2, 13}, // )
	}
	for i, w := range want {
		assert.Equal(t, w.line, tokens[i].Span.Start.Line, "token %d line", i)
		assert.Equal(t, w.col, tokens[i].Span.Start.Column, "token %d column", i)
	}
}

func TestCarriageReturnTreatedAsWhitespace(t *testing.T) {
	tokens, diags := New("Wand x\r\n= 1", "t.spell").Tokenize()
	assert.Empty(t, diags)
	assert.Equal(t, []token.Kind{token.KW_WAND, token.IDENT, token.ASSIGN, token.INT, token.EOF}, kinds(tokens))
}
