// Package bf implements the frontend's raw tokenization of the eight
// character Brainfuck language, plus the bracket-balance validation the
// frontend is expected to run before handing a source string to the core
// (spec §1: "the frontend's raw tokenization of +-<>[], is assumed; the
// core consumes a validated, bracket-balanced source string").
//
// Tokenizing is built on the teacher's lexer idiom (grammar.KansoLexer, a
// participle stateful lexer) rather than a hand-rolled rune scan, so that
// the distinction between a recognized instruction character and an
// ignored comment character is made by the same lexer machinery the
// teacher uses for its own language, not by a one-off switch statement.
package bf

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Op is one of the eight Brainfuck instruction characters.
type Op rune

const (
	OpInc    Op = '+'
	OpDec    Op = '-'
	OpRight  Op = '>'
	OpLeft   Op = '<'
	OpWrite  Op = '.'
	OpRead   Op = ','
	OpOpen   Op = '['
	OpClose  Op = ']'
)

// Token is a single recognized instruction character with its source
// position. Comment characters (anything outside the eight above) never
// produce a Token - they are elided during lexing exactly as whitespace is
// elided from the teacher's grammar.
type Token struct {
	Op     Op
	Line   int
	Column int
}

// bfLexer recognizes the eight instruction characters as one token kind and
// every other rune as a comment to be discarded, mirroring the
// rule-table shape of the teacher's grammar.KansoLexer.
var bfLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Op", `[+\-<>.,\[\]]`, nil},
		{"Comment", `[^+\-<>.,\[\]]+`, nil},
	},
})

// Tokenize lexes source into a stream of instruction tokens, discarding
// comment characters, per spec §4.1 step 1 (minus the opcode mapping,
// which is the core's job).
func Tokenize(source string) ([]Token, error) {
	symbols := bfLexer.Symbols()
	opType := symbols["Op"]

	lex, err := bfLexer.Lex("", strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("bf: lex: %w", err)
	}

	var tokens []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, fmt.Errorf("bf: lex: %w", err)
		}
		if tok.EOF() {
			break
		}
		if tok.Type != opType {
			continue
		}
		tokens = append(tokens, Token{
			Op:     Op(tok.Value[0]),
			Line:   tok.Pos.Line,
			Column: tok.Pos.Column,
		})
	}
	return tokens, nil
}

// String renders a token the way the graph dumper's source locations do.
func (t Token) String() string {
	return fmt.Sprintf("%d:%d %c", t.Line, t.Column, rune(t.Op))
}

// Source returns the instruction characters of toks with comments already
// stripped, useful for tests that want to compare a round trip.
func Source(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteRune(rune(t.Op))
	}
	return b.String()
}
