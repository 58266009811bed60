package lexer

import (
	"testing"

	"github.com/bearlang/bearc/internal/source"
	"github.com/bearlang/bearc/internal/token"
)

func kinds(toks []Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, src string, want ...token.Kind) []Token {
	t.Helper()
	buf := source.NewBuffer("t.bear", []byte(src))
	toks := Lex(buf)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("Lex(%q) produced %d tokens %v; want %d %v", src, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Lex(%q)[%d] = %v; want %v", src, i, got[i], want[i])
		}
	}
	return toks
}

func TestEmptyFile(t *testing.T) {
	assertKinds(t, "", token.EOF)
}

func TestTwoTokens(t *testing.T) {
	assertKinds(t, "mod Alpha {}",
		token.Module, token.Identifier, token.LBrace, token.RBrace, token.EOF)
}

func TestMaxMunchShiftAssign(t *testing.T) {
	assertKinds(t, "a >>>= b;",
		token.Identifier, token.AssignRshaEq, token.Identifier, token.Semicolon, token.EOF)
}

func TestMaxMunchDotSequences(t *testing.T) {
	assertKinds(t, ".", token.Dot, token.EOF)
	assertKinds(t, "..", token.ScopeRes, token.EOF)
	assertKinds(t, "...", token.Ellipse, token.EOF)
	assertKinds(t, "...=", token.EllipseEq, token.EOF)
}

func TestMaxMunchGtSequences(t *testing.T) {
	assertKinds(t, ">", token.Gt, token.EOF)
	assertKinds(t, ">=", token.Ge, token.EOF)
	assertKinds(t, ">>", token.Rshl, token.EOF)
	assertKinds(t, ">>=", token.AssignRshlEq, token.EOF)
	assertKinds(t, ">>>", token.Rsha, token.EOF)
	assertKinds(t, ">>>=", token.AssignRshaEq, token.EOF)
}

func TestMaxMunchLtSequences(t *testing.T) {
	assertKinds(t, "<", token.Lt, token.EOF)
	assertKinds(t, "<=", token.Le, token.EOF)
	assertKinds(t, "<-", token.AssignMove, token.EOF)
	assertKinds(t, "<<", token.Lsh, token.EOF)
	assertKinds(t, "<<-", token.Stream, token.EOF)
	assertKinds(t, "<<=", token.AssignLshEq, token.EOF)
}

func TestDotBeforeDigitIsFloat(t *testing.T) {
	toks := assertKinds(t, "1.5", token.FloatLit, token.EOF)
	if toks[0].Literal.Float != 1.5 {
		t.Errorf("Literal.Float = %v; want 1.5", toks[0].Literal.Float)
	}
}

func TestStringLiteralEscapedQuote(t *testing.T) {
	assertKinds(t, `"a\"b"`, token.StrLit, token.EOF)
}

func TestUnterminatedStringStopsAtNewline(t *testing.T) {
	buf := source.NewBuffer("t.bear", []byte("\"abc\ndef"))
	toks := Lex(buf)
	if toks[0].Kind != token.LexError {
		t.Fatalf("first token kind = %v; want LexError", toks[0].Kind)
	}
}

func TestEOFLocationIsOnePastLastToken(t *testing.T) {
	buf := source.NewBuffer("t.bear", []byte("ab"))
	toks := Lex(buf)
	last := toks[0]
	eof := toks[1]
	if eof.Line != last.Line || eof.Column != last.Column+last.Length {
		t.Errorf("eof loc = (%d,%d); want (%d,%d)", eof.Line, eof.Column, last.Line, last.Column+last.Length)
	}
}

func TestIdentifierVsKeyword(t *testing.T) {
	assertKinds(t, "func fn", token.Identifier, token.Fn, token.EOF)
}

func TestIntegerHexLiteral(t *testing.T) {
	toks := assertKinds(t, "0xFF", token.IntLit, token.EOF)
	if toks[0].Literal.Int != 255 {
		t.Errorf("Literal.Int = %d; want 255", toks[0].Literal.Int)
	}
}

func TestCharLiteralEscape(t *testing.T) {
	toks := assertKinds(t, `'\n'`, token.CharLit, token.EOF)
	if toks[0].Literal.Char != '\n' {
		t.Errorf("Literal.Char = %q; want \\n", toks[0].Literal.Char)
	}
}

func TestTokensPartitionBuffer(t *testing.T) {
	src := "fn foo(i32 x) -> i32 { return x + 1; }"
	buf := source.NewBuffer("t.bear", []byte(src))
	toks := Lex(buf)
	pos := 0
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		if tok.Start < pos {
			t.Fatalf("token %v overlaps previous end %d (start %d)", tok, pos, tok.Start)
		}
		pos = tok.Start + tok.Length
	}
}
