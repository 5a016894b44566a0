package scanner

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/polarlang/polar/polar/token"
)

func scanAll(src string) []Token {
	f := token.NewFile("test.polar")
	s := New(f, []byte(src))
	var toks []Token
	for {
		tok := s.Scan()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks := scanAll("let rec f = fun x -> f x in f true")
	got := kinds(toks)
	want := []Kind{LET, REC, IDENT, EQUAL, FUN, IDENT, ARROW, IDENT, IDENT, IN, IDENT, TRUE, EOF}
	qt.Assert(t, qt.DeepEquals(got, want))
}

func TestScanTagAndPunctuation(t *testing.T) {
	toks := scanAll("`Some x | `None")
	qt.Assert(t, qt.DeepEquals(kinds(toks), []Kind{BACKTICK_TAG, IDENT, PIPE, BACKTICK_TAG, EOF}))
	qt.Assert(t, qt.Equals(toks[0].Text, "Some"))
	qt.Assert(t, qt.Equals(toks[3].Text, "None"))
}

func TestScanRecordAndFieldAccess(t *testing.T) {
	toks := scanAll("{a = true, b = false}.a")
	want := []Kind{LBRACE, IDENT, EQUAL, TRUE, COMMA, IDENT, EQUAL, FALSE, RBRACE, DOT, IDENT, EOF}
	qt.Assert(t, qt.DeepEquals(kinds(toks), want))
}

func TestScanSemicolon(t *testing.T) {
	toks := scanAll("let x = true ; let y = x.bad")
	qt.Assert(t, qt.Equals(toks[4].Kind, SEMI))
}

func TestScanPositionsAdvance(t *testing.T) {
	toks := scanAll("true false")
	qt.Assert(t, qt.Equals(toks[0].Pos.Position().Column, 1))
	qt.Assert(t, qt.Equals(toks[1].Pos.Position().Column, 6))
}
