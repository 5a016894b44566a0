// Package parser implements a recursive-descent parser over
// polar/scanner's token stream, producing a polar/ast.File.
//
// Unlike cue/parser (which accumulates a errors.List and recovers so an
// IDE can keep showing diagnostics after a syntax error), this parser
// stops at the first syntax error: polar/internal/core/check's script
// driver already stops a whole script at its first type error, so nothing
// downstream benefits from partial parses.
package parser

import (
	"github.com/polarlang/polar/polar/ast"
	"github.com/polarlang/polar/polar/errors"
	"github.com/polarlang/polar/polar/scanner"
	"github.com/polarlang/polar/polar/token"
)

// ParseFile parses src (named filename, for diagnostics) into an
// ast.File.
func ParseFile(filename string, src []byte) (*ast.File, error) {
	file := token.NewFile(filename)
	p := &parser{sc: scanner.New(file, src)}
	p.next()

	items, err := p.parseItems()
	if err != nil {
		return nil, err
	}
	return &ast.File{Items: items}, nil
}

type parser struct {
	sc  *scanner.Scanner
	tok scanner.Token
}

func (p *parser) next() {
	p.tok = p.sc.Scan()
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.Newf(errors.Other, p.tok.Pos, format, args...)
}

func (p *parser) expect(k scanner.Kind) (token.Pos, error) {
	if p.tok.Kind != k {
		return token.NoPos, p.errorf("expected %s, found %s", k, p.tok.Kind)
	}
	pos := p.tok.Pos
	p.next()
	return pos, nil
}

func (p *parser) expectIdent() (string, token.Pos, error) {
	if p.tok.Kind != scanner.IDENT {
		return "", token.NoPos, p.errorf("expected identifier, found %s", p.tok.Kind)
	}
	name, pos := p.tok.Text, p.tok.Pos
	p.next()
	return name, pos, nil
}

// parseItems parses a File's top-level item list, items separated (and
// optionally terminated) by ';'.
func (p *parser) parseItems() ([]ast.TopLevel, error) {
	var items []ast.TopLevel
	for p.tok.Kind != scanner.EOF {
		item, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if p.tok.Kind == scanner.SEMI {
			p.next()
			continue
		}
		break
	}
	if p.tok.Kind != scanner.EOF {
		return nil, p.errorf("expected ';' or end of input, found %s", p.tok.Kind)
	}
	return items, nil
}

func (p *parser) parseTopLevel() (ast.TopLevel, error) {
	if p.tok.Kind != scanner.LET {
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.ExprTop{X: x}, nil
	}

	letPos := p.tok.Pos
	p.next()

	if p.tok.Kind == scanner.REC {
		p.next()
		defs, err := p.parseRecDefs()
		if err != nil {
			return nil, err
		}
		if p.tok.Kind == scanner.IN {
			p.next()
			body, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &ast.ExprTop{X: &ast.LetRec{LetPos: letPos, Defs: defs, Body: body}}, nil
		}
		return &ast.LetRecDefTop{LetPos: letPos, Defs: defs}, nil
	}

	name, _, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.EQUAL); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind == scanner.IN {
		p.next()
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.ExprTop{X: &ast.Let{LetPos: letPos, Name: name, Value: value, Body: body}}, nil
	}
	return &ast.LetDefTop{LetPos: letPos, Name: name, Value: value}, nil
}

// parseRecDefs parses "name = expr" ('and' "name = expr")*, used by both
// the expression form LetRec and the top-level form LetRecDefTop.
func (p *parser) parseRecDefs() ([]ast.LetRecDef, error) {
	var defs []ast.LetRecDef
	for {
		name, namePos, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(scanner.EQUAL); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		defs = append(defs, ast.LetRecDef{NamePos: namePos, Name: name, Value: value})

		if p.tok.Kind != scanner.AND {
			break
		}
		p.next()
	}
	return defs, nil
}

// parseExpr parses one of the prefix-keyword forms (if/match/fun/let) at
// their full extent, or falls through to application precedence.
func (p *parser) parseExpr() (ast.Expr, error) {
	switch p.tok.Kind {
	case scanner.IF:
		return p.parseIf()
	case scanner.MATCH:
		return p.parseMatch()
	case scanner.FUN:
		return p.parseFunc()
	case scanner.LET:
		return p.parseLet()
	default:
		return p.parseApp()
	}
}

func (p *parser) parseIf() (ast.Expr, error) {
	ifPos := p.tok.Pos
	p.next()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.THEN); err != nil {
		return nil, err
	}
	thenE, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.ELSE); err != nil {
		return nil, err
	}
	elseE, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.If{IfPos: ifPos, Cond: cond, Then: thenE, Else: elseE}, nil
}

func (p *parser) parseMatch() (ast.Expr, error) {
	matchPos := p.tok.Pos
	p.next()
	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.WITH); err != nil {
		return nil, err
	}

	var arms []ast.MatchArm
	for p.tok.Kind == scanner.PIPE {
		p.next()
		tagPos, tag, bound, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(scanner.ARROW); err != nil {
			return nil, err
		}
		body, err := p.parseArmBody()
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.MatchArm{TagPos: tagPos, Tag: tag, Bound: bound, Body: body})
	}
	if len(arms) == 0 {
		return nil, p.errorf("match requires at least one '|' arm")
	}
	return &ast.Match{MatchPos: matchPos, Scrutinee: scrutinee, Arms: arms}, nil
}

func (p *parser) parsePattern() (token.Pos, string, string, error) {
	if p.tok.Kind != scanner.BACKTICK_TAG {
		return token.NoPos, "", "", p.errorf("expected a `Tag pattern, found %s", p.tok.Kind)
	}
	tagPos, tag := p.tok.Pos, p.tok.Text
	p.next()
	bound, _, err := p.expectIdent()
	if err != nil {
		return token.NoPos, "", "", err
	}
	return tagPos, tag, bound, nil
}

// parseArmBody parses a match arm's body. It accepts the same forms as
// parseExpr: an 'if'/'match'/'fun'/'let' form at its full extent, or an
// application, which stops before the following '|' (next arm). A nested
// unparenthesized 'match' as an arm body takes the following '|' arms as
// its own.
func (p *parser) parseArmBody() (ast.Expr, error) {
	switch p.tok.Kind {
	case scanner.IF, scanner.MATCH, scanner.FUN, scanner.LET:
		return p.parseExpr()
	default:
		return p.parseApp()
	}
}

func (p *parser) parseFunc() (ast.Expr, error) {
	funPos := p.tok.Pos
	p.next()
	arg, _, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.ARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{FunPos: funPos, Arg: arg, Body: body}, nil
}

func (p *parser) parseLet() (ast.Expr, error) {
	letPos := p.tok.Pos
	p.next()

	if p.tok.Kind == scanner.REC {
		p.next()
		defs, err := p.parseRecDefs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(scanner.IN); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.LetRec{LetPos: letPos, Defs: defs, Body: body}, nil
	}

	name, _, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.EQUAL); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(scanner.IN); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Let{LetPos: letPos, Name: name, Value: value, Body: body}, nil
}

// parseApp parses left-associative function application over fieldExpr
// operands: "f x y" == "(f x) y".
func (p *parser) parseApp() (ast.Expr, error) {
	fn, err := p.parseField()
	if err != nil {
		return nil, err
	}
	for startsAtom(p.tok.Kind) {
		arg, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fn = &ast.Call{Func: fn, Arg: arg}
	}
	return fn, nil
}

func startsAtom(k scanner.Kind) bool {
	switch k {
	case scanner.TRUE, scanner.FALSE, scanner.IDENT, scanner.LPAREN, scanner.LBRACE, scanner.BACKTICK_TAG:
		return true
	default:
		return false
	}
}

// parseField parses an atom followed by zero or more '.' field
// projections.
func (p *parser) parseField() (ast.Expr, error) {
	x, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == scanner.DOT {
		dotPos := p.tok.Pos
		p.next()
		name, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		x = &ast.FieldAccess{Lhs: x, DotPos: dotPos, Name: name}
	}
	return x, nil
}

func (p *parser) parseAtom() (ast.Expr, error) {
	switch p.tok.Kind {
	case scanner.TRUE:
		pos := p.tok.Pos
		p.next()
		return &ast.Literal{ValuePos: pos, Bool: true}, nil
	case scanner.FALSE:
		pos := p.tok.Pos
		p.next()
		return &ast.Literal{ValuePos: pos, Bool: false}, nil
	case scanner.IDENT:
		name, pos := p.tok.Text, p.tok.Pos
		p.next()
		return &ast.Variable{NamePos: pos, Name: name}, nil
	case scanner.BACKTICK_TAG:
		tagPos, tag := p.tok.Pos, p.tok.Text
		p.next()
		payload, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return &ast.Case{TagPos: tagPos, Tag: tag, Payload: payload}, nil
	case scanner.LPAREN:
		p.next()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(scanner.RPAREN); err != nil {
			return nil, err
		}
		return x, nil
	case scanner.LBRACE:
		return p.parseRecord()
	default:
		return nil, p.errorf("expected expression, found %s", p.tok.Kind)
	}
}

func (p *parser) parseRecord() (ast.Expr, error) {
	lbrace := p.tok.Pos
	p.next()

	var fields []ast.Field
	for p.tok.Kind != scanner.RBRACE {
		name, namePos, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(scanner.EQUAL); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.Field{NamePos: namePos, Name: name, Value: value})

		if p.tok.Kind == scanner.COMMA || p.tok.Kind == scanner.SEMI {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(scanner.RBRACE); err != nil {
		return nil, err
	}
	return &ast.Record{LBrace: lbrace, Fields: fields}, nil
}
