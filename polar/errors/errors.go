// Package errors defines the structured error type shared across polar's
// parser and checker. The parser and checker report *Error values, which
// carry an optional source Pos on top of the plain message, and a Kind
// drawn from the set named in spec.md §7.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/polarlang/polar/polar/token"
)

// Kind classifies an Error without requiring callers to string-match its
// message. The six kinds are exactly spec.md §7's error channel.
type Kind int

const (
	// Other covers parser syntax errors and anything not classified below.
	Other Kind = iota
	UndefinedVariable
	RepeatedFieldName
	RepeatedMatchCase
	MissingField
	UnhandledCase
	HeadMismatch
)

func (k Kind) String() string {
	switch k {
	case UndefinedVariable:
		return "undefined variable"
	case RepeatedFieldName:
		return "repeated field name"
	case RepeatedMatchCase:
		return "repeated match case"
	case MissingField:
		return "missing field"
	case UnhandledCase:
		return "unhandled case"
	case HeadMismatch:
		return "type mismatch"
	default:
		return "error"
	}
}

// Error is a single diagnostic: a Kind, a human-readable message, and an
// optional source Position (token.NoPos if unknown, e.g. when raised deep
// inside the position-agnostic checker core before a caller attaches a
// location).
type Error struct {
	Kind    Kind
	Pos     token.Pos
	Message string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

// Position reports where e occurred, or the zero Position if unknown.
func (e *Error) Position() token.Pos { return e.Pos }

// Newf builds an Error of the given kind at pos.
func Newf(kind Kind, pos token.Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// WithPos returns a copy of e with its position set to pos, if e does not
// already carry a valid position. Any other error, or an *Error that
// already has a valid position, is returned unchanged.
func WithPos(err error, pos token.Pos) error {
	e, ok := err.(*Error)
	if !ok || e.Pos.IsValid() {
		return err
	}
	cp := *e
	cp.Pos = pos
	return &cp
}

// List is an accumulated collection of Errors that Sort can order by
// position. The parser does not use it: it stops at the first syntax
// error.
type List []*Error

// Add appends err to the list.
func (p *List) Add(err *Error) {
	*p = append(*p, err)
}

// AddNewf is a convenience wrapper combining Newf and Add.
func (p *List) AddNewf(kind Kind, pos token.Pos, format string, args ...any) {
	p.Add(Newf(kind, pos, format, args...))
}

// Sort orders the list by position, with unpositioned errors first.
func (p List) Sort() {
	sort.SliceStable(p, func(i, j int) bool {
		pi, pj := p[i].Pos, p[j].Pos
		if !pi.IsValid() || !pj.IsValid() {
			return pi.IsValid() == false && pj.IsValid()
		}
		a, b := pi.Position(), pj.Position()
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Err returns nil if the list is empty, or the list itself as an error
// otherwise.
func (p List) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

func (p List) Error() string {
	var b strings.Builder
	for i, e := range p {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}
