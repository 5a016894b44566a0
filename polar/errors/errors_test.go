package errors

import (
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/polarlang/polar/polar/token"
)

func TestErrorWithoutPosition(t *testing.T) {
	err := Newf(UndefinedVariable, token.NoPos, "undefined variable %s", "x")
	qt.Assert(t, qt.Equals(err.Error(), "undefined variable x"))
	qt.Assert(t, qt.Equals(err.Kind, UndefinedVariable))
}

func TestErrorWithPosition(t *testing.T) {
	f := token.NewFile("a.polar")
	pos := f.Pos(5)
	err := Newf(MissingField, pos, "missing field %q", "b")
	qt.Assert(t, qt.Equals(err.Error(), "a.polar:1:6: missing field \"b\""))
}

func TestWithPosOnlySetsUnpositioned(t *testing.T) {
	f := token.NewFile("a.polar")
	pos := f.Pos(0)

	unpositioned := Newf(HeadMismatch, token.NoPos, "boom")
	got := WithPos(unpositioned, pos)
	e := got.(*Error)
	qt.Assert(t, qt.IsTrue(e.Pos.IsValid()))

	alreadyPositioned := Newf(HeadMismatch, pos, "boom")
	got2 := WithPos(alreadyPositioned, token.NoPos)
	e2 := got2.(*Error)
	qt.Assert(t, qt.IsTrue(e2.Pos.IsValid()))
}

func TestListSortAndErr(t *testing.T) {
	var list List
	qt.Assert(t, qt.IsNil(list.Err()))

	f := token.NewFile("a.polar")
	list.AddNewf(Other, f.Pos(10), "second")
	list.AddNewf(Other, f.Pos(0), "first")
	list.Sort()

	qt.Assert(t, qt.Equals(list[0].Message, "first"))
	qt.Assert(t, qt.Equals(list[1].Message, "second"))
	qt.Assert(t, qt.IsNotNil(list.Err()))
}
