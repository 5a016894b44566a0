package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/polarlang/polar/internal/core/check"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "script.polar")
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(src), 0o644)))
	return path
}

func TestCheckOneSuccess(t *testing.T) {
	path := writeScript(t, "let x = true in x")
	res := checkOne(check.New(), path)
	qt.Assert(t, qt.IsTrue(res.OK))
	qt.Assert(t, qt.Equals(res.Error, ""))
}

func TestCheckOneTypeError(t *testing.T) {
	path := writeScript(t, "{a = true}.b")
	res := checkOne(check.New(), path)
	qt.Assert(t, qt.IsFalse(res.OK))
	qt.Assert(t, qt.Not(qt.Equals(res.Error, "")))
}

func TestCheckOneMissingFile(t *testing.T) {
	res := checkOne(check.New(), filepath.Join(t.TempDir(), "missing.polar"))
	qt.Assert(t, qt.IsFalse(res.OK))
}

func TestRootCommandRunsCheck(t *testing.T) {
	path := writeScript(t, "let x = true in x")
	root := NewRootCommand()
	root.SetArgs([]string{"check", path})
	qt.Assert(t, qt.IsNil(root.Execute()))
}

func TestRootCommandReportsFailure(t *testing.T) {
	path := writeScript(t, "{a = true}.b")
	root := NewRootCommand()
	root.SetArgs([]string{"check", "--config", "", path})
	qt.Assert(t, qt.IsNotNil(root.Execute()))
}
