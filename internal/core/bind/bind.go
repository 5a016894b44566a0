// Package bind implements the scoped binding environment: a lexical
// name → value-handle map with an undo journal supporting O(1)-amortized
// scope rollback.
package bind

import "github.com/polarlang/polar/internal/core/types"

// change is one journal entry: the binding name previously had, or
// (ok=false) was previously absent.
type change struct {
	name  string
	prior types.Value
	ok    bool
}

// Env is a scoped binding environment. The zero value is ready to use.
type Env struct {
	m       map[string]types.Value
	journal []change
}

// New returns an empty environment.
func New() *Env {
	return &Env{m: make(map[string]types.Value)}
}

// Get looks up name, reporting whether it is currently bound.
func (e *Env) Get(name string) (types.Value, bool) {
	v, ok := e.m[name]
	return v, ok
}

// Insert binds name to v, recording the pre-insertion binding (or its
// absence) in the undo journal so a later unwind can restore it.
//
// Insert always appends to the journal even outside of InChildScope: if
// the caller never wraps the call in a scope guard, the entry remains
// available for some enclosing scope (or Unwind(0)) to undo later.
func (e *Env) Insert(name string, v types.Value) {
	if e.m == nil {
		e.m = make(map[string]types.Value)
	}
	prior, ok := e.m[name]
	e.journal = append(e.journal, change{name: name, prior: prior, ok: ok})
	e.m[name] = v
}

// Mark returns the current journal length, to be passed to Unwind later.
func (e *Env) Mark() int {
	return len(e.journal)
}

// Unwind pops journal entries back down to length n, restoring the prior
// binding (or absence) each popped entry recorded. Entries are replayed in
// reverse (LIFO) order, which is required to correctly restore shadowing.
func (e *Env) Unwind(n int) {
	for len(e.journal) > n {
		last := len(e.journal) - 1
		c := e.journal[last]
		e.journal = e.journal[:last]
		if c.ok {
			e.m[c.name] = c.prior
		} else {
			delete(e.m, c.name)
		}
	}
}

// Commit clears the undo journal without touching the live binding map,
// permanently keeping every binding recorded since the environment (or
// its last Commit) was created.
func (e *Env) Commit() {
	e.journal = e.journal[:0]
}

// InChildScope invokes body, then unwinds the journal back to its
// pre-call length regardless of whether body returns an error — so any
// bindings body introduced are invisible to the caller once InChildScope
// returns.
func InChildScope[T any](e *Env, body func(*Env) (T, error)) (T, error) {
	n := e.Mark()
	result, err := body(e)
	e.Unwind(n)
	return result, err
}
