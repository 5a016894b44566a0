// Package types implements the polarized type store and bi-substitution
// flow engine that sit on top of an internal/core/reach graph.
//
// Every node is one of three kinds: a flexible Variable (no head, acts as
// a join point), a ValueHead (concrete producer), or a UseHead (concrete
// consumer). flow(v, u) asserts v must satisfy u, driving the reachability
// graph's closure and, for every newly-reachable (value-head, use-head)
// pair, decomposing the two heads into further flow edges until a fixed
// point is reached or an incompatibility is found.
package types

import (
	"fmt"

	"github.com/polarlang/polar/internal/core/reach"
)

// Value is a handle to the producing ("value") facet of a node.
type Value struct{ id reach.ID }

// Use is a handle to the consuming ("use") facet of a node.
type Use struct{ id reach.ID }

func (v Value) String() string { return fmt.Sprintf("v%d", v.id) }
func (u Use) String() string   { return fmt.Sprintf("u%d", u.id) }

// ValueHead is a concrete producer type.
type ValueHead interface{ isValueHead() }

// UseHead is a concrete consumer type.
type UseHead interface{ isUseHead() }

type VBool struct{}

func (VBool) isValueHead() {}

type VFunc struct {
	Arg Use
	Ret Value
}

func (VFunc) isValueHead() {}

// VObj holds one Value per field, keyed by field name. Field names are
// unique within an object by construction (callers enforce this before
// calling Obj).
type VObj struct {
	Fields map[string]Value
}

func (VObj) isValueHead() {}

// VCase wraps a single tagged value, e.g. `Some x.
type VCase struct {
	Tag     string
	Payload Value
}

func (VCase) isValueHead() {}

type UBool struct{}

func (UBool) isUseHead() {}

type UFunc struct {
	Arg Value
	Ret Use
}

func (UFunc) isUseHead() {}

// UObj is a single field projection, e.g. the use-side constraint imposed
// by `.field`.
type UObj struct {
	Name  string
	Field Use
}

func (UObj) isUseHead() {}

// UCase is an exhaustive match: one Use per case tag.
type UCase struct {
	Cases map[string]Use
}

func (UCase) isUseHead() {}

// node is the tagged union backing a single graph ID. kind says which of
// value and use is set; for a pure variable (kindVar) neither is.
type nodeKind int

const (
	kindVar nodeKind = iota
	kindValueHead
	kindUseHead
)

type node struct {
	kind  nodeKind
	value ValueHead
	use   UseHead
}

// TypeError describes an incompatibility discovered while flowing a value
// into a use.
type TypeError struct {
	Kind    ErrorKind
	Message string
}

func (e *TypeError) Error() string { return e.Message }

// ErrorKind classifies a TypeError for callers that want to branch on it
// without string matching.
type ErrorKind int

const (
	ErrMissingField ErrorKind = iota
	ErrUnhandledCase
	ErrHeadMismatch
)

func newError(kind ErrorKind, format string, args ...any) *TypeError {
	return &TypeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Store owns the node table aligned in lockstep with a reachability graph.
type Store struct {
	r     *reach.Graph
	types []node
}

// New returns an empty type store.
func New() *Store {
	return &Store{r: reach.New()}
}

func (s *Store) allocValue(v ValueHead) Value {
	i := s.r.AddNode()
	assertf(int(i) == len(s.types), "node ID allocation out of lockstep with the reachability graph")
	s.types = append(s.types, node{kind: kindValueHead, value: v})
	return Value{i}
}

func (s *Store) allocUse(u UseHead) Use {
	i := s.r.AddNode()
	assertf(int(i) == len(s.types), "node ID allocation out of lockstep with the reachability graph")
	s.types = append(s.types, node{kind: kindUseHead, use: u})
	return Use{i}
}

// Var allocates a fresh flexible variable, returning both its value and
// use facets at the same underlying node.
func (s *Store) Var() (Value, Use) {
	i := s.r.AddNode()
	assertf(int(i) == len(s.types), "node ID allocation out of lockstep with the reachability graph")
	s.types = append(s.types, node{kind: kindVar})
	return Value{i}, Use{i}
}

func (s *Store) Bool() Value  { return s.allocValue(VBool{}) }
func (s *Store) BoolUse() Use { return s.allocUse(UBool{}) }

// Func allocates a function value head with the given argument use and
// return value.
func (s *Store) Func(arg Use, ret Value) Value { return s.allocValue(VFunc{Arg: arg, Ret: ret}) }

// FuncUse allocates a call-site use: it supplies arg and demands ret.
func (s *Store) FuncUse(arg Value, ret Use) Use { return s.allocUse(UFunc{Arg: arg, Ret: ret}) }

// Obj allocates an object value head from an ordered slice of
// (name, Value) pairs. Callers must have already rejected duplicate field
// names.
func (s *Store) Obj(fields []FieldValue) Value {
	m := make(map[string]Value, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	return s.allocValue(VObj{Fields: m})
}

// FieldValue is one (name, Value) pair supplied to Obj.
type FieldValue struct {
	Name  string
	Value Value
}

// ObjUse allocates a single-field projection use.
func (s *Store) ObjUse(name string, use Use) Use {
	return s.allocUse(UObj{Name: name, Field: use})
}

// Case allocates a tagged-value head.
func (s *Store) Case(tag string, payload Value) Value {
	return s.allocValue(VCase{Tag: tag, Payload: payload})
}

// CaseUse allocates an exhaustive-match use from an ordered slice of
// (tag, Use) pairs. Duplicate tags are not rejected: a later pair's Use
// replaces an earlier one with the same tag.
func (s *Store) CaseUse(cases []CaseUseArm) Use {
	m := make(map[string]Use, len(cases))
	for _, c := range cases {
		m[c.Tag] = c.Use
	}
	return s.allocUse(UCase{Cases: m})
}

// CaseUseArm is one (tag, Use) pair supplied to CaseUse.
type CaseUseArm struct {
	Tag string
	Use Use
}

// Flow asserts that lhs must satisfy rhs, running the bi-substitution
// fixed point: installing the (lhs, rhs) reachability edge, decomposing
// every newly-reachable (value-head, use-head) pair into further edges,
// and repeating until both worklists drain or a head mismatch is found.
//
// On error, edges installed so far are not rolled back; callers that need
// transactional semantics must snapshot the Store beforehand (see
// Store.Clone / Store.Restore).
func (s *Store) Flow(lhs Value, rhs Use) error {
	pendingEdges := []reach.Pair{{Lhs: lhs.id, Rhs: rhs.id}}
	var pairsToCheck []reach.Pair

	for len(pendingEdges) > 0 {
		n := len(pendingEdges) - 1
		edge := pendingEdges[n]
		pendingEdges = pendingEdges[:n]

		s.r.AddEdge(edge.Lhs, edge.Rhs, &pairsToCheck)

		for len(pairsToCheck) > 0 {
			m := len(pairsToCheck) - 1
			pair := pairsToCheck[m]
			pairsToCheck = pairsToCheck[:m]

			lhsNode := s.types[pair.Lhs]
			rhsNode := s.types[pair.Rhs]
			if lhsNode.kind != kindValueHead || rhsNode.kind != kindUseHead {
				continue
			}
			emitted, err := checkHeads(lhsNode.value, rhsNode.use)
			if err != nil {
				return err
			}
			for _, e := range emitted {
				pendingEdges = append(pendingEdges, reach.Pair{Lhs: e.v.id, Rhs: e.u.id})
			}
		}
	}
	return nil
}

type flowEdge struct {
	v Value
	u Use
}

// checkHeads implements the table in spec.md §4.2: it either reports the
// sub-edges a compound head pair induces, or a TypeError.
func checkHeads(lhs ValueHead, rhs UseHead) ([]flowEdge, error) {
	switch l := lhs.(type) {
	case VBool:
		if _, ok := rhs.(UBool); ok {
			return nil, nil
		}
	case VFunc:
		if r, ok := rhs.(UFunc); ok {
			return []flowEdge{
				{l.Ret, r.Ret}, // covariant return
				{r.Arg, l.Arg}, // contravariant argument
			}, nil
		}
	case VObj:
		if r, ok := rhs.(UObj); ok {
			field, found := l.Fields[r.Name]
			if !found {
				return nil, newError(ErrMissingField, "missing field %q", r.Name)
			}
			return []flowEdge{{field, r.Field}}, nil
		}
	case VCase:
		if r, ok := rhs.(UCase); ok {
			use, found := r.Cases[l.Tag]
			if !found {
				return nil, newError(ErrUnhandledCase, "unhandled case %q", l.Tag)
			}
			return []flowEdge{{l.Payload, use}}, nil
		}
	}
	return nil, newError(ErrHeadMismatch, "unexpected types: %T used as %T", lhs, rhs)
}

// Clone returns a deep copy of the store, suitable for snapshot/rollback
// around a failing transaction.
func (s *Store) Clone() *Store {
	return &Store{
		r:     s.r.Clone(),
		types: append([]node(nil), s.types...),
	}
}

// Restore replaces s's contents with other's, in place. Used by the
// script driver to roll back to a pre-transaction snapshot without
// invalidating handles already captured by callers that hold a *Store.
func (s *Store) Restore(other *Store) {
	s.r = other.r
	s.types = other.types
}

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("internal/core/types: "+format, args...))
	}
}
