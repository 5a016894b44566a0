// Package check implements the AST-directed checker (spec.md §4.4) and
// the transactional script driver (spec.md §4.5) on top of
// internal/core/types and internal/core/bind.
package check

import (
	"github.com/polarlang/polar/internal/core/bind"
	"github.com/polarlang/polar/internal/core/types"
	"github.com/polarlang/polar/polar/ast"
	"github.com/polarlang/polar/polar/errors"
	"github.com/polarlang/polar/polar/token"
)

// Checker holds the permanent, cross-script type store and binding
// environment. The zero value is not usable; construct with New.
type Checker struct {
	store    *types.Store
	bindings *bind.Env
}

// New returns an empty Checker.
func New() *Checker {
	return &Checker{store: types.New(), bindings: bind.New()}
}

// CheckScript runs each item in order as part of one transaction: before
// the loop, the type store is snapshotted; on the first item that fails,
// the store is rolled back to that snapshot and the binding journal is
// unwound to empty, so a failing script leaves no residue. On overall
// success, the binding journal is cleared, making every top-level
// definition permanent.
func (c *Checker) CheckScript(items []ast.TopLevel) error {
	snapshot := c.store.Clone()

	for _, item := range items {
		if err := c.checkTopLevel(item); err != nil {
			c.store.Restore(snapshot)
			c.bindings.Unwind(0)
			return err
		}
	}

	c.bindings.Commit()
	return nil
}

func (c *Checker) checkTopLevel(def ast.TopLevel) error {
	switch d := def.(type) {
	case *ast.ExprTop:
		_, err := c.checkExpr(d.X)
		return err

	case *ast.LetDefTop:
		v, err := c.checkExpr(d.Value)
		if err != nil {
			return err
		}
		c.bindings.Insert(d.Name, v)
		return nil

	case *ast.LetRecDefTop:
		// Pre-declare outside of any scope guard: per spec.md §9 this is
		// intentionally asymmetric with the expression form LetRec, which
		// scopes its pre-declarations. check_script still unwinds the
		// whole journal to 0 on a later failure, so a failing script still
		// leaves no residue even though these inserts were not scoped.
		bounds := make([]types.Use, len(d.Defs))
		for i, def := range d.Defs {
			tv, tb := c.store.Var()
			c.bindings.Insert(def.Name, tv)
			bounds[i] = tb
		}
		for i, def := range d.Defs {
			v, err := c.checkExpr(def.Value)
			if err != nil {
				return err
			}
			if err := c.store.Flow(v, bounds[i]); err != nil {
				return asCheckError(err)
			}
		}
		return nil

	default:
		panic("check: unknown TopLevel kind")
	}
}

func (c *Checker) checkExpr(expr ast.Expr) (types.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return c.store.Bool(), nil

	case *ast.Variable:
		v, ok := c.bindings.Get(e.Name)
		if !ok {
			return types.Value{}, errors.Newf(errors.UndefinedVariable, e.NamePos, "undefined variable %s", e.Name)
		}
		return v, nil

	case *ast.Record:
		seen := make(map[string]bool, len(e.Fields))
		fields := make([]types.FieldValue, 0, len(e.Fields))
		for _, f := range e.Fields {
			if seen[f.Name] {
				return types.Value{}, errors.Newf(errors.RepeatedFieldName, f.NamePos, "repeated field name %s", f.Name)
			}
			seen[f.Name] = true

			v, err := c.checkExpr(f.Value)
			if err != nil {
				return types.Value{}, err
			}
			fields = append(fields, types.FieldValue{Name: f.Name, Value: v})
		}
		return c.store.Obj(fields), nil

	case *ast.Case:
		v, err := c.checkExpr(e.Payload)
		if err != nil {
			return types.Value{}, err
		}
		return c.store.Case(e.Tag, v), nil

	case *ast.If:
		condType, err := c.checkExpr(e.Cond)
		if err != nil {
			return types.Value{}, err
		}
		if err := c.store.Flow(condType, c.store.BoolUse()); err != nil {
			return types.Value{}, asCheckError(err)
		}

		thenType, err := c.checkExpr(e.Then)
		if err != nil {
			return types.Value{}, err
		}
		elseType, err := c.checkExpr(e.Else)
		if err != nil {
			return types.Value{}, err
		}

		merged, mergedBound := c.store.Var()
		if err := c.store.Flow(thenType, mergedBound); err != nil {
			return types.Value{}, asCheckError(err)
		}
		if err := c.store.Flow(elseType, mergedBound); err != nil {
			return types.Value{}, asCheckError(err)
		}
		return merged, nil

	case *ast.FieldAccess:
		lhsType, err := c.checkExpr(e.Lhs)
		if err != nil {
			return types.Value{}, err
		}
		fieldType, fieldBound := c.store.Var()
		use := c.store.ObjUse(e.Name, fieldBound)
		if err := c.store.Flow(lhsType, use); err != nil {
			return types.Value{}, asCheckError(err)
		}
		return fieldType, nil

	case *ast.Match:
		matchType, err := c.checkExpr(e.Scrutinee)
		if err != nil {
			return types.Value{}, err
		}
		resultType, resultBound := c.store.Var()

		seen := make(map[string]bool, len(e.Arms))
		arms := make([]types.CaseUseArm, 0, len(e.Arms))
		for _, arm := range e.Arms {
			if seen[arm.Bound] {
				return types.Value{}, errors.Newf(errors.RepeatedMatchCase, arm.TagPos, "repeated match case %s", arm.Bound)
			}
			seen[arm.Bound] = true

			wrappedType, wrappedBound := c.store.Var()
			arms = append(arms, types.CaseUseArm{Tag: arm.Tag, Use: wrappedBound})

			bodyType, err := bind.InChildScope(c.bindings, func(b *bind.Env) (types.Value, error) {
				b.Insert(arm.Bound, wrappedType)
				return c.checkExpr(arm.Body)
			})
			if err != nil {
				return types.Value{}, err
			}
			if err := c.store.Flow(bodyType, resultBound); err != nil {
				return types.Value{}, asCheckError(err)
			}
		}

		use := c.store.CaseUse(arms)
		if err := c.store.Flow(matchType, use); err != nil {
			return types.Value{}, asCheckError(err)
		}
		return resultType, nil

	case *ast.FuncDef:
		argType, argBound := c.store.Var()
		bodyType, err := bind.InChildScope(c.bindings, func(b *bind.Env) (types.Value, error) {
			b.Insert(e.Arg, argType)
			return c.checkExpr(e.Body)
		})
		if err != nil {
			return types.Value{}, err
		}
		return c.store.Func(argBound, bodyType), nil

	case *ast.Call:
		funcType, err := c.checkExpr(e.Func)
		if err != nil {
			return types.Value{}, err
		}
		argType, err := c.checkExpr(e.Arg)
		if err != nil {
			return types.Value{}, err
		}
		retType, retBound := c.store.Var()
		use := c.store.FuncUse(argType, retBound)
		if err := c.store.Flow(funcType, use); err != nil {
			return types.Value{}, asCheckError(err)
		}
		return retType, nil

	case *ast.Let:
		varType, err := c.checkExpr(e.Value)
		if err != nil {
			return types.Value{}, err
		}
		return bind.InChildScope(c.bindings, func(b *bind.Env) (types.Value, error) {
			b.Insert(e.Name, varType)
			return c.checkExpr(e.Body)
		})

	case *ast.LetRec:
		return bind.InChildScope(c.bindings, func(b *bind.Env) (types.Value, error) {
			bounds := make([]types.Use, len(e.Defs))
			for i, def := range e.Defs {
				tv, tb := c.store.Var()
				b.Insert(def.Name, tv)
				bounds[i] = tb
			}
			for i, def := range e.Defs {
				v, err := c.checkExpr(def.Value)
				if err != nil {
					return types.Value{}, err
				}
				if err := c.store.Flow(v, bounds[i]); err != nil {
					return types.Value{}, asCheckError(err)
				}
			}
			return c.checkExpr(e.Body)
		})

	default:
		panic("check: unknown Expr kind")
	}
}

// asCheckError converts a *types.TypeError (position-agnostic, per
// spec.md's Non-goals) into a *errors.Error so callers have one uniform
// error type. The result carries token.NoPos; no caller in this module
// attaches a position to it afterwards.
func asCheckError(err error) error {
	te, ok := err.(*types.TypeError)
	if !ok {
		return err
	}
	kind := errors.HeadMismatch
	switch te.Kind {
	case types.ErrMissingField:
		kind = errors.MissingField
	case types.ErrUnhandledCase:
		kind = errors.UnhandledCase
	case types.ErrHeadMismatch:
		kind = errors.HeadMismatch
	}
	return errors.Newf(kind, token.NoPos, "%s", te.Message)
}
