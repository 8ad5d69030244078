// Package infer implements §4.3: classical unification over the type
// pool with occurs-check and Link-based path compression,
// let-generalization, instantiation, and rigid-variable checking.
package infer

import (
	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pool"
)

// Env is a lexically-scoped binding environment mapping identifiers to
// either a monomorphic type or a polymorphic scheme, mirroring the
// teacher's internal/types.TypeEnv parent-chain design. A pool.Idx
// binding is either an ordinary type (any tag except Scheme) or a
// Scheme index — callers distinguish by checking the tag at lookup
// time (see Lookup).
type Env struct {
	parent   *Env
	bindings map[ident.Name]pool.Idx
}

// NewEnv creates an empty root environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[ident.Name]pool.Idx)}
}

// Extend returns a child environment with name bound to ty (or to a
// Scheme index), shadowing any outer binding of the same name.
func (e *Env) Extend(name ident.Name, ty pool.Idx) *Env {
	return &Env{parent: e, bindings: map[ident.Name]pool.Idx{name: ty}}
}

// Lookup searches this environment and its ancestors for name.
func (e *Env) Lookup(name ident.Name) (pool.Idx, bool) {
	for env := e; env != nil; env = env.parent {
		if ty, ok := env.bindings[name]; ok {
			return ty, true
		}
	}
	return pool.None, false
}

// FreeVars returns the set of Unbound variable indices reachable from
// every binding in e and its ancestors. Only Unbound variables count:
// Rigid variables belong to an enclosing quantification and are never
// re-generalized by an inner let (see DESIGN.md Open Question #2), and
// a binding that is itself a Scheme has its bound variables excluded
// since they are already quantified.
func (e *Env) FreeVars(p *pool.Pool) map[pool.Idx]struct{} {
	free := make(map[pool.Idx]struct{})
	for env := e; env != nil; env = env.parent {
		for _, ty := range env.bindings {
			collectFreeVars(p, ty, free, make(map[pool.Idx]struct{}))
		}
	}
	return free
}
