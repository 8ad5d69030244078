package ssa

import "github.com/sunholo/corec/internal/ident"

type binding struct {
	Var     VarID
	Mutable bool
}

// Scope is the lowerer's lexical scope (§4.5): a name → variable ID
// chain with a mutability flag per binding, used to decide which names
// need block parameters across control-flow merges.
type Scope struct {
	parent *Scope
	vars   map[ident.Name]binding
}

// NewScope creates an empty root scope.
func NewScope() *Scope { return &Scope{vars: make(map[ident.Name]binding)} }

// Child creates a nested scope (entering a block).
func (s *Scope) Child() *Scope { return &Scope{parent: s, vars: make(map[ident.Name]binding)} }

// Clone makes an independent copy of the live binding chain, used when
// lowering an if's two arms or a loop's body from a shared pre-branch
// scope (§4.5: "lowers each branch in a clone of the pre-branch
// scope").
func (s *Scope) Clone() *Scope {
	if s == nil {
		return nil
	}
	cp := &Scope{parent: s.parent.Clone(), vars: make(map[ident.Name]binding, len(s.vars))}
	for k, v := range s.vars {
		cp.vars[k] = v
	}
	return cp
}

// Bind introduces name in the current scope level.
func (s *Scope) Bind(name ident.Name, v VarID, mutable bool) {
	s.vars[name] = binding{Var: v, Mutable: mutable}
}

// Rebind updates name's current SSA variable without changing which
// scope level owns it (§4.5 "Assign ... updates the scope binding to a
// fresh Let SSA variable"). It searches outward through parents, since
// assignment may target a name bound in an enclosing scope.
func (s *Scope) Rebind(name ident.Name, v VarID) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			b.Var = v
			cur.vars[name] = b
			return
		}
	}
}

// Lookup finds name's current variable and mutability, searching
// outward through parents.
func (s *Scope) Lookup(name ident.Name) (VarID, bool, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return b.Var, b.Mutable, true
		}
	}
	return 0, false, false
}

// MutableNames returns every mutable name visible in s, used to decide
// which names need block parameters at an if-merge or loop header.
func (s *Scope) MutableNames() []ident.Name {
	seen := make(map[ident.Name]bool)
	var out []ident.Name
	for cur := s; cur != nil; cur = cur.parent {
		for name, b := range cur.vars {
			if seen[name] {
				continue
			}
			seen[name] = true
			if b.Mutable {
				out = append(out, name)
			}
		}
	}
	return out
}

// loopContext carries the state needed to lower break/continue (§4.5:
// "an optional loop context: exit block, continue block, and the set
// of mutable names live at loop entry").
type loopContext struct {
	parent       *loopContext
	exit, header BlockID
	mutableNames []ident.Name
}
