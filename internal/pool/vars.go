package pool

import "github.com/sunholo/corec/internal/ident"

// VarKind is the state a type-variable slot is currently in (§3.1).
type VarKind uint8

const (
	VarUnbound VarKind = iota
	VarLink
	VarRigid
	VarGeneralized
)

// VarState is the side-table entry a Var/RigidVar/BoundVar cell points
// at. Apart from Named resolutions it is the only thing in the pool that
// is ever mutated in place after interning (by Link, during unification,
// and by GeneralizeVar, during generalization).
type VarState struct {
	Kind   VarKind
	ID     uint32
	Name   ident.Name // 0 (ident.Empty) if unnamed
	Level  uint32
	Target Idx // valid only when Kind == VarLink
}

func (p *Pool) newVarState(kind VarKind, name ident.Name, level uint32) uint32 {
	slot := uint32(len(p.varStates))
	id := p.nextVarID
	p.nextVarID++
	p.varStates = append(p.varStates, VarState{Kind: kind, ID: id, Name: name, Level: level})
	return slot
}

// FreshVar allocates a new Unbound unification variable at the given
// let-generalization level.
func (p *Pool) FreshVar(level uint32) Idx {
	slot := p.newVarState(VarUnbound, ident.Empty, level)
	return p.push(cell{tag: Var, a: slot})
}

// RigidVar allocates a rigid (user-quantified) variable. Rigid variables
// are never hash-consed: two `RigidVar` calls with the same name are
// distinct binding sites (e.g. two different generic functions each
// quantifying over a variable spelled `T`).
func (p *Pool) RigidVar(name ident.Name) Idx {
	slot := p.newVarState(VarRigid, name, 0)
	return p.push(cell{tag: RigidVar, a: slot})
}

// BoundVar allocates a variable reference standing for a generalized
// position inside a Scheme's body, addressed by id rather than by
// identity — used when a caller wants de Bruijn-style generalized
// variables instead of reusing the original Var index (the default path
// taken by Generalize, see infer.Generalize, does not need this).
func (p *Pool) BoundVar(id uint32, name ident.Name) Idx {
	slot := p.newVarState(VarGeneralized, name, 0)
	p.varStates[slot].ID = id
	return p.push(cell{tag: BoundVar, a: slot})
}

// VarState returns the current state of a Var/RigidVar/BoundVar index.
func (p *Pool) VarState(idx Idx) VarState {
	return p.varStates[p.cells[idx].a]
}

// Link sets an Unbound variable's state to Link(target). Panics if idx
// does not reference a Var cell in Unbound state — linking a Rigid or
// already-linked variable is a unifier bug, not a recoverable condition.
func (p *Pool) Link(idx, target Idx) {
	c := p.cells[idx]
	if c.tag != Var {
		panic("pool: Link called on a non-Var index")
	}
	st := &p.varStates[c.a]
	if st.Kind != VarUnbound {
		panic("pool: Link called on a variable that is not Unbound")
	}
	st.Kind = VarLink
	st.Target = target
}

// GeneralizeVar marks an Unbound variable as Generalized in place, the
// way let-generalization closes over a free inference variable without
// rewriting the scheme body's cells (see DESIGN.md Open Question #2:
// Scheme bodies keep plain Var cells rather than being rewritten to
// BoundVar). Panics if idx is not an Unbound Var — generalizing a
// variable that unification has already linked, or that is already
// rigid/generalized, is a compiler bug.
func (p *Pool) GeneralizeVar(idx Idx) {
	c := p.cells[idx]
	if c.tag != Var {
		panic("pool: GeneralizeVar called on a non-Var index")
	}
	st := &p.varStates[c.a]
	if st.Kind != VarUnbound {
		panic("pool: GeneralizeVar called on a variable that is not Unbound")
	}
	st.Kind = VarGeneralized
}

// Underlying follows Link chains on a Var index, returning idx
// unchanged for any other tag. Exported for callers outside the pool
// (e.g. the trait registry's coherence check) that need to see through
// unification links without re-deriving the normalization rule.
func (p *Pool) Underlying(idx Idx) Idx { return p.normalize(idx) }

// IsVar reports whether idx's tag is one of the three variable shapes.
func (p *Pool) IsVar(idx Idx) bool {
	switch p.cells[idx].tag {
	case Var, RigidVar, BoundVar:
		return true
	default:
		return false
	}
}
