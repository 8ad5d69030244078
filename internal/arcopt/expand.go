package arcopt

import (
	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pool"
	"github.com/sunholo/corec/internal/ssa"
)

// ExpandAll lowers every Reset/Reuse pair remaining in f into the
// run-time uniqueness branch of §4.7, leaving no Reset/Reuse
// instruction behind (§8's "Expansion erases pairs" invariant).
//
// Each expansion processes one block at a time: a block containing a
// Reset is split into (shared prefix, fast path, slow path, merge),
// and the resulting blocks are appended to f.Blocks in place of the
// original. Blocks with no Reset are left untouched — a no-op on a
// function with no Reset/Reuse instructions, matching §8's boundary
// case.
func ExpandAll(f *ssa.Func, p *pool.Pool) {
	for bi := 0; bi < len(f.Blocks); bi++ {
		for containsReset(f.Blocks[bi].Body) {
			expandOne(f, ssa.BlockID(bi), p)
		}
	}
}

func containsReset(body []ssa.Instr) bool {
	for _, instr := range body {
		if _, ok := instr.(ssa.Reset); ok {
			return true
		}
	}
	return false
}

func expandOne(f *ssa.Func, blockID ssa.BlockID, p *pool.Pool) {
	orig := f.Blocks[blockID]
	body := orig.Body

	resetIdx := -1
	for i, instr := range body {
		if _, ok := instr.(ssa.Reset); ok {
			resetIdx = i
			break
		}
	}
	if resetIdx == -1 {
		return
	}
	reset := body[resetIdx].(ssa.Reset)

	reuseIdx := -1
	for j := resetIdx + 1; j < len(body); j++ {
		if r, ok := body[j].(ssa.Reuse); ok && r.Token == reset.Token {
			reuseIdx = j
			break
		}
	}
	if reuseIdx == -1 {
		return
	}
	reuse := body[reuseIdx].(ssa.Reuse)

	// §4.7 "Prefix/suffix reshuffling": instructions between Reset and
	// Reuse never depend on Reset.var's identity (detection's condition
	// 3 guarantees it), so they hoist unconditionally into the shared
	// prefix.
	prefix := append(append([]ssa.Instr{}, body[:resetIdx]...), body[resetIdx+1:reuseIdx]...)
	suffix := append([]ssa.Instr{}, body[reuseIdx+1:]...)

	isSharedVar := f.Fresh(pool.BoolIdx)
	prefix = append(prefix, ssa.IsShared{Dst: isSharedVar, Var: reset.Var})

	slowID := f.NewBlockAppend()
	fastID := f.NewBlockAppend()
	mergeID := f.NewBlockAppend()
	resultVar := f.Fresh(reuse.Ty)
	f.Blocks[mergeID].Params = []ssa.VarID{resultVar}

	f.Blocks[blockID].Body = prefix
	f.Blocks[blockID].Term = ssa.Branch{Cond: isSharedVar, Then: slowID, Else: fastID}

	// slow path: release the old cell and allocate fresh.
	newVar := f.Fresh(reuse.Ty)
	f.Blocks[slowID].Body = []ssa.Instr{
		ssa.RcDec{Var: reset.Var},
		ssa.Construct{Dst: newVar, Ty: reuse.Ty, Ctor: reuse.Ctor, Args: reuse.Args},
	}
	f.Blocks[slowID].Term = ssa.Jump{Target: mergeID, Args: []ssa.VarID{newVar}}

	// fast path: patch Reset.var's fields in place.
	f.Blocks[fastID].Body = fastPathPatches(f, reset.Var, reuse, prefix, p)
	f.Blocks[fastID].Term = ssa.Jump{Target: mergeID, Args: []ssa.VarID{reset.Var}}

	// merge: suffix instructions with Reuse.Dst substituted by the
	// block parameter, followed by the original terminator (likewise
	// substituted).
	mergedBody := substituteAll(suffix, reuse.Dst, resultVar)
	f.Blocks[mergeID].Body = mergedBody
	f.Blocks[mergeID].Term = substituteTerm(orig.Term, reuse.Dst, resultVar)
}

// fastPathPatches builds the fast-path field patches for reusing
// reset.var's storage in place (§4.7 "Fast-path patching").
func fastPathPatches(f *ssa.Func, resetVar ssa.VarID, reuse ssa.Reuse, prefix []ssa.Instr, p *pool.Pool) []ssa.Instr {
	var out []ssa.Instr

	if p != nil && p.Tag(reuse.Ty) == pool.Enum {
		if idx, ok := variantIndex(p, reuse.Ty, reuse.Ctor); ok {
			out = append(out, ssa.SetTag{Var: resetVar, Tag: idx})
		}
	}

	for i, arg := range reuse.Args {
		if selfSet(prefix, resetVar, i, arg) {
			// §4.7: "field is self-set — elide the Set entirely."
			continue
		}
		oldVal := f.Fresh(pool.None)
		out = append(out, ssa.Project{Dst: oldVal, Ty: pool.None, Value: resetVar, Field: i})
		out = append(out, ssa.RcDec{Var: oldVal})
		out = append(out, ssa.Set{Var: resetVar, Field: i, Value: arg})
	}
	return out
}

func variantIndex(p *pool.Pool, ty pool.Idx, ctor ident.Name) (int, bool) {
	for i, v := range p.EnumVariants(ty) {
		if v.Name == ctor {
			return i, true
		}
	}
	return 0, false
}

func selfSet(prefix []ssa.Instr, resetVar ssa.VarID, field int, arg ssa.VarID) bool {
	for _, instr := range prefix {
		if proj, ok := instr.(ssa.Project); ok && proj.Value == resetVar && proj.Field == field && proj.Dst == arg {
			return true
		}
	}
	return false
}

// substituteAll rewrites every use of old with replacement across a
// list of instructions.
func substituteAll(body []ssa.Instr, old, replacement ssa.VarID) []ssa.Instr {
	out := make([]ssa.Instr, len(body))
	for i, instr := range body {
		out[i] = substituteInstr(instr, old, replacement)
	}
	return out
}

func substituteInstr(instr ssa.Instr, old, replacement ssa.VarID) ssa.Instr {
	sub := func(v ssa.VarID) ssa.VarID {
		if v == old {
			return replacement
		}
		return v
	}
	subAll := func(vs []ssa.VarID) []ssa.VarID {
		out := make([]ssa.VarID, len(vs))
		for i, v := range vs {
			out[i] = sub(v)
		}
		return out
	}
	switch v := instr.(type) {
	case ssa.Let:
		switch val := v.Value.(type) {
		case ssa.VarRef:
			v.Value = ssa.VarRef{Var: sub(val.Var)}
		case ssa.PrimOp:
			v.Value = ssa.PrimOp{Op: val.Op, Args: subAll(val.Args)}
		}
		return v
	case ssa.Apply:
		v.Args = subAll(v.Args)
		return v
	case ssa.Project:
		v.Value = sub(v.Value)
		return v
	case ssa.Construct:
		v.Args = subAll(v.Args)
		return v
	case ssa.RcInc:
		v.Var = sub(v.Var)
		return v
	case ssa.RcDec:
		v.Var = sub(v.Var)
		return v
	case ssa.IsShared:
		v.Var = sub(v.Var)
		return v
	case ssa.Set:
		v.Var, v.Value = sub(v.Var), sub(v.Value)
		return v
	case ssa.SetTag:
		v.Var = sub(v.Var)
		return v
	default:
		return instr
	}
}

func substituteTerm(term ssa.Terminator, old, replacement ssa.VarID) ssa.Terminator {
	sub := func(v ssa.VarID) ssa.VarID {
		if v == old {
			return replacement
		}
		return v
	}
	switch t := term.(type) {
	case ssa.Return:
		return ssa.Return{Value: sub(t.Value)}
	case ssa.Jump:
		args := make([]ssa.VarID, len(t.Args))
		for i, a := range t.Args {
			args[i] = sub(a)
		}
		return ssa.Jump{Target: t.Target, Args: args}
	case ssa.Branch:
		return ssa.Branch{Cond: sub(t.Cond), Then: t.Then, Else: t.Else}
	default:
		return term
	}
}
