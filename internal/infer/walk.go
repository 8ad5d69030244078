package infer

import "github.com/sunholo/corec/internal/pool"

// children returns the immediate child type indices of idx, per its
// tag's shape. Named references are deliberately not expanded here —
// occurs and collectFreeVars each decide for themselves whether to
// follow a Named resolution, guarded by their own visited sets, since
// a recursive named type (e.g. a cons-list struct) would otherwise
// walk forever.
func children(p *pool.Pool, idx pool.Idx) []pool.Idx {
	switch p.Tag(idx) {
	case pool.Option:
		return []pool.Idx{p.OptionInner(idx)}
	case pool.Range:
		return []pool.Idx{p.RangeElem(idx)}
	case pool.Set:
		return []pool.Idx{p.SetElem(idx)}
	case pool.Channel:
		return []pool.Idx{p.ChannelElem(idx)}
	case pool.List:
		return []pool.Idx{p.ListElem(idx)}
	case pool.Result:
		return []pool.Idx{p.ResultOk(idx), p.ResultErr(idx)}
	case pool.Map:
		return []pool.Idx{p.MapKey(idx), p.MapValue(idx)}
	case pool.Tuple:
		return append([]pool.Idx(nil), p.TupleElems(idx)...)
	case pool.Function:
		out := append([]pool.Idx(nil), p.FunctionParams(idx)...)
		return append(out, p.FunctionReturn(idx))
	case pool.Struct:
		fields := p.StructFields(idx)
		out := make([]pool.Idx, len(fields))
		for i, f := range fields {
			out[i] = f.Type
		}
		return out
	case pool.Enum:
		variants := p.EnumVariants(idx)
		var out []pool.Idx
		for _, v := range variants {
			for _, f := range v.Fields {
				out = append(out, f.Type)
			}
		}
		return out
	case pool.Applied:
		out := []pool.Idx{p.AppliedCtor(idx)}
		return append(out, p.AppliedArgs(idx)...)
	case pool.Alias:
		return []pool.Idx{p.AliasTarget(idx)}
	case pool.Scheme:
		return []pool.Idx{p.SchemeBody(idx)}
	default:
		return nil
	}
}

// collectFreeVars adds every Unbound Var reachable from idx (following
// Link, Alias, and resolved Named references) into free, using visiting
// to guard against recursive named types.
func collectFreeVars(p *pool.Pool, idx pool.Idx, free map[pool.Idx]struct{}, visiting map[pool.Idx]struct{}) {
	if idx == pool.None {
		return
	}
	idx = p.Underlying(idx)
	if _, seen := visiting[idx]; seen {
		return
	}
	visiting[idx] = struct{}{}

	if p.IsVar(idx) {
		if p.Tag(idx) == pool.Var && p.VarState(idx).Kind == pool.VarUnbound {
			free[idx] = struct{}{}
		}
		return
	}
	if p.Tag(idx) == pool.Named {
		if target, ok := p.Resolve(idx); ok {
			collectFreeVars(p, target, free, visiting)
		}
		return
	}
	for _, c := range children(p, idx) {
		collectFreeVars(p, c, free, visiting)
	}
}

// occurs reports whether target (an Unbound Var index) appears free
// within idx, following Link/Alias/Named references. Used by Unify's
// occurs check before linking a variable.
func occurs(p *pool.Pool, target, idx pool.Idx) bool {
	idx = p.Underlying(idx)
	return occursVisit(p, target, idx, make(map[pool.Idx]struct{}))
}

func occursVisit(p *pool.Pool, target, idx pool.Idx, visiting map[pool.Idx]struct{}) bool {
	if idx == target {
		return true
	}
	if _, seen := visiting[idx]; seen {
		return false
	}
	visiting[idx] = struct{}{}

	if p.Tag(idx) == pool.Named {
		if resolved, ok := p.Resolve(idx); ok && resolved != idx {
			return occursVisit(p, target, p.Underlying(resolved), visiting)
		}
		return false
	}
	for _, c := range children(p, idx) {
		if occursVisit(p, target, p.Underlying(c), visiting) {
			return true
		}
	}
	return false
}
