package infer

import "github.com/sunholo/corec/internal/pool"

// Generalize closes over every free Unbound variable of ty that is not
// free in env, producing a Scheme that quantifies them (§4.3). Matching
// DESIGN.md Open Question #2, the bound variables are marked
// Generalized in place via pool.GeneralizeVar rather than rewritten to
// fresh BoundVar cells — the scheme body keeps referencing the original
// Var indices.
func Generalize(p *pool.Pool, env *Env, ty pool.Idx) pool.Idx {
	envFree := env.FreeVars(p)

	tyFree := make(map[pool.Idx]struct{})
	collectFreeVars(p, ty, tyFree, make(map[pool.Idx]struct{}))

	var bound []pool.Idx
	for v := range tyFree {
		if _, inEnv := envFree[v]; inEnv {
			continue
		}
		p.GeneralizeVar(v)
		bound = append(bound, v)
	}
	if len(bound) == 0 {
		return ty
	}
	return p.Scheme(ty, bound)
}

// Instantiate substitutes a fresh Unbound variable (at level) for every
// bound variable of scheme, returning the instantiated body. If idx is
// not a Scheme, it is returned unchanged (a monomorphic binding).
func Instantiate(p *pool.Pool, idx pool.Idx, level uint32) pool.Idx {
	if p.Tag(idx) != pool.Scheme {
		return idx
	}
	bound := p.SchemeBound(idx)
	body := p.SchemeBody(idx)

	subst := make(map[pool.Idx]pool.Idx, len(bound))
	for _, b := range bound {
		subst[b] = p.FreshVar(level)
	}
	return substitute(p, body, subst, make(map[pool.Idx]pool.Idx))
}

// substitute rebuilds idx with every occurrence of a key in subst
// replaced by its fresh variable, re-interning compound cells through
// the pool so structural sharing and hash-consing are preserved. memo
// guards against re-walking shared sub-terms (and, via the Named case
// being excluded from recursion, against infinite named-type cycles).
func substitute(p *pool.Pool, idx pool.Idx, subst map[pool.Idx]pool.Idx, memo map[pool.Idx]pool.Idx) (out pool.Idx) {
	if repl, ok := subst[idx]; ok {
		return repl
	}
	if done, ok := memo[idx]; ok {
		return done
	}
	defer func() { memo[idx] = out }()

	switch p.Tag(idx) {
	case pool.Option:
		return p.Option(substitute(p, p.OptionInner(idx), subst, memo))
	case pool.Range:
		return p.RangeOf(substitute(p, p.RangeElem(idx), subst, memo))
	case pool.Set:
		return p.SetOf(substitute(p, p.SetElem(idx), subst, memo))
	case pool.Channel:
		return p.Channel(substitute(p, p.ChannelElem(idx), subst, memo))
	case pool.List:
		return p.ListOf(substitute(p, p.ListElem(idx), subst, memo))
	case pool.Result:
		return p.Result(
			substitute(p, p.ResultOk(idx), subst, memo),
			substitute(p, p.ResultErr(idx), subst, memo),
		)
	case pool.Map:
		return p.MapOf(
			substitute(p, p.MapKey(idx), subst, memo),
			substitute(p, p.MapValue(idx), subst, memo),
		)
	case pool.Tuple:
		elems := p.TupleElems(idx)
		out := make([]pool.Idx, len(elems))
		for i, e := range elems {
			out[i] = substitute(p, e, subst, memo)
		}
		return p.Tuple(out)
	case pool.Function:
		params := p.FunctionParams(idx)
		out := make([]pool.Idx, len(params))
		for i, e := range params {
			out[i] = substitute(p, e, subst, memo)
		}
		return p.Function(out, substitute(p, p.FunctionReturn(idx), subst, memo))
	case pool.Applied:
		ctor := substitute(p, p.AppliedCtor(idx), subst, memo)
		args := p.AppliedArgs(idx)
		out := make([]pool.Idx, len(args))
		for i, a := range args {
			out[i] = substitute(p, a, subst, memo)
		}
		return p.Applied(ctor, out)
	case pool.Alias:
		return p.Alias(p.AliasName(idx), substitute(p, p.AliasTarget(idx), subst, memo))
	default:
		// Struct/Enum/Named/Var/RigidVar/BoundVar/Scheme/special forms:
		// not rewritten. Struct/Enum fields are fixed by declaration (a
		// generic struct is expressed as Applied(Named(...), args), not
		// by instantiating the Struct cell's own field types directly);
		// Named/RigidVar/special forms carry no substitutable children.
		return idx
	}
}
