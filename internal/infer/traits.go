package infer

import (
	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pool"
	"github.com/sunholo/corec/internal/registry"
)

// ResolveSelfInDefault substitutes every pool.SelfType occurrence within
// a defaulted type parameter's parsed default type with selfType, per
// §4.3 trait registration: "resolve Self substitutions in defaulted type
// parameters" at impl-registration time (defaults may reference Self,
// per §3.3).
func ResolveSelfInDefault(p *pool.Pool, def, selfType pool.Idx) pool.Idx {
	if def == pool.None {
		return def
	}
	memo := make(map[pool.Idx]pool.Idx)
	return resolveSelf(p, def, selfType, memo)
}

func resolveSelf(p *pool.Pool, idx, selfType pool.Idx, memo map[pool.Idx]pool.Idx) pool.Idx {
	if p.Tag(idx) == pool.SelfType {
		return selfType
	}
	if done, ok := memo[idx]; ok {
		return done
	}

	switch p.Tag(idx) {
	case pool.Option:
		return p.Option(resolveSelf(p, p.OptionInner(idx), selfType, memo))
	case pool.Range:
		return p.RangeOf(resolveSelf(p, p.RangeElem(idx), selfType, memo))
	case pool.Set:
		return p.SetOf(resolveSelf(p, p.SetElem(idx), selfType, memo))
	case pool.Channel:
		return p.Channel(resolveSelf(p, p.ChannelElem(idx), selfType, memo))
	case pool.List:
		return p.ListOf(resolveSelf(p, p.ListElem(idx), selfType, memo))
	case pool.Result:
		return p.Result(resolveSelf(p, p.ResultOk(idx), selfType, memo), resolveSelf(p, p.ResultErr(idx), selfType, memo))
	case pool.Map:
		return p.MapOf(resolveSelf(p, p.MapKey(idx), selfType, memo), resolveSelf(p, p.MapValue(idx), selfType, memo))
	case pool.Tuple:
		elems := p.TupleElems(idx)
		out := make([]pool.Idx, len(elems))
		for i, e := range elems {
			out[i] = resolveSelf(p, e, selfType, memo)
		}
		return p.Tuple(out)
	case pool.Function:
		params := p.FunctionParams(idx)
		out := make([]pool.Idx, len(params))
		for i, e := range params {
			out[i] = resolveSelf(p, e, selfType, memo)
		}
		return p.Function(out, resolveSelf(p, p.FunctionReturn(idx), selfType, memo))
	case pool.Applied:
		ctor := resolveSelf(p, p.AppliedCtor(idx), selfType, memo)
		args := p.AppliedArgs(idx)
		out := make([]pool.Idx, len(args))
		for i, a := range args {
			out[i] = resolveSelf(p, a, selfType, memo)
		}
		return p.Applied(ctor, out)
	default:
		return idx
	}
}

// SatisfiesBound reports whether some impl of traitName registered in
// reg applies to selfType — "is selfType: traitName satisfied?" (§4.3:
// "internal/infer's real unifier is reused ... for all trait-bound
// solving"). selfType is expected to already be fully resolved by the
// time bound-solving runs during inference, so a failed probe here
// links no variable that a caller still depends on.
func SatisfiesBound(p *pool.Pool, reg *registry.Registry, traitName ident.Name, selfType pool.Idx) bool {
	for _, impl := range reg.Impls(traitName) {
		u := NewUnifier(p, "registry")
		if u.Unify(impl.SelfType, selfType) == nil {
			return true
		}
	}
	return false
}
