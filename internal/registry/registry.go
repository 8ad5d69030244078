// Package registry implements the trait and impl registry of §3.3/§4.3:
// trait declarations, impl registration, coherence checking, and
// default type-parameter ordering validation.
package registry

import (
	"github.com/sunholo/corec/internal/canon"
	"github.com/sunholo/corec/internal/diag"
	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pool"
)

// TypeParam is a trait or impl's declared type parameter, with an
// optional default (pool.None if absent). Defaults may reference Self.
type TypeParam struct {
	Name    ident.Name
	Default pool.Idx
}

// Method is a method signature recorded by interned parameter/return
// type indices, plus whether a default body was supplied.
type Method struct {
	Name       ident.Name
	Params     []pool.Idx
	Return     pool.Idx
	HasDefault bool
}

// Trait is a trait declaration.
type Trait struct {
	Name        ident.Name
	Span        canon.Span
	TypeParams  []TypeParam
	SuperTraits []ident.Name
	Methods     []Method
	AssocTypes  []ident.Name
}

// Impl is an impl block: either of Trait (TraitName != ident.Empty) for
// SelfType, or an inherent impl (TraitName == ident.Empty).
type Impl struct {
	TraitName     ident.Name
	SelfType      pool.Idx
	Span          canon.Span
	Methods       []Method
	AssocBindings map[ident.Name]pool.Idx
}

// Registry holds every registered trait and impl for one compilation
// unit, queryable by trait name (Trait, Impls). Impls are indexed by
// trait name only; there is no lookup by self-type root.
type Registry struct {
	pool   *pool.Pool
	traits map[ident.Name]*Trait
	impls  map[ident.Name][]*Impl
}

// New creates an empty registry bound to p for coherence's structural
// overlap checks.
func New(p *pool.Pool) *Registry {
	return &Registry{
		pool:   p,
		traits: make(map[ident.Name]*Trait),
		impls:  make(map[ident.Name][]*Impl),
	}
}

// RegisterTrait validates default type-parameter ordering and records
// t. Returns an E2015 report if a non-defaulted parameter follows a
// defaulted one.
func (r *Registry) RegisterTrait(t *Trait) error {
	seenDefault := false
	for _, tp := range t.TypeParams {
		hasDefault := tp.Default != pool.None
		if !hasDefault && seenDefault {
			return diag.WrapReport(diag.New(diag.E2015DefaultOrdering, "registry",
				"type parameter without a default follows one with a default").
				WithSpan(t.Span).
				WithData("trait", t.Name).
				WithData("parameter", tp.Name))
		}
		if hasDefault {
			seenDefault = true
		}
	}
	r.traits[t.Name] = t
	return nil
}

// Trait looks up a registered trait by name.
func (r *Registry) Trait(name ident.Name) (*Trait, bool) {
	t, ok := r.traits[name]
	return t, ok
}

// Impls returns every impl registered for traitName (ident.Empty for
// inherent impls), in registration order.
func (r *Registry) Impls(traitName ident.Name) []*Impl {
	return r.impls[traitName]
}

// RegisterImpl validates associated-type completeness and coherence,
// then records impl. On a coherence violation the returned error's
// report carries a label pointing at the earlier conflicting impl's
// span (§3.3 invariant).
func (r *Registry) RegisterImpl(impl *Impl) error {
	if impl.TraitName != ident.Empty {
		t, ok := r.traits[impl.TraitName]
		if !ok {
			return diag.WrapReport(diag.New(diag.E2002UnknownIdentifier, "registry",
				"impl of unknown trait").WithSpan(impl.Span).WithData("trait", impl.TraitName))
		}
		for _, assoc := range t.AssocTypes {
			if _, bound := impl.AssocBindings[assoc]; !bound {
				return diag.WrapReport(diag.New(diag.E2009MissingAssocType, "registry",
					"impl missing required associated type").
					WithSpan(impl.Span).
					WithData("trait", impl.TraitName).
					WithData("associated_type", assoc))
			}
		}

		for _, existing := range r.impls[impl.TraitName] {
			if overlaps(r.pool, existing.SelfType, impl.SelfType) {
				return diag.WrapReport(diag.New(diag.E2010CoherenceViolation, "registry",
					"conflicting impl: overlapping self type for the same trait").
					WithSpan(impl.Span).
					WithLabel(existing.Span, "earlier impl here").
					WithData("trait", impl.TraitName))
			}
		}
	}

	r.impls[impl.TraitName] = append(r.impls[impl.TraitName], impl)
	return nil
}

// overlaps is the coherence check's structural overlap test. Each type
// variable occurrence is an independent wildcard that matches anything
// (a variable used twice is not required to match the same type both
// times, so this is not a full unifiability check). Different tags never
// overlap; Struct, Enum and Named compare by name only; the container,
// tuple, function and applied tags recurse into their children; any
// other tag (Alias included) overlaps only with the identical index.
func overlaps(p *pool.Pool, a, b pool.Idx) bool {
	a, b = p.Underlying(a), p.Underlying(b)
	if p.IsVar(a) || p.IsVar(b) {
		return true
	}
	ta, tb := p.Tag(a), p.Tag(b)
	if ta != tb {
		return false
	}
	switch ta {
	case pool.Struct:
		return p.StructName(a) == p.StructName(b)
	case pool.Enum:
		return p.EnumName(a) == p.EnumName(b)
	case pool.Named:
		return p.NamedName(a) == p.NamedName(b)
	case pool.Option:
		return overlaps(p, p.OptionInner(a), p.OptionInner(b))
	case pool.Range:
		return overlaps(p, p.RangeElem(a), p.RangeElem(b))
	case pool.Set:
		return overlaps(p, p.SetElem(a), p.SetElem(b))
	case pool.Channel:
		return overlaps(p, p.ChannelElem(a), p.ChannelElem(b))
	case pool.List:
		return overlaps(p, p.ListElem(a), p.ListElem(b))
	case pool.Result:
		return overlaps(p, p.ResultOk(a), p.ResultOk(b)) && overlaps(p, p.ResultErr(a), p.ResultErr(b))
	case pool.Map:
		return overlaps(p, p.MapKey(a), p.MapKey(b)) && overlaps(p, p.MapValue(a), p.MapValue(b))
	case pool.Tuple:
		ea, eb := p.TupleElems(a), p.TupleElems(b)
		if len(ea) != len(eb) {
			return false
		}
		for i := range ea {
			if !overlaps(p, ea[i], eb[i]) {
				return false
			}
		}
		return true
	case pool.Function:
		pa, pb := p.FunctionParams(a), p.FunctionParams(b)
		if len(pa) != len(pb) {
			return false
		}
		for i := range pa {
			if !overlaps(p, pa[i], pb[i]) {
				return false
			}
		}
		return overlaps(p, p.FunctionReturn(a), p.FunctionReturn(b))
	case pool.Applied:
		aa, ab := p.AppliedArgs(a), p.AppliedArgs(b)
		if len(aa) != len(ab) {
			return false
		}
		if !overlaps(p, p.AppliedCtor(a), p.AppliedCtor(b)) {
			return false
		}
		for i := range aa {
			if !overlaps(p, aa[i], ab[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
