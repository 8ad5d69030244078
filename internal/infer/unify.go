package infer

import (
	"github.com/sunholo/corec/internal/diag"
	"github.com/sunholo/corec/internal/pool"
)

// Unifier threads a *pool.Pool through classical first-order unification
// with occurs-check and Link-based path compression (§4.3).
type Unifier struct {
	pool  *pool.Pool
	phase string
}

// NewUnifier creates a Unifier bound to p. phase names the caller's
// diagnostic phase (e.g. "infer") for reports produced on failure.
func NewUnifier(p *pool.Pool, phase string) *Unifier {
	return &Unifier{pool: p, phase: phase}
}

// Unify attempts to make a and b equal by linking Unbound variables,
// following §4.3's algorithm. On success every newly-bound variable has
// had Link set on the pool; on failure no partial links survive beyond
// what had already succeeded before the failing sub-unification (the
// pool does not support rollback, matching the teacher's accumulate-and-
// continue error policy of §7: a failed unification still leaves the
// already-unified prefix in place, and the caller sets the node's type
// to Error and moves on).
func (u *Unifier) Unify(a, b pool.Idx) error {
	a = u.pool.Underlying(a)
	b = u.pool.Underlying(b)

	if a == b {
		return nil
	}

	// Error unifies with everything (§3.1 invariant, for recovery).
	if a == pool.ErrorIdx || b == pool.ErrorIdx {
		return nil
	}
	// Never unifies with any expected type in one direction.
	if a == pool.NeverIdx || b == pool.NeverIdx {
		return nil
	}

	if u.pool.IsVar(a) {
		return u.bindVar(a, b)
	}
	if u.pool.IsVar(b) {
		return u.bindVar(b, a)
	}

	tagA, tagB := u.pool.Tag(a), u.pool.Tag(b)
	if tagA != tagB {
		return u.mismatch(a, b)
	}

	switch tagA {
	case pool.Int, pool.Float, pool.Bool, pool.Char, pool.Byte, pool.Str,
		pool.Unit, pool.Never, pool.Error, pool.Duration, pool.Size, pool.Ordering:
		return nil // same primitive sentinel index, already handled by a == b

	case pool.Option:
		return u.Unify(u.pool.OptionInner(a), u.pool.OptionInner(b))
	case pool.Range:
		return u.Unify(u.pool.RangeElem(a), u.pool.RangeElem(b))
	case pool.Set:
		return u.Unify(u.pool.SetElem(a), u.pool.SetElem(b))
	case pool.Channel:
		return u.Unify(u.pool.ChannelElem(a), u.pool.ChannelElem(b))
	case pool.List:
		return u.Unify(u.pool.ListElem(a), u.pool.ListElem(b))

	case pool.Result:
		if err := u.Unify(u.pool.ResultOk(a), u.pool.ResultOk(b)); err != nil {
			return err
		}
		return u.Unify(u.pool.ResultErr(a), u.pool.ResultErr(b))
	case pool.Map:
		if err := u.Unify(u.pool.MapKey(a), u.pool.MapKey(b)); err != nil {
			return err
		}
		return u.Unify(u.pool.MapValue(a), u.pool.MapValue(b))

	case pool.Tuple:
		ea, eb := u.pool.TupleElems(a), u.pool.TupleElems(b)
		if len(ea) != len(eb) {
			return u.arity(a, b, len(ea), len(eb))
		}
		for i := range ea {
			if err := u.Unify(ea[i], eb[i]); err != nil {
				return err
			}
		}
		return nil

	case pool.Function:
		pa, pb := u.pool.FunctionParams(a), u.pool.FunctionParams(b)
		if len(pa) != len(pb) {
			return u.arity(a, b, len(pa), len(pb))
		}
		for i := range pa {
			if err := u.Unify(pa[i], pb[i]); err != nil {
				return err
			}
		}
		return u.Unify(u.pool.FunctionReturn(a), u.pool.FunctionReturn(b))

	case pool.Struct:
		if u.pool.StructName(a) != u.pool.StructName(b) {
			return u.mismatch(a, b)
		}
		return nil // hash-consed: equal name+fields already implies a == b

	case pool.Enum:
		if u.pool.EnumName(a) != u.pool.EnumName(b) {
			return u.mismatch(a, b)
		}
		return nil

	case pool.Applied:
		aa, ab := u.pool.AppliedArgs(a), u.pool.AppliedArgs(b)
		if len(aa) != len(ab) {
			return u.arity(a, b, len(aa), len(ab))
		}
		if err := u.Unify(u.pool.AppliedCtor(a), u.pool.AppliedCtor(b)); err != nil {
			return err
		}
		for i := range aa {
			if err := u.Unify(aa[i], ab[i]); err != nil {
				return err
			}
		}
		return nil

	case pool.Named:
		if u.pool.NamedName(a) == u.pool.NamedName(b) {
			return nil
		}
		ra, aOk := u.pool.Resolve(a)
		rb, bOk := u.pool.Resolve(b)
		if aOk && bOk {
			return u.Unify(ra, rb)
		}
		return u.mismatch(a, b)

	case pool.Alias:
		return u.Unify(u.pool.AliasTarget(a), u.pool.AliasTarget(b))

	default:
		return u.mismatch(a, b)
	}
}

// bindVar binds an Unbound variable vr to other, after an occurs check.
// Rigid variables only unify with themselves (handled by the a == b
// check above); reaching bindVar with a Rigid vr means the two sides
// differ, which is a rigid-mismatch error, not a bindable occurrence.
func (u *Unifier) bindVar(vr, other pool.Idx) error {
	st := u.pool.VarState(vr)
	switch st.Kind {
	case pool.VarRigid:
		return diag.WrapReport(diag.New(diag.E2007RigidMismatch, u.phase,
			"cannot unify rigid type variable with a different type").
			WithData("rigid", u.pool.FormatType(vr)).
			WithData("found", u.pool.FormatType(other)))
	case pool.VarGeneralized:
		return diag.WrapReport(diag.New(diag.E2007RigidMismatch, u.phase,
			"cannot unify a generalized scheme variable outside instantiation").
			WithData("variable", u.pool.FormatType(vr)))
	case pool.VarLink:
		return u.Unify(st.Target, other)
	}

	if u.pool.IsVar(other) {
		otherSt := u.pool.VarState(other)
		if otherSt.Kind == pool.VarLink {
			return u.bindVar(vr, otherSt.Target)
		}
	}

	if occurs(u.pool, vr, other) {
		return diag.WrapReport(diag.New(diag.E2004OccursCheck, u.phase,
			"infinite type: occurs check failed").
			WithData("variable", u.pool.FormatType(vr)).
			WithData("type", u.pool.FormatType(other)))
	}

	u.pool.Link(vr, other)
	return nil
}

func (u *Unifier) mismatch(a, b pool.Idx) error {
	return diag.WrapReport(diag.NewTypeMismatch(u.phase, u.pool.FormatType(a), u.pool.FormatType(b)))
}

func (u *Unifier) arity(a, b pool.Idx, na, nb int) error {
	return diag.WrapReport(diag.New(diag.E2003ArityMismatch, u.phase, "arity mismatch").
		WithData("expected", na).
		WithData("found", nb).
		WithData("left", u.pool.FormatType(a)).
		WithData("right", u.pool.FormatType(b)))
}
