package pool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pool"
)

func newPool() (*pool.Pool, *ident.Interner) {
	in := ident.New()
	return pool.New(in), in
}

func TestPrimitiveSentinelsStable(t *testing.T) {
	p, _ := newPool()
	require.Equal(t, pool.IntIdx, pool.IntrinsicPrimitive(pool.Int))
	require.Equal(t, pool.StrIdx, pool.IntrinsicPrimitive(pool.Str))
	require.Equal(t, pool.Int, p.Tag(pool.IntIdx))
	require.Equal(t, pool.Str, p.Tag(pool.StrIdx))
}

func TestInterningIsDeterministic(t *testing.T) {
	p, _ := newPool()
	a := p.Tuple([]pool.Idx{pool.IntIdx, pool.BoolIdx})
	b := p.Tuple([]pool.Idx{pool.IntIdx, pool.BoolIdx})
	require.Equal(t, a, b)
}

func TestInterningDistinguishesShape(t *testing.T) {
	p, _ := newPool()
	a := p.Tuple([]pool.Idx{pool.IntIdx, pool.BoolIdx})
	b := p.Tuple([]pool.Idx{pool.BoolIdx, pool.IntIdx})
	require.NotEqual(t, a, b)
}

func TestOptionRoundTrip(t *testing.T) {
	p, _ := newPool()
	opt := p.Option(pool.IntIdx)
	require.Equal(t, pool.Option, p.Tag(opt))
	require.Equal(t, pool.IntIdx, p.OptionInner(opt))
}

func TestListIsHashConsed(t *testing.T) {
	p, _ := newPool()
	a := p.ListOf(pool.StrIdx)
	b := p.ListOf(pool.StrIdx)
	require.Equal(t, a, b)
}

func TestFunctionRoundTrip(t *testing.T) {
	p, _ := newPool()
	fn := p.Function([]pool.Idx{pool.IntIdx, pool.BoolIdx}, pool.StrIdx)
	require.Equal(t, []pool.Idx{pool.IntIdx, pool.BoolIdx}, p.FunctionParams(fn))
	require.Equal(t, pool.StrIdx, p.FunctionReturn(fn))
}

func TestStructFieldsRoundTrip(t *testing.T) {
	p, in := newPool()
	xName := in.Intern("x")
	yName := in.Intern("y")
	sName := in.Intern("Point")
	st := p.StructType(sName, []pool.StructField{
		{Name: xName, Type: pool.IntIdx},
		{Name: yName, Type: pool.IntIdx},
	})
	fields := p.StructFields(st)
	require.Len(t, fields, 2)
	require.Equal(t, xName, fields[0].Name)
	require.Equal(t, sName, p.StructName(st))
}

func TestNamedIsOnePerName(t *testing.T) {
	p, in := newPool()
	n := in.Intern("Widget")
	a := p.Named(n)
	b := p.Named(n)
	require.Equal(t, a, b)
}

func TestResolveUnboundNamedFails(t *testing.T) {
	p, in := newPool()
	n := in.Intern("Widget")
	named := p.Named(n)
	_, ok := p.Resolve(named)
	require.False(t, ok)
}

func TestResolveNamedAfterBinding(t *testing.T) {
	p, in := newPool()
	n := in.Intern("Widget")
	named := p.Named(n)
	target := p.StructType(n, nil)
	p.SetResolution(named, target)
	resolved, ok := p.Resolve(named)
	require.True(t, ok)
	require.Equal(t, target, resolved)
}

func TestAliasResolvesDirectly(t *testing.T) {
	p, in := newPool()
	n := in.Intern("MyInt")
	alias := p.Alias(n, pool.IntIdx)
	resolved, ok := p.Resolve(alias)
	require.True(t, ok)
	require.Equal(t, pool.IntIdx, resolved)
}

func TestFreshVarIsUnbound(t *testing.T) {
	p, _ := newPool()
	v := p.FreshVar(0)
	st := p.VarState(v)
	require.Equal(t, pool.VarUnbound, st.Kind)
}

func TestLinkChangesState(t *testing.T) {
	p, _ := newPool()
	v := p.FreshVar(0)
	p.Link(v, pool.IntIdx)
	st := p.VarState(v)
	require.Equal(t, pool.VarLink, st.Kind)
	require.Equal(t, pool.IntIdx, st.Target)
}

func TestLinkTwiceOnSameVarPanics(t *testing.T) {
	p, _ := newPool()
	v := p.FreshVar(0)
	p.Link(v, pool.IntIdx)
	require.Panics(t, func() { p.Link(v, pool.BoolIdx) })
}

func TestNormalizationThroughLinkHashConses(t *testing.T) {
	p, _ := newPool()
	v := p.FreshVar(0)
	a := p.ListOf(v)
	p.Link(v, pool.IntIdx)
	b := p.ListOf(pool.IntIdx)
	// Once v is linked to Int, a fresh List(Int) construction should
	// hash-cons to a different cell than the original List(v) — the
	// original cell's payload is fixed at interning time (append-only,
	// §3.1). But any *new* call normalizes through the link.
	require.NotEqual(t, a, b)
	require.Equal(t, b, p.ListOf(v))
}

func TestRigidVarDistinctPerCall(t *testing.T) {
	p, in := newPool()
	n := in.Intern("T")
	a := p.RigidVar(n)
	b := p.RigidVar(n)
	require.NotEqual(t, a, b)
}

func TestFormatTypePrimitive(t *testing.T) {
	p, _ := newPool()
	require.Equal(t, "Int", p.FormatType(pool.IntIdx))
}

func TestFormatTypeResolvedStruct(t *testing.T) {
	p, in := newPool()
	n := in.Intern("Point")
	st := p.StructType(n, nil)
	require.Equal(t, "Point", p.FormatTypeResolved(st, in))
}

func TestFormatTypeTuple(t *testing.T) {
	p, _ := newPool()
	tup := p.Tuple([]pool.Idx{pool.IntIdx, pool.BoolIdx})
	require.Equal(t, "(Int, Bool)", p.FormatType(tup))
}
