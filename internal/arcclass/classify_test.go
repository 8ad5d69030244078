package arcclass_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/corec/internal/arcclass"
	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pool"
)

func newFixture() (*pool.Pool, *ident.Interner, *arcclass.Classifier) {
	in := ident.New()
	p := pool.New(in)
	return p, in, arcclass.New(p)
}

func TestPrimitivesAreScalar(t *testing.T) {
	p, _, c := newFixture()
	for _, idx := range []pool.Idx{
		pool.IntIdx, pool.FloatIdx, pool.BoolIdx, pool.CharIdx, pool.ByteIdx,
		pool.UnitIdx, pool.NeverIdx, pool.ErrorIdx, pool.DurationIdx, pool.SizeIdx, pool.OrderingIdx,
	} {
		require.Equal(t, arcclass.Scalar, c.Classify(idx), p.FormatType(idx))
	}
}

func TestStrIsDefiniteRef(t *testing.T) {
	_, _, c := newFixture()
	require.Equal(t, arcclass.DefiniteRef, c.Classify(pool.StrIdx))
}

func TestNoneSentinelIsScalar(t *testing.T) {
	_, _, c := newFixture()
	require.Equal(t, arcclass.Scalar, c.Classify(pool.None))
}

func TestListIsDefiniteRef(t *testing.T) {
	p, _, c := newFixture()
	require.Equal(t, arcclass.DefiniteRef, c.Classify(p.ListOf(pool.IntIdx)))
}

func TestMapIsDefiniteRef(t *testing.T) {
	p, _, c := newFixture()
	require.Equal(t, arcclass.DefiniteRef, c.Classify(p.MapOf(pool.IntIdx, pool.IntIdx)))
}

func TestSetIsDefiniteRef(t *testing.T) {
	p, _, c := newFixture()
	require.Equal(t, arcclass.DefiniteRef, c.Classify(p.SetOf(pool.IntIdx)))
}

func TestChannelIsDefiniteRef(t *testing.T) {
	p, _, c := newFixture()
	require.Equal(t, arcclass.DefiniteRef, c.Classify(p.Channel(pool.IntIdx)))
}

func TestFunctionIsDefiniteRef(t *testing.T) {
	p, _, c := newFixture()
	fn := p.Function([]pool.Idx{pool.IntIdx}, pool.BoolIdx)
	require.Equal(t, arcclass.DefiniteRef, c.Classify(fn))
}

func TestOptionOfScalarIsScalar(t *testing.T) {
	p, _, c := newFixture()
	require.Equal(t, arcclass.Scalar, c.Classify(p.Option(pool.IntIdx)))
}

func TestOptionOfRefIsDefiniteRef(t *testing.T) {
	p, _, c := newFixture()
	require.Equal(t, arcclass.DefiniteRef, c.Classify(p.Option(pool.StrIdx)))
}

func TestOptionOfListIsDefiniteRef(t *testing.T) {
	p, _, c := newFixture()
	require.Equal(t, arcclass.DefiniteRef, c.Classify(p.Option(p.ListOf(pool.IntIdx))))
}

func TestResultOfScalarsIsScalar(t *testing.T) {
	p, _, c := newFixture()
	require.Equal(t, arcclass.Scalar, c.Classify(p.Result(pool.IntIdx, pool.BoolIdx)))
}

func TestResultWithRefOkIsDefiniteRef(t *testing.T) {
	p, _, c := newFixture()
	require.Equal(t, arcclass.DefiniteRef, c.Classify(p.Result(pool.StrIdx, pool.BoolIdx)))
}

func TestResultWithRefErrIsDefiniteRef(t *testing.T) {
	p, _, c := newFixture()
	require.Equal(t, arcclass.DefiniteRef, c.Classify(p.Result(pool.IntIdx, pool.StrIdx)))
}

func TestRangeOfScalarIsScalar(t *testing.T) {
	p, _, c := newFixture()
	require.Equal(t, arcclass.Scalar, c.Classify(p.RangeOf(pool.IntIdx)))
}

func TestTupleOfScalarsIsScalar(t *testing.T) {
	p, _, c := newFixture()
	tup := p.Tuple([]pool.Idx{pool.IntIdx, pool.FloatIdx, pool.BoolIdx})
	require.Equal(t, arcclass.Scalar, c.Classify(tup))
}

func TestTupleWithRefIsDefiniteRef(t *testing.T) {
	p, _, c := newFixture()
	tup := p.Tuple([]pool.Idx{pool.IntIdx, pool.StrIdx})
	require.Equal(t, arcclass.DefiniteRef, c.Classify(tup))
}

func TestEmptyTupleIsScalar(t *testing.T) {
	p, _, c := newFixture()
	tup := p.Tuple(nil)
	require.Equal(t, arcclass.Scalar, c.Classify(tup))
}

func TestStructAllScalarFieldsIsScalar(t *testing.T) {
	p, in, c := newFixture()
	name := in.Intern("Point")
	x, y := in.Intern("x"), in.Intern("y")
	st := p.StructType(name, []pool.StructField{{Name: x, Type: pool.IntIdx}, {Name: y, Type: pool.IntIdx}})
	require.Equal(t, arcclass.Scalar, c.Classify(st))
}

func TestStructWithRefFieldIsDefiniteRef(t *testing.T) {
	p, in, c := newFixture()
	name := in.Intern("Person")
	nm := in.Intern("name")
	st := p.StructType(name, []pool.StructField{{Name: nm, Type: pool.StrIdx}})
	require.Equal(t, arcclass.DefiniteRef, c.Classify(st))
}

func TestEnumAllUnitVariantsIsScalar(t *testing.T) {
	p, in, c := newFixture()
	name := in.Intern("Color")
	red, green := in.Intern("Red"), in.Intern("Green")
	en := p.EnumType(name, []pool.EnumVariant{{Name: red}, {Name: green}})
	require.Equal(t, arcclass.Scalar, c.Classify(en))
}

func TestEnumWithRefVariantIsDefiniteRef(t *testing.T) {
	p, in, c := newFixture()
	name := in.Intern("Shape")
	label := in.Intern("Label")
	payload := in.Intern("text")
	en := p.EnumType(name, []pool.EnumVariant{
		{Name: label, Fields: []pool.StructField{{Name: payload, Type: pool.StrIdx}}},
	})
	require.Equal(t, arcclass.DefiniteRef, c.Classify(en))
}

func TestEnumWithScalarPayloadsIsScalar(t *testing.T) {
	p, in, c := newFixture()
	name := in.Intern("Point2")
	variant := in.Intern("At")
	fx, fy := in.Intern("x"), in.Intern("y")
	en := p.EnumType(name, []pool.EnumVariant{
		{Name: variant, Fields: []pool.StructField{{Name: fx, Type: pool.IntIdx}, {Name: fy, Type: pool.IntIdx}}},
	})
	require.Equal(t, arcclass.Scalar, c.Classify(en))
}

func TestTypeVariableIsPossibleRef(t *testing.T) {
	p, _, c := newFixture()
	v := p.FreshVar(0)
	require.Equal(t, arcclass.PossibleRef, c.Classify(v))
}

func TestRigidVarIsPossibleRef(t *testing.T) {
	p, in, c := newFixture()
	v := p.RigidVar(in.Intern("T"))
	require.Equal(t, arcclass.PossibleRef, c.Classify(v))
}

func TestNamedTypeResolvedToScalarStruct(t *testing.T) {
	p, in, c := newFixture()
	name := in.Intern("Pair")
	x, y := in.Intern("x"), in.Intern("y")
	target := p.StructType(name, []pool.StructField{{Name: x, Type: pool.IntIdx}, {Name: y, Type: pool.IntIdx}})
	named := p.Named(name)
	p.SetResolution(named, target)
	require.Equal(t, arcclass.Scalar, c.Classify(named))
}

func TestNamedTypeResolvedToRefStruct(t *testing.T) {
	p, in, c := newFixture()
	name := in.Intern("Wrapper")
	f := in.Intern("inner")
	target := p.StructType(name, []pool.StructField{{Name: f, Type: pool.StrIdx}})
	named := p.Named(name)
	p.SetResolution(named, target)
	require.Equal(t, arcclass.DefiniteRef, c.Classify(named))
}

func TestUnresolvedNamedTypeIsPossibleRef(t *testing.T) {
	p, in, c := newFixture()
	named := p.Named(in.Intern("NotYetResolved"))
	require.Equal(t, arcclass.PossibleRef, c.Classify(named))
}

func TestNestedOptionOfScalarTupleIsScalar(t *testing.T) {
	p, _, c := newFixture()
	tup := p.Tuple([]pool.Idx{pool.IntIdx, pool.BoolIdx})
	require.Equal(t, arcclass.Scalar, c.Classify(p.Option(tup)))
}

func TestNestedResultOfOptionStrIsDefiniteRef(t *testing.T) {
	p, _, c := newFixture()
	opt := p.Option(pool.StrIdx)
	require.Equal(t, arcclass.DefiniteRef, c.Classify(p.Result(opt, pool.BoolIdx)))
}

func TestOptionOfTypeVariableIsPossibleRef(t *testing.T) {
	p, _, c := newFixture()
	v := p.FreshVar(0)
	require.Equal(t, arcclass.PossibleRef, c.Classify(p.Option(v)))
}

func TestTupleWithTypeVariableIsPossibleRef(t *testing.T) {
	p, _, c := newFixture()
	v := p.FreshVar(0)
	tup := p.Tuple([]pool.Idx{pool.IntIdx, v})
	require.Equal(t, arcclass.PossibleRef, c.Classify(tup))
}

func TestTupleWithRefAndVariableIsDefiniteRef(t *testing.T) {
	p, _, c := newFixture()
	v := p.FreshVar(0)
	tup := p.Tuple([]pool.Idx{pool.StrIdx, v})
	require.Equal(t, arcclass.DefiniteRef, c.Classify(tup))
}

func TestClassificationIsCached(t *testing.T) {
	p, _, c := newFixture()
	tup := p.Tuple([]pool.Idx{pool.IntIdx, pool.BoolIdx})
	first := c.Classify(tup)
	second := c.Classify(tup)
	require.Equal(t, first, second)
}

func TestRecursiveNamedTypeIsDefiniteRef(t *testing.T) {
	// A named type whose own struct payload refers back to itself (a
	// linked-list-style recursive type) must classify as DefiniteRef —
	// the cycle-detection visited-set path, not the memo path.
	p, in, c := newFixture()
	name := in.Intern("List")
	named := p.Named(name)
	next := in.Intern("next")
	head := in.Intern("head")
	target := p.StructType(name, []pool.StructField{
		{Name: head, Type: pool.IntIdx},
		{Name: next, Type: named},
	})
	p.SetResolution(named, target)
	require.Equal(t, arcclass.DefiniteRef, c.Classify(named))
}

func TestNeedsRCMatchesClassification(t *testing.T) {
	p, _, c := newFixture()
	require.False(t, c.NeedsRC(pool.IntIdx))
	require.True(t, c.NeedsRC(pool.StrIdx))
	require.True(t, c.NeedsRC(p.ListOf(pool.IntIdx)))
}

func TestIsScalarMatchesClassification(t *testing.T) {
	p, _, c := newFixture()
	require.True(t, c.IsScalar(pool.IntIdx))
	require.False(t, c.IsScalar(p.ListOf(pool.IntIdx)))
}
