package dtree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/corec/internal/dtree"
	"github.com/sunholo/corec/internal/ident"
)

func TestOptionMatchProducesSwitchWithNoDefault(t *testing.T) {
	in := ident.New()
	some, none := in.Intern("Some"), in.Intern("None")
	x := in.Intern("x")

	m := dtree.Matrix{
		Paths: []dtree.Path{{}},
		Rows: []dtree.Row{
			{Arm: 0, Patterns: []dtree.FlatPattern{
				{Kind: dtree.Variant, VariantName: some, VariantIndex: 0, Fields: []dtree.FlatPattern{dtree.BindingPattern(x)}},
			}},
			{Arm: 1, Patterns: []dtree.FlatPattern{
				{Kind: dtree.Variant, VariantName: none, VariantIndex: 1},
			}},
		},
	}

	tree := dtree.Compile(m)
	sw, ok := tree.(dtree.Switch)
	require.True(t, ok)
	require.Equal(t, dtree.TestEnumTag, sw.Kind)
	require.Nil(t, sw.Default)
	require.Len(t, sw.Edges, 2)

	someEdge := sw.Edges[0]
	require.Equal(t, some, someEdge.Value.Variant)
	leaf, ok := someEdge.Subtree.(dtree.Leaf)
	require.True(t, ok)
	require.Equal(t, 0, leaf.ArmIndex)
	require.Len(t, leaf.Bindings, 1)
	require.Equal(t, x, leaf.Bindings[0].Name)
	require.Equal(t, dtree.VariantPayload, leaf.Bindings[0].Path[0].Kind)

	noneEdge := sw.Edges[1]
	noneLeaf, ok := noneEdge.Subtree.(dtree.Leaf)
	require.True(t, ok)
	require.Equal(t, 1, noneLeaf.ArmIndex)
}

func TestEmptyMatrixProducesFail(t *testing.T) {
	tree := dtree.Compile(dtree.Matrix{Paths: []dtree.Path{{}}})
	_, ok := tree.(dtree.Fail)
	require.True(t, ok)
}

func TestSingleWildcardArmIsLeafWithNoPath(t *testing.T) {
	m := dtree.Matrix{
		Paths: []dtree.Path{},
		Rows:  []dtree.Row{{Arm: 0, Patterns: []dtree.FlatPattern{}}},
	}
	tree := dtree.Compile(m)
	leaf, ok := tree.(dtree.Leaf)
	require.True(t, ok)
	require.Equal(t, 0, leaf.ArmIndex)
	require.Empty(t, leaf.Bindings)
}

func TestTupleDecomposesInPlace(t *testing.T) {
	in := ident.New()
	a, b := in.Intern("a"), in.Intern("b")
	m := dtree.Matrix{
		Paths: []dtree.Path{{}},
		Rows: []dtree.Row{
			{Arm: 0, Patterns: []dtree.FlatPattern{
				{Kind: dtree.Tuple, Elements: []dtree.FlatPattern{dtree.BindingPattern(a), dtree.BindingPattern(b)}},
			}},
		},
	}
	tree := dtree.Compile(m)
	leaf, ok := tree.(dtree.Leaf)
	require.True(t, ok)
	require.Len(t, leaf.Bindings, 2)
	require.Equal(t, dtree.TupleElem, leaf.Bindings[0].Path[0].Kind)
	require.Equal(t, 0, leaf.Bindings[0].Path[0].Index)
	require.Equal(t, 1, leaf.Bindings[1].Path[0].Index)
}

func TestGuardWrapsLeafAndChainsOnFail(t *testing.T) {
	in := ident.New()
	x := in.Intern("x")
	m := dtree.Matrix{
		Paths: []dtree.Path{{}},
		Rows: []dtree.Row{
			{Arm: 0, HasGuard: true, Guard: dtree.ExprRef(42), Patterns: []dtree.FlatPattern{dtree.BindingPattern(x)}},
			{Arm: 1, Patterns: []dtree.FlatPattern{dtree.WildcardPattern()}},
		},
	}
	tree := dtree.Compile(m)
	guard, ok := tree.(dtree.Guard)
	require.True(t, ok)
	require.Equal(t, 0, guard.ArmIndex)
	require.Equal(t, dtree.ExprRef(42), guard.Expr)
	require.Len(t, guard.Bindings, 1)

	onFail, ok := guard.OnFail.(dtree.Leaf)
	require.True(t, ok)
	require.Equal(t, 1, onFail.ArmIndex)
}

func TestOrPatternReachesSameArmFromMultipleEdges(t *testing.T) {
	m := dtree.Matrix{
		Paths: []dtree.Path{{}},
		Rows: []dtree.Row{
			{Arm: 0, Patterns: []dtree.FlatPattern{
				{Kind: dtree.Or, Alternatives: []dtree.FlatPattern{
					{Kind: dtree.Int, IntVal: 1},
					{Kind: dtree.Int, IntVal: 2},
				}},
			}},
			{Arm: 1, Patterns: []dtree.FlatPattern{dtree.WildcardPattern()}},
		},
	}
	tree := dtree.Compile(m)
	sw, ok := tree.(dtree.Switch)
	require.True(t, ok)
	require.Len(t, sw.Edges, 2)
	for _, e := range sw.Edges {
		leaf, ok := e.Subtree.(dtree.Leaf)
		require.True(t, ok)
		require.Equal(t, 0, leaf.ArmIndex)
	}
	require.NotNil(t, sw.Default)
}

func TestPickColumnPrefersMostDistinctConstructors(t *testing.T) {
	// Column 0 has 1 distinct value (both rows literal 1); column 1 has 2
	// distinct values (1 vs 2) — the heuristic should switch on column 1.
	m := dtree.Matrix{
		Paths: []dtree.Path{{{Kind: dtree.TupleElem, Index: 0}}, {{Kind: dtree.TupleElem, Index: 1}}},
		Rows: []dtree.Row{
			{Arm: 0, Patterns: []dtree.FlatPattern{{Kind: dtree.Int, IntVal: 1}, {Kind: dtree.Int, IntVal: 1}}},
			{Arm: 1, Patterns: []dtree.FlatPattern{{Kind: dtree.Int, IntVal: 1}, {Kind: dtree.Int, IntVal: 2}}},
		},
	}
	tree := dtree.Compile(m)
	sw, ok := tree.(dtree.Switch)
	require.True(t, ok)
	require.Equal(t, 1, sw.Path[0].Index)
}

func TestStructDecomposesFieldsInDeclOrder(t *testing.T) {
	in := ident.New()
	xField, yField := in.Intern("x"), in.Intern("y")
	xb, yb := in.Intern("xb"), in.Intern("yb")
	m := dtree.Matrix{
		Paths: []dtree.Path{{}},
		Rows: []dtree.Row{
			{Arm: 0, Patterns: []dtree.FlatPattern{
				{Kind: dtree.Struct, Struct: []dtree.StructFieldPattern{
					{Name: xField, Pattern: dtree.BindingPattern(xb)},
					{Name: yField, Pattern: dtree.BindingPattern(yb)},
				}},
			}},
		},
	}
	tree := dtree.Compile(m)
	leaf := tree.(dtree.Leaf)
	require.Len(t, leaf.Bindings, 2)
	require.Equal(t, dtree.StructField, leaf.Bindings[0].Path[0].Kind)
	require.Equal(t, xb, leaf.Bindings[0].Name)
	require.Equal(t, yb, leaf.Bindings[1].Name)
}
