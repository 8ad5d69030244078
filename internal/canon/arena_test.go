package canon_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/corec/internal/canon"
	"github.com/sunholo/corec/internal/dtree"
	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pool"
)

func TestLiteralsRoundTrip(t *testing.T) {
	a := canon.NewArena()
	i := a.PushLitInt(42, canon.Zero)
	require.Equal(t, canon.LitInt, a.Kind(i))
	require.Equal(t, int64(42), a.LitInt(i))

	s := a.PushLitStr("hi", canon.Zero)
	require.Equal(t, "hi", a.LitStr(s))

	u := a.PushLitUnit(canon.Zero)
	require.Equal(t, canon.LitUnit, a.Kind(u))
}

func TestSetTypeOverwritesInferenceSlot(t *testing.T) {
	a := canon.NewArena()
	id := a.PushLitInt(1, canon.Zero)
	require.Equal(t, pool.None, a.Type(id))
	a.SetType(id, pool.IntIdx)
	require.Equal(t, pool.IntIdx, a.Type(id))
}

func TestBlockCarriesStatementsAndResult(t *testing.T) {
	in := ident.New()
	a := canon.NewArena()
	x := in.Intern("x")
	one := a.PushLitInt(1, canon.Zero)
	letStmt := canon.Stmt{Kind: canon.LetStmt, Name: x, Value: one}
	result := a.PushIdent(x, canon.Zero)
	block := a.PushBlock([]canon.Stmt{letStmt}, result, canon.Zero)

	require.Equal(t, canon.Block, a.Kind(block))
	require.Len(t, a.BlockStmts(block), 1)
	require.Equal(t, canon.LetStmt, a.BlockStmts(block)[0].Kind)
	require.Equal(t, result, a.BlockResult(block))
}

func TestIfElseSlotsOptional(t *testing.T) {
	a := canon.NewArena()
	cond := a.PushLitBool(true, canon.Zero)
	then := a.PushLitInt(1, canon.Zero)
	ifExpr := a.PushIf(cond, then, canon.NoExpr, canon.Zero)

	require.Equal(t, cond, a.IfCond(ifExpr))
	require.Equal(t, then, a.IfThen(ifExpr))
	require.Equal(t, canon.NoExpr, a.IfElse(ifExpr))
}

func TestForCarriesOptionalGuard(t *testing.T) {
	in := ident.New()
	a := canon.NewArena()
	iVar := in.Intern("i")
	start := a.PushLitInt(0, canon.Zero)
	end := a.PushLitInt(10, canon.Zero)
	body := a.PushLitUnit(canon.Zero)
	forExpr := a.PushFor(iVar, start, end, canon.NoExpr, body, canon.Zero)

	require.Equal(t, iVar, a.ForInduction(forExpr))
	require.Equal(t, canon.NoExpr, a.ForGuard(forExpr))
}

func TestPushMatchCompilesAndStoresDecisionTree(t *testing.T) {
	in := ident.New()
	a := canon.NewArena()
	some, none := in.Intern("Some"), in.Intern("None")
	x := in.Intern("x")

	scrutinee := a.PushIdent(in.Intern("opt"), canon.Zero)
	someBody := a.PushIdent(x, canon.Zero)
	noneBody := a.PushLitInt(0, canon.Zero)

	arms := []canon.MatchArmDef{
		{
			Pattern: dtree.FlatPattern{
				Kind: dtree.Variant, VariantName: some, VariantIndex: 0,
				Fields: []dtree.FlatPattern{dtree.BindingPattern(x)},
			},
			Body: someBody,
		},
		{
			Pattern: dtree.FlatPattern{Kind: dtree.Variant, VariantName: none, VariantIndex: 1},
			Body:    noneBody,
		},
	}
	matchExpr := a.PushMatch(scrutinee, arms, canon.Zero)

	require.Equal(t, canon.Match, a.Kind(matchExpr))
	require.Equal(t, scrutinee, a.MatchScrutinee(matchExpr))
	require.Equal(t, someBody, a.MatchArmBody(matchExpr, 0))
	require.Equal(t, noneBody, a.MatchArmBody(matchExpr, 1))

	tree := a.DecisionTree(a.MatchTree(matchExpr))
	sw, ok := tree.(dtree.Switch)
	require.True(t, ok)
	require.Equal(t, dtree.TestEnumTag, sw.Kind)
	require.Len(t, sw.Edges, 2)
}

func TestFuncRoundTrips(t *testing.T) {
	in := ident.New()
	a := canon.NewArena()
	name := in.Intern("identity")
	param := in.Intern("x")
	body := a.PushIdent(param, canon.Zero)

	id := a.AddFunc(canon.Func{
		Name:       name,
		Params:     []ident.Name{param},
		ParamTypes: []pool.Idx{pool.IntIdx},
		ReturnType: pool.IntIdx,
		Body:       body,
	})

	f := a.Func(id)
	require.Equal(t, name, f.Name)
	require.Equal(t, body, f.Body)
	require.Len(t, a.Funcs(), 1)
}
