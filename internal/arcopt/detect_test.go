package arcopt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/corec/internal/arcclass"
	"github.com/sunholo/corec/internal/arcopt"
	"github.com/sunholo/corec/internal/ident"
	"github.com/sunholo/corec/internal/pool"
	"github.com/sunholo/corec/internal/ssa"
)

func TestDetectReuseBasicPair(t *testing.T) {
	p := pool.New(ident.New())
	classifier := arcclass.New(p)

	f := &ssa.Func{}
	blk := ssa.Block{ID: 0}
	v0 := f.Fresh(pool.StrIdx)
	v1 := f.Fresh(pool.StrIdx)
	blk.Body = []ssa.Instr{
		ssa.RcDec{Var: v0},
		ssa.Construct{Dst: v1, Ty: pool.StrIdx, Args: nil},
	}
	blk.Term = ssa.Return{Value: v1}
	f.Blocks = []ssa.Block{blk}

	pairs := arcopt.DetectAndRewrite(f, classifier)
	require.Len(t, pairs, 1)

	reset, ok := f.Blocks[0].Body[0].(ssa.Reset)
	require.True(t, ok)
	require.Equal(t, v0, reset.Var)

	reuse, ok := f.Blocks[0].Body[1].(ssa.Reuse)
	require.True(t, ok)
	require.Equal(t, v1, reuse.Dst)
	require.Equal(t, reset.Token, reuse.Token)
}

func TestDetectRejectsAliasingUse(t *testing.T) {
	p := pool.New(ident.New())
	classifier := arcclass.New(p)

	f := &ssa.Func{}
	v0 := f.Fresh(pool.StrIdx)
	v1 := f.Fresh(pool.StrIdx)
	v2 := f.Fresh(pool.StrIdx)
	blk := ssa.Block{ID: 0, Body: []ssa.Instr{
		ssa.RcDec{Var: v0},
		ssa.Apply{Dst: v1, Args: []ssa.VarID{v0}},
		ssa.Construct{Dst: v2, Ty: pool.StrIdx},
	}, Term: ssa.Return{Value: v2}}
	f.Blocks = []ssa.Block{blk}

	pairs := arcopt.DetectAndRewrite(f, classifier)
	require.Empty(t, pairs)
	_, stillDec := f.Blocks[0].Body[0].(ssa.RcDec)
	require.True(t, stillDec)
}

func TestDetectNoopWhenNoRcDec(t *testing.T) {
	p := pool.New(ident.New())
	classifier := arcclass.New(p)
	f := &ssa.Func{}
	v0 := f.Fresh(pool.IntIdx)
	f.Blocks = []ssa.Block{{ID: 0, Body: []ssa.Instr{ssa.Let{Dst: v0, Ty: pool.IntIdx}}, Term: ssa.Return{Value: v0}}}

	pairs := arcopt.DetectAndRewrite(f, classifier)
	require.Empty(t, pairs)
}
