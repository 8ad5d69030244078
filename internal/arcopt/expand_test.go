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

func TestExpandErasesResetReusePair(t *testing.T) {
	p := pool.New(ident.New())
	classifier := arcclass.New(p)

	f := &ssa.Func{}
	v0 := f.Fresh(pool.StrIdx)
	v1 := f.Fresh(pool.StrIdx)
	f.Blocks = []ssa.Block{{
		ID:   0,
		Body: []ssa.Instr{ssa.RcDec{Var: v0}, ssa.Construct{Dst: v1, Ty: pool.StrIdx}},
		Term: ssa.Return{Value: v1},
	}}

	pairs := arcopt.DetectAndRewrite(f, classifier)
	require.Len(t, pairs, 1)

	arcopt.ExpandAll(f, p)

	for _, blk := range f.Blocks {
		for _, instr := range blk.Body {
			_, isReset := instr.(ssa.Reset)
			_, isReuse := instr.(ssa.Reuse)
			require.False(t, isReset)
			require.False(t, isReuse)
		}
	}

	// entry (prefix+IsShared+Branch), slow, fast, merge
	require.Len(t, f.Blocks, 4)
	branch, ok := f.Blocks[0].Term.(ssa.Branch)
	require.True(t, ok)

	slow := f.Blocks[branch.Then]
	require.IsType(t, ssa.RcDec{}, slow.Body[0])
	require.IsType(t, ssa.Construct{}, slow.Body[1])

	merge := f.Blocks[3] // entry(0), slow(1), fast(2), merge(3)
	_, isReturn := merge.Term.(ssa.Return)
	require.True(t, isReturn)
}

func TestExpandNoopWithoutResetReuse(t *testing.T) {
	f := &ssa.Func{}
	v0 := f.Fresh(pool.IntIdx)
	f.Blocks = []ssa.Block{{ID: 0, Body: []ssa.Instr{ssa.Let{Dst: v0, Ty: pool.IntIdx}}, Term: ssa.Return{Value: v0}}}

	before := len(f.Blocks)
	arcopt.ExpandAll(f, nil)
	require.Equal(t, before, len(f.Blocks))
}
