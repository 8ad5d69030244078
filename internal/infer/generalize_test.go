package infer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/corec/internal/infer"
	"github.com/sunholo/corec/internal/pool"
)

func TestGeneralizeQuantifiesFreeVariable(t *testing.T) {
	p, _ := fixture()
	env := infer.NewEnv()
	v := p.FreshVar(1)
	scheme := infer.Generalize(p, env, p.ListOf(v))
	require.Equal(t, pool.Scheme, p.Tag(scheme))
	require.Len(t, p.SchemeBound(scheme), 1)
	require.Equal(t, v, p.SchemeBound(scheme)[0])
}

func TestGeneralizeDoesNotQuantifyEnvBoundVariable(t *testing.T) {
	p, in := fixture()
	v := p.FreshVar(1)
	env := infer.NewEnv().Extend(in.Intern("x"), v)

	scheme := infer.Generalize(p, env, p.ListOf(v))
	require.Equal(t, pool.List, p.Tag(scheme), "v is free in env, so nothing should be quantified")
}

func TestGeneralizeOfMonomorphicTypeIsIdentity(t *testing.T) {
	p, _ := fixture()
	env := infer.NewEnv()
	out := infer.Generalize(p, env, p.ListOf(pool.IntIdx))
	require.Equal(t, p.ListOf(pool.IntIdx), out)
}

func TestInstantiateProducesFreshVariablesEachTime(t *testing.T) {
	p, _ := fixture()
	env := infer.NewEnv()
	v := p.FreshVar(1)
	scheme := infer.Generalize(p, env, p.ListOf(v))

	i1 := infer.Instantiate(p, scheme, 2)
	i2 := infer.Instantiate(p, scheme, 2)
	require.NotEqual(t, i1, i2, "each instantiation must allocate fresh variables")
	require.Equal(t, pool.List, p.Tag(i1))
}

func TestInstantiateOfMonomorphicTypeIsIdentity(t *testing.T) {
	p, _ := fixture()
	require.Equal(t, pool.IntIdx, infer.Instantiate(p, pool.IntIdx, 0))
}

func TestGeneralizeThenInstantiateUnifiesIndependently(t *testing.T) {
	p, _ := fixture()
	env := infer.NewEnv()
	v := p.FreshVar(1)
	scheme := infer.Generalize(p, env, p.Function([]pool.Idx{v}, v))

	i1 := infer.Instantiate(p, scheme, 2)
	i2 := infer.Instantiate(p, scheme, 2)

	u := infer.NewUnifier(p, "test")
	require.NoError(t, u.Unify(p.FunctionParams(i1)[0], pool.IntIdx))
	require.NoError(t, u.Unify(p.FunctionParams(i2)[0], pool.BoolIdx))
	require.Equal(t, pool.IntIdx, p.Underlying(p.FunctionReturn(i1)))
	require.Equal(t, pool.BoolIdx, p.Underlying(p.FunctionReturn(i2)))
}
