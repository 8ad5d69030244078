package infer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/corec/internal/infer"
	"github.com/sunholo/corec/internal/pool"
	"github.com/sunholo/corec/internal/registry"
)

func TestResolveSelfInDefaultSubstitutesSelfType(t *testing.T) {
	p, _ := fixture()
	def := p.ListOf(p.SelfType())
	resolved := infer.ResolveSelfInDefault(p, def, pool.IntIdx)
	require.Equal(t, p.ListOf(pool.IntIdx), resolved)
}

func TestResolveSelfInDefaultOnNoneIsNone(t *testing.T) {
	p, _ := fixture()
	require.Equal(t, pool.None, infer.ResolveSelfInDefault(p, pool.None, pool.IntIdx))
}

func TestSatisfiesBoundFindsRegisteredImpl(t *testing.T) {
	p, in := fixture()
	reg := registry.New(p)
	traitName := in.Intern("Show")
	require.NoError(t, reg.RegisterTrait(&registry.Trait{Name: traitName}))
	require.NoError(t, reg.RegisterImpl(&registry.Impl{TraitName: traitName, SelfType: pool.IntIdx}))

	require.True(t, infer.SatisfiesBound(p, reg, traitName, pool.IntIdx))
	require.False(t, infer.SatisfiesBound(p, reg, traitName, pool.BoolIdx))
}
