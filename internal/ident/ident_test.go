package ident_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/corec/internal/ident"
)

func TestInternDeduplicates(t *testing.T) {
	in := ident.New()
	a := in.Intern("foo")
	b := in.Intern("foo")
	require.Equal(t, a, b)
}

func TestInternDistinctStrings(t *testing.T) {
	in := ident.New()
	a := in.Intern("foo")
	b := in.Intern("bar")
	require.NotEqual(t, a, b)
}

func TestEmptyIsPreinterned(t *testing.T) {
	in := ident.New()
	require.Equal(t, ident.Empty, in.Intern(""))
	require.Equal(t, "", in.Lookup(ident.Empty))
}

func TestLookupRoundTrip(t *testing.T) {
	in := ident.New()
	n := in.Intern("hello")
	require.Equal(t, "hello", in.Lookup(n))
}

func TestNFCNormalization(t *testing.T) {
	in := ident.New()
	// "e" + combining acute (NFD) vs precomposed "é" (NFC) must collide.
	nfd := in.Intern("é")
	nfc := in.Intern("é")
	require.Equal(t, nfd, nfc)
}
