package diag_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sunholo/corec/internal/canon"
	"github.com/sunholo/corec/internal/diag"
)

func TestWrapReportRoundTrip(t *testing.T) {
	rep := diag.New(diag.E2001TypeMismatch, "infer", "type mismatch").
		WithSpan(canon.Span{Start: 3, Length: 5})
	err := diag.WrapReport(rep)

	got, ok := diag.AsReport(err)
	require.True(t, ok)
	require.Equal(t, rep, got)
}

func TestAsReportFailsForPlainError(t *testing.T) {
	_, ok := diag.AsReport(errors.New("boom"))
	require.False(t, ok)
}

func TestWrapReportNilIsNilError(t *testing.T) {
	require.NoError(t, diag.WrapReport(nil))
}

func TestReportErrorMessage(t *testing.T) {
	rep := diag.New(diag.E2010CoherenceViolation, "registry", "conflicting impls")
	err := diag.WrapReport(rep)
	require.Equal(t, "E2010: conflicting impls", err.Error())
}

func TestReportToJSONRoundTrips(t *testing.T) {
	rep := diag.New(diag.E2003ArityMismatch, "infer", "arity mismatch").WithData("expected", 2).WithData("found", 3)
	text, err := rep.ToJSON(true)
	require.NoError(t, err)
	require.Contains(t, text, "E2003")
	require.Contains(t, text, `"expected"`)
}

func TestLookupKnownCode(t *testing.T) {
	info, ok := diag.Lookup(diag.E2010CoherenceViolation)
	require.True(t, ok)
	require.Equal(t, "trait", info.Category)
}

func TestIsARCErrorVsTypeError(t *testing.T) {
	require.True(t, diag.IsARCError(diag.E4003ReuseInvariant))
	require.False(t, diag.IsARCError(diag.E2001TypeMismatch))
	require.True(t, diag.IsTypeError(diag.E2001TypeMismatch))
	require.False(t, diag.IsTypeError(diag.E4001UnsupportedExpr))
}

func TestNewTypeMismatchIncludesBothTypes(t *testing.T) {
	rep := diag.NewTypeMismatch("infer", "Int", "Str")
	require.Equal(t, diag.E2001TypeMismatch, rep.Code)
	require.Equal(t, "Int", rep.Data["expected"])
	require.Equal(t, "Str", rep.Data["found"])
}

func TestFormatTypeDiffMultilineTypes(t *testing.T) {
	expected := "struct Point {\n  x: Int\n  y: Int\n}"
	found := "struct Point {\n  x: Int\n  y: Float\n}"
	d := diag.FormatTypeDiff(expected, found)
	require.Contains(t, d, "-  y: Int")
	require.Contains(t, d, "+  y: Float")
}
