package diag

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// FormatTypeDiff renders a unified diff between the textual forms of an
// expected and a found type, the way termfx-morfx's internal/util diffs
// two text buffers. Used to decorate E2001TypeMismatch reports with a
// line-oriented view when the two formatted types are long enough that
// a side-by-side "expected X, found Y" is hard to scan.
func FormatTypeDiff(expected, found string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(found),
		FromFile: "expected",
		ToFile:   "found",
		Context:  0,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return strings.TrimRight(text, "\n")
}

// NewTypeMismatch builds an E2001 report with both operand types
// formatted, plus a unified diff when they're multi-line (struct/enum
// pretty-prints can span several lines; scalars never will).
func NewTypeMismatch(phase, expected, found string) *Report {
	r := New(E2001TypeMismatch, phase, "type mismatch: expected "+expected+", found "+found).
		WithData("expected", expected).
		WithData("found", found)
	if strings.Contains(expected, "\n") || strings.Contains(found, "\n") {
		if d := FormatTypeDiff(expected, found); d != "" {
			r = r.WithNote(d)
		}
	}
	return r
}
